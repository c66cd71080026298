// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload

import "fmt"

// Field declares a file field and how many files it accepts.
type Field struct {
	Name     string
	MaxCount int
}

// Policy decides which file parts are allowed. It is consulted before a part
// reaches the backend, so refused parts are never written.
type Policy struct {
	name  string
	allow func(fieldName string, accepted int) error
}

// AnyFiles accepts every file part.
func AnyFiles() Policy {
	return Policy{
		name:  "any_files",
		allow: func(string, int) error { return nil },
	}
}

// SingleFile accepts exactly one file under fieldName.
func SingleFile(fieldName string) Policy {
	return Policy{
		name: "single_file",
		allow: func(partField string, accepted int) error {
			if partField != fieldName {
				return refuse(partField, fmt.Sprintf("Field %s doesn't accept file", partField))
			}
			if accepted >= 1 {
				return refuse(partField, fmt.Sprintf("Field %s accepts only one file", fieldName))
			}
			return nil
		},
	}
}

// MultipleFiles accepts up to maxCount files under fieldName. A maxCount of
// zero or less means no cap.
func MultipleFiles(fieldName string, maxCount int) Policy {
	return FileFields(Field{Name: fieldName, MaxCount: maxCount})
}

// FileFields accepts files under the declared fields, each with its own cap.
func FileFields(fields ...Field) Policy {
	caps := make(map[string]int, len(fields))
	for _, field := range fields {
		caps[field.Name] = field.MaxCount
	}

	return Policy{
		name: "file_fields",
		allow: func(partField string, accepted int) error {
			maxCount, ok := caps[partField]
			if !ok {
				return refuse(partField, fmt.Sprintf("Field %s doesn't accept files", partField))
			}
			if maxCount > 0 && accepted >= maxCount {
				if maxCount == 1 {
					return refuse(partField, fmt.Sprintf("Field %s accepts only one file", partField))
				}
				return refuse(partField, fmt.Sprintf("Field %s accepts at most %d files", partField, maxCount))
			}
			return nil
		},
	}
}
