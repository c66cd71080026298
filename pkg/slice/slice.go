// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slice holds generic slice helpers missing from the standard
// [slices] package.
package slice

// Map applies transform to every element. A nil input stays nil so optional
// request collections keep their "absent" meaning.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, value := range input {
		result[i] = transform(value)
	}
	return result
}
