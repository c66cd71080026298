// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package upload turns multipart/form-data request bodies into plain field values
and staged files.

Architecture:

  - Backend: where file bytes go ([MemoryStorage] or [DiskStorage]).
  - Policy: which field names may carry files and how many ([AnyFiles],
    [SingleFile], [MultipleFiles], [FileFields]).
  - Parse: the single per-part loop shared by every policy.
  - Middleware: runs Parse for multipart requests and removes staged files
    once the handler has returned.

Every file materialized during a request is either handed to the handler or
removed before the request completes, including on error.
*/
package upload

import (
	"context"
	"errors"
	"io"
)

// File is a file part that has been written to a [Backend].
type File struct {
	Size             int64  `json:"size"`
	FieldName        string `json:"fieldName"`
	Encoding         string `json:"encoding"`
	MimeType         string `json:"mimeType"`
	OriginalFilename string `json:"originalFilename"`

	// Disk backend
	Dest     string `json:"dest,omitempty"`
	Filename string `json:"filename,omitempty"`
	Path     string `json:"path,omitempty"`

	// Memory backend
	Buffer []byte `json:"-"`
}

// Incoming describes a file part before it reaches a backend.
type Incoming struct {
	FieldName        string
	OriginalFilename string
	MimeType         string
	Encoding         string
	Content          io.Reader
}

// Backend stores file parts and removes them again.
type Backend interface {
	// HandleFile fully consumes the incoming content and returns the stored
	// file. On a read error it keeps nothing and returns the error wrapped.
	HandleFile(ctx context.Context, incoming Incoming) (*File, error)

	// RemoveFile discards a stored file. Backends that retain files by
	// default must still remove them when force is set.
	RemoveFile(file *File, force bool) error
}

// removeFiles removes every file from the backend and joins the failures.
func removeFiles(backend Backend, files []*File, force bool) error {
	var errs []error
	for _, file := range files {
		if file == nil {
			continue
		}
		if err := backend.RemoveFile(file, force); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
