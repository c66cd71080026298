// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload

import (
	"net/http"

	"github.com/taibuivan/sakan/internal/platform/apperr"
	"github.com/taibuivan/sakan/internal/platform/metrics"
)

// defaultFieldSize bounds a plain form value when no limit is configured.
const defaultFieldSize = 1 << 20

// Limits bounds a single multipart request. Zero means unlimited, except
// FieldSize which falls back to 1 MiB.
type Limits struct {
	// FileSize is the maximum size of a single file part in bytes.
	FileSize int64
	// Files is the maximum number of file parts.
	Files int
	// Fields is the maximum number of non-file parts.
	Fields int
	// FieldSize is the maximum size of a non-file value in bytes.
	FieldSize int64
}

// Filter inspects a stored file. Returning false drops the file; returning an
// error aborts the request. Use [Reject] for client-facing rejections.
type Filter func(request *http.Request, file *File) (bool, error)

// Reject builds the validation error a [Filter] returns to refuse a file.
func Reject(file *File, message string) error {
	return apperr.ValidationError(message, apperr.FieldError{Field: file.FieldName, Message: message})
}

// Options configures the pipeline for one route.
type Options struct {
	// Dest switches to a [DiskStorage] rooted at this directory. Disk options
	// of an existing DiskStorage in Storage are preserved.
	Dest string

	// Storage is the backend; nil means [MemoryStorage].
	Storage Backend

	// Filter is called for every stored file.
	Filter Filter

	Limits Limits

	// Metrics records file outcomes and cleanups; nil disables recording.
	Metrics *metrics.Metrics
}

// resolve fills defaults without mutating the caller's options.
func (opts Options) resolve() Options {
	if opts.Dest != "" {
		disk := &DiskStorage{Dest: opts.Dest}
		if existing, ok := opts.Storage.(*DiskStorage); ok {
			disk.Filename = existing.Filename
			disk.RemoveAfter = existing.RemoveAfter
		}
		opts.Storage = disk
	}

	if opts.Storage == nil {
		opts.Storage = NewMemoryStorage()
	}

	if opts.Limits.FieldSize <= 0 {
		opts.Limits.FieldSize = defaultFieldSize
	}

	return opts
}
