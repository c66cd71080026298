// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload

import (
	"bytes"
	"context"
	"fmt"
)

// MemoryStorage buffers file parts in memory.
type MemoryStorage struct{}

// NewMemoryStorage creates an in-memory backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// HandleFile reads the whole part into [File.Buffer].
func (storage *MemoryStorage) HandleFile(ctx context.Context, incoming Incoming) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	if _, err := buffer.ReadFrom(incoming.Content); err != nil {
		return nil, fmt.Errorf("upload: failed to buffer %s: %w", incoming.FieldName, err)
	}

	return &File{
		Size:             int64(buffer.Len()),
		FieldName:        incoming.FieldName,
		Encoding:         incoming.Encoding,
		MimeType:         incoming.MimeType,
		OriginalFilename: incoming.OriginalFilename,
		Buffer:           buffer.Bytes(),
	}, nil
}

// RemoveFile truncates the buffer. It never fails.
func (storage *MemoryStorage) RemoveFile(file *File, _ bool) error {
	file.Buffer = file.Buffer[:0]
	return nil
}
