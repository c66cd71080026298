// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/taibuivan/sakan/pkg/uuid"
)

// DiskStorage streams file parts into a directory.
type DiskStorage struct {
	// Dest is the target directory; empty means [os.TempDir].
	Dest string

	// Filename names the stored file; nil generates a unique name that keeps
	// the original extension.
	Filename func(incoming Incoming) string

	// RemoveAfter deletes files once the request completes. Without it files
	// are only deleted when a request fails.
	RemoveAfter bool
}

// HandleFile copies the part to Dest/Filename.
func (storage *DiskStorage) HandleFile(ctx context.Context, incoming Incoming) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dest := storage.Dest
	if dest == "" {
		dest = os.TempDir()
	}

	if err := os.MkdirAll(dest, 0o750); err != nil {
		return nil, fmt.Errorf("upload: failed to create %s: %w", dest, err)
	}

	filename := uniqueFilename(incoming.OriginalFilename)
	if storage.Filename != nil {
		filename = storage.Filename(incoming)
	}

	path := filepath.Join(dest, filename)
	target, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return nil, fmt.Errorf("upload: failed to create %s: %w", path, err)
	}

	written, copyErr := io.Copy(target, incoming.Content)
	closeErr := target.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("upload: failed to write %s: %w", path, err)
	}

	return &File{
		Size:             written,
		FieldName:        incoming.FieldName,
		Encoding:         incoming.Encoding,
		MimeType:         incoming.MimeType,
		OriginalFilename: incoming.OriginalFilename,
		Dest:             dest,
		Filename:         filename,
		Path:             path,
	}, nil
}

// RemoveFile unlinks the file when RemoveAfter is set or force is requested.
// A file that is already gone is not an error.
func (storage *DiskStorage) RemoveFile(file *File, force bool) error {
	if !storage.RemoveAfter && !force {
		return nil
	}

	if err := os.Remove(file.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("upload: failed to remove %s: %w", file.Path, err)
	}
	return nil
}

// uniqueFilename returns a random name with the original extension.
func uniqueFilename(original string) string {
	return uuid.Compact() + filepath.Ext(filepath.Base(original))
}
