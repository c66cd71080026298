// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/taibuivan/sakan/internal/platform/apperr"
	"github.com/taibuivan/sakan/pkg/uuid"
)

// # Contracts

// Store is one storage backend.
type Store interface {
	CreatePresignedURL(context context.Context, request PresignRequest) (*PresignedURL, error)
	VerifyFileUpload(context context.Context, path string, uploadType UploadType) error
	Upload(context context.Context, uploadType UploadType, mime Mime, body io.Reader, size int64) (string, error)
}

// UploadRegistry remembers which paths were handed out and for what.
type UploadRegistry interface {
	// Record stores the pending upload of a path.
	Record(context context.Context, path string, file UploadingFile) error

	// Lookup returns the pending upload of a path, or ErrFileNotFound.
	Lookup(context context.Context, path string) (*UploadingFile, error)
}

// PresignRequest is a validated request for a presigned upload.
type PresignRequest struct {
	Type UploadType
	Mime Mime
	Size int64
}

// # Errors

// ErrFileNotFound reports an unknown, expired, or never-uploaded path.
func ErrFileNotFound() *apperr.AppError {
	return apperr.NotFound("File")
}

// ErrInvalidType reports a path issued for another upload type.
func ErrInvalidType(expected UploadType) *apperr.AppError {
	appError := apperr.Invalid("UploadType")
	appError.Message = fmt.Sprintf("File was not uploaded as %s", expected)
	return appError
}

// objectPath builds {type}/{uuid without dashes}.{ext}.
func objectPath(uploadType UploadType, mime Mime) (string, error) {
	ext, ok := mime.Extension()
	if !ok {
		return "", apperr.Invalid("Mime")
	}
	return fmt.Sprintf("%s/%s.%s", uploadType, uuid.Compact(), ext), nil
}
