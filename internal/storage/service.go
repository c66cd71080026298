// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/taibuivan/sakan/internal/platform/apperr"
	"github.com/taibuivan/sakan/internal/platform/ctxutil"
	"github.com/taibuivan/sakan/internal/platform/metrics"
	"github.com/taibuivan/sakan/internal/platform/upload"
)

// Service dispatches storage operations to the backend of a [StorageType].
type Service struct {
	stores  map[StorageType]Store
	metrics *metrics.Metrics
}

// NewService constructs a storage [Service] over the given backends.
func NewService(stores map[StorageType]Store, recorder *metrics.Metrics) *Service {
	return &Service{stores: stores, metrics: recorder}
}

func (service *Service) store(storageType StorageType) (Store, error) {
	store, ok := service.stores[storageType]
	if !ok {
		return nil, apperr.Invalid("StorageType")
	}
	return store, nil
}

/*
CreatePresignedURL hands out an upload URL for a file of the given type.

Returns:
  - *PresignedURL: URL and object path
  - error: Invalid storage type or backend failures
*/
func (service *Service) CreatePresignedURL(context context.Context, storageType StorageType, request PresignRequest) (*PresignedURL, error) {
	store, err := service.store(storageType)
	if err != nil {
		return nil, err
	}

	presigned, err := store.CreatePresignedURL(context, request)
	if err != nil {
		return nil, err
	}

	service.metrics.RecordPresignedURL(string(storageType), string(request.Type))
	ctxutil.GetLogger(context).InfoContext(context, "presigned_url_created",
		slog.String("storage_type", string(storageType)),
		slog.String("upload_type", string(request.Type)),
		slog.String("path", presigned.Path),
	)

	return presigned, nil
}

// VerifyFileUpload checks that ref was uploaded for uploadType.
func (service *Service) VerifyFileUpload(context context.Context, ref FileRef, uploadType UploadType) error {
	store, err := service.store(ref.StorageType)
	if err != nil {
		return err
	}
	return store.VerifyFileUpload(context, ref.Path, uploadType)
}

// VerifyFileUploads verifies every ref in order and stops at the first failure.
func (service *Service) VerifyFileUploads(context context.Context, refs []FileRef, uploadType UploadType) error {
	for _, ref := range refs {
		if err := service.VerifyFileUpload(context, ref, uploadType); err != nil {
			return err
		}
	}
	return nil
}

/*
Upload stores a file received through the multipart pipeline.

Description: The file may come from either the memory or the disk backend.

Returns:
  - *FileRef: Reference to the stored object
  - error: Unsupported mime, invalid storage type or backend failures
*/
func (service *Service) Upload(context context.Context, storageType StorageType, uploadType UploadType, file *upload.File) (*FileRef, error) {
	store, err := service.store(storageType)
	if err != nil {
		return nil, err
	}

	mime := Mime(file.MimeType)
	if _, ok := mime.Extension(); !ok {
		return nil, apperr.Invalid("Mime")
	}

	body, err := openFile(file)
	if err != nil {
		return nil, fmt.Errorf("storage_service_open_upload_failed: %w", err)
	}
	defer body.Close()

	path, err := store.Upload(context, uploadType, mime, body, file.Size)
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "file_uploaded",
		slog.String("storage_type", string(storageType)),
		slog.String("upload_type", string(uploadType)),
		slog.Int64("size", file.Size),
	)

	return &FileRef{Path: path, StorageType: storageType}, nil
}

// openFile returns the content of a staged upload from disk or memory.
func openFile(file *upload.File) (io.ReadCloser, error) {
	if file.Path != "" {
		return os.Open(file.Path)
	}
	return io.NopCloser(bytes.NewReader(file.Buffer)), nil
}
