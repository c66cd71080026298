// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/sakan/internal/platform/apperr"
	"github.com/taibuivan/sakan/internal/platform/metrics"
	requestutil "github.com/taibuivan/sakan/internal/platform/request"
	"github.com/taibuivan/sakan/internal/platform/respond"
	"github.com/taibuivan/sakan/internal/platform/upload"
	"github.com/taibuivan/sakan/internal/platform/validate"
)

const (
	fieldType        = "type"
	fieldMime        = "mime"
	fieldSize        = "size"
	fieldPath        = "path"
	fieldStorageType = "storageType"
	fieldUploadType  = "uploadType"
	fieldFile        = "file"
)

// Handler implements the storage endpoints.
type Handler struct {
	storageService *Service
	requireAuth    func(http.Handler) http.Handler
	metrics        *metrics.Metrics
	uploadDir      string
}

// NewHandler constructs a new [Handler]. requireAuth guards the routes that
// need a signed-in caller. A non-empty uploadDir stages proxied uploads on
// disk instead of in memory.
func NewHandler(service *Service, requireAuth func(http.Handler) http.Handler, recorder *metrics.Metrics, uploadDir string) *Handler {
	return &Handler{storageService: service, requireAuth: requireAuth, metrics: recorder, uploadDir: uploadDir}
}

func (handler *Handler) uploadBackend() upload.Backend {
	if handler.uploadDir == "" {
		return upload.NewMemoryStorage()
	}
	return &upload.DiskStorage{Dest: handler.uploadDir, RemoveAfter: true}
}

// Routes returns a [chi.Router] configured with storage routes.
//
// # Endpoints
//   - POST /presigned-url/{storage_type} : Issues a presigned PUT URL.
//   - POST /verify                       : Checks an uploaded file (auth).
//   - POST /upload/{storage_type}        : Uploads through the API (auth, multipart).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/presigned-url/{storage_type}", handler.createPresignedURL)

	router.Group(func(r chi.Router) {
		r.Use(handler.requireAuth)
		r.Post("/verify", handler.verify)
		r.With(upload.Middleware(upload.SingleFile(fieldFile), upload.Options{
			Storage: handler.uploadBackend(),
			Filter:  supportedMimeFilter,
			Limits:  upload.Limits{FileSize: MaxFileSize, Files: 1},
			Metrics: handler.metrics,
		})).Post("/upload/{storage_type}", handler.upload)
	})

	return router
}

// supportedMimeFilter refuses files whose content type cannot be stored.
func supportedMimeFilter(_ *http.Request, file *upload.File) (bool, error) {
	if _, ok := Mime(file.MimeType).Extension(); !ok {
		return false, upload.Reject(file, "Unsupported file type")
	}
	return true, nil
}

type presignRequest struct {
	Type string `json:"type"`
	Mime string `json:"mime"`
	Size int64  `json:"size"`
}

type verifyRequest struct {
	Path        string `json:"path"`
	StorageType string `json:"storageType"`
	UploadType  string `json:"uploadType"`
}

func parseStorageType(request *http.Request) (StorageType, error) {
	storageType, ok := ParseStorageType(requestutil.Param(request, "storage_type"))
	if !ok {
		return "", apperr.Invalid("StorageType")
	}
	return storageType, nil
}

/*
POST /api/v1/storage/presigned-url/{storage_type}

Request:
  - Body: presignRequest (Type, Mime, Size)

Response:
  - 200: PresignedURL
  - 400: Validation / Invalid storage type
*/
func (handler *Handler) createPresignedURL(writer http.ResponseWriter, request *http.Request) {
	storageType, err := parseStorageType(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input presignRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.OneOf(fieldType, input.Type, UploadTypes...).
		OneOf(fieldMime, input.Mime, SupportedMimes...).
		Range(fieldSize, input.Size, 1, MaxFileSize)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	presigned, err := handler.storageService.CreatePresignedURL(request.Context(), storageType, PresignRequest{
		Type: UploadType(input.Type),
		Mime: Mime(input.Mime),
		Size: input.Size,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, presigned)
}

/*
POST /api/v1/storage/verify

Response:
  - 204: File exists and was issued for the upload type
  - 400: Validation / Invalid type
  - 404: NotFound: Unknown or missing file
*/
func (handler *Handler) verify(writer http.ResponseWriter, request *http.Request) {
	var input verifyRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(fieldPath, input.Path).
		OneOf(fieldStorageType, input.StorageType, string(StorageS3)).
		OneOf(fieldUploadType, input.UploadType, UploadTypes...)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ref := FileRef{Path: input.Path, StorageType: StorageType(input.StorageType)}
	if err := handler.storageService.VerifyFileUpload(request.Context(), ref, UploadType(input.UploadType)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
POST /api/v1/storage/upload/{storage_type}

Request:
  - Body: multipart/form-data with a "file" part and a "type" field

Response:
  - 201: FileRef
  - 400: Validation: Missing file, unsupported mime or type
*/
func (handler *Handler) upload(writer http.ResponseWriter, request *http.Request) {
	storageType, err := parseStorageType(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result := upload.FromContext(request.Context())
	if result == nil || result.File() == nil {
		respond.Error(writer, request, validate.FieldErr(fieldFile, "This field is required"))
		return
	}

	uploadType := result.Field(fieldType)
	if err := (&validate.Validator{}).OneOf(fieldType, uploadType, UploadTypes...).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ref, err := handler.storageService.Upload(request.Context(), storageType, UploadType(uploadType), result.File())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, ref)
}
