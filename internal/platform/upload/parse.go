// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/taibuivan/sakan/internal/platform/apperr"
	"github.com/taibuivan/sakan/internal/platform/ctxutil"
)

// Result is the outcome of a successful [Parse].
type Result struct {
	// Fields holds the non-file values; a repeated name keeps the last value.
	Fields map[string]string

	// Files lists every accepted file in arrival order.
	Files []*File

	// FilesByField groups accepted files by field name.
	FilesByField map[string][]*File

	backend Backend
	removed bool
}

// File returns the first accepted file, or nil. It is the natural accessor
// for [SingleFile] policies.
func (result *Result) File() *File {
	if len(result.Files) == 0 {
		return nil
	}
	return result.Files[0]
}

// Field returns a non-file value, or an empty string.
func (result *Result) Field(name string) string {
	return result.Fields[name]
}

// Remove releases every accepted file using the backend's normal policy.
// It is idempotent.
func (result *Result) Remove() error {
	if result.removed {
		return nil
	}
	result.removed = true
	return removeFiles(result.backend, result.Files, false)
}

// Parse reads the multipart body of request according to policy and opts.
//
// On failure every file already written during this call is removed with
// force set, and the original error is returned.
func Parse(request *http.Request, policy Policy, opts Options) (*Result, error) {
	opts = opts.resolve()
	ctx := request.Context()

	reader, err := request.MultipartReader()
	if err != nil {
		return nil, apperr.ValidationError("Invalid multipart payload")
	}

	result := &Result{
		Fields:       make(map[string]string),
		FilesByField: make(map[string][]*File),
		backend:      opts.Storage,
	}

	// written tracks every file the backend holds, including ones a filter
	// dropped after the backend already removed them.
	var written []*File

	if err := parseParts(ctx, request, reader, policy, opts, result, &written); err != nil {
		if cleanupErr := removeFiles(opts.Storage, written, true); cleanupErr != nil {
			ctxutil.GetLogger(ctx).WarnContext(ctx, "upload_cleanup_failed",
				slog.String("policy", policy.name),
				slog.String("error", cleanupErr.Error()),
			)
		}
		opts.Metrics.RecordUploadCleanup("failure", len(written))
		return nil, err
	}

	return result, nil
}

func parseParts(
	ctx context.Context,
	request *http.Request,
	reader *multipart.Reader,
	policy Policy,
	opts Options,
	result *Result,
	written *[]*File,
) error {
	fieldCount, fileCount := 0, 0

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return apperr.ValidationError("Malformed multipart payload")
		}

		name := part.FormName()

		// 1. Plain values go to the field map
		if part.FileName() == "" {
			fieldCount++
			if opts.Limits.Fields > 0 && fieldCount > opts.Limits.Fields {
				return apperr.ValidationError(fmt.Sprintf("Too many fields. Maximum is %d", opts.Limits.Fields))
			}

			value, err := io.ReadAll(io.LimitReader(part, opts.Limits.FieldSize+1))
			if err != nil {
				return apperr.ValidationError("Malformed multipart payload")
			}
			if int64(len(value)) > opts.Limits.FieldSize {
				return refuse(name, fmt.Sprintf("Field %s is too large. Maximum size is %d bytes", name, opts.Limits.FieldSize))
			}

			result.Fields[name] = string(value)
			continue
		}

		// 2. File parts are checked against the count limit and the policy
		fileCount++
		if opts.Limits.Files > 0 && fileCount > opts.Limits.Files {
			opts.Metrics.RecordUploadedFile("rejected")
			return apperr.ValidationError(fmt.Sprintf("Too many files. Maximum is %d", opts.Limits.Files))
		}

		if err := policy.allow(name, len(result.FilesByField[name])); err != nil {
			opts.Metrics.RecordUploadedFile("rejected")
			return err
		}

		// 3. The size limit is enforced while the backend streams the part
		content := &partReader{reader: part, limit: opts.Limits.FileSize}

		encoding := part.Header.Get("Content-Transfer-Encoding")
		if encoding == "" {
			encoding = "7bit"
		}

		file, err := opts.Storage.HandleFile(ctx, Incoming{
			FieldName:        name,
			OriginalFilename: part.FileName(),
			MimeType:         part.Header.Get("Content-Type"),
			Encoding:         encoding,
			Content:          content,
		})
		if errors.Is(err, errFileTooLarge) {
			opts.Metrics.RecordUploadedFile("rejected")
			return refuse(name, fmt.Sprintf("File %s is too large. Maximum size is %d bytes", name, opts.Limits.FileSize))
		}
		if errors.Is(err, errMalformedPart) {
			return apperr.ValidationError("Malformed multipart payload")
		}
		if err != nil {
			return err
		}
		*written = append(*written, file)

		// 4. The filter has the final say
		keep, err := applyFilter(request, opts, file)
		if err != nil {
			opts.Metrics.RecordUploadedFile("rejected")
			return err
		}
		if !keep {
			opts.Metrics.RecordUploadedFile("filtered")
			continue
		}

		opts.Metrics.RecordUploadedFile("accepted")
		result.Files = append(result.Files, file)
		result.FilesByField[name] = append(result.FilesByField[name], file)
	}
}

// applyFilter runs the optional filter. A dropped or failing file is
// force-removed from the backend right away.
func applyFilter(request *http.Request, opts Options, file *File) (bool, error) {
	if opts.Filter == nil {
		return true, nil
	}

	keep, err := opts.Filter(request, file)
	if err != nil || !keep {
		if removeErr := opts.Storage.RemoveFile(file, true); removeErr != nil && err == nil {
			return false, removeErr
		}
	}
	return keep && err == nil, err
}

var (
	errFileTooLarge  = errors.New("upload: file exceeds size limit")
	errMalformedPart = errors.New("upload: malformed multipart part")
)

// partReader streams a file part to a backend. With a positive limit it
// passes through at most limit bytes and fails with errFileTooLarge as soon
// as the part proves longer. Read failures of the body are reported as
// errMalformedPart so the caller can tell them from backend failures.
type partReader struct {
	reader io.Reader
	limit  int64
	read   int64
}

func (stream *partReader) Read(buffer []byte) (int, error) {
	if stream.limit > 0 {
		remaining := stream.limit - stream.read
		if remaining <= 0 {
			var extra [1]byte
			n, err := stream.reader.Read(extra[:])
			if n > 0 {
				return 0, errFileTooLarge
			}
			return 0, stream.wrap(err)
		}
		if int64(len(buffer)) > remaining {
			buffer = buffer[:remaining]
		}
	}

	n, err := stream.reader.Read(buffer)
	stream.read += int64(n)
	return n, stream.wrap(err)
}

func (stream *partReader) wrap(err error) error {
	if err == nil || errors.Is(err, io.EOF) {
		return err
	}
	return fmt.Errorf("%w: %w", errMalformedPart, err)
}

// refuse builds a field-scoped validation error.
func refuse(field, message string) error {
	return apperr.ValidationError(message, apperr.FieldError{Field: field, Message: message})
}
