// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload

import (
	"context"
	"log/slog"
	"mime"
	"net/http"

	"github.com/taibuivan/sakan/internal/platform/constants"
	"github.com/taibuivan/sakan/internal/platform/ctxkey"
	"github.com/taibuivan/sakan/internal/platform/ctxutil"
	"github.com/taibuivan/sakan/internal/platform/respond"
)

// Middleware parses multipart/form-data requests with the given policy and
// stores the [Result] in the request context. Other content types pass
// through untouched. Accepted files are removed after the handler returns.
func Middleware(policy Policy, opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			if !IsMultipart(request) {
				next.ServeHTTP(writer, request)
				return
			}

			result, err := Parse(request, policy, opts)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			ctx := request.Context()
			defer func() {
				count := len(result.Files)
				if err := result.Remove(); err != nil {
					ctxutil.GetLogger(ctx).WarnContext(ctx, "upload_cleanup_failed",
						slog.String("policy", policy.name),
						slog.String("error", err.Error()),
					)
					return
				}
				opts.Metrics.RecordUploadCleanup("completed", count)
			}()

			next.ServeHTTP(writer, request.WithContext(WithResult(ctx, result)))
		})
	}
}

// IsMultipart reports whether the request body is multipart/form-data.
func IsMultipart(request *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(request.Header.Get(constants.HeaderContentType))
	return err == nil && mediaType == "multipart/form-data"
}

// WithResult attaches a parsed upload to the context.
func WithResult(ctx context.Context, result *Result) context.Context {
	return context.WithValue(ctx, ctxkey.KeyUpload, result)
}

// FromContext returns the parsed upload, or nil when the request was not multipart.
func FromContext(ctx context.Context) *Result {
	result, _ := ctx.Value(ctxkey.KeyUpload).(*Result)
	return result
}
