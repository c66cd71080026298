// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey holds the typed keys for per-request context values.
package ctxkey

// key is unexported so no other package can build a colliding key.
type key string

const (
	// KeyRequestID carries the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyPrincipal carries the principal resolved by the session guard.
	KeyPrincipal key = "principal"

	// KeyActor is the mutable slot the request logger reads after the handler.
	KeyActor key = "actor"

	// KeyLogger carries the request-scoped [*log/slog.Logger].
	KeyLogger key = "logger"

	// KeyUpload carries the parsed multipart result.
	KeyUpload key = "upload"
)
