// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/sakan/internal/platform/ctxkey"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}

// # Actor Attribution

// actorSlot is filled by route-level auth middleware and read back by the
// outer request logger, which never sees the inner request context.
type actorSlot struct {
	value string
}

// WithActorSlot returns a context carrying an empty, writable actor slot.
func WithActorSlot(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxkey.KeyActor, &actorSlot{})
}

// SetActor records the authenticated actor (e.g. "SELLER:42") in the slot.
// It is a no-op when the context carries no slot.
func SetActor(ctx context.Context, actor string) {
	if slot, ok := ctx.Value(ctxkey.KeyActor).(*actorSlot); ok {
		slot.value = actor
	}
}

// GetActor returns the recorded actor, or an empty string for anonymous requests.
func GetActor(ctx context.Context) string {
	if slot, ok := ctx.Value(ctxkey.KeyActor).(*actorSlot); ok {
		return slot.value
	}
	return ""
}
