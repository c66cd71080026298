// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides unique identifiers for sessions, request tracing and
object storage keys.

It wraps the google/uuid library with the two shapes the platform needs:

  - New: a time-sortable Version 7 string, used for request ids.
  - Compact: a random Version 4 value without dashes, used in object keys
    where the id must not leak creation time.
*/
package uuid

import (
	"strings"

	"github.com/google/uuid"
)

// # Generators

// New generates a new UUIDv7 string.
func New() string {

	// Create a new version 7 UUID (time-sortable)
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}

	return id.String()
}

// Compact returns a random UUIDv4 rendered as 32 lowercase hex characters.
func Compact() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Parse validates and normalizes a UUID string.
func Parse(value string) (uuid.UUID, error) {
	return uuid.Parse(value)
}
