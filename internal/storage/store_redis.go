// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/sakan/internal/platform/constants"
)

// RedisUploadRegistry implements [UploadRegistry] using Redis.
type RedisUploadRegistry struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewUploadRegistry creates a Redis-backed registry whose records live for ttl.
func NewUploadRegistry(client redis.Cmdable, ttl time.Duration) *RedisUploadRegistry {
	return &RedisUploadRegistry{client: client, ttl: ttl}
}

func uploadingKey(path string) string {
	return constants.RedisPrefixUploadingFile + path
}

// Record stores the pending upload as JSON {type, mime}.
func (registry *RedisUploadRegistry) Record(context context.Context, path string, file UploadingFile) error {
	payload, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("redis_upload_registry_encode_failed: %w", err)
	}

	if err := registry.client.Set(context, uploadingKey(path), payload, registry.ttl).Err(); err != nil {
		return fmt.Errorf("redis_upload_registry_set_failed: %w", err)
	}
	return nil
}

// Lookup returns the pending upload of a path.
func (registry *RedisUploadRegistry) Lookup(context context.Context, path string) (*UploadingFile, error) {
	payload, err := registry.client.Get(context, uploadingKey(path)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrFileNotFound()
		}
		return nil, fmt.Errorf("redis_upload_registry_get_failed: %w", err)
	}

	var file UploadingFile
	if err := json.Unmarshal(payload, &file); err != nil {
		return nil, fmt.Errorf("redis_upload_registry_decode_failed: %w", err)
	}
	return &file, nil
}
