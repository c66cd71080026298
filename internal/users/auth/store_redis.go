// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/sakan/internal/platform/apperr"
	"github.com/taibuivan/sakan/internal/platform/constants"
)

// # OTP Repository

// RedisOTPRepository implements [OTPRepository] using Redis.
type RedisOTPRepository struct {
	client redis.Cmdable
}

// NewOTPRepository creates a new Redis-backed OTPRepository.
func NewOTPRepository(client redis.Cmdable) *RedisOTPRepository {
	return &RedisOTPRepository{client: client}
}

// otpKey builds the cache key of a code: otp:{userId}:{type}:{code}.
func otpKey(userID int64, otpType OTPType, code string) string {
	return fmt.Sprintf("%s%d:%s:%s", constants.RedisPrefixOTP, userID, otpType, code)
}

/*
Set stores a code with its TTL.

Parameters:
  - context: context.Context
  - key: string
  - code: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisOTPRepository) Set(context context.Context, key, code string, ttl time.Duration) error {
	if err := repository.client.SetEx(context, key, code, ttl).Err(); err != nil {
		return fmt.Errorf("redis_otp_set_failed: %w", err)
	}
	return nil
}

/*
Take reads and deletes a code in one round trip.

Description: GETDEL keeps redemption single use when two verifications race.

Returns:
  - string: The stored code
  - error: apperr.NotFound("OTP") or connectivity errors
*/
func (repository *RedisOTPRepository) Take(context context.Context, key string) (string, error) {
	code, err := repository.client.GetDel(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("OTP")
		}
		return "", fmt.Errorf("redis_otp_take_failed: %w", err)
	}
	return code, nil
}
