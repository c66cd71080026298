// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package redis builds the go-redis client that backs short-lived state:
// one-time passwords and presigned uploads awaiting verification.
package redis

import (
	stdctx "context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultPoolSize = 10
	dialTimeout     = 3 * time.Second
	ioTimeout       = 2 * time.Second
	pingTimeout     = 2 * time.Second
)

// Options describes how to reach the Redis server.
type Options struct {
	Addr     string
	Password string
	DB       int

	// PoolSize defaults to 10 when zero.
	PoolSize int
}

func (opts Options) client() *redis.Options {
	poolSize := opts.PoolSize
	if poolSize <= 0 {
		poolSize = defaultPoolSize
	}

	return &redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     poolSize,
		MinIdleConns: poolSize / 5,
		MaxIdleConns: poolSize / 2,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
	}
}

// NewClient builds a pooled client and fails fast if the server does not
// answer PING.
func NewClient(context stdctx.Context, opts Options, logger *slog.Logger) (*redis.Client, error) {
	if opts.Addr == "" {
		return nil, errors.New("redis: empty address")
	}

	options := opts.client()
	client := redis.NewClient(options)

	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

// Ping checks liveness with a short deadline. Readiness probes call it per request.
func Ping(context stdctx.Context, client redis.UniversalClient) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
