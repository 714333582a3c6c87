// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cache provides the Valkey (Redis-compatible) client, the
// full-page HTML cache for public pages, and the in-process fetch cache
// for public catalog reads. Both caches drop entries on revalidation
// requests coming from the admin write path.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// connectTimeout bounds the startup ping.
const connectTimeout = 5 * time.Second

// ConnectValkey opens the client shared by sessions and the page cache.
// The server refuses to start when the first ping fails.
func ConnectValkey(ctx context.Context, host, port, password string) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:         net.JoinHostPort(host, port),
		Password:     password,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect valkey %s: %w", opts.Addr, err)
	}

	slog.Info("valkey connected", "addr", opts.Addr)
	return client, nil
}
