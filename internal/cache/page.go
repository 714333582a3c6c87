// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed full-page HTML cache. Public pages are
// keyed by request path, so a revalidation for "/services" drops exactly
// the entry that path rendered.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is the Valkey key prefix for cached pages.
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 5 * time.Minute
)

// PageCache manages full-page HTML caching in Valkey.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a new page cache backed by the given Valkey client.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// PathKey normalizes a request path into a cache key: trailing slashes
// are dropped and the empty path is the homepage.
func PathKey(path string) string {
	path = strings.TrimRight(path, "/")
	if path == "" {
		return "/"
	}
	return path
}

// Get retrieves cached HTML for a path.
func (pc *PageCache) Get(ctx context.Context, path string) ([]byte, bool) {
	key := pageKeyPrefix + PathKey(path)
	val, err := pc.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("page cache hit", "key", key)
	return val, true
}

// Set stores rendered HTML for a path with the configured TTL.
func (pc *PageCache) Set(ctx context.Context, path string, html []byte) {
	key := pageKeyPrefix + PathKey(path)
	if err := pc.client.Set(ctx, key, html, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// InvalidatePage removes a single path from the cache.
func (pc *PageCache) InvalidatePage(ctx context.Context, path string) error {
	if err := pc.client.Del(ctx, pageKeyPrefix+PathKey(path)).Err(); err != nil {
		return err
	}
	slog.Debug("page cache invalidated", "path", path)
	return nil
}

// InvalidateAll removes all cached pages by scanning for the prefix.
// Used when site-wide settings change, since every page shares the
// header and footer.
func (pc *PageCache) InvalidateAll(ctx context.Context) error {
	deleted, err := pc.invalidateMatching(ctx, pageKeyPrefix+"*")
	if err != nil {
		return err
	}
	if deleted > 0 {
		slog.Info("page cache fully cleared", "deleted", deleted)
	}
	return nil
}

// InvalidatePrefix removes every cached page below prefix, e.g. all
// service detail pages for "/services".
func (pc *PageCache) InvalidatePrefix(ctx context.Context, prefix string) error {
	deleted, err := pc.invalidateMatching(ctx, pageKeyPrefix+PathKey(prefix)+"/*")
	if err != nil {
		return err
	}
	slog.Debug("page cache prefix invalidated", "prefix", prefix, "deleted", deleted)
	return nil
}

func (pc *PageCache) invalidateMatching(ctx context.Context, pattern string) (int, error) {
	var cursor uint64
	var deleted int
	for {
		keys, next, err := pc.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				return deleted, err
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

// Revalidate drops the given paths. Admin paths are never cached and are
// skipped. "*" clears everything and a trailing "/*" drops every page
// below that prefix. Tags are not used by the page cache.
func (pc *PageCache) Revalidate(ctx context.Context, paths, _ []string) error {
	var errs []error
	for _, p := range paths {
		switch {
		case p == "*":
			errs = append(errs, pc.InvalidateAll(ctx))
		case strings.HasPrefix(p, "/admin"):
			continue
		case strings.HasSuffix(p, "/*"):
			errs = append(errs, pc.InvalidatePrefix(ctx, strings.TrimSuffix(p, "/*")))
		default:
			errs = append(errs, pc.InvalidatePage(ctx, p))
		}
	}
	return errors.Join(errs...)
}
