// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// FetchCache memoizes public data reads in process memory. Entries are
// grouped by tag (the catalog or settings name) so a revalidation for a
// tag drops every read that depended on it.
type FetchCache struct {
	items *gocache.Cache
}

// NewFetchCache creates a fetch cache whose entries expire after ttl.
func NewFetchCache(ttl time.Duration) *FetchCache {
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return &FetchCache{items: gocache.New(ttl, 10*time.Minute)}
}

func fetchKey(tag, key string) string {
	return tag + "|" + key
}

// Fetch returns the cached value for tag/key, or runs load and caches its
// result. Errors are never cached. A nil cache always loads.
func Fetch[T any](fc *FetchCache, tag, key string, load func() (T, error)) (T, error) {
	if fc == nil {
		return load()
	}
	if v, ok := fc.items.Get(fetchKey(tag, key)); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	fc.items.SetDefault(fetchKey(tag, key), v)
	return v, nil
}

// InvalidateTag drops every entry stored under tag.
func (fc *FetchCache) InvalidateTag(tag string) int {
	prefix := tag + "|"
	n := 0
	for k := range fc.items.Items() {
		if strings.HasPrefix(k, prefix) {
			fc.items.Delete(k)
			n++
		}
	}
	return n
}

// Flush drops everything.
func (fc *FetchCache) Flush() {
	fc.items.Flush()
}

// Revalidate drops the given tags; paths are ignored. The tag "*"
// flushes the whole cache.
func (fc *FetchCache) Revalidate(_ context.Context, _, tags []string) error {
	for _, t := range tags {
		if t == "*" {
			fc.Flush()
			return nil
		}
		fc.InvalidateTag(t)
	}
	return nil
}
