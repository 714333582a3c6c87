// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SiteSettingStore keeps JSON documents in site_settings, keyed by name.
type SiteSettingStore struct {
	db     *sql.DB
	public *sql.DB
}

// NewSiteSettingStore returns a new SiteSettingStore. public may be nil.
func NewSiteSettingStore(db, public *sql.DB) *SiteSettingStore {
	if public == nil {
		public = db
	}
	return &SiteSettingStore{db: db, public: public}
}

// Get unmarshals the document stored under key into dst and reports
// whether it existed. dst is left untouched when it did not.
func (s *SiteSettingStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	return s.get(ctx, s.db, key, dst)
}

// Public is Get through the public pool.
func (s *SiteSettingStore) Public(ctx context.Context, key string, dst any) (bool, error) {
	return s.get(ctx, s.public, key, dst)
}

func (s *SiteSettingStore) get(ctx context.Context, db *sql.DB, key string, dst any) (bool, error) {
	var raw []byte
	err := db.QueryRowContext(ctx, `SELECT value FROM site_settings WHERE key = $1`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get site setting %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode site setting %s: %w", key, err)
	}
	return true, nil
}

// Set upserts the document under key.
func (s *SiteSettingStore) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode site setting %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO site_settings (key, value, updated_at)
		VALUES ($1, $2::jsonb, $3)
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, string(raw), time.Now(),
	)
	if err != nil {
		return fmt.Errorf("set site setting %s: %w", key, err)
	}
	return nil
}

// Keys lists every stored key.
func (s *SiteSettingStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM site_settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list site settings: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan site setting key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
