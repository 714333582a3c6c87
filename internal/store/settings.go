// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"caresite/internal/models"
)

type (
	HeroStore         = Singleton[models.HeroSettings]
	ContactStore      = Singleton[models.ContactSettings]
	AboutContentStore = Singleton[models.AboutContent]
)

// NewHeroStore returns the hero_settings singleton.
func NewHeroStore(db, public *sql.DB) *HeroStore {
	return NewSingleton(db, public, SingletonDef[models.HeroSettings]{
		Table:   "hero_settings",
		Columns: `id, headline, subheadline, cta_label, cta_href, image_url, updated_at`,
		Scan: func(s rowScanner) (*models.HeroSettings, error) {
			var h models.HeroSettings
			if err := s.Scan(&h.ID, &h.Headline, &h.Subheadline, &h.CTALabel,
				&h.CTAHref, &h.ImageURL, &h.UpdatedAt); err != nil {
				return nil, err
			}
			return &h, nil
		},
		Writable: []string{"headline", "subheadline", "cta_label", "cta_href", "image_url"},
		Values: func(h *models.HeroSettings) []any {
			return []any{h.Headline, h.Subheadline, h.CTALabel, h.CTAHref, h.ImageURL}
		},
	})
}

// NewContactStore returns the contact_settings singleton.
func NewContactStore(db, public *sql.DB) *ContactStore {
	return NewSingleton(db, public, SingletonDef[models.ContactSettings]{
		Table:   "contact_settings",
		Columns: `id, phone, email, address, hours, map_url, updated_at`,
		Scan: func(s rowScanner) (*models.ContactSettings, error) {
			var c models.ContactSettings
			if err := s.Scan(&c.ID, &c.Phone, &c.Email, &c.Address, &c.Hours,
				&c.MapURL, &c.UpdatedAt); err != nil {
				return nil, err
			}
			return &c, nil
		},
		Writable: []string{"phone", "email", "address", "hours", "map_url"},
		Values: func(c *models.ContactSettings) []any {
			return []any{c.Phone, c.Email, c.Address, c.Hours, c.MapURL}
		},
	})
}

// NewAboutContentStore returns the about_content singleton.
func NewAboutContentStore(db, public *sql.DB) *AboutContentStore {
	return NewSingleton(db, public, SingletonDef[models.AboutContent]{
		Table:   "about_content",
		Columns: `id, headline, intro, mission, story, image_url, updated_at`,
		Scan: func(s rowScanner) (*models.AboutContent, error) {
			var a models.AboutContent
			if err := s.Scan(&a.ID, &a.Headline, &a.Intro, &a.Mission, &a.Story,
				&a.ImageURL, &a.UpdatedAt); err != nil {
				return nil, err
			}
			return &a, nil
		},
		Writable: []string{"headline", "intro", "mission", "story", "image_url"},
		Values: func(a *models.AboutContent) []any {
			return []any{a.Headline, a.Intro, a.Mission, a.Story, a.ImageURL}
		},
	})
}

// WhyChooseUsStore manages the why_choose_us_settings singleton and its
// ordered feature list.
type WhyChooseUsStore struct {
	db       *sql.DB
	public   *sql.DB
	settings *Singleton[models.WhyChooseUs]
}

// NewWhyChooseUsStore returns a new WhyChooseUsStore.
func NewWhyChooseUsStore(db, public *sql.DB) *WhyChooseUsStore {
	if public == nil {
		public = db
	}
	return &WhyChooseUsStore{
		db:     db,
		public: public,
		settings: NewSingleton(db, public, SingletonDef[models.WhyChooseUs]{
			Table:   "why_choose_us_settings",
			Columns: `id, title, subtitle, image_url, updated_at`,
			Scan: func(s rowScanner) (*models.WhyChooseUs, error) {
				var w models.WhyChooseUs
				if err := s.Scan(&w.ID, &w.Title, &w.Subtitle, &w.ImageURL, &w.UpdatedAt); err != nil {
					return nil, err
				}
				return &w, nil
			},
			Writable: []string{"title", "subtitle", "image_url"},
			Values: func(w *models.WhyChooseUs) []any {
				return []any{w.Title, w.Subtitle, w.ImageURL}
			},
		}),
	}
}

// Get returns the section with its features, read through the service pool.
func (s *WhyChooseUsStore) Get(ctx context.Context) (*models.WhyChooseUs, error) {
	w, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if w.Features, err = s.features(ctx, s.db, w.ID); err != nil {
		return nil, err
	}
	return w, nil
}

// Public returns the section with its features, read through the public pool.
func (s *WhyChooseUsStore) Public(ctx context.Context) (*models.WhyChooseUs, error) {
	w, err := s.settings.Public(ctx)
	if err != nil {
		return nil, err
	}
	if w.Features, err = s.features(ctx, s.public, w.ID); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *WhyChooseUsStore) features(ctx context.Context, db *sql.DB, settingsID uuid.UUID) ([]models.WhyChooseUsFeature, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, title, description, icon, sort_order
		FROM why_choose_us_features
		WHERE settings_id = $1
		ORDER BY sort_order ASC`, settingsID)
	if err != nil {
		return nil, fmt.Errorf("list why choose us features: %w", err)
	}
	defer rows.Close()

	var items []models.WhyChooseUsFeature
	for rows.Next() {
		var f models.WhyChooseUsFeature
		if err := rows.Scan(&f.ID, &f.Title, &f.Description, &f.Icon, &f.SortOrder); err != nil {
			return nil, fmt.Errorf("scan why choose us feature: %w", err)
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

// Save updates the section and replaces its features in one transaction.
// Features are stored in slice order with sort_order 1..N.
func (s *WhyChooseUsStore) Save(ctx context.Context, w *models.WhyChooseUs) (*models.WhyChooseUs, error) {
	updated, err := s.settings.Update(ctx, w)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM why_choose_us_features WHERE settings_id = $1`, updated.ID); err != nil {
		return nil, fmt.Errorf("clear why choose us features: %w", err)
	}
	for i, f := range w.Features {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO why_choose_us_features (settings_id, title, description, icon, sort_order)
			VALUES ($1, $2, $3, $4, $5)`,
			updated.ID, f.Title, f.Description, f.Icon, i+1,
		); err != nil {
			return nil, fmt.Errorf("insert why choose us feature: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit why choose us: %w", err)
	}

	if updated.Features, err = s.features(ctx, s.db, updated.ID); err != nil {
		return nil, err
	}
	return updated, nil
}
