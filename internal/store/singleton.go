// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"caresite/internal/apperr"
)

// SingletonDef describes a table that must hold exactly one row.
type SingletonDef[T any] struct {
	Table    string
	Columns  string // select list, id first, in Scan order
	Scan     func(rowScanner) (*T, error)
	Writable []string
	Values   func(*T) []any // one value per Writable column
}

// Singleton reads and updates the one row of a settings table. Zero rows
// or more than one row is an error on both paths; nothing picks "the
// first" row.
type Singleton[T any] struct {
	db     *sql.DB
	public *sql.DB
	def    SingletonDef[T]

	selectSQL string
	updateSQL string
}

// NewSingleton returns a Singleton for def. public may be nil.
func NewSingleton[T any](db, public *sql.DB, def SingletonDef[T]) *Singleton[T] {
	if public == nil {
		public = db
	}
	sets := make([]string, len(def.Writable))
	for i, c := range def.Writable {
		sets[i] = fmt.Sprintf("%s = $%d", c, i+1)
	}
	return &Singleton[T]{
		db:        db,
		public:    public,
		def:       def,
		selectSQL: `SELECT ` + def.Columns + ` FROM ` + def.Table + ` LIMIT 2`,
		updateSQL: `UPDATE ` + def.Table + ` SET ` + strings.Join(sets, ", ") +
			fmt.Sprintf(`, updated_at = NOW() WHERE id = $%d RETURNING `, len(def.Writable)+1) + def.Columns,
	}
}

// Get reads the row through the service pool.
func (s *Singleton[T]) Get(ctx context.Context) (*T, error) {
	return s.get(ctx, s.db)
}

// Public reads the row through the public pool.
func (s *Singleton[T]) Public(ctx context.Context) (*T, error) {
	return s.get(ctx, s.public)
}

func (s *Singleton[T]) get(ctx context.Context, db *sql.DB) (*T, error) {
	rows, err := db.QueryContext(ctx, s.selectSQL)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.def.Table, err)
	}
	defer rows.Close()

	var found []*T
	for rows.Next() {
		item, err := s.def.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.def.Table, err)
		}
		found = append(found, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get %s: %w", s.def.Table, err)
	}

	switch len(found) {
	case 0:
		return nil, apperr.SingletonMissing(s.def.Table)
	case 1:
		return found[0], nil
	default:
		return nil, apperr.SingletonAmbiguous(s.def.Table, s.count(ctx, db))
	}
}

func (s *Singleton[T]) count(ctx context.Context, db *sql.DB) int {
	n := 2
	_ = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+s.def.Table).Scan(&n)
	return n
}

// Update writes v over the single row after checking it exists and is
// unique. The row's id is taken from the table, not from v.
func (s *Singleton[T]) Update(ctx context.Context, v *T) (*T, error) {
	id, err := s.id(ctx)
	if err != nil {
		return nil, err
	}
	args := append(s.def.Values(v), id)
	updated, err := s.def.Scan(s.db.QueryRowContext(ctx, s.updateSQL, args...))
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", s.def.Table, err)
	}
	return updated, nil
}

func (s *Singleton[T]) id(ctx context.Context) (uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM `+s.def.Table+` LIMIT 2`)
	if err != nil {
		return uuid.Nil, fmt.Errorf("locate %s row: %w", s.def.Table, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return uuid.Nil, fmt.Errorf("scan %s id: %w", s.def.Table, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return uuid.Nil, fmt.Errorf("locate %s row: %w", s.def.Table, err)
	}

	switch len(ids) {
	case 0:
		return uuid.Nil, apperr.SingletonMissing(s.def.Table)
	case 1:
		return ids[0], nil
	default:
		return uuid.Nil, apperr.SingletonAmbiguous(s.def.Table, s.count(ctx, s.db))
	}
}
