// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"caresite/internal/apperr"
	"caresite/internal/catalog"
)

// Column is a writable column of a catalog table. UpdateExpr, when set,
// wraps the bound parameter in UPDATE statements; "%s" is replaced with
// the placeholder.
type Column struct {
	Name       string
	UpdateExpr string
}

// TableDef describes how one catalog maps onto its table.
type TableDef[T any, In any] struct {
	Table     string
	Columns   string // select list, in Scan order
	Flag      string // is_active or published
	Sluggable bool
	Scan      func(rowScanner) (*T, error)
	Writable  []Column
	Values    func(In) []any // one value per Writable column

	// OnSetActive is an extra SET clause for flag-only updates; $1 is the
	// new flag value.
	OnSetActive string
	// MissingRef is the validation message for a write that points at a
	// row that does not exist.
	MissingRef string
}

// CatalogTable is the SQL implementation of catalog.Backend shared by
// every catalog. Reads that feed public pages go through the public pool;
// everything else uses the service pool.
type CatalogTable[T catalog.Record, In catalog.Input] struct {
	db     *sql.DB
	public *sql.DB
	def    TableDef[T, In]

	listAllSQL    string
	listActiveSQL string
	findSQL       string
	findSlugSQL   string
	insertSQL     string
	updateSQL     string
	setActiveSQL  string
}

// NewCatalogTable builds the statements for def. public may be nil, in
// which case db serves every read.
func NewCatalogTable[T catalog.Record, In catalog.Input](db, public *sql.DB, def TableDef[T, In]) *CatalogTable[T, In] {
	if public == nil {
		public = db
	}
	t := &CatalogTable[T, In]{db: db, public: public, def: def}

	from := ` FROM ` + def.Table
	order := ` ORDER BY sort_order ASC, created_at ASC`
	t.listAllSQL = `SELECT ` + def.Columns + from + order
	t.listActiveSQL = `SELECT ` + def.Columns + from + ` WHERE ` + def.Flag + ` = TRUE` + order
	t.findSQL = `SELECT ` + def.Columns + from + ` WHERE id = $1`
	t.findSlugSQL = `SELECT ` + def.Columns + from + ` WHERE slug = $1 AND ` + def.Flag + ` = TRUE`

	var cols, ph, sets []string
	for i, c := range def.Writable {
		p := fmt.Sprintf("$%d", i+1)
		cols = append(cols, c.Name)
		ph = append(ph, p)
		if c.UpdateExpr != "" {
			sets = append(sets, c.Name+" = "+fmt.Sprintf(c.UpdateExpr, p))
		} else {
			sets = append(sets, c.Name+" = "+p)
		}
	}
	n := len(def.Writable)
	if def.Sluggable {
		n++
		cols = append(cols, "slug")
		ph = append(ph, fmt.Sprintf("$%d", n))
		sets = append(sets, fmt.Sprintf("slug = $%d", n))
	}

	t.insertSQL = `INSERT INTO ` + def.Table + ` (` + strings.Join(cols, ", ") + `, sort_order)
		VALUES (` + strings.Join(ph, ", ") + fmt.Sprintf(", $%d)", n+1) + `
		RETURNING ` + def.Columns
	t.updateSQL = `UPDATE ` + def.Table + ` SET ` + strings.Join(sets, ", ") + `, updated_at = NOW()
		WHERE id = ` + fmt.Sprintf("$%d", n+1) + `
		RETURNING ` + def.Columns

	set := def.Flag + ` = $1`
	if def.OnSetActive != "" {
		set += `, ` + def.OnSetActive
	}
	t.setActiveSQL = `UPDATE ` + def.Table + ` SET ` + set + `, updated_at = NOW() WHERE id = $2`
	return t
}

// Table returns the table name.
func (t *CatalogTable[T, In]) Table() string { return t.def.Table }

// List returns rows ordered by sort_order. Active-only listings are the
// public ones and use the public pool.
func (t *CatalogTable[T, In]) List(ctx context.Context, includeInactive bool) ([]T, error) {
	db, query := t.db, t.listAllSQL
	if !includeInactive {
		db, query = t.public, t.listActiveSQL
	}
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.def.Table, err)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		item, err := t.def.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.def.Table, err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// FindByID returns the row with id. Returns nil if not found.
func (t *CatalogTable[T, In]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	item, err := t.def.Scan(t.db.QueryRowContext(ctx, t.findSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s by id: %w", t.def.Table, err)
	}
	return item, nil
}

// FindBySlug returns the visible row with slug. Returns nil if not found.
func (t *CatalogTable[T, In]) FindBySlug(ctx context.Context, slug string) (*T, error) {
	if !t.def.Sluggable {
		return nil, nil
	}
	item, err := t.def.Scan(t.public.QueryRowContext(ctx, t.findSlugSQL, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s by slug: %w", t.def.Table, err)
	}
	return item, nil
}

// MaxSortOrder returns the highest sort_order, or 0 for an empty table.
func (t *CatalogTable[T, In]) MaxSortOrder(ctx context.Context) (int, error) {
	var n int
	err := t.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(sort_order), 0) FROM `+t.def.Table).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("max sort order %s: %w", t.def.Table, err)
	}
	return n, nil
}

// Insert stores a new row and returns it as stored.
func (t *CatalogTable[T, In]) Insert(ctx context.Context, in In, slug string, sortOrder int) (*T, error) {
	args := t.def.Values(in)
	if t.def.Sluggable {
		args = append(args, slug)
	}
	args = append(args, sortOrder)

	item, err := t.def.Scan(t.db.QueryRowContext(ctx, t.insertSQL, args...))
	if isUniqueViolation(err) {
		return nil, apperr.DuplicateSlug(slug)
	}
	if isForeignKeyViolation(err) {
		return nil, t.missingRef()
	}
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", t.def.Table, err)
	}
	return item, nil
}

// Update replaces the writable columns and slug of id. Returns nil if no
// such row exists.
func (t *CatalogTable[T, In]) Update(ctx context.Context, id uuid.UUID, in In, slug string) (*T, error) {
	args := t.def.Values(in)
	if t.def.Sluggable {
		args = append(args, slug)
	}
	args = append(args, id)

	item, err := t.def.Scan(t.db.QueryRowContext(ctx, t.updateSQL, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if isUniqueViolation(err) {
		return nil, apperr.DuplicateSlug(slug)
	}
	if isForeignKeyViolation(err) {
		return nil, t.missingRef()
	}
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", t.def.Table, err)
	}
	return item, nil
}

// Delete removes id and reports whether a row was deleted.
func (t *CatalogTable[T, In]) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := t.db.ExecContext(ctx, `DELETE FROM `+t.def.Table+` WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		return false, apperr.Referenced("This item is still in use and cannot be deleted.")
	}
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", t.def.Table, err)
	}
	return affected(res)
}

// CountReferences counts rows of ref.Table whose ref.Column equals key.
func (t *CatalogTable[T, In]) CountReferences(ctx context.Context, ref catalog.Reference, key any) (int, error) {
	var n int
	err := t.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+ref.Table+` WHERE `+ref.Column+` = $1`, key,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s.%s references: %w", ref.Table, ref.Column, err)
	}
	return n, nil
}

// SetSortOrder updates the sort_order of a single row.
func (t *CatalogTable[T, In]) SetSortOrder(ctx context.Context, id uuid.UUID, sortOrder int) (bool, error) {
	res, err := t.db.ExecContext(ctx,
		`UPDATE `+t.def.Table+` SET sort_order = $1, updated_at = NOW() WHERE id = $2`,
		sortOrder, id,
	)
	if err != nil {
		return false, fmt.Errorf("set sort order %s: %w", t.def.Table, err)
	}
	return affected(res)
}

// SetActive updates the visibility flag of a single row.
func (t *CatalogTable[T, In]) SetActive(ctx context.Context, id uuid.UUID, active bool) (bool, error) {
	res, err := t.db.ExecContext(ctx, t.setActiveSQL, active, id)
	if err != nil {
		return false, fmt.Errorf("set %s %s: %w", t.def.Flag, t.def.Table, err)
	}
	return affected(res)
}

func (t *CatalogTable[T, In]) missingRef() error {
	if t.def.MissingRef != "" {
		return apperr.Validation(t.def.MissingRef)
	}
	return apperr.Validation("referenced item does not exist")
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
