// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"caresite/internal/apperr"
	"caresite/internal/slug"
)

// Manager applies the catalog rules on top of a Backend.
type Manager[T Record, In Input] struct {
	def     Definition
	backend Backend[T, In]
	inv     Invalidator
}

// NewManager returns a manager for def. inv may be nil.
func NewManager[T Record, In Input](def Definition, backend Backend[T, In], inv Invalidator) *Manager[T, In] {
	return &Manager[T, In]{def: def, backend: backend, inv: inv}
}

// Definition returns the catalog this manager serves.
func (m *Manager[T, In]) Definition() Definition { return m.def }

// ListAll returns items ordered by sort_order. Inactive or unpublished
// items are filtered out unless includeInactive is set.
func (m *Manager[T, In]) ListAll(ctx context.Context, includeInactive bool) ([]T, error) {
	items, err := m.backend.List(ctx, includeInactive)
	if err != nil {
		return nil, m.classify("list", err)
	}
	return items, nil
}

// Get returns the item with the given id.
func (m *Manager[T, In]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	item, err := m.backend.FindByID(ctx, id)
	if err != nil {
		return nil, m.classify("get", err)
	}
	if item == nil {
		return nil, apperr.NotFound(m.def.Label)
	}
	return item, nil
}

// GetBySlug returns the visible item with the given slug.
func (m *Manager[T, In]) GetBySlug(ctx context.Context, s string) (*T, error) {
	if !m.def.Sluggable || s == "" {
		return nil, apperr.NotFound(m.def.Label)
	}
	item, err := m.backend.FindBySlug(ctx, s)
	if err != nil {
		return nil, m.classify("get by slug", err)
	}
	if item == nil {
		return nil, apperr.NotFound(m.def.Label)
	}
	return item, nil
}

// Create validates in, derives its slug and appends it at the end of the
// catalog.
func (m *Manager[T, In]) Create(ctx context.Context, in In) (*T, error) {
	if err := ValidateInput(m.def, in); err != nil {
		return nil, err
	}
	s, err := m.slugFor(in)
	if err != nil {
		return nil, err
	}

	last, err := m.backend.MaxSortOrder(ctx)
	if err != nil {
		return nil, m.classify("max sort order", err)
	}
	item, err := m.backend.Insert(ctx, in, s, last+1)
	if err != nil {
		return nil, m.classify("create", err)
	}

	m.revalidate(ctx, *item)
	return item, nil
}

// Update replaces every field of the item with in and recomputes its slug.
// The sort order is left untouched.
func (m *Manager[T, In]) Update(ctx context.Context, id uuid.UUID, in In) (*T, error) {
	if err := ValidateInput(m.def, in); err != nil {
		return nil, err
	}
	s, err := m.slugFor(in)
	if err != nil {
		return nil, err
	}

	prev, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	item, err := m.backend.Update(ctx, id, in, s)
	if err != nil {
		return nil, m.classify("update", err)
	}
	if item == nil {
		return nil, apperr.NotFound(m.def.Label)
	}

	m.revalidate(ctx, *prev, *item)
	return item, nil
}

// Delete removes the item unless a declared reference still points at it.
func (m *Manager[T, In]) Delete(ctx context.Context, id uuid.UUID) error {
	item, err := m.Get(ctx, id)
	if err != nil {
		return err
	}

	for _, ref := range m.def.References {
		var key any = (*item).ItemID()
		if ref.BySlug {
			key = (*item).ItemSlug()
		}
		n, err := m.backend.CountReferences(ctx, ref, key)
		if err != nil {
			return m.classify("count references", err)
		}
		if n > 0 {
			return apperr.Referenced(ref.Message)
		}
	}

	ok, err := m.backend.Delete(ctx, id)
	if err != nil {
		return m.classify("delete", err)
	}
	if !ok {
		return apperr.NotFound(m.def.Label)
	}

	m.revalidate(ctx, *item)
	return nil
}

// Reorder sets sort_order to position+1 for every id in ids. ids must be
// a permutation of the catalog's current ids.
//
// The updates are issued one row at a time with no surrounding
// transaction. If update k fails, updates 0..k-1 stay committed and the
// error is returned without a revalidation.
func (m *Manager[T, In]) Reorder(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return apperr.Validation("order list is empty")
	}
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return apperr.Validation("order list contains a duplicate id")
		}
		seen[id] = true
	}

	current, err := m.backend.List(ctx, true)
	if err != nil {
		return m.classify("list", err)
	}
	if len(current) != len(ids) {
		return apperr.Validation("order list must contain every item exactly once")
	}
	for _, item := range current {
		if !seen[item.ItemID()] {
			return apperr.Validation("order list must contain every item exactly once")
		}
	}

	for i, id := range ids {
		ok, err := m.backend.SetSortOrder(ctx, id, i+1)
		if err != nil {
			slog.Warn("reorder stopped part-way", "catalog", m.def.Name, "applied", i, "total", len(ids))
			return m.classify("reorder", err)
		}
		if !ok {
			slog.Warn("reorder stopped part-way", "catalog", m.def.Name, "applied", i, "total", len(ids))
			return apperr.NotFound(m.def.Label)
		}
	}

	m.revalidate(ctx, current...)
	return nil
}

// SetActive sets the visibility flag.
func (m *Manager[T, In]) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	item, err := m.Get(ctx, id)
	if err != nil {
		return err
	}
	return m.setActive(ctx, *item, active)
}

// Toggle flips the visibility flag and returns its new value.
func (m *Manager[T, In]) Toggle(ctx context.Context, id uuid.UUID) (bool, error) {
	item, err := m.Get(ctx, id)
	if err != nil {
		return false, err
	}
	next := !(*item).Visible()
	if err := m.setActive(ctx, *item, next); err != nil {
		return false, err
	}
	return next, nil
}

func (m *Manager[T, In]) setActive(ctx context.Context, item T, active bool) error {
	ok, err := m.backend.SetActive(ctx, item.ItemID(), active)
	if err != nil {
		return m.classify("set active", err)
	}
	if !ok {
		return apperr.NotFound(m.def.Label)
	}
	m.revalidate(ctx, item)
	return nil
}

func (m *Manager[T, In]) slugFor(in In) (string, error) {
	if !m.def.Sluggable {
		return "", nil
	}
	s := slug.Derive(in.DisplayName())
	if s == "" {
		return "", apperr.Validation(m.def.NameLabel + " must contain letters or digits")
	}
	return s, nil
}

// classify passes application errors through and turns everything else
// into a logged store-unavailable error.
func (m *Manager[T, In]) classify(op string, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	slog.Error("catalog store error", "catalog", m.def.Name, "op", op, "error", err)
	return apperr.StoreUnavailable(err)
}

// revalidate asks the invalidator to drop every page this catalog feeds.
func (m *Manager[T, In]) revalidate(ctx context.Context, items ...T) {
	if m.inv == nil {
		return
	}
	paths := ExpandPaths(m.def.Paths, items...)
	if err := m.inv.Revalidate(ctx, paths, []string{m.def.Name}); err != nil {
		slog.Warn("revalidation failed", "catalog", m.def.Name, "error", err)
	}
}

// ExpandPaths substitutes each item's slug into "{slug}" patterns.
// Patterns are skipped for items without a slug; duplicates are dropped.
func ExpandPaths[T Record](patterns []string, items ...T) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, p := range patterns {
		if !strings.Contains(p, "{slug}") {
			add(p)
			continue
		}
		for _, item := range items {
			if s := item.ItemSlug(); s != "" {
				add(strings.ReplaceAll(p, "{slug}", s))
			}
		}
	}
	return out
}
