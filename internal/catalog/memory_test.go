// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"caresite/internal/apperr"
	"caresite/internal/models"
)

// memBackend is an in-memory Backend used by the manager tests.
type memBackend[T Record, In Input] struct {
	mu   sync.Mutex
	rows []T

	build      func(id uuid.UUID, in In, slug string, order int) T
	withOrder  func(T, int) T
	withActive func(T, bool) T

	refs       map[any]int // reference key -> referencing rows
	failSortAt int         // 1-based SetSortOrder call that fails; 0 never
	sortCalls  int
	err        error // returned by every call when set
}

var errDown = errors.New("connection refused")

func (b *memBackend[T, In]) List(_ context.Context, includeInactive bool) ([]T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	var out []T
	for _, r := range b.rows {
		if includeInactive || r.Visible() {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position() < out[j].Position() })
	return out, nil
}

func (b *memBackend[T, In]) FindByID(_ context.Context, id uuid.UUID) (*T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	for _, r := range b.rows {
		if r.ItemID() == id {
			return &r, nil
		}
	}
	return nil, nil
}

func (b *memBackend[T, In]) FindBySlug(_ context.Context, slug string) (*T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range b.rows {
		if r.ItemSlug() == slug && r.Visible() {
			return &r, nil
		}
	}
	return nil, nil
}

func (b *memBackend[T, In]) MaxSortOrder(context.Context) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return 0, b.err
	}
	top := 0
	for _, r := range b.rows {
		if r.Position() > top {
			top = r.Position()
		}
	}
	return top, nil
}

func (b *memBackend[T, In]) slugTaken(slug string, except uuid.UUID) bool {
	if slug == "" {
		return false
	}
	for _, r := range b.rows {
		if r.ItemSlug() == slug && r.ItemID() != except {
			return true
		}
	}
	return false
}

func (b *memBackend[T, In]) Insert(_ context.Context, in In, slug string, order int) (*T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	if b.slugTaken(slug, uuid.Nil) {
		return nil, apperr.DuplicateSlug(slug)
	}
	row := b.build(uuid.New(), in, slug, order)
	b.rows = append(b.rows, row)
	return &row, nil
}

func (b *memBackend[T, In]) Update(_ context.Context, id uuid.UUID, in In, slug string) (*T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	for i, r := range b.rows {
		if r.ItemID() != id {
			continue
		}
		if b.slugTaken(slug, id) {
			return nil, apperr.DuplicateSlug(slug)
		}
		b.rows[i] = b.build(id, in, slug, r.Position())
		row := b.rows[i]
		return &row, nil
	}
	return nil, nil
}

func (b *memBackend[T, In]) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return false, b.err
	}
	for i, r := range b.rows {
		if r.ItemID() == id {
			b.rows = append(b.rows[:i], b.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (b *memBackend[T, In]) CountReferences(_ context.Context, _ Reference, key any) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return 0, b.err
	}
	return b.refs[key], nil
}

func (b *memBackend[T, In]) SetSortOrder(_ context.Context, id uuid.UUID, order int) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sortCalls++
	if b.failSortAt != 0 && b.sortCalls == b.failSortAt {
		return false, errDown
	}
	for i, r := range b.rows {
		if r.ItemID() == id {
			b.rows[i] = b.withOrder(r, order)
			return true, nil
		}
	}
	return false, nil
}

func (b *memBackend[T, In]) SetActive(_ context.Context, id uuid.UUID, active bool) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return false, b.err
	}
	for i, r := range b.rows {
		if r.ItemID() == id {
			b.rows[i] = b.withActive(r, active)
			return true, nil
		}
	}
	return false, nil
}

func newCategoryBackend() *memBackend[models.ServiceCategory, *models.CategoryInput] {
	return &memBackend[models.ServiceCategory, *models.CategoryInput]{
		refs: map[any]int{},
		build: func(id uuid.UUID, in *models.CategoryInput, slug string, order int) models.ServiceCategory {
			return models.ServiceCategory{
				ID: id, Name: in.Name, Slug: slug, Description: in.Description,
				Icon: in.Icon, SortOrder: order, IsActive: in.IsActive,
			}
		},
		withOrder: func(c models.ServiceCategory, o int) models.ServiceCategory {
			c.SortOrder = o
			return c
		},
		withActive: func(c models.ServiceCategory, a bool) models.ServiceCategory {
			c.IsActive = a
			return c
		},
	}
}

func newTestimonialBackend() *memBackend[models.Testimonial, *models.TestimonialInput] {
	return &memBackend[models.Testimonial, *models.TestimonialInput]{
		refs: map[any]int{},
		build: func(id uuid.UUID, in *models.TestimonialInput, _ string, order int) models.Testimonial {
			return models.Testimonial{
				ID: id, ClientName: in.ClientName, Quote: in.Quote, Rating: in.Rating,
				SortOrder: order, Published: in.Published,
			}
		},
		withOrder: func(t models.Testimonial, o int) models.Testimonial {
			t.SortOrder = o
			return t
		},
		withActive: func(t models.Testimonial, a bool) models.Testimonial {
			t.Published = a
			return t
		},
	}
}

// recorder captures revalidation requests.
type recorder struct {
	mu    sync.Mutex
	calls [][]string
	tags  [][]string
	err   error
}

func (r *recorder) Revalidate(_ context.Context, paths, tags []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, paths)
	r.tags = append(r.tags, tags)
	return r.err
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}
