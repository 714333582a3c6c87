// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog implements the ordered catalog manager: named, slugged,
// sortable, soft-activatable collections with unique slugs, a dense
// 1-based sort order and deletion guarded by foreign references. One
// Manager is instantiated per catalog table over a Backend that does the
// actual storage.
package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Record is the read-side shape every catalog row exposes.
type Record interface {
	ItemID() uuid.UUID
	ItemSlug() string
	ItemName() string
	Visible() bool
	Position() int
}

// Input is what an admin submits on create and update. Normalize trims
// in place; DisplayName returns the required name or title.
type Input interface {
	DisplayName() string
	Normalize()
}

// Reference declares a foreign relation that pins a catalog item. Delete
// refuses while Table.Column holds the item's id (or slug when BySlug).
type Reference struct {
	Table   string
	Column  string
	BySlug  bool
	Message string
}

// Definition describes one catalog.
type Definition struct {
	Name      string // registry key, also the fetch-cache tag
	Label     string // singular, for messages: "Service category"
	NameLabel string // "name", "title" or "client name"
	Sluggable bool

	References []Reference

	// Paths are the pages to revalidate after any mutation. "{slug}" is
	// expanded with the affected item's slug; a trailing "/*" covers
	// every page below the prefix.
	Paths []string
}

// Backend is the storage a Manager drives. Implementations return
// (nil, nil) or false when a row does not exist, and an apperr duplicate
// slug error on a unique violation; any other error is treated as the
// store being unavailable.
type Backend[T Record, In Input] interface {
	List(ctx context.Context, includeInactive bool) ([]T, error)
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindBySlug(ctx context.Context, slug string) (*T, error)
	MaxSortOrder(ctx context.Context) (int, error)
	Insert(ctx context.Context, in In, slug string, sortOrder int) (*T, error)
	Update(ctx context.Context, id uuid.UUID, in In, slug string) (*T, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	CountReferences(ctx context.Context, ref Reference, key any) (int, error)
	SetSortOrder(ctx context.Context, id uuid.UUID, sortOrder int) (bool, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (bool, error)
}

// Invalidator receives cache revalidation requests after successful
// writes. Errors are logged by the caller and never surfaced.
type Invalidator interface {
	Revalidate(ctx context.Context, paths, tags []string) error
}
