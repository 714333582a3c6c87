// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"caresite/internal/models"
	"caresite/internal/render"
)

// Admin serves the admin dashboard.
type Admin struct {
	renderer    *render.Renderer
	managers    *Managers
	submissions SubmissionStore
	uploads     bool
}

// NewAdmin creates the dashboard handler. uploadsEnabled reports whether
// object storage is configured, shown as a warning when it is not.
func NewAdmin(renderer *render.Renderer, managers *Managers, submissions SubmissionStore, uploadsEnabled bool) *Admin {
	return &Admin{
		renderer:    renderer,
		managers:    managers,
		submissions: submissions,
		uploads:     uploadsEnabled,
	}
}

// Dashboard renders the admin dashboard with catalog counts and the
// number of unread submissions.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	newCounts, err := a.submissions.CountNew(ctx)
	if err != nil {
		slog.Error("count new submissions failed", "error", err)
	}

	a.renderer.Page(w, r, "dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Data: map[string]any{
			"ServiceCount":     count(ctx, a.managers.Services.ListAll),
			"PostCount":        count(ctx, a.managers.Posts.ListAll),
			"TestimonialCount": count(ctx, a.managers.Testimonials.ListAll),
			"StaffCount":       count(ctx, a.managers.Staff.ListAll),
			"NewContacts":      newCounts[models.KindContact],
			"NewInquiries":     newCounts[models.KindInquiry],
			"UploadsEnabled":   a.uploads,
		},
	})
}

// count returns the total number of items in a catalog, or 0 when the
// store is unavailable.
func count[T any](ctx context.Context, list func(context.Context, bool) ([]T, error)) int {
	items, err := list(ctx, true)
	if err != nil {
		return 0
	}
	return len(items)
}
