// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the caresite server.
// Handlers are grouped by concern (catalog admin, settings, submissions,
// uploads, auth, public pages) and receive their dependencies through
// the handler struct.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"caresite/internal/apperr"
)

// Result is the uniform body of every JSON admin endpoint.
type Result struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Active  *bool  `json:"active,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Invalidator drops cached pages after a settings change.
type Invalidator interface {
	Revalidate(ctx context.Context, paths, tags []string) error
}

// settingsTag is the fetch-cache tag of every singleton and site setting.
const settingsTag = "settings"

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("write json failed", "error", err)
	}
}

// writeResult maps err onto a Result and its status code. A nil error is
// a success.
func writeResult(w http.ResponseWriter, res Result, err error) {
	if err != nil {
		writeJSON(w, apperr.HTTPStatus(err), Result{Error: apperr.Message(err)})
		return
	}
	res.Success = true
	writeJSON(w, http.StatusOK, res)
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.NotFound("item")
	}
	return id, nil
}

// revalidate forwards to inv and logs a failure. A nil inv is a no-op.
func revalidate(ctx context.Context, inv Invalidator, paths ...string) {
	if inv == nil {
		return
	}
	if err := inv.Revalidate(ctx, paths, []string{settingsTag}); err != nil {
		slog.Warn("revalidation failed", "paths", paths, "error", err)
	}
}
