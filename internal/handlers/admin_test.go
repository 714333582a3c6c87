// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caresite/internal/models"
)

func TestDashboardCounts(t *testing.T) {
	m, tc := newManagers()
	ctx := context.Background()
	for _, title := range []string{"Personal Care", "Night Care"} {
		_, err := m.Services.Create(ctx, &models.ServiceInput{Title: title})
		require.NoError(t, err)
	}
	subs := &fakeSubmissions{}
	_, err := subs.Create(ctx, &models.Submission{Kind: models.KindInquiry, Name: "A", Email: "a@example.com", Message: "hi"})
	require.NoError(t, err)

	a := NewAdmin(newRenderer(t), m, subs, false)
	rec := httptest.NewRecorder()
	a.Dashboard(rec, withAdmin(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<strong>2</strong> services", "inactive services count too")
	assert.Contains(t, body, "<strong>1</strong> new inquiries")
	assert.Contains(t, body, "Image storage is not configured")

	// An unavailable catalog counts as empty instead of failing the page.
	tc.posts.err = errDown
	rec = httptest.NewRecorder()
	a.Dashboard(rec, withAdmin(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<strong>0</strong> blog posts")
}
