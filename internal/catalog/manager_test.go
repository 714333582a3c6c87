// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caresite/internal/apperr"
	"caresite/internal/models"
)

type categoryManager = Manager[models.ServiceCategory, *models.CategoryInput]

func newCategories(t *testing.T) (*categoryManager, *memBackend[models.ServiceCategory, *models.CategoryInput], *recorder) {
	t.Helper()
	b := newCategoryBackend()
	rec := &recorder{}
	return NewManager(Categories, b, rec), b, rec
}

func mustCreate(t *testing.T, m *categoryManager, name string, active bool) models.ServiceCategory {
	t.Helper()
	item, err := m.Create(context.Background(), &models.CategoryInput{Name: name, IsActive: active})
	require.NoError(t, err)
	return *item
}

func positions(t *testing.T, m *categoryManager) map[uuid.UUID]int {
	t.Helper()
	items, err := m.ListAll(context.Background(), true)
	require.NoError(t, err)
	out := make(map[uuid.UUID]int, len(items))
	for _, it := range items {
		out[it.ID] = it.SortOrder
	}
	return out
}

func TestCreateAppendsAtEnd(t *testing.T) {
	m, _, _ := newCategories(t)

	first := mustCreate(t, m, "Personal Care", true)
	assert.Equal(t, 1, first.SortOrder, "first item in empty catalog")
	assert.Equal(t, "personal-care", first.Slug)

	second := mustCreate(t, m, "Companion Care", true)
	assert.Equal(t, 2, second.SortOrder)
}

func TestCreateAppendsAfterMaxAcrossGaps(t *testing.T) {
	m, b, _ := newCategories(t)
	a := mustCreate(t, m, "Respite Care", true)
	c := mustCreate(t, m, "Live-in Care", true)

	// Leave a gap: positions 3 and 7.
	b.rows[0] = b.withOrder(b.rows[0], 3)
	b.rows[1] = b.withOrder(b.rows[1], 7)

	next := mustCreate(t, m, "Overnight Care", true)
	assert.Equal(t, 8, next.SortOrder)

	got := positions(t, m)
	assert.Equal(t, 3, got[a.ID], "existing positions untouched")
	assert.Equal(t, 7, got[c.ID])
}

func TestCreateDerivesSlugFromPunctuatedName(t *testing.T) {
	m, _, _ := newCategories(t)

	item := mustCreate(t, m, "Home Care & Support!", true)
	assert.Equal(t, "home-care-support", item.Slug)
}

func TestCreateDuplicateSlug(t *testing.T) {
	m, b, rec := newCategories(t)
	mustCreate(t, m, "Respite Care", true)
	before := rec.count()

	_, err := m.Create(context.Background(), &models.CategoryInput{Name: "respite   care"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrDuplicateSlug))
	assert.Len(t, b.rows, 1, "duplicate must not be stored")
	assert.Equal(t, before, rec.count(), "no revalidation on failure")
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"empty", "", "name required"},
		{"whitespace only", "   \t", "name required"},
		{"punctuation only", "!!!", "name must contain letters or digits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, b, rec := newCategories(t)

			_, err := m.Create(context.Background(), &models.CategoryInput{Name: tt.input})
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperr.ErrValidation))
			assert.Equal(t, tt.wantMsg, apperr.Message(err))
			assert.Empty(t, b.rows)
			assert.Zero(t, rec.count())
		})
	}
}

func TestCreateTrimsInput(t *testing.T) {
	m, _, _ := newCategories(t)
	desc := "   "

	item, err := m.Create(context.Background(), &models.CategoryInput{Name: "  Hospice  ", Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Hospice", item.Name)
	assert.Nil(t, item.Description)
}

func TestCreateFieldRules(t *testing.T) {
	b := newTestimonialBackend()
	m := NewManager(Testimonials, b, nil)
	seven := 7

	_, err := m.Create(context.Background(), &models.TestimonialInput{ClientName: "Mary", Rating: &seven})
	require.Error(t, err)
	assert.Equal(t, "rating must be at most 5", apperr.Message(err))

	_, err = m.Create(context.Background(), &models.TestimonialInput{ClientName: ""})
	assert.Equal(t, "client name required", apperr.Message(err))
}

func TestUpdateKeepsSortOrderAndRecomputesSlug(t *testing.T) {
	m, _, rec := newCategories(t)
	mustCreate(t, m, "Alpha", true)
	beta := mustCreate(t, m, "Beta", true)

	updated, err := m.Update(context.Background(), beta.ID, &models.CategoryInput{Name: "Beta Plus", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.SortOrder)
	assert.Equal(t, "beta-plus", updated.Slug)
	assert.Equal(t, 3, rec.count())
}

func TestUpdateMissing(t *testing.T) {
	m, _, _ := newCategories(t)

	_, err := m.Update(context.Background(), uuid.New(), &models.CategoryInput{Name: "Ghost"})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestUpdateIntoExistingSlug(t *testing.T) {
	m, _, _ := newCategories(t)
	mustCreate(t, m, "Alpha", true)
	beta := mustCreate(t, m, "Beta", true)

	_, err := m.Update(context.Background(), beta.ID, &models.CategoryInput{Name: "ALPHA"})
	assert.True(t, errors.Is(err, apperr.ErrDuplicateSlug))
}

func TestDeleteReferenced(t *testing.T) {
	m, b, rec := newCategories(t)
	cat := mustCreate(t, m, "Skilled Nursing", true)
	b.refs[cat.ID] = 2
	before := rec.count()

	err := m.Delete(context.Background(), cat.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrReferenced))
	assert.Contains(t, apperr.Message(err), "services")
	assert.Len(t, b.rows, 1, "referenced item must remain")
	assert.Equal(t, before, rec.count())
}

func TestDeleteReferencedBySlug(t *testing.T) {
	b := &memBackend[models.ServiceSpecialty, *models.SpecialtyInput]{
		refs: map[any]int{"dementia-care": 1},
		build: func(id uuid.UUID, in *models.SpecialtyInput, slug string, order int) models.ServiceSpecialty {
			return models.ServiceSpecialty{ID: id, Name: in.Name, Slug: slug, SortOrder: order, IsActive: in.IsActive}
		},
	}
	m := NewManager(Specialties, b, nil)
	item, err := m.Create(context.Background(), &models.SpecialtyInput{Name: "Dementia Care"})
	require.NoError(t, err)

	err = m.Delete(context.Background(), item.ID)
	assert.True(t, errors.Is(err, apperr.ErrReferenced))
}

func TestDeleteUnreferenced(t *testing.T) {
	m, b, rec := newCategories(t)
	cat := mustCreate(t, m, "Live-in Care", true)

	require.NoError(t, m.Delete(context.Background(), cat.ID))
	assert.Empty(t, b.rows)
	assert.Equal(t, 2, rec.count())

	err := m.Delete(context.Background(), cat.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestReorderContiguous(t *testing.T) {
	m, _, _ := newCategories(t)
	a := mustCreate(t, m, "A", true)
	b := mustCreate(t, m, "B", true)
	c := mustCreate(t, m, "C", true)

	require.NoError(t, m.Reorder(context.Background(), []uuid.UUID{c.ID, a.ID, b.ID}))

	got := positions(t, m)
	assert.Equal(t, map[uuid.UUID]int{c.ID: 1, a.ID: 2, b.ID: 3}, got)
}

func TestReorderRejectsBadLists(t *testing.T) {
	m, b, _ := newCategories(t)
	x := mustCreate(t, m, "X", true)
	y := mustCreate(t, m, "Y", true)

	tests := []struct {
		name string
		ids  []uuid.UUID
	}{
		{"empty", nil},
		{"duplicate", []uuid.UUID{x.ID, x.ID}},
		{"missing one", []uuid.UUID{x.ID}},
		{"foreign id", []uuid.UUID{x.ID, uuid.New()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.Reorder(context.Background(), tt.ids)
			assert.True(t, errors.Is(err, apperr.ErrValidation), "got %v", err)
		})
	}
	assert.Zero(t, b.sortCalls, "no write before the list is checked")
	assert.Equal(t, map[uuid.UUID]int{x.ID: 1, y.ID: 2}, positions(t, m))
}

func TestReorderPartialFailure(t *testing.T) {
	m, b, rec := newCategories(t)
	a := mustCreate(t, m, "A", true)
	bb := mustCreate(t, m, "B", true)
	c := mustCreate(t, m, "C", true)
	before := rec.count()
	b.failSortAt = 2

	err := m.Reorder(context.Background(), []uuid.UUID{c.ID, a.ID, bb.ID})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrStoreUnavailable))

	// The first update stays committed; the rest never ran.
	got := positions(t, m)
	assert.Equal(t, 1, got[c.ID])
	assert.Equal(t, 1, got[a.ID])
	assert.Equal(t, 2, got[bb.ID])
	assert.Equal(t, before, rec.count(), "no revalidation after a failed reorder")
}

func TestListAllFiltersInactive(t *testing.T) {
	m, _, _ := newCategories(t)
	mustCreate(t, m, "Shown", true)
	mustCreate(t, m, "Hidden", false)

	all, err := m.ListAll(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	public, err := m.ListAll(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "Shown", public[0].Name)
}

func TestToggleAndSetActive(t *testing.T) {
	m, _, rec := newCategories(t)
	cat := mustCreate(t, m, "Nursing", true)

	active, err := m.Toggle(context.Background(), cat.ID)
	require.NoError(t, err)
	assert.False(t, active)

	_, err = m.GetBySlug(context.Background(), "nursing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "inactive items are not public")

	require.NoError(t, m.SetActive(context.Background(), cat.ID, true))
	got, err := m.GetBySlug(context.Background(), "nursing")
	require.NoError(t, err)
	assert.Equal(t, cat.ID, got.ID)
	assert.Equal(t, 3, rec.count())

	_, err = m.Toggle(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestTestimonialToggleTwiceRestoresPublished(t *testing.T) {
	b := newTestimonialBackend()
	m := NewManager(Testimonials, b, &recorder{})
	ctx := context.Background()

	for _, start := range []bool{false, true} {
		item, err := m.Create(ctx, &models.TestimonialInput{ClientName: "Elena", Published: start})
		require.NoError(t, err)

		first, err := m.Toggle(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, !start, first)

		second, err := m.Toggle(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, start, second)

		got, err := m.Get(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, start, got.Published)
	}
}

func TestRevalidationPathsAndTags(t *testing.T) {
	b := &memBackend[models.Service, *models.ServiceInput]{
		build: func(id uuid.UUID, in *models.ServiceInput, slug string, order int) models.Service {
			return models.Service{ID: id, Title: in.Title, Slug: slug, SortOrder: order, IsActive: in.IsActive}
		},
	}
	rec := &recorder{}
	m := NewManager(Services, b, rec)

	item, err := m.Create(context.Background(), &models.ServiceInput{Title: "Meal Prep"})
	require.NoError(t, err)
	require.Equal(t, 1, rec.count())
	assert.Contains(t, rec.calls[0], "/services/meal-prep")
	assert.Contains(t, rec.calls[0], "/admin/services")
	assert.Equal(t, []string{"services"}, rec.tags[0])

	_, err = m.Update(context.Background(), item.ID, &models.ServiceInput{Title: "Meal Planning"})
	require.NoError(t, err)
	assert.Contains(t, rec.calls[1], "/services/meal-prep", "old slug page dropped")
	assert.Contains(t, rec.calls[1], "/services/meal-planning")
}

func TestCategoryRenameRevalidatesServicePages(t *testing.T) {
	m, _, rec := newCategories(t)
	cat := mustCreate(t, m, "Personal Care", true)

	_, err := m.Update(context.Background(), cat.ID, &models.CategoryInput{Name: "Personal Support", IsActive: true})
	require.NoError(t, err)
	last := rec.calls[rec.count()-1]
	assert.Contains(t, last, "/services")
	assert.Contains(t, last, "/services/*", "service detail pages embed the category name")

	require.NoError(t, m.SetActive(context.Background(), cat.ID, false))
	assert.Contains(t, rec.calls[rec.count()-1], "/services/*")
}

func TestRevalidationFailureIsNotSurfaced(t *testing.T) {
	m, b, rec := newCategories(t)
	rec.err = errors.New("publisher closed")

	item, err := m.Create(context.Background(), &models.CategoryInput{Name: "Still Saved"})
	require.NoError(t, err)
	assert.NotNil(t, item)
	assert.Len(t, b.rows, 1)
}

func TestStoreErrorsAreClassified(t *testing.T) {
	m, b, _ := newCategories(t)
	b.err = errDown

	_, err := m.ListAll(context.Background(), true)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrStoreUnavailable))
	assert.NotContains(t, apperr.Message(err), "connection refused")

	_, err = m.Create(context.Background(), &models.CategoryInput{Name: "X"})
	assert.True(t, errors.Is(err, apperr.ErrStoreUnavailable))
}

func TestTestimonialsHaveNoSlug(t *testing.T) {
	b := newTestimonialBackend()
	rec := &recorder{}
	m := NewManager(Testimonials, b, rec)

	first, err := m.Create(context.Background(), &models.TestimonialInput{ClientName: "!!!", Published: true})
	require.NoError(t, err, "non-sluggable catalogs accept punctuation names")
	second, err := m.Create(context.Background(), &models.TestimonialInput{ClientName: "!!!", Published: true})
	require.NoError(t, err, "no slug means no uniqueness clash")
	assert.Equal(t, 2, second.SortOrder)
	assert.Equal(t, "", first.ItemSlug())

	_, err = m.GetBySlug(context.Background(), "anything")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestExpandPaths(t *testing.T) {
	items := []models.BlogPost{{Slug: "a"}, {Slug: ""}, {Slug: "a"}, {Slug: "b"}}
	got := ExpandPaths([]string{"/blog", "/blog/{slug}", "/blog"}, items...)
	assert.Equal(t, []string{"/blog", "/blog/a", "/blog/b"}, got)
}

func TestLookup(t *testing.T) {
	def, ok := Lookup("specialties")
	require.True(t, ok)
	assert.True(t, def.References[0].BySlug)

	_, ok = Lookup("nope")
	assert.False(t, ok)
	assert.Len(t, Names(), 6)
}
