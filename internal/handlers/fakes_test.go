// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"caresite/internal/apperr"
	"caresite/internal/catalog"
	"caresite/internal/imaging"
	"caresite/internal/media"
	"caresite/internal/middleware"
	"caresite/internal/models"
	"caresite/internal/render"
	"caresite/internal/session"
)

var errDown = errors.New("connection refused")

// --------------------------------------------------------------------------
// Catalog backend
// --------------------------------------------------------------------------

// memCatalog is an in-memory catalog.Backend.
type memCatalog[T catalog.Record, In catalog.Input] struct {
	mu   sync.Mutex
	rows []T
	refs map[any]int
	err  error

	build      func(id uuid.UUID, in In, slug string, order int) T
	withOrder  func(T, int) T
	withActive func(T, bool) T
}

func (b *memCatalog[T, In]) List(_ context.Context, includeInactive bool) ([]T, error) {
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

func (b *memCatalog[T, In]) FindByID(_ context.Context, id uuid.UUID) (*T, error) {
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

func (b *memCatalog[T, In]) FindBySlug(_ context.Context, slug string) (*T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	for _, r := range b.rows {
		if r.ItemSlug() == slug && r.Visible() {
			return &r, nil
		}
	}
	return nil, nil
}

func (b *memCatalog[T, In]) MaxSortOrder(context.Context) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	top := 0
	for _, r := range b.rows {
		top = max(top, r.Position())
	}
	return top, b.err
}

func (b *memCatalog[T, In]) taken(slug string, except uuid.UUID) bool {
	for _, r := range b.rows {
		if slug != "" && r.ItemSlug() == slug && r.ItemID() != except {
			return true
		}
	}
	return false
}

func (b *memCatalog[T, In]) Insert(_ context.Context, in In, slug string, order int) (*T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	if b.taken(slug, uuid.Nil) {
		return nil, apperr.DuplicateSlug(slug)
	}
	row := b.build(uuid.New(), in, slug, order)
	b.rows = append(b.rows, row)
	return &row, nil
}

func (b *memCatalog[T, In]) Update(_ context.Context, id uuid.UUID, in In, slug string) (*T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	for i, r := range b.rows {
		if r.ItemID() == id {
			if b.taken(slug, id) {
				return nil, apperr.DuplicateSlug(slug)
			}
			b.rows[i] = b.build(id, in, slug, r.Position())
			row := b.rows[i]
			return &row, nil
		}
	}
	return nil, nil
}

func (b *memCatalog[T, In]) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, r := range b.rows {
		if r.ItemID() == id {
			b.rows = append(b.rows[:i], b.rows[i+1:]...)
			return true, nil
		}
	}
	return false, b.err
}

func (b *memCatalog[T, In]) CountReferences(_ context.Context, _ catalog.Reference, key any) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refs[key], b.err
}

func (b *memCatalog[T, In]) SetSortOrder(_ context.Context, id uuid.UUID, order int) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, r := range b.rows {
		if r.ItemID() == id {
			b.rows[i] = b.withOrder(r, order)
			return true, nil
		}
	}
	return false, b.err
}

func (b *memCatalog[T, In]) SetActive(_ context.Context, id uuid.UUID, active bool) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, r := range b.rows {
		if r.ItemID() == id {
			b.rows[i] = b.withActive(r, active)
			return true, nil
		}
	}
	return false, b.err
}

// testCatalogs holds the backends behind a Managers bundle.
type testCatalogs struct {
	categories   *memCatalog[models.ServiceCategory, *models.CategoryInput]
	specialties  *memCatalog[models.ServiceSpecialty, *models.SpecialtyInput]
	services     *memCatalog[models.Service, *models.ServiceInput]
	testimonials *memCatalog[models.Testimonial, *models.TestimonialInput]
	staff        *memCatalog[models.StaffMember, *models.StaffInput]
	posts        *memCatalog[models.BlogPost, *models.BlogPostInput]
	inv          *recorder
}

func newManagers() (*Managers, *testCatalogs) {
	tc := &testCatalogs{
		inv: &recorder{},
		categories: &memCatalog[models.ServiceCategory, *models.CategoryInput]{
			refs: map[any]int{},
			build: func(id uuid.UUID, in *models.CategoryInput, slug string, order int) models.ServiceCategory {
				return models.ServiceCategory{ID: id, Name: in.Name, Slug: slug, Description: in.Description, Icon: in.Icon, SortOrder: order, IsActive: in.IsActive}
			},
			withOrder:  func(c models.ServiceCategory, o int) models.ServiceCategory { c.SortOrder = o; return c },
			withActive: func(c models.ServiceCategory, a bool) models.ServiceCategory { c.IsActive = a; return c },
		},
		specialties: &memCatalog[models.ServiceSpecialty, *models.SpecialtyInput]{
			refs: map[any]int{},
			build: func(id uuid.UUID, in *models.SpecialtyInput, slug string, order int) models.ServiceSpecialty {
				return models.ServiceSpecialty{ID: id, Name: in.Name, Slug: slug, Description: in.Description, Icon: in.Icon, SortOrder: order, IsActive: in.IsActive}
			},
			withOrder:  func(s models.ServiceSpecialty, o int) models.ServiceSpecialty { s.SortOrder = o; return s },
			withActive: func(s models.ServiceSpecialty, a bool) models.ServiceSpecialty { s.IsActive = a; return s },
		},
		services: &memCatalog[models.Service, *models.ServiceInput]{
			refs: map[any]int{},
			build: func(id uuid.UUID, in *models.ServiceInput, slug string, order int) models.Service {
				return models.Service{
					ID: id, CategoryID: in.CategoryID, Title: in.Title, Slug: slug, Summary: in.Summary, Body: in.Body,
					PriceFrom: in.PriceFrom, PriceUnit: in.PriceUnit, ImageURL: in.ImageURL, SortOrder: order, IsActive: in.IsActive,
				}
			},
			withOrder:  func(s models.Service, o int) models.Service { s.SortOrder = o; return s },
			withActive: func(s models.Service, a bool) models.Service { s.IsActive = a; return s },
		},
		testimonials: &memCatalog[models.Testimonial, *models.TestimonialInput]{
			refs: map[any]int{},
			build: func(id uuid.UUID, in *models.TestimonialInput, _ string, order int) models.Testimonial {
				return models.Testimonial{ID: id, ClientName: in.ClientName, Quote: in.Quote, Location: in.Location, Rating: in.Rating, ImageURL: in.ImageURL, SortOrder: order, Published: in.Published}
			},
			withOrder:  func(t models.Testimonial, o int) models.Testimonial { t.SortOrder = o; return t },
			withActive: func(t models.Testimonial, a bool) models.Testimonial { t.Published = a; return t },
		},
		staff: &memCatalog[models.StaffMember, *models.StaffInput]{
			refs: map[any]int{},
			build: func(id uuid.UUID, in *models.StaffInput, slug string, order int) models.StaffMember {
				return models.StaffMember{ID: id, Name: in.Name, Slug: slug, Role: in.Role, Bio: in.Bio, Specialty: in.Specialty, Email: in.Email, ImageURL: in.ImageURL, SortOrder: order, IsActive: in.IsActive}
			},
			withOrder:  func(m models.StaffMember, o int) models.StaffMember { m.SortOrder = o; return m },
			withActive: func(m models.StaffMember, a bool) models.StaffMember { m.IsActive = a; return m },
		},
		posts: &memCatalog[models.BlogPost, *models.BlogPostInput]{
			refs: map[any]int{},
			build: func(id uuid.UUID, in *models.BlogPostInput, slug string, order int) models.BlogPost {
				return models.BlogPost{ID: id, Title: in.Title, Slug: slug, Excerpt: in.Excerpt, Body: in.Body, CoverImageURL: in.CoverImageURL, Author: in.Author, SortOrder: order, Published: in.Published}
			},
			withOrder:  func(p models.BlogPost, o int) models.BlogPost { p.SortOrder = o; return p },
			withActive: func(p models.BlogPost, a bool) models.BlogPost { p.Published = a; return p },
		},
	}

	m := &Managers{
		Categories:   catalog.NewManager(catalog.Categories, tc.categories, tc.inv),
		Specialties:  catalog.NewManager(catalog.Specialties, tc.specialties, tc.inv),
		Services:     catalog.NewManager(catalog.Services, tc.services, tc.inv),
		Testimonials: catalog.NewManager(catalog.Testimonials, tc.testimonials, tc.inv),
		Staff:        catalog.NewManager(catalog.Staff, tc.staff, tc.inv),
		Posts:        catalog.NewManager(catalog.Posts, tc.posts, tc.inv),
	}
	return m, tc
}

// recorder captures revalidation requests.
type recorder struct {
	mu    sync.Mutex
	paths [][]string
	tags  [][]string
}

func (r *recorder) Revalidate(_ context.Context, paths, tags []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, paths)
	r.tags = append(r.tags, tags)
	return nil
}

func (r *recorder) last() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.paths) == 0 {
		return nil
	}
	return r.paths[len(r.paths)-1]
}

// --------------------------------------------------------------------------
// Settings stores
// --------------------------------------------------------------------------

type fakeSingleton[T any] struct {
	mu  sync.Mutex
	v   *T
	err error
}

func (f *fakeSingleton[T]) Get(context.Context) (*T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.v == nil {
		return nil, apperr.SingletonMissing("test")
	}
	cp := *f.v
	return &cp, nil
}

func (f *fakeSingleton[T]) Public(ctx context.Context) (*T, error) { return f.Get(ctx) }

func (f *fakeSingleton[T]) Update(_ context.Context, v *T) (*T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	cp := *v
	f.v = &cp
	return v, nil
}

type fakeWhy struct {
	fakeSingleton[models.WhyChooseUs]
}

func (f *fakeWhy) Save(ctx context.Context, w *models.WhyChooseUs) (*models.WhyChooseUs, error) {
	return f.Update(ctx, w)
}

// fakeDocuments stores site settings documents as their Go values.
type fakeDocuments struct {
	mu   sync.Mutex
	docs map[string]any
}

func (f *fakeDocuments) Get(_ context.Context, key string, dst any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.docs[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *models.Footer:
		*d = *(v.(*models.Footer))
	case *models.SectionHeader:
		*d = *(v.(*models.SectionHeader))
	}
	return true, nil
}

func (f *fakeDocuments) Public(ctx context.Context, key string, dst any) (bool, error) {
	return f.Get(ctx, key, dst)
}

func (f *fakeDocuments) Set(_ context.Context, key string, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.docs == nil {
		f.docs = map[string]any{}
	}
	f.docs[key] = v
	return nil
}

// --------------------------------------------------------------------------
// Submissions, mail, images
// --------------------------------------------------------------------------

type fakeSubmissions struct {
	mu   sync.Mutex
	rows []models.Submission
	err  error
}

func (f *fakeSubmissions) Create(_ context.Context, s *models.Submission) (*models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	cp := *s
	cp.ID = uuid.New()
	cp.Status = models.SubmissionNew
	f.rows = append(f.rows, cp)
	return &cp, nil
}

func (f *fakeSubmissions) List(_ context.Context, kind models.SubmissionKind, status models.SubmissionStatus) ([]models.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Submission
	for _, s := range f.rows {
		if s.Kind != kind {
			continue
		}
		if (status == "" && s.Status != models.SubmissionArchived) || s.Status == status {
			out = append(out, s)
		}
	}
	return out, f.err
}

func (f *fakeSubmissions) SetStatus(_ context.Context, kind models.SubmissionKind, id uuid.UUID, status models.SubmissionStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].Kind == kind {
			f.rows[i].Status = status
			return true, nil
		}
	}
	return false, f.err
}

func (f *fakeSubmissions) Delete(_ context.Context, kind models.SubmissionKind, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id && f.rows[i].Kind == kind {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return true, nil
		}
	}
	return false, f.err
}

func (f *fakeSubmissions) CountNew(context.Context) (map[models.SubmissionKind]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[models.SubmissionKind]int{}
	for _, s := range f.rows {
		if s.Status == models.SubmissionNew {
			out[s.Kind]++
		}
	}
	return out, f.err
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeNotifier) SubmissionReceived(to string, _ *models.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, to)
	return f.err
}

type fakeImages struct {
	uploaded []string
	deleted  []string
	err      error
	render   *imaging.Result
}

func (f *fakeImages) Upload(_ context.Context, bucket, folder string, file media.File, _ int) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	u := "https://cdn.test/" + bucket + "/" + folder + "/" + file.FileName
	f.uploaded = append(f.uploaded, u)
	return u, nil
}

func (f *fakeImages) Delete(_ context.Context, rawURL string) error {
	f.deleted = append(f.deleted, rawURL)
	return f.err
}

func (f *fakeImages) Render(context.Context, string, string, imaging.Options) (*imaging.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.render, nil
}

// --------------------------------------------------------------------------
// HTTP helpers
// --------------------------------------------------------------------------

func newRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	rn, err := render.New()
	require.NoError(t, err)
	return rn
}

func adminSession() *session.Data {
	return &session.Data{UserID: uuid.New(), Email: "owner@caresite.test", DisplayName: "Owner", TwoFADone: true}
}

// formRequest builds a form POST carrying an admin session.
func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return withAdmin(req)
}

func withAdmin(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithAdmin(req.Context(), adminSession()))
}

// serveRoute mounts h on pattern so chi URL params resolve.
func serveRoute(method, pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Method(method, pattern, h)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func ptr[T any](v T) *T { return &v }
