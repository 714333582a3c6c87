// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"time"

	"caresite/internal/catalog"
	"caresite/internal/models"
)

type (
	CategoryTable    = CatalogTable[models.ServiceCategory, *models.CategoryInput]
	SpecialtyTable   = CatalogTable[models.ServiceSpecialty, *models.SpecialtyInput]
	ServiceTable     = CatalogTable[models.Service, *models.ServiceInput]
	TestimonialTable = CatalogTable[models.Testimonial, *models.TestimonialInput]
	StaffTable       = CatalogTable[models.StaffMember, *models.StaffInput]
	BlogPostTable    = CatalogTable[models.BlogPost, *models.BlogPostInput]
)

var (
	_ catalog.Backend[models.ServiceCategory, *models.CategoryInput]   = (*CategoryTable)(nil)
	_ catalog.Backend[models.ServiceSpecialty, *models.SpecialtyInput] = (*SpecialtyTable)(nil)
	_ catalog.Backend[models.Service, *models.ServiceInput]            = (*ServiceTable)(nil)
	_ catalog.Backend[models.Testimonial, *models.TestimonialInput]    = (*TestimonialTable)(nil)
	_ catalog.Backend[models.StaffMember, *models.StaffInput]          = (*StaffTable)(nil)
	_ catalog.Backend[models.BlogPost, *models.BlogPostInput]          = (*BlogPostTable)(nil)
)

const categoryColumns = `id, name, slug, description, icon, sort_order, is_active, created_at, updated_at`

// NewCategoryTable returns the service_categories backend.
func NewCategoryTable(db, public *sql.DB) *CategoryTable {
	return NewCatalogTable(db, public, TableDef[models.ServiceCategory, *models.CategoryInput]{
		Table:     "service_categories",
		Columns:   categoryColumns,
		Flag:      "is_active",
		Sluggable: true,
		Scan: func(s rowScanner) (*models.ServiceCategory, error) {
			var c models.ServiceCategory
			err := s.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Icon,
				&c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
			if err != nil {
				return nil, err
			}
			return &c, nil
		},
		Writable: []Column{{Name: "name"}, {Name: "description"}, {Name: "icon"}, {Name: "is_active"}},
		Values: func(in *models.CategoryInput) []any {
			return []any{in.Name, in.Description, in.Icon, in.IsActive}
		},
	})
}

// NewSpecialtyTable returns the service_specialties backend.
func NewSpecialtyTable(db, public *sql.DB) *SpecialtyTable {
	return NewCatalogTable(db, public, TableDef[models.ServiceSpecialty, *models.SpecialtyInput]{
		Table:     "service_specialties",
		Columns:   categoryColumns,
		Flag:      "is_active",
		Sluggable: true,
		Scan: func(s rowScanner) (*models.ServiceSpecialty, error) {
			var c models.ServiceSpecialty
			err := s.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Icon,
				&c.SortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
			if err != nil {
				return nil, err
			}
			return &c, nil
		},
		Writable: []Column{{Name: "name"}, {Name: "description"}, {Name: "icon"}, {Name: "is_active"}},
		Values: func(in *models.SpecialtyInput) []any {
			return []any{in.Name, in.Description, in.Icon, in.IsActive}
		},
	})
}

// NewServiceTable returns the services backend.
func NewServiceTable(db, public *sql.DB) *ServiceTable {
	return NewCatalogTable(db, public, TableDef[models.Service, *models.ServiceInput]{
		Table: "services",
		Columns: `id, category_id, title, slug, summary, body, price_from, price_unit,
			image_url, sort_order, is_active, created_at, updated_at`,
		Flag:      "is_active",
		Sluggable: true,
		Scan: func(s rowScanner) (*models.Service, error) {
			var v models.Service
			err := s.Scan(&v.ID, &v.CategoryID, &v.Title, &v.Slug, &v.Summary, &v.Body,
				&v.PriceFrom, &v.PriceUnit, &v.ImageURL, &v.SortOrder, &v.IsActive,
				&v.CreatedAt, &v.UpdatedAt)
			if err != nil {
				return nil, err
			}
			return &v, nil
		},
		Writable: []Column{
			{Name: "category_id"}, {Name: "title"}, {Name: "summary"}, {Name: "body"},
			{Name: "price_from"}, {Name: "price_unit"}, {Name: "image_url"}, {Name: "is_active"},
		},
		Values: func(in *models.ServiceInput) []any {
			return []any{in.CategoryID, in.Title, in.Summary, in.Body,
				in.PriceFrom, in.PriceUnit, in.ImageURL, in.IsActive}
		},
		MissingRef: "category does not exist",
	})
}

// NewTestimonialTable returns the testimonials backend. Testimonials
// carry no slug.
func NewTestimonialTable(db, public *sql.DB) *TestimonialTable {
	return NewCatalogTable(db, public, TableDef[models.Testimonial, *models.TestimonialInput]{
		Table:   "testimonials",
		Columns: `id, client_name, quote, location, rating, image_url, sort_order, published, created_at, updated_at`,
		Flag:    "published",
		Scan: func(s rowScanner) (*models.Testimonial, error) {
			var v models.Testimonial
			err := s.Scan(&v.ID, &v.ClientName, &v.Quote, &v.Location, &v.Rating,
				&v.ImageURL, &v.SortOrder, &v.Published, &v.CreatedAt, &v.UpdatedAt)
			if err != nil {
				return nil, err
			}
			return &v, nil
		},
		Writable: []Column{
			{Name: "client_name"}, {Name: "quote"}, {Name: "location"},
			{Name: "rating"}, {Name: "image_url"}, {Name: "published"},
		},
		Values: func(in *models.TestimonialInput) []any {
			return []any{in.ClientName, in.Quote, in.Location, in.Rating, in.ImageURL, in.Published}
		},
	})
}

// NewStaffTable returns the staff_members backend.
func NewStaffTable(db, public *sql.DB) *StaffTable {
	return NewCatalogTable(db, public, TableDef[models.StaffMember, *models.StaffInput]{
		Table: "staff_members",
		Columns: `id, name, slug, role, bio, specialty, email, image_url, sort_order,
			is_active, created_at, updated_at`,
		Flag:      "is_active",
		Sluggable: true,
		Scan: func(s rowScanner) (*models.StaffMember, error) {
			var v models.StaffMember
			err := s.Scan(&v.ID, &v.Name, &v.Slug, &v.Role, &v.Bio, &v.Specialty,
				&v.Email, &v.ImageURL, &v.SortOrder, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
			if err != nil {
				return nil, err
			}
			return &v, nil
		},
		Writable: []Column{
			{Name: "name"}, {Name: "role"}, {Name: "bio"}, {Name: "specialty"},
			{Name: "email"}, {Name: "image_url"}, {Name: "is_active"},
		},
		Values: func(in *models.StaffInput) []any {
			return []any{in.Name, in.Role, in.Bio, in.Specialty, in.Email, in.ImageURL, in.IsActive}
		},
	})
}

// NewBlogPostTable returns the blog_posts backend. published_at records
// the first publication, whether through the form or the list toggle,
// and survives later edits.
func NewBlogPostTable(db, public *sql.DB) *BlogPostTable {
	return NewCatalogTable(db, public, TableDef[models.BlogPost, *models.BlogPostInput]{
		Table: "blog_posts",
		Columns: `id, title, slug, excerpt, body, cover_image_url, author, sort_order,
			published, published_at, created_at, updated_at`,
		Flag:      "published",
		Sluggable: true,
		Scan: func(s rowScanner) (*models.BlogPost, error) {
			var v models.BlogPost
			err := s.Scan(&v.ID, &v.Title, &v.Slug, &v.Excerpt, &v.Body, &v.CoverImageURL,
				&v.Author, &v.SortOrder, &v.Published, &v.PublishedAt, &v.CreatedAt, &v.UpdatedAt)
			if err != nil {
				return nil, err
			}
			return &v, nil
		},
		Writable: []Column{
			{Name: "title"}, {Name: "excerpt"}, {Name: "body"}, {Name: "cover_image_url"},
			{Name: "author"}, {Name: "published"},
			{Name: "published_at", UpdateExpr: "COALESCE(published_at, %s)"},
		},
		Values: func(in *models.BlogPostInput) []any {
			var publishedAt *time.Time
			if in.Published {
				now := time.Now()
				publishedAt = &now
			}
			return []any{in.Title, in.Excerpt, in.Body, in.CoverImageURL, in.Author, in.Published, publishedAt}
		},
		OnSetActive: `published_at = CASE WHEN $1 THEN COALESCE(published_at, NOW()) ELSE published_at END`,
	})
}
