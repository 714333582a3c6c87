// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Catalog rows. Every catalog table carries an id, a display string, a
// dense 1-based sort_order and a visibility flag. The ItemID, ItemSlug,
// ItemName and Visible accessors let the generic catalog manager work
// with any of them.

// ServiceCategory groups services on the services and pricing pages.
type ServiceCategory struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	Icon        *string   `json:"icon,omitempty"`
	SortOrder   int       `json:"sort_order"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c ServiceCategory) ItemID() uuid.UUID { return c.ID }
func (c ServiceCategory) ItemSlug() string  { return c.Slug }
func (c ServiceCategory) ItemName() string  { return c.Name }
func (c ServiceCategory) Visible() bool     { return c.IsActive }
func (c ServiceCategory) Position() int     { return c.SortOrder }

// ServiceSpecialty is an area of expertise staff members can be tagged
// with. Staff rows reference specialties by slug.
type ServiceSpecialty struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	Icon        *string   `json:"icon,omitempty"`
	SortOrder   int       `json:"sort_order"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s ServiceSpecialty) ItemID() uuid.UUID { return s.ID }
func (s ServiceSpecialty) ItemSlug() string  { return s.Slug }
func (s ServiceSpecialty) ItemName() string  { return s.Name }
func (s ServiceSpecialty) Visible() bool     { return s.IsActive }
func (s ServiceSpecialty) Position() int     { return s.SortOrder }

// Service is a care offering shown on /services and /services/{slug}.
type Service struct {
	ID         uuid.UUID  `json:"id"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	Summary    *string    `json:"summary,omitempty"`
	Body       *string    `json:"body,omitempty"`
	PriceFrom  *string    `json:"price_from,omitempty"`
	PriceUnit  *string    `json:"price_unit,omitempty"`
	ImageURL   *string    `json:"image_url,omitempty"`
	SortOrder  int        `json:"sort_order"`
	IsActive   bool       `json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (s Service) ItemID() uuid.UUID { return s.ID }
func (s Service) ItemSlug() string  { return s.Slug }
func (s Service) ItemName() string  { return s.Title }
func (s Service) Visible() bool     { return s.IsActive }
func (s Service) Position() int     { return s.SortOrder }

// Testimonial is a client quote. Testimonials have no public detail page
// and therefore no slug.
type Testimonial struct {
	ID         uuid.UUID `json:"id"`
	ClientName string    `json:"client_name"`
	Quote      *string   `json:"quote,omitempty"`
	Location   *string   `json:"location,omitempty"`
	Rating     *int      `json:"rating,omitempty"`
	ImageURL   *string   `json:"image_url,omitempty"`
	SortOrder  int       `json:"sort_order"`
	Published  bool      `json:"published"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (t Testimonial) ItemID() uuid.UUID { return t.ID }
func (t Testimonial) ItemSlug() string  { return "" }
func (t Testimonial) ItemName() string  { return t.ClientName }
func (t Testimonial) Visible() bool     { return t.Published }
func (t Testimonial) Position() int     { return t.SortOrder }

// Stars returns a fixed-length slice used by templates to draw the rating.
func (t Testimonial) Stars() []bool {
	stars := make([]bool, 5)
	if t.Rating == nil {
		return stars
	}
	for i := 0; i < *t.Rating && i < 5; i++ {
		stars[i] = true
	}
	return stars
}

// StaffMember is a team member listed on the about page.
type StaffMember struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Role      *string   `json:"role,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	Specialty *string   `json:"specialty,omitempty"` // service_specialties.slug
	Email     *string   `json:"email,omitempty"`
	ImageURL  *string   `json:"image_url,omitempty"`
	SortOrder int       `json:"sort_order"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m StaffMember) ItemID() uuid.UUID { return m.ID }
func (m StaffMember) ItemSlug() string  { return m.Slug }
func (m StaffMember) ItemName() string  { return m.Name }
func (m StaffMember) Visible() bool     { return m.IsActive }
func (m StaffMember) Position() int     { return m.SortOrder }

// BlogPost is an article under /blog. Body is Markdown.
type BlogPost struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       *string    `json:"excerpt,omitempty"`
	Body          *string    `json:"body,omitempty"`
	CoverImageURL *string    `json:"cover_image_url,omitempty"`
	Author        *string    `json:"author,omitempty"`
	SortOrder     int        `json:"sort_order"`
	Published     bool       `json:"published"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (p BlogPost) ItemID() uuid.UUID { return p.ID }
func (p BlogPost) ItemSlug() string  { return p.Slug }
func (p BlogPost) ItemName() string  { return p.Title }
func (p BlogPost) Visible() bool     { return p.Published }
func (p BlogPost) Position() int     { return p.SortOrder }
