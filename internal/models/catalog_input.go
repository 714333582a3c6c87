// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"

	"github.com/google/uuid"
)

// Catalog inputs are what an admin submits on create and update. Normalize
// trims every string and turns blank optional strings into nil; the
// display name is checked by the catalog manager and the remaining rules
// run from the validate tags.

type CategoryInput struct {
	Name        string  `form:"name" validate:"max=120"`
	Description *string `form:"description" validate:"omitempty,max=2000"`
	Icon        *string `form:"icon" validate:"omitempty,max=64"`
	IsActive    bool    `form:"is_active"`
}

func (in *CategoryInput) DisplayName() string { return in.Name }

func (in *CategoryInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = Optional(in.Description)
	in.Icon = Optional(in.Icon)
}

type SpecialtyInput struct {
	Name        string  `form:"name" validate:"max=120"`
	Description *string `form:"description" validate:"omitempty,max=2000"`
	Icon        *string `form:"icon" validate:"omitempty,max=64"`
	IsActive    bool    `form:"is_active"`
}

func (in *SpecialtyInput) DisplayName() string { return in.Name }

func (in *SpecialtyInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = Optional(in.Description)
	in.Icon = Optional(in.Icon)
}

type ServiceInput struct {
	Title      string     `form:"title" validate:"max=160"`
	CategoryID *uuid.UUID `form:"category_id"`
	Summary    *string    `form:"summary" validate:"omitempty,max=500"`
	Body       *string    `form:"body"`
	PriceFrom  *string    `form:"price_from" validate:"omitempty,max=40"`
	PriceUnit  *string    `form:"price_unit" validate:"omitempty,max=40"`
	ImageURL   *string    `form:"image_url" validate:"omitempty,url"`
	IsActive   bool       `form:"is_active"`
}

func (in *ServiceInput) DisplayName() string { return in.Title }

func (in *ServiceInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Summary = Optional(in.Summary)
	in.Body = Optional(in.Body)
	in.PriceFrom = Optional(in.PriceFrom)
	in.PriceUnit = Optional(in.PriceUnit)
	in.ImageURL = Optional(in.ImageURL)
}

type TestimonialInput struct {
	ClientName string  `form:"client_name" validate:"max=120"`
	Quote      *string `form:"quote" validate:"omitempty,max=2000"`
	Location   *string `form:"location" validate:"omitempty,max=120"`
	Rating     *int    `form:"rating" validate:"omitempty,min=1,max=5"`
	ImageURL   *string `form:"image_url" validate:"omitempty,url"`
	Published  bool    `form:"published"`
}

func (in *TestimonialInput) DisplayName() string { return in.ClientName }

func (in *TestimonialInput) Normalize() {
	in.ClientName = strings.TrimSpace(in.ClientName)
	in.Quote = Optional(in.Quote)
	in.Location = Optional(in.Location)
	in.ImageURL = Optional(in.ImageURL)
}

type StaffInput struct {
	Name      string  `form:"name" validate:"max=120"`
	Role      *string `form:"role" validate:"omitempty,max=120"`
	Bio       *string `form:"bio" validate:"omitempty,max=4000"`
	Specialty *string `form:"specialty" validate:"omitempty,max=120"`
	Email     *string `form:"email" validate:"omitempty,email"`
	ImageURL  *string `form:"image_url" validate:"omitempty,url"`
	IsActive  bool    `form:"is_active"`
}

func (in *StaffInput) DisplayName() string { return in.Name }

func (in *StaffInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Role = Optional(in.Role)
	in.Bio = Optional(in.Bio)
	in.Specialty = Optional(in.Specialty)
	in.Email = Optional(in.Email)
	in.ImageURL = Optional(in.ImageURL)
}

type BlogPostInput struct {
	Title         string  `form:"title" validate:"max=200"`
	Excerpt       *string `form:"excerpt" validate:"omitempty,max=500"`
	Body          *string `form:"body"`
	CoverImageURL *string `form:"cover_image_url" validate:"omitempty,url"`
	Author        *string `form:"author" validate:"omitempty,max=120"`
	Published     bool    `form:"published"`
}

func (in *BlogPostInput) DisplayName() string { return in.Title }

func (in *BlogPostInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Excerpt = Optional(in.Excerpt)
	in.Body = Optional(in.Body)
	in.CoverImageURL = Optional(in.CoverImageURL)
	in.Author = Optional(in.Author)
}

// Optional trims s and returns nil when nothing is left.
func Optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// Deref returns *s or "" for nil. Handy in templates and form binding.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
