// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"

	"github.com/go-chi/chi/v5"

	"caresite/internal/catalog"
	"caresite/internal/media"
	"caresite/internal/models"
	"caresite/internal/render"
)

// Managers bundles one catalog manager per catalog.
type Managers struct {
	Categories   *catalog.Manager[models.ServiceCategory, *models.CategoryInput]
	Specialties  *catalog.Manager[models.ServiceSpecialty, *models.SpecialtyInput]
	Services     *catalog.Manager[models.Service, *models.ServiceInput]
	Testimonials *catalog.Manager[models.Testimonial, *models.TestimonialInput]
	Staff        *catalog.Manager[models.StaffMember, *models.StaffInput]
	Posts        *catalog.Manager[models.BlogPost, *models.BlogPostInput]
}

// Mounter is a handler group that registers its own routes.
type Mounter interface {
	Mount(r chi.Router)
}

// CatalogAdmins builds the admin screens of every catalog.
func CatalogAdmins(renderer *render.Renderer, m *Managers) []Mounter {
	iconField := FormField{Name: "icon", Label: "Icon", Kind: FieldText, Help: "Icon name, e.g. heart or home"}

	return []Mounter{
		NewCatalogAdmin(renderer, m.Categories, CatalogView[models.ServiceCategory, *models.CategoryInput]{
			Title:    "Service categories",
			Section:  "services",
			BasePath: "/admin/services/categories",
			Fields: []FormField{
				{Name: "name", Label: "Name", Kind: FieldText, Required: true},
				{Name: "description", Label: "Description", Kind: FieldTextarea},
				iconField,
				{Name: "is_active", Label: "Active", Kind: FieldCheckbox},
			},
			NewInput: func() *models.CategoryInput { return &models.CategoryInput{} },
			FromItem: func(c models.ServiceCategory) *models.CategoryInput {
				return &models.CategoryInput{Name: c.Name, Description: c.Description, Icon: c.Icon, IsActive: c.IsActive}
			},
		}),

		NewCatalogAdmin(renderer, m.Specialties, CatalogView[models.ServiceSpecialty, *models.SpecialtyInput]{
			Title:    "Service specialties",
			Section:  "services",
			BasePath: "/admin/services/specialties",
			Fields: []FormField{
				{Name: "name", Label: "Name", Kind: FieldText, Required: true},
				{Name: "description", Label: "Description", Kind: FieldTextarea},
				iconField,
				{Name: "is_active", Label: "Active", Kind: FieldCheckbox},
			},
			NewInput: func() *models.SpecialtyInput { return &models.SpecialtyInput{} },
			FromItem: func(s models.ServiceSpecialty) *models.SpecialtyInput {
				return &models.SpecialtyInput{Name: s.Name, Description: s.Description, Icon: s.Icon, IsActive: s.IsActive}
			},
		}),

		NewCatalogAdmin(renderer, m.Services, CatalogView[models.Service, *models.ServiceInput]{
			Title:    "Services",
			Section:  "services",
			BasePath: "/admin/services",
			Fields: []FormField{
				{Name: "title", Label: "Title", Kind: FieldText, Required: true},
				{Name: "category_id", Label: "Category", Kind: FieldSelect},
				{Name: "summary", Label: "Summary", Kind: FieldTextarea},
				{Name: "body", Label: "Description", Kind: FieldMarkdown, Help: "Markdown"},
				{Name: "price_from", Label: "Price from", Kind: FieldText, Help: "e.g. $32"},
				{Name: "price_unit", Label: "Price unit", Kind: FieldText, Help: "e.g. per hour"},
				{Name: "image_url", Label: "Image", Kind: FieldImage, Bucket: media.BucketServices},
				{Name: "is_active", Label: "Active", Kind: FieldCheckbox},
			},
			NewInput: func() *models.ServiceInput { return &models.ServiceInput{} },
			FromItem: func(s models.Service) *models.ServiceInput {
				return &models.ServiceInput{
					Title: s.Title, CategoryID: s.CategoryID, Summary: s.Summary, Body: s.Body,
					PriceFrom: s.PriceFrom, PriceUnit: s.PriceUnit, ImageURL: s.ImageURL, IsActive: s.IsActive,
				}
			},
			Options: func(ctx context.Context) (map[string][]Option, error) {
				cats, err := m.Categories.ListAll(ctx, true)
				if err != nil {
					return nil, err
				}
				opts := make([]Option, 0, len(cats))
				for _, c := range cats {
					opts = append(opts, Option{Value: c.ID.String(), Label: c.Name})
				}
				return map[string][]Option{"category_id": opts}, nil
			},
		}),

		NewCatalogAdmin(renderer, m.Testimonials, CatalogView[models.Testimonial, *models.TestimonialInput]{
			Title:    "Testimonials",
			Section:  "testimonials",
			BasePath: "/admin/testimonials",
			Fields: []FormField{
				{Name: "client_name", Label: "Client name", Kind: FieldText, Required: true},
				{Name: "quote", Label: "Quote", Kind: FieldTextarea},
				{Name: "location", Label: "Location", Kind: FieldText},
				{Name: "rating", Label: "Rating", Kind: FieldSelect, Options: ratingOptions()},
				{Name: "image_url", Label: "Photo", Kind: FieldImage, Bucket: media.BucketTestimonials},
				{Name: "published", Label: "Published", Kind: FieldCheckbox},
			},
			NewInput: func() *models.TestimonialInput { return &models.TestimonialInput{} },
			FromItem: func(t models.Testimonial) *models.TestimonialInput {
				return &models.TestimonialInput{
					ClientName: t.ClientName, Quote: t.Quote, Location: t.Location,
					Rating: t.Rating, ImageURL: t.ImageURL, Published: t.Published,
				}
			},
		}),

		NewCatalogAdmin(renderer, m.Staff, CatalogView[models.StaffMember, *models.StaffInput]{
			Title:    "Team",
			Section:  "about",
			BasePath: "/admin/about/team",
			Fields: []FormField{
				{Name: "name", Label: "Name", Kind: FieldText, Required: true},
				{Name: "role", Label: "Role", Kind: FieldText},
				{Name: "specialty", Label: "Specialty", Kind: FieldSelect},
				{Name: "email", Label: "Email", Kind: FieldEmail},
				{Name: "bio", Label: "Bio", Kind: FieldTextarea},
				{Name: "image_url", Label: "Photo", Kind: FieldImage, Bucket: media.BucketAbout},
				{Name: "is_active", Label: "Active", Kind: FieldCheckbox},
			},
			NewInput: func() *models.StaffInput { return &models.StaffInput{} },
			FromItem: func(s models.StaffMember) *models.StaffInput {
				return &models.StaffInput{
					Name: s.Name, Role: s.Role, Bio: s.Bio, Specialty: s.Specialty,
					Email: s.Email, ImageURL: s.ImageURL, IsActive: s.IsActive,
				}
			},
			Options: func(ctx context.Context) (map[string][]Option, error) {
				specs, err := m.Specialties.ListAll(ctx, true)
				if err != nil {
					return nil, err
				}
				opts := make([]Option, 0, len(specs))
				for _, s := range specs {
					opts = append(opts, Option{Value: s.Slug, Label: s.Name})
				}
				return map[string][]Option{"specialty": opts}, nil
			},
		}),

		NewCatalogAdmin(renderer, m.Posts, CatalogView[models.BlogPost, *models.BlogPostInput]{
			Title:    "Blog posts",
			Section:  "blog",
			BasePath: "/admin/blog",
			Fields: []FormField{
				{Name: "title", Label: "Title", Kind: FieldText, Required: true},
				{Name: "excerpt", Label: "Excerpt", Kind: FieldTextarea},
				{Name: "body", Label: "Body", Kind: FieldMarkdown, Help: "Markdown"},
				{Name: "author", Label: "Author", Kind: FieldText},
				{Name: "cover_image_url", Label: "Cover image", Kind: FieldImage, Bucket: media.BucketHome},
				{Name: "published", Label: "Published", Kind: FieldCheckbox},
			},
			NewInput: func() *models.BlogPostInput { return &models.BlogPostInput{} },
			FromItem: func(p models.BlogPost) *models.BlogPostInput {
				return &models.BlogPostInput{
					Title: p.Title, Excerpt: p.Excerpt, Body: p.Body,
					CoverImageURL: p.CoverImageURL, Author: p.Author, Published: p.Published,
				}
			},
		}),
	}
}

func ratingOptions() []Option {
	opts := make([]Option, 0, 5)
	for i := 5; i >= 1; i-- {
		opts = append(opts, Option{Value: fmt.Sprint(i), Label: fmt.Sprintf("%d stars", i)})
	}
	return opts
}
