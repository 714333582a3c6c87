// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Keys of the documents kept in the site_settings table.
const (
	SettingServicesSpecialtiesHeader = "services_specialties_header"
	SettingFooter                    = "footer"
)

// SectionHeader is the JSON document behind a configurable page section
// heading.
type SectionHeader struct {
	Title    string `json:"title" form:"title" validate:"max=160"`
	Subtitle string `json:"subtitle" form:"subtitle" validate:"max=500"`
}

// Footer is the JSON document rendered at the bottom of every public page.
type Footer struct {
	Tagline   string `json:"tagline" form:"tagline" validate:"max=300"`
	Facebook  string `json:"facebook" form:"facebook" validate:"omitempty,url"`
	Instagram string `json:"instagram" form:"instagram" validate:"omitempty,url"`
	LinkedIn  string `json:"linkedin" form:"linkedin" validate:"omitempty,url"`
}

// HeroSettings is the single-row homepage hero.
type HeroSettings struct {
	ID          uuid.UUID `json:"id"`
	Headline    string    `json:"headline" form:"headline" validate:"max=200"`
	Subheadline *string   `json:"subheadline,omitempty" form:"subheadline" validate:"omitempty,max=500"`
	CTALabel    *string   `json:"cta_label,omitempty" form:"cta_label" validate:"omitempty,max=60"`
	CTAHref     *string   `json:"cta_href,omitempty" form:"cta_href" validate:"omitempty,max=300"`
	ImageURL    *string   `json:"image_url,omitempty" form:"image_url" validate:"omitempty,url"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (h *HeroSettings) Normalize() {
	h.Headline = strings.TrimSpace(h.Headline)
	h.Subheadline = Optional(h.Subheadline)
	h.CTALabel = Optional(h.CTALabel)
	h.CTAHref = Optional(h.CTAHref)
	h.ImageURL = Optional(h.ImageURL)
}

// ContactSettings is the single-row site-wide contact block. Email also
// receives submission notifications.
type ContactSettings struct {
	ID        uuid.UUID `json:"id"`
	Phone     *string   `json:"phone,omitempty" form:"phone" validate:"omitempty,max=40"`
	Email     *string   `json:"email,omitempty" form:"email" validate:"omitempty,email"`
	Address   *string   `json:"address,omitempty" form:"address" validate:"omitempty,max=300"`
	Hours     *string   `json:"hours,omitempty" form:"hours" validate:"omitempty,max=300"`
	MapURL    *string   `json:"map_url,omitempty" form:"map_url" validate:"omitempty,url"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *ContactSettings) Normalize() {
	c.Phone = Optional(c.Phone)
	c.Email = Optional(c.Email)
	c.Address = Optional(c.Address)
	c.Hours = Optional(c.Hours)
	c.MapURL = Optional(c.MapURL)
}

// AboutContent is the single-row copy of the about page.
type AboutContent struct {
	ID        uuid.UUID `json:"id"`
	Headline  string    `json:"headline" form:"headline" validate:"max=200"`
	Intro     *string   `json:"intro,omitempty" form:"intro" validate:"omitempty,max=2000"`
	Mission   *string   `json:"mission,omitempty" form:"mission" validate:"omitempty,max=2000"`
	Story     *string   `json:"story,omitempty" form:"story"`
	ImageURL  *string   `json:"image_url,omitempty" form:"image_url" validate:"omitempty,url"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *AboutContent) Normalize() {
	a.Headline = strings.TrimSpace(a.Headline)
	a.Intro = Optional(a.Intro)
	a.Mission = Optional(a.Mission)
	a.Story = Optional(a.Story)
	a.ImageURL = Optional(a.ImageURL)
}

// WhyChooseUs is the single-row homepage section plus its ordered
// feature list.
type WhyChooseUs struct {
	ID        uuid.UUID            `json:"id"`
	Title     string               `json:"title" form:"title" validate:"max=200"`
	Subtitle  *string              `json:"subtitle,omitempty" form:"subtitle" validate:"omitempty,max=500"`
	ImageURL  *string              `json:"image_url,omitempty" form:"image_url" validate:"omitempty,url"`
	UpdatedAt time.Time            `json:"updated_at"`
	Features  []WhyChooseUsFeature `json:"features" validate:"dive"`
}

func (w *WhyChooseUs) Normalize() {
	w.Title = strings.TrimSpace(w.Title)
	w.Subtitle = Optional(w.Subtitle)
	w.ImageURL = Optional(w.ImageURL)
	kept := w.Features[:0]
	for _, f := range w.Features {
		f.Title = strings.TrimSpace(f.Title)
		f.Description = Optional(f.Description)
		f.Icon = Optional(f.Icon)
		if f.Title == "" {
			continue
		}
		kept = append(kept, f)
	}
	w.Features = kept
}

// WhyChooseUsFeature is one bullet of the why-choose-us section.
type WhyChooseUsFeature struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title" validate:"max=120"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=500"`
	Icon        *string   `json:"icon,omitempty" validate:"omitempty,max=64"`
	SortOrder   int       `json:"sort_order"`
}
