// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"

	"caresite/internal/imaging"
	"caresite/internal/models"
)

// ImageTransformer rewrites stored image URLs into resized render URLs.
type ImageTransformer interface {
	Transform(rawURL string, opts imaging.Options) string
}

// SiteData is the envelope every public page is rendered with.
type SiteData struct {
	Title       string
	Description string
	Path        string
	Contact     *models.ContactSettings
	Footer      models.Footer
	Data        map[string]any
}

// Site renders public pages. Output is returned as bytes so callers can
// cache it before writing.
type Site struct {
	templates map[string]*template.Template
}

// NewSite parses every page under templates/site with the shared layout.
// images may be nil, in which case image URLs pass through untouched.
func NewSite(images ImageTransformer) (*Site, error) {
	funcs := baseFuncs()
	funcs["img"] = func(u *string, width, height int) string {
		if u == nil {
			return ""
		}
		if images == nil {
			return *u
		}
		return images.Transform(*u, imaging.Options{Width: width, Height: height, Resize: imaging.ModeCover})
	}

	pages, err := fs.Glob(templateFS, "templates/site/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob site templates: %w", err)
	}

	s := &Site{templates: make(map[string]*template.Template)}
	for _, page := range pages {
		name := path.Base(page)
		if name == "layout.html" {
			continue
		}
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(
			templateFS, "templates/site/layout.html", page,
		)
		if err != nil {
			return nil, fmt.Errorf("parse site template %s: %w", name, err)
		}
		s.templates[strings.TrimSuffix(name, ".html")] = tmpl
	}
	return s, nil
}

// Render executes the named page inside the layout.
func (s *Site) Render(name string, data *SiteData) ([]byte, error) {
	tmpl, ok := s.templates[name]
	if !ok {
		return nil, fmt.Errorf("site template %q not found", name)
	}
	if data.Data == nil {
		data.Data = map[string]any{}
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
