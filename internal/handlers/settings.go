// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"caresite/internal/apperr"
	"caresite/internal/catalog"
	"caresite/internal/media"
	"caresite/internal/models"
	"caresite/internal/render"
)

// SingletonStore reads and writes a single-row settings table.
type SingletonStore[T any] interface {
	Get(ctx context.Context) (*T, error)
	Update(ctx context.Context, v *T) (*T, error)
}

// WhyChooseUsStore reads and replaces the why-choose-us section.
type WhyChooseUsStore interface {
	Get(ctx context.Context) (*models.WhyChooseUs, error)
	Save(ctx context.Context, w *models.WhyChooseUs) (*models.WhyChooseUs, error)
}

// SiteSettingStore reads and writes JSON documents by key.
type SiteSettingStore interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
}

// Settings groups the handlers of the singleton and key/value settings.
type Settings struct {
	renderer *render.Renderer
	hero     SingletonStore[models.HeroSettings]
	contact  SingletonStore[models.ContactSettings]
	about    SingletonStore[models.AboutContent]
	why      WhyChooseUsStore
	site     SiteSettingStore
	inv      Invalidator
}

// NewSettings creates the settings handler group. inv may be nil.
func NewSettings(renderer *render.Renderer, hero SingletonStore[models.HeroSettings], contact SingletonStore[models.ContactSettings], about SingletonStore[models.AboutContent], why WhyChooseUsStore, site SiteSettingStore, inv Invalidator) *Settings {
	return &Settings{
		renderer: renderer,
		hero:     hero,
		contact:  contact,
		about:    about,
		why:      why,
		site:     site,
		inv:      inv,
	}
}

// --- Homepage: hero and why choose us ---

// HomePage renders the hero and why-choose-us forms.
func (s *Settings) HomePage(w http.ResponseWriter, r *http.Request) {
	s.renderHome(w, r, http.StatusOK, nil, nil, "")
}

func (s *Settings) renderHome(w http.ResponseWriter, r *http.Request, status int, hero *models.HeroSettings, why *models.WhyChooseUs, formErr string) {
	ctx := r.Context()
	var loadErr error
	if hero == nil {
		if hero, loadErr = s.hero.Get(ctx); loadErr != nil {
			slog.Error("load hero settings failed", "error", loadErr)
		}
	}
	if why == nil {
		var err error
		if why, err = s.why.Get(ctx); err != nil {
			slog.Error("load why choose us failed", "error", err)
			loadErr = err
		}
	}
	if formErr == "" && loadErr != nil {
		formErr = apperr.Message(loadErr)
	}

	s.renderer.PageStatus(w, r, status, "home_settings", &render.PageData{
		Title:   "Homepage",
		Section: "home",
		Error:   formErr,
		Flashes: savedFlash(r),
		Data: map[string]any{
			"Hero":        formValues(hero),
			"WhyChooseUs": why,
			"HeroBucket":  media.BucketHome,
			"WhyBucket":   media.BucketWhyChooseUs,
		},
	})
}

// HeroUpdate saves the homepage hero.
func (s *Settings) HeroUpdate(w http.ResponseWriter, r *http.Request) {
	var hero models.HeroSettings
	err := bindForm(r, &hero)
	if err == nil {
		hero.Normalize()
		err = requireText(hero.Headline, "headline")
	}
	if err == nil {
		err = catalog.Struct(&hero)
	}
	if err == nil {
		_, err = s.hero.Update(r.Context(), &hero)
	}
	if err != nil {
		s.renderHome(w, r, apperr.HTTPStatus(err), &hero, nil, apperr.Message(err))
		return
	}

	revalidate(r.Context(), s.inv, "/")
	http.Redirect(w, r, "/admin/home?saved=1", http.StatusSeeOther)
}

// WhyChooseUsUpdate saves the section and replaces its feature list with
// the submitted rows, in submitted order.
func (s *Settings) WhyChooseUsUpdate(w http.ResponseWriter, r *http.Request) {
	var why models.WhyChooseUs
	err := bindForm(r, &why)
	if err == nil {
		titles := r.PostForm["feature_title"]
		descs := r.PostForm["feature_description"]
		icons := r.PostForm["feature_icon"]
		for i, title := range titles {
			f := models.WhyChooseUsFeature{Title: title}
			if i < len(descs) {
				f.Description = &descs[i]
			}
			if i < len(icons) {
				f.Icon = &icons[i]
			}
			why.Features = append(why.Features, f)
		}
		why.Normalize()
		err = requireText(why.Title, "title")
	}
	if err == nil {
		err = catalog.Struct(&why)
	}
	if err == nil {
		_, err = s.why.Save(r.Context(), &why)
	}
	if err != nil {
		s.renderHome(w, r, apperr.HTTPStatus(err), nil, &why, apperr.Message(err))
		return
	}

	revalidate(r.Context(), s.inv, "/")
	http.Redirect(w, r, "/admin/home?saved=1", http.StatusSeeOther)
}

// --- About ---

// AboutPage renders the about section overview.
func (s *Settings) AboutPage(w http.ResponseWriter, r *http.Request) {
	about, err := s.about.Get(r.Context())
	data := &render.PageData{
		Title:   "About",
		Section: "about",
		Data:    map[string]any{"About": about},
	}
	if err != nil {
		slog.Error("load about content failed", "error", err)
		data.Error = apperr.Message(err)
	}
	s.renderer.Page(w, r, "about", data)
}

// AboutContentPage renders the about copy form.
func (s *Settings) AboutContentPage(w http.ResponseWriter, r *http.Request) {
	about, err := s.about.Get(r.Context())
	msg := ""
	if err != nil {
		slog.Error("load about content failed", "error", err)
		msg = apperr.Message(err)
	}
	s.renderAboutContent(w, r, http.StatusOK, about, msg)
}

func (s *Settings) renderAboutContent(w http.ResponseWriter, r *http.Request, status int, about *models.AboutContent, formErr string) {
	s.renderer.PageStatus(w, r, status, "about_content", &render.PageData{
		Title:   "About page content",
		Section: "about",
		Error:   formErr,
		Flashes: savedFlash(r),
		Data: map[string]any{
			"Values": formValues(about),
			"Bucket": media.BucketAbout,
		},
	})
}

// AboutContentUpdate saves the about copy.
func (s *Settings) AboutContentUpdate(w http.ResponseWriter, r *http.Request) {
	var about models.AboutContent
	err := bindForm(r, &about)
	if err == nil {
		about.Normalize()
		err = requireText(about.Headline, "headline")
	}
	if err == nil {
		err = catalog.Struct(&about)
	}
	if err == nil {
		_, err = s.about.Update(r.Context(), &about)
	}
	if err != nil {
		s.renderAboutContent(w, r, apperr.HTTPStatus(err), &about, apperr.Message(err))
		return
	}

	revalidate(r.Context(), s.inv, "/about")
	http.Redirect(w, r, "/admin/about/content?saved=1", http.StatusSeeOther)
}

// --- Site settings: contact, section headers, footer ---

// SettingsPage renders the contact, section header and footer forms.
func (s *Settings) SettingsPage(w http.ResponseWriter, r *http.Request) {
	s.renderSettings(w, r, http.StatusOK, nil, "")
}

func (s *Settings) renderSettings(w http.ResponseWriter, r *http.Request, status int, override map[string]any, formErr string) {
	ctx := r.Context()
	contact, err := s.contact.Get(ctx)
	if err != nil {
		slog.Error("load contact settings failed", "error", err)
		if formErr == "" {
			formErr = apperr.Message(err)
		}
	}
	var header models.SectionHeader
	if _, err := s.site.Get(ctx, models.SettingServicesSpecialtiesHeader, &header); err != nil {
		slog.Error("load section header failed", "error", err)
	}
	var footer models.Footer
	if _, err := s.site.Get(ctx, models.SettingFooter, &footer); err != nil {
		slog.Error("load footer failed", "error", err)
	}

	data := map[string]any{
		"Contact": formValues(contact),
		"Header":  formValues(&header),
		"Footer":  formValues(&footer),
	}
	for k, v := range override {
		data[k] = v
	}

	s.renderer.PageStatus(w, r, status, "settings", &render.PageData{
		Title:   "Settings",
		Section: "settings",
		Error:   formErr,
		Flashes: savedFlash(r),
		Data:    data,
	})
}

// ContactUpdate saves the site-wide contact block. It feeds the footer
// of every page, so the whole page cache is dropped.
func (s *Settings) ContactUpdate(w http.ResponseWriter, r *http.Request) {
	var contact models.ContactSettings
	err := bindForm(r, &contact)
	if err == nil {
		contact.Normalize()
		err = catalog.Struct(&contact)
	}
	if err == nil {
		_, err = s.contact.Update(r.Context(), &contact)
	}
	if err != nil {
		s.renderSettings(w, r, apperr.HTTPStatus(err), map[string]any{"Contact": formValues(&contact)}, apperr.Message(err))
		return
	}

	revalidate(r.Context(), s.inv, "*")
	http.Redirect(w, r, "/admin/settings?saved=1", http.StatusSeeOther)
}

// SectionHeaderUpdate saves the services and specialties heading.
func (s *Settings) SectionHeaderUpdate(w http.ResponseWriter, r *http.Request) {
	var header models.SectionHeader
	if err := s.saveDocument(r, models.SettingServicesSpecialtiesHeader, &header); err != nil {
		s.renderSettings(w, r, apperr.HTTPStatus(err), map[string]any{"Header": formValues(&header)}, apperr.Message(err))
		return
	}
	revalidate(r.Context(), s.inv, "/services")
	http.Redirect(w, r, "/admin/settings?saved=1", http.StatusSeeOther)
}

// FooterUpdate saves the footer document.
func (s *Settings) FooterUpdate(w http.ResponseWriter, r *http.Request) {
	var footer models.Footer
	if err := s.saveDocument(r, models.SettingFooter, &footer); err != nil {
		s.renderSettings(w, r, apperr.HTTPStatus(err), map[string]any{"Footer": formValues(&footer)}, apperr.Message(err))
		return
	}
	revalidate(r.Context(), s.inv, "*")
	http.Redirect(w, r, "/admin/settings?saved=1", http.StatusSeeOther)
}

// saveDocument binds, validates and upserts a site_settings document.
func (s *Settings) saveDocument(r *http.Request, key string, doc any) error {
	if err := bindForm(r, doc); err != nil {
		return err
	}
	if err := catalog.Struct(doc); err != nil {
		return err
	}
	if err := s.site.Set(r.Context(), key, doc); err != nil {
		slog.Error("save site setting failed", "key", key, "error", err)
		return apperr.StoreUnavailable(err)
	}
	return nil
}

func requireText(v, field string) error {
	if v == "" {
		return apperr.Validation(field + " required")
	}
	return nil
}

// savedFlash shows a confirmation after a post/redirect/get round trip.
func savedFlash(r *http.Request) []render.Flash {
	if r.URL.Query().Get("saved") == "" {
		return nil
	}
	return []render.Flash{{Type: "success", Message: "Changes saved."}}
}
