// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"caresite/internal/apperr"
	"caresite/internal/cache"
	"caresite/internal/markdown"
	"caresite/internal/models"
	"caresite/internal/render"
)

// PublicSingleton reads a settings row through the public pool.
type PublicSingleton[T any] interface {
	Public(ctx context.Context) (*T, error)
}

// PublicDocuments reads site_settings documents through the public pool.
type PublicDocuments interface {
	Public(ctx context.Context, key string, dst any) (bool, error)
}

// PageCache stores rendered public pages by path.
type PageCache interface {
	Get(ctx context.Context, path string) ([]byte, bool)
	Set(ctx context.Context, path string, html []byte)
}

// PublicContent is everything the public pages read.
type PublicContent struct {
	Managers    *Managers
	Hero        PublicSingleton[models.HeroSettings]
	Contact     PublicSingleton[models.ContactSettings]
	About       PublicSingleton[models.AboutContent]
	WhyChooseUs PublicSingleton[models.WhyChooseUs]
	Documents   PublicDocuments
}

// Public serves the marketing site.
type Public struct {
	site    *render.Site
	content PublicContent
	pages   PageCache
	fetch   *cache.FetchCache
}

// NewPublic creates the public handler group. pages and fetch may be nil
// to disable caching.
func NewPublic(site *render.Site, content PublicContent, pages PageCache, fetch *cache.FetchCache) *Public {
	return &Public{site: site, content: content, pages: pages, fetch: fetch}
}

// pageBuilder loads the data of one page. It returns the template name
// and the page data; apperr.ErrNotFound renders the 404 page.
type pageBuilder func(ctx context.Context, r *http.Request) (string, *render.SiteData, error)

// serve answers from the page cache when possible, otherwise builds,
// renders and caches the page. Requests with a query string bypass the
// cache since they carry one-off flags.
func (p *Public) serve(w http.ResponseWriter, r *http.Request, build pageBuilder) {
	ctx := r.Context()
	cacheable := p.pages != nil && r.URL.RawQuery == ""

	if cacheable {
		if cached, ok := p.pages.Get(ctx, r.URL.Path); ok {
			writeHTML(w, http.StatusOK, "HIT", cached)
			return
		}
	}

	name, data, err := build(ctx, r)
	if err != nil {
		p.fail(w, r, err)
		return
	}
	p.decorate(ctx, r, data)

	body, err := p.site.Render(name, data)
	if err != nil {
		slog.Error("render public page failed", "page", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if cacheable {
		p.pages.Set(ctx, r.URL.Path, body)
	}
	writeHTML(w, http.StatusOK, "MISS", body)
}

// decorate fills the layout fields every page shares.
func (p *Public) decorate(ctx context.Context, r *http.Request, data *render.SiteData) {
	data.Path = r.URL.Path
	if contact, err := p.contactSettings(ctx); err == nil {
		data.Contact = contact
	} else {
		slog.Warn("load contact settings failed", "error", err)
	}
	footer, err := cache.Fetch(p.fetch, settingsTag, models.SettingFooter, func() (models.Footer, error) {
		var f models.Footer
		_, err := p.content.Documents.Public(ctx, models.SettingFooter, &f)
		return f, err
	})
	if err != nil {
		slog.Warn("load footer failed", "error", err)
	}
	data.Footer = footer
}

// fail renders the 404 page for missing content and a bare error for
// everything else. Neither is cached.
func (p *Public) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, apperr.ErrNotFound) {
		p.NotFound(w, r)
		return
	}
	slog.Error("load public page failed", "path", r.URL.Path, "error", err)
	http.Error(w, apperr.Message(err), apperr.HTTPStatus(err))
}

// NotFound renders the site's 404 page.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	data := &render.SiteData{Title: "Page not found"}
	p.decorate(r.Context(), r, data)
	body, err := p.site.Render("not_found", data)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	writeHTML(w, http.StatusNotFound, "", body)
}

func writeHTML(w http.ResponseWriter, status int, cacheState string, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if cacheState != "" {
		w.Header().Set("X-Cache", cacheState)
	}
	w.WriteHeader(status)
	w.Write(body)
}

// --- Pages ---

// Home renders the homepage.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, func(ctx context.Context, _ *http.Request) (string, *render.SiteData, error) {
		hero, err := cache.Fetch(p.fetch, settingsTag, "hero", func() (*models.HeroSettings, error) {
			return p.content.Hero.Public(ctx)
		})
		if err != nil {
			return "", nil, err
		}
		why, err := cache.Fetch(p.fetch, settingsTag, "why_choose_us", func() (*models.WhyChooseUs, error) {
			return p.content.WhyChooseUs.Public(ctx)
		})
		if err != nil {
			return "", nil, err
		}
		services, err := p.services(ctx)
		if err != nil {
			return "", nil, err
		}
		testimonials, err := p.testimonials(ctx)
		if err != nil {
			return "", nil, err
		}
		posts, err := p.posts(ctx)
		if err != nil {
			return "", nil, err
		}

		return "home", &render.SiteData{
			Title:       hero.Headline,
			Description: models.Deref(hero.Subheadline),
			Data: map[string]any{
				"Hero":         hero,
				"WhyChooseUs":  why,
				"Services":     head(services, 6),
				"Testimonials": head(testimonials, 3),
				"Posts":        head(posts, 3),
			},
		}, nil
	})
}

// About renders the about page with the team.
func (p *Public) About(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, func(ctx context.Context, _ *http.Request) (string, *render.SiteData, error) {
		about, err := cache.Fetch(p.fetch, settingsTag, "about", func() (*models.AboutContent, error) {
			return p.content.About.Public(ctx)
		})
		if err != nil {
			return "", nil, err
		}
		staff, err := cache.Fetch(p.fetch, p.content.Managers.Staff.Definition().Name, "active", func() ([]models.StaffMember, error) {
			return p.content.Managers.Staff.ListAll(ctx, false)
		})
		if err != nil {
			return "", nil, err
		}
		specialties, err := p.specialties(ctx)
		if err != nil {
			return "", nil, err
		}
		names := make(map[string]string, len(specialties))
		for _, s := range specialties {
			names[s.Slug] = s.Name
		}
		story, err := markdown.ToHTML(models.Deref(about.Story))
		if err != nil {
			slog.Warn("render about story failed", "error", err)
		}

		return "about", &render.SiteData{
			Title:       about.Headline,
			Description: models.Deref(about.Intro),
			Data: map[string]any{
				"About":          about,
				"Story":          story,
				"Staff":          staff,
				"SpecialtyNames": names,
			},
		}, nil
	})
}

// serviceGroup is one category heading and its services. Category is nil
// for services without an active category.
type serviceGroup struct {
	Category *models.ServiceCategory
	Services []models.Service
}

// Services renders every active service grouped by category, plus the
// specialties section.
func (p *Public) Services(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, func(ctx context.Context, _ *http.Request) (string, *render.SiteData, error) {
		groups, err := p.serviceGroups(ctx)
		if err != nil {
			return "", nil, err
		}
		specialties, err := p.specialties(ctx)
		if err != nil {
			return "", nil, err
		}
		header, err := cache.Fetch(p.fetch, settingsTag, models.SettingServicesSpecialtiesHeader, func() (models.SectionHeader, error) {
			var h models.SectionHeader
			_, err := p.content.Documents.Public(ctx, models.SettingServicesSpecialtiesHeader, &h)
			return h, err
		})
		if err != nil {
			slog.Warn("load section header failed", "error", err)
		}

		return "services", &render.SiteData{
			Title: "Our services",
			Data: map[string]any{
				"Groups":          groups,
				"Specialties":     specialties,
				"SpecialtyHeader": header,
			},
		}, nil
	})
}

// Service renders one service by slug.
func (p *Public) Service(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, func(ctx context.Context, r *http.Request) (string, *render.SiteData, error) {
		slugParam := chi.URLParam(r, "slug")
		svc, err := cache.Fetch(p.fetch, p.content.Managers.Services.Definition().Name, "slug:"+slugParam, func() (*models.Service, error) {
			return p.content.Managers.Services.GetBySlug(ctx, slugParam)
		})
		if err != nil {
			return "", nil, err
		}
		body, err := markdown.ToHTML(models.Deref(svc.Body))
		if err != nil {
			slog.Warn("render service body failed", "slug", slugParam, "error", err)
		}
		var category *models.ServiceCategory
		if svc.CategoryID != nil {
			category = p.category(ctx, *svc.CategoryID)
		}

		return "service", &render.SiteData{
			Title:       svc.Title,
			Description: models.Deref(svc.Summary),
			Data: map[string]any{
				"Service":  svc,
				"Body":     body,
				"Category": category,
			},
		}, nil
	})
}

// Pricing renders the services that carry a price, grouped by category.
func (p *Public) Pricing(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, func(ctx context.Context, _ *http.Request) (string, *render.SiteData, error) {
		groups, err := p.serviceGroups(ctx)
		if err != nil {
			return "", nil, err
		}
		priced := groups[:0:0]
		for _, g := range groups {
			var svcs []models.Service
			for _, s := range g.Services {
				if s.PriceFrom != nil {
					svcs = append(svcs, s)
				}
			}
			if len(svcs) > 0 {
				priced = append(priced, serviceGroup{Category: g.Category, Services: svcs})
			}
		}

		return "pricing", &render.SiteData{
			Title: "Pricing",
			Data:  map[string]any{"Groups": priced},
		}, nil
	})
}

// Blog renders the published posts.
func (p *Public) Blog(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, func(ctx context.Context, _ *http.Request) (string, *render.SiteData, error) {
		posts, err := p.posts(ctx)
		if err != nil {
			return "", nil, err
		}
		return "blog", &render.SiteData{
			Title: "Blog",
			Data:  map[string]any{"Posts": posts},
		}, nil
	})
}

// Post renders one published post by slug, its Markdown body converted to
// HTML.
func (p *Public) Post(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, func(ctx context.Context, r *http.Request) (string, *render.SiteData, error) {
		slugParam := chi.URLParam(r, "slug")
		post, err := cache.Fetch(p.fetch, p.content.Managers.Posts.Definition().Name, "slug:"+slugParam, func() (*models.BlogPost, error) {
			return p.content.Managers.Posts.GetBySlug(ctx, slugParam)
		})
		if err != nil {
			return "", nil, err
		}
		source := models.Deref(post.Body)
		body, err := markdown.ToHTML(source)
		if err != nil {
			slog.Warn("render post body failed", "slug", slugParam, "error", err)
			body = template.HTML("")
		}

		return "post", &render.SiteData{
			Title:       post.Title,
			Description: models.Deref(post.Excerpt),
			Data: map[string]any{
				"Post":           post,
				"Body":           body,
				"ReadingMinutes": markdown.ReadingMinutes(source),
			},
		}, nil
	})
}

// Testimonials renders every published testimonial.
func (p *Public) Testimonials(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, func(ctx context.Context, _ *http.Request) (string, *render.SiteData, error) {
		testimonials, err := p.testimonials(ctx)
		if err != nil {
			return "", nil, err
		}
		return "testimonials", &render.SiteData{
			Title: "What families say",
			Data:  map[string]any{"Testimonials": testimonials},
		}, nil
	})
}

// Contact renders the contact page with the contact and inquiry forms.
// ?sent=1 and ?error= come back from the form handlers.
func (p *Public) Contact(w http.ResponseWriter, r *http.Request) {
	p.serve(w, r, func(ctx context.Context, r *http.Request) (string, *render.SiteData, error) {
		services, err := p.services(ctx)
		if err != nil {
			return "", nil, err
		}
		q := r.URL.Query()
		return "contact", &render.SiteData{
			Title: "Contact us",
			Data: map[string]any{
				"Services": services,
				"Sent":     q.Get("sent") != "",
				"Error":    q.Get("error"),
			},
		}, nil
	})
}

// --- Cached reads ---

func (p *Public) contactSettings(ctx context.Context) (*models.ContactSettings, error) {
	return cache.Fetch(p.fetch, settingsTag, "contact", func() (*models.ContactSettings, error) {
		return p.content.Contact.Public(ctx)
	})
}

func (p *Public) services(ctx context.Context) ([]models.Service, error) {
	m := p.content.Managers.Services
	return cache.Fetch(p.fetch, m.Definition().Name, "active", func() ([]models.Service, error) {
		return m.ListAll(ctx, false)
	})
}

func (p *Public) categories(ctx context.Context) ([]models.ServiceCategory, error) {
	m := p.content.Managers.Categories
	return cache.Fetch(p.fetch, m.Definition().Name, "active", func() ([]models.ServiceCategory, error) {
		return m.ListAll(ctx, false)
	})
}

func (p *Public) specialties(ctx context.Context) ([]models.ServiceSpecialty, error) {
	m := p.content.Managers.Specialties
	return cache.Fetch(p.fetch, m.Definition().Name, "active", func() ([]models.ServiceSpecialty, error) {
		return m.ListAll(ctx, false)
	})
}

func (p *Public) testimonials(ctx context.Context) ([]models.Testimonial, error) {
	m := p.content.Managers.Testimonials
	return cache.Fetch(p.fetch, m.Definition().Name, "active", func() ([]models.Testimonial, error) {
		return m.ListAll(ctx, false)
	})
}

func (p *Public) posts(ctx context.Context) ([]models.BlogPost, error) {
	m := p.content.Managers.Posts
	return cache.Fetch(p.fetch, m.Definition().Name, "active", func() ([]models.BlogPost, error) {
		return m.ListAll(ctx, false)
	})
}

// category returns the active category with id, or nil.
func (p *Public) category(ctx context.Context, id uuid.UUID) *models.ServiceCategory {
	cats, err := p.categories(ctx)
	if err != nil {
		return nil
	}
	for i := range cats {
		if cats[i].ID == id {
			return &cats[i]
		}
	}
	return nil
}

// serviceGroups buckets active services under their active categories,
// in category order. Services without one land in a trailing group.
func (p *Public) serviceGroups(ctx context.Context) ([]serviceGroup, error) {
	services, err := p.services(ctx)
	if err != nil {
		return nil, err
	}
	cats, err := p.categories(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[uuid.UUID]int, len(cats))
	groups := make([]serviceGroup, 0, len(cats)+1)
	for i := range cats {
		index[cats[i].ID] = len(groups)
		groups = append(groups, serviceGroup{Category: &cats[i]})
	}
	var other []models.Service
	for _, s := range services {
		if s.CategoryID != nil {
			if i, ok := index[*s.CategoryID]; ok {
				groups[i].Services = append(groups[i].Services, s)
				continue
			}
		}
		other = append(other, s)
	}

	out := groups[:0]
	for _, g := range groups {
		if len(g.Services) > 0 {
			out = append(out, g)
		}
	}
	if len(other) > 0 {
		out = append(out, serviceGroup{Services: other})
	}
	return out, nil
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
