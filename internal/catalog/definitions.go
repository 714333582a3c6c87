// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import "sort"

var (
	Categories = Definition{
		Name:      "categories",
		Label:     "Service category",
		NameLabel: "name",
		Sluggable: true,
		References: []Reference{{
			Table:   "services",
			Column:  "category_id",
			Message: "This category still has services. Move or delete them first.",
		}},
		// Service detail pages show their category name.
		Paths: []string{"/services", "/services/*", "/pricing", "/admin/services/categories"},
	}

	Specialties = Definition{
		Name:      "specialties",
		Label:     "Service specialty",
		NameLabel: "name",
		Sluggable: true,
		References: []Reference{{
			Table:   "staff_members",
			Column:  "specialty",
			BySlug:  true,
			Message: "Team members are still assigned to this specialty. Reassign them first.",
		}},
		Paths: []string{"/services", "/about", "/admin/services/specialties"},
	}

	Services = Definition{
		Name:      "services",
		Label:     "Service",
		NameLabel: "title",
		Sluggable: true,
		Paths:     []string{"/", "/services", "/services/{slug}", "/pricing", "/admin/services"},
	}

	Testimonials = Definition{
		Name:      "testimonials",
		Label:     "Testimonial",
		NameLabel: "client name",
		Paths:     []string{"/", "/testimonials", "/admin/testimonials"},
	}

	Staff = Definition{
		Name:      "staff",
		Label:     "Team member",
		NameLabel: "name",
		Sluggable: true,
		Paths:     []string{"/about", "/admin/about/team"},
	}

	Posts = Definition{
		Name:      "posts",
		Label:     "Blog post",
		NameLabel: "title",
		Sluggable: true,
		Paths:     []string{"/", "/blog", "/blog/{slug}", "/admin/blog"},
	}
)

var registry = map[string]Definition{
	Categories.Name:   Categories,
	Specialties.Name:  Specialties,
	Services.Name:     Services,
	Testimonials.Name: Testimonials,
	Staff.Name:        Staff,
	Posts.Name:        Posts,
}

// Lookup returns the definition registered under name.
func Lookup(name string) (Definition, bool) {
	d, ok := registry[name]
	return d, ok
}

// Names returns every registered catalog name, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
