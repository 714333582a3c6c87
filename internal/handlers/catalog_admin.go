// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"caresite/internal/apperr"
	"caresite/internal/catalog"
	"caresite/internal/render"
)

// Field kinds understood by the catalog_form template.
const (
	FieldText     = "text"
	FieldTextarea = "textarea"
	FieldMarkdown = "markdown"
	FieldNumber   = "number"
	FieldEmail    = "email"
	FieldCheckbox = "checkbox"
	FieldSelect   = "select"
	FieldImage    = "image"
)

// Option is one choice of a select field.
type Option struct {
	Value string
	Label string
}

// FormField describes one input of a catalog form. Name matches the
// form tag of the catalog's input struct.
type FormField struct {
	Name     string
	Label    string
	Kind     string
	Required bool
	Help     string
	Bucket   string // image fields: upload target bucket
	Options  []Option
}

// CatalogView configures the admin screens of one catalog.
type CatalogView[T catalog.Record, In catalog.Input] struct {
	Title    string // plural, for headings: "Services"
	Section  string // active sidebar entry
	BasePath string // "/admin/services"
	Fields   []FormField

	// NewInput returns an empty input for binding.
	NewInput func() In
	// FromItem returns the input that reproduces item, for edit forms.
	FromItem func(item T) In
	// Options loads select choices by field name at render time.
	Options func(ctx context.Context) (map[string][]Option, error)
}

// CatalogAdmin serves list, form and JSON endpoints for one catalog.
type CatalogAdmin[T catalog.Record, In catalog.Input] struct {
	renderer *render.Renderer
	manager  *catalog.Manager[T, In]
	view     CatalogView[T, In]
}

// NewCatalogAdmin creates the admin handler group for manager.
func NewCatalogAdmin[T catalog.Record, In catalog.Input](renderer *render.Renderer, manager *catalog.Manager[T, In], view CatalogView[T, In]) *CatalogAdmin[T, In] {
	return &CatalogAdmin[T, In]{renderer: renderer, manager: manager, view: view}
}

// Mount registers the catalog routes under the view's base path. Paths
// are registered in full so nested catalogs (services and
// services/categories) never shadow one another.
func (c *CatalogAdmin[T, In]) Mount(r chi.Router) {
	base := c.view.BasePath
	r.Get(base, c.List)
	r.Get(base+"/new", c.New)
	r.Post(base, c.Create)
	r.Post(base+"/reorder", c.Reorder)
	r.Get(base+"/{id}/edit", c.Edit)
	r.Post(base+"/{id}", c.Update)
	r.Post(base+"/{id}/toggle", c.Toggle)
	r.Delete(base+"/{id}", c.Delete)
}

// List renders every item, inactive ones included, in sort order.
func (c *CatalogAdmin[T, In]) List(w http.ResponseWriter, r *http.Request) {
	items, err := c.manager.ListAll(r.Context(), true)
	data := c.pageData(c.view.Title)
	if err != nil {
		data.Error = apperr.Message(err)
	}
	rows := make([]catalog.Record, 0, len(items))
	for _, item := range items {
		rows = append(rows, item)
	}
	data.Data["Items"] = rows
	data.Data["Sluggable"] = c.manager.Definition().Sluggable
	c.renderer.Page(w, r, "catalog_list", data)
}

// New renders an empty form.
func (c *CatalogAdmin[T, In]) New(w http.ResponseWriter, r *http.Request) {
	c.renderForm(w, r, http.StatusOK, nil, c.view.NewInput(), "")
}

// Create binds and stores a new item, then redirects to the list.
func (c *CatalogAdmin[T, In]) Create(w http.ResponseWriter, r *http.Request) {
	in := c.view.NewInput()
	if err := bindForm(r, in); err != nil {
		c.renderForm(w, r, apperr.HTTPStatus(err), nil, in, apperr.Message(err))
		return
	}

	item, err := c.manager.Create(r.Context(), in)
	if err != nil {
		c.renderForm(w, r, apperr.HTTPStatus(err), nil, in, apperr.Message(err))
		return
	}

	slog.Info("catalog item created", "catalog", c.manager.Definition().Name, "id", (*item).ItemID())
	http.Redirect(w, r, c.view.BasePath, http.StatusSeeOther)
}

// Edit renders the form for an existing item.
func (c *CatalogAdmin[T, In]) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	item, err := c.manager.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, apperr.Message(err), apperr.HTTPStatus(err))
		return
	}
	c.renderForm(w, r, http.StatusOK, &id, c.view.FromItem(*item), "")
}

// Update replaces the item's fields and redirects to the list.
func (c *CatalogAdmin[T, In]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	in := c.view.NewInput()
	if err := bindForm(r, in); err != nil {
		c.renderForm(w, r, apperr.HTTPStatus(err), &id, in, apperr.Message(err))
		return
	}

	if _, err := c.manager.Update(r.Context(), id, in); err != nil {
		c.renderForm(w, r, apperr.HTTPStatus(err), &id, in, apperr.Message(err))
		return
	}

	slog.Info("catalog item updated", "catalog", c.manager.Definition().Name, "id", id)
	http.Redirect(w, r, c.view.BasePath, http.StatusSeeOther)
}

// Delete removes an item. Responds with a Result; a referenced item
// yields 409 and stays in place.
func (c *CatalogAdmin[T, In]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err == nil {
		err = c.manager.Delete(r.Context(), id)
	}
	if err == nil {
		slog.Info("catalog item deleted", "catalog", c.manager.Definition().Name, "id", id)
	}
	writeResult(w, Result{}, err)
}

type reorderRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// Reorder accepts {"ids": [...]} in the desired order.
func (c *CatalogAdmin[T, In]) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeResult(w, Result{}, apperr.Validation("malformed order list"))
		return
	}
	writeResult(w, Result{}, c.manager.Reorder(r.Context(), req.IDs))
}

// Toggle flips the visibility flag and reports the new value.
func (c *CatalogAdmin[T, In]) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeResult(w, Result{}, err)
		return
	}
	active, err := c.manager.Toggle(r.Context(), id)
	writeResult(w, Result{Active: &active}, err)
}

func (c *CatalogAdmin[T, In]) pageData(title string) *render.PageData {
	return &render.PageData{
		Title:   title,
		Section: c.view.Section,
		Data: map[string]any{
			"Catalog":  c.view.Title,
			"Label":    c.manager.Definition().Label,
			"BasePath": c.view.BasePath,
		},
	}
}

// renderForm shows the create form (id nil) or the edit form, with in's
// values and an optional error message.
func (c *CatalogAdmin[T, In]) renderForm(w http.ResponseWriter, r *http.Request, status int, id *uuid.UUID, in In, formErr string) {
	title := "New " + c.manager.Definition().Label
	action := c.view.BasePath
	if id != nil {
		title = "Edit " + c.manager.Definition().Label
		action = c.view.BasePath + "/" + id.String()
	}

	fields := c.view.Fields
	if c.view.Options != nil {
		opts, err := c.view.Options(r.Context())
		if err != nil {
			slog.Error("load form options failed", "catalog", c.manager.Definition().Name, "error", err)
		}
		fields = withOptions(fields, opts)
	}

	data := c.pageData(title)
	data.Error = formErr
	data.Data["Action"] = action
	data.Data["Fields"] = fields
	data.Data["Values"] = formValues(in)
	c.renderer.PageStatus(w, r, status, "catalog_form", data)
}

func withOptions(fields []FormField, opts map[string][]Option) []FormField {
	if len(opts) == 0 {
		return fields
	}
	out := make([]FormField, len(fields))
	copy(out, fields)
	for i := range out {
		if o, ok := opts[out[i].Name]; ok {
			out[i].Options = o
		}
	}
	return out
}
