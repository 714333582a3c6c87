// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"caresite/internal/apperr"
	"caresite/internal/catalog"
	"caresite/internal/models"
	"caresite/internal/render"
)

// SubmissionStore persists contact messages and care inquiries.
type SubmissionStore interface {
	Create(ctx context.Context, sub *models.Submission) (*models.Submission, error)
	List(ctx context.Context, kind models.SubmissionKind, status models.SubmissionStatus) ([]models.Submission, error)
	SetStatus(ctx context.Context, kind models.SubmissionKind, id uuid.UUID, status models.SubmissionStatus) (bool, error)
	Delete(ctx context.Context, kind models.SubmissionKind, id uuid.UUID) (bool, error)
	CountNew(ctx context.Context) (map[models.SubmissionKind]int, error)
}

// Notifier tells the site owner about a new submission.
type Notifier interface {
	SubmissionReceived(to string, s *models.Submission) error
}

// Submissions handles the public forms and their admin inbox.
type Submissions struct {
	renderer *render.Renderer
	store    SubmissionStore
	contact  SingletonStore[models.ContactSettings]
	notifier Notifier
}

// NewSubmissions creates the submissions handler group. notifier may be
// nil when mail is not configured.
func NewSubmissions(renderer *render.Renderer, store SubmissionStore, contact SingletonStore[models.ContactSettings], notifier Notifier) *Submissions {
	return &Submissions{renderer: renderer, store: store, contact: contact, notifier: notifier}
}

// --- Public forms ---

// Contact accepts the public contact form.
func (s *Submissions) Contact(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, models.KindContact)
}

// Inquiry accepts a care inquiry.
func (s *Submissions) Inquiry(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, models.KindInquiry)
}

// submit validates and stores a submission. Form posts are redirected to
// the contact page with a status flag; JSON callers get a Result.
func (s *Submissions) submit(w http.ResponseWriter, r *http.Request, kind models.SubmissionKind) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)

	var sub models.Submission
	err := bindForm(r, &sub)
	// Bots fill the hidden "website" field; pretend it worked.
	if err == nil && r.PostForm.Get("website") != "" {
		slog.Info("submission honeypot tripped", "kind", kind)
		s.respond(w, r, nil)
		return
	}
	if err == nil {
		sub.Kind = kind
		sub.Normalize()
		if kind == models.KindContact {
			sub.ServiceID, sub.CareRecipient, sub.PreferredStart = nil, nil, nil
		}
		err = catalog.Struct(&sub)
	}
	var created *models.Submission
	if err == nil {
		created, err = s.store.Create(r.Context(), &sub)
		if err != nil {
			slog.Error("store submission failed", "kind", kind, "error", err)
			err = apperr.StoreUnavailable(err)
		}
	}
	if err != nil {
		s.respond(w, r, err)
		return
	}

	slog.Info("submission received", "kind", kind, "id", created.ID)
	s.notify(r.Context(), created)
	s.respond(w, r, nil)
}

// notify mails the contact address. Failures are logged only; the
// submission is already stored.
func (s *Submissions) notify(ctx context.Context, sub *models.Submission) {
	if s.notifier == nil {
		return
	}
	contact, err := s.contact.Get(ctx)
	if err != nil || contact.Email == nil {
		slog.Warn("no notification address for submission", "id", sub.ID, "error", err)
		return
	}
	if err := s.notifier.SubmissionReceived(*contact.Email, sub); err != nil {
		slog.Error("submission notification failed", "id", sub.ID, "error", err)
	}
}

func (s *Submissions) respond(w http.ResponseWriter, r *http.Request, err error) {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		writeResult(w, Result{}, err)
		return
	}
	if err != nil {
		http.Redirect(w, r, "/contact?error="+url.QueryEscape(apperr.Message(err)), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/contact?sent=1", http.StatusSeeOther)
}

// --- Admin inbox ---

// List renders both inboxes, filtered by ?status= (default: everything
// not archived).
func (s *Submissions) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := models.SubmissionStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		status = ""
	}

	data := &render.PageData{
		Title:   "Submissions",
		Section: "submissions",
		Data:    map[string]any{"Status": string(status)},
	}
	for _, kind := range []models.SubmissionKind{models.KindContact, models.KindInquiry} {
		subs, err := s.store.List(ctx, kind, status)
		if err != nil {
			slog.Error("list submissions failed", "kind", kind, "error", err)
			data.Error = apperr.Message(apperr.StoreUnavailable(err))
		}
		data.Data[string(kind)] = subs
	}
	s.renderer.Page(w, r, "submissions", data)
}

// SetStatus marks a submission read, new or archived.
func (s *Submissions) SetStatus(w http.ResponseWriter, r *http.Request) {
	kind, id, err := submissionRef(r)
	if err != nil {
		writeResult(w, Result{}, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeResult(w, Result{}, apperr.Validation("malformed form"))
		return
	}
	status := models.SubmissionStatus(r.PostForm.Get("status"))
	if !status.Valid() {
		writeResult(w, Result{}, apperr.Validation("unknown status"))
		return
	}

	ok, err := s.store.SetStatus(r.Context(), kind, id, status)
	writeResult(w, Result{}, storeResult(ok, err))
}

// Delete removes a submission for good.
func (s *Submissions) Delete(w http.ResponseWriter, r *http.Request) {
	kind, id, err := submissionRef(r)
	if err != nil {
		writeResult(w, Result{}, err)
		return
	}
	ok, err := s.store.Delete(r.Context(), kind, id)
	writeResult(w, Result{}, storeResult(ok, err))
}

func submissionRef(r *http.Request) (models.SubmissionKind, uuid.UUID, error) {
	kind := models.SubmissionKind(chi.URLParam(r, "kind"))
	if kind != models.KindContact && kind != models.KindInquiry {
		return "", uuid.Nil, apperr.NotFound("submission")
	}
	id, err := pathID(r)
	if err != nil {
		return "", uuid.Nil, apperr.NotFound("submission")
	}
	return kind, id, nil
}

func storeResult(ok bool, err error) error {
	if err != nil {
		slog.Error("submission store error", "error", err)
		return apperr.StoreUnavailable(err)
	}
	if !ok {
		return apperr.NotFound("submission")
	}
	return nil
}
