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
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"caresite/internal/apperr"
	"caresite/internal/imaging"
	"caresite/internal/media"
)

// ImageService is the part of the media adapter the handlers use.
type ImageService interface {
	Upload(ctx context.Context, bucket, folder string, f media.File, maxSizeMB int) (string, error)
	Delete(ctx context.Context, rawURL string) error
	Render(ctx context.Context, bucket, key string, opts imaging.Options) (*imaging.Result, error)
}

// Uploads serves the admin image upload endpoints and the public render
// endpoint.
type Uploads struct {
	images    ImageService
	maxSizeMB int
}

// NewUploads creates the upload handler group.
func NewUploads(images ImageService, maxSizeMB int) *Uploads {
	return &Uploads{images: images, maxSizeMB: maxSizeMB}
}

type uploadRequest struct {
	Bucket string     `json:"bucket"`
	Folder string     `json:"folder"`
	File   media.File `json:"file"`
}

// Upload accepts {"bucket", "folder", "file": {"data", "fileName",
// "contentType"}} and responds with the public URL.
func (u *Uploads) Upload(w http.ResponseWriter, r *http.Request) {
	// base64 inflates by 4/3; leave room for the JSON envelope.
	limit := int64(u.maxSizeMB)*1024*1024*4/3 + 64<<10
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeResult(w, Result{}, apperr.PayloadTooLarge("image exceeds the upload limit"))
			return
		}
		writeResult(w, Result{}, apperr.Validation("malformed upload request"))
		return
	}

	url, err := u.images.Upload(r.Context(), req.Bucket, req.Folder, req.File, u.maxSizeMB)
	writeResult(w, Result{URL: url}, err)
}

type deleteRequest struct {
	URL string `json:"url"`
}

// Delete removes an uploaded image by URL. Foreign URLs succeed without
// doing anything.
func (u *Uploads) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 16<<10)).Decode(&req); err != nil || req.URL == "" {
		writeResult(w, Result{}, apperr.Validation("url required"))
		return
	}
	writeResult(w, Result{}, u.images.Delete(r.Context(), req.URL))
}

// RenderImage serves /render/image/{bucket}/* resized per the width,
// height, quality and resize query parameters.
func (u *Uploads) RenderImage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := imaging.Options{
		Width:   atoiOr(q.Get("width")),
		Height:  atoiOr(q.Get("height")),
		Quality: atoiOr(q.Get("quality")),
		Resize:  q.Get("resize"),
	}

	res, err := u.images.Render(r.Context(), chi.URLParam(r, "bucket"), chi.URLParam(r, "*"), opts)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			slog.Warn("image render failed", "path", r.URL.Path, "error", err)
		}
		http.Error(w, apperr.Message(err), apperr.HTTPStatus(err))
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(int((30*24*time.Hour).Seconds()))+", immutable")
	w.Write(res.Data)
}

func atoiOr(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
