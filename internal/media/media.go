// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package media is the image upload adapter in front of object storage.
// It validates and names uploads, removes objects by their public URL and
// rewrites owned URLs into render URLs that resize on the fly.
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"caresite/internal/apperr"
	"caresite/internal/imaging"
	"caresite/internal/storage"
)

// Buckets the site stores images in.
const (
	BucketTestimonials = "testimonials"
	BucketServices     = "services"
	BucketAbout        = "about"
	BucketHome         = "home-images"
	BucketWhyChooseUs  = "why-choose-us-images"
)

// Buckets lists every known bucket.
var Buckets = []string{BucketTestimonials, BucketServices, BucketAbout, BucketHome, BucketWhyChooseUs}

// allowedTypes maps accepted content types to the extension used when the
// original file name has none.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// typeExtensions lists the file extensions accepted for each content type.
var typeExtensions = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/webp": {".webp"},
	"image/gif":  {".gif"},
}

const nameAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// ObjectStore is the subset of the storage client the adapter uses.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, key, contentType string, body io.Reader, size int64) error
	Download(ctx context.Context, bucket, key string) ([]byte, string, error)
	Delete(ctx context.Context, bucket, key string) error
	BaseURL() string
}

// File is an upload as the admin UI sends it: base64 data, optionally as
// a data: URL.
type File struct {
	Data        string `json:"data"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

// Adapter uploads, deletes and transforms site images.
type Adapter struct {
	store      ObjectStore
	renderBase string

	now    func() time.Time
	nameID func() (string, error)
}

// New creates an adapter. store may be nil, in which case uploads fail
// with a configuration error and every URL is treated as foreign.
// renderBase prefixes render URLs and may be empty for relative URLs.
func New(store ObjectStore, renderBase string) *Adapter {
	return &Adapter{
		store:      store,
		renderBase: strings.TrimRight(renderBase, "/"),
		now:        time.Now,
		nameID:     func() (string, error) { return gonanoid.Generate(nameAlphabet, 12) },
	}
}

// Enabled reports whether uploads can succeed.
func (a *Adapter) Enabled() bool {
	return a.store != nil
}

// KnownBucket reports whether b is one of the site buckets.
func KnownBucket(b string) bool {
	for _, k := range Buckets {
		if k == b {
			return true
		}
	}
	return false
}

// Upload validates f and stores it under bucket/folder. Every check runs
// before the storage call, so a rejected upload writes nothing.
func (a *Adapter) Upload(ctx context.Context, bucket, folder string, f File, maxSizeMB int) (string, error) {
	if a.store == nil {
		return "", apperr.Config("image storage is not configured")
	}
	if !KnownBucket(bucket) {
		return "", apperr.Validation(fmt.Sprintf("unknown bucket %q", bucket))
	}
	folder, err := cleanFolder(folder)
	if err != nil {
		return "", err
	}

	declared := strings.ToLower(strings.TrimSpace(f.ContentType))
	if _, ok := allowedTypes[declared]; !ok {
		return "", apperr.UnsupportedMediaType(f.ContentType)
	}

	data, err := decodePayload(f.Data)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", apperr.Validation("image is empty")
	}
	limit := int64(maxSizeMB) * 1024 * 1024
	if int64(len(data)) > limit {
		return "", apperr.PayloadTooLarge(fmt.Sprintf("image is %s; the limit is %s",
			humanize.Bytes(uint64(len(data))), humanize.Bytes(uint64(limit))))
	}

	sniffed := mimetype.Detect(data).String()
	if _, ok := allowedTypes[sniffed]; !ok {
		return "", apperr.UnsupportedMediaType(sniffed)
	}

	name, err := a.fileName(f.FileName, sniffed)
	if err != nil {
		return "", err
	}
	key := name
	if folder != "" {
		key = folder + "/" + name
	}

	if err := a.store.Upload(ctx, bucket, key, sniffed, bytes.NewReader(data), int64(len(data))); err != nil {
		slog.Error("image upload failed", "bucket", bucket, "key", key, "error", err)
		return "", apperr.StoreUnavailable(err)
	}

	slog.Info("image uploaded", "bucket", bucket, "key", key, "size", humanize.Bytes(uint64(len(data))))
	return storage.ObjectURL(a.store.BaseURL(), bucket, key), nil
}

// Delete removes the object behind rawURL. URLs that do not point into a
// known bucket are someone else's and are left alone.
func (a *Adapter) Delete(ctx context.Context, rawURL string) error {
	bucket, key, ok := a.owned(rawURL)
	if !ok {
		return nil
	}
	if err := a.store.Delete(ctx, bucket, key); err != nil {
		slog.Error("image delete failed", "bucket", bucket, "key", key, "error", err)
		return apperr.StoreUnavailable(err)
	}
	return nil
}

// Transform rewrites an owned image URL into a render URL carrying opts.
// Foreign and empty URLs come back unchanged.
func (a *Adapter) Transform(rawURL string, opts imaging.Options) string {
	bucket, key, ok := a.owned(rawURL)
	if !ok {
		return rawURL
	}

	q := url.Values{}
	if opts.Width > 0 {
		q.Set("width", strconv.Itoa(opts.Width))
	}
	if opts.Height > 0 {
		q.Set("height", strconv.Itoa(opts.Height))
	}
	if opts.Quality > 0 {
		q.Set("quality", strconv.Itoa(opts.Quality))
	}
	if opts.Resize != "" {
		q.Set("resize", opts.Resize)
	}

	u := a.renderBase + "/render/image/" + bucket + "/" + key
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// Render downloads an original and resizes it.
func (a *Adapter) Render(ctx context.Context, bucket, key string, opts imaging.Options) (*imaging.Result, error) {
	if a.store == nil {
		return nil, apperr.Config("image storage is not configured")
	}
	if !KnownBucket(bucket) || key == "" || strings.Contains(key, "..") {
		return nil, apperr.NotFound("image")
	}
	data, _, err := a.store.Download(ctx, bucket, key)
	if err != nil {
		slog.Warn("image download failed", "bucket", bucket, "key", key, "error", err)
		return nil, apperr.NotFound("image")
	}
	res, err := imaging.Resize(data, opts)
	if err != nil {
		return nil, apperr.UnsupportedMediaType(mimetype.Detect(data).String())
	}
	return res, nil
}

func (a *Adapter) owned(rawURL string) (bucket, key string, ok bool) {
	if a.store == nil || rawURL == "" {
		return "", "", false
	}
	bucket, key, ok = storage.ParseObjectURL(a.store.BaseURL(), rawURL)
	if !ok || !KnownBucket(bucket) {
		return "", "", false
	}
	return bucket, key, true
}

// fileName builds "<unix-millis>-<random><ext>". The original extension
// is kept only when it names the sniffed type; anything else gets the
// type's canonical extension.
func (a *Adapter) fileName(original, contentType string) (string, error) {
	ext := strings.ToLower(path.Ext(original))
	if !slices.Contains(typeExtensions[contentType], ext) {
		ext = allowedTypes[contentType]
	}
	id, err := a.nameID()
	if err != nil {
		return "", fmt.Errorf("generate file name: %w", err)
	}
	return fmt.Sprintf("%d-%s%s", a.now().UnixMilli(), id, ext), nil
}

func cleanFolder(folder string) (string, error) {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		return "", nil
	}
	for _, seg := range strings.Split(folder, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", apperr.Validation(fmt.Sprintf("invalid folder %q", folder))
		}
	}
	return folder, nil
}

// decodePayload accepts plain base64 or a data: URL.
func decodePayload(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "data:") {
		_, after, ok := strings.Cut(s, ",")
		if !ok {
			return nil, apperr.Validation("image data URL is malformed")
		}
		s = after
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, apperr.Validation("image data is not valid base64")
	}
	return data, nil
}
