// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the error kinds shared by the catalog managers,
// stores, upload adapter and HTTP handlers. Handlers translate a kind into
// an HTTP status and a user-facing message; raw driver errors never reach
// the UI.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindDuplicateSlug
	KindNotFound
	KindReferenced
	KindPayloadTooLarge
	KindUnsupportedMediaType
	KindStoreUnavailable
	KindConfig
	KindSingletonMissing
	KindSingletonAmbiguous
)

var kindNames = map[Kind]string{
	KindInternal:             "internal",
	KindValidation:           "validation",
	KindDuplicateSlug:        "duplicate slug",
	KindNotFound:             "not found",
	KindReferenced:           "referenced",
	KindPayloadTooLarge:      "payload too large",
	KindUnsupportedMediaType: "unsupported media type",
	KindStoreUnavailable:     "store unavailable",
	KindConfig:               "configuration",
	KindSingletonMissing:     "singleton missing",
	KindSingletonAmbiguous:   "singleton ambiguous",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a classified application error.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Kind.String() + ": " + e.Err.Error()
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the bare sentinels below by kind, so callers can write
// errors.Is(err, apperr.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Msg != "" || t.Err != nil {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrValidation           = &Error{Kind: KindValidation}
	ErrDuplicateSlug        = &Error{Kind: KindDuplicateSlug}
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrReferenced           = &Error{Kind: KindReferenced}
	ErrPayloadTooLarge      = &Error{Kind: KindPayloadTooLarge}
	ErrUnsupportedMediaType = &Error{Kind: KindUnsupportedMediaType}
	ErrStoreUnavailable     = &Error{Kind: KindStoreUnavailable}
	ErrConfig               = &Error{Kind: KindConfig}
	ErrSingletonMissing     = &Error{Kind: KindSingletonMissing}
	ErrSingletonAmbiguous   = &Error{Kind: KindSingletonAmbiguous}
)

func Validation(msg string) error { return &Error{Kind: KindValidation, Msg: msg} }

func DuplicateSlug(slug string) error {
	return &Error{Kind: KindDuplicateSlug, Msg: fmt.Sprintf("an item with the slug %q already exists", slug)}
}

func NotFound(what string) error {
	return &Error{Kind: KindNotFound, Msg: what + " not found"}
}

func Referenced(msg string) error { return &Error{Kind: KindReferenced, Msg: msg} }

func PayloadTooLarge(msg string) error { return &Error{Kind: KindPayloadTooLarge, Msg: msg} }

func UnsupportedMediaType(contentType string) error {
	return &Error{
		Kind: KindUnsupportedMediaType,
		Msg:  fmt.Sprintf("file type %q is not allowed; use JPEG, PNG, WebP or GIF", contentType),
	}
}

// StoreUnavailable wraps a driver or network failure. The wrapped error is
// kept for logs only.
func StoreUnavailable(err error) error { return &Error{Kind: KindStoreUnavailable, Err: err} }

func Config(msg string) error { return &Error{Kind: KindConfig, Msg: msg} }

func SingletonMissing(table string) error {
	return &Error{Kind: KindSingletonMissing, Msg: "no " + table + " row exists"}
}

func SingletonAmbiguous(table string, n int) error {
	return &Error{Kind: KindSingletonAmbiguous, Msg: fmt.Sprintf("expected one %s row, found %d", table, n)}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the text safe to show an admin or visitor.
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "Something went wrong. Please try again."
	}
	switch e.Kind {
	case KindInternal, KindStoreUnavailable:
		return "The service is temporarily unavailable. Please try again."
	case KindSingletonMissing, KindSingletonAmbiguous:
		return "Site settings are misconfigured: " + e.Msg
	}
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Msg
}

// HTTPStatus maps err to a response status.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindDuplicateSlug, KindReferenced:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindUnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	case KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
