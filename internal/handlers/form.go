// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"caresite/internal/apperr"
)

var uuidType = reflect.TypeOf(uuid.UUID{})

// bindForm copies form values into the fields of dst tagged `form:"..."`.
// Supported field types are string, bool, int and pointers to string,
// int and uuid.UUID. Missing checkboxes bind as false; blank values bind
// optional pointers to nil.
func bindForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return apperr.Validation("malformed form")
	}
	return bindValues(r.PostForm, dst)
}

func bindValues(values url.Values, dst any) error {
	v := reflect.ValueOf(dst).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Tag.Get("form")
		if name == "" || name == "-" {
			continue
		}
		raw := strings.TrimSpace(values.Get(name))
		if err := setField(v.Field(i), name, raw); err != nil {
			return err
		}
	}
	return nil
}

func setField(f reflect.Value, name, raw string) error {
	switch f.Kind() {
	case reflect.String:
		f.SetString(raw)
	case reflect.Bool:
		f.SetBool(raw == "on" || raw == "true" || raw == "1")
	case reflect.Int:
		if raw == "" {
			f.SetInt(0)
			return nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return apperr.Validation(fieldLabel(name) + " must be a number")
		}
		f.SetInt(int64(n))
	case reflect.Ptr:
		if raw == "" {
			f.Set(reflect.Zero(f.Type()))
			return nil
		}
		elem := f.Type().Elem()
		switch {
		case elem == uuidType:
			id, err := uuid.Parse(raw)
			if err != nil {
				return apperr.Validation(fieldLabel(name) + " is not a valid selection")
			}
			f.Set(reflect.ValueOf(&id))
		case elem.Kind() == reflect.String:
			s := raw
			f.Set(reflect.ValueOf(&s))
		case elem.Kind() == reflect.Int:
			n, err := strconv.Atoi(raw)
			if err != nil {
				return apperr.Validation(fieldLabel(name) + " must be a number")
			}
			f.Set(reflect.ValueOf(&n))
		default:
			return fmt.Errorf("bind %s: unsupported pointer type %s", name, elem)
		}
	default:
		return fmt.Errorf("bind %s: unsupported type %s", name, f.Type())
	}
	return nil
}

// formValues is the inverse of bindForm: it renders the tagged fields of
// src as strings for re-populating a form.
func formValues(src any) map[string]string {
	out := make(map[string]string)
	v := reflect.ValueOf(src)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return out
		}
		v = v.Elem()
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Tag.Get("form")
		if name == "" || name == "-" {
			continue
		}
		out[name] = fieldString(v.Field(i))
	}
	return out
}

func fieldString(f reflect.Value) string {
	switch f.Kind() {
	case reflect.Ptr:
		if f.IsNil() {
			return ""
		}
		return fieldString(f.Elem())
	case reflect.String:
		return f.String()
	case reflect.Bool:
		if f.Bool() {
			return "on"
		}
		return ""
	case reflect.Int:
		return strconv.FormatInt(f.Int(), 10)
	}
	if s, ok := f.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	return ""
}

func fieldLabel(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}
