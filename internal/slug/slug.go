// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives URL-safe identifiers from display names.
package slug

import (
	"regexp"
	"strings"
)

// separators matches every maximal run of characters that may not appear
// in a slug.
var separators = regexp.MustCompile(`[^a-z0-9]+`)

// Derive lower-cases s, replaces each run of characters outside [a-z0-9]
// with a single hyphen and trims hyphens from both ends.
// Example: "Home Care & Support!" → "home-care-support"
//
// Input with no letters or digits yields "".
func Derive(s string) string {
	result := separators.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(result, "-")
}

// Valid reports whether s could have been produced by Derive.
func Valid(s string) bool {
	return s != "" && Derive(s) == s
}
