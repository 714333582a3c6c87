// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"heading gets id", "## Respite care", `<h2 id="respite-care">Respite care</h2>`},
		{"emphasis", "We are *here*.", "<em>here</em>"},
		{"gfm table", "| a | b |\n|---|---|\n| 1 | 2 |", "<table>"},
		{"autolink", "Visit https://example.com today", `<a href="https://example.com">`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToHTML(tt.in)
			if err != nil {
				t.Fatalf("ToHTML: %v", err)
			}
			if !strings.Contains(string(got), tt.want) {
				t.Errorf("ToHTML(%q) = %q, want it to contain %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestToHTMLDropsRawHTML(t *testing.T) {
	got, err := ToHTML("hello\n\n<script>alert(1)</script>")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(got), "<script>") {
		t.Errorf("raw HTML passed through: %q", got)
	}
}

func TestReadingMinutes(t *testing.T) {
	if got := ReadingMinutes(""); got != 1 {
		t.Errorf("empty: got %d, want 1", got)
	}
	if got := ReadingMinutes(strings.Repeat("word ", 450)); got != 3 {
		t.Errorf("450 words: got %d, want 3", got)
	}
}
