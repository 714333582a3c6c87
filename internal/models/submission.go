// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus is the only workflow state a form submission carries.
type SubmissionStatus string

const (
	SubmissionNew      SubmissionStatus = "new"
	SubmissionRead     SubmissionStatus = "read"
	SubmissionArchived SubmissionStatus = "archived"
)

// Valid reports whether s is one of the known statuses.
func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionNew, SubmissionRead, SubmissionArchived:
		return true
	}
	return false
}

// SubmissionKind distinguishes the two public forms.
type SubmissionKind string

const (
	KindContact SubmissionKind = "contact"
	KindInquiry SubmissionKind = "inquiry"
)

// Submission is a message left through the contact form or a care
// inquiry. Inquiry-only fields are nil for contact messages.
type Submission struct {
	ID             uuid.UUID        `json:"id"`
	Kind           SubmissionKind   `json:"kind"`
	Name           string           `json:"name" form:"name" validate:"required,max=120"`
	Email          string           `json:"email" form:"email" validate:"required,email"`
	Phone          *string          `json:"phone,omitempty" form:"phone" validate:"omitempty,max=40"`
	Message        string           `json:"message" form:"message" validate:"required,max=5000"`
	ServiceID      *uuid.UUID       `json:"service_id,omitempty" form:"service_id"`
	CareRecipient  *string          `json:"care_recipient,omitempty" form:"care_recipient" validate:"omitempty,max=120"`
	PreferredStart *string          `json:"preferred_start,omitempty" form:"preferred_start" validate:"omitempty,max=60"`
	Status         SubmissionStatus `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (s *Submission) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Message = strings.TrimSpace(s.Message)
	s.Phone = Optional(s.Phone)
	s.CareRecipient = Optional(s.CareRecipient)
	s.PreferredStart = Optional(s.PreferredStart)
}
