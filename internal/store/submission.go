// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"caresite/internal/models"
)

// SubmissionStore manages contact_submissions and inquiry_submissions.
// Both tables are read into models.Submission; contact rows leave the
// inquiry fields nil.
type SubmissionStore struct {
	db *sql.DB
}

// NewSubmissionStore returns a new SubmissionStore.
func NewSubmissionStore(db *sql.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

const (
	contactColumns = `id, name, email, phone, message, NULL::uuid, NULL::text, NULL::text,
		status, created_at, updated_at`
	inquiryColumns = `id, name, email, phone, message, service_id, care_recipient, preferred_start,
		status, created_at, updated_at`
)

func submissionTable(kind models.SubmissionKind) (table, columns string, err error) {
	switch kind {
	case models.KindContact:
		return "contact_submissions", contactColumns, nil
	case models.KindInquiry:
		return "inquiry_submissions", inquiryColumns, nil
	}
	return "", "", fmt.Errorf("unknown submission kind %q", kind)
}

func scanSubmission(s rowScanner, kind models.SubmissionKind) (*models.Submission, error) {
	v := models.Submission{Kind: kind}
	err := s.Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.Message, &v.ServiceID,
		&v.CareRecipient, &v.PreferredStart, &v.Status, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create stores a new submission with status "new".
func (s *SubmissionStore) Create(ctx context.Context, sub *models.Submission) (*models.Submission, error) {
	var row *sql.Row
	switch sub.Kind {
	case models.KindContact:
		row = s.db.QueryRowContext(ctx, `
			INSERT INTO contact_submissions (name, email, phone, message)
			VALUES ($1, $2, $3, $4)
			RETURNING `+contactColumns,
			sub.Name, sub.Email, sub.Phone, sub.Message,
		)
	case models.KindInquiry:
		row = s.db.QueryRowContext(ctx, `
			INSERT INTO inquiry_submissions (name, email, phone, message, service_id, care_recipient, preferred_start)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+inquiryColumns,
			sub.Name, sub.Email, sub.Phone, sub.Message, sub.ServiceID, sub.CareRecipient, sub.PreferredStart,
		)
	default:
		return nil, fmt.Errorf("unknown submission kind %q", sub.Kind)
	}

	created, err := scanSubmission(row, sub.Kind)
	if err != nil {
		return nil, fmt.Errorf("create %s submission: %w", sub.Kind, err)
	}
	return created, nil
}

// List returns submissions of kind, newest first. An empty status lists
// every non-archived submission.
func (s *SubmissionStore) List(ctx context.Context, kind models.SubmissionKind, status models.SubmissionStatus) ([]models.Submission, error) {
	table, columns, err := submissionTable(kind)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + columns + ` FROM ` + table
	var args []any
	if status == "" {
		query += ` WHERE status <> 'archived'`
	} else {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s submissions: %w", kind, err)
	}
	defer rows.Close()

	var items []models.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows, kind)
		if err != nil {
			return nil, fmt.Errorf("scan %s submission: %w", kind, err)
		}
		items = append(items, *sub)
	}
	return items, rows.Err()
}

// FindByID returns one submission. Returns nil if not found.
func (s *SubmissionStore) FindByID(ctx context.Context, kind models.SubmissionKind, id uuid.UUID) (*models.Submission, error) {
	table, columns, err := submissionTable(kind)
	if err != nil {
		return nil, err
	}
	sub, err := scanSubmission(s.db.QueryRowContext(ctx,
		`SELECT `+columns+` FROM `+table+` WHERE id = $1`, id), kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s submission: %w", kind, err)
	}
	return sub, nil
}

// SetStatus changes the status of a submission and reports whether it
// existed.
func (s *SubmissionStore) SetStatus(ctx context.Context, kind models.SubmissionKind, id uuid.UUID, status models.SubmissionStatus) (bool, error) {
	table, _, err := submissionTable(kind)
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE `+table+` SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return false, fmt.Errorf("set %s submission status: %w", kind, err)
	}
	return affected(res)
}

// Delete removes a submission and reports whether it existed.
func (s *SubmissionStore) Delete(ctx context.Context, kind models.SubmissionKind, id uuid.UUID) (bool, error) {
	table, _, err := submissionTable(kind)
	if err != nil {
		return false, err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete %s submission: %w", kind, err)
	}
	return affected(res)
}

// CountNew returns how many unread submissions each form has.
func (s *SubmissionStore) CountNew(ctx context.Context) (map[models.SubmissionKind]int, error) {
	var contact, inquiry int
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM contact_submissions WHERE status = 'new'),
			(SELECT COUNT(*) FROM inquiry_submissions WHERE status = 'new')
	`).Scan(&contact, &inquiry)
	if err != nil {
		return nil, fmt.Errorf("count new submissions: %w", err)
	}
	return map[models.SubmissionKind]int{
		models.KindContact: contact,
		models.KindInquiry: inquiry,
	}, nil
}
