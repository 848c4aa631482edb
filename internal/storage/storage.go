// Package storage defines the persistence contract shared by the SQLite and
// PostgreSQL backends and the row codecs both of them use.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/autoplan/internal/models"
)

// NewTaskID returns a time-ordered task id.
func NewTaskID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating task id: %w", err)
	}
	return id.String(), nil
}

// EncodeRecurrence serializes a recurrence plan for a text or JSON column.
func EncodeRecurrence(r *models.RecurrencePlan) (sql.NullString, error) {
	if r == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to marshal recurrence: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

// DecodeRecurrence is the inverse of EncodeRecurrence.
func DecodeRecurrence(s sql.NullString) (*models.RecurrencePlan, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var r models.RecurrencePlan
	if err := json.Unmarshal([]byte(s.String), &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recurrence: %w", err)
	}
	return &r, nil
}

// EncodeTime formats an optional instant as RFC3339 text.
func EncodeTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339), Valid: true}
}

// DecodeTime parses a column written by EncodeTime.
func DecodeTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", s.String, err)
	}
	return &t, nil
}

// NullString converts an optional string into a nullable column value.
func NullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// StringPtr is the inverse of NullString.
func StringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// Timestamp returns the current time in the format used for deleted_at and accepted_at.
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
