// Package ingest runs incoming briefs through normalization, validation and
// storage. The webhook and the CLI share it.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/TobiSchelling/dailybrief/internal/archive"
	"github.com/TobiSchelling/dailybrief/internal/brief"
)

// ValidationError reports a payload that does not have the brief shape.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "Validation failed: " + strings.Join(e.Errors, ", ")
}

// MalformedInputError reports a body that could not be decoded at all.
type MalformedInputError struct {
	Err error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input: %v", e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// Result describes a stored brief.
type Result struct {
	Date         string
	UsedFallback bool
	Timestamp    time.Time
}

// Message is the human-readable outcome returned to producers.
func (r *Result) Message() string {
	if r.UsedFallback {
		return "Daily content saved to session storage (durable store unavailable)"
	}
	return "Daily content saved to database successfully"
}

// Service ingests briefs into an archive.
type Service struct {
	archive *archive.Archive
	now     func() time.Time
}

// NewService creates a Service writing to a.
func NewService(a *archive.Archive) *Service {
	return &Service{archive: a, now: time.Now}
}

// Ingest normalizes, validates and upserts one decoded JSON payload.
// Errors are *ValidationError, *MalformedInputError or *archive.StorageError.
func (s *Service) Ingest(ctx context.Context, raw any) (*Result, error) {
	if m, ok := raw.(map[string]any); ok {
		raw = brief.Normalize(m)
	}

	if res := brief.Validate(raw); !res.Valid {
		log.Printf("ingest: rejected payload with %d validation errors", len(res.Errors))
		return nil, &ValidationError{Errors: res.Errors}
	}

	b, err := brief.Decode(raw.(map[string]any))
	if err != nil {
		return nil, &MalformedInputError{Err: err}
	}

	up, err := s.archive.Upsert(ctx, b)
	if err != nil {
		log.Printf("ingest: storing brief %s failed: %v", b.Date, err)
		return nil, err
	}
	if up.UsedFallback {
		log.Printf("ingest: brief %s held in session storage only", b.Date)
	}

	return &Result{Date: b.Date, UsedFallback: up.UsedFallback, Timestamp: s.now().UTC()}, nil
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
