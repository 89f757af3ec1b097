package archive

import (
	"context"
	"errors"
	"fmt"

	"github.com/TobiSchelling/dailybrief/internal/brief"
)

// Store persists one brief per date.
type Store interface {
	// Upsert writes b, fully replacing any brief stored under the same date.
	Upsert(ctx context.Context, b *brief.DailyBrief) error
	// GetByDate returns the brief stored under exactly this date,
	// or nil, nil when there is none.
	GetByDate(ctx context.Context, date string) (*brief.DailyBrief, error)
	// GetAll returns every stored brief, date descending.
	GetAll(ctx context.Context) ([]brief.DailyBrief, error)
}

// ErrNotFound is returned by callers that need absence as an error.
var ErrNotFound = errors.New("brief not found")

// StorageError reports a failure of the underlying store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
