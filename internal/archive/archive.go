package archive

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/TobiSchelling/dailybrief/internal/brief"
)

var errNilBrief = errors.New("nil brief")

// Options configures an Archive.
type Options struct {
	// WriteFallback lets Upsert fall back to the session store when the
	// durable store rejects a write. When false the write fails instead.
	WriteFallback bool
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// UpsertResult tells the caller where a write landed.
type UpsertResult struct {
	UsedFallback bool
}

// Stats summarizes the archive.
type Stats struct {
	Briefs  int    `json:"briefs"`
	Months  int    `json:"months"`
	Latest  string `json:"latest,omitempty"`
	Backend string `json:"backend"`
}

// Archive is the read and write surface over a durable store and the
// session fallback. It is built once at startup and shared by handlers.
// Read failures on the durable store are logged and served from the
// fallback for that call only.
type Archive struct {
	primary  Store
	fallback *MemoryStore
	opts     Options
}

// New creates an Archive. primary may be nil when no durable store is
// configured, in which case every operation uses the fallback.
func New(primary Store, fallback *MemoryStore, opts Options) *Archive {
	if fallback == nil {
		fallback = NewMemoryStore()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Archive{primary: primary, fallback: fallback, opts: opts}
}

// Backend names the store selected at configuration time.
func (a *Archive) Backend() string {
	if a.primary != nil {
		return "durable"
	}
	return "fallback"
}

// Upsert writes b keyed by its date, replacing any previous brief for that
// date. Concurrent writes for the same date are last-write-wins.
func (a *Archive) Upsert(ctx context.Context, b *brief.DailyBrief) (UpsertResult, error) {
	if b == nil {
		return UpsertResult{}, &StorageError{Op: "upsert", Err: errNilBrief}
	}
	if a.primary != nil {
		err := a.primary.Upsert(ctx, b)
		if err == nil {
			return UpsertResult{}, nil
		}
		log.Printf("archive: upsert %s on durable store failed: %v", b.Date, err)
		if !a.opts.WriteFallback {
			return UpsertResult{}, &StorageError{Op: "upsert", Err: err}
		}
	}

	if err := a.fallback.Upsert(ctx, b); err != nil {
		log.Printf("archive: upsert %s on fallback store failed: %v", b.Date, err)
		return UpsertResult{UsedFallback: true}, &StorageError{Op: "upsert fallback", Err: err}
	}
	return UpsertResult{UsedFallback: true}, nil
}

// GetByDate returns the brief for date, or nil when there is none. An exact
// match wins; otherwise stored dates are compared in canonical YYYY-MM-DD form.
func (a *Archive) GetByDate(ctx context.Context, date string) (*brief.DailyBrief, error) {
	if a.primary != nil {
		b, err := findByDate(ctx, a.primary, date)
		if err == nil {
			return b, nil
		}
		log.Printf("archive: get %s from durable store failed, using fallback: %v", date, err)
	}

	b, err := findByDate(ctx, a.fallback, date)
	if err != nil {
		return nil, &StorageError{Op: "get by date", Err: err}
	}
	return b, nil
}

// GetAll returns every brief, date descending.
func (a *Archive) GetAll(ctx context.Context) ([]brief.DailyBrief, error) {
	if a.primary != nil {
		briefs, err := a.primary.GetAll(ctx)
		if err == nil {
			SortByDateDesc(briefs)
			return briefs, nil
		}
		log.Printf("archive: get all from durable store failed, using fallback: %v", err)
	}

	briefs, err := a.fallback.GetAll(ctx)
	if err != nil {
		return nil, &StorageError{Op: "get all", Err: err}
	}
	return briefs, nil
}

// Today returns the brief for today's date, falling back to the most
// recent brief. It returns nil when the archive is empty.
func (a *Archive) Today(ctx context.Context) (*brief.DailyBrief, error) {
	b, err := a.GetByDate(ctx, a.today())
	if err != nil || b != nil {
		return b, err
	}

	all, err := a.GetAll(ctx)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return &all[0], nil
}

// Search returns briefs matching query and, if non-empty, category.
func (a *Archive) Search(ctx context.Context, query, category string) ([]brief.DailyBrief, error) {
	all, err := a.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(all, query, category), nil
}

// SearchRange is Search narrowed to a date range relative to today.
func (a *Archive) SearchRange(ctx context.Context, query, category string, r Range) ([]brief.DailyBrief, error) {
	results, err := a.Search(ctx, query, category)
	if err != nil {
		return nil, err
	}
	return WithinRange(results, r, a.opts.Clock()), nil
}

// GroupByMonth returns the archive grouped by calendar month.
func (a *Archive) GroupByMonth(ctx context.Context) ([]MonthlyArchive, error) {
	all, err := a.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return Group(all), nil
}

// Stats returns aggregate counts over the archive.
func (a *Archive) Stats(ctx context.Context) (*Stats, error) {
	all, err := a.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	s := &Stats{
		Briefs:  len(all),
		Months:  len(Group(all)),
		Backend: a.Backend(),
	}
	if len(all) > 0 {
		s.Latest = all[0].Date
	}
	return s, nil
}

func (a *Archive) today() string {
	return a.opts.Clock().Format(brief.DateLayout)
}

func findByDate(ctx context.Context, s Store, date string) (*brief.DailyBrief, error) {
	b, err := s.GetByDate(ctx, date)
	if err != nil || b != nil {
		return b, err
	}

	want, ok := brief.CanonicalDate(date)
	if !ok {
		return nil, nil
	}

	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if got, ok := brief.CanonicalDate(all[i].Date); ok && got == want {
			return &all[i], nil
		}
	}
	return nil, nil
}
