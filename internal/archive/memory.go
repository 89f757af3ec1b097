package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/TobiSchelling/dailybrief/internal/brief"
)

// MemoryStore is the session-local fallback used when the durable store is
// unconfigured or unreachable. Its contents live only as long as the process.
type MemoryStore struct {
	mu     sync.RWMutex
	briefs map[string][]byte
}

// NewMemoryStore creates an empty fallback store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{briefs: make(map[string][]byte)}
}

// Upsert stores a copy of b under its date.
func (m *MemoryStore) Upsert(ctx context.Context, b *brief.DailyBrief) error {
	if b == nil {
		return fmt.Errorf("nil brief")
	}
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encoding brief %s: %w", b.Date, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.briefs[b.Date] = data
	return nil
}

// GetByDate returns a copy of the brief stored under date, or nil.
func (m *MemoryStore) GetByDate(ctx context.Context, date string) (*brief.DailyBrief, error) {
	m.mu.RLock()
	data, ok := m.briefs[date]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	var b brief.DailyBrief
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decoding brief %s: %w", date, err)
	}
	return &b, nil
}

// GetAll returns copies of all briefs, date descending.
func (m *MemoryStore) GetAll(ctx context.Context) ([]brief.DailyBrief, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	briefs := make([]brief.DailyBrief, 0, len(m.briefs))
	for date, data := range m.briefs {
		var b brief.DailyBrief
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("decoding brief %s: %w", date, err)
		}
		briefs = append(briefs, b)
	}
	SortByDateDesc(briefs)
	return briefs, nil
}

// Len returns the number of stored briefs.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.briefs)
}
