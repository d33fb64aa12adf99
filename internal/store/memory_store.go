package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/domain"
)

// MemoryStore is a map-backed Store for tests and local development. Source
// records iterate in insertion order, which stands in for the cursor order of
// a real backend.
type MemoryStore struct {
	mu        sync.RWMutex
	order     []string
	rawdata   map[string]domain.SourceRecord
	successes map[string]domain.SuccessOutcome
	failures  map[string]domain.FailureOutcome
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rawdata:   make(map[string]domain.SourceRecord),
		successes: make(map[string]domain.SuccessOutcome),
		failures:  make(map[string]domain.FailureOutcome),
	}
}

func (m *MemoryStore) Close() error { return nil }

// FindSourceRecords returns records whose message contains keyword,
// case-insensitively, in insertion order.
func (m *MemoryStore) FindSourceRecords(ctx context.Context, keyword string) ([]domain.SourceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	needle := strings.ToLower(keyword)
	var out []domain.SourceRecord
	for _, id := range m.order {
		rec := m.rawdata[id]
		if strings.Contains(strings.ToLower(rec.Message), needle) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// PutSourceRecord stores a raw record keyed by its id.
func (m *MemoryStore) PutSourceRecord(ctx context.Context, rec domain.SourceRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(rec.ID) == "" {
		return fmt.Errorf("source record id is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.rawdata[rec.ID]; !exists {
		m.order = append(m.order, rec.ID)
	}
	m.rawdata[rec.ID] = rec
	return nil
}

func (m *MemoryStore) HasSuccess(ctx context.Context, sourceID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.successes[sourceID]
	return ok, nil
}

func (m *MemoryStore) HasFailure(ctx context.Context, sourceID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.failures[sourceID]
	return ok, nil
}

func (m *MemoryStore) InsertSuccess(ctx context.Context, outcome domain.SuccessOutcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(outcome.SourceID) == "" {
		return fmt.Errorf("success outcome source id is empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.successes[outcome.SourceID] = outcome
	return nil
}

func (m *MemoryStore) InsertFailure(ctx context.Context, outcome domain.FailureOutcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(outcome.SourceID) == "" {
		return fmt.Errorf("failure outcome source id is empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[outcome.SourceID] = outcome
	return nil
}

// Success returns the stored success outcome for a source id, if any.
// Test helper; the resolver itself only needs existence checks.
func (m *MemoryStore) Success(sourceID string) (domain.SuccessOutcome, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out, ok := m.successes[sourceID]
	return out, ok
}

// Failure returns the stored failure outcome for a source id, if any.
func (m *MemoryStore) Failure(sourceID string) (domain.FailureOutcome, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out, ok := m.failures[sourceID]
	return out, ok
}
