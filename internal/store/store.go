// Package store provides the document store holding source records and
// resolution outcomes.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/domain"
)

// Store is the persistence boundary for the three logical collections:
// rawdata (source records), twitter (success outcomes) and twitter-errors
// (failure outcomes). Outcomes are keyed by source id, so each collection
// holds at most one entry per source record.
type Store interface {
	Close() error

	// FindSourceRecords returns the source records whose message contains
	// keyword, compared case-insensitively, in the store's cursor order.
	FindSourceRecords(ctx context.Context, keyword string) ([]domain.SourceRecord, error)

	// PutSourceRecord stores a raw record. The resolver never calls this for
	// its own records; it exists for the upstream ingester and for tests.
	PutSourceRecord(ctx context.Context, rec domain.SourceRecord) error

	HasSuccess(ctx context.Context, sourceID string) (bool, error)
	HasFailure(ctx context.Context, sourceID string) (bool, error)

	InsertSuccess(ctx context.Context, outcome domain.SuccessOutcome) error
	InsertFailure(ctx context.Context, outcome domain.FailureOutcome) error
}

// NewStore creates the configured storage backend.
func NewStore(typ, path string) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))

	switch typ {
	case "memory":
		return NewMemoryStore(), nil
	case "", "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}
