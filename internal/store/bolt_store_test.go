package store

import (
	"context"
	"testing"
	"time"

	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/domain"
)

func newTestBolt(t *testing.T) Store {
	t.Helper()
	st, err := openBolt(t.TempDir() + "/tweets.db")
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestBoltStoreFindSourceRecordsFiltersByKeyword(t *testing.T) {
	st := newTestBolt(t)
	ctx := context.Background()

	records := []domain.SourceRecord{
		{ID: "a", Message: "see https://twitter.com/alice/status/1"},
		{ID: "b", Message: "nothing interesting"},
		{ID: "c", Message: "UPPERCASE TWITTER.COM/bob/STATUS/2"},
	}
	for _, rec := range records {
		if err := st.PutSourceRecord(ctx, rec); err != nil {
			t.Fatalf("PutSourceRecord(%s): %v", rec.ID, err)
		}
	}

	got, err := st.FindSourceRecords(ctx, "twitter.com")
	if err != nil {
		t.Fatalf("FindSourceRecords: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d: %#v", len(got), got)
	}
	// bbolt cursors iterate in key order.
	if got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("unexpected order: %s, %s", got[0].ID, got[1].ID)
	}
}

func TestBoltStoreOutcomesAreKeyedBySourceID(t *testing.T) {
	st := newTestBolt(t)
	ctx := context.Background()

	ok, err := st.HasSuccess(ctx, "x")
	if err != nil || ok {
		t.Fatalf("expected no success outcome, got ok=%v err=%v", ok, err)
	}

	now := time.Now()
	outcome := domain.SuccessOutcome{
		SourceID:    "x",
		CreatedTime: now,
		Timestamp:   now.Unix(),
		Tweet:       domain.Tweet{Handle: "alice", StatusID: "1", Text: "hi"},
	}
	if err := st.InsertSuccess(ctx, outcome); err != nil {
		t.Fatalf("InsertSuccess: %v", err)
	}

	ok, err = st.HasSuccess(ctx, "x")
	if err != nil || !ok {
		t.Fatalf("expected success outcome after insert, got ok=%v err=%v", ok, err)
	}

	// The failure collection is independent of the success collection.
	ok, err = st.HasFailure(ctx, "x")
	if err != nil || ok {
		t.Fatalf("expected no failure outcome, got ok=%v err=%v", ok, err)
	}

	if err := st.InsertFailure(ctx, domain.FailureOutcome{
		SourceID:    "y",
		CreatedTime: now,
		Timestamp:   now.Unix(),
		Error:       "Invalid tweet URL format: junk",
	}); err != nil {
		t.Fatalf("InsertFailure: %v", err)
	}
	ok, err = st.HasFailure(ctx, "y")
	if err != nil || !ok {
		t.Fatalf("expected failure outcome for y, got ok=%v err=%v", ok, err)
	}
}

func TestBoltStoreRejectsEmptyKeys(t *testing.T) {
	st := newTestBolt(t)
	ctx := context.Background()

	if err := st.PutSourceRecord(ctx, domain.SourceRecord{Message: "m"}); err == nil {
		t.Fatalf("expected error for empty source record id")
	}
	if err := st.InsertSuccess(ctx, domain.SuccessOutcome{}); err == nil {
		t.Fatalf("expected error for empty success outcome source id")
	}
}

func TestNewStoreFactory(t *testing.T) {
	if _, err := NewStore("bbolt", ""); err == nil {
		t.Fatalf("expected error for bbolt without path")
	}
	if _, err := NewStore("cassandra", "x"); err == nil {
		t.Fatalf("expected error for unsupported storage type")
	}

	st, err := NewStore("memory", "")
	if err != nil {
		t.Fatalf("NewStore memory: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("memory store Close: %v", err)
	}
}
