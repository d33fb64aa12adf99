package store

import (
	"context"
	"testing"

	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/domain"
)

func TestMemoryStoreIteratesInInsertionOrder(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	for _, id := range []string{"z", "a", "m"} {
		rec := domain.SourceRecord{ID: id, Message: "twitter.com/" + id + "/status/1"}
		if err := st.PutSourceRecord(ctx, rec); err != nil {
			t.Fatalf("PutSourceRecord(%s): %v", id, err)
		}
	}

	got, err := st.FindSourceRecords(ctx, "twitter.com")
	if err != nil {
		t.Fatalf("FindSourceRecords: %v", err)
	}
	if len(got) != 3 || got[0].ID != "z" || got[1].ID != "a" || got[2].ID != "m" {
		t.Fatalf("unexpected iteration order: %#v", got)
	}
}

func TestMemoryStoreKeywordMatchIsCaseInsensitive(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	if err := st.PutSourceRecord(ctx, domain.SourceRecord{ID: "1", Message: "TWITTER.COM/a/status/5"}); err != nil {
		t.Fatalf("PutSourceRecord: %v", err)
	}
	if err := st.PutSourceRecord(ctx, domain.SourceRecord{ID: "2", Message: "plain text"}); err != nil {
		t.Fatalf("PutSourceRecord: %v", err)
	}

	got, err := st.FindSourceRecords(ctx, "twitter.com")
	if err != nil {
		t.Fatalf("FindSourceRecords: %v", err)
	}
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected only record 1, got %#v", got)
	}
}

func TestMemoryStoreOutcomeAccessors(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	if err := st.InsertFailure(ctx, domain.FailureOutcome{SourceID: "f", Error: "boom"}); err != nil {
		t.Fatalf("InsertFailure: %v", err)
	}
	out, ok := st.Failure("f")
	if !ok || out.Error != "boom" {
		t.Fatalf("Failure(f) = %#v, %v", out, ok)
	}
	if _, ok := st.Success("f"); ok {
		t.Fatalf("did not expect a success outcome for f")
	}
}
