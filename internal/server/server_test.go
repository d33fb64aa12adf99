package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/batch"
	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/config"
)

type fakeRunner struct {
	summary *batch.Summary
	err     error
}

func (f *fakeRunner) Run(context.Context) (*batch.Summary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

func testConfig() *config.Config {
	return &config.Config{
		HTTPPort:     "0",
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}
}

func TestProcessTweetsReturnsSummary(t *testing.T) {
	runner := &fakeRunner{summary: &batch.Summary{
		Message:   "Tweet processing completed.",
		Processed: 2,
		Errored:   1,
		Skipped:   3,
		Total:     6,
		Details: []batch.RecordResult{
			{SourceID: "a", Status: batch.StatusSuccess},
		},
	}}
	srv := New(testConfig(), runner, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/process-tweets", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var got batch.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Total != 6 || got.Processed != 2 || len(got.Details) != 1 {
		t.Fatalf("unexpected summary: %#v", got)
	}
}

func TestProcessTweetsSurfacesStoreFailureAs500(t *testing.T) {
	runner := &fakeRunner{err: errors.New("scan source records: store unreachable")}
	srv := New(testConfig(), runner, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/process-tweets", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["error"] == "" {
		t.Fatalf("expected error field in body: %s", rec.Body.String())
	}
}

func TestProcessTweetsRejectsGet(t *testing.T) {
	srv := New(testConfig(), &fakeRunner{summary: &batch.Summary{}}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/process-tweets", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	srv := New(testConfig(), &fakeRunner{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
