// Package batch implements the idempotent ingestion loop: scan source
// records, skip already-resolved ones, fetch tweets for the rest and record
// exactly one outcome per record.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/domain"
	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/extract"
	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/fetcher"
	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/logger"
	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/metrics"
	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/store"
	"github.com/samprochar-hq/samprochar-tweet-resolver/pkg/publishers"
)

// RecordStatus is the per-record result of one batch pass.
type RecordStatus string

const (
	StatusSuccess          RecordStatus = "success"
	StatusError            RecordStatus = "error"
	StatusAlreadyProcessed RecordStatus = "already_processed"
	StatusAlreadyInError   RecordStatus = "already_in_error"
)

// RecordResult is one entry in the batch summary, in iteration order.
type RecordResult struct {
	SourceID     string       `json:"id"`
	Status       RecordStatus `json:"status"`
	ErrorMessage string       `json:"error_message,omitempty"`
	Note         string       `json:"message,omitempty"`
}

// Summary aggregates a full batch run. Processed+Errored+Skipped always
// equals Total and len(Details).
type Summary struct {
	Message   string         `json:"message"`
	Processed int            `json:"processed_count"`
	Errored   int            `json:"error_count"`
	Skipped   int            `json:"skipped_count"`
	Total     int            `json:"total_attempted_or_skipped"`
	Details   []RecordResult `json:"details"`
}

// EventSink receives outcome events; *publishers.Fanout satisfies it.
type EventSink interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// recordState is the three-way classification of a source record.
type recordState int

const (
	statePending recordState = iota
	stateSucceeded
	stateFailed
)

// Service runs batches over the document store. Records are processed
// strictly one at a time; there is no retry and no per-record timeout.
type Service struct {
	store     store.Store
	fetch     fetcher.Client
	events    EventSink
	collector *metrics.Collector
	log       logger.Logger
	now       func() time.Time
}

// NewService wires the batch service. events and collector may be nil.
func NewService(st store.Store, fetch fetcher.Client, events EventSink, collector *metrics.Collector, log logger.Logger) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{
		store:     st,
		fetch:     fetch,
		events:    events,
		collector: collector,
		log:       log,
		now:       time.Now,
	}
}

// Run executes one full batch pass. Per-record fetch and extraction failures
// become failure outcomes and the pass continues; only a store failure aborts
// the run and surfaces as an error.
func (s *Service) Run(ctx context.Context) (*Summary, error) {
	if s == nil || s.store == nil || s.fetch == nil {
		return nil, fmt.Errorf("batch service is not initialized")
	}

	start := s.now()
	records, err := s.store.FindSourceRecords(ctx, extract.Keyword)
	if err != nil {
		s.collector.ObserveAbort()
		return nil, fmt.Errorf("scan source records: %w", err)
	}

	summary := &Summary{
		Message: "Tweet processing completed.",
		Details: make([]RecordResult, 0, len(records)),
	}

	for _, rec := range records {
		state, err := s.classify(ctx, rec.ID)
		if err != nil {
			s.collector.ObserveAbort()
			return nil, err
		}

		switch state {
		case stateSucceeded:
			summary.Skipped++
			summary.Details = append(summary.Details, RecordResult{
				SourceID: rec.ID,
				Status:   StatusAlreadyProcessed,
				Note:     "Tweet already successfully processed.",
			})
			s.log.DebugObj("record skipped", "skip_meta", map[string]any{
				"source_id": rec.ID,
				"reason":    "already processed",
			})
		case stateFailed:
			summary.Skipped++
			summary.Details = append(summary.Details, RecordResult{
				SourceID: rec.ID,
				Status:   StatusAlreadyInError,
				Note:     "Tweet previously failed to process.",
			})
			s.log.DebugObj("record skipped", "skip_meta", map[string]any{
				"source_id": rec.ID,
				"reason":    "already in errors",
			})
		default:
			result, err := s.resolve(ctx, rec)
			if err != nil {
				s.collector.ObserveAbort()
				return nil, err
			}
			if result.Status == StatusSuccess {
				summary.Processed++
			} else {
				summary.Errored++
			}
			summary.Details = append(summary.Details, result)
		}
	}

	summary.Total = summary.Processed + summary.Errored + summary.Skipped
	elapsed := s.now().Sub(start)
	s.collector.ObserveBatch(summary.Processed, summary.Errored, summary.Skipped, elapsed)
	s.log.InfoObj("batch completed", "batch_summary", map[string]any{
		"processed":  summary.Processed,
		"errored":    summary.Errored,
		"skipped":    summary.Skipped,
		"total":      summary.Total,
		"elapsed_ms": elapsed.Milliseconds(),
	})
	return summary, nil
}

// classify decides whether a source record is pending or already resolved.
// Success is checked before failure: if both ever exist, success wins.
func (s *Service) classify(ctx context.Context, sourceID string) (recordState, error) {
	succeeded, err := s.store.HasSuccess(ctx, sourceID)
	if err != nil {
		return statePending, fmt.Errorf("query success outcomes for %s: %w", sourceID, err)
	}
	if succeeded {
		return stateSucceeded, nil
	}

	failed, err := s.store.HasFailure(ctx, sourceID)
	if err != nil {
		return statePending, fmt.Errorf("query failure outcomes for %s: %w", sourceID, err)
	}
	if failed {
		return stateFailed, nil
	}
	return statePending, nil
}

// resolve fetches the tweet referenced by a pending record and writes exactly
// one outcome. The returned error is non-nil only when the outcome write
// itself failed, which aborts the batch.
func (s *Service) resolve(ctx context.Context, rec domain.SourceRecord) (RecordResult, error) {
	ref, ok := extract.TweetRef(rec.Message)
	if !ok {
		return s.recordFailure(ctx, rec.ID, fmt.Sprintf("Invalid tweet URL format: %s", rec.Message))
	}

	s.log.InfoObj("resolving record", "resolve_meta", map[string]any{
		"source_id": rec.ID,
		"handle":    ref.Handle,
		"status_id": ref.StatusID,
	})

	tweet, err := s.fetch.TweetByID(ctx, ref.Handle, ref.StatusID)
	if err != nil {
		message := fmt.Sprintf("unexpected fetch error: %v", err)
		if errors.Is(err, fetcher.ErrTweetUnavailable) {
			message = err.Error()
		}
		s.log.WarnObj("tweet fetch failed", "fetch_error", map[string]any{
			"source_id": rec.ID,
			"handle":    ref.Handle,
			"status_id": ref.StatusID,
			"error":     err.Error(),
		})
		return s.recordFailure(ctx, rec.ID, message)
	}

	now := s.now()
	outcome := domain.SuccessOutcome{
		SourceID:    rec.ID,
		CreatedTime: now,
		Timestamp:   now.Unix(),
		Tweet:       *tweet,
	}
	if err := s.store.InsertSuccess(ctx, outcome); err != nil {
		return RecordResult{}, fmt.Errorf("insert success outcome for %s: %w", rec.ID, err)
	}

	s.publish(ctx, publishers.NewSuccessEvent(rec.ID, *tweet))
	return RecordResult{SourceID: rec.ID, Status: StatusSuccess}, nil
}

// recordFailure writes a failure outcome and returns the error-status result.
func (s *Service) recordFailure(ctx context.Context, sourceID, message string) (RecordResult, error) {
	now := s.now()
	outcome := domain.FailureOutcome{
		SourceID:    sourceID,
		CreatedTime: now,
		Timestamp:   now.Unix(),
		Error:       message,
	}
	if err := s.store.InsertFailure(ctx, outcome); err != nil {
		return RecordResult{}, fmt.Errorf("insert failure outcome for %s: %w", sourceID, err)
	}

	s.publish(ctx, publishers.NewFailureEvent(sourceID, message))
	return RecordResult{SourceID: sourceID, Status: StatusError, ErrorMessage: message}, nil
}

// publish forwards an outcome event to the sink. Publish failures are logged
// and never change the record's outcome.
func (s *Service) publish(ctx context.Context, evt publishers.Event) {
	if s.events == nil {
		return
	}
	if _, err := s.events.Publish(ctx, evt); err != nil {
		s.log.WarnObj("outcome event publish failed", "publish_error", map[string]any{
			"source_id": evt.SourceID,
			"error":     err.Error(),
		})
	}
}
