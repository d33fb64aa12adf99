package publishers

import (
	"time"

	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/domain"
)

// Event statuses mirror the per-record outcome of a batch run.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Event is the payload published downstream after a source record is resolved.
type Event struct {
	SourceID   string        `json:"source_id"`
	Status     string        `json:"status"`
	Tweet      *domain.Tweet `json:"tweet,omitempty"`
	Error      string        `json:"error,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// NewSuccessEvent builds the event for a successfully fetched tweet.
func NewSuccessEvent(sourceID string, tweet domain.Tweet) Event {
	return Event{
		SourceID:   sourceID,
		Status:     StatusSuccess,
		Tweet:      &tweet,
		OccurredAt: time.Now().UTC(),
	}
}

// NewFailureEvent builds the event for a record that resolved to a failure outcome.
func NewFailureEvent(sourceID, errorMessage string) Event {
	return Event{
		SourceID:   sourceID,
		Status:     StatusError,
		Error:      errorMessage,
		OccurredAt: time.Now().UTC(),
	}
}
