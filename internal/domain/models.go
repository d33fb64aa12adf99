// Package domain contains the core models shared across packages.
package domain

import "time"

// SourceRecord is a raw ingested message that may reference a tweet.
// Records are written by the upstream ingester and never mutated here.
type SourceRecord struct {
	ID      string `json:"_id"`
	Message string `json:"message"`
}

// TweetRef identifies a single tweet by author handle and numeric status id.
type TweetRef struct {
	Handle   string
	StatusID string
}

// Tweet is the content fetched for a tweet reference.
type Tweet struct {
	Handle     string     `json:"handle"`
	StatusID   string     `json:"status_id"`
	AuthorName string     `json:"author_name"`
	Text       string     `json:"text"`
	PostedAt   string     `json:"posted_at"`
	Link       string     `json:"link"`
	Stats      TweetStats `json:"stats"`
}

// TweetStats carries the engagement counters shown on the tweet page.
type TweetStats struct {
	Comments int `json:"comments"`
	Retweets int `json:"retweets"`
	Quotes   int `json:"quotes"`
	Likes    int `json:"likes"`
}

// SuccessOutcome records a fetched tweet for a source record.
// At most one exists per source id; it is written once and never updated.
type SuccessOutcome struct {
	SourceID    string    `json:"source_id"`
	CreatedTime time.Time `json:"created_time"`
	Timestamp   int64     `json:"timestamp"`
	Tweet       Tweet     `json:"tweet"`
}

// FailureOutcome records why a source record could not be resolved.
// At most one exists per source id; failures are never retried.
type FailureOutcome struct {
	SourceID    string    `json:"source_id"`
	CreatedTime time.Time `json:"created_time"`
	Timestamp   int64     `json:"timestamp"`
	Error       string    `json:"error"`
}
