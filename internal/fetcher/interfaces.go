// Package fetcher retrieves tweet content from a Nitter instance.
package fetcher

import (
	"context"
	"errors"

	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/domain"
)

// ErrTweetUnavailable marks the content-unavailable failure class: the
// referenced tweet is deleted, private, or the instance returned no tweet
// markup. Callers dispatch with errors.Is; every other error from a Client is
// the generic class.
var ErrTweetUnavailable = errors.New("tweet unavailable")

// Client fetches a single tweet by author handle and status id.
type Client interface {
	TweetByID(ctx context.Context, handle, statusID string) (*domain.Tweet, error)
}
