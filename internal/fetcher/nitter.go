package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/domain"
	"github.com/samprochar-hq/samprochar-tweet-resolver/pkg/httpclient"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB
	defaultTimeout   = 30 * time.Second
)

var requestHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (compatible; samprochar-tweet-resolver)",
}

// NitterClient fetches tweet pages from a single Nitter instance and extracts
// the tweet content from the HTML.
type NitterClient struct {
	instanceURL string
	client      httpclient.Client
}

// NewNitterClient builds a client for the given instance. A nil HTTP client
// gets a default with the standard timeout.
func NewNitterClient(instanceURL string, client httpclient.Client) (*NitterClient, error) {
	instanceURL = strings.TrimRight(strings.TrimSpace(instanceURL), "/")
	if instanceURL == "" {
		return nil, fmt.Errorf("nitter instance url is empty")
	}
	if client == nil {
		client = httpclient.NewRestyClient(defaultTimeout)
	}
	return &NitterClient{instanceURL: instanceURL, client: client}, nil
}

// TweetByID fetches <instance>/<handle>/status/<id> and parses the tweet out
// of the page. A 404 or an error panel in the body maps to
// ErrTweetUnavailable; transport and unexpected-status failures are generic.
func (n *NitterClient) TweetByID(ctx context.Context, handle, statusID string) (*domain.Tweet, error) {
	pageURL := fmt.Sprintf("%s/%s/status/%s", n.instanceURL, url.PathEscape(handle), url.PathEscape(statusID))

	resp, err := n.client.Get(ctx, pageURL, requestHeaders)
	if err != nil {
		return nil, fmt.Errorf("fetch tweet page: %w", err)
	}

	if resp.StatusCode() == 404 {
		return nil, fmt.Errorf("%w: %s/status/%s not found on instance", ErrTweetUnavailable, handle, statusID)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("tweet page status %d: %s", resp.StatusCode(), bodySnippet(resp.Body()))
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	tweet, err := parseTweetPage(body, handle, statusID)
	if err != nil {
		return nil, err
	}
	tweet.Link = pageURL
	return tweet, nil
}

// parseTweetPage extracts the main tweet from a Nitter status page.
func parseTweetPage(body []byte, handle, statusID string) (*domain.Tweet, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse tweet page html: %w", err)
	}

	if panel := doc.Find(".error-panel").First(); panel.Length() > 0 {
		reason := strings.TrimSpace(panel.Text())
		if reason == "" {
			reason = "instance returned an error panel"
		}
		return nil, fmt.Errorf("%w: %s", ErrTweetUnavailable, reason)
	}

	main := doc.Find(".main-tweet").First()
	if main.Length() == 0 {
		return nil, fmt.Errorf("%w: page has no tweet markup", ErrTweetUnavailable)
	}

	tweet := &domain.Tweet{
		Handle:     handle,
		StatusID:   statusID,
		AuthorName: strings.TrimSpace(main.Find(".fullname").First().Text()),
		Text:       strings.TrimSpace(main.Find(".tweet-content").First().Text()),
		Stats:      parseStats(main),
	}

	if date := main.Find(".tweet-date a").First(); date.Length() > 0 {
		if title, ok := date.Attr("title"); ok {
			tweet.PostedAt = strings.TrimSpace(title)
		}
	}

	return tweet, nil
}

// parseStats pulls the engagement counters from the stats bar. Counts are best
// effort: missing or unparsable values stay zero.
func parseStats(main *goquery.Selection) domain.TweetStats {
	stats := domain.TweetStats{}
	main.Find(".tweet-stats .tweet-stat").Each(func(_ int, stat *goquery.Selection) {
		count := parseCount(stat.Text())
		switch {
		case stat.Find(".icon-comment").Length() > 0:
			stats.Comments = count
		case stat.Find(".icon-retweet").Length() > 0:
			stats.Retweets = count
		case stat.Find(".icon-quote").Length() > 0:
			stats.Quotes = count
		case stat.Find(".icon-heart").Length() > 0:
			stats.Likes = count
		}
	})
	return stats
}

func parseCount(text string) int {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if text == "" {
		return 0
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0
	}
	return n
}

func bodySnippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 512 {
		return s[:512] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
