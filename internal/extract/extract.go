// Package extract parses tweet references out of free-text messages.
package extract

import (
	"regexp"

	"github.com/samprochar-hq/samprochar-tweet-resolver/internal/domain"
)

// Keyword is the cheap pre-filter the store scan applies before the strict
// pattern runs. A message can contain the keyword and still fail extraction;
// such records end up in the failure collection rather than being dropped.
const Keyword = "twitter.com"

// tweetURLPattern matches <domain>/<handle>/status/<numeric id>. The handle is
// any run of non-slash characters, the id digits only.
var tweetURLPattern = regexp.MustCompile(`twitter\.com/([^/]+)/status/([0-9]+)`)

// TweetRef returns the first tweet reference embedded in message. It never
// errors; a message with no valid reference reports ok=false.
func TweetRef(message string) (domain.TweetRef, bool) {
	m := tweetURLPattern.FindStringSubmatch(message)
	if m == nil {
		return domain.TweetRef{}, false
	}
	return domain.TweetRef{Handle: m[1], StatusID: m[2]}, true
}
