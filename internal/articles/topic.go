// Package articles infers and enriches source-article context for
// transcripts: a lightweight keyword topic guesser for conversations
// with no article URL, and an optional network resolver that reads
// page titles and publication feeds.
package articles

import (
	"strings"
)

// Topic guesses returned by GuessTopic. The corpus ties every
// conversation to a Washington Post article, so the guesses are
// phrased accordingly.
const (
	TopicDetectedURL  = "Washington Post Article (URL detection needed)"
	TopicSports       = "Sports-related Washington Post article"
	TopicPolitics     = "Politics-related Washington Post article"
	TopicUnclear      = "Washington Post article (topic unclear)"
)

var sportsKeywords = []string{
	"football", "basketball", "baseball", "sports", "game", "team",
	"player", "coach", "nfl", "nba", "mlb", "score", "season",
}

var politicsKeywords = []string{
	"politics", "president", "congress", "senate", "election",
	"democrat", "republican", "government", "policy", "vote",
}

// GuessTopic infers a coarse article topic from conversation text.
// Used when a transcript carries no article_url.
func GuessTopic(messages []string) string {
	full := strings.ToLower(strings.Join(messages, " "))

	if strings.Contains(full, "washingtonpost") {
		return TopicDetectedURL
	}
	if containsAny(full, sportsKeywords) {
		return TopicSports
	}
	if containsAny(full, politicsKeywords) {
		return TopicPolitics
	}
	return TopicUnclear
}

// KeywordCounts tallies sports and politics keyword hits over a set of
// article URLs. The dataset narrative's offline fallback uses the
// ratio to characterize the corpus.
func KeywordCounts(urls []string) (sports, politics int) {
	for _, u := range urls {
		lower := strings.ToLower(u)
		if containsAny(lower, sportsKeywords) {
			sports++
		}
		if containsAny(lower, politicsKeywords) {
			politics++
		}
	}
	return sports, politics
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
