// Package summary produces short natural-language descriptions of a
// single conversation or the whole dataset. Generation is tiered: a
// model backend is consulted when configured, and every tier below it
// is a deterministic heuristic, so a summary is always returned and
// never an error.
package summary

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/conversalabs/conversa/internal/analysis/sentiment"
	"github.com/conversalabs/conversa/internal/articles"
	"github.com/conversalabs/conversa/internal/llm"
	"github.com/conversalabs/conversa/internal/textproc"
	"github.com/conversalabs/conversa/pkg/models"
)

// Policy constants for the tiered summarizer.
const (
	// ShortTextThreshold is the combined length below which the
	// summary is just a truncated direct quote.
	ShortTextThreshold = 30

	// QuoteLimit caps the length of a direct quote.
	QuoteLimit = 100

	// MaxModelChars truncates text handed to a model backend so a
	// single request stays cheap and bounded.
	MaxModelChars = 1200

	// SampleMessages is how many rows feed the dataset narrative.
	SampleMessages = 100

	// NoData is the fixed tier-1 reply.
	NoData = "No conversation data to summarize."
)

// stopwords excluded from topic keyword extraction.
var stopwords = map[string]bool{
	"the": true, "and": true, "is": true, "in": true, "to": true,
	"of": true, "a": true, "that": true, "it": true, "for": true,
	"on": true, "with": true, "as": true, "this": true, "are": true,
	"was": true, "but": true, "be": true, "by": true, "an": true,
	"or": true, "at": true, "from": true, "your": true, "if": true,
	"they": true, "we": true, "you": true, "he": true, "she": true,
	"his": true, "her": true, "their": true, "our": true, "my": true,
	"me": true, "him": true, "them": true, "us": true, "i": true,
	"am": true, "have": true, "has": true, "had": true, "do": true,
	"does": true, "did": true, "will": true, "would": true,
	"could": true, "should": true, "may": true, "might": true,
	"can": true, "must": true, "shall": true, "not": true,
	"no": true, "yes": true,
}

// themeKeywords classifies coarse conversation themes.
var themeKeywords = []struct {
	theme string
	words []string
}{
	{"sports events and statistics", []string{"game", "score", "team", "player", "football", "basketball", "sports"}},
	{"educational institutions", []string{"university", "college", "school", "student"}},
	{"environmental conditions and comfort", []string{"weather", "cold", "warm", "winter", "bench"}},
	{"audience engagement and speculation", []string{"watch", "see", "curious", "wonder", "imagine"}},
}

// Generator builds transcript and dataset summaries. The model
// provider may be nil; every path then runs on heuristics alone.
type Generator struct {
	model   llm.Provider
	scorer  sentiment.PolarityScorer
	timeout time.Duration
}

// Option configures the generator.
type Option func(*Generator)

// WithModel attaches a model backend for tone classification and
// dataset condensation.
func WithModel(p llm.Provider) Option {
	return func(g *Generator) { g.model = p }
}

// WithScorer replaces the heuristic tone scorer.
func WithScorer(s sentiment.PolarityScorer) Option {
	return func(g *Generator) { g.scorer = s }
}

// WithTimeout bounds each model call.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) { g.timeout = d }
}

// NewGenerator creates a summary generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		scorer:  sentiment.LexiconScorer{},
		timeout: 20 * time.Second,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Summarize produces a short description of one conversation.
// Tiers, in order: no data → direct quote → templated prose combining
// themes, topic keywords, and tone.
func (g *Generator) Summarize(ctx context.Context, messages []string) string {
	valid := make([]string, 0, len(messages))
	for _, m := range messages {
		if s := strings.TrimSpace(m); s != "" {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		return NoData
	}

	full := strings.Join(valid, " ")
	if len(full) < ShortTextThreshold {
		return fmt.Sprintf("Brief exchange about: %q.", truncate(full, QuoteLimit))
	}

	label, score := g.classifyTone(ctx, full)
	topics := TopicKeywords(full, 3)
	themes := Themes(full)

	themeStr := strings.Join(themes, ", ")
	if themeStr == "" {
		themeStr = strings.Join(topics, ", ")
	}
	topicStr := strings.Join(topics, ", ")
	toneStr := toneDescription(label, score)

	if substantiveSentences(full) >= 2 {
		return fmt.Sprintf(
			"This conversation explores %s. Participants discuss %s with %s engagement. "+
				"The dialogue covers specific details, personal preferences, and open questions raised by both speakers.",
			themeStr, topicStr, toneStr)
	}
	return fmt.Sprintf("This brief conversation touches on %s. The tone is %s, focusing on %s.",
		themeStr, toneStr, topicStr)
}

// classifyTone rates the combined text, preferring the model backend
// and degrading to the lexicon scorer on any failure or timeout.
func (g *Generator) classifyTone(ctx context.Context, text string) (label string, score float64) {
	text = clip(text, MaxModelChars)

	if g.model != nil {
		mctx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()
		if c, err := g.model.Classify(mctx, text); err == nil {
			return c.Label, c.Score
		} else {
			log.Printf("summary: model tone classification failed, using lexicon: %v", err)
		}
	}

	polarity, subjectivity := g.scorer.Score(text)
	switch b := sentiment.Bucket(polarity); b {
	case models.Positive, models.VeryPositive:
		label = "positive"
	case models.Negative, models.VeryNegative:
		label = "negative"
	default:
		label = "neutral"
	}
	// Map polarity strength and subjectivity onto a confidence-like
	// score in [0.5, 1].
	score = 0.5 + (abs(polarity)+subjectivity)/4
	if score > 1 {
		score = 1
	}
	return label, score
}

// toneDescription converts a label/score pair into descriptive prose.
func toneDescription(label string, score float64) string {
	var intensity string
	switch {
	case score < 0.6:
		intensity = "mildly"
	case score < 0.8:
		intensity = "moderately"
	default:
		intensity = "strongly"
	}

	switch strings.ToLower(label) {
	case "positive":
		return intensity + " positive and engaging"
	case "negative":
		return intensity + " critical or concerned"
	default:
		return intensity + " neutral and informative"
	}
}

// TopicKeywords extracts the top-n frequent content words (longer than
// 3 characters, not stopwords). Falls back to generic topics when
// nothing qualifies.
func TopicKeywords(text string, n int) []string {
	counts := map[string]int{}
	var order []string
	for _, w := range textproc.Words(text) {
		if len(w) <= 3 || stopwords[w] {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}
	if len(order) == 0 {
		return []string{"discussion", "conversation"}
	}

	// Stable sort: frequency desc, first appearance as tiebreak.
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	return order
}

// Themes classifies coarse conversation themes by keyword membership.
// Returns nil when no theme matches.
func Themes(text string) []string {
	lower := strings.ToLower(text)
	var themes []string
	for _, t := range themeKeywords {
		for _, w := range t.words {
			if strings.Contains(lower, w) {
				themes = append(themes, t.theme)
				break
			}
		}
	}
	return themes
}

// DatasetSummary narrates the whole dataset. It samples representative
// rows, tries a model condensation, and falls back to a keyword-ratio
// characterization over article URLs. Always returns non-empty prose.
func (g *Generator) DatasetSummary(ctx context.Context, rows []models.Row, headlines []string) string {
	if len(rows) == 0 {
		return "No dataset available for summarization."
	}

	sample := sampleMessages(rows, SampleMessages)
	urls := sampleURLs(rows, 5)

	if g.model != nil {
		prompt := buildDatasetPrompt(sample, urls, headlines)
		mctx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()
		if text, err := g.model.Summarize(mctx, prompt); err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		} else if err != nil {
			log.Printf("summary: model dataset narration failed, using keyword fallback: %v", err)
		}
	}

	return keywordFallback(rows)
}

// buildDatasetPrompt assembles the condensation prompt from samples.
func buildDatasetPrompt(sample, urls, headlines []string) string {
	var b strings.Builder
	b.WriteString("Summarize what these conversations are about in one detailed paragraph. ")
	b.WriteString("Focus on the topics and news events discussed, not the data structure.\n\n")
	b.WriteString("Conversation excerpts:\n")
	limit := 10
	if len(sample) < limit {
		limit = len(sample)
	}
	for _, m := range sample[:limit] {
		b.WriteString("- " + truncate(m, 200) + "\n")
	}
	if len(urls) > 0 {
		b.WriteString("\nArticle URLs discussed: " + strings.Join(urls, ", ") + "\n")
	}
	if len(headlines) > 0 {
		b.WriteString("\nRecent headlines from the publication: " + strings.Join(headlines, "; ") + "\n")
	}
	return truncate(b.String(), MaxModelChars*2)
}

// keywordFallback characterizes the corpus by the sports-vs-politics
// keyword ratio across article URLs.
func keywordFallback(rows []models.Row) string {
	urls := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.ArticleURL != "" {
			urls = append(urls, r.ArticleURL)
		}
	}
	sports, politics := articles.KeywordCounts(urls)

	if sports > politics {
		return "The conversations predominantly focus on sports news, with detailed discussions about games, " +
			"players, and team performances. Participants exchange opinions about sports figures, analyze game " +
			"outcomes, and debate the significance of various sporting events, alongside related topics such as " +
			"college sports and athlete achievements."
	}
	return "The conversations primarily revolve around news and current events, with discussions about " +
		"government policies, elections, and social issues. Participants share perspectives on political " +
		"developments, analyze the implications of policy decisions, and exchange views on stories from " +
		"major news outlets."
}

// sampleMessages returns up to n non-empty messages, spread evenly
// across the table so one long transcript cannot dominate the sample.
func sampleMessages(rows []models.Row, n int) []string {
	if n <= 0 || len(rows) == 0 {
		return nil
	}
	step := len(rows) / n
	if step < 1 {
		step = 1
	}
	out := make([]string, 0, n)
	for i := 0; i < len(rows) && len(out) < n; i += step {
		if rows[i].Message != "" {
			out = append(out, rows[i].Message)
		}
	}
	return out
}

// sampleURLs returns up to n distinct article URLs, falling back to
// URLs mentioned inside message text when the records carry none.
func sampleURLs(rows []models.Row, n int) []string {
	seen := map[string]bool{}
	var out []string
	add := func(url string) bool {
		if url == "" || seen[url] {
			return len(out) < n
		}
		seen[url] = true
		out = append(out, url)
		return len(out) < n
	}

	for _, r := range rows {
		if !add(r.ArticleURL) {
			return out
		}
	}
	if len(out) == 0 {
		for _, r := range rows {
			for _, url := range textproc.ExtractURLs(r.Message) {
				if !add(url) {
					return out
				}
			}
		}
	}
	return out
}

// substantiveSentences counts sentences longer than 10 characters.
func substantiveSentences(text string) int {
	count := 0
	for _, s := range strings.Split(text, ".") {
		if len(strings.TrimSpace(s)) > 10 {
			count++
		}
	}
	return count
}

// clip shortens s to at most n bytes, backing off to a rune boundary
// so multibyte characters are never split.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return clip(s, n) + "..."
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
