// Package llm provides a narrow, pluggable model interface for the
// transcript pipeline: sentiment classification of a text and free-form
// summarization. Backends (OpenAI, local Ollama) sit behind a router
// with fallback; the pipeline itself degrades to deterministic
// heuristics when no backend is reachable.
package llm

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
)

// Provider names for routing and configuration.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Common errors returned by model providers.
var (
	ErrNoAPIKey     = errors.New("llm: API key not configured")
	ErrProviderDown = errors.New("llm: provider unavailable")
	ErrNoProviders  = errors.New("llm: no providers configured")
	ErrEmptyInput   = errors.New("llm: empty input text")
)

// Classification is a coarse sentiment call on a piece of text.
type Classification struct {
	Label string  `json:"label"` // "positive", "negative" or "neutral"
	Score float64 `json:"score"` // confidence in [0,1]
}

// Options configures a single model request.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Provider is the interface every model backend implements. Both calls
// must respect ctx cancellation; callers bound latency with a deadline
// and fall back to heuristics on error.
type Provider interface {
	// Name returns the provider identifier (e.g., "openai", "ollama").
	Name() string

	// Classify returns a sentiment label with confidence for the text.
	Classify(ctx context.Context, text string) (Classification, error)

	// Summarize condenses the text into short prose.
	Summarize(ctx context.Context, prompt string) (string, error)
}

const classifySystemPrompt = `You are a sentiment rater. Reply with exactly one line:
<label> <confidence>
where <label> is positive, negative or neutral and <confidence> is a number between 0 and 1.`

const summarizeSystemPrompt = `You summarize conversations into short, specific prose. ` +
	`Reply with the summary only, no preamble.`

// parseClassification parses a "<label> <confidence>" model reply.
// Malformed replies degrade to a neutral low-confidence call rather
// than an error; model formatting drift must not break the pipeline.
func parseClassification(raw string) Classification {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(raw)))
	c := Classification{Label: "neutral", Score: 0.5}
	if len(fields) == 0 {
		return c
	}
	switch {
	case strings.HasPrefix(fields[0], "positive"):
		c.Label = "positive"
	case strings.HasPrefix(fields[0], "negative"):
		c.Label = "negative"
	case strings.HasPrefix(fields[0], "neutral"):
		c.Label = "neutral"
	}
	if len(fields) > 1 {
		if s, err := strconv.ParseFloat(strings.Trim(fields[1], "()[],"), 64); err == nil {
			c.Score = math.Min(math.Max(s, 0), 1)
		}
	}
	return c
}
