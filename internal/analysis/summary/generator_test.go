package summary

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/conversalabs/conversa/internal/llm"
	"github.com/conversalabs/conversa/pkg/models"
)

type stubModel struct {
	classification llm.Classification
	summary        string
	err            error
}

func (s *stubModel) Name() string { return "stub" }

func (s *stubModel) Classify(ctx context.Context, text string) (llm.Classification, error) {
	return s.classification, s.err
}

func (s *stubModel) Summarize(ctx context.Context, prompt string) (string, error) {
	return s.summary, s.err
}

func TestSummarizeNoData(t *testing.T) {
	g := NewGenerator()
	for _, msgs := range [][]string{nil, {}, {"", "   ", "\t"}} {
		if got := g.Summarize(context.Background(), msgs); got != NoData {
			t.Errorf("Summarize(%v) = %q, want %q", msgs, got, NoData)
		}
	}
}

func TestSummarizeShortExchange(t *testing.T) {
	g := NewGenerator()
	got := g.Summarize(context.Background(), []string{"Hi there!"})
	want := `Brief exchange about: "Hi there!".`
	if got != want {
		t.Errorf("Summarize = %q, want %q", got, want)
	}
}

func TestSummarizeLongConversation(t *testing.T) {
	g := NewGenerator()
	msgs := []string{
		"Did you watch the football game last night? The team played wonderfully.",
		"Yes! The score was so close. I love watching games like that.",
		"The players really showed great skill this season.",
	}
	got := g.Summarize(context.Background(), msgs)

	if !strings.Contains(got, "sports events and statistics") {
		t.Errorf("summary missing sports theme: %q", got)
	}
	if !strings.Contains(got, "positive") {
		t.Errorf("summary missing positive tone: %q", got)
	}
	if !strings.HasPrefix(got, "This conversation explores") {
		t.Errorf("expected long-form template, got %q", got)
	}
}

func TestSummarizeUsesModelTone(t *testing.T) {
	model := &stubModel{classification: llm.Classification{Label: "negative", Score: 0.9}}
	g := NewGenerator(WithModel(model))
	msgs := []string{
		"The game was a complete disaster from start to finish yesterday.",
		"Absolutely, the team collapsed and everyone could see it coming.",
	}
	got := g.Summarize(context.Background(), msgs)
	if !strings.Contains(got, "strongly critical or concerned") {
		t.Errorf("summary should use model tone, got %q", got)
	}
}

func TestSummarizeFallsBackWhenModelFails(t *testing.T) {
	model := &stubModel{err: errors.New("backend down")}
	g := NewGenerator(WithModel(model))
	msgs := []string{
		"This is wonderful news about the team and their great season.",
		"I love how the players performed in every single game.",
	}
	got := g.Summarize(context.Background(), msgs)
	if got == "" || got == NoData {
		t.Fatalf("expected heuristic summary, got %q", got)
	}
	if !strings.Contains(got, "positive") {
		t.Errorf("lexicon fallback should find positive tone: %q", got)
	}
}

func TestToneDescription(t *testing.T) {
	tests := []struct {
		label string
		score float64
		want  string
	}{
		{"positive", 0.5, "mildly positive and engaging"},
		{"positive", 0.7, "moderately positive and engaging"},
		{"Positive", 0.9, "strongly positive and engaging"},
		{"negative", 0.85, "strongly critical or concerned"},
		{"neutral", 0.65, "moderately neutral and informative"},
		{"unknown", 0.3, "mildly neutral and informative"},
	}
	for _, tt := range tests {
		if got := toneDescription(tt.label, tt.score); got != tt.want {
			t.Errorf("toneDescription(%q, %v) = %q, want %q", tt.label, tt.score, got, tt.want)
		}
	}
}

func TestTopicKeywords(t *testing.T) {
	text := "football football football season season weather the and with"
	got := TopicKeywords(text, 3)
	if len(got) != 3 {
		t.Fatalf("topics = %v, want 3", got)
	}
	if got[0] != "football" || got[1] != "season" || got[2] != "weather" {
		t.Errorf("topics = %v, want frequency order", got)
	}
}

func TestTopicKeywordsFallback(t *testing.T) {
	got := TopicKeywords("the and is a to of", 3)
	want := []string{"discussion", "conversation"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("topics = %v, want %v", got, want)
	}
}

func TestThemes(t *testing.T) {
	got := Themes("We watched the game at the university despite the cold weather")
	if len(got) != 4 {
		t.Fatalf("themes = %v, want all four", got)
	}
	if got := Themes("nothing relevant here"); got != nil {
		t.Errorf("themes = %v, want nil", got)
	}
}

func TestTruncateKeepsRunesIntact(t *testing.T) {
	s := strings.Repeat("é", 40) // 2 bytes per rune

	for _, n := range []int{1, 7, 33, 79} {
		got := truncate(s, n)
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%d) produced invalid UTF-8: %q", n, got)
		}
		if len(got) > n+len("...") {
			t.Errorf("truncate(%d) = %d bytes", n, len(got))
		}
	}

	if got := truncate("short", 100); got != "short" {
		t.Errorf("truncate should pass short strings through, got %q", got)
	}
	if got := clip(strings.Repeat("日", 10), 4); !utf8.ValidString(got) || len(got) > 4 {
		t.Errorf("clip mid-rune = %q (%d bytes)", got, len(got))
	}
}

func TestDatasetSummaryEmpty(t *testing.T) {
	g := NewGenerator()
	if got := g.DatasetSummary(context.Background(), nil, nil); got == "" {
		t.Error("dataset summary must be non-empty")
	}
}

func TestDatasetSummaryModel(t *testing.T) {
	model := &stubModel{summary: "  A paragraph about sports coverage.  "}
	g := NewGenerator(WithModel(model))
	rows := []models.Row{{Message: "hello", ArticleURL: "https://wp.com/sports/game"}}
	got := g.DatasetSummary(context.Background(), rows, []string{"Headline"})
	if got != "A paragraph about sports coverage." {
		t.Errorf("DatasetSummary = %q, want trimmed model output", got)
	}
}

func TestDatasetSummaryKeywordFallback(t *testing.T) {
	g := NewGenerator() // no model
	sporty := []models.Row{
		{Message: "hi", ArticleURL: "https://wp.com/sports/football-recap"},
		{Message: "hi", ArticleURL: "https://wp.com/sports/nba-game"},
		{Message: "hi", ArticleURL: "https://wp.com/politics/vote"},
	}
	got := g.DatasetSummary(context.Background(), sporty, nil)
	if !strings.Contains(got, "sports") {
		t.Errorf("fallback should describe sports corpus: %q", got)
	}

	political := []models.Row{
		{Message: "hi", ArticleURL: "https://wp.com/politics/election-results"},
	}
	got = g.DatasetSummary(context.Background(), political, nil)
	if !strings.Contains(got, "current events") {
		t.Errorf("fallback should describe news corpus: %q", got)
	}
}

func TestDatasetSummaryModelErrorFallsBack(t *testing.T) {
	model := &stubModel{err: errors.New("quota exceeded")}
	g := NewGenerator(WithModel(model))
	rows := []models.Row{{Message: "hi", ArticleURL: "https://wp.com/politics/bill"}}
	got := g.DatasetSummary(context.Background(), rows, nil)
	if got == "" || strings.Contains(got, "quota") {
		t.Errorf("fallback summary = %q", got)
	}
}
