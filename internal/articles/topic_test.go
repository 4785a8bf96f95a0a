package articles

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGuessTopic(t *testing.T) {
	tests := []struct {
		name     string
		messages []string
		want     string
	}{
		{"url mention", []string{"check washingtonpost.com for details"}, TopicDetectedURL},
		{"sports", []string{"did you watch the football game", "great team"}, TopicSports},
		{"politics", []string{"the senate vote surprised everyone"}, TopicPolitics},
		{"unclear", []string{"what a lovely morning"}, TopicUnclear},
		{"empty", nil, TopicUnclear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GuessTopic(tt.messages); got != tt.want {
				t.Errorf("GuessTopic = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeywordCounts(t *testing.T) {
	urls := []string{
		"https://wp.com/sports/football-game-recap",
		"https://wp.com/politics/election-results",
		"https://wp.com/sports/nba-finals",
		"https://wp.com/lifestyle/recipes",
	}
	sports, politics := KeywordCounts(urls)
	if sports != 2 {
		t.Errorf("sports = %d, want 2", sports)
	}
	if politics != 1 {
		t.Errorf("politics = %d, want 1", politics)
	}
}

func TestResolveTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head>
			<meta property="og:title" content="Big Game Recap" />
			<title>fallback title</title>
		</head><body></body></html>`))
	}))
	defer srv.Close()

	title, err := NewResolver().ResolveTitle(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("ResolveTitle error: %v", err)
	}
	if title != "Big Game Recap" {
		t.Errorf("title = %q, want og:title value", title)
	}
}

func TestResolveTitleFallsBackToTitleTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title> Plain Title </title></head></html>`))
	}))
	defer srv.Close()

	title, err := NewResolver().ResolveTitle(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("ResolveTitle error: %v", err)
	}
	if title != "Plain Title" {
		t.Errorf("title = %q, want %q", title, "Plain Title")
	}
}

func TestResolveTitleErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := NewResolver().ResolveTitle(context.Background(), srv.URL); err == nil {
		t.Error("expected error for 404 response")
	}
}

func TestSectionHeadlines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(`<?xml version="1.0"?>
<rss version="2.0"><channel><title>Sports</title>
<item><title>Headline One</title></item>
<item><title>Headline Two</title></item>
<item><title>Headline Three</title></item>
</channel></rss>`))
	}))
	defer srv.Close()

	heads, err := NewResolver().SectionHeadlines(context.Background(), srv.URL, 2)
	if err != nil {
		t.Fatalf("SectionHeadlines error: %v", err)
	}
	if len(heads) != 2 {
		t.Fatalf("headlines = %v, want 2 items", heads)
	}
	if heads[0] != "Headline One" {
		t.Errorf("first headline = %q", heads[0])
	}
}
