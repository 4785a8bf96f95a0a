package textproc

import (
	"reflect"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapse whitespace", "hello   world\n\tfoo", "hello world foo"},
		{"trim ends", "  padded  ", "padded"},
		{"strip symbols", "nice game 🏈 #go @you", "nice game go you"},
		{"keep punctuation", "Wait, really?! Yes: ok; fine - sure.", "Wait, really?! Yes: ok; fine - sure."},
		{"empty", "", ""},
		{"only symbols", "✨✨", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCountWords(t *testing.T) {
	if got := CountWords("one two  three"); got != 3 {
		t.Errorf("expected 3 words, got %d", got)
	}
	if got := CountWords(""); got != 0 {
		t.Errorf("expected 0 words for empty string, got %d", got)
	}
}

func TestExtractURLs(t *testing.T) {
	text := "see https://www.washingtonpost.com/sports/game and http://example.com/a"
	got := ExtractURLs(text)
	want := []string{"https://www.washingtonpost.com/sports/game", "http://example.com/a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractURLs = %v, want %v", got, want)
	}
}

func TestExtractURLsKeepsPathAndQuery(t *testing.T) {
	got := ExtractURLs("read https://wp.com/politics/election-results?id=3 today")
	want := []string{"https://wp.com/politics/election-results?id=3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractURLs = %v, want %v", got, want)
	}
}

func TestWords(t *testing.T) {
	got := Words("The Game, the GAME!")
	want := []string{"the", "game", "the", "game"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Words = %v, want %v", got, want)
	}
}
