package stats

import (
	"reflect"
	"testing"

	"github.com/conversalabs/conversa/pkg/models"
)

func sampleRows() []models.Row {
	return []models.Row{
		{TranscriptID: "t1", ArticleURL: "u1", Agent: "agent_1", Sentiment: "Positive", SentimentScore: 1, MessageLength: 10, WordCount: 2, MessageIndex: 0},
		{TranscriptID: "t1", ArticleURL: "u1", Agent: "agent_2", Sentiment: "Neutral", SentimentScore: 0, MessageLength: 20, WordCount: 4, MessageIndex: 1},
		{TranscriptID: "t1", ArticleURL: "u1", Agent: "agent_1", Sentiment: "Angry", SentimentScore: 0, MessageLength: 30, WordCount: 6, MessageIndex: 2},
		{TranscriptID: "t2", ArticleURL: "u2", Agent: "agent_1", Sentiment: "Excellent", SentimentScore: 0, MessageLength: 8, WordCount: 1, MessageIndex: 0},
		{TranscriptID: "t2", ArticleURL: "u2", Agent: "agent_2", Sentiment: "Mystery", SentimentScore: 0, MessageLength: 12, WordCount: 3, MessageIndex: 1},
	}
}

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		label string
		want  models.SentimentBucket
	}{
		{"Neutral", models.Neutral},
		{"normal", models.Neutral},
		{"Curious to dive deeper", models.Positive},
		{"SURPRISED", models.Positive},
		{"angry", models.Negative},
		{"excellent", models.VeryPositive},
		{"very negative", models.VeryNegative},
		{"terrible", models.VeryNegative},
		{"no-such-label", models.Neutral},
		{"  Positive  ", models.Positive},
	}
	for _, tt := range tests {
		if got := NormalizeLabel(tt.label); got != tt.want {
			t.Errorf("NormalizeLabel(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestAggregate(t *testing.T) {
	s := Aggregate(sampleRows())

	if s.TotalTranscripts != 2 {
		t.Errorf("total_transcripts = %d, want 2", s.TotalTranscripts)
	}
	if s.TotalMessages != 5 {
		t.Errorf("total_messages = %d, want 5", s.TotalMessages)
	}
	if s.AvgMessagesPerTranscript != 2.5 {
		t.Errorf("avg_messages_per_transcript = %v, want 2.5", s.AvgMessagesPerTranscript)
	}
	if s.UniqueArticles != 2 {
		t.Errorf("unique_articles = %d, want 2", s.UniqueArticles)
	}

	a1 := s.AgentStats["agent_1"]
	if a1.TotalMessages != 3 {
		t.Errorf("agent_1 messages = %d, want 3", a1.TotalMessages)
	}
	if a1.AvgMessageLength != 16 {
		t.Errorf("agent_1 avg length = %v, want 16", a1.AvgMessageLength)
	}
	if a1.AvgWordCount != 3 {
		t.Errorf("agent_1 avg words = %v, want 3", a1.AvgWordCount)
	}
	if a1.AvgSentimentScore != 0.333 {
		t.Errorf("agent_1 avg score = %v, want 0.333", a1.AvgSentimentScore)
	}
	if a1.UniqueTranscripts != 2 {
		t.Errorf("agent_1 transcripts = %d, want 2", a1.UniqueTranscripts)
	}

	t1 := s.ArticleStats["t1"]
	if t1.TotalMessages != 3 || t1.UniqueAgents != 2 || t1.TotalWords != 12 || t1.URL != "u1" {
		t.Errorf("t1 stats = %+v", t1)
	}
}

func TestDistributionSumsToTotal(t *testing.T) {
	rows := sampleRows()
	dist := Distribution(rows)

	sum := 0
	for _, n := range dist {
		sum += n
	}
	if sum != len(rows) {
		t.Errorf("distribution sum = %d, want %d", sum, len(rows))
	}
	if dist[models.Positive] != 1 {
		t.Errorf("positive = %d, want 1", dist[models.Positive])
	}
	if dist[models.Negative] != 1 { // "Angry"
		t.Errorf("negative = %d, want 1", dist[models.Negative])
	}
	if dist[models.VeryPositive] != 1 { // "Excellent"
		t.Errorf("very_positive = %d, want 1", dist[models.VeryPositive])
	}
	// "Neutral" + unmapped "Mystery"
	if dist[models.Neutral] != 2 {
		t.Errorf("neutral = %d, want 2", dist[models.Neutral])
	}
	// All five canonical keys are always present.
	if len(dist) != 5 {
		t.Errorf("distribution has %d keys, want 5", len(dist))
	}
}

func TestAggregateDeterministic(t *testing.T) {
	rows := sampleRows()
	first := Aggregate(rows)
	second := Aggregate(rows)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("aggregates differ between runs:\n%+v\n%+v", first, second)
	}
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil)
	if s.TotalMessages != 0 || s.TotalTranscripts != 0 {
		t.Errorf("empty aggregate = %+v", s)
	}
	if s.AvgMessagesPerTranscript != 0 {
		t.Errorf("avg for empty dataset = %v, want 0", s.AvgMessagesPerTranscript)
	}
}

func TestBasicStats(t *testing.T) {
	b := BasicStats([]float64{4, 1, 3, 2})
	if b.Mean != 2.5 {
		t.Errorf("mean = %v, want 2.5", b.Mean)
	}
	if b.Median != 2.5 {
		t.Errorf("median = %v, want 2.5", b.Median)
	}
	if b.Min != 1 || b.Max != 4 || b.Count != 4 {
		t.Errorf("basic = %+v", b)
	}

	if got := BasicStats(nil); got != (Basic{}) {
		t.Errorf("empty series = %+v, want zero value", got)
	}
}
