// Package stats computes dataset-wide rollups from the tabular Row
// view: per-agent and per-article aggregates plus the canonical
// sentiment distribution. Every function here is pure — the same rows
// always produce identical aggregates.
package stats

import (
	"math"
	"strings"

	"github.com/conversalabs/conversa/pkg/models"
)

// bucketSynonyms maps lowercase raw sentiment labels onto the five
// canonical buckets. Labels not listed here count as neutral.
var bucketSynonyms = map[models.SentimentBucket][]string{
	models.Neutral:      {"neutral", "normal"},
	models.Positive:     {"positive", "curious to dive deeper", "surprised"},
	models.Negative:     {"negative", "angry"},
	models.VeryPositive: {"very_positive", "very positive", "excellent"},
	models.VeryNegative: {"very_negative", "very negative", "terrible"},
}

// labelBuckets is the inverted synonym table, built once.
var labelBuckets = func() map[string]models.SentimentBucket {
	m := make(map[string]models.SentimentBucket)
	for bucket, labels := range bucketSynonyms {
		for _, l := range labels {
			m[l] = bucket
		}
	}
	return m
}()

// NormalizeLabel maps a raw sentiment label onto its canonical bucket.
func NormalizeLabel(label string) models.SentimentBucket {
	if b, ok := labelBuckets[strings.ToLower(strings.TrimSpace(label))]; ok {
		return b
	}
	return models.Neutral
}

// Aggregate computes the dataset-wide summary from the Row table.
// The narrative field is left empty; it is generated lazily elsewhere.
func Aggregate(rows []models.Row) *models.DatasetSummaryStats {
	s := &models.DatasetSummaryStats{
		TotalMessages:         len(rows),
		AgentStats:            AgentStats(rows),
		ArticleStats:          ArticleStats(rows),
		SentimentDistribution: Distribution(rows),
	}

	transcripts := map[string]bool{}
	articles := map[string]bool{}
	for _, r := range rows {
		transcripts[r.TranscriptID] = true
		articles[r.ArticleURL] = true
	}
	s.TotalTranscripts = len(transcripts)
	s.UniqueArticles = len(articles)
	if s.TotalTranscripts > 0 {
		s.AvgMessagesPerTranscript = Round2(float64(s.TotalMessages) / float64(s.TotalTranscripts))
	}
	return s
}

// AgentStats computes per-agent aggregates from the Row table.
func AgentStats(rows []models.Row) map[string]models.AgentStats {
	type acc struct {
		count       int
		lengthSum   int
		wordSum     int
		scoreSum    int
		transcripts map[string]bool
	}
	accs := map[string]*acc{}
	for _, r := range rows {
		a := accs[r.Agent]
		if a == nil {
			a = &acc{transcripts: map[string]bool{}}
			accs[r.Agent] = a
		}
		a.count++
		a.lengthSum += r.MessageLength
		a.wordSum += r.WordCount
		a.scoreSum += r.SentimentScore
		a.transcripts[r.TranscriptID] = true
	}

	out := make(map[string]models.AgentStats, len(accs))
	for agent, a := range accs {
		n := float64(a.count)
		out[agent] = models.AgentStats{
			TotalMessages:     a.count,
			AvgMessageLength:  Round2(float64(a.lengthSum) / n),
			AvgWordCount:      Round2(float64(a.wordSum) / n),
			AvgSentimentScore: Round3(float64(a.scoreSum) / n),
			UniqueTranscripts: len(a.transcripts),
		}
	}
	return out
}

// ArticleStats computes per-transcript aggregates, keyed by transcript
// id with the first-seen article URL attached.
func ArticleStats(rows []models.Row) map[string]models.ArticleStats {
	type acc struct {
		count    int
		wordSum  int
		scoreSum int
		agents   map[string]bool
		url      string
	}
	accs := map[string]*acc{}
	for _, r := range rows {
		a := accs[r.TranscriptID]
		if a == nil {
			a = &acc{agents: map[string]bool{}, url: r.ArticleURL}
			accs[r.TranscriptID] = a
		}
		a.count++
		a.wordSum += r.WordCount
		a.scoreSum += r.SentimentScore
		a.agents[r.Agent] = true
	}

	out := make(map[string]models.ArticleStats, len(accs))
	for id, a := range accs {
		out[id] = models.ArticleStats{
			TotalMessages: a.count,
			UniqueAgents:  len(a.agents),
			TotalWords:    a.wordSum,
			AvgSentiment:  Round3(float64(a.scoreSum) / float64(a.count)),
			URL:           a.url,
		}
	}
	return out
}

// Distribution counts rows per canonical bucket. Every row lands in
// exactly one bucket, so the counts always sum to len(rows).
func Distribution(rows []models.Row) map[models.SentimentBucket]int {
	dist := map[models.SentimentBucket]int{
		models.Neutral:      0,
		models.Positive:     0,
		models.Negative:     0,
		models.VeryPositive: 0,
		models.VeryNegative: 0,
	}
	for _, r := range rows {
		dist[NormalizeLabel(r.Sentiment)]++
	}
	return dist
}

// Round2 rounds to 2 decimal places.
func Round2(x float64) float64 { return math.Round(x*100) / 100 }

// Round3 rounds to 3 decimal places.
func Round3(x float64) float64 { return math.Round(x*1000) / 1000 }
