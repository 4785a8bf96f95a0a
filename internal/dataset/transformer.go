package dataset

import (
	"strings"

	"github.com/conversalabs/conversa/pkg/models"
)

// sentimentScores maps the dataset's free-form sentiment labels onto a
// coarse integer score. Unrecognized labels score 0.
var sentimentScores = map[string]int{
	"Curious to dive deeper": 1,
	"Surprised":              1,
	"Positive":               1,
	"Neutral":                0,
	"Negative":               -1,
}

// LabelScore returns the integer score for a sentiment label.
func LabelScore(label string) int {
	return sentimentScores[label]
}

// Flatten converts a cleaned collection into the tabular Row view, in
// stable transcript-then-message order. MessageIndex runs 0..n-1 within
// each transcript.
func Flatten(c *CleanedCollection) []models.Row {
	var rows []models.Row
	for _, id := range c.Order {
		t := c.Transcripts[id]
		for i, m := range t.Content {
			rows = append(rows, models.Row{
				TranscriptID:    id,
				ArticleURL:      t.ArticleURL,
				Config:          t.Config,
				MessageIndex:    i,
				Message:         m.Message,
				Agent:           m.Agent,
				Sentiment:       m.Sentiment,
				SentimentScore:  LabelScore(m.Sentiment),
				KnowledgeSource: strings.Join(m.KnowledgeSource, ","),
				TurnRating:      m.TurnRating,
				MessageLength:   len(m.Message),
				WordCount:       len(strings.Fields(m.Message)),
			})
		}
	}
	return rows
}
