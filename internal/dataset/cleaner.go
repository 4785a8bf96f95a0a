package dataset

import (
	"encoding/json"

	"github.com/conversalabs/conversa/internal/textproc"
	"github.com/conversalabs/conversa/pkg/models"
)

// CleanedCollection holds the transcripts that survived cleaning, in
// the original document order, plus counts of what was silently
// dropped. Dropping malformed records without erroring is deliberate
// policy; the counts exist so the orchestrator can log them once.
type CleanedCollection struct {
	Order              []string
	Transcripts        map[string]models.CleanedTranscript
	DroppedTranscripts int
	DroppedMessages    int
}

// Len returns the number of cleaned transcripts.
func (c *CleanedCollection) Len() int { return len(c.Order) }

// Clean validates and normalizes a raw collection. Policy:
//   - entries that do not decode as a transcript record, or whose
//     content is missing or empty, are dropped;
//   - content items survive only when both message and agent are
//     present; sentiment, knowledge_source and turn_rating get
//     defaults when absent;
//   - message text is normalized (whitespace collapse, charset
//     filter); a message that cleans to "" is kept;
//   - a transcript left with zero messages is dropped.
func Clean(raw *RawCollection) *CleanedCollection {
	out := &CleanedCollection{
		Transcripts: make(map[string]models.CleanedTranscript, raw.Len()),
	}
	for _, id := range raw.Order {
		cleaned, dropped, ok := CleanTranscript(raw.Items[id])
		out.DroppedMessages += dropped
		if !ok {
			out.DroppedTranscripts++
			continue
		}
		out.Order = append(out.Order, id)
		out.Transcripts[id] = cleaned
	}
	return out
}

// CleanTranscript cleans a single raw transcript value. ok is false
// when the whole record must be dropped; dropped counts individual
// messages discarded from an otherwise valid record.
func CleanTranscript(raw json.RawMessage) (cleaned models.CleanedTranscript, dropped int, ok bool) {
	var t models.RawTranscript
	if err := json.Unmarshal(raw, &t); err != nil {
		return cleaned, 0, false
	}
	return CleanRecord(t)
}

// CleanRecord cleans an already-decoded raw transcript.
func CleanRecord(t models.RawTranscript) (cleaned models.CleanedTranscript, dropped int, ok bool) {
	if len(t.Content) == 0 {
		return cleaned, 0, false
	}

	content := make([]models.CleanedMessage, 0, len(t.Content))
	for _, m := range t.Content {
		cm, msgOK := CleanMessage(m)
		if !msgOK {
			dropped++
			continue
		}
		content = append(content, cm)
	}
	if len(content) == 0 {
		return cleaned, dropped, false
	}

	return models.CleanedTranscript{
		ArticleURL: t.ArticleURL,
		Config:     t.Config,
		Content:    content,
	}, dropped, true
}

// CleanMessage validates one raw message. Messages missing either the
// message or agent field are rejected; optional fields are defaulted.
func CleanMessage(m models.RawMessage) (models.CleanedMessage, bool) {
	if m.Message == nil || m.Agent == nil {
		return models.CleanedMessage{}, false
	}

	sentiment := m.Sentiment
	if sentiment == "" {
		sentiment = models.DefaultSentimentLabel
	}
	rating := m.TurnRating
	if rating == "" {
		rating = models.DefaultTurnRating
	}
	sources := m.KnowledgeSource
	if sources == nil {
		sources = []string{}
	}

	return models.CleanedMessage{
		Message:         textproc.Clean(*m.Message),
		Agent:           *m.Agent,
		Sentiment:       sentiment,
		KnowledgeSource: sources,
		TurnRating:      rating,
	}, true
}
