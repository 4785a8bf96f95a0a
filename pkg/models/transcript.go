// Package models defines the shared data types for the Conversa transcript
// analytics pipeline: raw and cleaned transcript records, the flattened
// tabular Row schema, and the analysis result types returned to callers.
package models

// Canonical agent identifiers. Every transcript is a two-party conversation
// between agent_1 and agent_2; other labels pass through cleaning unchanged
// but are excluded from the two-bucket analysis.
const (
	Agent1 = "agent_1"
	Agent2 = "agent_2"
)

// Defaults filled in during cleaning when a message field is absent.
const (
	DefaultSentimentLabel = "Neutral"
	DefaultTurnRating     = "Good"
)

// RawMessage is a single conversational turn as it appears in the dataset
// file. Message and Agent are pointers so the cleaner can tell an absent
// field from an empty one; a message missing either is dropped.
type RawMessage struct {
	Message         *string  `json:"message"`
	Agent           *string  `json:"agent"`
	Sentiment       string   `json:"sentiment"`
	KnowledgeSource []string `json:"knowledge_source"`
	TurnRating      string   `json:"turn_rating"`
}

// RawTranscript is one recorded conversation tied to a source article.
type RawTranscript struct {
	ArticleURL string       `json:"article_url"`
	Config     string       `json:"config"`
	Content    []RawMessage `json:"content"`
}

// CleanedMessage is a RawMessage that survived validation: the text has
// been normalized and absent optional fields hold their defaults.
type CleanedMessage struct {
	Message         string   `json:"message"`
	Agent           string   `json:"agent"`
	Sentiment       string   `json:"sentiment"`
	KnowledgeSource []string `json:"knowledge_source"`
	TurnRating      string   `json:"turn_rating"`
}

// CleanedTranscript is a transcript whose content passed cleaning.
// Transcripts with zero surviving messages are dropped entirely.
type CleanedTranscript struct {
	ArticleURL string           `json:"article_url"`
	Config     string           `json:"config"`
	Content    []CleanedMessage `json:"content"`
}

// Row is one flattened per-message record in the tabular dataset view.
// MessageIndex is 0-based and strictly increasing within a transcript.
type Row struct {
	TranscriptID    string `json:"transcript_id"`
	ArticleURL      string `json:"article_url"`
	Config          string `json:"config"`
	MessageIndex    int    `json:"message_id"`
	Message         string `json:"message"`
	Agent           string `json:"agent"`
	Sentiment       string `json:"sentiment"`
	SentimentScore  int    `json:"sentiment_score"`
	KnowledgeSource string `json:"knowledge_source"`
	TurnRating      string `json:"turn_rating"`
	MessageLength   int    `json:"message_length"`
	WordCount       int    `json:"word_count"`
}
