package models

// SentimentBucket is one of the five canonical sentiment categories,
// plus an error marker for degraded results.
type SentimentBucket string

const (
	VeryPositive SentimentBucket = "very_positive"
	Positive     SentimentBucket = "positive"
	Neutral      SentimentBucket = "neutral"
	Negative     SentimentBucket = "negative"
	VeryNegative SentimentBucket = "very_negative"

	// SentimentError tags a degraded result; it never appears in
	// per-message distributions.
	SentimentError SentimentBucket = "error"
)

// Buckets lists the five canonical categories in display order.
var Buckets = []SentimentBucket{Neutral, Positive, Negative, VeryPositive, VeryNegative}

// AgentSentimentResult is the aggregate sentiment for one participant's
// messages within a transcript.
type AgentSentimentResult struct {
	OverallSentiment      SentimentBucket           `json:"overall_sentiment"`
	Confidence            float64                   `json:"confidence"`
	SentimentDistribution map[SentimentBucket]int   `json:"sentiment_distribution"`
	AveragePolarity       float64                   `json:"average_polarity"`
	AverageSubjectivity   float64                   `json:"average_subjectivity"`
	MessageCount          int                       `json:"message_count"`
	AnalyzedMessages      int                       `json:"analyzed_messages"`
	Error                 string                    `json:"error,omitempty"`
}

// InteractionDynamic describes how two participants' sentiments relate.
type InteractionDynamic string

const (
	CollaborativePositive InteractionDynamic = "collaborative_positive"
	CollaborativeNegative InteractionDynamic = "collaborative_negative"
	Contrasting           InteractionDynamic = "contrasting"
	NeutralDiscussion     InteractionDynamic = "neutral_discussion"
	MixedDynamic          InteractionDynamic = "mixed_dynamic"
)

// SentimentComparison is the result of comparing both participants'
// sentiment over one conversation.
type SentimentComparison struct {
	Agent1             AgentSentimentResult `json:"agent_1"`
	Agent2             AgentSentimentResult `json:"agent_2"`
	PolarityDifference float64              `json:"polarity_difference"`
	InteractionDynamic InteractionDynamic   `json:"interaction_dynamic"`
	SentimentAlignment string               `json:"sentiment_alignment"` // "aligned" or "divergent"
}

// TranscriptAnalysis is the full request-time analysis of one transcript.
type TranscriptAnalysis struct {
	ArticleURL            string                  `json:"article_url"`
	ArticleTitle          string                  `json:"article_title,omitempty"`
	Agent1Messages        int                     `json:"agent_1_messages"`
	Agent2Messages        int                     `json:"agent_2_messages"`
	Agent1Sentiment       AgentSentimentResult    `json:"agent_1_sentiment"`
	Agent2Sentiment       AgentSentimentResult    `json:"agent_2_sentiment"`
	TotalMessages         int                     `json:"total_messages"`
	TranscriptSummary     string                  `json:"transcript_summary"`
	SentimentDistribution map[SentimentBucket]int `json:"sentiment_distribution"`
}

// AgentStats holds dataset-wide aggregates for one agent.
type AgentStats struct {
	TotalMessages     int     `json:"total_messages"`
	AvgMessageLength  float64 `json:"avg_message_length"`
	AvgWordCount      float64 `json:"avg_word_count"`
	AvgSentimentScore float64 `json:"avg_sentiment_score"`
	UniqueTranscripts int     `json:"unique_transcripts"`
}

// ArticleStats holds aggregates for one transcript/article.
type ArticleStats struct {
	TotalMessages int     `json:"total_messages"`
	UniqueAgents  int     `json:"unique_agents"`
	TotalWords    int     `json:"total_words"`
	AvgSentiment  float64 `json:"avg_sentiment"`
	URL           string  `json:"url"`
}

// DatasetSummaryStats is the dataset-wide rollup computed once at load
// time. DatasetSummary is the lazily generated narrative; empty until
// first requested.
type DatasetSummaryStats struct {
	TotalTranscripts         int                     `json:"total_transcripts"`
	TotalMessages            int                     `json:"total_messages"`
	AgentStats               map[string]AgentStats   `json:"agent_stats"`
	ArticleStats             map[string]ArticleStats `json:"article_stats"`
	SentimentDistribution    map[SentimentBucket]int `json:"sentiment_distribution"`
	AvgMessagesPerTranscript float64                 `json:"avg_messages_per_transcript"`
	UniqueArticles           int                     `json:"unique_articles"`
	DatasetSummary           string                  `json:"dataset_summary,omitempty"`
}
