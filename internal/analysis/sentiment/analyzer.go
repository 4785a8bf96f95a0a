// Package sentiment classifies per-message polarity into the five
// canonical buckets and aggregates per-participant sentiment for a
// conversation. The polarity source is pluggable; the default is the
// deterministic lexicon scorer.
package sentiment

import (
	"math"

	"github.com/conversalabs/conversa/pkg/models"
)

// Fixed policy constants. The thresholds and confidence weights are
// tuning policy, not derived values; tests pin them.
const (
	VeryPositiveMin = 0.5
	PositiveMin     = 0.1
	NegativeMax     = -0.1
	VeryNegativeMax = -0.5

	ConsistencyWeight  = 0.7
	SubjectivityWeight = 0.3

	// AlignmentThreshold is the polarity difference below which two
	// participants count as "aligned".
	AlignmentThreshold = 0.2
)

// PolarityScorer rates a single text. polarity in [-1,1],
// subjectivity in [0,1].
type PolarityScorer interface {
	Score(text string) (polarity, subjectivity float64)
}

// Analyzer computes per-participant sentiment aggregates.
type Analyzer struct {
	scorer PolarityScorer
}

// NewAnalyzer creates an analyzer with the given scorer.
// A nil scorer selects the lexicon default.
func NewAnalyzer(scorer PolarityScorer) *Analyzer {
	if scorer == nil {
		scorer = LexiconScorer{}
	}
	return &Analyzer{scorer: scorer}
}

// Bucket maps a polarity value onto the five canonical buckets.
// The wide bands are checked before the narrow ones.
func Bucket(polarity float64) models.SentimentBucket {
	switch {
	case polarity >= VeryPositiveMin:
		return models.VeryPositive
	case polarity >= PositiveMin:
		return models.Positive
	case polarity <= VeryNegativeMax:
		return models.VeryNegative
	case polarity <= NegativeMax:
		return models.Negative
	default:
		return models.Neutral
	}
}

// Analyze scores every message and aggregates the participant's overall
// sentiment. Empty or blank-only input yields a neutral result with
// zero confidence and an empty distribution. Analyze never fails; a
// broken scorer degrades to an error-tagged result.
func (a *Analyzer) Analyze(messages []string) models.AgentSentimentResult {
	empty := models.AgentSentimentResult{
		OverallSentiment:      models.Neutral,
		SentimentDistribution: map[models.SentimentBucket]int{},
		MessageCount:          len(messages),
	}

	var polarities, subjectivities []float64
	dist := map[models.SentimentBucket]int{}

	for _, msg := range messages {
		if msg == "" {
			continue
		}
		polarity, subjectivity := a.scorer.Score(msg)
		if math.IsNaN(polarity) || math.IsNaN(subjectivity) {
			return models.AgentSentimentResult{
				OverallSentiment:      models.SentimentError,
				SentimentDistribution: map[models.SentimentBucket]int{},
				MessageCount:          len(messages),
				Error:                 "scorer returned NaN",
			}
		}
		polarities = append(polarities, polarity)
		subjectivities = append(subjectivities, subjectivity)
		dist[Bucket(polarity)]++
	}

	if len(polarities) == 0 {
		return empty
	}

	avgPolarity := mean(polarities)
	avgSubjectivity := mean(subjectivities)

	return models.AgentSentimentResult{
		OverallSentiment:      Bucket(avgPolarity),
		Confidence:            round3(confidence(dist, len(polarities), avgSubjectivity)),
		SentimentDistribution: dist,
		AveragePolarity:       round3(avgPolarity),
		AverageSubjectivity:   round3(avgSubjectivity),
		MessageCount:          len(messages),
		AnalyzedMessages:      len(polarities),
	}
}

// confidence blends bucket consistency (how often the modal bucket
// appears) with capped subjectivity.
func confidence(dist map[models.SentimentBucket]int, analyzed int, avgSubjectivity float64) float64 {
	if analyzed == 0 {
		return 0
	}
	modal := 0
	for _, n := range dist {
		if n > modal {
			modal = n
		}
	}
	consistency := float64(modal) / float64(analyzed)
	subjectivity := math.Min(avgSubjectivity*2, 1.0)

	c := ConsistencyWeight*consistency + SubjectivityWeight*subjectivity
	return math.Min(c, 1.0)
}

// Compare analyzes both participants' messages and characterizes the
// conversation dynamic between them.
func (a *Analyzer) Compare(agent1, agent2 []string) models.SentimentComparison {
	r1 := a.Analyze(agent1)
	r2 := a.Analyze(agent2)

	diff := math.Abs(r1.AveragePolarity - r2.AveragePolarity)

	alignment := "aligned"
	if diff >= AlignmentThreshold {
		alignment = "divergent"
	}

	return models.SentimentComparison{
		Agent1:             r1,
		Agent2:             r2,
		PolarityDifference: round3(diff),
		InteractionDynamic: dynamic(r1.OverallSentiment, r2.OverallSentiment),
		SentimentAlignment: alignment,
	}
}

// dynamic derives the interaction style from the two overall buckets.
func dynamic(s1, s2 models.SentimentBucket) models.InteractionDynamic {
	pos := func(s models.SentimentBucket) bool { return s == models.Positive || s == models.VeryPositive }
	neg := func(s models.SentimentBucket) bool { return s == models.Negative || s == models.VeryNegative }

	switch {
	case pos(s1) && pos(s2):
		return models.CollaborativePositive
	case neg(s1) && neg(s2):
		return models.CollaborativeNegative
	case (pos(s1) && neg(s2)) || (neg(s1) && pos(s2)):
		return models.Contrasting
	case s1 == models.Neutral && s2 == models.Neutral:
		return models.NeutralDiscussion
	default:
		return models.MixedDynamic
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
