package sentiment

import (
	"github.com/conversalabs/conversa/internal/textproc"
)

// ------------------------------------------------------------------
// Lexicon-based polarity scorer (offline, no model needed).
// When a model backend is configured the summary layer uses it for
// tone classification; per-message polarity always runs on this
// deterministic scorer so results are reproducible.
// ------------------------------------------------------------------

// positive / negative word weights (lowercase). Weights double as a
// subjectivity signal: strongly opinionated words score high on both.
var positiveWords = map[string]float64{
	"wonderful": 0.9, "excellent": 0.9, "amazing": 0.9, "awesome": 0.9,
	"fantastic": 0.9, "love": 0.8, "loved": 0.8, "great": 0.8,
	"best": 0.7, "happy": 0.7, "exciting": 0.7, "impressive": 0.7,
	"enjoy": 0.6, "enjoyed": 0.6, "good": 0.6, "nice": 0.6,
	"fun": 0.6, "glad": 0.6, "favorite": 0.6, "beautiful": 0.7,
	"interesting": 0.5, "cool": 0.5, "thanks": 0.5, "thank": 0.5,
	"like": 0.4, "liked": 0.4, "curious": 0.4, "agree": 0.4,
	"surprised": 0.4, "win": 0.4, "won": 0.4,
}

var negativeWords = map[string]float64{
	"terrible": 0.9, "awful": 0.9, "horrible": 0.9, "worst": 0.8,
	"hate": 0.8, "hated": 0.8, "disappointed": 0.7, "disappointing": 0.7,
	"angry": 0.7, "bad": 0.6, "sad": 0.6, "annoying": 0.6,
	"boring": 0.5, "unfortunately": 0.5, "poor": 0.5, "lost": 0.4,
	"lose": 0.4, "wrong": 0.4, "problem": 0.4, "hard": 0.3,
	"concern": 0.3, "concerned": 0.4, "doubt": 0.4,
}

// intensifiers raise subjectivity without carrying polarity themselves.
var intensifiers = map[string]bool{
	"very": true, "really": true, "so": true, "extremely": true,
	"totally": true, "absolutely": true, "quite": true,
}

// negators flip the polarity of the following sentiment word.
var negators = map[string]bool{
	"not": true, "never": true, "no": true, "dont": true,
	"didnt": true, "isnt": true, "wasnt": true, "cant": true,
}

// LexiconScorer is the default deterministic PolarityScorer.
type LexiconScorer struct{}

// Score rates a message. polarity is in [-1,1] (net sentiment of the
// matched words, as in a keyword headline scorer); subjectivity is in
// [0,1] (mean weight of matched words, nudged up by intensifiers).
// Text with no sentiment-bearing words scores (0, 0).
func (LexiconScorer) Score(text string) (polarity, subjectivity float64) {
	words := textproc.Words(text)

	posScore := 0.0
	negScore := 0.0
	weightSum := 0.0
	matches := 0
	boost := 0.0
	negated := false

	for _, w := range words {
		if negators[w] {
			negated = true
			continue
		}
		if intensifiers[w] {
			boost += 0.1
			continue
		}

		pw, isPos := positiveWords[w]
		nw, isNeg := negativeWords[w]
		if isPos {
			if negated {
				negScore += pw
			} else {
				posScore += pw
			}
			weightSum += pw
			matches++
		} else if isNeg {
			if negated {
				posScore += nw
			} else {
				negScore += nw
			}
			weightSum += nw
			matches++
		}
		negated = false
	}

	if matches == 0 {
		return 0, 0
	}

	total := posScore + negScore
	if total > 0 {
		polarity = (posScore - negScore) / total
	}

	subjectivity = weightSum/float64(matches) + boost
	if subjectivity > 1 {
		subjectivity = 1
	}
	return polarity, subjectivity
}
