package sentiment

import (
	"reflect"
	"testing"

	"github.com/conversalabs/conversa/pkg/models"
)

func TestBucketThresholds(t *testing.T) {
	tests := []struct {
		polarity float64
		want     models.SentimentBucket
	}{
		{1.0, models.VeryPositive},
		{0.5, models.VeryPositive},
		{0.49, models.Positive},
		{0.1, models.Positive},
		{0.09, models.Neutral},
		{0.0, models.Neutral},
		{-0.09, models.Neutral},
		{-0.1, models.Negative},
		{-0.49, models.Negative},
		{-0.5, models.VeryNegative},
		{-1.0, models.VeryNegative},
	}
	for _, tt := range tests {
		if got := Bucket(tt.polarity); got != tt.want {
			t.Errorf("Bucket(%v) = %v, want %v", tt.polarity, got, tt.want)
		}
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	a := NewAnalyzer(nil)
	for i := 0; i < 3; i++ {
		res := a.Analyze(nil)
		if res.OverallSentiment != models.Neutral {
			t.Errorf("empty input: overall = %v, want neutral", res.OverallSentiment)
		}
		if res.Confidence != 0 {
			t.Errorf("empty input: confidence = %v, want 0", res.Confidence)
		}
		if len(res.SentimentDistribution) != 0 {
			t.Errorf("empty input: distribution = %v, want empty", res.SentimentDistribution)
		}
	}
}

func TestAnalyzeBlankOnly(t *testing.T) {
	a := NewAnalyzer(nil)
	res := a.Analyze([]string{"", ""})
	if res.OverallSentiment != models.Neutral || res.Confidence != 0 {
		t.Errorf("blank-only input should be neutral/0, got %v/%v", res.OverallSentiment, res.Confidence)
	}
	if res.MessageCount != 2 || res.AnalyzedMessages != 0 {
		t.Errorf("counts: message_count=%d analyzed=%d", res.MessageCount, res.AnalyzedMessages)
	}
}

func TestAnalyzeStronglyPositive(t *testing.T) {
	a := NewAnalyzer(nil)
	res := a.Analyze([]string{"This is wonderful!", "I love it"})

	if res.OverallSentiment != models.VeryPositive && res.OverallSentiment != models.Positive {
		t.Errorf("overall = %v, want a positive bucket", res.OverallSentiment)
	}
	if res.Confidence <= 0.5 {
		t.Errorf("confidence = %v, want > 0.5", res.Confidence)
	}
	for bucket := range res.SentimentDistribution {
		if bucket != models.Positive && bucket != models.VeryPositive {
			t.Errorf("unexpected bucket %v in distribution %v", bucket, res.SentimentDistribution)
		}
	}
	if res.AnalyzedMessages != 2 {
		t.Errorf("analyzed = %d, want 2", res.AnalyzedMessages)
	}
}

func TestAnalyzeNegation(t *testing.T) {
	a := NewAnalyzer(nil)
	res := a.Analyze([]string{"That was not good at all"})
	if res.AveragePolarity >= 0 {
		t.Errorf("negated positive should score negative, got %v", res.AveragePolarity)
	}
}

// fixedScorer returns a canned polarity regardless of text.
type fixedScorer struct{ polarity, subjectivity float64 }

func (f fixedScorer) Score(string) (float64, float64) { return f.polarity, f.subjectivity }

func TestBucketingIgnoresSubjectivity(t *testing.T) {
	// Polarity >= 0.5 must bucket very_positive at any subjectivity.
	for _, subj := range []float64{0, 0.5, 1} {
		a := NewAnalyzer(fixedScorer{polarity: 0.5, subjectivity: subj})
		res := a.Analyze([]string{"x"})
		if res.OverallSentiment != models.VeryPositive {
			t.Errorf("subjectivity %v: overall = %v, want very_positive", subj, res.OverallSentiment)
		}
	}
}

func TestConfidenceFormula(t *testing.T) {
	// Uniform bucket, subjectivity 0.25: 0.7*1.0 + 0.3*min(0.5,1) = 0.85
	a := NewAnalyzer(fixedScorer{polarity: 0.3, subjectivity: 0.25})
	res := a.Analyze([]string{"a", "b", "c"})
	if res.Confidence != 0.85 {
		t.Errorf("confidence = %v, want 0.85", res.Confidence)
	}
}

func TestCompareDynamics(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 float64
		want   models.InteractionDynamic
	}{
		{"both positive", 0.6, 0.2, models.CollaborativePositive},
		{"both negative", -0.6, -0.2, models.CollaborativeNegative},
		{"contrasting", 0.6, -0.6, models.Contrasting},
		{"neutral discussion", 0.0, 0.0, models.NeutralDiscussion},
		{"mixed", 0.6, 0.0, models.MixedDynamic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dynamic(Bucket(tt.p1), Bucket(tt.p2))
			if got != tt.want {
				t.Errorf("dynamic = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompareAlignment(t *testing.T) {
	a := NewAnalyzer(fixedScorer{polarity: 0.3, subjectivity: 0.5})
	cmp := a.Compare([]string{"x"}, []string{"y"})
	if cmp.SentimentAlignment != "aligned" {
		t.Errorf("identical polarities should align, got %q", cmp.SentimentAlignment)
	}
	if cmp.PolarityDifference != 0 {
		t.Errorf("polarity difference = %v, want 0", cmp.PolarityDifference)
	}

	// Divergent case via the lexicon scorer.
	lex := NewAnalyzer(nil)
	cmp = lex.Compare([]string{"This is wonderful, I love it"}, []string{"This is terrible, I hate it"})
	if cmp.SentimentAlignment != "divergent" {
		t.Errorf("opposed polarities should diverge, got %q", cmp.SentimentAlignment)
	}
	if cmp.InteractionDynamic != models.Contrasting {
		t.Errorf("dynamic = %v, want contrasting", cmp.InteractionDynamic)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	a := NewAnalyzer(nil)
	msgs := []string{"I love this game", "it was hard to watch", "great ending though"}
	first := a.Analyze(msgs)
	second := a.Analyze(msgs)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated analysis differs:\n%+v\n%+v", first, second)
	}
}
