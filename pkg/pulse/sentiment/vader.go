package sentiment

import (
	"math"

	"github.com/jonreiter/govader"
)

// vaderStrategy wraps the VADER intensity analyzer, which is tuned for the
// short informal register of social posts.
type vaderStrategy struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func newVaderStrategy() (*vaderStrategy, error) {
	return &vaderStrategy{analyzer: govader.NewSentimentIntensityAnalyzer()}, nil
}

func (s *vaderStrategy) Method() Method { return MethodVader }

// Score maps VADER's compound score to a result. Thresholds are the standard
// VADER +-0.05; confidence rises with the compound magnitude and with how
// polarized the pos/neg/neu distribution is.
func (s *vaderStrategy) Score(text string) (observation, error) {
	scores := s.analyzer.PolarityScores(text)

	compound := scores.Compound
	spread := math.Max(scores.Positive, scores.Negative) - scores.Neutral
	confidence := clampConfidence(0.6*math.Abs(compound) + 0.4*math.Max(0, spread))

	return observation{
		score:      compound,
		label:      labelForScore(compound, 0.05),
		confidence: confidence,
	}, nil
}
