package sentiment

import (
	"math"
	"strings"
	"unicode"

	"github.com/cognicore/pulse/pkg/pulse/internalerr"
)

// lexEntry carries the prior polarity and subjectivity of a word.
// Polarity is in [-1,1]; subjectivity in [0,1] where 1 is fully subjective.
type lexEntry struct {
	polarity     float64
	subjectivity float64
}

// lexiconStrategy is the always-embeddable scoring backend: a word lexicon
// with negation flipping and intensifier scaling.
type lexiconStrategy struct {
	entries      map[string]lexEntry
	negations    map[string]struct{}
	intensifiers map[string]float64
}

func newLexiconStrategy() (*lexiconStrategy, error) {
	if len(polarityLexicon) == 0 {
		return nil, internalerr.ErrInvalidConfig
	}
	return &lexiconStrategy{
		entries:      polarityLexicon,
		negations:    negationWords,
		intensifiers: intensifierWords,
	}, nil
}

func (s *lexiconStrategy) Method() Method { return MethodLexicon }

// negationWindow is how many preceding tokens can negate a sentiment word.
const negationWindow = 3

// Score averages the polarity of matched words, flipping within a negation
// window and scaling after intensifiers, then derives label and confidence.
func (s *lexiconStrategy) Score(text string) (observation, error) {
	tokens := splitWords(text)

	var polaritySum, subjectivitySum float64
	matched := 0

	for i, tok := range tokens {
		entry, ok := s.entries[tok]
		if !ok {
			continue
		}

		polarity := entry.polarity
		if i > 0 {
			if boost, ok := s.intensifiers[tokens[i-1]]; ok {
				polarity *= boost
			}
		}
		if s.negatedAt(tokens, i) {
			polarity *= -0.5
		}

		polaritySum += polarity
		subjectivitySum += entry.subjectivity
		matched++
	}

	if matched == 0 {
		return observation{label: LabelNeutral, confidence: 0.3}, nil
	}

	score := clampScore(polaritySum / float64(matched))
	subjectivity := subjectivitySum / float64(matched)
	confidence := clampConfidence(0.7*math.Abs(score) + 0.3*(1-subjectivity))

	return observation{
		score:      score,
		label:      labelForScore(score, 0.1),
		confidence: confidence,
	}, nil
}

// negatedAt reports whether any token within the negation window before
// position i is a negation word.
func (s *lexiconStrategy) negatedAt(tokens []string, i int) bool {
	for j := i - 1; j >= 0 && j >= i-negationWindow; j-- {
		if _, ok := s.negations[tokens[j]]; ok {
			return true
		}
	}
	return false
}

func clampScore(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

// splitWords lowercases and splits on anything that is not a letter or
// apostrophe, so contractions like "can't" survive as one token.
func splitWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

var negationWords = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "neither": {}, "nobody": {},
	"none": {}, "nor": {}, "nothing": {}, "nowhere": {}, "hardly": {},
	"barely": {}, "scarcely": {}, "without": {}, "can't": {}, "cannot": {},
	"won't": {}, "don't": {}, "doesn't": {}, "didn't": {}, "isn't": {},
	"aren't": {}, "wasn't": {}, "weren't": {},
}

var intensifierWords = map[string]float64{
	"very": 1.3, "really": 1.3, "extremely": 1.5, "absolutely": 1.4,
	"incredibly": 1.5, "truly": 1.2, "highly": 1.25, "so": 1.2,
	"totally": 1.3, "completely": 1.3, "utterly": 1.4, "quite": 1.1,
	"slightly": 0.6, "somewhat": 0.7, "fairly": 0.8, "rather": 0.9,
	"barely": 0.4, "kind": 0.7, "sort": 0.7,
}

// polarityLexicon is a compact business/social vocabulary. Values follow the
// usual pattern-lexicon convention: polarity in [-1,1], subjectivity in [0,1].
var polarityLexicon = map[string]lexEntry{
	// strongly positive
	"excellent": {0.9, 0.9}, "outstanding": {0.9, 0.9}, "amazing": {0.8, 0.9},
	"fantastic": {0.9, 0.9}, "wonderful": {0.9, 0.9}, "love": {0.7, 0.8},
	"best": {1.0, 0.3}, "brilliant": {0.9, 0.9}, "awesome": {0.8, 0.9},
	"incredible": {0.8, 0.9}, "perfect": {1.0, 1.0}, "superb": {0.9, 0.9},
	"thrilled": {0.8, 0.9}, "delighted": {0.85, 0.9}, "exceptional": {0.8, 0.8},

	// positive
	"good": {0.6, 0.6}, "great": {0.8, 0.75}, "happy": {0.7, 0.8},
	"proud": {0.6, 0.8}, "excited": {0.6, 0.8}, "grateful": {0.6, 0.8},
	"impressive": {0.6, 0.7}, "impressed": {0.6, 0.7}, "strong": {0.4, 0.5},
	"growth": {0.4, 0.3}, "success": {0.6, 0.4}, "successful": {0.6, 0.4},
	"win": {0.6, 0.5}, "winning": {0.6, 0.5}, "innovative": {0.5, 0.6},
	"innovation": {0.4, 0.4}, "opportunity": {0.4, 0.4}, "improve": {0.4, 0.4},
	"improved": {0.45, 0.4}, "improvement": {0.4, 0.4}, "milestone": {0.4, 0.3},
	"achievement": {0.5, 0.4}, "achieved": {0.5, 0.4}, "celebrate": {0.6, 0.6},
	"celebrating": {0.6, 0.6}, "welcome": {0.4, 0.4}, "enjoy": {0.5, 0.6},
	"enjoyed": {0.5, 0.6}, "helpful": {0.5, 0.5}, "recommend": {0.5, 0.5},
	"reliable": {0.5, 0.5}, "efficient": {0.4, 0.4}, "talented": {0.6, 0.6},
	"supportive": {0.5, 0.6}, "inspiring": {0.6, 0.7}, "promising": {0.5, 0.6},

	// negative
	"bad": {-0.6, 0.65}, "poor": {-0.5, 0.6}, "weak": {-0.4, 0.5},
	"slow": {-0.3, 0.4}, "problem": {-0.4, 0.3}, "problems": {-0.4, 0.3},
	"issue": {-0.3, 0.3}, "issues": {-0.3, 0.3}, "difficult": {-0.4, 0.5},
	"concern": {-0.3, 0.4}, "concerned": {-0.4, 0.5}, "concerns": {-0.3, 0.4},
	"decline": {-0.4, 0.3}, "declining": {-0.4, 0.3}, "loss": {-0.5, 0.3},
	"losses": {-0.5, 0.3}, "layoff": {-0.6, 0.3}, "layoffs": {-0.6, 0.3},
	"delay": {-0.3, 0.3}, "delayed": {-0.35, 0.3}, "fail": {-0.6, 0.5},
	"failed": {-0.6, 0.5}, "failure": {-0.65, 0.5}, "risk": {-0.2, 0.3},
	"unhappy": {-0.6, 0.8}, "disappointed": {-0.6, 0.8}, "disappointing": {-0.6, 0.7},
	"frustrating": {-0.6, 0.8}, "frustrated": {-0.6, 0.8}, "regret": {-0.5, 0.8},
	"overpriced": {-0.5, 0.6}, "expensive": {-0.3, 0.5}, "unreliable": {-0.5, 0.5},
	"stressful": {-0.5, 0.7}, "toxic": {-0.8, 0.8}, "mediocre": {-0.4, 0.6},

	// strongly negative
	"terrible": {-1.0, 1.0}, "horrible": {-1.0, 1.0}, "awful": {-1.0, 1.0},
	"worst": {-1.0, 0.3}, "hate": {-0.8, 0.9}, "disaster": {-0.8, 0.6},
	"disastrous": {-0.8, 0.7}, "useless": {-0.7, 0.8}, "pathetic": {-0.8, 0.9},
	"scam": {-0.9, 0.7}, "dreadful": {-0.9, 0.9}, "appalling": {-0.9, 0.9},
}
