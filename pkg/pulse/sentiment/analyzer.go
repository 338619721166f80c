package sentiment

import (
	"log"
	"math"
	"regexp"
	"strings"
)

// Label is the discrete polarity class of a text.
type Label string

const (
	LabelPositive Label = "positive"
	LabelNeutral  Label = "neutral"
	LabelNegative Label = "negative"
)

// Method selects a scoring strategy.
type Method int

const (
	// MethodUnspecified lets the analyzer use its default method.
	MethodUnspecified Method = iota
	// MethodLexicon scores with the polarity/subjectivity lexicon.
	MethodLexicon
	// MethodVader scores with the social-media-tuned VADER model.
	MethodVader
	// MethodEnsemble combines every available strategy.
	MethodEnsemble
)

func (m Method) String() string {
	switch m {
	case MethodLexicon:
		return "lexicon"
	case MethodVader:
		return "vader"
	case MethodEnsemble:
		return "ensemble"
	default:
		return "unspecified"
	}
}

// Result is one sentiment measurement. Score is in [-1,1], Confidence in [0,1].
type Result struct {
	Score      float64 `json:"score"`
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
	Method     Method  `json:"-"`
}

// observation is a raw strategy output before ensemble combination.
type observation struct {
	score      float64
	label      Label
	confidence float64
}

// strategy is a single scoring backend. Score errors mean the strategy is
// unusable for this one call, never that the input is invalid.
type strategy interface {
	Method() Method
	Score(text string) (observation, error)
}

// Ensemble weights: the social-tuned model handles short informal text
// better, so it dominates.
const (
	vaderWeight   = 0.6
	lexiconWeight = 0.4
)

// Analyzer scores texts using whichever strategies could be constructed.
// A nil strategy slot means the capability is absent in this environment.
type Analyzer struct {
	defaultMethod Method
	lexicon       strategy
	vader         strategy
}

// New builds an analyzer with every strategy that initializes cleanly.
// Initialization failure degrades the analyzer instead of failing it.
func New(defaultMethod Method) *Analyzer {
	if defaultMethod == MethodUnspecified {
		defaultMethod = MethodEnsemble
	}
	a := &Analyzer{defaultMethod: defaultMethod}

	if lex, err := newLexiconStrategy(); err != nil {
		log.Printf("sentiment: lexicon strategy unavailable: %v", err)
	} else {
		a.lexicon = lex
	}
	if v, err := newVaderStrategy(); err != nil {
		log.Printf("sentiment: vader strategy unavailable: %v", err)
	} else {
		a.vader = v
	}
	return a
}

var (
	urlPattern        = regexp.MustCompile(`https?://\S+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	punctRunPattern   = regexp.MustCompile(`[.!?]{4,}`)
)

// cleanText normalizes whitespace, strips URLs, and collapses runs of four
// or more terminal punctuation marks.
func cleanText(text string) string {
	text = urlPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(strings.TrimSpace(text), " ")
	text = punctRunPattern.ReplaceAllString(text, "...")
	return strings.TrimSpace(text)
}

// AnalyzeText scores a single text. It returns nil when the text is empty
// after cleaning or when no strategy can produce a result.
func (a *Analyzer) AnalyzeText(text string, method Method) *Result {
	cleaned := cleanText(text)
	if cleaned == "" {
		return nil
	}

	if method == MethodUnspecified {
		method = a.defaultMethod
	}

	switch method {
	case MethodLexicon:
		if obs, ok := a.runStrategy(a.lexicon, cleaned); ok {
			return &Result{Score: obs.score, Label: obs.label, Confidence: obs.confidence, Method: MethodLexicon}
		}
	case MethodVader:
		if obs, ok := a.runStrategy(a.vader, cleaned); ok {
			return &Result{Score: obs.score, Label: obs.label, Confidence: obs.confidence, Method: MethodVader}
		}
	case MethodEnsemble:
		return a.ensemble(cleaned)
	}
	return nil
}

// AnalyzeBatch maps AnalyzeText over texts. Entries are nil where analysis
// produced nothing; the call itself never fails.
func (a *Analyzer) AnalyzeBatch(texts []string, method Method) []*Result {
	if len(texts) == 0 {
		return nil
	}
	results := make([]*Result, len(texts))
	for i, text := range texts {
		results[i] = a.AnalyzeText(text, method)
	}
	return results
}

// runStrategy executes one strategy, containing errors and panics so a
// misbehaving backend can never take down a batch.
func (a *Analyzer) runStrategy(s strategy, text string) (obs observation, ok bool) {
	if s == nil {
		return observation{}, false
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("sentiment: %s strategy panicked: %v", s.Method(), r)
			ok = false
		}
	}()
	obs, err := s.Score(text)
	if err != nil {
		log.Printf("sentiment: %s strategy failed: %v", s.Method(), err)
		return observation{}, false
	}
	return obs, true
}

// ensemble combines the lexicon and VADER observations with fixed weights.
// A single available strategy is passed through, reported as ensemble.
func (a *Analyzer) ensemble(cleaned string) *Result {
	lexObs, lexOK := a.runStrategy(a.lexicon, cleaned)
	vadObs, vadOK := a.runStrategy(a.vader, cleaned)

	switch {
	case !lexOK && !vadOK:
		return nil
	case lexOK && !vadOK:
		return &Result{Score: lexObs.score, Label: lexObs.label, Confidence: lexObs.confidence, Method: MethodEnsemble}
	case vadOK && !lexOK:
		return &Result{Score: vadObs.score, Label: vadObs.label, Confidence: vadObs.confidence, Method: MethodEnsemble}
	}

	score := vadObs.score*vaderWeight + lexObs.score*lexiconWeight
	confidence := vadObs.confidence*vaderWeight + lexObs.confidence*lexiconWeight

	return &Result{
		Score:      score,
		Label:      labelForScore(score, 0.1),
		Confidence: confidence,
		Method:     MethodEnsemble,
	}
}

// labelForScore maps a polarity score to a label using a symmetric threshold.
func labelForScore(score, threshold float64) Label {
	switch {
	case score > threshold:
		return LabelPositive
	case score < -threshold:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// clampConfidence bounds a confidence estimate to [0.1, 0.95].
func clampConfidence(c float64) float64 {
	return math.Min(0.95, math.Max(0.1, c))
}

// AvailableMethods reports which methods this analyzer can execute.
func (a *Analyzer) AvailableMethods() []Method {
	var methods []Method
	if a.lexicon != nil {
		methods = append(methods, MethodLexicon)
	}
	if a.vader != nil {
		methods = append(methods, MethodVader)
	}
	if len(methods) > 1 {
		methods = append(methods, MethodEnsemble)
	}
	return methods
}

// MethodAvailable reports whether a specific method can be executed.
func (a *Analyzer) MethodAvailable(m Method) bool {
	switch m {
	case MethodLexicon:
		return a.lexicon != nil
	case MethodVader:
		return a.vader != nil
	case MethodEnsemble:
		return a.lexicon != nil && a.vader != nil
	}
	return false
}
