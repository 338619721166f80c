// Package entities extracts named entities from short texts. Several
// extraction methods of different quality are layered behind one interface:
// a statistical tagger when its model is usable, a rule-based tagger, and
// surface patterns as the floor. Business value patterns (money, percent,
// dates) are merged into every result.
package entities

import (
	"log"
	"sort"
	"strings"
)

// Method selects an extraction strategy.
type Method int

const (
	// MethodUnspecified lets the recognizer pick the richest available method.
	MethodUnspecified Method = iota
	// MethodRegex matches organization surface patterns. Always available.
	MethodRegex
	// MethodRule finds entities from capitalization heuristics. Always available.
	MethodRule
	// MethodTagger uses the statistical model, when available.
	MethodTagger
	// MethodEnsemble unions every available method.
	MethodEnsemble
)

func (m Method) String() string {
	switch m {
	case MethodRegex:
		return "regex"
	case MethodRule:
		return "rule_based"
	case MethodTagger:
		return "statistical"
	case MethodEnsemble:
		return "ensemble"
	default:
		return "unspecified"
	}
}

// Entity is a single extracted mention. Start and End are byte offsets into
// the analyzed text, End exclusive.
type Entity struct {
	Text       string  `json:"text"`
	Type       string  `json:"entity_type"`
	Start      int     `json:"start_pos"`
	End        int     `json:"end_pos"`
	Confidence float64 `json:"confidence"`
}

// Options configures a Recognizer.
type Options struct {
	// ExtraCompanies extends the built-in known-company list.
	ExtraCompanies []string

	// DisableTagger skips the statistical model even when usable.
	DisableTagger bool
}

// Recognizer extracts entities with whatever methods are available.
type Recognizer struct {
	tagger    *proseTagger // nil when the model is unavailable
	companies map[string]struct{}
}

// New creates a recognizer. Construction never fails: a broken statistical
// model only narrows the available methods.
func New(opts Options) *Recognizer {
	r := &Recognizer{companies: make(map[string]struct{}, len(knownCompanies)+len(opts.ExtraCompanies))}
	for name := range knownCompanies {
		r.companies[name] = struct{}{}
	}
	for _, name := range opts.ExtraCompanies {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			r.companies[name] = struct{}{}
		}
	}
	if !opts.DisableTagger {
		tagger, err := newProseTagger()
		if err != nil {
			log.Printf("entities: statistical tagger unavailable, degrading: %v", err)
		} else {
			r.tagger = tagger
		}
	}
	return r
}

// Extract finds entities in text. companyContext names the organization the
// text is known to be about; when it appears in the text but no extracted
// entity captured it exactly, a high-confidence mention is synthesized.
// Extract never fails; an empty slice means nothing was found.
func (r *Recognizer) Extract(text string, method Method, companyContext string) []Entity {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if method == MethodUnspecified {
		method = r.bestMethod()
	}

	var found []Entity
	switch method {
	case MethodTagger:
		found = r.runTagger(text)
		if found == nil {
			found = extractRuleBased(text)
		}
	case MethodRule:
		found = extractRuleBased(text)
	case MethodRegex:
		found = extractOrgPatterns(text)
	case MethodEnsemble:
		found = append(found, r.runTagger(text)...)
		found = append(found, extractRuleBased(text)...)
		found = append(found, extractOrgPatterns(text)...)
	}

	// Business patterns ride along whatever method was asked for.
	found = append(found, extractBusinessPatterns(text)...)

	for i := range found {
		found[i].Confidence = r.adjustConfidence(found[i])
	}

	out := dedupe(found)
	out = r.synthesizeContext(text, companyContext, out)
	return out
}

// ExtractBatch extracts entities for each text. The result always has one
// element per input, in order.
func (r *Recognizer) ExtractBatch(texts []string, method Method, companyContext string) [][]Entity {
	out := make([][]Entity, len(texts))
	for i, text := range texts {
		out[i] = r.Extract(text, method, companyContext)
	}
	return out
}

// AvailableMethods reports the extraction methods this instance supports.
func (r *Recognizer) AvailableMethods() []Method {
	methods := []Method{MethodRegex, MethodRule}
	if r.tagger != nil {
		methods = append(methods, MethodTagger)
	}
	return methods
}

// TaggerAvailable reports whether the statistical model loaded.
func (r *Recognizer) TaggerAvailable() bool { return r.tagger != nil }

// ResolveMethod reports the method Extract actually runs for the given
// request, accounting for degradation.
func (r *Recognizer) ResolveMethod(m Method) Method {
	if m == MethodUnspecified {
		return r.bestMethod()
	}
	if m == MethodTagger && r.tagger == nil {
		return MethodRule
	}
	return m
}

func (r *Recognizer) bestMethod() Method {
	if r.tagger != nil {
		return MethodTagger
	}
	return MethodRule
}

// runTagger contains model failures: an error or panic degrades to nil so
// the caller can fall back.
func (r *Recognizer) runTagger(text string) (out []Entity) {
	if r.tagger == nil {
		return nil
	}
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("entities: statistical tagger panicked: %v", rec)
			out = nil
		}
	}()
	found, err := r.tagger.extract(text)
	if err != nil {
		log.Printf("entities: statistical tagger failed: %v", err)
		return nil
	}
	return found
}

// adjustConfidence penalizes implausible span lengths and boosts known
// company mentions, capped below certainty.
func (r *Recognizer) adjustConfidence(e Entity) float64 {
	c := e.Confidence
	if len(e.Text) > 20 {
		c *= 0.8
	}
	if len(e.Text) < 2 {
		c *= 0.6
	}
	if _, known := r.companies[strings.ToLower(strings.TrimSpace(e.Text))]; known {
		c += 0.2
		if c > 0.95 {
			c = 0.95
		}
	}
	if c > 1 {
		c = 1
	}
	return c
}

// dedupe resolves overlapping spans greedily: candidates are visited in span
// order and an overlapping candidate displaces the previously accepted one
// only with strictly higher confidence.
func dedupe(ents []Entity) []Entity {
	if len(ents) == 0 {
		return nil
	}
	sorted := append([]Entity(nil), ents...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		if sorted[i].End != sorted[j].End {
			return sorted[i].End < sorted[j].End
		}
		return sorted[i].Confidence > sorted[j].Confidence
	})

	out := sorted[:1:1]
	for _, e := range sorted[1:] {
		last := &out[len(out)-1]
		if e.Start < last.End {
			if e.Confidence > last.Confidence {
				*last = e
			}
			continue
		}
		out = append(out, e)
	}
	return out
}

const contextConfidence = 0.95

// synthesizeContext appends a mention of the known company when it occurs in
// the text but no organization entity captured exactly it. This recovers the
// company name when a greedy pattern swallowed it inside a larger span or a
// method mislabeled it as something other than an organization.
func (r *Recognizer) synthesizeContext(text, companyContext string, ents []Entity) []Entity {
	ctx := strings.TrimSpace(companyContext)
	if ctx == "" {
		return ents
	}
	idx := strings.Index(strings.ToLower(text), strings.ToLower(ctx))
	if idx < 0 {
		return ents
	}
	for _, e := range ents {
		if e.Type == TypeOrganization && strings.EqualFold(strings.TrimSpace(e.Text), ctx) {
			return ents
		}
	}
	return append(ents, Entity{
		Text:       text[idx : idx+len(ctx)],
		Type:       TypeOrganization,
		Start:      idx,
		End:        idx + len(ctx),
		Confidence: contextConfidence,
	})
}
