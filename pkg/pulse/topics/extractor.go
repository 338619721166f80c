package topics

import (
	"sort"
	"strings"
	"unicode"
)

// Method selects a topic extraction strategy.
type Method int

const (
	// MethodUnspecified lets the extractor pick the richest available method.
	MethodUnspecified Method = iota
	// MethodFrequency groups stop-filtered keyword frequencies. Always available.
	MethodFrequency
	// MethodTFIDF clusters a weighted term-document matrix.
	MethodTFIDF
)

func (m Method) String() string {
	switch m {
	case MethodFrequency:
		return "keyword_frequency"
	case MethodTFIDF:
		return "tfidf_clustering"
	default:
		return "unspecified"
	}
}

// Topic is one extracted theme over a batch of texts.
type Topic struct {
	Name       string   `json:"topic_name"`
	Keywords   []string `json:"keywords"`
	Relevance  float64  `json:"relevance_score"`
	Confidence float64  `json:"confidence"`
	Method     Method   `json:"-"`
}

// Options configures an Extractor. Zero values take the documented defaults.
type Options struct {
	MaxFeatures int     // vocabulary cap for the term-document matrix (default 1000)
	MinDocFreq  int     // minimum document frequency for a term (default 2)
	MaxDocFreq  float64 // maximum document frequency fraction (default 0.8)
	NTopics     int     // maximum topics returned (default 5)
	Seed        int64   // clustering seed (default 42)

	// ExtraStopwords extends the built-in general + platform noise lists.
	ExtraStopwords []string

	// DisableVectorizer drops the matrix/clustering capability, forcing the
	// frequency fallback. Mirrors running without the richer backend.
	DisableVectorizer bool
}

// Extractor derives topics from collections of short texts.
type Extractor struct {
	maxFeatures int
	minDocFreq  int
	maxDocFreq  float64
	nTopics     int
	seed        int64
	stopwords   map[string]struct{}
	vectorizer  bool
}

// New creates an extractor. The vectorizing method is available unless
// explicitly disabled; the frequency fallback always is.
func New(opts Options) *Extractor {
	if opts.MaxFeatures <= 0 {
		opts.MaxFeatures = 1000
	}
	if opts.MinDocFreq <= 0 {
		opts.MinDocFreq = 2
	}
	if opts.MaxDocFreq <= 0 || opts.MaxDocFreq > 1 {
		opts.MaxDocFreq = 0.8
	}
	if opts.NTopics <= 0 {
		opts.NTopics = 5
	}
	if opts.Seed == 0 {
		opts.Seed = 42
	}

	stops := make(map[string]struct{}, len(generalStopwords)+len(platformStopwords)+len(opts.ExtraStopwords))
	for _, w := range generalStopwords {
		stops[w] = struct{}{}
	}
	for _, w := range platformStopwords {
		stops[w] = struct{}{}
	}
	for _, w := range opts.ExtraStopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}

	return &Extractor{
		maxFeatures: opts.MaxFeatures,
		minDocFreq:  opts.MinDocFreq,
		maxDocFreq:  opts.MaxDocFreq,
		nTopics:     opts.NTopics,
		seed:        opts.Seed,
		stopwords:   stops,
		vectorizer:  !opts.DisableVectorizer,
	}
}

// NTopics returns the configured topic cap.
func (e *Extractor) NTopics() int { return e.nTopics }

// SetNTopics adjusts the topic cap for subsequent extractions.
func (e *Extractor) SetNTopics(n int) {
	if n > 0 {
		e.nTopics = n
	}
}

// ExtractTopics derives up to NTopics topics from the given texts, most
// relevant first. It never fails; an empty slice means nothing was found.
func (e *Extractor) ExtractTopics(texts []string, method Method) []Topic {
	valid := texts[:0:0]
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			valid = append(valid, t)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	if method == MethodUnspecified {
		if e.vectorizer {
			method = MethodTFIDF
		} else {
			method = MethodFrequency
		}
	}

	var out []Topic
	if method == MethodTFIDF && e.vectorizer {
		out = e.extractWithTFIDF(valid)
	}
	// The frequency method is the unconditional fallback.
	if len(out) == 0 {
		out = e.extractWithFrequency(valid)
	}

	if len(out) > e.nTopics {
		out = out[:e.nTopics]
	}
	return out
}

// ExtractKeywords returns the top keywords across all texts by how many
// texts feature them, independent of topic clustering.
func (e *Extractor) ExtractKeywords(texts []string, maxKeywords int) []string {
	if len(texts) == 0 || maxKeywords <= 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, text := range texts {
		for _, kw := range e.textKeywords(text, 50) {
			counts[kw]++
		}
	}
	return topKeys(counts, maxKeywords)
}

// AvailableMethods reports the extraction methods this instance supports.
func (e *Extractor) AvailableMethods() []Method {
	methods := []Method{MethodFrequency}
	if e.vectorizer {
		methods = append(methods, MethodTFIDF)
	}
	return methods
}

// topicName builds a display name from up to three keywords.
func topicName(keywords []string) string {
	if len(keywords) == 0 {
		return "General Topic"
	}
	top := keywords
	if len(top) > 3 {
		top = top[:3]
	}
	caps := make([]string, len(top))
	for i, kw := range top {
		caps[i] = capitalize(kw)
	}
	switch len(caps) {
	case 1:
		return caps[0] + " Discussion"
	case 2:
		return caps[0] + " & " + caps[1]
	default:
		return caps[0] + ", " + caps[1] + " & " + caps[2]
	}
}

// capitalize uppercases the first rune and lowercases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// topKeys returns up to n keys ordered by descending count, ties broken
// alphabetically so results are stable across runs.
func topKeys(counts map[string]int, n int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
