package pipeline

import (
	"sort"
	"sync"
	"time"
)

// ProcessingError is one recorded failure with its surrounding context.
type ProcessingError struct {
	Message   string    `json:"message"`
	Context   string    `json:"context"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats holds processing counters for one batch; the pipeline resets it at
// the start of every batch. Safe for concurrent
// use; batch workers report outcomes over channels and the coordinating
// goroutine applies them here.
type Stats struct {
	mu sync.Mutex

	totalTexts          int
	successfulSentiment int
	successfulTopics    int
	successfulEntities  int
	totalDuration       time.Duration

	methodsSentiment map[string]struct{}
	methodsTopics    map[string]struct{}
	methodsNER       map[string]struct{}

	errors []ProcessingError
}

// NewStats returns an empty counter set.
func NewStats() *Stats {
	return &Stats{}
}

// batchOutcome is what one processed batch contributes to the counters.
type batchOutcome struct {
	texts      int
	sentiments int
	topics     int
	entities   int
	duration   time.Duration
}

func (s *Stats) recordBatch(o batchOutcome, methodSentiment, methodTopics, methodNER string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalTexts += o.texts
	s.successfulSentiment += o.sentiments
	s.successfulTopics += o.topics
	s.successfulEntities += o.entities
	s.totalDuration += o.duration
	s.methodsSentiment = addMethod(s.methodsSentiment, methodSentiment)
	s.methodsTopics = addMethod(s.methodsTopics, methodTopics)
	s.methodsNER = addMethod(s.methodsNER, methodNER)
}

func addMethod(set map[string]struct{}, method string) map[string]struct{} {
	if method == "" {
		return set
	}
	if set == nil {
		set = make(map[string]struct{})
	}
	set[method] = struct{}{}
	return set
}

func methodList(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// RecordError appends a failure. Only the most recent 100 are kept.
func (s *Stats) RecordError(message, context string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, ProcessingError{
		Message:   message,
		Context:   context,
		Timestamp: time.Now().UTC(),
	})
	if len(s.errors) > 100 {
		s.errors = s.errors[len(s.errors)-100:]
	}
}

// Reset zeroes every counter.
func (s *Stats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalTexts = 0
	s.successfulSentiment = 0
	s.successfulTopics = 0
	s.successfulEntities = 0
	s.totalDuration = 0
	s.methodsSentiment = nil
	s.methodsTopics = nil
	s.methodsNER = nil
	s.errors = nil
}

// Errors returns a copy of the recorded failures, oldest first.
func (s *Stats) Errors() []ProcessingError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ProcessingError(nil), s.errors...)
}

// Summary reports the counters in one map, rates included.
func (s *Stats) Summary() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	rate := func(n int) float64 {
		if s.totalTexts == 0 {
			return 0
		}
		return float64(n) / float64(s.totalTexts)
	}
	var avgMs float64
	if s.totalTexts > 0 {
		avgMs = float64(s.totalDuration.Milliseconds()) / float64(s.totalTexts)
	}

	return map[string]any{
		"total_texts":          s.totalTexts,
		"successful_sentiment": s.successfulSentiment,
		"successful_topics":    s.successfulTopics,
		"successful_entities":  s.successfulEntities,
		"success_rates": map[string]float64{
			"sentiment": rate(s.successfulSentiment),
			"topics":    rate(s.successfulTopics),
			"entities":  rate(s.successfulEntities),
		},
		"total_processing_time_ms":   float64(s.totalDuration.Milliseconds()),
		"average_processing_time_ms": avgMs,
		"error_count":                len(s.errors),
		"methods_used": map[string][]string{
			"sentiment": methodList(s.methodsSentiment),
			"topics":    methodList(s.methodsTopics),
			"ner":       methodList(s.methodsNER),
		},
	}
}
