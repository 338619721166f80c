package pulse

import (
	"context"
	"crypto/rand"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/pulse/internal/collector"
	"github.com/cognicore/pulse/pkg/pulse/entities"
	"github.com/cognicore/pulse/pkg/pulse/model"
	"github.com/cognicore/pulse/pkg/pulse/pipeline"
	"github.com/cognicore/pulse/pkg/pulse/sentiment"
	"github.com/cognicore/pulse/pkg/pulse/store"
	"github.com/cognicore/pulse/pkg/pulse/topics"
)

// Engine is the main analysis facade: it turns a registered company into a
// stored sentiment summary by collecting posts and running them through the
// analysis pipeline.
type Engine struct {
	store     store.Store
	collector collector.Collector
	pipeline  *pipeline.Pipeline
	entropy   *ulid.MonotonicEntropy
}

// Options configures an Engine instance
type Options struct {
	Store     store.Store
	Collector collector.Collector
	Pipeline  *pipeline.Pipeline
}

// New creates an Engine with the given dependencies. A nil pipeline gets the
// default configuration.
func New(opts Options) *Engine {
	p := opts.Pipeline
	if p == nil {
		p = pipeline.New(pipeline.DefaultConfig())
	}
	return &Engine{
		store:     opts.Store,
		collector: opts.Collector,
		pipeline:  p,
		entropy:   ulid.Monotonic(rand.Reader, 0),
	}
}

// Close cleanly shuts down the engine.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Pipeline exposes the underlying analysis pipeline.
func (e *Engine) Pipeline() *pipeline.Pipeline { return e.pipeline }

// AnalyzeCompany collects fresh posts for a registered company, analyzes
// them, and stores the resulting summary. The returned summary includes the
// per-post analyses.
func (e *Engine) AnalyzeCompany(ctx context.Context, companyName string) (store.Summary, error) {
	company, err := e.store.GetCompany(ctx, companyName)
	if err != nil {
		return store.Summary{}, err
	}

	coll, err := e.collector.Collect(ctx, company)
	if err != nil {
		return store.Summary{}, err
	}
	if err := e.store.PutCollection(ctx, coll); err != nil {
		return store.Summary{}, err
	}

	return e.analyzeCollection(ctx, company, coll)
}

// AnalyzeLatest analyzes the most recent stored collection for a company
// without collecting new posts.
func (e *Engine) AnalyzeLatest(ctx context.Context, companyName string) (store.Summary, error) {
	company, err := e.store.GetCompany(ctx, companyName)
	if err != nil {
		return store.Summary{}, err
	}
	coll, err := e.store.LatestCollection(ctx, company.Profile.Name)
	if err != nil {
		return store.Summary{}, err
	}
	return e.analyzeCollection(ctx, company, coll)
}

func (e *Engine) analyzeCollection(ctx context.Context, company model.Company, coll model.Collection) (store.Summary, error) {
	analyses := e.pipeline.ProcessBatch(ctx, coll.Posts, company.Profile.Name)

	summary := e.summarize(company, coll, analyses)
	if err := e.store.PutSummary(ctx, summary); err != nil {
		return store.Summary{}, err
	}
	return summary, nil
}

// Sentiment trend wording thresholds over the positive/negative share.
const (
	stronglyPositiveShare = 0.6
	negativeConcernShare  = 0.4
	leanPositiveShare     = 0.4
)

func (e *Engine) summarize(company model.Company, coll model.Collection, analyses []pipeline.Analysis) store.Summary {
	now := time.Now().UTC()
	summary := store.Summary{
		SummaryID:        ulid.MustNew(ulid.Timestamp(now), e.entropy).String(),
		CompanyName:      company.Profile.Name,
		CollectionID:     coll.Meta.CollectionID,
		GeneratedAt:      now,
		PostsAnalyzed:    len(analyses),
		SentimentCounts:  map[string]int{"positive": 0, "neutral": 0, "negative": 0},
		EntityTypeCounts: make(map[string]int),
		Processing:       e.pipeline.ProcessingStats(),
		Analyses:         analyses,
	}

	var scoreSum float64
	var scored int
	for _, a := range analyses {
		if a.Sentiment == nil {
			continue
		}
		summary.SentimentCounts[string(a.Sentiment.Label)]++
		scoreSum += a.Sentiment.Score
		scored++
	}
	if scored > 0 {
		summary.AverageScore = scoreSum / float64(scored)
	}
	summary.SentimentTrend = trendWording(summary.SentimentCounts, scored)

	summary.TopTopics = topTopics(analyses, 5)
	summary.KeyEntities = keyEntities(analyses, 10)
	for _, a := range analyses {
		for _, ent := range a.Entities {
			summary.EntityTypeCounts[ent.Type]++
		}
	}
	return summary
}

func trendWording(counts map[string]int, scored int) string {
	if scored == 0 {
		return "Neutral sentiment overall"
	}
	positive := float64(counts[string(sentiment.LabelPositive)]) / float64(scored)
	negative := float64(counts[string(sentiment.LabelNegative)]) / float64(scored)
	switch {
	case positive > stronglyPositiveShare:
		return "Predominantly positive sentiment"
	case negative > negativeConcernShare:
		return "Mixed sentiment with negative concerns"
	case positive > leanPositiveShare:
		return "Generally positive sentiment"
	default:
		return "Neutral sentiment overall"
	}
}

// topTopics returns the batch topics by descending relevance. All analyses
// in a batch share one topic list, so the first non-empty list suffices.
func topTopics(analyses []pipeline.Analysis, max int) []topics.Topic {
	for _, a := range analyses {
		if len(a.Topics) == 0 {
			continue
		}
		out := append([]topics.Topic(nil), a.Topics...)
		sort.SliceStable(out, func(i, j int) bool { return out[i].Relevance > out[j].Relevance })
		if len(out) > max {
			out = out[:max]
		}
		return out
	}
	return nil
}

// keyEntities returns the highest-confidence distinct entity mentions.
func keyEntities(analyses []pipeline.Analysis, max int) []entities.Entity {
	best := make(map[string]entities.Entity)
	for _, a := range analyses {
		for _, ent := range a.Entities {
			key := ent.Type + "\x00" + ent.Text
			if prev, ok := best[key]; !ok || ent.Confidence > prev.Confidence {
				best[key] = ent
			}
		}
	}

	out := make([]entities.Entity, 0, len(best))
	for _, ent := range best {
		out = append(out, ent)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Text < out[j].Text
	})
	if len(out) > max {
		out = out[:max]
	}
	return out
}
