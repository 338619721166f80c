// Package pipeline orchestrates sentiment, topic, and entity analysis over
// batches of collected posts. Posts are gated by language, analyzed per-post
// in parallel when the batch is large enough, and topics are extracted once
// over the whole batch since they only make sense across texts.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cognicore/pulse/pkg/pulse/entities"
	"github.com/cognicore/pulse/pkg/pulse/model"
	"github.com/cognicore/pulse/pkg/pulse/sentiment"
	"github.com/cognicore/pulse/pkg/pulse/topics"
)

// Analysis is the full result for one post.
type Analysis struct {
	PostID      string            `json:"post_id"`
	Text        string            `json:"text"`
	Language    string            `json:"language"`
	Sentiment   *sentiment.Result `json:"sentiment,omitempty"`
	Topics      []topics.Topic    `json:"topics,omitempty"`
	Entities    []entities.Entity `json:"entities,omitempty"`
	ProcessedAt time.Time         `json:"processed_at"`
	Duration    time.Duration     `json:"-"`
}

// Pipeline runs every analysis component over post batches. Safe for
// concurrent use.
type Pipeline struct {
	mu  sync.RWMutex
	cfg Config

	sentiment *sentiment.Analyzer
	topics    *topics.Extractor
	entities  *entities.Recognizer
	stats     *Stats
}

// New builds a pipeline. Components that fail to initialize degrade rather
// than error, so construction always succeeds.
func New(cfg Config) *Pipeline {
	cfg = cfg.withDefaults()
	return &Pipeline{
		cfg:       cfg,
		sentiment: sentiment.New(cfg.SentimentMethod),
		topics: topics.New(topics.Options{
			NTopics:        cfg.MaxTopicsPerText,
			ExtraStopwords: cfg.ExtraStopwords,
		}),
		entities: entities.New(entities.Options{ExtraCompanies: cfg.KnownCompanies}),
		stats:    NewStats(),
	}
}

// Config returns a snapshot of the active configuration.
func (p *Pipeline) Config() Config {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg
}

// UpdateConfig replaces the configuration for subsequent batches.
func (p *Pipeline) UpdateConfig(cfg Config) {
	cfg = cfg.withDefaults()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg = cfg
	p.topics.SetNTopics(cfg.MaxTopicsPerText)
}

// Stats exposes the counters for the most recent batch.
func (p *Pipeline) Stats() *Stats { return p.stats }

// ProcessingStats reports the most recent batch's counters as a summary map.
func (p *Pipeline) ProcessingStats() map[string]any { return p.stats.Summary() }

// ProcessBatch analyzes a batch of posts about one organization.
// companyContext names that organization for entity recovery. Invalid or
// unsupported-language posts are skipped; the result holds one analysis per
// post that made it through, in input order. ProcessBatch never fails.
func (p *Pipeline) ProcessBatch(ctx context.Context, posts []model.Post, companyContext string) []Analysis {
	cfg := p.Config()
	start := time.Now()
	p.stats.Reset()

	eligible := p.gate(cfg, posts)
	if len(eligible) == 0 {
		return []Analysis{}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	var results []*Analysis
	if !cfg.DisableParallel && len(eligible) > 2 {
		results = p.runParallel(ctx, cfg, eligible, companyContext)
	} else {
		results = p.runSequential(ctx, cfg, eligible, companyContext)
	}

	analyses := make([]Analysis, 0, len(results))
	for _, r := range results {
		if r != nil {
			analyses = append(analyses, *r)
		}
	}

	batchTopics := p.batchTopics(cfg, analyses)
	for i := range analyses {
		analyses[i].Topics = batchTopics
	}

	p.record(cfg, analyses, batchTopics, time.Since(start))
	return analyses
}

// gate validates posts and applies the language filter. Returned posts carry
// the resolved language in their Language field.
func (p *Pipeline) gate(cfg Config, posts []model.Post) []model.Post {
	var eligible []model.Post
	for _, post := range posts {
		if err := post.Validate(); err != nil {
			p.stats.RecordError(fmt.Sprintf("invalid post: %v", err), post.PostID)
			continue
		}
		lang := post.Language
		if !cfg.DisableLanguageDetection {
			lang = detectLanguage(post.Content)
		}
		if !cfg.languageSupported(lang) {
			log.Printf("pipeline: skipping post %s, unsupported language %q", post.PostID, lang)
			continue
		}
		post.Language = lang
		eligible = append(eligible, post)
	}
	return eligible
}

func (p *Pipeline) runSequential(ctx context.Context, cfg Config, posts []model.Post, companyContext string) []*Analysis {
	results := make([]*Analysis, len(posts))
	for i, post := range posts {
		if ctx.Err() != nil {
			p.recordTimeout(len(posts) - i, len(posts))
			break
		}
		results[i] = p.analyzePost(cfg, post, companyContext)
	}
	return results
}

type indexedAnalysis struct {
	index    int
	analysis *Analysis
}

// runParallel fans posts out over a bounded worker pool. Workers only send
// outcomes back over a channel; the collecting goroutine owns all shared
// state. A batch timeout abandons whatever has not finished.
func (p *Pipeline) runParallel(ctx context.Context, cfg Config, posts []model.Post, companyContext string) []*Analysis {
	workers := cfg.MaxWorkers
	if workers > len(posts) {
		workers = len(posts)
	}

	jobs := make(chan int)
	out := make(chan indexedAnalysis, len(posts))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out <- indexedAnalysis{index: i, analysis: p.analyzePost(cfg, posts[i], companyContext)}
			}
		}()
	}
	go func() {
		defer close(jobs)
		for i := range posts {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(out)
	}()

	results := make([]*Analysis, len(posts))
	collected := 0
	for collected < len(posts) {
		select {
		case r, ok := <-out:
			if !ok {
				return results
			}
			results[r.index] = r.analysis
			collected++
		case <-ctx.Done():
			p.recordTimeout(len(posts)-collected, len(posts))
			return results
		}
	}
	return results
}

func (p *Pipeline) recordTimeout(abandoned, total int) {
	p.stats.RecordError("batch deadline exceeded",
		fmt.Sprintf("abandoned %d of %d posts", abandoned, total))
}

// analyzePost runs the per-post components. Topics are attached later by the
// batch step. It never fails; missing capabilities leave fields empty.
func (p *Pipeline) analyzePost(cfg Config, post model.Post, companyContext string) *Analysis {
	start := time.Now()
	a := &Analysis{
		PostID:      post.PostID,
		Text:        post.Content,
		Language:    post.Language,
		ProcessedAt: start.UTC(),
	}

	a.Sentiment = p.sentiment.AnalyzeText(post.Content, cfg.SentimentMethod)

	ents := p.entities.Extract(post.Content, cfg.EntityMethod, companyContext)
	if len(ents) > cfg.MaxEntitiesPerText {
		ents = ents[:cfg.MaxEntitiesPerText]
	}
	a.Entities = ents

	a.Duration = time.Since(start)
	return a
}

// batchTopics extracts topics once over the whole batch. Every analysis gets
// the identical topic list, topics below the text threshold get none.
func (p *Pipeline) batchTopics(cfg Config, analyses []Analysis) []topics.Topic {
	if len(analyses) < cfg.MinTextsForTopics {
		return nil
	}
	texts := make([]string, len(analyses))
	for i, a := range analyses {
		texts[i] = a.Text
	}
	found := p.topics.ExtractTopics(texts, cfg.TopicMethod)
	if len(found) > cfg.MaxTopicsPerText {
		found = found[:cfg.MaxTopicsPerText]
	}
	return found
}

func (p *Pipeline) record(cfg Config, analyses []Analysis, batchTopics []topics.Topic, elapsed time.Duration) {
	var o batchOutcome
	o.texts = len(analyses)
	o.duration = elapsed
	for _, a := range analyses {
		if a.Sentiment != nil {
			o.sentiments++
		}
		if len(a.Entities) > 0 {
			o.entities++
		}
	}
	if len(batchTopics) > 0 {
		o.topics = len(analyses)
	}

	p.stats.recordBatch(o,
		p.resolvedSentimentMethod(cfg).String(),
		p.resolvedTopicMethod(cfg, batchTopics).String(),
		p.entities.ResolveMethod(cfg.EntityMethod).String(),
	)
}

func (p *Pipeline) resolvedSentimentMethod(cfg Config) sentiment.Method {
	if cfg.SentimentMethod == sentiment.MethodUnspecified {
		return sentiment.MethodEnsemble
	}
	return cfg.SentimentMethod
}

func (p *Pipeline) resolvedTopicMethod(cfg Config, batchTopics []topics.Topic) topics.Method {
	if len(batchTopics) > 0 {
		return batchTopics[0].Method
	}
	if cfg.TopicMethod != topics.MethodUnspecified {
		return cfg.TopicMethod
	}
	methods := p.topics.AvailableMethods()
	return methods[len(methods)-1]
}

// ComponentStatus reports which methods each component currently offers.
func (p *Pipeline) ComponentStatus() map[string]any {
	cfg := p.Config()

	sentimentMethods := make([]string, 0, 3)
	for _, m := range p.sentiment.AvailableMethods() {
		sentimentMethods = append(sentimentMethods, m.String())
	}
	topicMethods := make([]string, 0, 2)
	for _, m := range p.topics.AvailableMethods() {
		topicMethods = append(topicMethods, m.String())
	}
	entityMethods := make([]string, 0, 3)
	for _, m := range p.entities.AvailableMethods() {
		entityMethods = append(entityMethods, m.String())
	}

	return map[string]any{
		"sentiment_methods":   sentimentMethods,
		"topic_methods":       topicMethods,
		"entity_methods":      entityMethods,
		"parallel_enabled":    !cfg.DisableParallel,
		"max_workers":         cfg.MaxWorkers,
		"language_detection":  !cfg.DisableLanguageDetection,
		"supported_languages": cfg.SupportedLanguages,
	}
}
