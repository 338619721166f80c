// Package memstore provides an in-memory Store implementation. All reads
// return defensive copies so callers can never mutate stored state.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cognicore/pulse/pkg/pulse/internalerr"
	"github.com/cognicore/pulse/pkg/pulse/model"
	"github.com/cognicore/pulse/pkg/pulse/store"
)

// MemStore is an in-memory implementation of store.Store
type MemStore struct {
	mu sync.RWMutex

	companies   map[string]model.Company    // key: lowercase name
	collections map[string]model.Collection // key: collection ID
	summaries   map[string]store.Summary    // key: summary ID
	jobs        map[string]store.Job        // key: job ID
}

// New creates a new in-memory store
func New() *MemStore {
	return &MemStore{
		companies:   make(map[string]model.Company),
		collections: make(map[string]model.Collection),
		summaries:   make(map[string]store.Summary),
		jobs:        make(map[string]store.Job),
	}
}

// Close is a no-op for the in-memory store
func (m *MemStore) Close() error { return nil }

func companyKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CreateCompany stores a new company, rejecting duplicates.
func (m *MemStore) CreateCompany(_ context.Context, c model.Company) error {
	key := companyKey(c.Profile.Name)
	if key == "" {
		return internalerr.ErrInvalidInput
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.companies[key]; exists {
		return internalerr.ErrDuplicate
	}
	m.companies[key] = copyCompany(c)
	return nil
}

// UpdateCompany replaces an existing company.
func (m *MemStore) UpdateCompany(_ context.Context, c model.Company) error {
	key := companyKey(c.Profile.Name)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.companies[key]; !exists {
		return internalerr.ErrNotFound
	}
	m.companies[key] = copyCompany(c)
	return nil
}

// GetCompany retrieves a company by name, case-insensitive.
func (m *MemStore) GetCompany(_ context.Context, name string) (model.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.companies[companyKey(name)]
	if !ok {
		return model.Company{}, internalerr.ErrNotFound
	}
	return copyCompany(c), nil
}

// ListCompanies returns all companies ordered by name.
func (m *MemStore) ListCompanies(_ context.Context) ([]model.Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Company, 0, len(m.companies))
	for _, c := range m.companies {
		out = append(out, copyCompany(c))
	}
	sort.Slice(out, func(i, j int) bool {
		return companyKey(out[i].Profile.Name) < companyKey(out[j].Profile.Name)
	})
	return out, nil
}

// DeleteCompany removes a company by name.
func (m *MemStore) DeleteCompany(_ context.Context, name string) error {
	key := companyKey(name)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.companies[key]; !exists {
		return internalerr.ErrNotFound
	}
	delete(m.companies, key)
	return nil
}

// PutCollection stores a collection by its ID.
func (m *MemStore) PutCollection(_ context.Context, c model.Collection) error {
	if c.Meta.CollectionID == "" {
		return internalerr.ErrInvalidInput
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[c.Meta.CollectionID] = copyCollection(c)
	return nil
}

// GetCollection retrieves a collection by ID.
func (m *MemStore) GetCollection(_ context.Context, id string) (model.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.collections[id]
	if !ok {
		return model.Collection{}, internalerr.ErrNotFound
	}
	return copyCollection(c), nil
}

// LatestCollection returns the most recently started collection for a company.
func (m *MemStore) LatestCollection(_ context.Context, companyName string) (model.Collection, error) {
	key := companyKey(companyName)
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *model.Collection
	for id := range m.collections {
		c := m.collections[id]
		if companyKey(c.Meta.CompanyName) != key {
			continue
		}
		if latest == nil || c.Meta.StartedAt.After(latest.Meta.StartedAt) {
			latest = &c
		}
	}
	if latest == nil {
		return model.Collection{}, internalerr.ErrNotFound
	}
	return copyCollection(*latest), nil
}

// ListCollections returns collection metadata for a company, newest first.
func (m *MemStore) ListCollections(_ context.Context, companyName string) ([]model.CollectionMeta, error) {
	key := companyKey(companyName)
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.CollectionMeta
	for _, c := range m.collections {
		if companyKey(c.Meta.CompanyName) == key {
			out = append(out, copyMeta(c.Meta))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

// PutSummary stores an analysis summary by its ID.
func (m *MemStore) PutSummary(_ context.Context, s store.Summary) error {
	if s.SummaryID == "" {
		return internalerr.ErrInvalidInput
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries[s.SummaryID] = copySummary(s)
	return nil
}

// GetSummary retrieves a summary by ID.
func (m *MemStore) GetSummary(_ context.Context, id string) (store.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.summaries[id]
	if !ok {
		return store.Summary{}, internalerr.ErrNotFound
	}
	return copySummary(s), nil
}

// LatestSummary returns the most recently generated summary for a company.
func (m *MemStore) LatestSummary(_ context.Context, companyName string) (store.Summary, error) {
	key := companyKey(companyName)
	m.mu.RLock()
	defer m.mu.RUnlock()

	var latest *store.Summary
	for id := range m.summaries {
		s := m.summaries[id]
		if companyKey(s.CompanyName) != key {
			continue
		}
		if latest == nil || s.GeneratedAt.After(latest.GeneratedAt) {
			latest = &s
		}
	}
	if latest == nil {
		return store.Summary{}, internalerr.ErrNotFound
	}
	return copySummary(*latest), nil
}

// PutJob stores a job by its ID.
func (m *MemStore) PutJob(_ context.Context, j store.Job) error {
	if j.JobID == "" {
		return internalerr.ErrInvalidInput
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[j.JobID] = j
	return nil
}

// GetJob retrieves a job by ID.
func (m *MemStore) GetJob(_ context.Context, id string) (store.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[id]
	if !ok {
		return store.Job{}, internalerr.ErrNotFound
	}
	return j, nil
}

// ListJobs returns jobs for a company, newest first.
func (m *MemStore) ListJobs(_ context.Context, companyName string) ([]store.Job, error) {
	key := companyKey(companyName)
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []store.Job
	for _, j := range m.jobs {
		if companyKey(j.CompanyName) == key {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// DeleteJobsBefore removes jobs created before the cutoff, returning how
// many were removed.
func (m *MemStore) DeleteJobsBefore(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, j := range m.jobs {
		if j.CreatedAt.Before(cutoff) {
			delete(m.jobs, id)
			removed++
		}
	}
	return removed, nil
}

func copyStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

func copyCompany(c model.Company) model.Company {
	out := c
	out.Profile.Aliases = copyStrings(c.Profile.Aliases)
	out.Profile.Hashtags = copyStrings(c.Profile.Hashtags)
	out.Profile.Keywords = copyStrings(c.Profile.Keywords)
	out.Settings.Languages = copyStrings(c.Settings.Languages)
	if c.Settings.Sources != nil {
		out.Settings.Sources = append([]model.ContentSource(nil), c.Settings.Sources...)
	}
	return out
}

func copyMeta(meta model.CollectionMeta) model.CollectionMeta {
	out := meta
	if meta.Sources != nil {
		out.Sources = append([]model.ContentSource(nil), meta.Sources...)
	}
	out.Languages = copyStrings(meta.Languages)
	out.Errors = copyStrings(meta.Errors)
	if meta.PostsBySource != nil {
		out.PostsBySource = make(map[string]int, len(meta.PostsBySource))
		for k, v := range meta.PostsBySource {
			out.PostsBySource[k] = v
		}
	}
	return out
}

func copyCollection(c model.Collection) model.Collection {
	out := model.Collection{Meta: copyMeta(c.Meta)}
	if c.Posts != nil {
		out.Posts = make([]model.Post, len(c.Posts))
		for i, p := range c.Posts {
			cp := p
			cp.Hashtags = copyStrings(p.Hashtags)
			cp.Mentions = copyStrings(p.Mentions)
			out.Posts[i] = cp
		}
	}
	return out
}

func copyIntMap(in map[string]int) map[string]int {
	if in == nil {
		return nil
	}
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copySummary(s store.Summary) store.Summary {
	out := s
	out.SentimentCounts = copyIntMap(s.SentimentCounts)
	out.EntityTypeCounts = copyIntMap(s.EntityTypeCounts)
	if s.TopTopics != nil {
		out.TopTopics = append(out.TopTopics[:0:0], s.TopTopics...)
	}
	if s.KeyEntities != nil {
		out.KeyEntities = append(out.KeyEntities[:0:0], s.KeyEntities...)
	}
	if s.Processing != nil {
		out.Processing = make(map[string]any, len(s.Processing))
		for k, v := range s.Processing {
			out.Processing[k] = v
		}
	}
	if s.Analyses != nil {
		out.Analyses = append(out.Analyses[:0:0], s.Analyses...)
	}
	return out
}
