// Package collection runs data collection asynchronously and tracks the
// progress of every run.
package collection

import (
	"context"
	"crypto/rand"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/pulse/internal/collector"
	"github.com/cognicore/pulse/pkg/pulse/internalerr"
	"github.com/cognicore/pulse/pkg/pulse/store"
)

// Status is the lifecycle state of a collection run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// terminal statuses never change again.
func (s Status) terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Progress is a snapshot of one collection run.
type Progress struct {
	RunID          string    `json:"run_id"`
	CompanyName    string    `json:"company_name"`
	Status         Status    `json:"status"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at,omitempty"`
	PostsCollected int       `json:"posts_collected"`
	CollectionID   string    `json:"collection_id,omitempty"`
	Error          string    `json:"error,omitempty"`
}

type run struct {
	progress Progress
	cancel   context.CancelFunc
}

// Service starts and tracks collection runs.
type Service struct {
	mu      sync.RWMutex
	runs    map[string]*run
	entropy *ulid.MonotonicEntropy

	collector collector.Collector
	store     store.Store
}

// NewService wires a collector to the store.
func NewService(c collector.Collector, st store.Store) *Service {
	return &Service{
		runs:      make(map[string]*run),
		entropy:   ulid.Monotonic(rand.Reader, 0),
		collector: c,
		store:     st,
	}
}

// Start begins collecting for a registered company and returns the run ID.
// The run proceeds in the background; progress is available via Get.
func (s *Service) Start(ctx context.Context, companyName string) (string, error) {
	company, err := s.store.GetCompany(ctx, companyName)
	if err != nil {
		return "", err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	id := ulid.MustNew(ulid.Now(), s.entropy).String()

	s.mu.Lock()
	s.runs[id] = &run{
		progress: Progress{
			RunID:       id,
			CompanyName: company.Profile.Name,
			Status:      StatusPending,
			StartedAt:   time.Now().UTC(),
		},
		cancel: cancel,
	}
	s.mu.Unlock()

	go func() {
		defer cancel()
		s.setStatus(id, StatusRunning, func(*Progress) {})

		coll, err := s.collector.Collect(runCtx, company)
		if err != nil {
			status := StatusFailed
			if runCtx.Err() != nil {
				status = StatusCancelled
			}
			s.setStatus(id, status, func(p *Progress) { p.Error = err.Error() })
			return
		}
		if err := s.store.PutCollection(runCtx, coll); err != nil {
			s.setStatus(id, StatusFailed, func(p *Progress) { p.Error = err.Error() })
			return
		}
		s.setStatus(id, StatusCompleted, func(p *Progress) {
			p.PostsCollected = len(coll.Posts)
			p.CollectionID = coll.Meta.CollectionID
		})
	}()

	return id, nil
}

// setStatus applies a transition unless the run already reached a terminal
// state.
func (s *Service) setStatus(id string, status Status, apply func(*Progress)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[id]
	if !ok || r.progress.Status.terminal() {
		return
	}
	r.progress.Status = status
	if status.terminal() {
		r.progress.CompletedAt = time.Now().UTC()
	}
	apply(&r.progress)
}

// Get returns the progress snapshot for a run.
func (s *Service) Get(runID string) (Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[runID]
	if !ok {
		return Progress{}, internalerr.ErrNotFound
	}
	return r.progress, nil
}

// List returns all tracked runs, newest first.
func (s *Service) List() []Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Progress, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, r.progress)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out
}

// Cancel stops an active run. Cancelling a finished run is an error.
func (s *Service) Cancel(runID string) error {
	s.mu.Lock()
	r, ok := s.runs[runID]
	if !ok {
		s.mu.Unlock()
		return internalerr.ErrNotFound
	}
	if r.progress.Status.terminal() {
		s.mu.Unlock()
		return internalerr.ErrJobNotActive
	}
	cancel := r.cancel
	s.mu.Unlock()

	cancel()
	s.setStatus(runID, StatusCancelled, func(*Progress) {})
	return nil
}

// PruneBefore drops finished runs started before the cutoff and returns how
// many were removed. Active runs are never pruned.
func (s *Service) PruneBefore(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, r := range s.runs {
		if r.progress.Status.terminal() && r.progress.StartedAt.Before(cutoff) {
			delete(s.runs, id)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("collection: pruned %d finished runs", removed)
	}
	return removed
}
