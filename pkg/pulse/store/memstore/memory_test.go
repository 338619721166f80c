package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cognicore/pulse/pkg/pulse/internalerr"
	"github.com/cognicore/pulse/pkg/pulse/model"
	"github.com/cognicore/pulse/pkg/pulse/store"
)

func testCompany(name string) model.Company {
	return model.Company{
		Profile: model.CompanyProfile{
			Name:        name,
			EmailDomain: "example.com",
			Aliases:     []string{name + " HQ"},
		},
		Settings: model.DefaultAnalysisSettings(),
	}
}

func TestCompanyCRUD(t *testing.T) {
	ctx := context.Background()
	m := New()

	if err := m.CreateCompany(ctx, testCompany("Initech")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := m.CreateCompany(ctx, testCompany("initech")); !errors.Is(err, internalerr.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for case-insensitive name, got %v", err)
	}

	got, err := m.GetCompany(ctx, "INITECH")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Profile.Name != "Initech" {
		t.Errorf("name = %q", got.Profile.Name)
	}

	got.Profile.Industry = "software"
	if err := m.UpdateCompany(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	updated, _ := m.GetCompany(ctx, "Initech")
	if updated.Profile.Industry != "software" {
		t.Errorf("update not applied: %+v", updated.Profile)
	}

	if err := m.UpdateCompany(ctx, testCompany("Absent")); !errors.Is(err, internalerr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating absent company, got %v", err)
	}

	if err := m.DeleteCompany(ctx, "Initech"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := m.GetCompany(ctx, "Initech"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestListCompaniesSorted(t *testing.T) {
	ctx := context.Background()
	m := New()
	for _, name := range []string{"Zeta", "Acme", "Mango"} {
		if err := m.CreateCompany(ctx, testCompany(name)); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	list, err := m.ListCompanies(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].Profile.Name != "Acme" || list[2].Profile.Name != "Zeta" {
		t.Errorf("unexpected order: %v", list)
	}
}

func TestDefensiveCopies(t *testing.T) {
	ctx := context.Background()
	m := New()
	if err := m.CreateCompany(ctx, testCompany("Initech")); err != nil {
		t.Fatalf("create: %v", err)
	}

	first, _ := m.GetCompany(ctx, "Initech")
	first.Profile.Aliases[0] = "mutated"

	second, _ := m.GetCompany(ctx, "Initech")
	if second.Profile.Aliases[0] == "mutated" {
		t.Error("stored company shares alias slice with caller")
	}
}

func TestCollections(t *testing.T) {
	ctx := context.Background()
	m := New()

	older := model.Collection{Meta: model.CollectionMeta{
		CollectionID: "c1",
		CompanyName:  "Initech",
		StartedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
	newer := model.Collection{Meta: model.CollectionMeta{
		CollectionID: "c2",
		CompanyName:  "Initech",
		StartedAt:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}}
	for _, c := range []model.Collection{older, newer} {
		if err := m.PutCollection(ctx, c); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	latest, err := m.LatestCollection(ctx, "initech")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.Meta.CollectionID != "c2" {
		t.Errorf("latest = %s, want c2", latest.Meta.CollectionID)
	}

	metas, err := m.ListCollections(ctx, "Initech")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(metas) != 2 || metas[0].CollectionID != "c2" {
		t.Errorf("unexpected list order: %v", metas)
	}

	if _, err := m.LatestCollection(ctx, "Absent"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := m.PutCollection(ctx, model.Collection{}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing ID, got %v", err)
	}
}

func TestSummaries(t *testing.T) {
	ctx := context.Background()
	m := New()

	older := store.Summary{
		SummaryID:   "s1",
		CompanyName: "Initech",
		GeneratedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	newer := store.Summary{
		SummaryID:       "s2",
		CompanyName:     "Initech",
		GeneratedAt:     time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		SentimentCounts: map[string]int{"positive": 3},
	}
	for _, s := range []store.Summary{older, newer} {
		if err := m.PutSummary(ctx, s); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	latest, err := m.LatestSummary(ctx, "INITECH")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.SummaryID != "s2" {
		t.Errorf("latest = %s, want s2", latest.SummaryID)
	}

	latest.SentimentCounts["positive"] = 99
	again, _ := m.GetSummary(ctx, "s2")
	if again.SentimentCounts["positive"] != 3 {
		t.Error("stored summary shares counts map with caller")
	}
}

func TestJobs(t *testing.T) {
	ctx := context.Background()
	m := New()

	old := store.Job{
		JobID:       "j1",
		CompanyName: "Initech",
		Status:      store.JobCompleted,
		CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	recent := store.Job{
		JobID:       "j2",
		CompanyName: "Initech",
		Status:      store.JobRunning,
		CreatedAt:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, j := range []store.Job{old, recent} {
		if err := m.PutJob(ctx, j); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	jobs, err := m.ListJobs(ctx, "initech")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(jobs) != 2 || jobs[0].JobID != "j2" {
		t.Errorf("unexpected job order: %v", jobs)
	}

	removed, err := m.DeleteJobsBefore(ctx, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := m.GetJob(ctx, "j1"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Fatalf("expected pruned job gone, got %v", err)
	}
	if _, err := m.GetJob(ctx, "j2"); err != nil {
		t.Fatalf("recent job should remain: %v", err)
	}
}
