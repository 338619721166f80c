package store

import (
	"context"
	"time"

	"github.com/cognicore/pulse/pkg/pulse/entities"
	"github.com/cognicore/pulse/pkg/pulse/model"
	"github.com/cognicore/pulse/pkg/pulse/pipeline"
	"github.com/cognicore/pulse/pkg/pulse/topics"
)

// Store is the main interface for persisting and querying Pulse data
type Store interface {
	Close() error

	// Companies, keyed by case-insensitive name
	CreateCompany(ctx context.Context, c model.Company) error
	UpdateCompany(ctx context.Context, c model.Company) error
	GetCompany(ctx context.Context, name string) (model.Company, error)
	ListCompanies(ctx context.Context) ([]model.Company, error)
	DeleteCompany(ctx context.Context, name string) error

	// Collections
	PutCollection(ctx context.Context, c model.Collection) error
	GetCollection(ctx context.Context, id string) (model.Collection, error)
	LatestCollection(ctx context.Context, companyName string) (model.Collection, error)
	ListCollections(ctx context.Context, companyName string) ([]model.CollectionMeta, error)

	// Analysis summaries
	PutSummary(ctx context.Context, s Summary) error
	GetSummary(ctx context.Context, id string) (Summary, error)
	LatestSummary(ctx context.Context, companyName string) (Summary, error)

	// Analysis jobs
	PutJob(ctx context.Context, j Job) error
	GetJob(ctx context.Context, id string) (Job, error)
	ListJobs(ctx context.Context, companyName string) ([]Job, error)
	DeleteJobsBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// Summary is a stored company analysis result.
type Summary struct {
	SummaryID        string              `json:"summary_id"`
	CompanyName      string              `json:"company_name"`
	CollectionID     string              `json:"collection_id"`
	GeneratedAt      time.Time           `json:"generated_at"`
	PostsAnalyzed    int                 `json:"posts_analyzed"`
	SentimentCounts  map[string]int      `json:"sentiment_distribution"`
	AverageScore     float64             `json:"average_sentiment_score"`
	SentimentTrend   string              `json:"sentiment_trend"`
	TopTopics        []topics.Topic      `json:"top_topics"`
	KeyEntities      []entities.Entity   `json:"key_entities"`
	EntityTypeCounts map[string]int      `json:"entity_type_counts"`
	Processing       map[string]any      `json:"processing_summary"`
	Analyses         []pipeline.Analysis `json:"post_analyses,omitempty"`
}

// JobStatus is the lifecycle state of an analysis job.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Job tracks one asynchronous company analysis.
type Job struct {
	JobID       string    `json:"job_id"`
	CompanyName string    `json:"company_name"`
	Status      JobStatus `json:"status"`
	SummaryID   string    `json:"summary_id,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
