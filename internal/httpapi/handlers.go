package httpapi

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"

	"github.com/cognicore/pulse/pkg/pulse/internalerr"
	"github.com/cognicore/pulse/pkg/pulse/model"
	"github.com/cognicore/pulse/pkg/pulse/store"
)

var jobEntropy = ulid.Monotonic(rand.Reader, 0)

// statusForErr maps the domain sentinels onto HTTP status codes.
func statusForErr(err error) int {
	switch {
	case errors.Is(err, internalerr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, internalerr.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, internalerr.ErrInvalidInput), errors.Is(err, internalerr.ErrInvalidConfig):
		return http.StatusBadRequest
	case errors.Is(err, internalerr.ErrNoPostsFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, internalerr.ErrJobNotActive):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortErr(c *gin.Context, err error) {
	c.JSON(statusForErr(err), gin.H{"error": err.Error()})
}

func (s *Server) createCompany(c *gin.Context) {
	var company model.Company
	if err := c.ShouldBindJSON(&company); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := company.Validate(); err != nil {
		abortErr(c, err)
		return
	}
	company.CreatedAt = time.Now().UTC()
	company.UpdatedAt = company.CreatedAt
	if err := s.store.CreateCompany(c.Request.Context(), company); err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

func (s *Server) listCompanies(c *gin.Context) {
	companies, err := s.store.ListCompanies(c.Request.Context())
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies, "count": len(companies)})
}

func (s *Server) getCompany(c *gin.Context) {
	company, err := s.store.GetCompany(c.Request.Context(), c.Param("name"))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (s *Server) updateCompany(c *gin.Context) {
	var company model.Company
	if err := c.ShouldBindJSON(&company); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	company.Profile.Name = c.Param("name")
	if err := company.Validate(); err != nil {
		abortErr(c, err)
		return
	}
	company.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateCompany(c.Request.Context(), company); err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (s *Server) deleteCompany(c *gin.Context) {
	if err := s.store.DeleteCompany(c.Request.Context(), c.Param("name")); err != nil {
		abortErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) startCollection(c *gin.Context) {
	runID, err := s.collections.Start(c.Request.Context(), c.Param("name"))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"run_id": runID})
}

func (s *Server) listCollections(c *gin.Context) {
	metas, err := s.store.ListCollections(c.Request.Context(), c.Param("name"))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collections": metas, "count": len(metas)})
}

func (s *Server) listRuns(c *gin.Context) {
	runs := s.collections.List()
	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

func (s *Server) getRun(c *gin.Context) {
	progress, err := s.collections.Get(c.Param("id"))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (s *Server) cancelRun(c *gin.Context) {
	if err := s.collections.Cancel(c.Param("id")); err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// startAnalysis kicks off an asynchronous collect-and-analyze job for a
// company and returns the job ID immediately.
func (s *Server) startAnalysis(c *gin.Context) {
	name := c.Param("name")
	if _, err := s.store.GetCompany(c.Request.Context(), name); err != nil {
		abortErr(c, err)
		return
	}

	now := time.Now().UTC()
	job := store.Job{
		JobID:       ulid.MustNew(ulid.Timestamp(now), jobEntropy).String(),
		CompanyName: name,
		Status:      store.JobPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.PutJob(c.Request.Context(), job); err != nil {
		abortErr(c, err)
		return
	}

	go s.runAnalysis(job)
	c.JSON(http.StatusAccepted, gin.H{"job_id": job.JobID, "status": job.Status})
}

func (s *Server) runAnalysis(job store.Job) {
	ctx := context.Background()

	job.Status = store.JobRunning
	job.UpdatedAt = time.Now().UTC()
	if err := s.store.PutJob(ctx, job); err != nil {
		log.Printf("httpapi: persisting job %s: %v", job.JobID, err)
	}

	summary, err := s.engine.AnalyzeCompany(ctx, job.CompanyName)
	job.UpdatedAt = time.Now().UTC()
	if err != nil {
		log.Printf("httpapi: analysis job %s failed: %v", job.JobID, err)
		job.Status = store.JobFailed
		job.Error = err.Error()
	} else {
		job.Status = store.JobCompleted
		job.SummaryID = summary.SummaryID
	}
	if err := s.store.PutJob(ctx, job); err != nil {
		log.Printf("httpapi: persisting job %s: %v", job.JobID, err)
	}
}

func (s *Server) getJob(c *gin.Context) {
	job, err := s.store.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (s *Server) latestSummary(c *gin.Context) {
	summary, err := s.store.LatestSummary(c.Request.Context(), c.Param("name"))
	if err != nil {
		abortErr(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.Pipeline().ComponentStatus())
}

func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, s.engine.Pipeline().ProcessingStats())
}
