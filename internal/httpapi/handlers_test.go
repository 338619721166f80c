package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cognicore/pulse/internal/collection"
	"github.com/cognicore/pulse/internal/collector"
	"github.com/cognicore/pulse/pkg/pulse"
	"github.com/cognicore/pulse/pkg/pulse/store/memstore"
)

func newTestRouter(t *testing.T) (*gin.Engine, *memstore.MemStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := memstore.New()
	mock := collector.NewMock(42, 5)
	engine := pulse.New(pulse.Options{Store: st, Collector: mock})
	collections := collection.NewService(mock, st)

	srv := NewServer(st, engine, collections)
	return srv.SetupRouter(""), st
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const companyBody = `{
	"profile": {
		"name": "Initech",
		"email_domain": "initech.com",
		"hashtags": ["#initech"]
	}
}`

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doRequest(router, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("health = %d", w.Code)
	}
}

func TestCompanyLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)

	if w := doRequest(router, http.MethodPost, "/api/pulse/companies", companyBody); w.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", w.Code, w.Body)
	}
	if w := doRequest(router, http.MethodPost, "/api/pulse/companies", companyBody); w.Code != http.StatusConflict {
		t.Fatalf("duplicate create = %d, want 409", w.Code)
	}
	if w := doRequest(router, http.MethodPost, "/api/pulse/companies", `{"profile":{`); w.Code != http.StatusBadRequest {
		t.Fatalf("malformed create = %d, want 400", w.Code)
	}
	if w := doRequest(router, http.MethodPost, "/api/pulse/companies",
		`{"profile":{"name":"NoDomain"}}`); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid company = %d, want 400", w.Code)
	}

	w := doRequest(router, http.MethodGet, "/api/pulse/companies/Initech", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get = %d", w.Code)
	}

	update := `{"profile":{"name":"ignored","email_domain":"initech.com","industry":"technology"}}`
	if w := doRequest(router, http.MethodPut, "/api/pulse/companies/Initech", update); w.Code != http.StatusOK {
		t.Fatalf("update = %d: %s", w.Code, w.Body)
	}

	w = doRequest(router, http.MethodGet, "/api/pulse/companies", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	var listResp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil || listResp.Count != 1 {
		t.Fatalf("list count = %d (%v)", listResp.Count, err)
	}

	if w := doRequest(router, http.MethodDelete, "/api/pulse/companies/Initech", ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", w.Code)
	}
	if w := doRequest(router, http.MethodGet, "/api/pulse/companies/Initech", ""); w.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d, want 404", w.Code)
	}
}

func TestSummaryNotFound(t *testing.T) {
	router, _ := newTestRouter(t)
	doRequest(router, http.MethodPost, "/api/pulse/companies", companyBody)
	if w := doRequest(router, http.MethodGet, "/api/pulse/companies/Initech/summary", ""); w.Code != http.StatusNotFound {
		t.Fatalf("summary without analysis = %d, want 404", w.Code)
	}
}

func TestAnalysisJobFlow(t *testing.T) {
	router, _ := newTestRouter(t)
	doRequest(router, http.MethodPost, "/api/pulse/companies", companyBody)

	w := doRequest(router, http.MethodPost, "/api/pulse/companies/Initech/analyze", "")
	if w.Code != http.StatusAccepted {
		t.Fatalf("analyze = %d: %s", w.Code, w.Body)
	}
	var accepted struct {
		JobID string `json:"job_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &accepted); err != nil || accepted.JobID == "" {
		t.Fatalf("no job id in response: %s", w.Body)
	}

	var jobResp struct {
		Status    string `json:"status"`
		SummaryID string `json:"summary_id"`
		Error     string `json:"error"`
	}
	deadline := time.Now().Add(30 * time.Second)
	for {
		w = doRequest(router, http.MethodGet, "/api/pulse/jobs/"+accepted.JobID, "")
		if w.Code != http.StatusOK {
			t.Fatalf("get job = %d", w.Code)
		}
		if err := json.Unmarshal(w.Body.Bytes(), &jobResp); err != nil {
			t.Fatalf("job body: %v", err)
		}
		if jobResp.Status == "completed" || jobResp.Status == "failed" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("job never finished: %+v", jobResp)
		}
		time.Sleep(20 * time.Millisecond)
	}
	if jobResp.Status != "completed" {
		t.Fatalf("job failed: %s", jobResp.Error)
	}
	if jobResp.SummaryID == "" {
		t.Fatal("completed job has no summary id")
	}

	if w := doRequest(router, http.MethodGet, "/api/pulse/companies/Initech/summary", ""); w.Code != http.StatusOK {
		t.Fatalf("summary = %d", w.Code)
	}
}

func TestCollectionRunEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)
	doRequest(router, http.MethodPost, "/api/pulse/companies", companyBody)

	w := doRequest(router, http.MethodPost, "/api/pulse/companies/Initech/collect", "")
	if w.Code != http.StatusAccepted {
		t.Fatalf("collect = %d: %s", w.Code, w.Body)
	}
	var accepted struct {
		RunID string `json:"run_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &accepted); err != nil || accepted.RunID == "" {
		t.Fatalf("no run id: %s", w.Body)
	}

	if w := doRequest(router, http.MethodGet, "/api/pulse/runs/"+accepted.RunID, ""); w.Code != http.StatusOK {
		t.Fatalf("get run = %d", w.Code)
	}
	if w := doRequest(router, http.MethodGet, "/api/pulse/runs", ""); w.Code != http.StatusOK {
		t.Fatalf("list runs = %d", w.Code)
	}
	if w := doRequest(router, http.MethodGet, "/api/pulse/runs/unknown", ""); w.Code != http.StatusNotFound {
		t.Fatalf("unknown run = %d, want 404", w.Code)
	}

	if w := doRequest(router, http.MethodPost, "/api/pulse/companies/Nobody/collect", ""); w.Code != http.StatusNotFound {
		t.Fatalf("collect unknown company = %d, want 404", w.Code)
	}
}

func TestStatusAndStats(t *testing.T) {
	router, _ := newTestRouter(t)
	if w := doRequest(router, http.MethodGet, "/api/pulse/status", ""); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	w := doRequest(router, http.MethodGet, "/api/pulse/stats", "")
	if w.Code != http.StatusOK {
		t.Fatalf("stats = %d", w.Code)
	}
	var stats map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("stats body: %v", err)
	}
	if _, ok := stats["total_texts"]; !ok {
		t.Error("stats missing total_texts")
	}
}
