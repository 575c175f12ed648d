// Path: internal/delivery/rest/handlers_test.go
package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arena-scout/internal/config"
	"arena-scout/internal/domain"
	"arena-scout/internal/errs"
	"arena-scout/internal/events"
	"arena-scout/internal/search"
)

type fakeService struct {
	projects []domain.Project
	lastErr  error
}

func (f *fakeService) Projects() []domain.Project { return f.projects }
func (f *fakeService) Search(spec search.FilterSpec) []domain.Project {
	return search.NewEngine(f.projects).Search(spec)
}
func (f *fakeService) Freshness() domain.Freshness {
	return domain.Freshness{ProjectCount: len(f.projects)}
}
func (f *fakeService) LastError() error { return f.lastErr }

func testServer(svc dataService) http.Handler {
	cfg := config.ServerConfig{
		Port:              "0",
		RequestsPerSecond: 1000,
		BurstLimit:        1000,
		AllowedOrigins:    []string{"*"},
	}
	return NewServer(cfg, svc, events.NewBroker(), "https://arena.example.org", zerolog.Nop()).httpServer.Handler
}

func testProjects() []domain.Project {
	return []domain.Project{
		{ID: 1, Slug: "hakata-finance", Name: "Hakata Finance", Description: "perp dex",
			Country: "US", Tracks: []string{"DeFi"}, Likes: 42},
		{ID: 2, Slug: "other", Name: "Other", Description: "Hakata integration",
			Country: "US", Tracks: []string{"Infra"}, Likes: 10},
	}
}

func TestGetProjects(t *testing.T) {
	handler := testServer(&fakeService{projects: testProjects()})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))

	var projects []domain.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &projects))
	assert.Len(t, projects, 2)
}

func TestGetProjectsTimeoutMapsTo504(t *testing.T) {
	handler := testServer(&fakeService{lastErr: errs.NewTimeoutErr(nil)})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects", nil))

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestGetProjectsOtherFailureMapsTo500(t *testing.T) {
	handler := testServer(&fakeService{lastErr: errs.NewStatusErr(http.StatusBadGateway)})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
}

func TestSearchProjectsFiltersByQuery(t *testing.T) {
	handler := testServer(&fakeService{projects: testProjects()})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects/search?q=hakata&tracks=DeFi", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Total    int              `json:"total"`
		Projects []domain.Project `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Total)
	assert.Equal(t, "Hakata Finance", body.Projects[0].Name)
}

func TestExportCSV(t *testing.T) {
	handler := testServer(&fakeService{projects: testProjects()})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/export?format=csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "arena-projects.csv")
	assert.Contains(t, rec.Body.String(), "Hakata Finance")
}

func TestExportUnknownFormat(t *testing.T) {
	handler := testServer(&fakeService{projects: testProjects()})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/export?format=xml", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimitedProjectsReturns429(t *testing.T) {
	cfg := config.ServerConfig{
		Port:              "0",
		RequestsPerSecond: 1,
		BurstLimit:        1,
		AllowedOrigins:    []string{"*"},
	}
	handler := NewServer(cfg, &fakeService{projects: testProjects()}, events.NewBroker(),
		"https://arena.example.org", zerolog.Nop()).httpServer.Handler

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
}

func TestHealth(t *testing.T) {
	handler := testServer(&fakeService{projects: testProjects()})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 2, body["projects"])
}
