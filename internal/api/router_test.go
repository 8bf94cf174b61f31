package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aitutor/orchestrator/internal/api/handlers"
	"github.com/aitutor/orchestrator/internal/config"
	"github.com/aitutor/orchestrator/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct{ pingErr error }

func (s *stubStore) SaveInteraction(ctx context.Context, in *models.Interaction) error { return nil }
func (s *stubStore) ListRecent(ctx context.Context, limit int) ([]models.Interaction, error) {
	return nil, nil
}
func (s *stubStore) Ping(ctx context.Context) error { return s.pingErr }
func (s *stubStore) Close() error                   { return nil }

type stubAgent struct{}

func (stubAgent) Name() string { return "stub" }
func (stubAgent) Process(ctx context.Context, q string, uc models.UserContext) models.Response {
	return models.Response{Agent: "stub", ResponseText: "ok", ModelUsed: "m"}
}

func TestInfoRoutesRespondJSON(t *testing.T) {
	router := NewRouter(config.Load(), handlers.New(&stubStore{}, stubAgent{}))

	for _, path := range []string{"/", "/health", "/version"} {
		req := httptest.NewRequest("GET", path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"), path)
	}
}

func TestHealthDegradedWhenStoreUnreachable(t *testing.T) {
	router := NewRouter(config.Load(), handlers.New(&stubStore{pingErr: errors.New("db down")}, stubAgent{}))

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "degraded")
}
