package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = orig })
	return &buf
}

func TestLoggerRecordsStatusAndRequestID(t *testing.T) {
	buf := captureLog(t)

	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short"))
	}))

	ctx := context.WithValue(context.Background(), chimw.RequestIDKey, "req-42")
	req := httptest.NewRequest("GET", "/api/v1/ask", nil).WithContext(ctx)
	h.ServeHTTP(httptest.NewRecorder(), req)

	line := buf.String()
	assert.Contains(t, line, `"status":418`)
	assert.Contains(t, line, `"request_id":"req-42"`)
	assert.Contains(t, line, `"bytes":5`)
	assert.Contains(t, line, `"path":"/api/v1/ask"`)
}

func TestLoggerDefaultsImplicitWritesToOK(t *testing.T) {
	buf := captureLog(t)

	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest("GET", "/health", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, buf.String(), `"status":200`)
}
