package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aitutor/orchestrator/internal/config"
)

func newTestFallbackClient(t *testing.T, endpoint string, models []string) *FallbackClient {
	t.Helper()
	c := NewFallbackClient(config.ModelsConfig{
		CodingAPIKey:       "test-key",
		CodingEndpoint:     endpoint,
		FallbackModels:     models,
		RequestTimeout:     5 * time.Second,
		MaxRetriesPerModel: 2,
	})
	c.sleep = func(time.Duration) {}
	return c
}

// fakeCompletions builds a handler that answers per requested model name.
func fakeCompletions(t *testing.T, calls *[]string, respond func(model string, w http.ResponseWriter)) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		*calls = append(*calls, req.Model)
		respond(req.Model, w)
	})
}

func writeChatContent(w http.ResponseWriter, content string) {
	json.NewEncoder(w).Encode(map[string]any{
		"id": "resp-1",
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
}

func TestFallbackAdvancesPastRejectedModel(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(fakeCompletions(t, &calls, func(model string, w http.ResponseWriter) {
		switch model {
		case "model-1":
			w.WriteHeader(http.StatusNotFound)
		case "model-2":
			writeChatContent(w, "answer from model 2")
		default:
			t.Errorf("model %q should never be attempted", model)
		}
	}))
	defer srv.Close()

	c := newTestFallbackClient(t, srv.URL, []string{"model-1", "model-2", "model-3"})
	content, modelUsed := c.Call(context.Background(), "how do I sort a slice")

	if content != "answer from model 2" {
		t.Errorf("content = %q, want answer from model 2", content)
	}
	if modelUsed != "model-2" {
		t.Errorf("modelUsed = %q, want model-2", modelUsed)
	}
	// A 404 abandons model-1 after one attempt; model-3 is never reached.
	want := []string{"model-1", "model-2"}
	if len(calls) != len(want) || calls[0] != want[0] || calls[1] != want[1] {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestFallbackRetriesRateLimitOnSameModel(t *testing.T) {
	var calls []string
	attempt := 0
	srv := httptest.NewServer(fakeCompletions(t, &calls, func(model string, w http.ResponseWriter) {
		attempt++
		if attempt == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeChatContent(w, "after backoff")
	}))
	defer srv.Close()

	c := newTestFallbackClient(t, srv.URL, []string{"model-1"})
	content, modelUsed := c.Call(context.Background(), "prompt")

	if content != "after backoff" {
		t.Errorf("content = %q", content)
	}
	if modelUsed != "model-1" {
		t.Errorf("modelUsed = %q, want model-1 (rate limit retries the same model)", modelUsed)
	}
	if len(calls) != 2 || calls[0] != "model-1" || calls[1] != "model-1" {
		t.Errorf("calls = %v, want two attempts on model-1", calls)
	}
}

func TestFallbackRateLimitBoundedByRetryCap(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(fakeCompletions(t, &calls, func(model string, w http.ResponseWriter) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestFallbackClient(t, srv.URL, []string{"model-1", "model-2"})
	content, modelUsed := c.Call(context.Background(), "prompt")

	// 2 retries per model, both models exhausted: 4 attempts, then demo.
	if len(calls) != 4 {
		t.Errorf("attempts = %d, want 4", len(calls))
	}
	if modelUsed != DemoModelID {
		t.Errorf("modelUsed = %q, want %q", modelUsed, DemoModelID)
	}
	if content == "" {
		t.Error("demo content must not be empty")
	}
}

func TestFallbackSkipsMalformedResponse(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(fakeCompletions(t, &calls, func(model string, w http.ResponseWriter) {
		switch model {
		case "model-1":
			// Well-formed 200 with no choices: model is unusable.
			json.NewEncoder(w).Encode(map[string]any{"id": "x", "choices": []any{}})
		default:
			writeChatContent(w, "ok")
		}
	}))
	defer srv.Close()

	c := newTestFallbackClient(t, srv.URL, []string{"model-1", "model-2"})
	content, modelUsed := c.Call(context.Background(), "prompt")

	if content != "ok" || modelUsed != "model-2" {
		t.Errorf("got (%q, %q), want (ok, model-2)", content, modelUsed)
	}
	if len(calls) != 2 {
		t.Errorf("calls = %v, want one attempt per model", calls)
	}
}

func TestFallbackExhaustionServesKeywordDemo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestFallbackClient(t, srv.URL, []string{"model-1"})
	content, modelUsed := c.Call(context.Background(), "how do I reverse a string in python")

	if modelUsed != DemoModelID {
		t.Errorf("modelUsed = %q, want %q", modelUsed, DemoModelID)
	}
	if !strings.Contains(content, "reverse") {
		t.Errorf("demo answer should be keyword-matched, got %q", content)
	}
}

func TestFallbackWithoutAPIKey(t *testing.T) {
	c := NewFallbackClient(config.ModelsConfig{
		CodingEndpoint:     "http://invalid.localhost",
		FallbackModels:     []string{"model-1"},
		RequestTimeout:     time.Second,
		MaxRetriesPerModel: 1,
	})
	c.sleep = func(time.Duration) {}

	content, modelUsed := c.Call(context.Background(), "sort this")
	if modelUsed != DemoModelID {
		t.Errorf("modelUsed = %q, want %q", modelUsed, DemoModelID)
	}
	if content == "" {
		t.Error("expected a canned answer without credentials")
	}
}

func TestModelsReturnsCopy(t *testing.T) {
	c := newTestFallbackClient(t, "http://localhost", []string{"a", "b"})
	got := c.Models()
	got[0] = "mutated"
	if c.Models()[0] != "a" {
		t.Error("Models() must not expose internal state")
	}
}
