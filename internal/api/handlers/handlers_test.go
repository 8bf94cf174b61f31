package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aitutor/orchestrator/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	saved []models.Interaction
}

func (f *fakeStore) SaveInteraction(ctx context.Context, in *models.Interaction) error {
	f.saved = append(f.saved, *in)
	return nil
}

func (f *fakeStore) ListRecent(ctx context.Context, limit int) ([]models.Interaction, error) {
	if limit > len(f.saved) {
		limit = len(f.saved)
	}
	out := make([]models.Interaction, 0, limit)
	for i := len(f.saved) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.saved[i])
	}
	return out, nil
}

func (f *fakeStore) Ping(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                   { return nil }

type fakeAgent struct {
	lastQuery   string
	lastContext models.UserContext
}

func (a *fakeAgent) Name() string { return "fake" }

func (a *fakeAgent) Process(ctx context.Context, query string, uc models.UserContext) models.Response {
	a.lastQuery = query
	a.lastContext = uc
	return models.Response{
		Agent:          "fake",
		ResponseText:   "an answer",
		ModelUsed:      "fake-model",
		SelectedTool:   "academic_agent",
		Classification: "academic",
		Confidence:     "high",
	}
}

func postAsk(t *testing.T, h *Handlers, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/ask", bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()
	h.AskTutor(rec, req)
	return rec
}

func TestAskTutor(t *testing.T) {
	st := &fakeStore{}
	agent := &fakeAgent{}
	h := New(st, agent)

	rec := postAsk(t, h, `{"query": "explain photosynthesis", "user_context": {"user_id": "u1", "teaching_style": "visual"}}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "an answer", resp.ResponseText)
	assert.Equal(t, "fake-model", resp.ModelUsed)

	assert.Equal(t, "explain photosynthesis", agent.lastQuery)
	assert.Equal(t, "u1", agent.lastContext.UserID)
	assert.Equal(t, models.StyleVisual, agent.lastContext.TeachingStyle)

	require.Len(t, st.saved, 1)
	assert.Equal(t, "explain photosynthesis", st.saved[0].UserQuery)
	assert.Equal(t, "an answer", st.saved[0].AgentResponse)
	assert.Equal(t, "fake-model", st.saved[0].ModelUsed)
	assert.Equal(t, "academic", st.saved[0].Classification)
}

func TestAskTutorDefaultsMissingUserContext(t *testing.T) {
	agent := &fakeAgent{}
	h := New(&fakeStore{}, agent)

	rec := postAsk(t, h, `{"query": "explain photosynthesis"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, models.DefaultUserContext(), agent.lastContext)
}

func TestAskTutorPassesPartialUserContextThrough(t *testing.T) {
	agent := &fakeAgent{}
	h := New(&fakeStore{}, agent)

	rec := postAsk(t, h, `{"query": "explain photosynthesis", "user_context": {"user_id": "u2"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// A supplied context is not merged with the demo profile; empty fields
	// stay empty so extraction applies its own defaults.
	assert.Equal(t, "u2", agent.lastContext.UserID)
	assert.Empty(t, agent.lastContext.GradeLevel)
	assert.Empty(t, agent.lastContext.TeachingStyle)
}

func TestAskTutorRejectsEmptyQuery(t *testing.T) {
	h := New(&fakeStore{}, &fakeAgent{})

	for _, body := range []string{`{"query": ""}`, `{"query": "   "}`, `{}`} {
		rec := postAsk(t, h, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
}

func TestAskTutorRejectsOversizedQuery(t *testing.T) {
	h := New(&fakeStore{}, &fakeAgent{})

	long := strings.Repeat("a", MaxQueryLength+1)
	rec := postAsk(t, h, `{"query": "`+long+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAskTutorRejectsBadJSON(t *testing.T) {
	h := New(&fakeStore{}, &fakeAgent{})
	rec := postAsk(t, h, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistory(t *testing.T) {
	st := &fakeStore{}
	h := New(st, &fakeAgent{})

	postAsk(t, h, `{"query": "first question"}`)
	postAsk(t, h, `{"query": "second question"}`)

	req := httptest.NewRequest("GET", "/api/v1/history?limit=1", nil)
	rec := httptest.NewRecorder()
	h.History(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var interactions []models.Interaction
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&interactions))
	require.Len(t, interactions, 1)
	assert.Equal(t, "second question", interactions[0].UserQuery)
}
