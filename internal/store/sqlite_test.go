package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aitutor/orchestrator/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "tutor.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndListInteractions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, query := range []string{"first", "second", "third"} {
		err := s.SaveInteraction(ctx, &models.Interaction{
			Agent:          "tutor_langgraph",
			UserQuery:      query,
			AgentResponse:  "answer to " + query,
			SelectedTool:   "academic_agent",
			ModelUsed:      "llama-3.3-70b-versatile",
			Classification: "academic",
			Confidence:     "high",
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	got, err := s.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first.
	assert.Equal(t, "third", got[0].UserQuery)
	assert.Equal(t, "second", got[1].UserQuery)
	assert.Equal(t, "answer to third", got[0].AgentResponse)
	assert.Equal(t, "academic", got[0].Classification)
	assert.True(t, got[0].CreatedAt.Equal(base.Add(2*time.Minute)))
}

func TestSaveFillsIDAndTimestamp(t *testing.T) {
	s := newTestStore(t)

	in := &models.Interaction{Agent: "tutor", UserQuery: "q", AgentResponse: "a"}
	require.NoError(t, s.SaveInteraction(context.Background(), in))

	assert.NotEmpty(t, in.ID)
	assert.False(t, in.CreatedAt.IsZero())
}

func TestListRecentDefaultLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		require.NoError(t, s.SaveInteraction(ctx, &models.Interaction{
			Agent:         "tutor",
			UserQuery:     "q",
			AgentResponse: "a",
			CreatedAt:     time.Now().UTC().Add(time.Duration(i) * time.Second),
		}))
	}

	got, err := s.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, got, 10)
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}
