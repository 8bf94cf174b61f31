// Package models defines the shared data types of the tutor orchestrator:
// the per-request user context, the response record handed back to the API
// layer, the persisted interaction log row, and the chat wire message.
package models

import (
	"time"
)

// ── Teaching Styles ──────────────────────────────────────────

// TeachingStyle is the instructional approach a student prefers.
type TeachingStyle string

const (
	StyleDirect   TeachingStyle = "direct"
	StyleSocratic TeachingStyle = "socratic"
	StyleVisual   TeachingStyle = "visual"
	StyleFlipped  TeachingStyle = "flipped"
)

// ── User Context ─────────────────────────────────────────────

// UserContext is the per-request student profile supplied by the caller.
// Empty fields are legal; downstream extraction resolves them to its own
// defaults. Nothing in it is persisted by the orchestrator.
type UserContext struct {
	UserID                string        `json:"user_id"`
	Name                  string        `json:"name"`
	GradeLevel            string        `json:"grade_level"`
	TeachingStyle         TeachingStyle `json:"teaching_style"`
	LearningStyleSummary  string        `json:"learning_style_summary"`
	EmotionalStateSummary string        `json:"emotional_state_summary"`
	MasteryLevelSummary   string        `json:"mastery_level_summary"`
}

// DefaultUserContext returns the demo student profile the API uses when a
// request carries no user_context.
func DefaultUserContext() UserContext {
	return UserContext{
		UserID:                "student123",
		Name:                  "Demo Student",
		GradeLevel:            "10",
		TeachingStyle:         StyleDirect,
		LearningStyleSummary:  "Visual learner, prefers examples",
		EmotionalStateSummary: "Focused and motivated",
		MasteryLevelSummary:   "Level 7: Proficient",
	}
}

// ── Chat Wire Types ──────────────────────────────────────────

// ChatMessage is a single turn in a chat-completions payload.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ── Response Record ──────────────────────────────────────────

// Response is the normalized result of processing one query. It is built
// once per request and immutable afterwards; the API layer serializes it
// and the store persists a projection of it.
type Response struct {
	Agent           string         `json:"agent"`
	ResponseText    string         `json:"response"`
	ModelUsed       string         `json:"model_used"`
	SelectedTool    string         `json:"selected_tool,omitempty"`
	ExtractedParams map[string]any `json:"extracted_params,omitempty"`
	ToolResult      map[string]any `json:"tool_result,omitempty"`
	Classification  string         `json:"classification,omitempty"`
	Confidence      string         `json:"confidence,omitempty"`
}

// ── Interaction Log ──────────────────────────────────────────

// Interaction is one persisted ask/answer exchange.
type Interaction struct {
	ID             string    `json:"id"`
	Agent          string    `json:"agent"`
	UserQuery      string    `json:"query"`
	AgentResponse  string    `json:"response"`
	SelectedTool   string    `json:"selected_tool,omitempty"`
	ModelUsed      string    `json:"model_used,omitempty"`
	Classification string    `json:"classification,omitempty"`
	Confidence     string    `json:"confidence,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
