package llm

import (
	"context"
	"net/http"
	"time"

	"github.com/aitutor/orchestrator/internal/config"
	"github.com/rs/zerolog/log"
)

// AcademicClient is the single-model, non-retrying caller used for academic
// and general tutoring. Any remote failure degrades to a canned answer.
type AcademicClient struct {
	client   *http.Client
	endpoint string
	apiKey   string
	model    string
}

// NewAcademicClient builds the academic caller. The HTTP client is
// constructed once here and owned by the caller for the process lifetime.
func NewAcademicClient(cfg config.ModelsConfig) *AcademicClient {
	return &AcademicClient{
		client:   &http.Client{Timeout: cfg.RequestTimeout},
		endpoint: cfg.AcademicEndpoint,
		apiKey:   cfg.AcademicAPIKey,
		model:    cfg.AcademicModel,
	}
}

// Call sends the prompt to the academic model and returns the answer text
// and the identifier of whatever produced it. Missing credentials and remote
// failures both resolve to a demo answer rather than an error.
func (c *AcademicClient) Call(ctx context.Context, prompt string) (string, string) {
	if c.apiKey == "" {
		log.Info().Msg("No academic API key configured, serving demo answer")
		return academicDemoAnswer(prompt), DemoModelID
	}

	start := time.Now()
	content, err := completeChat(ctx, c.client, c.endpoint, c.apiKey, c.model, prompt)
	if err != nil {
		log.Warn().
			Str("model", c.model).
			Dur("elapsed", time.Since(start)).
			Err(err).
			Msg("Academic model call failed, serving demo answer")
		return academicDemoAnswer(prompt), DemoModelID
	}
	return content, c.model
}
