package llm

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/aitutor/orchestrator/internal/config"
	"github.com/rs/zerolog/log"
)

// FallbackClient tries an ordered list of coding models until one answers.
// The list is fixed at construction; per-call iteration state is local to
// each Call invocation, so the client is safe for concurrent use.
type FallbackClient struct {
	client     *http.Client
	endpoint   string
	apiKey     string
	modelList  []string
	maxRetries int

	// sleep is swapped out in tests to avoid real backoff waits.
	sleep func(time.Duration)
}

// NewFallbackClient builds the coding caller from the configured model list.
func NewFallbackClient(cfg config.ModelsConfig) *FallbackClient {
	maxRetries := cfg.MaxRetriesPerModel
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &FallbackClient{
		client:     &http.Client{Timeout: cfg.RequestTimeout},
		endpoint:   cfg.CodingEndpoint,
		apiKey:     cfg.CodingAPIKey,
		modelList:  cfg.FallbackModels,
		maxRetries: maxRetries,
		sleep:      time.Sleep,
	}
}

// Models returns the configured fallback order.
func (c *FallbackClient) Models() []string {
	out := make([]string, len(c.modelList))
	copy(out, c.modelList)
	return out
}

// Call walks the model list in order. Each model gets at most maxRetries
// loop iterations, whatever mix of rate limits, timeouts, and transient
// errors consumes them; permanent rejections (401/403/404) and malformed
// success responses abandon the model immediately. The first model to return
// non-empty content wins. Exhaustion of the whole list serves a canned
// coding answer.
func (c *FallbackClient) Call(ctx context.Context, prompt string) (string, string) {
	if c.apiKey == "" {
		log.Info().Msg("No coding API key configured, serving demo answer")
		return codingDemoAnswer(prompt), DemoModelID
	}

	for _, model := range c.modelList {
		if content, ok := c.tryModel(ctx, model, prompt); ok {
			return content, model
		}
	}

	log.Warn().Int("models", len(c.modelList)).Msg("All fallback models exhausted, serving demo answer")
	return codingDemoAnswer(prompt), DemoModelID
}

func (c *FallbackClient) tryModel(ctx context.Context, model, prompt string) (string, bool) {
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		content, err := completeChat(ctx, c.client, c.endpoint, c.apiKey, model, prompt)
		if err == nil {
			return content, true
		}

		var ae *apiError
		switch {
		case errors.As(err, &ae) && ae.Status == http.StatusTooManyRequests:
			// Exponential wait, bounded by the shared retry cap.
			wait := time.Duration(3*(1<<attempt)) * time.Second
			log.Warn().Str("model", model).Dur("wait", wait).Msg("Rate limited, backing off")
			c.sleep(wait)

		case errors.As(err, &ae) && permanentStatus(ae.Status):
			log.Warn().Str("model", model).Int("status", ae.Status).Msg("Model rejected, trying next")
			return "", false

		case errors.Is(err, errNoChoices):
			log.Warn().Str("model", model).Msg("Malformed response, trying next model")
			return "", false

		case isTimeout(err):
			log.Warn().Str("model", model).Err(err).Msg("Model call timed out, retrying")
			c.sleep(2 * time.Second)

		default:
			log.Warn().Str("model", model).Err(err).Msg("Model call failed, retrying")
			c.sleep(1 * time.Second)
		}
	}
	return "", false
}

// permanentStatus reports a rejection that makes the model unusable for this
// process: bad credentials, missing permission, or an unknown model id.
func permanentStatus(status int) bool {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	}
	return false
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
