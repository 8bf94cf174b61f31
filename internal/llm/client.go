// Package llm implements the outbound model callers: a single-model academic
// client and an ordered-fallback coding client, both speaking the
// chat-completions wire format. Neither caller ever surfaces an error to the
// dispatcher; every failure mode degrades to a canned demo answer so the
// system stays responsive without a live backend.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aitutor/orchestrator/pkg/models"
)

// DemoModelID is reported as model_used when a canned answer was served.
const DemoModelID = "demo_mode"

type chatRequest struct {
	Model    string               `json:"model"`
	Messages []models.ChatMessage `json:"messages"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// apiError is a non-2xx response from a model endpoint.
type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Body)
}

// errNoChoices marks a well-formed 200 response with no usable content; the
// fallback policy treats the model as unusable and advances.
var errNoChoices = errors.New("response contained no choices")

// completeChat posts a single-turn prompt to an OpenAI-compatible
// chat-completions endpoint and returns the first choice's content.
func completeChat(ctx context.Context, client *http.Client, endpoint, apiKey, model, prompt string) (string, error) {
	body, _ := json.Marshal(chatRequest{
		Model:    model,
		Messages: []models.ChatMessage{{Role: "user", Content: prompt}},
	})

	url := endpoint + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	}

	httpResp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(httpResp.Body)
		return "", &apiError{Status: httpResp.StatusCode, Body: string(respBody)}
	}

	var resp chatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}
