// Package orchestrator dispatches a tutoring query to exactly one handler:
// an educational tool fixture, the coding model fallback chain, or the
// academic model. Two strategies implement the same routing policy; the
// active one is selected once at startup and bound for the process lifetime.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/aitutor/orchestrator/internal/classify"
	"github.com/aitutor/orchestrator/internal/config"
	"github.com/aitutor/orchestrator/internal/extract"
	"github.com/aitutor/orchestrator/internal/llm"
	"github.com/aitutor/orchestrator/internal/tools"
	"github.com/aitutor/orchestrator/pkg/models"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("tutor-orchestrator")

// ErrorModelID marks a response produced by the dispatcher's failure guard.
const ErrorModelID = "error"

const apologyText = "I'm sorry, something went wrong while processing your question. Please try again."

// Handler identifiers recorded in selected_tool.
const (
	HandlerFlashcard        = "flashcard"
	HandlerNoteMaker        = "note_maker"
	HandlerConceptExplainer = "concept_explainer"
	HandlerCodingAgent      = "coding_agent"
	HandlerAcademicAgent    = "academic_agent"
)

// AcademicCaller is the single-model academic path.
type AcademicCaller interface {
	Call(ctx context.Context, prompt string) (content, modelUsed string)
}

// CodingCaller is the ordered-fallback coding path.
type CodingCaller interface {
	Call(ctx context.Context, prompt string) (content, modelUsed string)
}

// Orchestrator processes one query start to finish. Implementations are
// stateless per request and safe for concurrent use.
type Orchestrator interface {
	Name() string
	Process(ctx context.Context, query string, uc models.UserContext) models.Response
}

// Deps bundles the handler implementations shared by both strategies.
type Deps struct {
	Academic  AcademicCaller
	Coding    CodingCaller
	NoteMaker tools.NoteMaker
	Flashcard tools.FlashcardGenerator
	Explainer tools.ConceptExplainer
}

// NewDeps wires the default callers from configuration.
func NewDeps(cfg config.ModelsConfig) Deps {
	return Deps{
		Academic: llm.NewAcademicClient(cfg),
		Coding:   llm.NewFallbackClient(cfg),
	}
}

// Select binds the routing strategy for the process lifetime. The graph
// strategy is preferred when configured; a construction failure is logged
// once and the direct strategy takes over, never re-attempted per request.
func Select(mode config.RoutingMode, deps Deps) Orchestrator {
	if mode == config.RoutingGraph {
		agent, err := NewGraphAgent(deps)
		if err != nil {
			log.Error().Err(err).Msg("Graph pipeline construction failed, falling back to direct dispatch")
		} else {
			log.Info().Msg("Graph routing strategy active")
			return agent
		}
	}
	log.Info().Msg("Direct routing strategy active")
	return NewDirectAgent(deps)
}

// selectHandler resolves the handler id: tool intent first, then
// subject-driven model routing, then the academic default.
func selectHandler(result classify.Result, bag extract.Bag) string {
	switch result.Category {
	case classify.Flashcard:
		return HandlerFlashcard
	case classify.NoteMaker:
		return HandlerNoteMaker
	case classify.ConceptExplainer:
		return HandlerConceptExplainer
	}
	switch bag.Str("subject", "general") {
	case "computer_science", "coding", "programming":
		return HandlerCodingAgent
	}
	if result.Category == classify.Coding {
		return HandlerCodingAgent
	}
	return HandlerAcademicAgent
}

// execution is the normalized output of a handler invocation.
type execution struct {
	responseText string
	modelUsed    string
	toolResult   map[string]any
}

// executeHandler invokes exactly one handler and normalizes its output.
func (d Deps) executeHandler(ctx context.Context, handler, query string, bag extract.Bag) execution {
	switch handler {
	case HandlerNoteMaker:
		result := d.NoteMaker.GenerateNotes(bag)
		return execution{
			responseText: asString(result["summary"]),
			modelUsed:    tools.NoteMakerID,
			toolResult:   result,
		}
	case HandlerFlashcard:
		result := d.Flashcard.GenerateFlashcards(bag)
		cards, _ := result["flashcards"].([]map[string]any)
		return execution{
			responseText: fmt.Sprintf("Generated %d flashcards on %s.", len(cards), asString(result["topic"])),
			modelUsed:    tools.FlashcardID,
			toolResult:   result,
		}
	case HandlerConceptExplainer:
		result := d.Explainer.ExplainConcept(bag)
		return execution{
			responseText: asString(result["explanation"]),
			modelUsed:    tools.ConceptExplainerID,
			toolResult:   result,
		}
	case HandlerCodingAgent:
		prompt := fmt.Sprintf("As an expert coding tutor, help with this programming question: %s", query)
		content, model := d.Coding.Call(ctx, prompt)
		return execution{responseText: content, modelUsed: model}
	default:
		prompt := fmt.Sprintf("As an AI tutor, provide a clear explanation for: %s", query)
		content, model := d.Academic.Call(ctx, prompt)
		return execution{responseText: content, modelUsed: model}
	}
}

// guard converts a panic anywhere in classification, extraction, or dispatch
// into the fixed apology response so nothing escapes the core boundary.
func guard(agent string, resp *models.Response) {
	if r := recover(); r != nil {
		log.Error().Interface("panic", r).Str("agent", agent).Msg("Handler panicked, returning apology response")
		*resp = models.Response{
			Agent:        agent,
			ResponseText: apologyText,
			ModelUsed:    ErrorModelID,
		}
	}
}

func spanAttributes(resp models.Response) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("tutor.classification", resp.Classification),
		attribute.String("tutor.selected_tool", resp.SelectedTool),
		attribute.String("tutor.model_used", resp.ModelUsed),
		attribute.String("tutor.confidence", resp.Confidence),
	}
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
