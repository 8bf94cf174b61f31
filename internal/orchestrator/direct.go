package orchestrator

import (
	"context"

	"github.com/aitutor/orchestrator/internal/classify"
	"github.com/aitutor/orchestrator/internal/extract"
	"github.com/aitutor/orchestrator/pkg/models"
)

// DirectAgent is the single-pass dispatcher: classify, extract, pick one
// handler, run it, assemble the response. No internal staging.
type DirectAgent struct {
	deps Deps
}

func NewDirectAgent(deps Deps) *DirectAgent {
	return &DirectAgent{deps: deps}
}

func (a *DirectAgent) Name() string { return "tutor" }

func (a *DirectAgent) Process(ctx context.Context, query string, uc models.UserContext) (resp models.Response) {
	defer guard(a.Name(), &resp)

	ctx, span := tracer.Start(ctx, "tutor.process")
	defer span.End()

	bag := extract.Extract(query, uc)
	result := classify.Classify(query, bag)
	handler := selectHandler(result, bag)

	exec := a.deps.executeHandler(ctx, handler, query, bag)

	resp = models.Response{
		Agent:           a.Name(),
		ResponseText:    exec.responseText,
		ModelUsed:       exec.modelUsed,
		SelectedTool:    handler,
		ExtractedParams: bag.Map(),
		ToolResult:      exec.toolResult,
		Classification:  string(result.Category),
		Confidence:      result.Confidence,
	}
	span.SetAttributes(spanAttributes(resp)...)
	return resp
}
