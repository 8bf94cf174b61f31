package orchestrator

import (
	"context"
	"fmt"

	"github.com/aitutor/orchestrator/internal/classify"
	"github.com/aitutor/orchestrator/internal/extract"
	"github.com/aitutor/orchestrator/pkg/models"
)

// EndNode terminates a pipeline walk.
const EndNode = "END"

// State is the record threaded through the pipeline nodes. It is
// request-local: a fresh State is built per Process call and discarded after
// the response is assembled.
type State struct {
	Query       string
	UserContext models.UserContext

	Params         extract.Bag
	Classification classify.Result
	SelectedTool   string

	ToolResult   map[string]any
	ResponseText string
	ModelUsed    string
}

// NodeFunc mutates the state for one pipeline stage.
type NodeFunc func(ctx context.Context, s *State)

// Pipeline is a compiled linear node graph. Construction validates the
// wiring once; Run never revisits a node.
type Pipeline struct {
	order []string
	nodes map[string]NodeFunc
	edges map[string]string
	entry string
}

// PipelineBuilder accumulates nodes and edges before compilation.
type PipelineBuilder struct {
	order []string
	nodes map[string]NodeFunc
	edges map[string]string
	entry string
}

func NewPipeline() *PipelineBuilder {
	return &PipelineBuilder{
		nodes: make(map[string]NodeFunc),
		edges: make(map[string]string),
	}
}

func (b *PipelineBuilder) AddNode(name string, fn NodeFunc) *PipelineBuilder {
	if _, exists := b.nodes[name]; !exists {
		b.order = append(b.order, name)
	}
	b.nodes[name] = fn
	return b
}

func (b *PipelineBuilder) AddEdge(from, to string) *PipelineBuilder {
	b.edges[from] = to
	return b
}

func (b *PipelineBuilder) SetEntry(name string) *PipelineBuilder {
	b.entry = name
	return b
}

// Compile validates the graph: the entry must exist, every edge must point
// at a known node or END, and the walk from the entry must reach END without
// revisiting a node.
func (b *PipelineBuilder) Compile() (*Pipeline, error) {
	if b.entry == "" {
		return nil, fmt.Errorf("pipeline has no entry point")
	}
	if _, ok := b.nodes[b.entry]; !ok {
		return nil, fmt.Errorf("entry node %q is not registered", b.entry)
	}
	for from, to := range b.edges {
		if _, ok := b.nodes[from]; !ok {
			return nil, fmt.Errorf("edge from unknown node %q", from)
		}
		if to != EndNode {
			if _, ok := b.nodes[to]; !ok {
				return nil, fmt.Errorf("edge from %q to unknown node %q", from, to)
			}
		}
	}

	visited := make(map[string]bool)
	for current := b.entry; current != EndNode; current = b.edges[current] {
		if visited[current] {
			return nil, fmt.Errorf("cycle detected at node %q", current)
		}
		visited[current] = true
		if _, ok := b.edges[current]; !ok {
			return nil, fmt.Errorf("node %q has no outgoing edge", current)
		}
	}

	return &Pipeline{
		order: b.order,
		nodes: b.nodes,
		edges: b.edges,
		entry: b.entry,
	}, nil
}

// Run walks the pipeline from the entry node to END.
func (p *Pipeline) Run(ctx context.Context, s *State) {
	for current := p.entry; current != EndNode; current = p.edges[current] {
		p.nodes[current](ctx, s)
	}
}

// ── Graph Agent ──────────────────────────────────────────────

// GraphAgent runs the staged pipeline: parameter extraction, tool selection,
// tool execution. The pipeline is compiled once at construction.
type GraphAgent struct {
	deps     Deps
	pipeline *Pipeline
}

// NewGraphAgent builds and compiles the tutoring pipeline.
func NewGraphAgent(deps Deps) (*GraphAgent, error) {
	a := &GraphAgent{deps: deps}

	pipeline, err := NewPipeline().
		AddNode("parameter_extraction", a.parameterExtractionNode).
		AddNode("tool_selection", a.toolSelectionNode).
		AddNode("tool_execution", a.toolExecutionNode).
		SetEntry("parameter_extraction").
		AddEdge("parameter_extraction", "tool_selection").
		AddEdge("tool_selection", "tool_execution").
		AddEdge("tool_execution", EndNode).
		Compile()
	if err != nil {
		return nil, fmt.Errorf("compile tutoring pipeline: %w", err)
	}
	a.pipeline = pipeline
	return a, nil
}

func (a *GraphAgent) Name() string { return "tutor_langgraph" }

func (a *GraphAgent) Process(ctx context.Context, query string, uc models.UserContext) (resp models.Response) {
	defer guard(a.Name(), &resp)

	ctx, span := tracer.Start(ctx, "tutor.process_graph")
	defer span.End()

	state := &State{Query: query, UserContext: uc}
	a.pipeline.Run(ctx, state)

	resp = models.Response{
		Agent:           a.Name(),
		ResponseText:    state.ResponseText,
		ModelUsed:       state.ModelUsed,
		SelectedTool:    state.SelectedTool,
		ExtractedParams: state.Params.Map(),
		ToolResult:      state.ToolResult,
		Classification:  string(state.Classification.Category),
		Confidence:      state.Classification.Confidence,
	}
	span.SetAttributes(spanAttributes(resp)...)
	return resp
}

func (a *GraphAgent) parameterExtractionNode(ctx context.Context, s *State) {
	s.Params = extract.Extract(s.Query, s.UserContext)
}

func (a *GraphAgent) toolSelectionNode(ctx context.Context, s *State) {
	s.Classification = classify.Classify(s.Query, s.Params)
	s.SelectedTool = selectHandler(s.Classification, s.Params)
}

func (a *GraphAgent) toolExecutionNode(ctx context.Context, s *State) {
	exec := a.deps.executeHandler(ctx, s.SelectedTool, s.Query, s.Params)
	s.ToolResult = exec.toolResult
	s.ResponseText = exec.responseText
	s.ModelUsed = exec.modelUsed
}
