package orchestrator

import (
	"fmt"
	"strings"
)

// Exporter is implemented by strategies that can describe their pipeline
// structure for visualization.
type Exporter interface {
	Mermaid() string
	ASCII() string
}

// Mermaid renders the pipeline as a mermaid flowchart.
func (p *Pipeline) Mermaid() string {
	var b strings.Builder
	b.WriteString("graph TD\n")
	b.WriteString(fmt.Sprintf("    START([START]) --> %s\n", p.entry))
	for _, name := range p.order {
		to := p.edges[name]
		if to == EndNode {
			b.WriteString(fmt.Sprintf("    %s --> DONE([END])\n", name))
		} else {
			b.WriteString(fmt.Sprintf("    %s --> %s\n", name, to))
		}
	}
	return b.String()
}

// ASCII renders the pipeline as a vertical chain.
func (p *Pipeline) ASCII() string {
	var b strings.Builder
	b.WriteString("START\n")
	for current := p.entry; current != EndNode; current = p.edges[current] {
		b.WriteString("  |\n  v\n")
		b.WriteString(fmt.Sprintf("[%s]\n", current))
	}
	b.WriteString("  |\n  v\nEND\n")
	return b.String()
}

func (a *GraphAgent) Mermaid() string { return a.pipeline.Mermaid() }
func (a *GraphAgent) ASCII() string   { return a.pipeline.ASCII() }

// Mermaid describes the direct strategy's single-pass flow; kept so the
// graph export endpoint works whichever strategy is bound.
func (a *DirectAgent) Mermaid() string {
	return "graph TD\n" +
		"    START([START]) --> classify_and_extract\n" +
		"    classify_and_extract --> dispatch\n" +
		"    dispatch --> DONE([END])\n"
}

func (a *DirectAgent) ASCII() string {
	return "START\n  |\n  v\n[classify_and_extract]\n  |\n  v\n[dispatch]\n  |\n  v\nEND\n"
}
