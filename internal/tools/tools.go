// Package tools implements the educational tool registry: three mock
// generators producing canned structured study material from an extracted
// parameter bag. All three are deterministic, side-effect-free, and never
// fail; missing parameters silently take their defaults.
package tools

import (
	"fmt"

	"github.com/aitutor/orchestrator/internal/extract"
)

// Tool identifiers reported in the model_used field of a response.
const (
	NoteMakerID        = "note_maker_tool"
	FlashcardID        = "flashcard_generator_tool"
	ConceptExplainerID = "concept_explainer_tool"
)

// ── Note Maker ───────────────────────────────────────────────

// NoteMaker produces a structured study-note document.
type NoteMaker struct{}

func (NoteMaker) GenerateNotes(params extract.Bag) map[string]any {
	topic := params.Str("topic", "General")
	section := map[string]any{
		"title":      "Introduction",
		"content":    fmt.Sprintf("Overview of %s", topic),
		"key_points": []string{"Point 1", "Point 2", "Point 3"},
		"examples":   []string{},
		"analogies":  []string{},
	}
	if params.Bool("include_examples", true) {
		section["examples"] = []string{"Example 1"}
	}
	if params.Bool("include_analogies", false) {
		section["analogies"] = []string{"Analogy 1"}
	}

	return map[string]any{
		"topic":                topic,
		"title":                fmt.Sprintf("Study Notes: %s", topic),
		"summary":              fmt.Sprintf("Comprehensive notes on %s", topic),
		"note_sections":        []map[string]any{section},
		"key_concepts":         []string{fmt.Sprintf("Key concept in %s", topic)},
		"practice_suggestions": []string{"Practice problem 1"},
		"note_taking_style":    params.Str("note_taking_style", "outline"),
	}
}

// ── Flashcard Generator ──────────────────────────────────────

// FlashcardGenerator produces exactly count flashcards templated from the
// topic and difficulty.
type FlashcardGenerator struct{}

func (FlashcardGenerator) GenerateFlashcards(params extract.Bag) map[string]any {
	count := params.Int("count", 5)
	topic := params.Str("topic", "General")
	difficulty := params.Str("difficulty", "medium")
	withExamples := params.Bool("include_examples", true)

	cards := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		example := ""
		if withExamples {
			example = "Practical example"
		}
		cards = append(cards, map[string]any{
			"title":    fmt.Sprintf("%s - Card %d", topic, i+1),
			"question": fmt.Sprintf("Question about %s (%s)", topic, difficulty),
			"answer":   fmt.Sprintf("Answer explaining %s", topic),
			"example":  example,
		})
	}

	return map[string]any{
		"flashcards":         cards,
		"topic":              topic,
		"difficulty":         difficulty,
		"adaptation_details": fmt.Sprintf("Adapted for %s level", difficulty),
	}
}

// ── Concept Explainer ────────────────────────────────────────

// ConceptExplainer produces a templated explanation of the extracted concept
// (falling back to the topic) at the requested depth.
type ConceptExplainer struct{}

func (ConceptExplainer) ExplainConcept(params extract.Bag) map[string]any {
	concept := params.Str("concept_to_explain", params.Str("topic", "General"))
	depth := params.Str("desired_depth", "moderate")

	examples := []string{}
	if params.Bool("include_examples", true) {
		examples = []string{"Example 1", "Example 2"}
	}
	visualAids := []string{}
	if params.Str("teaching_style", "") == "visual" {
		visualAids = []string{"Diagram suggestion"}
	}

	return map[string]any{
		"explanation":        fmt.Sprintf("Detailed %s explanation of %s", depth, concept),
		"examples":           examples,
		"related_concepts":   []string{"Related concept 1"},
		"visual_aids":        visualAids,
		"practice_questions": []string{"Practice Q1", "Practice Q2"},
		"source_references":  []string{"Reference 1"},
	}
}
