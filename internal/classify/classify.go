// Package classify maps a tutoring query to a handler category. Tool intent
// is checked first in a fixed order (flashcard, note, explain); only when no
// tool cue matches does domain classification run (coding vs. academic vs.
// general). Classification never fails: the absence of every signal resolves
// to General.
package classify

import (
	"strings"

	"github.com/aitutor/orchestrator/internal/extract"
)

// Category is the closed set of routing targets.
type Category string

const (
	Coding           Category = "coding"
	Academic         Category = "academic"
	General          Category = "general"
	Flashcard        Category = "flashcard"
	NoteMaker        Category = "note_maker"
	ConceptExplainer Category = "concept_explainer"
)

// IsTool reports whether the category routes to a fixture tool rather than
// a remote model.
func (c Category) IsTool() bool {
	switch c {
	case Flashcard, NoteMaker, ConceptExplainer:
		return true
	}
	return false
}

// Result is a classification plus its confidence grade.
type Result struct {
	Category   Category
	Confidence string // "high" or "medium"
}

var codingKeywords = []string{
	"python", "java", "javascript", "golang", "rust", "c++",
	"code", "coding", "programming", "function", "variable",
	"loop", "array", "algorithm", "compile", "debug", "syntax",
	"recursion", "pointer", "api", "sql", "regex",
}

var structuralTokens = []string{
	"def ", "function ", "class ", "import ",
	"{", "}", "[", "]", ";",
	".py", ".js", ".go", ".java", ".cpp",
}

var academicKeywords = []string{
	"math", "physics", "chemistry", "biology", "history", "geography",
	"literature", "science", "theorem", "essay",
	"study", "learn", "explain", "solve", "homework",
}

// Classify resolves the category for a query. The bag, when non-nil, lets
// the tool-intent branch see extracted signals (an explicit concept cue);
// passing nil skips those and still yields a valid result.
func Classify(query string, bag extract.Bag) Result {
	lower := strings.ToLower(query)

	// Tool intent wins over everything, first match in fixed order.
	switch {
	case strings.Contains(lower, "flashcard") || strings.Contains(lower, "card"):
		return Result{Category: Flashcard, Confidence: "high"}
	case strings.Contains(lower, "note") || extract.HasNoteStyleCue(query):
		return Result{Category: NoteMaker, Confidence: "high"}
	case strings.Contains(lower, "explain") || hasConceptCue(lower, bag):
		return Result{Category: ConceptExplainer, Confidence: "high"}
	}

	return classifyDomain(lower)
}

// hasConceptCue reports an explicit ask-to-explain framing. The extracted
// concept_to_explain always carries a default, so only interrogative
// phrasing in the query itself counts as a signal.
func hasConceptCue(lower string, bag extract.Bag) bool {
	if bag == nil {
		return false
	}
	return strings.Contains(lower, "what is") ||
		strings.Contains(lower, "what are") ||
		strings.Contains(lower, "help me understand")
}

func classifyDomain(lower string) Result {
	hits := 0
	for _, kw := range codingKeywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	if hits >= 2 || hasStructuralPattern(lower) {
		return Result{Category: Coding, Confidence: "high"}
	}

	for _, kw := range academicKeywords {
		if strings.Contains(lower, kw) {
			return Result{Category: Academic, Confidence: "high"}
		}
	}

	return Result{Category: General, Confidence: "medium"}
}

func hasStructuralPattern(lower string) bool {
	for _, tok := range structuralTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}
