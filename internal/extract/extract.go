// Package extract turns a free-text tutoring query plus a user context into
// the fixed-shape parameter bag consumed by the educational tools and the
// model prompt builders. Every sub-extraction is an independent heuristic
// over the lowercased query; the whole extraction is pure and always yields
// a fully populated bag.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aitutor/orchestrator/pkg/models"
	"github.com/rs/zerolog/log"
)

// Bag is the extracted parameter set. All of FixedKeys are always present.
type Bag map[string]any

// FixedKeys is the closed key set of a Bag, in declaration order.
var FixedKeys = []string{
	"topic",
	"subject",
	"difficulty",
	"count",
	"num_questions",
	"teaching_style",
	"emotional_state",
	"mastery_level",
	"question_type",
	"include_examples",
	"include_analogies",
	"note_taking_style",
	"desired_depth",
	"concept_to_explain",
	"user_id",
	"grade_level",
}

// keywordTable is an ordered list of (value, trigger phrases) pairs scanned
// with substring containment. Declaration order is the tie-break: the first
// entry with any hit wins.
type keywordTable []struct {
	value    string
	triggers []string
}

func (t keywordTable) match(query, fallback string) string {
	for _, row := range t {
		for _, trigger := range row.triggers {
			if strings.Contains(query, trigger) {
				return row.value
			}
		}
	}
	return fallback
}

var subjectTable = keywordTable{
	{"mathematics", []string{"math", "calculus", "algebra", "geometry", "derivative", "integral", "equation"}},
	{"physics", []string{"physics", "force", "energy", "momentum", "quantum", "mechanics"}},
	{"chemistry", []string{"chemistry", "chemical", "reaction", "molecule", "atom", "bond"}},
	{"biology", []string{"biology", "cell", "dna", "photosynthesis", "evolution", "organism"}},
	{"computer_science", []string{"programming", "code", "algorithm", "python", "java", "data structure"}},
	{"history", []string{"history", "war", "revolution", "ancient", "civilization"}},
	{"english", []string{"grammar", "literature", "essay", "writing", "shakespeare"}},
}

var difficultyTable = keywordTable{
	{"easy", []string{"easy", "basic", "simple", "introduction", "beginner", "struggling", "confused"}},
	{"medium", []string{"intermediate", "moderate", "standard", "regular"}},
	{"hard", []string{"hard", "advanced", "complex", "challenging", "expert", "difficult"}},
}

var emotionTable = keywordTable{
	{"confused", []string{"confused", "lost", "dont understand", "don't get", "unclear"}},
	{"anxious", []string{"worried", "stressed", "nervous", "struggling", "hard time"}},
	{"frustrated", []string{"frustrated", "stuck", "cant figure", "can't solve"}},
	{"focused", []string{"ready", "focused", "determined", "want to learn"}},
	{"excited", []string{"excited", "interested", "curious", "love", "enjoy"}},
}

var (
	topicPatterns = []*regexp.Regexp{
		regexp.MustCompile(`about ([\w\s]+?)(?:\.|$|\?)`),
		regexp.MustCompile(`learn ([\w\s]+?)(?:\.|$|\?)`),
		regexp.MustCompile(`understand ([\w\s]+?)(?:\.|$|\?)`),
		regexp.MustCompile(`explain ([\w\s]+?)(?:\.|$|\?)`),
		regexp.MustCompile(`(?:on|for) ([\w\s]+?)(?:\.|$|\?)`),
	}
	topicStopWords = regexp.MustCompile(`\b(the|a|an|how|what|why|when|where)\b`)
	countPattern   = regexp.MustCompile(`(\d+)\s*(?:questions|flashcards|examples|notes|problems|items)?`)
	conceptStops   = regexp.MustCompile(`\b(what|is|are|how|does|do|explain|tell me about|help me understand)\b`)
)

// Extract builds the full parameter bag from a query and the caller's user
// context. It never fails; absent signals resolve to documented defaults.
func Extract(query string, uc models.UserContext) Bag {
	lower := strings.ToLower(query)
	count := extractCount(lower)

	bag := Bag{
		"topic":      extractTopic(query, lower),
		"subject":    subjectTable.match(lower, "general"),
		"difficulty": difficultyTable.match(lower, "medium"),

		"count":         count,
		"num_questions": count,

		"teaching_style":  teachingStyle(lower, uc),
		"emotional_state": emotionTable.match(lower, "neutral"),
		"mastery_level":   masteryLevel(uc),

		"question_type":     questionType(lower),
		"include_examples":  containsAny(lower, "example", "instance", "show me", "demonstrate"),
		"include_analogies": containsAny(lower, "like", "similar", "analogy", "compare", "understand"),
		"note_taking_style": noteStyle(lower),

		"desired_depth":      depth(lower),
		"concept_to_explain": mainConcept(lower),

		"user_id":     strOr(uc.UserID, "guest"),
		"grade_level": strOr(uc.GradeLevel, "general"),
	}
	return bag
}

func extractTopic(query, lower string) string {
	for _, pat := range topicPatterns {
		m := pat.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		topic := strings.TrimSpace(topicStopWords.ReplaceAllString(m[1], ""))
		topic = strings.Join(strings.Fields(topic), " ")
		if topic != "" {
			return topic
		}
	}
	// No explicit topic phrasing: take the leading words of the raw query.
	words := strings.Fields(query)
	if len(words) > 2 {
		return strings.Join(words[:3], " ")
	}
	return "general topic"
}

func extractCount(lower string) int {
	if m := countPattern.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	switch {
	case strings.Contains(lower, "quiz"), strings.Contains(lower, "test"):
		return 10
	case strings.Contains(lower, "flashcard"):
		return 15
	default:
		return 5
	}
}

func teachingStyle(lower string, uc models.UserContext) string {
	// A style present in the caller context wins over query inference.
	if uc.TeachingStyle != "" {
		return string(uc.TeachingStyle)
	}
	switch {
	case containsAny(lower, "show", "visual", "diagram", "image", "picture"):
		return string(models.StyleVisual)
	case containsAny(lower, "why", "reason", "think", "understand"):
		return string(models.StyleSocratic)
	case containsAny(lower, "watch", "video", "do it myself"):
		return string(models.StyleFlipped)
	default:
		return string(models.StyleDirect)
	}
}

func masteryLevel(uc models.UserContext) string {
	if uc.MasteryLevelSummary != "" {
		return uc.MasteryLevelSummary
	}
	return "intermediate"
}

func questionType(lower string) string {
	switch {
	case strings.Contains(lower, "multiple choice"), strings.Contains(lower, "mcq"):
		return "multiple_choice"
	case strings.Contains(lower, "true") && strings.Contains(lower, "false"):
		return "true_false"
	case strings.Contains(lower, "short answer"):
		return "short_answer"
	case strings.Contains(lower, "essay"):
		return "essay"
	default:
		return "mixed"
	}
}

func noteStyle(lower string) string {
	switch {
	case strings.Contains(lower, "outline"), strings.Contains(lower, "bullet"):
		return "outline"
	case strings.Contains(lower, "mind map"), strings.Contains(lower, "diagram"):
		return "mind_map"
	case strings.Contains(lower, "cornell"):
		return "cornell"
	default:
		return "outline"
	}
}

// HasNoteStyleCue reports whether the query explicitly asks for a note
// format. The selection policy must not treat the defaulted
// note_taking_style as intent, so the cue check is separate.
func HasNoteStyleCue(query string) bool {
	lower := strings.ToLower(query)
	return containsAny(lower, "outline", "bullet", "mind map", "cornell")
}

func depth(lower string) string {
	switch {
	case containsAny(lower, "brief", "quick", "summary", "overview"):
		return "brief"
	case containsAny(lower, "detailed", "depth", "thorough", "comprehensive"):
		return "detailed"
	default:
		return "moderate"
	}
}

func mainConcept(lower string) string {
	concept := conceptStops.ReplaceAllString(lower, "")
	concept = strings.Join(strings.Fields(concept), " ")
	concept = strings.Trim(concept, " ?.,!")
	if concept == "" {
		return "general concept"
	}
	return concept
}

func strOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ── Schema Validation ────────────────────────────────────────

// FieldSpec describes one required tool parameter. Default, when non-nil,
// fills the field if extraction produced nothing.
type FieldSpec struct {
	Default any
}

// ToolSchema describes the parameters a tool accepts.
type ToolSchema struct {
	RequiredFields map[string]FieldSpec
	OptionalFields []string
}

// Validate filters a bag against a tool schema. Required fields present in
// the bag pass through; absent ones take the schema default when there is
// one, otherwise the entry is set to nil and a warning is logged. Missing
// parameters are never fatal.
func Validate(bag Bag, schema ToolSchema) Bag {
	validated := Bag{}
	for field, spec := range schema.RequiredFields {
		if v, ok := bag[field]; ok {
			validated[field] = v
			continue
		}
		if spec.Default != nil {
			validated[field] = spec.Default
			continue
		}
		log.Warn().Str("field", field).Msg("Missing required tool parameter")
		validated[field] = nil
	}
	for _, field := range schema.OptionalFields {
		if v, ok := bag[field]; ok {
			validated[field] = v
		}
	}
	return validated
}

// ── Bag Accessors ────────────────────────────────────────────

// Str returns the string value under key, or fallback.
func (b Bag) Str(key, fallback string) string {
	if v, ok := b[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// Int returns the int value under key, or fallback.
func (b Bag) Int(key string, fallback int) int {
	if v, ok := b[key].(int); ok {
		return v
	}
	return fallback
}

// Bool returns the bool value under key, or fallback.
func (b Bag) Bool(key string, fallback bool) bool {
	if v, ok := b[key].(bool); ok {
		return v
	}
	return fallback
}

// Map converts the bag to a plain map for serialization.
func (b Bag) Map() map[string]any {
	out := make(map[string]any, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}
