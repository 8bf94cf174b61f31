package llm

import "strings"

// Canned answers keep the orchestrator demo-able with no credentials and no
// network. Selection is plain keyword sniffing over the prompt; the academic
// and coding paths carry separate answer sets.

type demoEntry struct {
	triggers []string
	answer   string
}

var academicDemoAnswers = []demoEntry{
	{
		triggers: []string{"photosynthesis"},
		answer: "Photosynthesis is the process plants use to convert sunlight, " +
			"water, and carbon dioxide into glucose and oxygen. It happens in the " +
			"chloroplasts, where chlorophyll captures light energy to drive the reaction.",
	},
	{
		triggers: []string{"derivative", "calculus"},
		answer: "A derivative measures how a function changes as its input changes. " +
			"Geometrically it is the slope of the tangent line at a point; " +
			"for example, the derivative of x^2 is 2x.",
	},
	{
		triggers: []string{"newton", "gravity", "force"},
		answer: "Newton's laws describe how forces affect motion: objects stay at rest " +
			"or in uniform motion unless acted on by a force (first law), force equals " +
			"mass times acceleration (second law), and every action has an equal and " +
			"opposite reaction (third law).",
	},
	{
		triggers: []string{"mitosis", "cell division"},
		answer: "Mitosis is cell division that produces two identical daughter cells. " +
			"It proceeds through prophase, metaphase, anaphase, and telophase, keeping " +
			"the chromosome number constant.",
	},
}

const academicDemoDefault = "I'm running in demo mode without a live model connection. " +
	"Here is a study tip instead: break the topic into small questions, answer each " +
	"from memory, then check your answers against your notes."

func academicDemoAnswer(prompt string) string {
	lower := strings.ToLower(prompt)
	for _, entry := range academicDemoAnswers {
		for _, trigger := range entry.triggers {
			if strings.Contains(lower, trigger) {
				return entry.answer
			}
		}
	}
	return academicDemoDefault
}

var codingDemoAnswers = []demoEntry{
	{
		triggers: []string{"reverse string", "reverse a string"},
		answer: "To reverse a string in Python: reversed_s = s[::-1]. " +
			"The slice walks the string backwards one character at a time.",
	},
	{
		triggers: []string{"sort"},
		answer: "Use the built-in sort where possible: sorted(items) in Python or " +
			"sort.Slice in Go. Comparison sorts run in O(n log n); only reach for a " +
			"custom algorithm when the input has structure you can exploit.",
	},
	{
		triggers: []string{"fibonacci"},
		answer: "Compute Fibonacci iteratively to stay O(n): keep the last two values " +
			"and roll them forward. The naive recursive version repeats work and is " +
			"exponential without memoization.",
	},
	{
		triggers: []string{"recursion"},
		answer: "A recursive function needs a base case that stops the calls and a " +
			"recursive case that shrinks the problem. Trace small inputs by hand to " +
			"verify both before trusting larger ones.",
	},
}

const codingDemoDefault = "I'm running in demo mode without a live model connection. " +
	"General coding advice: reproduce the problem with the smallest possible input, " +
	"read the exact error message, and test one change at a time."

func codingDemoAnswer(prompt string) string {
	lower := strings.ToLower(prompt)
	for _, entry := range codingDemoAnswers {
		for _, trigger := range entry.triggers {
			if strings.Contains(lower, trigger) {
				return entry.answer
			}
		}
	}
	return codingDemoDefault
}
