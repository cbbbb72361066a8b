package skill

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Message patterns that indicate an arithmetic request.
var (
	binaryExprPattern  = regexp.MustCompile(`\d+\s*[-+*/%]\s*\d+`)
	mathKeywordPattern = regexp.MustCompile(`(?i)calculate|compute|solve|math|evaluate`)
	whatIsPattern      = regexp.MustCompile(`(?i)what\s+is\s+\d+`)

	// Extraction, most specific first: text after a command verb, then the
	// longest chained expression literal, then a plain binary pair.
	commandExtractPattern = regexp.MustCompile(`(?i)(?:calculate|compute|solve|what\s+is)\s+(.+?)(?:\?|$)`)
	chainedExprPattern    = regexp.MustCompile(`\d+(?:\.\d+)?\s*[-+*/%^]\s*\d+(?:\.\d+)?(?:\s*[-+*/%^]\s*\d+(?:\.\d+)?)*`)

	// Characters allowed into the evaluator. Everything else is dropped.
	disallowedCharPattern = regexp.MustCompile(`[^0-9+\-*/().\s^]`)
)

// MathSkill evaluates arithmetic expressions found in messages.
//
// Expressions are extracted with regexes, sanitized down to a strict
// character set, and evaluated by the recursive-descent parser in eval.go.
type MathSkill struct{}

// NewMathSkill creates the arithmetic skill.
func NewMathSkill() *MathSkill {
	return &MathSkill{}
}

// Name implements Skill.
func (*MathSkill) Name() string { return "calculator" }

// Description implements Skill.
func (*MathSkill) Description() string {
	return "Evaluates arithmetic expressions (+, -, *, /, %, ^, parentheses)"
}

// CanHandle implements Skill.
func (*MathSkill) CanHandle(message string) bool {
	return binaryExprPattern.MatchString(message) ||
		mathKeywordPattern.MatchString(message) ||
		whatIsPattern.MatchString(message)
}

// Execute implements Skill. Unparseable input is a domain outcome carried
// in the data map, not an error: the pipeline reports it to the model
// rather than dropping the skill result.
func (s *MathSkill) Execute(_ context.Context, message string) (map[string]any, error) {
	raw := extractExpression(message)
	expr := strings.TrimSpace(disallowedCharPattern.ReplaceAllString(raw, ""))

	if expr == "" {
		return map[string]any{
			"error":   "No arithmetic expression found",
			"details": "Could not extract a valid expression from the message",
		}, nil
	}

	result, err := evaluate(expr)
	if err != nil {
		return map[string]any{
			"error":   "Could not evaluate expression",
			"details": err.Error(),
		}, nil
	}

	// Round to 6 decimal places.
	rounded := math.Round(result*1e6) / 1e6

	formatted := strconv.FormatFloat(rounded, 'f', -1, 64)
	return map[string]any{
		"expression":  expr,
		"result":      rounded,
		"explanation": expr + " = " + formatted,
	}, nil
}

// extractExpression pulls the most likely arithmetic expression out of a
// natural-language message.
func extractExpression(message string) string {
	if m := commandExtractPattern.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	if m := chainedExprPattern.FindString(message); m != "" {
		return m
	}
	return binaryExprPattern.FindString(message)
}
