package sandbox

import (
	"fmt"
	"strings"

	"github.com/Knetic/govaluate"
)

// Rule declines a payment with Message when Expression evaluates to true.
type Rule struct {
	Expression string
	Message    string

	compiled *govaluate.EvaluableExpression
}

// ParseRules reads "expression => message" pairs separated by ';', e.g.
//
//	amount > 100000 => Amount exceeds sandbox limit; token == 'tok_decline' => Card declined
//
// Expressions see the parameters amount (minor units), currency, token and
// customer.
func ParseRules(raw string) ([]Rule, error) {
	var rules []Rule
	for i, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		expr, message, ok := strings.Cut(part, "=>")
		if !ok {
			return nil, fmt.Errorf("sandbox rule %d: missing '=>' in %q", i+1, part)
		}
		rule, err := NewRule(strings.TrimSpace(expr), strings.TrimSpace(message))
		if err != nil {
			return nil, fmt.Errorf("sandbox rule %d: %w", i+1, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func NewRule(expression, message string) (Rule, error) {
	if expression == "" {
		return Rule{}, fmt.Errorf("empty expression")
	}
	compiled, err := govaluate.NewEvaluableExpression(expression)
	if err != nil {
		return Rule{}, fmt.Errorf("compile %q: %w", expression, err)
	}
	return Rule{Expression: expression, Message: message, compiled: compiled}, nil
}

func (r Rule) matches(params map[string]any) (bool, error) {
	result, err := r.compiled.Evaluate(params)
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", r.Expression, err)
	}
	matched, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("evaluate %q: expected bool, got %T", r.Expression, result)
	}
	return matched, nil
}
