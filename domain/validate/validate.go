// Package validate provides validation value types: business-rule
// assertions and the violations both structural and business checks
// accumulate.
package validate

import "github.com/mapforge/mapforge/domain/document"

// Severity grades a violation. The caller decides whether any severity is
// fatal; the engine only reports.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule is a business-rule assertion: a condition expression over named
// fields extracted from the document. The condition must evaluate to true;
// false (or an evaluation error) produces a violation with the rule's
// message.
type Rule struct {
	ID        string                   `json:"id"`
	Severity  Severity                 `json:"severity"`
	Condition string                   `json:"condition"`
	Message   string                   `json:"message"`
	Fields    map[string]document.Path `json:"fields,omitempty"`
}

// Violation is one failed check. Violations accumulate: validation never
// stops at the first failure.
type Violation struct {
	RuleID   string   `json:"rule_id"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}
