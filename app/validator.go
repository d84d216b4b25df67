package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mapforge/mapforge/adapters/metrics"
	"github.com/mapforge/mapforge/domain/document"
	"github.com/mapforge/mapforge/domain/schema"
	"github.com/mapforge/mapforge/domain/validate"
	"github.com/mapforge/mapforge/ports"
)

// Validator checks a document against structural schema constraints and
// business-rule assertions. Both checks run and accumulate violations;
// validation never short-circuits and never fails the transformation —
// the caller decides what a violation means.
type Validator struct {
	resolver ports.SchemaResolver
	formula  *FormulaService
	logger   zerolog.Logger
	metrics  *metrics.Collector // optional
}

// NewValidator creates a validator. The metrics collector may be nil.
func NewValidator(resolver ports.SchemaResolver, formula *FormulaService, logger zerolog.Logger, collector *metrics.Collector) *Validator {
	return &Validator{
		resolver: resolver,
		formula:  formula,
		logger:   logger.With().Str("component", "validator").Logger(),
		metrics:  collector,
	}
}

// Validate runs structural conformance against the document type's order
// table, then the business rules. The same function serves input-side and
// output-side validation against their respective document types.
func (v *Validator) Validate(ctx context.Context, doc *document.Node, docType schema.DocumentType, rules []validate.Rule) []validate.Violation {
	var violations []validate.Violation
	violations = append(violations, v.structural(ctx, doc, docType)...)
	violations = append(violations, v.business(doc, rules)...)

	if v.metrics != nil {
		v.metrics.ValidationsTotal.Inc()
		for _, viol := range violations {
			v.metrics.ViolationsTotal.WithLabelValues(string(viol.Severity)).Inc()
		}
	}
	v.logger.Debug().
		Str("doc_type", docType.Key()).
		Int("violations", len(violations)).
		Msg("validation complete")
	return violations
}

// structural checks element presence and cardinality per context. Contexts
// the order table does not model are skipped — partially-known schemas
// constrain only what they declare.
func (v *Validator) structural(ctx context.Context, doc *document.Node, docType schema.DocumentType) []validate.Violation {
	var violations []validate.Violation

	doc.Walk(func(contextPath string, n *document.Node) {
		constraints, ok, err := v.resolver.Elements(ctx, docType, contextPath)
		if err != nil {
			violations = append(violations, validate.Violation{
				RuleID:   "schema",
				Severity: validate.SeverityError,
				Message:  fmt.Sprintf("%s: order table unavailable: %v", contextPath, err),
			})
			return
		}
		if !ok {
			return // unconstrained context
		}

		counts := make(map[string]int, len(n.Children))
		for _, c := range n.Children {
			counts[c.Name]++
		}

		declared := make(map[string]bool, len(constraints))
		for _, el := range constraints {
			declared[el.Name] = true
			got := counts[el.Name]
			if got < el.Min {
				violations = append(violations, validate.Violation{
					RuleID:   "schema.required",
					Severity: validate.SeverityError,
					Message:  fmt.Sprintf("%s: element %s occurs %d times, minimum is %d", contextPath, el.Name, got, el.Min),
				})
			}
			if el.Max >= 0 && got > el.Max {
				violations = append(violations, validate.Violation{
					RuleID:   "schema.cardinality",
					Severity: validate.SeverityError,
					Message:  fmt.Sprintf("%s: element %s occurs %d times, maximum is %d", contextPath, el.Name, got, el.Max),
				})
			}
		}
		for _, c := range n.Children {
			if !declared[c.Name] {
				violations = append(violations, validate.Violation{
					RuleID:   "schema.unexpected",
					Severity: validate.SeverityWarning,
					Message:  fmt.Sprintf("%s: element %s is not declared in this context", contextPath, c.Name),
				})
				declared[c.Name] = true // one violation per name, not per occurrence
			}
		}
	})

	return violations
}

// business evaluates each rule's condition over its extracted fields. A
// false condition or an evaluation failure both violate the rule; an
// unparseable rule reports itself rather than aborting the rest.
func (v *Validator) business(doc *document.Node, rules []validate.Rule) []validate.Violation {
	var violations []validate.Violation

	for _, rule := range rules {
		env := make(map[string]any, len(rule.Fields))
		for name, path := range rule.Fields {
			val := doc.Extract(path)
			if val.Present() {
				env[name] = val.Str()
			} else {
				env[name] = nil
			}
		}

		ok, err := v.formula.EvalBool(rule.Condition, env)
		if err != nil {
			violations = append(violations, validate.Violation{
				RuleID:   rule.ID,
				Severity: rule.Severity,
				Message:  fmt.Sprintf("%s (condition error: %v)", rule.Message, err),
			})
			continue
		}
		if !ok {
			violations = append(violations, validate.Violation{
				RuleID:   rule.ID,
				Severity: rule.Severity,
				Message:  rule.Message,
			})
		}
	}

	return violations
}
