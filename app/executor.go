package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mapforge/mapforge/adapters/metrics"
	"github.com/mapforge/mapforge/domain/document"
	"github.com/mapforge/mapforge/domain/mapping"
	"github.com/mapforge/mapforge/domain/schema"
	"github.com/mapforge/mapforge/domain/transform"
	"github.com/mapforge/mapforge/ports"
)

// Executor walks a mapping configuration over a source document, builds the
// output tree, and reorders it against the target schema. Each execution
// owns its output tree exclusively; executors are safe for concurrent use.
type Executor struct {
	resolver ports.SchemaResolver
	formula  *FormulaService
	clock    ports.Clock
	logger   zerolog.Logger
	metrics  *metrics.Collector // optional
}

// NewExecutor creates an executor. The metrics collector may be nil.
func NewExecutor(resolver ports.SchemaResolver, formula *FormulaService, clock ports.Clock, logger zerolog.Logger, collector *metrics.Collector) *Executor {
	return &Executor{
		resolver: resolver,
		formula:  formula,
		clock:    clock,
		logger:   logger.With().Str("component", "executor").Logger(),
		metrics:  collector,
	}
}

// Result is the outcome of one execution: the output tree, the resolved
// target document type, and the accumulated per-connection issues. Partial
// success is the normal completion mode — issues do not make the execution
// an error.
type Result struct {
	Output  *document.Node
	DocType schema.DocumentType
	Issues  []mapping.ExecutionIssue
}

// Execute runs the configuration over the source document.
//
// Configuration errors (duplicate targets, empty paths) are fatal and
// detected before any connection runs. Per-connection extraction and
// transformation failures become ExecutionIssues and the remaining
// connections still run. After all connections, children of every
// container are reordered per the target schema's element-order table.
func (e *Executor) Execute(ctx context.Context, cfg mapping.Config, doc document.Document) (Result, error) {
	start := e.clock.Now()

	if err := cfg.Validate(); err != nil {
		e.observe("invalid", 0)
		return Result{}, fmt.Errorf("invalid mapping config: %w", err)
	}

	docType, err := e.resolveTargetType(cfg, doc)
	if err != nil {
		e.observe("unresolved", 0)
		return Result{}, err
	}

	output := document.NewNode(docType.RootElement)
	var issues []mapping.ExecutionIssue

	for _, conn := range cfg.Connections {
		inputs := make([]document.Value, len(conn.SourcePaths))
		for i, p := range conn.SourcePaths {
			inputs[i] = doc.Extract(p)
		}

		value, err := transform.Apply(conn.Transform, inputs, e.formula)
		if err != nil {
			issues = append(issues, mapping.ExecutionIssue{ConnectionID: conn.ID, Reason: err.Error()})
			e.countConnection("failed")
			continue
		}
		if !value.Present() {
			// The source had no value and the rule produced none: the
			// target stays unset and that is worth reporting.
			issues = append(issues, mapping.ExecutionIssue{
				ConnectionID: conn.ID,
				Reason:       fmt.Sprintf("no value at source %s", sourceList(conn)),
			})
			e.countConnection("absent")
			continue
		}

		output.Place(conn.TargetPath, value)
		e.countConnection("ok")
	}

	if err := e.reorder(ctx, docType, output); err != nil {
		// Reordering needs the order table; without it the tree is still
		// returned, just in write order.
		issues = append(issues, mapping.ExecutionIssue{
			ConnectionID: "",
			Reason:       fmt.Sprintf("element reordering skipped: %v", err),
		})
	}

	e.observe("ok", len(issues))
	if e.metrics != nil {
		e.metrics.ExecutionDuration.Observe(e.clock.Now().Sub(start).Seconds())
	}
	e.logger.Debug().
		Str("config", cfg.Name).
		Str("doc_type", docType.Key()).
		Int("connections", len(cfg.Connections)).
		Int("issues", len(issues)).
		Dur("elapsed", e.clock.Now().Sub(start)).
		Msg("mapping executed")

	return Result{Output: output, DocType: docType, Issues: issues}, nil
}

// resolveTargetType resolves the target document type from config metadata,
// falling back to the document's own content when the config leaves the
// type unset: first the detected root element, then a DocumentType field.
// There is no default type — an unresolvable hint is an error.
func (e *Executor) resolveTargetType(cfg mapping.Config, doc document.Document) (schema.DocumentType, error) {
	hint := cfg.TargetType
	if hint == "" {
		hint = detectDocumentType(doc)
		if hint != "" {
			e.logger.Debug().Str("hint", hint).Msg("target type detected from source document")
		}
	}
	docType, err := e.resolver.ResolveDocumentType(cfg.TargetFamily, hint)
	if err != nil {
		return schema.DocumentType{}, fmt.Errorf("resolve target document type: %w", err)
	}
	return docType, nil
}

// detectDocumentType inspects the source document for a type name: a
// DocumentType element/field anywhere near the root wins, else the root
// element name itself.
func detectDocumentType(doc document.Document) string {
	n, ok := doc.(*document.Node)
	if !ok {
		return ""
	}
	candidates := []document.Path{
		document.NewPath(document.Segment{Name: "DocumentType"}),
		document.NewPath(document.Segment{Name: n.Name}, document.Segment{Name: "DocumentType"}),
	}
	for _, p := range candidates {
		if v := n.Extract(p); v.Present() && v.Str() != "" {
			return v.Str()
		}
	}
	return n.Name
}

func (e *Executor) reorder(ctx context.Context, docType schema.DocumentType, output *document.Node) error {
	var tableErr error
	document.Reorder(output, func(contextPath string) ([]string, bool) {
		order, ok, err := e.resolver.ElementOrder(ctx, docType, contextPath)
		if err != nil {
			tableErr = err
			return nil, false
		}
		return order, ok
	})
	return tableErr
}

func (e *Executor) observe(result string, issues int) {
	if e.metrics == nil {
		return
	}
	e.metrics.ExecutionsTotal.WithLabelValues(result).Inc()
	if issues > 0 {
		e.metrics.ExecutionIssues.Add(float64(issues))
	}
}

func (e *Executor) countConnection(result string) {
	if e.metrics != nil {
		e.metrics.ConnectionsTotal.WithLabelValues(result).Inc()
	}
}

func sourceList(conn mapping.Connection) string {
	if len(conn.SourcePaths) == 1 {
		return conn.SourcePaths[0].String()
	}
	s := ""
	for i, p := range conn.SourcePaths {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s
}
