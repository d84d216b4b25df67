package app_test

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/mapforge/mapforge/app"
	"github.com/mapforge/mapforge/domain/document"
	"github.com/mapforge/mapforge/domain/mapping"
	"github.com/mapforge/mapforge/domain/transform"
)

func TestReverser_Invert(t *testing.T) {
	r := app.NewReverser(zerolog.Nop())

	cfg := mapping.Config{
		Name:         "order-to-invoice",
		SourceFamily: "idoc",
		SourceType:   "ORDERS05",
		TargetFamily: "ubl",
		TargetType:   "Invoice",
		Connections: []mapping.Connection{
			{
				ID:          "c1",
				SourcePaths: []document.Path{mustPath(t, "Order/Date")},
				TargetPath:  mustPath(t, "Invoice/IssueDate"),
				Transform:   transform.Rule{Kind: transform.KindDateFormat, FromFmt: "20060102", ToFmt: "2006-01-02"},
			},
			{
				ID:          "c2",
				SourcePaths: []document.Path{mustPath(t, "Order/Net"), mustPath(t, "Order/Tax")},
				TargetPath:  mustPath(t, "Invoice/Total"),
				Transform:   transform.Rule{Kind: transform.KindArithmetic, Op: transform.OpSum},
			},
		},
	}

	inv := r.Invert(cfg)

	if inv.Name != "order-to-invoice-reversed" {
		t.Errorf("Name = %q", inv.Name)
	}
	if inv.SourceFamily != "ubl" || inv.SourceType != "Invoice" ||
		inv.TargetFamily != "idoc" || inv.TargetType != "ORDERS05" {
		t.Errorf("metadata not swapped: %+v", inv)
	}
	if len(inv.Connections) != 2 {
		t.Fatalf("connections = %d", len(inv.Connections))
	}

	c1 := inv.Connections[0]
	if c1.SourcePaths[0].String() != "Invoice/IssueDate" || c1.TargetPath.String() != "Order/Date" {
		t.Errorf("c1 paths not swapped: %+v", c1)
	}
	if c1.Transform.Kind != transform.KindDateFormat || c1.Transform.FromFmt != "2006-01-02" {
		t.Errorf("c1 transform not inverted: %+v", c1.Transform)
	}
	if c1.ApproxInverse {
		t.Error("dateformat inverse is exact")
	}

	// Multi-source arithmetic has no faithful inverse: first source becomes
	// the target, flagged approximate.
	c2 := inv.Connections[1]
	if c2.TargetPath.String() != "Order/Net" {
		t.Errorf("c2 target = %q", c2.TargetPath.String())
	}
	if !c2.ApproxInverse {
		t.Error("lossy inverse must be flagged")
	}
	if c2.Transform.Kind != transform.KindDirect {
		t.Errorf("c2 transform = %q", c2.Transform.Kind)
	}
}

// Inversion never fails: degenerate connections are dropped, not fatal.
func TestReverser_Invert_SkipsDegenerate(t *testing.T) {
	r := app.NewReverser(zerolog.Nop())

	cfg := mapping.Config{
		Name: "partial",
		Connections: []mapping.Connection{
			{ID: "empty"},
			conn(t, "good", "A/X", "B/Y"),
		},
	}

	inv := r.Invert(cfg)
	if len(inv.Connections) != 1 || inv.Connections[0].ID != "good" {
		t.Fatalf("connections = %+v", inv.Connections)
	}
}

// A reversed exact mapping round-trips a value end to end.
func TestReverser_Invert_RoundTripExecution(t *testing.T) {
	reverser := app.NewReverser(zerolog.Nop())
	e := newExecutor(invoiceResolver())

	cfg := mapping.Config{
		Name:         "fwd",
		TargetFamily: "ubl",
		TargetType:   "Invoice",
		Connections: []mapping.Connection{{
			ID:          "c1",
			SourcePaths: []document.Path{mustPath(t, "Order/Date")},
			TargetPath:  mustPath(t, "Invoice/IssueDate"),
			Transform:   transform.Rule{Kind: transform.KindDateFormat, FromFmt: "20060102", ToFmt: "2006-01-02"},
		}},
	}

	forward, err := e.Execute(t.Context(), cfg, sourceDoc())
	if err != nil {
		t.Fatal(err)
	}

	inv := reverser.Invert(cfg)
	inv.TargetFamily = "ubl"
	inv.TargetType = "Order"

	back, err := e.Execute(t.Context(), inv, forward.Output)
	if err != nil {
		t.Fatal(err)
	}
	if got := back.Output.Extract(mustPath(t, "Order/Date")).Str(); got != "20260115" {
		t.Errorf("round trip Date = %q, want 20260115", got)
	}
}
