package document_test

import (
	"testing"

	"github.com/mapforge/mapforge/domain/document"
)

func childNames(n *document.Node) []string {
	names := make([]string, len(n.Children))
	for i, c := range n.Children {
		names[i] = c.Name
	}
	return names
}

func TestReorder(t *testing.T) {
	root := document.NewNode("Invoice")
	root.Append(document.NewNode("Note"))
	root.Append(document.NewNode("ID"))
	root.Append(document.NewNode("IssueDate"))

	orders := map[string][]string{
		"Invoice": {"ID", "IssueDate", "Note"},
	}
	document.Reorder(root, func(ctx string) ([]string, bool) {
		o, ok := orders[ctx]
		return o, ok
	})

	want := []string{"ID", "IssueDate", "Note"}
	got := childNames(root)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("children = %v, want %v", got, want)
		}
	}
}

// Children the schema does not declare sort after all declared ones, and
// equal-ranked children keep insertion order.
func TestReorder_UnknownAfterKnown_Stable(t *testing.T) {
	root := document.NewNode("Invoice")
	root.Append(document.NewNode("Extension"))
	root.Append(document.NewNode("Custom"))
	root.Append(document.NewNode("ID"))

	document.Reorder(root, func(ctx string) ([]string, bool) {
		if ctx == "Invoice" {
			return []string{"ID"}, true
		}
		return nil, false
	})

	want := []string{"ID", "Extension", "Custom"}
	got := childNames(root)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("children = %v, want %v", got, want)
		}
	}
}

// Unconstrained contexts keep their children exactly as written.
func TestReorder_UnconstrainedContextUntouched(t *testing.T) {
	root := document.NewNode("Invoice")
	root.Append(document.NewNode("B"))
	root.Append(document.NewNode("A"))

	document.Reorder(root, func(ctx string) ([]string, bool) {
		return nil, false
	})

	got := childNames(root)
	if got[0] != "B" || got[1] != "A" {
		t.Fatalf("children = %v, want [B A]", got)
	}
}

func TestReorder_NestedContexts(t *testing.T) {
	root := document.NewNode("Invoice")
	line := root.Append(document.NewNode("InvoiceLine"))
	line.Append(document.NewNode("Price"))
	line.Append(document.NewNode("ID"))

	orders := map[string][]string{
		"Invoice.InvoiceLine": {"ID", "Price"},
	}
	document.Reorder(root, func(ctx string) ([]string, bool) {
		o, ok := orders[ctx]
		return o, ok
	})

	got := childNames(line)
	if got[0] != "ID" || got[1] != "Price" {
		t.Fatalf("line children = %v, want [ID Price]", got)
	}
}

// Repeated same-named siblings keep their relative order: reordering groups
// by name rank but never swaps two Lines.
func TestReorder_RepeatedSiblingsKeepRelativeOrder(t *testing.T) {
	root := document.NewNode("Invoice")
	l1 := root.Append(document.NewNode("Line"))
	l1.Text = "first"
	root.Append(document.NewNode("ID"))
	l2 := root.Append(document.NewNode("Line"))
	l2.Text = "second"

	document.Reorder(root, func(ctx string) ([]string, bool) {
		if ctx == "Invoice" {
			return []string{"ID", "Line"}, true
		}
		return nil, false
	})

	got := childNames(root)
	if got[0] != "ID" || got[1] != "Line" || got[2] != "Line" {
		t.Fatalf("children = %v", got)
	}
	if root.Children[1].Text != "first" || root.Children[2].Text != "second" {
		t.Error("repeated siblings changed relative order")
	}
}
