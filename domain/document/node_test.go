package document_test

import (
	"testing"

	"github.com/mapforge/mapforge/domain/document"
)

// orderTree builds:
//
//	Order
//	  Header
//	    Date = 2026-01-15
//	  Line (Qty=5, unit="EA")
//	  Line (Qty=7)
func orderTree() *document.Node {
	root := document.NewNode("Order")
	header := root.Append(document.NewNode("Header"))
	date := header.Append(document.NewNode("Date"))
	date.Text = "2026-01-15"

	line1 := root.Append(document.NewNode("Line"))
	line1.SetAttr("unit", "EA")
	q1 := line1.Append(document.NewNode("Qty"))
	q1.Text = "5"

	line2 := root.Append(document.NewNode("Line"))
	q2 := line2.Append(document.NewNode("Qty"))
	q2.Text = "7"

	return root
}

func TestNode_Extract(t *testing.T) {
	root := orderTree()

	tests := []struct {
		name string
		path string
		want string
		ok   bool
	}{
		{name: "with root segment", path: "Order/Header/Date", want: "2026-01-15", ok: true},
		{name: "without root segment", path: "Header/Date", want: "2026-01-15", ok: true},
		{name: "first sibling by default", path: "Order/Line/Qty", want: "5", ok: true},
		{name: "indexed sibling", path: "Order/Line[1]/Qty", want: "7", ok: true},
		{name: "attribute", path: "Order/Line/@unit", want: "EA", ok: true},
		{name: "missing element", path: "Order/Footer/Total", ok: false},
		{name: "missing attribute", path: "Order/Line[1]/@unit", ok: false},
		{name: "index out of range", path: "Order/Line[5]/Qty", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := document.ParsePath(tt.path)
			if err != nil {
				t.Fatal(err)
			}
			v := root.Extract(p)
			if v.Present() != tt.ok {
				t.Fatalf("Present() = %v, want %v", v.Present(), tt.ok)
			}
			if tt.ok && v.Str() != tt.want {
				t.Errorf("Str() = %q, want %q", v.Str(), tt.want)
			}
		})
	}
}

// Repeated siblings must never be concatenated: the path selects exactly
// one, the first unless indexed.
func TestNode_Extract_NoAggregation(t *testing.T) {
	root := orderTree()
	p, _ := document.ParsePath("Order/Line/Qty")
	if got := root.Extract(p).Str(); got != "5" {
		t.Errorf("unindexed extraction = %q, want first sibling %q", got, "5")
	}
}

func TestNode_Place(t *testing.T) {
	root := document.NewNode("Invoice")

	p, _ := document.ParsePath("Invoice/Supplier/Name")
	root.Place(p, document.String("Acme"))

	if got := root.Extract(p).Str(); got != "Acme" {
		t.Errorf("Extract after Place = %q", got)
	}
	if len(root.Children) != 1 || root.Children[0].Name != "Supplier" {
		t.Fatalf("containers not created: %+v", root.Children)
	}
}

func TestNode_Place_IndexedSiblings(t *testing.T) {
	root := document.NewNode("Invoice")

	p, _ := document.ParsePath("Invoice/Line[2]/ID")
	root.Place(p, document.String("L3"))

	lines := 0
	for _, c := range root.Children {
		if c.Name == "Line" {
			lines++
		}
	}
	if lines != 3 {
		t.Fatalf("expected 3 Line siblings, got %d", lines)
	}
	if got := root.Extract(p).Str(); got != "L3" {
		t.Errorf("Extract = %q, want L3", got)
	}
	first, _ := document.ParsePath("Invoice/Line/ID")
	if root.Extract(first).Present() {
		t.Error("first sibling should have no ID text")
	}
}

func TestNode_Place_Attribute(t *testing.T) {
	root := document.NewNode("Invoice")
	p, _ := document.ParsePath("Invoice/Total/@currencyID")
	root.Place(p, document.String("EUR"))

	if got := root.Extract(p).Str(); got != "EUR" {
		t.Errorf("Extract = %q, want EUR", got)
	}
}

func TestNode_Place_AbsentIsNoop(t *testing.T) {
	root := document.NewNode("Invoice")
	p, _ := document.ParsePath("Invoice/Supplier/Name")
	root.Place(p, document.Absent)

	if len(root.Children) != 0 {
		t.Error("placing Absent must not create containers")
	}
}

func TestNode_Walk_Contexts(t *testing.T) {
	root := orderTree()

	var contexts []string
	root.Walk(func(ctx string, n *document.Node) {
		contexts = append(contexts, ctx)
	})

	want := []string{
		"Order",
		"Order.Header",
		"Order.Header.Date",
		"Order.Line",
		"Order.Line.Qty",
		"Order.Line",
		"Order.Line.Qty",
	}
	if len(contexts) != len(want) {
		t.Fatalf("visited %d nodes, want %d: %v", len(contexts), len(want), contexts)
	}
	for i := range want {
		if contexts[i] != want[i] {
			t.Errorf("context[%d] = %q, want %q", i, contexts[i], want[i])
		}
	}
}
