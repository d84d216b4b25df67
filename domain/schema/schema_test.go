package schema_test

import (
	"testing"

	"github.com/mapforge/mapforge/domain/schema"
)

func TestOrderTable_FirstSetWins(t *testing.T) {
	table := schema.NewOrderTable()
	table.Set("Invoice", []schema.Element{{Name: "ID", Min: 1, Max: 1}})
	table.Set("Invoice", []schema.Element{{Name: "Other", Min: 0, Max: 1}})

	order, ok := table.Order("Invoice")
	if !ok {
		t.Fatal("context should be constrained")
	}
	if len(order) != 1 || order[0] != "ID" {
		t.Errorf("order = %v, want [ID]", order)
	}
}

func TestOrderTable_UnknownContext(t *testing.T) {
	table := schema.NewOrderTable()
	table.Set("Invoice", nil)

	if _, ok := table.Order("Invoice.Unknown"); ok {
		t.Error("unknown context must report ok=false")
	}
	// Known but empty is constrained.
	if order, ok := table.Order("Invoice"); !ok || len(order) != 0 {
		t.Errorf("empty context: order=%v ok=%v", order, ok)
	}
}

func TestOrderTable_ElementsCopies(t *testing.T) {
	table := schema.NewOrderTable()
	table.Set("Invoice", []schema.Element{{Name: "ID", Min: 1, Max: 1}})

	elems, _ := table.Elements("Invoice")
	elems[0].Name = "mutated"

	again, _ := table.Elements("Invoice")
	if again[0].Name != "ID" {
		t.Error("Elements must return a copy")
	}
}

func TestDocumentType_Key(t *testing.T) {
	dt := schema.DocumentType{FamilyID: "ubl", RootElement: "Invoice"}
	if dt.Key() != "ubl/Invoice" {
		t.Errorf("Key() = %q", dt.Key())
	}
}

func TestField_Tokens(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{path: "Invoice/IssueDate", want: []string{"invoice", "issue", "date"}},
		{path: "E1EDK01/CURCY@8+5", want: []string{"e1edk01", "curcy", "8+5"}},
		{path: "order_header/doc-date", want: []string{"order", "header", "doc", "date"}},
	}
	for _, tt := range tests {
		f := schema.Field{Path: tt.path}
		got := f.Tokens()
		if len(got) != len(tt.want) {
			t.Errorf("Tokens(%q) = %v, want %v", tt.path, got, tt.want)
			continue
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("Tokens(%q)[%d] = %q, want %q", tt.path, i, got[i], tt.want[i])
			}
		}
	}
}

func TestField_LastSegment(t *testing.T) {
	f := schema.Field{Path: "Invoice/Supplier/Name"}
	if f.LastSegment() != "name" {
		t.Errorf("LastSegment() = %q", f.LastSegment())
	}
	dotted := schema.Field{Path: "Header.DocDate"}
	if dotted.LastSegment() != "docdate" {
		t.Errorf("LastSegment() = %q", dotted.LastSegment())
	}
}
