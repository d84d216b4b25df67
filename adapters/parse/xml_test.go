package parse_test

import (
	"strings"
	"testing"

	"github.com/mapforge/mapforge/adapters/parse"
	"github.com/mapforge/mapforge/domain/document"
)

func TestXML(t *testing.T) {
	data := []byte(`<?xml version="1.0"?>
<inv:Invoice xmlns:inv="urn:example:invoice" xmlns:cbc="urn:example:cbc">
  <cbc:ID>INV-1</cbc:ID>
  <inv:Line unit="EA">
    <cbc:Qty>5</cbc:Qty>
  </inv:Line>
  <inv:Line>
    <cbc:Qty>7</cbc:Qty>
  </inv:Line>
</inv:Invoice>`)

	root, err := parse.XML(data)
	if err != nil {
		t.Fatal(err)
	}
	if root.Name != "Invoice" {
		t.Errorf("root = %q, want namespace-stripped Invoice", root.Name)
	}

	id, _ := document.ParsePath("Invoice/ID")
	if got := root.Extract(id).Str(); got != "INV-1" {
		t.Errorf("ID = %q", got)
	}
	unit, _ := document.ParsePath("Invoice/Line/@unit")
	if got := root.Extract(unit).Str(); got != "EA" {
		t.Errorf("unit = %q", got)
	}
	second, _ := document.ParsePath("Invoice/Line[1]/Qty")
	if got := root.Extract(second).Str(); got != "7" {
		t.Errorf("second qty = %q", got)
	}
}

func TestXML_Errors(t *testing.T) {
	for _, tt := range []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "unbalanced", data: "<a><b></a>"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parse.XML([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWriteXML(t *testing.T) {
	root := document.NewNode("Invoice")
	id := root.Append(document.NewNode("ID"))
	id.Text = "INV-1"
	total := root.Append(document.NewNode("Total"))
	total.SetAttr("currencyID", "EUR")
	total.Text = "12.50"
	root.Append(document.NewNode("Empty"))

	var b strings.Builder
	if err := parse.WriteXML(&b, root); err != nil {
		t.Fatal(err)
	}
	out := b.String()

	for _, want := range []string{
		"<Invoice>",
		"  <ID>INV-1</ID>",
		`  <Total currencyID="EUR">12.50</Total>`,
		"  <Empty/>",
		"</Invoice>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteXML_Escaping(t *testing.T) {
	root := document.NewNode("Note")
	root.Text = `a < b & "c"`

	var b strings.Builder
	if err := parse.WriteXML(&b, root); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "a &lt; b &amp;") {
		t.Errorf("text not escaped:\n%s", b.String())
	}
}

func TestXML_RoundTrip(t *testing.T) {
	root := document.NewNode("Order")
	h := root.Append(document.NewNode("Header"))
	d := h.Append(document.NewNode("Date"))
	d.Text = "2026-01-15"

	var b strings.Builder
	if err := parse.WriteXML(&b, root); err != nil {
		t.Fatal(err)
	}
	again, err := parse.XML([]byte(b.String()))
	if err != nil {
		t.Fatal(err)
	}
	p, _ := document.ParsePath("Order/Header/Date")
	if got := again.Extract(p).Str(); got != "2026-01-15" {
		t.Errorf("round trip lost value: %q", got)
	}
}
