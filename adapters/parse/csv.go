package parse

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/mapforge/mapforge/domain/document"
)

// CSV decodes tabular records into a document tree: a "rows" root with one
// "row" child per data record and one child element per column, named by
// the header. Hierarchical paths then address cells as "rows/row[2]/Name".
func CSV(data []byte, comma rune) (*document.Node, error) {
	r := csv.NewReader(bytes.NewReader(data))
	if comma != 0 {
		r.Comma = comma
	}
	r.FieldsPerRecord = -1 // ragged rows are the source system's problem, not a parse error

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse csv: empty document")
	}

	header := records[0]
	root := document.NewNode("rows")
	for _, rec := range records[1:] {
		row := root.Append(document.NewNode("row"))
		for i, cell := range rec {
			if i >= len(header) || header[i] == "" {
				continue
			}
			col := row.Append(document.NewNode(sanitizeName(header[i])))
			col.Text = cell
		}
	}
	return root, nil
}

// sanitizeName makes a CSV header usable as an element name.
func sanitizeName(h string) string {
	out := make([]rune, 0, len(h))
	for _, r := range h {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			out = append(out, r)
		case r == ' ':
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "column"
	}
	return string(out)
}
