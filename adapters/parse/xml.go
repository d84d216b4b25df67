// Package parse provides the format-specific parsers that decode raw
// source bytes into engine documents, and the matching serializers for
// output trees. The engine itself only sees parsed documents.
package parse

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/mapforge/mapforge/domain/document"
)

// XML decodes a hierarchical markup document into a document tree.
// Namespace prefixes are dropped: the engine addresses elements by local
// name, matching how field paths are written in mapping configurations.
func XML(data []byte) (*document.Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var root *document.Node
	var stack []*document.Node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := document.NewNode(t.Name.Local)
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				n.SetAttr(a.Name.Local, a.Value)
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("parse xml: multiple root elements")
				}
				root = n
			} else {
				stack[len(stack)-1].Append(n)
			}
			stack = append(stack, n)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("parse xml: unbalanced end element %s", t.Name.Local)
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) > 0 {
				if text := strings.TrimSpace(string(t)); text != "" {
					stack[len(stack)-1].Text += text
				}
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("parse xml: empty document")
	}
	return root, nil
}

// WriteXML serializes a document tree with two-space indentation. Only
// leaf text and attributes are emitted; container nodes emit children in
// their current (already reordered) order.
func WriteXML(w io.Writer, root *document.Node) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	return writeNode(w, root, 0)
}

func writeNode(w io.Writer, n *document.Node, depth int) error {
	indent := strings.Repeat("  ", depth)

	var attrs strings.Builder
	for _, a := range n.Attrs {
		fmt.Fprintf(&attrs, ` %s="%s"`, a.Name, escapeXML(a.Value))
	}

	switch {
	case len(n.Children) == 0 && n.Text == "":
		_, err := fmt.Fprintf(w, "%s<%s%s/>\n", indent, n.Name, attrs.String())
		return err
	case len(n.Children) == 0:
		_, err := fmt.Fprintf(w, "%s<%s%s>%s</%s>\n", indent, n.Name, attrs.String(), escapeXML(n.Text), n.Name)
		return err
	default:
		if _, err := fmt.Fprintf(w, "%s<%s%s>\n", indent, n.Name, attrs.String()); err != nil {
			return err
		}
		for _, c := range n.Children {
			if err := writeNode(w, c, depth+1); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "%s</%s>\n", indent, n.Name)
		return err
	}
}

func escapeXML(s string) string {
	var b bytes.Buffer
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
