// Package xsd implements the schema resolver: document-type disambiguation
// within a schema family and element-order tables derived from XSD
// structural definition files.
//
// Only the subset of XSD needed to resolve element ordering and cardinality
// is modeled (global elements, named and inline complex types, sequences,
// choices, imports/includes). Everything else in a schema file is ignored.
package xsd

import (
	"encoding/xml"
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/mapforge/mapforge/domain/schema"
)

// maxDepth bounds the context walk so recursive type definitions cannot
// loop the builder. UBL-class schemas nest well below this.
const maxDepth = 24

type xsdSchema struct {
	XMLName      xml.Name         `xml:"schema"`
	Imports      []xsdImport      `xml:"import"`
	Includes     []xsdImport      `xml:"include"`
	Elements     []xsdElement     `xml:"element"`
	ComplexTypes []xsdComplexType `xml:"complexType"`
}

type xsdImport struct {
	SchemaLocation string `xml:"schemaLocation,attr"`
}

type xsdElement struct {
	Name        string          `xml:"name,attr"`
	Ref         string          `xml:"ref,attr"`
	Type        string          `xml:"type,attr"`
	MinOccurs   string          `xml:"minOccurs,attr"`
	MaxOccurs   string          `xml:"maxOccurs,attr"`
	ComplexType *xsdComplexType `xml:"complexType"`
}

type xsdComplexType struct {
	Name     string       `xml:"name,attr"`
	Sequence *xsdSequence `xml:"sequence"`
}

type xsdSequence struct {
	Elements  []xsdElement  `xml:"element"`
	Sequences []xsdSequence `xml:"sequence"`
	Choices   []xsdChoice   `xml:"choice"`
}

type xsdChoice struct {
	Elements []xsdElement `xml:"element"`
}

// schemaSet is the closed dependency set of one document type: the primary
// file plus everything transitively imported or included.
type schemaSet struct {
	elements map[string]xsdElement     // global element declarations by local name
	types    map[string]xsdComplexType // named complex types by local name
	rootName string                    // first global element of the primary file
}

// loadSchemaSet parses the primary file and all reachable imports/includes.
// Each file is visited at most once, which breaks import cycles. A parse
// error anywhere in the set is fatal for the whole set.
func loadSchemaSet(fsys fs.FS, primary string) (*schemaSet, error) {
	set := &schemaSet{
		elements: make(map[string]xsdElement),
		types:    make(map[string]xsdComplexType),
	}
	visited := make(map[string]bool)

	var visit func(file string, isPrimary bool) error
	visit = func(file string, isPrimary bool) error {
		clean := path.Clean(file)
		if visited[clean] {
			return nil
		}
		visited[clean] = true

		data, err := fs.ReadFile(fsys, clean)
		if err != nil {
			return fmt.Errorf("read schema file %s: %w", clean, err)
		}
		var doc xsdSchema
		if err := xml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse schema file %s: %w", clean, err)
		}

		for _, el := range doc.Elements {
			if el.Name == "" {
				continue
			}
			if isPrimary && set.rootName == "" {
				set.rootName = el.Name
			}
			if _, exists := set.elements[el.Name]; !exists {
				set.elements[el.Name] = el
			}
		}
		for _, ct := range doc.ComplexTypes {
			if ct.Name == "" {
				continue
			}
			if _, exists := set.types[ct.Name]; !exists {
				set.types[ct.Name] = ct
			}
		}

		dir := path.Dir(clean)
		for _, imp := range append(doc.Imports, doc.Includes...) {
			if imp.SchemaLocation == "" {
				continue
			}
			if err := visit(path.Join(dir, imp.SchemaLocation), false); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(primary, true); err != nil {
		return nil, err
	}
	if set.rootName == "" {
		return nil, fmt.Errorf("schema file %s declares no root element", primary)
	}
	return set, nil
}

// buildOrderTable derives the per-context child ordering for the set's root
// element. Contexts are dotted paths of local ancestor names starting at
// the root. Recursive type references are cut at the first repeat on the
// current walk stack.
func buildOrderTable(set *schemaSet) (*schema.OrderTable, error) {
	root, ok := set.elements[set.rootName]
	if !ok {
		return nil, fmt.Errorf("root element %s not declared", set.rootName)
	}

	table := schema.NewOrderTable()
	onStack := make(map[string]bool)

	var walk func(ctxPath string, el xsdElement, depth int)
	walk = func(ctxPath string, el xsdElement, depth int) {
		if depth > maxDepth {
			return
		}
		typeName, children := set.childrenOf(el)
		if len(children) == 0 {
			return
		}
		if typeName != "" {
			if onStack[typeName] {
				return
			}
			onStack[typeName] = true
			defer delete(onStack, typeName)
		}

		constraints := make([]schema.Element, 0, len(children))
		for _, child := range children {
			name := childLocalName(child)
			if name == "" {
				continue
			}
			constraints = append(constraints, schema.Element{
				Name: name,
				Min:  parseOccurs(child.MinOccurs, 1),
				Max:  parseOccurs(child.MaxOccurs, 1),
			})
		}
		table.Set(ctxPath, constraints)

		for _, child := range children {
			name := childLocalName(child)
			if name == "" {
				continue
			}
			decl := set.resolveElement(child)
			walk(ctxPath+"."+name, decl, depth+1)
		}
	}

	walk(set.rootName, root, 0)
	return table, nil
}

// childrenOf resolves an element declaration to its ordered children, via
// its inline complex type or its named type's sequence. The returned type
// name is empty for inline types.
func (s *schemaSet) childrenOf(el xsdElement) (string, []xsdElement) {
	ct := el.ComplexType
	typeName := ""
	if ct == nil && el.Type != "" {
		typeName = localName(el.Type)
		named, ok := s.types[typeName]
		if !ok {
			return "", nil
		}
		ct = &named
	}
	if ct == nil || ct.Sequence == nil {
		return typeName, nil
	}
	return typeName, flattenSequence(ct.Sequence)
}

// resolveElement follows a ref to its global declaration; non-ref elements
// resolve to themselves.
func (s *schemaSet) resolveElement(el xsdElement) xsdElement {
	if el.Ref == "" {
		return el
	}
	if decl, ok := s.elements[localName(el.Ref)]; ok {
		return decl
	}
	return el
}

// flattenSequence returns the sequence's elements in declared order,
// descending into nested sequences and choices. Choice members keep their
// declared relative order; the order table only decides serialization
// order, not which choice branch is valid.
func flattenSequence(seq *xsdSequence) []xsdElement {
	var out []xsdElement
	out = append(out, seq.Elements...)
	for i := range seq.Sequences {
		out = append(out, flattenSequence(&seq.Sequences[i])...)
	}
	for _, ch := range seq.Choices {
		out = append(out, ch.Elements...)
	}
	return out
}

func childLocalName(el xsdElement) string {
	if el.Name != "" {
		return el.Name
	}
	return localName(el.Ref)
}

func localName(qname string) string {
	if i := strings.LastIndex(qname, ":"); i >= 0 {
		return qname[i+1:]
	}
	return qname
}

func parseOccurs(s string, def int) int {
	switch s {
	case "":
		return def
	case "unbounded":
		return -1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
