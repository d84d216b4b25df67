// Package schema provides value types for schema families, document type
// descriptors, and derived element-order tables.
package schema

import "strings"

// Family identifies a set of related document type definitions, e.g. one
// UBL version. Definition filenames inside a family follow the
// "<Prefix>-<RootElement>-<version>" convention.
type Family struct {
	ID     string
	Prefix string
	Dir    string
}

// DocumentType is one structural variant within a family, identified by its
// root element name and backed by a primary definition file (which may
// import further files).
type DocumentType struct {
	FamilyID       string
	RootElement    string
	DefinitionFile string
}

// Key returns the cache identity of the document type.
func (d DocumentType) Key() string {
	return d.FamilyID + "/" + d.RootElement
}

// Element is one expected child within a context: its local name and its
// occurrence constraints. Max < 0 means unbounded.
type Element struct {
	Name string
	Min  int
	Max  int
}

// OrderTable maps a dotted element context (ancestor local names joined
// with ".") to the ordered list of expected children. The table is built
// once per document type and immutable afterwards.
type OrderTable struct {
	entries map[string][]Element
}

// NewOrderTable creates an empty table.
func NewOrderTable() *OrderTable {
	return &OrderTable{entries: make(map[string][]Element)}
}

// Set records the child sequence for a context. Later calls for the same
// context are ignored: the first complete definition wins, which keeps
// repeated type references from flip-flopping the table.
func (t *OrderTable) Set(contextPath string, children []Element) {
	if _, exists := t.entries[contextPath]; exists {
		return
	}
	cp := make([]Element, len(children))
	copy(cp, children)
	t.entries[contextPath] = cp
}

// Order returns the expected child names for a context. Unknown contexts
// return ok=false ("no constraint"), never an error: schemas are only
// partially modeled and pass-through is the correct behavior for contexts
// the table does not cover. An ordered-but-empty context returns an empty
// slice with ok=true.
func (t *OrderTable) Order(contextPath string) ([]string, bool) {
	elems, ok := t.entries[contextPath]
	if !ok {
		return nil, false
	}
	names := make([]string, len(elems))
	for i, e := range elems {
		names[i] = e.Name
	}
	return names, true
}

// Elements returns the full child constraints for a context.
func (t *OrderTable) Elements(contextPath string) ([]Element, bool) {
	elems, ok := t.entries[contextPath]
	if !ok {
		return nil, false
	}
	cp := make([]Element, len(elems))
	copy(cp, elems)
	return cp, true
}

// Len returns the number of constrained contexts.
func (t *OrderTable) Len() int { return len(t.entries) }

// Field is a named, addressable leaf of a schema, as presented to the
// auto-mapper. Declaration order of a []Field slice is significant.
type Field struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Path         string `json:"path"`
	BusinessTerm string `json:"business_term,omitempty"`
}

// Tokens splits a field path into lower-cased name tokens for similarity
// scoring: separators and case boundaries both split.
func (f Field) Tokens() []string {
	var tokens []string
	for _, part := range strings.FieldsFunc(f.Path, func(r rune) bool {
		return r == '/' || r == '.' || r == '_' || r == '-' || r == '@' || r == ':'
	}) {
		tokens = append(tokens, splitCamel(part)...)
	}
	return tokens
}

// LastSegment returns the final path component, lower-cased.
func (f Field) LastSegment() string {
	path := f.Path
	for _, sep := range []string{"/", "."} {
		if i := strings.LastIndex(path, sep); i >= 0 {
			path = path[i+1:]
		}
	}
	return strings.ToLower(path)
}

func splitCamel(s string) []string {
	var out []string
	start := 0
	for i := 1; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' && s[i-1] >= 'a' && s[i-1] <= 'z' {
			out = append(out, strings.ToLower(s[start:i]))
			start = i
		}
	}
	out = append(out, strings.ToLower(s[start:]))
	return out
}
