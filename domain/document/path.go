package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Path addresses a single scalar inside a document. It has two variants:
// a hierarchical element path for tree documents, and a segment/field
// offset reference for positional flat records. A Path is immutable once
// created.
type Path struct {
	segments []Segment
	flat     *FlatRef
}

// Segment is one step of a hierarchical path. Index selects among repeated
// same-named siblings (0 = first). Attr addresses an attribute of the
// element reached so far instead of a child element.
type Segment struct {
	Name  string
	Index int
	Attr  bool
}

// FlatRef addresses a fixed-offset field inside a named segment of a
// positional flat record.
type FlatRef struct {
	Segment string
	Field   string
	Offset  int
	Length  int
}

// NewPath builds a hierarchical path from segments.
func NewPath(segments ...Segment) Path {
	cp := make([]Segment, len(segments))
	copy(cp, segments)
	return Path{segments: cp}
}

// NewFlatPath builds a positional path.
func NewFlatPath(segment, field string, offset, length int) Path {
	return Path{flat: &FlatRef{Segment: segment, Field: field, Offset: offset, Length: length}}
}

// IsFlat reports whether the path addresses a positional record field.
func (p Path) IsFlat() bool { return p.flat != nil }

// IsZero reports whether the path is empty.
func (p Path) IsZero() bool { return p.flat == nil && len(p.segments) == 0 }

// Segments returns a copy of the hierarchical segments.
func (p Path) Segments() []Segment {
	cp := make([]Segment, len(p.segments))
	copy(cp, p.segments)
	return cp
}

// Flat returns the positional reference, or nil for hierarchical paths.
func (p Path) Flat() *FlatRef {
	if p.flat == nil {
		return nil
	}
	f := *p.flat
	return &f
}

// ParsePath parses the textual path form.
//
// Hierarchical: "Invoice/InvoiceLine[1]/LineExtensionAmount" with optional
// "[n]" sibling indexes and "@name" for a trailing attribute. Namespace
// prefixes ("cbc:ID") are accepted and reduced to the local name.
//
// Positional: "SEGMENT/FIELD@offset+length", e.g. "E1EDK01/CURCY@12+3".
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "/"))
	if s == "" {
		return Path{}, fmt.Errorf("empty path")
	}

	if seg, field, off, length, ok := parseFlatForm(s); ok {
		if off < 0 || length <= 0 {
			return Path{}, fmt.Errorf("flat path %q: offset must be >= 0 and length > 0", s)
		}
		return NewFlatPath(seg, field, off, length), nil
	}

	parts := strings.Split(s, "/")
	segments := make([]Segment, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		seg := Segment{}
		if strings.HasPrefix(part, "@") {
			seg.Attr = true
			part = part[1:]
		}
		if i := strings.Index(part, "["); i >= 0 && strings.HasSuffix(part, "]") {
			idx, err := strconv.Atoi(part[i+1 : len(part)-1])
			if err != nil || idx < 0 {
				return Path{}, fmt.Errorf("path %q: bad index in segment %q", s, part)
			}
			seg.Index = idx
			part = part[:i]
		}
		seg.Name = localName(part)
		if seg.Name == "" {
			return Path{}, fmt.Errorf("path %q: empty segment name", s)
		}
		segments = append(segments, seg)
	}
	if len(segments) == 0 {
		return Path{}, fmt.Errorf("empty path")
	}
	return NewPath(segments...), nil
}

// parseFlatForm recognizes "SEGMENT/FIELD@offset+length".
func parseFlatForm(s string) (seg, field string, off, length int, ok bool) {
	at := strings.LastIndex(s, "@")
	if at < 0 {
		return "", "", 0, 0, false
	}
	ref := s[at+1:]
	plus := strings.Index(ref, "+")
	if plus < 0 {
		return "", "", 0, 0, false
	}
	o, err1 := strconv.Atoi(ref[:plus])
	l, err2 := strconv.Atoi(ref[plus+1:])
	if err1 != nil || err2 != nil {
		return "", "", 0, 0, false
	}
	head := s[:at]
	slash := strings.LastIndex(head, "/")
	if slash < 0 {
		return "", "", 0, 0, false
	}
	return head[:slash], head[slash+1:], o, l, true
}

// String renders the canonical textual form, parseable by ParsePath.
func (p Path) String() string {
	if p.flat != nil {
		return fmt.Sprintf("%s/%s@%d+%d", p.flat.Segment, p.flat.Field, p.flat.Offset, p.flat.Length)
	}
	var b strings.Builder
	for i, seg := range p.segments {
		if i > 0 {
			b.WriteByte('/')
		}
		if seg.Attr {
			b.WriteByte('@')
		}
		b.WriteString(seg.Name)
		if seg.Index > 0 {
			fmt.Fprintf(&b, "[%d]", seg.Index)
		}
	}
	return b.String()
}

// Equal reports structural equality of two paths.
func (p Path) Equal(o Path) bool { return p.String() == o.String() }

// MarshalText implements encoding.TextMarshaler.
func (p Path) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Path) UnmarshalText(text []byte) error {
	parsed, err := ParsePath(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// localName strips a namespace prefix ("cbc:ID" -> "ID").
func localName(name string) string {
	if i := strings.LastIndex(name, ":"); i >= 0 {
		return name[i+1:]
	}
	return name
}
