package document

import "strings"

// FlatDocument is a positional flat-record document: an ordered list of
// fixed-width records, each tagged with a segment name.
type FlatDocument struct {
	Records []Record
}

// Record is one line of a positional format. Data is the raw record buffer;
// field offsets in a FlatRef are relative to the start of Data.
type Record struct {
	Segment string
	Data    string
}

// Extract resolves a positional path: the first record whose segment name
// matches is selected and the byte range [Offset, Offset+Length) is sliced
// out and right/left-trimmed per fixed-width padding convention. An unknown
// segment or an out-of-range offset yields Absent, never an error.
func (d *FlatDocument) Extract(p Path) Value {
	ref := p.Flat()
	if ref == nil {
		return Absent
	}
	for _, rec := range d.Records {
		if rec.Segment != ref.Segment {
			continue
		}
		if ref.Offset >= len(rec.Data) {
			return Absent
		}
		end := ref.Offset + ref.Length
		if end > len(rec.Data) {
			end = len(rec.Data)
		}
		return String(strings.TrimSpace(rec.Data[ref.Offset:end]))
	}
	return Absent
}

// Segments returns the distinct segment names in encounter order.
func (d *FlatDocument) Segments() []string {
	seen := make(map[string]bool)
	var names []string
	for _, rec := range d.Records {
		if !seen[rec.Segment] {
			seen[rec.Segment] = true
			names = append(names, rec.Segment)
		}
	}
	return names
}
