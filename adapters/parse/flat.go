package parse

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/mapforge/mapforge/domain/document"
)

// FlatOptions controls positional record parsing.
type FlatOptions struct {
	// SegmentNameLength is how many leading bytes of each record hold the
	// segment name (fixed-width convention, e.g. SAP segment identifiers).
	// Zero means the name runs to the first space.
	SegmentNameLength int
}

// Flat decodes a positional flat-record document: one record per line, the
// segment name at the start of each record. Field offsets in flat paths
// are relative to the start of the full record line, so extraction and the
// on-disk layout stay aligned.
func Flat(data []byte, opts FlatOptions) (*document.FlatDocument, error) {
	doc := &document.FlatDocument{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		name := segmentName(line, opts.SegmentNameLength)
		if name == "" {
			return nil, fmt.Errorf("parse flat record: line %d has no segment name", lineNo)
		}
		doc.Records = append(doc.Records, document.Record{Segment: name, Data: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("parse flat record: %w", err)
	}
	if len(doc.Records) == 0 {
		return nil, fmt.Errorf("parse flat record: empty document")
	}
	return doc, nil
}

func segmentName(line string, width int) string {
	if width > 0 {
		if width > len(line) {
			width = len(line)
		}
		return strings.TrimSpace(line[:width])
	}
	if i := strings.IndexByte(line, ' '); i > 0 {
		return line[:i]
	}
	return strings.TrimSpace(line)
}
