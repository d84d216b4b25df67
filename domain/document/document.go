package document

// Document is any parsed source a Path can be resolved against.
// *Node serves hierarchical and tabular sources, *FlatDocument serves
// positional flat records.
type Document interface {
	// Extract returns the scalar at the path, or Absent when the path does
	// not resolve. Extraction never aggregates repeated nodes.
	Extract(p Path) Value
}

var (
	_ Document = (*Node)(nil)
	_ Document = (*FlatDocument)(nil)
)
