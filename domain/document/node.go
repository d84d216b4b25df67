package document

// Node is one element of a hierarchical document tree. Children preserve
// encounter order; re-serialization order is decided later by Reorder.
type Node struct {
	Name     string
	Attrs    []Attr
	Text     string
	Children []*Node
}

// Attr is a named attribute on a Node.
type Attr struct {
	Name  string
	Value string
}

// NewNode creates an element node.
func NewNode(name string) *Node {
	return &Node{Name: name}
}

// Append adds a child and returns it.
func (n *Node) Append(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// Child returns the idx-th child with the given local name, or nil.
func (n *Node) Child(name string, idx int) *Node {
	seen := 0
	for _, c := range n.Children {
		if c.Name == name {
			if seen == idx {
				return c
			}
			seen++
		}
	}
	return nil
}

// Attr returns the named attribute value.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute.
func (n *Node) SetAttr(name, value string) {
	for i, a := range n.Attrs {
		if a.Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// Extract resolves a hierarchical path against the tree. Descent selects
// exactly one child per segment, by explicit index (default: first). Text
// from repeated same-named siblings is never joined into one value; a path
// that wants the second sibling must say so with an index.
//
// The first segment may name either this node or its first child, so paths
// written with or without the document root both resolve.
func (n *Node) Extract(p Path) Value {
	if p.IsFlat() {
		return Absent
	}
	segs := p.Segments()
	if len(segs) == 0 {
		return Absent
	}

	cur := n
	start := 0
	if !segs[0].Attr && segs[0].Name == n.Name && segs[0].Index == 0 {
		start = 1
		if len(segs) == 1 {
			return String(cur.Text)
		}
	}

	for i := start; i < len(segs); i++ {
		seg := segs[i]
		if seg.Attr {
			if i != len(segs)-1 {
				return Absent
			}
			v, ok := cur.Attr(seg.Name)
			if !ok {
				return Absent
			}
			return String(v)
		}
		next := cur.Child(seg.Name, seg.Index)
		if next == nil {
			return Absent
		}
		cur = next
	}
	return String(cur.Text)
}

// Place writes a value at the given path, creating intermediate container
// nodes on first write. The first segment naming the root itself is
// consumed; otherwise placement happens relative to the root. Placing at
// an indexed segment creates the missing same-named siblings.
func (n *Node) Place(p Path, v Value) {
	if p.IsFlat() || !v.Present() {
		return
	}
	segs := p.Segments()
	if len(segs) == 0 {
		return
	}
	if !segs[0].Attr && segs[0].Name == n.Name && segs[0].Index == 0 {
		segs = segs[1:]
		if len(segs) == 0 {
			n.Text = v.Str()
			return
		}
	}

	cur := n
	for i, seg := range segs {
		last := i == len(segs)-1
		if seg.Attr {
			if last {
				cur.SetAttr(seg.Name, v.Str())
			}
			return
		}
		child := cur.Child(seg.Name, seg.Index)
		for child == nil {
			cur.Append(NewNode(seg.Name))
			child = cur.Child(seg.Name, seg.Index)
		}
		if last {
			child.Text = v.Str()
			return
		}
		cur = child
	}
}

// Walk visits the node and all descendants depth-first, passing each node's
// dotted context path (ancestor names joined with ".", starting at this
// node's name).
func (n *Node) Walk(fn func(contextPath string, node *Node)) {
	n.walk(n.Name, fn)
}

func (n *Node) walk(ctx string, fn func(string, *Node)) {
	fn(ctx, n)
	for _, c := range n.Children {
		c.walk(ctx+"."+c.Name, fn)
	}
}
