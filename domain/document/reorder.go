package document

import "sort"

// OrderFunc returns the expected child-element order for a dotted context
// path (ancestor names joined with "."), or ok=false when the context is
// unconstrained. Unconstrained contexts keep their children as written.
type OrderFunc func(contextPath string) (order []string, ok bool)

// Reorder sorts every container's children per the order function: children
// are ranked by their position in the declared order, children the schema
// does not mention rank after all declared ones, and ties keep insertion
// order (stable sort). The walk covers the whole tree so nested containers
// are reordered against their own context.
func Reorder(root *Node, order OrderFunc) {
	if root == nil || order == nil {
		return
	}
	root.Walk(func(ctx string, n *Node) {
		if len(n.Children) < 2 {
			return
		}
		declared, ok := order(ctx)
		if !ok || len(declared) == 0 {
			return
		}
		rank := make(map[string]int, len(declared))
		for i, name := range declared {
			rank[localName(name)] = i
		}
		unknown := len(declared)
		sort.SliceStable(n.Children, func(i, j int) bool {
			ri, ok := rank[n.Children[i].Name]
			if !ok {
				ri = unknown
			}
			rj, ok := rank[n.Children[j].Name]
			if !ok {
				rj = unknown
			}
			return ri < rj
		})
	})
}
