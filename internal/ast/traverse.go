package ast

import "sort"

// Traversal options. Filters match against dotted attribute paths resolved
// with Get; a slice value matches when any element matches.

type traverseOptions struct {
	filters     map[string]any
	reverse     bool
	includeSelf bool
}

// Option adjusts a Children or Descendants query.
type Option func(*traverseOptions)

// Filter keeps only nodes whose attributes match every entry of fields. Keys
// are dotted paths; a []any value matches when the attribute equals any of
// its elements.
func Filter(fields map[string]any) Option {
	return func(o *traverseOptions) { o.filters = fields }
}

// Reverse returns results in descending source order. For descendant queries
// this yields the deepest nodes first, which lets a rewrite pass replace
// inner expressions before the expressions containing them.
func Reverse() Option {
	return func(o *traverseOptions) { o.reverse = true }
}

// IncludeSelf makes a descendant query consider the starting node itself.
func IncludeSelf() Option {
	return func(o *traverseOptions) { o.includeSelf = true }
}

func applyOptions(opts []Option) traverseOptions {
	var o traverseOptions
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// Children returns the direct children of n that are of variant T, filtered
// and ordered by source position.
func Children[T Node](n Node, opts ...Option) []T {
	o := applyOptions(opts)

	var out []T

	for _, child := range n.base().children {
		t, ok := child.(T)
		if !ok || !matchFilters(child, o.filters) {
			continue
		}

		out = append(out, t)
	}

	sortNodes(out, o.reverse)

	return out
}

// Descendants returns all nodes of variant T in the subtree rooted at n,
// filtered and ordered by source position. Without Reverse the order
// guarantees parents before their descendants; with Reverse, descendants
// before their parents.
func Descendants[T Node](n Node, opts ...Option) []T {
	o := applyOptions(opts)

	var out []T

	var walk func(Node, bool)
	walk = func(cur Node, self bool) {
		if self {
			if t, ok := cur.(T); ok && matchFilters(cur, o.filters) {
				out = append(out, t)
			}
		}

		for _, child := range cur.base().children {
			walk(child, true)
		}
	}

	walk(n, o.includeSelf)
	sortNodes(out, o.reverse)

	return out
}

// Ancestor returns the nearest ancestor of n that is of variant T.
func Ancestor[T Node](n Node) (T, bool) {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		if t, ok := cur.(T); ok {
			return t, true
		}
	}

	var zero T

	return zero, false
}

// sortNodes orders nodes by (lineno, col_offset, node_id). Nodes without a
// known source position sort after all positioned nodes; ties fall back to
// creation order via the id. Because a node's position is always less than
// or equal to that of its descendants and ids grow parent-first, the
// ascending order places every parent before its descendants.
func sortNodes[T Node](nodes []T, reverse bool) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if reverse {
			return nodeLess(nodes[j], nodes[i])
		}

		return nodeLess(nodes[i], nodes[j])
	})
}

func nodeLess(a, b Node) bool {
	as, bs := a.Span(), b.Span()

	if as.Known() != bs.Known() {
		return as.Known()
	}

	if as.Lineno != bs.Lineno {
		return as.Lineno < bs.Lineno
	}

	if as.ColOffset != bs.ColOffset {
		return as.ColOffset < bs.ColOffset
	}

	return a.NodeID() < b.NodeID()
}

func matchFilters(n Node, filters map[string]any) bool {
	for path, want := range filters {
		got := Get(n, path)

		if alternatives, ok := want.([]any); ok {
			matched := false

			for _, alt := range alternatives {
				if equalValue(got, alt) {
					matched = true
					break
				}
			}

			if !matched {
				return false
			}

			continue
		}

		if !equalValue(got, want) {
			return false
		}
	}

	return true
}
