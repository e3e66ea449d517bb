// Package ast implements the typed syntax tree of the contract language.
//
// Every tree element is one variant of a closed set of node structs, all
// embedding NodeBase. Nodes carry a process-unique id, a parent
// back-reference, their depth below the root and a source span. Variant
// fields are declared as struct fields tagged `ast:"name"`; the tag drives
// generic field introspection (Fields, Get, ToMap, CompareNodes) and the
// derivation of the child set, so no variant needs special-casing in the
// traversal or rewrite machinery.
package ast

import (
	"math/big"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/apd/v3"
	"github.com/sriharikapu/SRILang/internal/diag"
)

// Node is the interface satisfied by every syntax tree element. The variant
// set is closed: only this package can implement it.
type Node interface {
	// NodeID returns the process-unique, immutable node id.
	NodeID() int64

	// Parent returns the node's exclusive owner, or nil for the tree root.
	Parent() Node

	// Depth is the distance from the root.
	Depth() int

	// Span returns the node's source offsets and text.
	Span() Span

	// Evaluate attempts to reduce the node to a literal replacement.
	// Variants without a literal-evaluation rule return diag.ErrUnfoldable.
	Evaluate() (Node, error)

	// Position and SourceText implement diag.Positioned.
	Position() diag.Position
	SourceText() string

	base() *NodeBase
}

// Span holds a node's source offsets, the exact substring the node came
// from and the full source of the compilation unit. Synthetic nodes inherit
// the span of the node they were derived from.
type Span struct {
	Lineno       int
	ColOffset    int
	EndLineno    int
	EndColOffset int
	NodeSource   string
	FullSource   string
}

// Known reports whether the span refers to an actual source position.
func (s Span) Known() bool { return s.Lineno > 0 }

var idCounter atomic.Int64

func nextID() int64 { return idCounter.Add(1) }

// NodeBase carries the bookkeeping shared by every variant.
type NodeBase struct {
	id       int64
	parent   Node
	depth    int
	children []Node
	span     Span
}

func (b *NodeBase) NodeID() int64 { return b.id }
func (b *NodeBase) Parent() Node  { return b.parent }
func (b *NodeBase) Depth() int    { return b.depth }
func (b *NodeBase) Span() Span    { return b.span }

// Evaluate is the catch-all for variants with no literal-evaluation rule.
func (b *NodeBase) Evaluate() (Node, error) {
	return nil, diag.ErrUnfoldable
}

func (b *NodeBase) Position() diag.Position {
	return diag.Position{Lineno: b.span.Lineno, ColOffset: b.span.ColOffset}
}

func (b *NodeBase) SourceText() string { return b.span.FullSource }

func (b *NodeBase) base() *NodeBase { return b }

// VariantName returns the node's variant tag, e.g. "BinOp".
func VariantName(n Node) string {
	return reflect.TypeOf(n).Elem().Name()
}

type fieldInfo struct {
	name  string
	index int
}

var fieldCache sync.Map // reflect.Type -> []fieldInfo

// variantFields returns the tagged field metadata for a concrete node type.
func variantFields(t reflect.Type) []fieldInfo {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]fieldInfo)
	}

	var fields []fieldInfo

	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("ast")
		if tag == "" {
			continue
		}

		fields = append(fields, fieldInfo{name: tag, index: i})
	}

	fieldCache.Store(t, fields)

	return fields
}

// Fields returns the declared field names of a node's variant, in
// declaration order.
func Fields(n Node) []string {
	infos := variantFields(reflect.TypeOf(n).Elem())
	names := make([]string, len(infos))

	for i, f := range infos {
		names[i] = f.name
	}

	return names
}

// field returns the value of a named field and whether the variant declares
// it. Nil child slots report (nil, true).
func field(n Node, name string) (any, bool) {
	v := reflect.ValueOf(n).Elem()
	for _, f := range variantFields(v.Type()) {
		if f.name != name {
			continue
		}

		fv := v.Field(f.index)
		if fv.Kind() == reflect.Interface && fv.IsNil() {
			return nil, true
		}

		return fv.Interface(), true
	}

	return nil, false
}

// Get resolves a dotted attribute path (e.g. "annotation.func.id") by
// repeated field lookup. It returns nil if any segment is absent or the
// path descends through a non-node value.
func Get(n Node, path string) any {
	var current any = n

	for _, key := range strings.Split(path, ".") {
		node, ok := current.(Node)
		if !ok {
			return nil
		}

		value, ok := field(node, key)
		if !ok {
			return nil
		}

		current = value
	}

	return current
}

// equalValue compares two plain field values, dispatching to value
// comparison for the numeric literal types.
func equalValue(a, b any) bool {
	switch av := a.(type) {
	case *big.Int:
		bv, ok := b.(*big.Int)
		return ok && av.Cmp(bv) == 0
	case *apd.Decimal:
		bv, ok := b.(*apd.Decimal)
		return ok && av.Cmp(bv) == 0
	}

	return reflect.DeepEqual(a, b)
}
