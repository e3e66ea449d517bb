package ast

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/cockroachdb/apd/v3"
	"github.com/sriharikapu/SRILang/internal/diag"
)

// FromMap converts a raw dict-of-fields parse tree into a typed node. The
// call is recursive: every child value of the input is itself converted
// before assignment. The new node registers itself as a child of parent only
// after all of its fields are set, so a partial failure never corrupts the
// parent's child set.
//
// Unsupported source constructs fail with a positioned syntax error.
func FromMap(raw map[string]any, parent Node) (Node, error) {
	variant, _ := raw["ast_type"].(string)

	factory, ok := variantFactories[variant]
	if !ok {
		return nil, unsupportedVariant(variant, raw, parent)
	}

	raw, err := normalizeRaw(variant, raw, parent)
	if err != nil {
		return nil, err
	}

	n := factory()
	b := n.base()
	b.id = nextID()
	b.parent = parent

	if parent != nil {
		b.depth = parent.Depth() + 1
	}

	b.span = spanFromRaw(raw, parent)

	if err := populateFields(n, raw); err != nil {
		return nil, err
	}

	if err := validateNode(n, raw, parent); err != nil {
		return nil, err
	}

	if parent != nil {
		pb := parent.base()
		pb.children = append(pb.children, n)
	}

	return n, nil
}

// spanFromRaw reads source offsets from the raw node, inheriting each absent
// attribute from the parent. Synthetic nodes therefore report the position
// of the construct they were derived from.
func spanFromRaw(raw map[string]any, parent Node) Span {
	var s Span
	if parent != nil {
		s = parent.Span()
	}

	if v, ok := rawInt(raw, "lineno"); ok {
		s.Lineno = v
	}

	if v, ok := rawInt(raw, "col_offset"); ok {
		s.ColOffset = v
	}

	if v, ok := rawInt(raw, "end_lineno"); ok {
		s.EndLineno = v
	}

	if v, ok := rawInt(raw, "end_col_offset"); ok {
		s.EndColOffset = v
	}

	if v, ok := raw["node_source_code"].(string); ok {
		s.NodeSource = v
	}

	if v, ok := raw["full_source_code"].(string); ok {
		s.FullSource = v
	}

	return s
}

func rawInt(raw map[string]any, key string) (int, bool) {
	switch v := raw[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	}

	return 0, false
}

var nodeInterfaceType = reflect.TypeOf((*Node)(nil)).Elem()

func populateFields(n Node, raw map[string]any) error {
	v := reflect.ValueOf(n).Elem()

	for _, f := range variantFields(v.Type()) {
		value, present := raw[f.name]
		if !present || value == nil {
			continue
		}

		fv := v.Field(f.index)

		switch {
		case fv.Type() == nodeInterfaceType:
			child, err := toNode(value, n)
			if err != nil {
				return err
			}

			fv.Set(reflect.ValueOf(child))

		case fv.Type() == reflect.SliceOf(nodeInterfaceType):
			items, ok := value.([]any)
			if !ok {
				return convertError(n, f.name, value)
			}

			children := make([]Node, 0, len(items))

			for _, item := range items {
				child, err := toNode(item, n)
				if err != nil {
					return err
				}

				children = append(children, child)
			}

			fv.Set(reflect.ValueOf(children))

		default:
			rv := reflect.ValueOf(value)
			if !rv.Type().AssignableTo(fv.Type()) {
				return convertError(n, f.name, value)
			}

			fv.Set(rv)
		}
	}

	return nil
}

// toNode converts a raw child value into a node owned by parent. Values
// that are already typed nodes are adopted as-is; this path is used by
// synthetic construction during folding.
func toNode(value any, parent Node) (Node, error) {
	switch v := value.(type) {
	case map[string]any:
		return FromMap(v, parent)
	case Node:
		adopt(parent, v)
		return v, nil
	}

	return nil, diag.NewError(
		diag.KindSyntax,
		fmt.Sprintf("invalid child value of type %T", value),
		parent,
	)
}

func convertError(n Node, fieldName string, value any) error {
	return diag.NewError(
		diag.KindSyntax,
		fmt.Sprintf("invalid value of type %T for field %s.%s", value, VariantName(n), fieldName),
		n,
	)
}

// normalizeRaw applies the per-variant shape rules that the generic parse
// tree leaves to conversion: comparisons arrive with ops/comparators lists
// and assignments with a targets list, each of which must hold exactly one
// element.
func normalizeRaw(variant string, raw map[string]any, parent Node) (map[string]any, error) {
	switch variant {
	case "Compare":
		ops, hasOps := raw["ops"].([]any)
		comparators, hasCmps := raw["comparators"].([]any)

		if !hasOps && !hasCmps {
			return raw, nil
		}

		if len(ops) > 1 || len(comparators) > 1 {
			return nil, rawSyntaxError(
				"Cannot have a comparison with more than two elements", raw, parent)
		}

		if len(ops) != 1 || len(comparators) != 1 {
			return nil, rawSyntaxError("Malformed comparison", raw, parent)
		}

		normalized := cloneRaw(raw)
		delete(normalized, "ops")
		delete(normalized, "comparators")
		normalized["op"] = ops[0]
		normalized["right"] = comparators[0]

		return normalized, nil

	case "Assign":
		targets, ok := raw["targets"].([]any)
		if !ok {
			return raw, nil
		}

		if len(targets) != 1 {
			return nil, rawSyntaxError(
				"Assignment statement must have one target", raw, parent)
		}

		normalized := cloneRaw(raw)
		delete(normalized, "targets")
		normalized["target"] = targets[0]

		return normalized, nil
	}

	return raw, nil
}

func cloneRaw(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		out[k] = v
	}

	return out
}

// validateNode enforces per-variant literal rules at conversion time.
func validateNode(n Node, raw map[string]any, parent Node) error {
	switch v := n.(type) {
	case *Hex:
		if len(v.Value) < 2 || v.Value[:2] != "0x" || len(v.Value)%2 != 0 {
			return rawSyntaxError("Hex notation requires an even number of digits", raw, parent)
		}

	case *Str:
		for _, c := range v.Value {
			if c >= 256 {
				return rawSyntaxError(
					fmt.Sprintf("%q is not an allowed string literal character", c),
					raw, parent)
			}
		}
	}

	return nil
}

func unsupportedVariant(variant string, raw map[string]any, parent Node) error {
	switch variant {
	case "Delete":
		return rawSyntaxError("Deleting is not supported", raw, parent)
	case "Slice", "ExtSlice":
		return rawSyntaxError("srilang does not support slicing", raw, parent)
	case "Invert", "UAdd":
		return rawSyntaxError(
			fmt.Sprintf("srilang does not support %q as a unary operator", variant),
			raw, parent)
	}

	return rawSyntaxError(
		fmt.Sprintf("Invalid syntax (unsupported %q node)", variant), raw, parent)
}

func rawSyntaxError(msg string, raw map[string]any, parent Node) error {
	lineno, _ := rawInt(raw, "lineno")
	col, _ := rawInt(raw, "col_offset")

	source, _ := raw["full_source_code"].(string)
	if source == "" && parent != nil {
		source = parent.SourceText()
	}

	return diag.NewErrorAt(diag.KindSyntax, msg, source, lineno, col)
}

// synthBase builds the bookkeeping for a synthetic node: fresh id, the span
// of the node it derives from, no parent until spliced into a tree.
func synthBase(like Node) NodeBase {
	b := NodeBase{id: nextID()}
	if like != nil {
		b.span = like.Span()
	}

	return b
}

// adopt registers child under parent, computing its depth relative to the
// parent's construction-time depth.
func adopt(parent, child Node) {
	cb := child.base()
	cb.parent = parent
	cb.depth = parent.Depth() + 1

	pb := parent.base()
	pb.children = append(pb.children, child)
}

// NewIntFrom builds a synthetic integer literal with the span of like.
func NewIntFrom(like Node, value *big.Int) *Int {
	return &Int{NodeBase: synthBase(like), Value: value}
}

// NewDecimalFrom builds a synthetic decimal literal with the span of like.
func NewDecimalFrom(like Node, value *apd.Decimal) *Decimal {
	return &Decimal{NodeBase: synthBase(like), Value: value}
}

// NewHexFrom builds a synthetic hex literal with the span of like.
func NewHexFrom(like Node, value string) *Hex {
	return &Hex{NodeBase: synthBase(like), Value: value}
}

// NewStrFrom builds a synthetic string literal with the span of like.
func NewStrFrom(like Node, value string) *Str {
	return &Str{NodeBase: synthBase(like), Value: value}
}

// NewBytesFrom builds a synthetic byte-string literal with the span of like.
func NewBytesFrom(like Node, value []byte) *Bytes {
	return &Bytes{NodeBase: synthBase(like), Value: value}
}

// NewNameConstantFrom builds a synthetic boolean literal with the span of
// like.
func NewNameConstantFrom(like Node, value any) *NameConstant {
	return &NameConstant{NodeBase: synthBase(like), Value: value}
}

// NewListFrom builds a synthetic literal sequence with the span of like,
// adopting the given elements.
func NewListFrom(like Node, elts []Node) *List {
	l := &List{NodeBase: synthBase(like), Elts: elts}
	for _, e := range elts {
		adopt(l, e)
	}

	return l
}
