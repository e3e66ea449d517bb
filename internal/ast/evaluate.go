package ast

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/cockroachdb/apd/v3"
	"github.com/sriharikapu/SRILang/internal/diag"
)

// Literal evaluation. Each foldable variant reduces itself to a synthetic
// literal node, or returns diag.ErrUnfoldable when an operand is not yet a
// literal. Actual defects in the source (division by zero, operating on
// incompatible literal kinds) surface as positioned user errors instead.

// Evaluate reduces negation of a numeric literal, or logical negation of a
// boolean literal.
func (n *UnaryOp) Evaluate() (Node, error) {
	switch n.Op {
	case OpNot:
		operand, ok := n.Operand.(*NameConstant)
		if !ok {
			return nil, diag.ErrUnfoldable
		}

		value, ok := operand.Value.(bool)
		if !ok {
			return nil, diag.ErrUnfoldable
		}

		return NewNameConstantFrom(n, !value), nil

	case OpUSub:
		switch operand := n.Operand.(type) {
		case *Int:
			return NewIntFrom(n, new(big.Int).Neg(operand.Value)), nil
		case *Decimal:
			return NewDecimalFrom(n, new(apd.Decimal).Neg(operand.Value)), nil
		}
	}

	return nil, diag.ErrUnfoldable
}

// Evaluate reduces arithmetic between two numeric literals of the same kind.
func (n *BinOp) Evaluate() (Node, error) {
	switch left := n.Left.(type) {
	case *Int:
		right, ok := n.Right.(*Int)
		if !ok {
			return nil, diag.ErrUnfoldable
		}

		value, err := evalIntOp(n.Op, left.Value, right.Value, n)
		if err != nil {
			return nil, err
		}

		return NewIntFrom(n, value), nil

	case *Decimal:
		right, ok := n.Right.(*Decimal)
		if !ok {
			return nil, diag.ErrUnfoldable
		}

		value, err := evalDecimalOp(n.Op, left.Value, right.Value, n)
		if err != nil {
			return nil, err
		}

		return NewDecimalFrom(n, value), nil
	}

	return nil, diag.ErrUnfoldable
}

// Evaluate reduces a boolean operation once every operand is a boolean
// literal.
func (n *BoolOp) Evaluate() (Node, error) {
	values := make([]bool, len(n.Values))

	for i, v := range n.Values {
		nc, ok := v.(*NameConstant)
		if !ok {
			return nil, diag.ErrUnfoldable
		}

		b, ok := nc.Value.(bool)
		if !ok {
			return nil, diag.ErrUnfoldable
		}

		values[i] = b
	}

	var result bool

	switch n.Op {
	case OpAnd:
		result = true
		for _, v := range values {
			result = result && v
		}

	case OpOr:
		for _, v := range values {
			result = result || v
		}

	default:
		return nil, diag.ErrUnfoldable
	}

	return NewNameConstantFrom(n, result), nil
}

// Evaluate reduces a comparison between literals. Membership requires the
// right side to be a fully literal, homogeneous list; mixing literal kinds
// inside the list is a type error, not merely unfoldable. A left side of a
// different kind than the list elements is simply never a member.
func (n *Compare) Evaluate() (Node, error) {
	left, ok := n.Left.(Constant)
	if !ok {
		return nil, diag.ErrUnfoldable
	}

	if n.Op == OpIn {
		return n.evaluateMembership(left)
	}

	right, ok := n.Right.(Constant)
	if !ok {
		return nil, diag.ErrUnfoldable
	}

	if reflect.TypeOf(left) != reflect.TypeOf(right) {
		return nil, diag.ErrUnfoldable
	}

	if !n.Op.Ordered() {
		equal := literalEqual(left, right)

		switch n.Op {
		case OpEq:
			return NewNameConstantFrom(n, equal), nil
		case OpNotEq:
			return NewNameConstantFrom(n, !equal), nil
		}

		return nil, diag.ErrUnfoldable
	}

	cmp, err := orderedCmp(left, right, n)
	if err != nil {
		return nil, err
	}

	var result bool

	switch n.Op {
	case OpLt:
		result = cmp < 0
	case OpLtE:
		result = cmp <= 0
	case OpGt:
		result = cmp > 0
	case OpGtE:
		result = cmp >= 0
	}

	return NewNameConstantFrom(n, result), nil
}

func (n *Compare) evaluateMembership(left Constant) (Node, error) {
	list, ok := n.Right.(*List)
	if !ok {
		return nil, diag.ErrUnfoldable
	}

	elements := make([]Constant, 0, len(list.Elts))

	for _, elt := range list.Elts {
		c, ok := elt.(Constant)
		if !ok {
			return nil, diag.ErrUnfoldable
		}

		elements = append(elements, c)
	}

	if len(elements) == 0 {
		return NewNameConstantFrom(n, false), nil
	}

	kind := reflect.TypeOf(elements[0])

	for _, elt := range elements[1:] {
		if reflect.TypeOf(elt) != kind {
			return nil, diag.NewError(
				diag.KindTypeMismatch,
				"Cannot perform membership comparison between dislike types",
				n,
			)
		}
	}

	contains := false

	if kind == reflect.TypeOf(left) {
		for _, elt := range elements {
			if literalEqual(left, elt) {
				contains = true
				break
			}
		}
	}

	return NewNameConstantFrom(n, contains), nil
}

// orderedCmp compares two literals of identical kind for an ordered
// operator. Only numeric literals have an ordering.
func orderedCmp(left, right Constant, at *Compare) (int, error) {
	switch l := left.(type) {
	case *Int:
		return l.Value.Cmp(right.(*Int).Value), nil
	case *Decimal:
		return l.Value.Cmp(right.(*Decimal).Value), nil
	}

	return 0, diag.NewError(
		diag.KindTypeMismatch,
		fmt.Sprintf("Invalid literal types for %s comparison", at.Op.Description()),
		at,
	)
}

func literalEqual(a, b Constant) bool {
	return equalValue(a.LiteralValue(), b.LiteralValue())
}

// Evaluate reduces an index into a fully literal, homogeneous list to the
// selected element. The element itself is returned, not a copy.
func (n *Subscript) Evaluate() (Node, error) {
	list, ok := n.Value.(*List)
	if !ok {
		return nil, diag.ErrUnfoldable
	}

	if len(list.Elts) == 0 {
		return nil, diag.ErrUnfoldable
	}

	kind := reflect.TypeOf(list.Elts[0])

	for _, elt := range list.Elts[1:] {
		if reflect.TypeOf(elt) != kind {
			return nil, diag.ErrUnfoldable
		}
	}

	index, ok := Get(n, "slice.value.value").(*big.Int)
	if !ok {
		return nil, diag.ErrUnfoldable
	}

	if !index.IsInt64() {
		return nil, diag.ErrUnfoldable
	}

	i := index.Int64()
	if i < 0 || i >= int64(len(list.Elts)) {
		return nil, diag.ErrUnfoldable
	}

	return list.Elts[i], nil
}
