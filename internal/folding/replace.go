package folding

import (
	"math/big"

	"github.com/cockroachdb/apd/v3"

	"github.com/sriharikapu/SRILang/internal/ast"
	"github.com/sriharikapu/SRILang/internal/diag"
)

// ReplaceConstant substitutes every foldable reference to the named constant
// with a fresh copy of replacement, returning the number of substitutions.
// References whose replacement is not yet a literal are left alone when
// mustFold is false; with mustFold set, such a reference is an internal
// error, since the caller guarantees a literal replacement.
func ReplaceConstant(mod *ast.Module, name string, replacement ast.Node, mustFold bool) (int, error) {
	changed := 0

	refs := ast.Descendants[*ast.Name](
		mod,
		ast.Filter(map[string]any{"id": name}),
		ast.Reverse(),
	)

	for _, ref := range refs {
		if skipReference(ref) {
			continue
		}

		copied, err := copyReplacement(replacement, ref)
		if err != nil {
			if !mustFold {
				continue
			}

			return changed, diag.Panicf(
				"Replacement for constant %q is not a literal.", name)
		}

		if err := mod.ReplaceInTree(ref, copied); err != nil {
			return changed, err
		}

		changed++
	}

	return changed, nil
}

// skipReference reports whether a name reference must not be substituted:
// attribute members, called function names, mapping keys and assignment
// targets all use the name as a binding rather than a value. A reference
// inside an index expression is a value even when the indexed access is
// itself an assignment target.
func skipReference(ref *ast.Name) bool {
	switch parent := ref.Parent().(type) {
	case *ast.Attribute:
		return true

	case *ast.Call:
		if parent.Func == ast.Node(ref) {
			return true
		}

	case *ast.Dict:
		for _, key := range parent.Keys {
			if key == ast.Node(ref) {
				return true
			}
		}
	}

	assign, ok := ast.Ancestor[ast.Assignment](ref)
	if !ok {
		return false
	}

	target := assign.AssignTarget()
	if target == nil || !within(target, ref) {
		return false
	}

	if index, ok := ast.Ancestor[*ast.Index](ref); ok && within(target, index) {
		return false
	}

	return true
}

// within reports whether n is root or one of its descendants, compared by
// identity.
func within(root, n ast.Node) bool {
	if root == n {
		return true
	}

	for _, d := range ast.Descendants[ast.Node](root) {
		if d == n {
			return true
		}
	}

	return false
}

// copyReplacement builds a fresh literal node mirroring replacement, carrying
// the source span of ref so diagnostics point at the reference site. A
// replacement that is not a literal cannot be copied.
func copyReplacement(replacement, ref ast.Node) (ast.Node, error) {
	switch r := replacement.(type) {
	case *ast.Int:
		return ast.NewIntFrom(ref, new(big.Int).Set(r.Value)), nil

	case *ast.Decimal:
		value := new(apd.Decimal)
		value.Set(r.Value)

		return ast.NewDecimalFrom(ref, value), nil

	case *ast.Hex:
		return ast.NewHexFrom(ref, r.Value), nil

	case *ast.Str:
		return ast.NewStrFrom(ref, r.Value), nil

	case *ast.Bytes:
		value := make([]byte, len(r.Value))
		copy(value, r.Value)

		return ast.NewBytesFrom(ref, value), nil

	case *ast.NameConstant:
		return ast.NewNameConstantFrom(ref, r.Value), nil

	case *ast.List:
		elts := make([]ast.Node, 0, len(r.Elts))

		for _, elt := range r.Elts {
			copied, err := copyReplacement(elt, ref)
			if err != nil {
				return nil, err
			}

			elts = append(elts, copied)
		}

		return ast.NewListFrom(ref, elts), nil
	}

	return nil, diag.ErrUnfoldable
}
