package ast_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sriharikapu/SRILang/internal/ast"
)

// rawLit builds a raw integer literal node.
func rawLit(value int64, lineno, col int) map[string]any {
	return map[string]any{
		"ast_type":   "Int",
		"value":      big.NewInt(value),
		"lineno":     lineno,
		"col_offset": col,
	}
}

func rawName(id string, lineno, col int) map[string]any {
	return map[string]any{
		"ast_type":   "Name",
		"id":         id,
		"lineno":     lineno,
		"col_offset": col,
	}
}

func rawBinOp(op ast.BinaryOperator, left, right map[string]any, lineno, col int) map[string]any {
	return map[string]any{
		"ast_type":   "BinOp",
		"op":         op,
		"left":       left,
		"right":      right,
		"lineno":     lineno,
		"col_offset": col,
	}
}

// buildModule converts a raw module body into a typed tree.
func buildModule(t *testing.T, body ...map[string]any) *ast.Module {
	t.Helper()

	rawBody := make([]any, len(body))
	for i, stmt := range body {
		rawBody[i] = stmt
	}

	raw := map[string]any{
		"ast_type":         "Module",
		"name":             "test",
		"body":             rawBody,
		"lineno":           1,
		"col_offset":       0,
		"full_source_code": "x",
	}

	node, err := ast.FromMap(raw, nil)
	require.NoError(t, err)

	return node.(*ast.Module)
}

func exprStmt(value map[string]any, lineno, col int) map[string]any {
	return map[string]any{
		"ast_type":   "Expr",
		"value":      value,
		"lineno":     lineno,
		"col_offset": col,
	}
}

func TestFromMapBuildsTypedTree(t *testing.T) {
	mod := buildModule(t,
		exprStmt(rawBinOp(ast.OpAdd, rawLit(1, 1, 0), rawLit(2, 1, 4), 1, 0), 1, 0),
	)

	require.Len(t, ast.Children[ast.Node](mod), 1)

	binops := ast.Descendants[*ast.BinOp](mod)
	require.Len(t, binops, 1)

	binop := binops[0]
	assert.Equal(t, ast.OpAdd, binop.Op)

	left, ok := binop.Left.(*ast.Int)
	require.True(t, ok)
	assert.Zero(t, left.Value.Cmp(big.NewInt(1)))
	assert.Same(t, binop, left.Parent().(*ast.BinOp))
	assert.Equal(t, binop.Depth()+1, left.Depth())
}

func TestNodeIDsAreUnique(t *testing.T) {
	mod := buildModule(t,
		exprStmt(rawLit(1, 1, 0), 1, 0),
		exprStmt(rawLit(2, 2, 0), 2, 0),
	)

	seen := map[int64]bool{}

	for _, n := range ast.Descendants[ast.Node](mod, ast.IncludeSelf()) {
		assert.False(t, seen[n.NodeID()], "duplicate node id %d", n.NodeID())
		seen[n.NodeID()] = true
	}
}

func TestSpanInheritedFromParent(t *testing.T) {
	// the literal carries no position of its own
	lit := map[string]any{"ast_type": "Int", "value": big.NewInt(7)}
	mod := buildModule(t, exprStmt(lit, 3, 4))

	ints := ast.Descendants[*ast.Int](mod)
	require.Len(t, ints, 1)
	assert.Equal(t, 3, ints[0].Span().Lineno)
	assert.Equal(t, 4, ints[0].Span().ColOffset)
	assert.Equal(t, "x", ints[0].SourceText())
}

func TestVariantNameAndFields(t *testing.T) {
	mod := buildModule(t, exprStmt(rawLit(1, 1, 0), 1, 0))

	assert.Equal(t, "Module", ast.VariantName(mod))
	assert.Equal(t, []string{"name", "doc_string", "body"}, ast.Fields(mod))
}

func TestGetResolvesDottedPaths(t *testing.T) {
	call := map[string]any{
		"ast_type":   "Call",
		"func":       rawName("constant", 1, 5),
		"args":       []any{rawName("uint256", 1, 14)},
		"lineno":     1,
		"col_offset": 5,
	}

	annAssign := map[string]any{
		"ast_type":   "AnnAssign",
		"target":     rawName("FEE", 1, 0),
		"annotation": call,
		"value":      rawLit(5, 1, 25),
		"lineno":     1,
		"col_offset": 0,
	}

	mod := buildModule(t, annAssign)

	decls := ast.Children[*ast.AnnAssign](mod)
	require.Len(t, decls, 1)

	assert.Equal(t, "constant", ast.Get(decls[0], "annotation.func.id"))
	assert.Equal(t, "FEE", ast.Get(decls[0], "target.id"))
	assert.Nil(t, ast.Get(decls[0], "target.no_such_field"))
	assert.Nil(t, ast.Get(decls[0], "value.value.nested"))
}

func TestUnsupportedVariants(t *testing.T) {
	cases := map[string]string{
		"Delete":   "Deleting is not supported",
		"Slice":    "srilang does not support slicing",
		"ExtSlice": "srilang does not support slicing",
		"Invert":   `srilang does not support "Invert" as a unary operator`,
		"Macro":    `Invalid syntax (unsupported "Macro" node)`,
	}

	for variant, want := range cases {
		_, err := ast.FromMap(map[string]any{"ast_type": variant}, nil)
		require.Error(t, err, variant)
		assert.Contains(t, err.Error(), want)
	}
}

func TestHexRequiresEvenDigits(t *testing.T) {
	_, err := ast.FromMap(map[string]any{"ast_type": "Hex", "value": "0x123"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "even number of digits")

	_, err = ast.FromMap(map[string]any{"ast_type": "Hex", "value": "0x1234"}, nil)
	assert.NoError(t, err)
}

func TestStrRejectsWideCharacters(t *testing.T) {
	_, err := ast.FromMap(map[string]any{"ast_type": "Str", "value": "hélloሴ"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an allowed string literal character")

	_, err = ast.FromMap(map[string]any{"ast_type": "Str", "value": "hello"}, nil)
	assert.NoError(t, err)
}

func TestChainedComparisonRejected(t *testing.T) {
	raw := map[string]any{
		"ast_type":    "Compare",
		"left":        rawLit(1, 1, 0),
		"ops":         []any{ast.OpLt, ast.OpLt},
		"comparators": []any{rawLit(2, 1, 4), rawLit(3, 1, 8)},
		"lineno":      1,
		"col_offset":  0,
	}

	_, err := ast.FromMap(raw, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot have a comparison with more than two elements")
}

func TestMultipleAssignTargetsRejected(t *testing.T) {
	raw := map[string]any{
		"ast_type":   "Assign",
		"targets":    []any{rawName("a", 1, 0), rawName("b", 1, 4)},
		"value":      rawLit(1, 1, 8),
		"lineno":     1,
		"col_offset": 0,
	}

	_, err := ast.FromMap(raw, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Assignment statement must have one target")
}

func TestCompareNodes(t *testing.T) {
	a := buildModule(t, exprStmt(rawBinOp(ast.OpAdd, rawLit(1, 1, 0), rawLit(2, 1, 4), 1, 0), 1, 0))
	b := buildModule(t, exprStmt(rawBinOp(ast.OpAdd, rawLit(1, 5, 2), rawLit(2, 5, 6), 5, 2), 5, 2))
	c := buildModule(t, exprStmt(rawBinOp(ast.OpSub, rawLit(1, 1, 0), rawLit(2, 1, 4), 1, 0), 1, 0))

	// ids and positions differ, structure is equal
	assert.True(t, ast.CompareNodes(a, b))
	assert.False(t, ast.CompareNodes(a, c))
	assert.True(t, ast.CompareNodes(nil, nil))
	assert.False(t, ast.CompareNodes(a, nil))
}

func TestToMapRoundsTripShape(t *testing.T) {
	mod := buildModule(t, exprStmt(rawLit(42, 1, 0), 1, 0))

	out := ast.ToMap(mod)
	assert.Equal(t, "Module", out["ast_type"])

	body, ok := out["body"].([]any)
	require.True(t, ok)
	require.Len(t, body, 1)

	expr := body[0].(map[string]any)
	assert.Equal(t, "Expr", expr["ast_type"])

	lit := expr["value"].(map[string]any)
	assert.Equal(t, "Int", lit["ast_type"])
	assert.Equal(t, "42", lit["value"])
	assert.NotContains(t, lit, "full_source_code")
	assert.NotContains(t, lit, "node_source_code")
}
