package ast_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sriharikapu/SRILang/internal/ast"
)

func TestReplaceInTree(t *testing.T) {
	mod := nestedArithmetic(t)

	inner := ast.Descendants[*ast.BinOp](mod, ast.Reverse())[0]
	require.Equal(t, ast.OpAdd, inner.Op)

	replacement, err := inner.Evaluate()
	require.NoError(t, err)

	oldDepth := inner.Depth()
	parent := inner.Parent()

	require.NoError(t, mod.ReplaceInTree(inner, replacement))

	// the parent's field and child set now hold the literal
	outer := ast.Descendants[*ast.BinOp](mod)[0]
	lit, ok := outer.Left.(*ast.Int)
	require.True(t, ok)
	assert.Zero(t, lit.Value.Cmp(big.NewInt(3)))

	assert.Same(t, parent, replacement.Parent())
	assert.Equal(t, oldDepth, replacement.Depth())
	assert.NotEqual(t, inner.NodeID(), replacement.NodeID())

	// the detached node no longer appears in traversal
	for _, n := range ast.Descendants[ast.Node](mod) {
		assert.NotEqual(t, inner.NodeID(), n.NodeID())
	}
}

func TestReplaceInTreeSynthesizedSpan(t *testing.T) {
	mod := nestedArithmetic(t)

	inner := ast.Descendants[*ast.BinOp](mod, ast.Reverse())[0]

	replacement, err := inner.Evaluate()
	require.NoError(t, err)

	assert.Equal(t, inner.Span().Lineno, replacement.Span().Lineno)
	assert.Equal(t, inner.Span().ColOffset, replacement.Span().ColOffset)
}

func TestReplaceRejectsForeignNode(t *testing.T) {
	mod := nestedArithmetic(t)
	other := nestedArithmetic(t)

	foreign := ast.Descendants[*ast.BinOp](other)[0]
	replacement := ast.NewIntFrom(foreign, big.NewInt(9))

	err := mod.ReplaceInTree(foreign, replacement)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist within the tree")
	assert.Contains(t, err.Error(), "Please open an issue.")
}

func TestReplaceRejectsRoot(t *testing.T) {
	mod := nestedArithmetic(t)

	err := mod.ReplaceInTree(mod, ast.NewIntFrom(mod, big.NewInt(1)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot replace the tree root")
}
