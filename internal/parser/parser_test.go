package parser_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sriharikapu/SRILang/internal/ast"
	"github.com/sriharikapu/SRILang/internal/parser"
)

func parse(t *testing.T, source string) *ast.Module {
	t.Helper()

	mod, err := parser.ParseModule(source)
	require.NoError(t, err)

	return mod
}

func parseErr(t *testing.T, source string) error {
	t.Helper()

	_, err := parser.ParseModule(source)
	require.Error(t, err)

	return err
}

func TestParseConstantDeclaration(t *testing.T) {
	mod := parse(t, "FEE: constant(uint256) = 2 + 3\n")

	decls := ast.Children[*ast.AnnAssign](mod)
	require.Len(t, decls, 1)

	assert.Equal(t, "FEE", ast.Get(decls[0], "target.id"))
	assert.Equal(t, "constant", ast.Get(decls[0], "annotation.func.id"))

	binop, ok := decls[0].Value.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, binop.Op)
}

func TestParseFunctionDef(t *testing.T) {
	source := `@public
@payable
def transfer(to: address, amount: uint256 = 0) -> bool:
    """Moves funds."""
    return True
`

	mod := parse(t, source)

	fns := ast.Children[*ast.FunctionDef](mod)
	require.Len(t, fns, 1)

	fn := fns[0]
	assert.Equal(t, "transfer", fn.Name)
	require.Len(t, fn.DecoratorList, 2)
	assert.Equal(t, "public", fn.DecoratorList[0].(*ast.Name).ID)

	args, ok := fn.Args.(*ast.Arguments)
	require.True(t, ok)
	require.Len(t, args.Args, 2)
	assert.Equal(t, "to", args.Args[0].(*ast.Arg).Arg)
	require.Len(t, args.Defaults, 1)

	doc, ok := fn.DocString.(*ast.DocStr)
	require.True(t, ok)
	assert.Equal(t, "Moves funds.", doc.Value)

	// the docstring is lifted out of the body
	require.Len(t, fn.Body, 1)
	assert.IsType(t, &ast.Return{}, fn.Body[0])

	ret, ok := fn.Returns.(*ast.Name)
	require.True(t, ok)
	assert.Equal(t, "bool", ret.ID)
}

func TestParseModuleDocString(t *testing.T) {
	mod := parse(t, "\"\"\"Token contract.\"\"\"\n\nowner: address\n")

	doc, ok := mod.DocString.(*ast.DocStr)
	require.True(t, ok)
	assert.Equal(t, "Token contract.", doc.Value)
	require.Len(t, mod.Body, 1)
}

func TestParsePrecedence(t *testing.T) {
	mod := parse(t, "x = 1 + 2 * 3\n")

	assigns := ast.Children[*ast.Assign](mod)
	require.Len(t, assigns, 1)

	top, ok := assigns[0].Value.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, top.Op)

	right, ok := top.Right.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpMult, right.Op)
}

func TestParsePowerRightAssociative(t *testing.T) {
	mod := parse(t, "x = 2 ** 3 ** 2\n")

	top := ast.Children[*ast.Assign](mod)[0].Value.(*ast.BinOp)
	assert.Equal(t, ast.OpPow, top.Op)

	right, ok := top.Right.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpPow, right.Op)
}

func TestParseUnaryMinusBindsLooserThanPower(t *testing.T) {
	mod := parse(t, "x = -2 ** 2\n")

	unary, ok := ast.Children[*ast.Assign](mod)[0].Value.(*ast.UnaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.OpUSub, unary.Op)
	assert.IsType(t, &ast.BinOp{}, unary.Operand)
}

func TestParseCallWithKeywords(t *testing.T) {
	mod := parse(t, "x = create(1, 2, owner=msg.sender)\n")

	calls := ast.Descendants[*ast.Call](mod)
	require.Len(t, calls, 1)
	assert.Len(t, calls[0].Args, 2)
	require.Len(t, calls[0].Keywords, 1)

	kw := calls[0].Keywords[0].(*ast.Keyword)
	assert.Equal(t, "owner", kw.Arg)
	assert.IsType(t, &ast.Attribute{}, kw.Value)
}

func TestParseSubscript(t *testing.T) {
	mod := parse(t, "x = values[2]\n")

	subs := ast.Descendants[*ast.Subscript](mod)
	require.Len(t, subs, 1)

	idx, ok := subs[0].Slice.(*ast.Index)
	require.True(t, ok)

	lit, ok := idx.Value.(*ast.Int)
	require.True(t, ok)
	assert.Zero(t, lit.Value.Cmp(big.NewInt(2)))
}

func TestParseCollections(t *testing.T) {
	mod := parse(t, "x = [1, 2]\ny = (1, 2)\nz = {1: 2}\n")

	assert.Len(t, ast.Descendants[*ast.List](mod), 1)
	assert.Len(t, ast.Descendants[*ast.Tuple](mod), 1)

	dicts := ast.Descendants[*ast.Dict](mod)
	require.Len(t, dicts, 1)
	assert.Len(t, dicts[0].Keys, 1)
	assert.Len(t, dicts[0].Values, 1)
}

func TestParseControlFlow(t *testing.T) {
	source := `@public
def run(n: uint256):
    for i in range(n):
        if i > 2:
            break
        elif i == 1:
            continue
        else:
            pass
    assert n > 0, "empty"
    raise "unreachable"
`

	mod := parse(t, source)

	assert.Len(t, ast.Descendants[*ast.For](mod), 1)
	assert.Len(t, ast.Descendants[*ast.If](mod), 2, "elif parses as a nested If")
	assert.Len(t, ast.Descendants[*ast.Break](mod), 1)
	assert.Len(t, ast.Descendants[*ast.Continue](mod), 1)
	assert.Len(t, ast.Descendants[*ast.Pass](mod), 1)

	asserts := ast.Descendants[*ast.Assert](mod)
	require.Len(t, asserts, 1)
	assert.NotNil(t, asserts[0].Msg)

	raises := ast.Descendants[*ast.Raise](mod)
	require.Len(t, raises, 1)
	assert.NotNil(t, raises[0].Exc)
}

func TestParseImports(t *testing.T) {
	mod := parse(t, "import token.erc20 as erc20\nfrom vault import strategy\n")

	imports := ast.Children[*ast.Import](mod)
	require.Len(t, imports, 1)

	alias := imports[0].Names[0].(*ast.Alias)
	assert.Equal(t, "token.erc20", alias.Name)
	assert.Equal(t, "erc20", alias.AsName)

	froms := ast.Children[*ast.ImportFrom](mod)
	require.Len(t, froms, 1)
	assert.Equal(t, "vault", froms[0].Module)
}

func TestParseClassDef(t *testing.T) {
	mod := parse(t, "struct Point:\n    x: uint256\n    y: uint256\n")

	classes := ast.Children[*ast.ClassDef](mod)
	require.Len(t, classes, 1)
	assert.Equal(t, "struct", classes[0].ClassType)
	assert.Equal(t, "Point", classes[0].Name)
	assert.Len(t, classes[0].Body, 2)
}

func TestParseAugAssign(t *testing.T) {
	source := `@public
def bump():
    self.total += 1
`

	mod := parse(t, source)

	augs := ast.Descendants[*ast.AugAssign](mod)
	require.Len(t, augs, 1)
	assert.Equal(t, ast.OpAdd, augs[0].Op)
	assert.IsType(t, &ast.Attribute{}, augs[0].Target)
}

func TestParseBinaryLiteral(t *testing.T) {
	mod := parse(t, "x = 0b00000001\n")

	bytesLits := ast.Descendants[*ast.Bytes](mod)
	require.Len(t, bytesLits, 1)
	assert.Equal(t, []byte{0x01}, bytesLits[0].Value)
}

func TestParseBinaryLiteralWholeBytes(t *testing.T) {
	err := parseErr(t, "x = 0b01\n")
	assert.Contains(t, err.Error(), "multiple of 8 bits")
}

func TestParseNameConstants(t *testing.T) {
	mod := parse(t, "a = True\nb = False\nc = None\n")

	constants := ast.Descendants[*ast.NameConstant](mod)
	require.Len(t, constants, 3)
	assert.Equal(t, true, constants[0].Value)
	assert.Equal(t, false, constants[1].Value)
	assert.Nil(t, constants[2].Value)
}

func TestParseNodeSourceCode(t *testing.T) {
	mod := parse(t, "FEE: constant(uint256) = 2 + 3\n")

	ops := ast.Descendants[*ast.BinOp](mod)
	require.Len(t, ops, 1)
	assert.Equal(t, "2 + 3", ops[0].Span().NodeSource)
	assert.Equal(t, "FEE: constant(uint256) = 2 + 3\n", ops[0].SourceText())
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"x = a[1:2]\n":          "srilang does not support slicing",
		"x = y = 1\n":           "Assignment statement must have one target",
		"x = 1 < 2 < 3\n":       "Cannot have a comparison with more than two elements",
		"x = +1\n":              `srilang does not support "UAdd" as a unary operator`,
		"x = 4 // 2\n":          "srilang does not support floor division",
		"x = 1.12345678901\n":   "Cannot have more than 10 decimal places",
		"x = 0x123\n":           "even number of digits",
		"x = from\n":            `"from" is a reserved word`,
		"x = \x00\n":            "null bytes",
	}

	for source, want := range cases {
		err := parseErr(t, source)
		assert.Contains(t, err.Error(), want, "source: %q", source)
	}
}

func TestParsedPositions(t *testing.T) {
	mod := parse(t, "total: uint256\nFEE: constant(uint256) = 5\n")

	decls := ast.Children[*ast.AnnAssign](mod)
	require.Len(t, decls, 2)
	assert.Equal(t, 1, decls[0].Span().Lineno)
	assert.Equal(t, 2, decls[1].Span().Lineno)
	assert.Equal(t, 0, decls[1].Span().ColOffset)

	lit := decls[1].Value.(*ast.Int)
	assert.Equal(t, 2, lit.Span().Lineno)
	assert.Equal(t, 25, lit.Span().ColOffset)
}
