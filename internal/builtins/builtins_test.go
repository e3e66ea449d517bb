package builtins_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sriharikapu/SRILang/internal/ast"
	"github.com/sriharikapu/SRILang/internal/builtins"
	"github.com/sriharikapu/SRILang/internal/diag"
)

func call(name string, args ...ast.Node) *ast.Call {
	fn := &ast.Name{ID: name}

	c := &ast.Call{Func: fn, Args: args}

	return c
}

func intLit(value int64) *ast.Int {
	return ast.NewIntFrom(nil, big.NewInt(value))
}

func intLitBig(value *big.Int) *ast.Int {
	return ast.NewIntFrom(nil, value)
}

func decimalLit(t *testing.T, text string) *ast.Decimal {
	t.Helper()

	value, _, err := apd.NewFromString(text)
	require.NoError(t, err)

	return ast.NewDecimalFrom(nil, value)
}

func strLit(value string) *ast.Str {
	return ast.NewStrFrom(nil, value)
}

func fold(t *testing.T, c *ast.Call) ast.Node {
	t.Helper()

	name := c.Func.(*ast.Name).ID

	folder, ok := builtins.Default().Lookup(name)
	require.True(t, ok, "builtin %s not registered", name)

	out, err := folder.FoldCall(c)
	require.NoError(t, err)

	return out
}

func foldErr(t *testing.T, c *ast.Call) error {
	t.Helper()

	name := c.Func.(*ast.Name).ID

	folder, ok := builtins.Default().Lookup(name)
	require.True(t, ok, "builtin %s not registered", name)

	_, err := folder.FoldCall(c)
	require.Error(t, err)

	return err
}

func assertInt(t *testing.T, n ast.Node, want string) {
	t.Helper()

	lit, ok := n.(*ast.Int)
	require.True(t, ok, "expected Int, got %s", ast.VariantName(n))

	expected, ok := new(big.Int).SetString(want, 10)
	require.True(t, ok)
	assert.Zero(t, lit.Value.Cmp(expected), "got %s, want %s", lit.Value, want)
}

func TestLen(t *testing.T) {
	assertInt(t, fold(t, call("len", strLit("hello"))), "5")
	assertInt(t, fold(t, call("len", ast.NewBytesFrom(nil, []byte{1, 2, 3}))), "3")
	assertInt(t, fold(t, call("len", ast.NewHexFrom(nil, "0x1234"))), "2")
}

func TestLenUnfoldableArgument(t *testing.T) {
	err := foldErr(t, call("len", &ast.Name{ID: "x"}))
	assert.True(t, errors.Is(err, diag.ErrUnfoldable))
}

func TestFloorAndCeil(t *testing.T) {
	assertInt(t, fold(t, call("floor", decimalLit(t, "3.7"))), "3")
	assertInt(t, fold(t, call("floor", decimalLit(t, "-3.7"))), "-4")
	assertInt(t, fold(t, call("ceil", decimalLit(t, "3.2"))), "4")
	assertInt(t, fold(t, call("ceil", decimalLit(t, "-3.2"))), "-3")
	assertInt(t, fold(t, call("floor", decimalLit(t, "5.0"))), "5")
}

func TestAddMod(t *testing.T) {
	assertInt(t, fold(t, call("uint256_addmod", intLit(32), intLit(2), intLit(32))), "2")

	// the intermediate sum is not truncated to 256 bits
	max := new(big.Int).Lsh(big.NewInt(1), 256)
	max.Sub(max, big.NewInt(1))

	assertInt(t, fold(t,
		call("uint256_addmod", intLitBig(max), intLit(2), intLitBig(max))), "2")
}

func TestMulMod(t *testing.T) {
	assertInt(t, fold(t, call("uint256_mulmod", intLit(3), intLit(1), intLit(2))), "1")
	assertInt(t, fold(t, call("uint256_mulmod", intLit(200), intLit(3), intLit(601))), "600")
}

func TestAddModByZero(t *testing.T) {
	err := foldErr(t, call("uint256_addmod", intLit(1), intLit(2), intLit(0)))
	assert.Contains(t, err.Error(), "Modulo by zero")
}

func TestModArithRangeChecks(t *testing.T) {
	err := foldErr(t, call("uint256_addmod", intLit(-1), intLit(2), intLit(3)))
	assert.True(t, errors.Is(err, diag.ErrUnfoldable))
}

func TestBitwise(t *testing.T) {
	assertInt(t, fold(t, call("bitwise_and", intLit(0b1100), intLit(0b1010))), "8")
	assertInt(t, fold(t, call("bitwise_or", intLit(0b1100), intLit(0b1010))), "14")
	assertInt(t, fold(t, call("bitwise_xor", intLit(0b1100), intLit(0b1010))), "6")

	max := new(big.Int).Lsh(big.NewInt(1), 256)
	max.Sub(max, big.NewInt(1))
	want := new(big.Int).Sub(max, big.NewInt(7))

	assertInt(t, fold(t, call("bitwise_not", intLit(7))), want.String())
}

func TestShift(t *testing.T) {
	assertInt(t, fold(t, call("shift", intLit(1), intLit(8))), "256")
	assertInt(t, fold(t, call("shift", intLit(256), intLit(-8))), "1")

	// left shifts wrap at 256 bits
	one := big.NewInt(1)
	top := new(big.Int).Lsh(one, 255)

	assertInt(t, fold(t, call("shift", intLitBig(top), intLit(1))), "0")
}

func TestAsWeiValue(t *testing.T) {
	assertInt(t, fold(t, call("as_wei_value", intLit(1), strLit("wei"))), "1")
	assertInt(t, fold(t, call("as_wei_value", intLit(2), strLit("ether"))), "2000000000000000000")
	assertInt(t, fold(t, call("as_wei_value", intLit(3), strLit("gwei"))), "3000000000")
	assertInt(t, fold(t, call("as_wei_value", decimalLit(t, "2.5"), strLit("ether"))), "2500000000000000000")
	assertInt(t, fold(t, call("as_wei_value", intLit(1), strLit("grand"))), "1000000000000000000000")
}

func TestAsWeiValueErrors(t *testing.T) {
	err := foldErr(t, call("as_wei_value", intLit(1), strLit("parsec")))
	assert.Contains(t, err.Error(), "Unknown denomination: parsec")

	err = foldErr(t, call("as_wei_value", intLit(-1), strLit("ether")))
	assert.Contains(t, err.Error(), "Negative wei value not allowed")
}

func TestKeccak256(t *testing.T) {
	out := fold(t, call("keccak256", strLit("")))

	lit, ok := out.(*ast.Hex)
	require.True(t, ok)
	assert.Equal(t, "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", lit.Value)
}

func TestSha256(t *testing.T) {
	out := fold(t, call("sha256", strLit("")))

	lit, ok := out.(*ast.Hex)
	require.True(t, ok)
	assert.Equal(t, "0xe3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", lit.Value)
}

func TestHashOfHexLiteral(t *testing.T) {
	// hashing a hex literal hashes its decoded bytes
	direct := fold(t, call("sha256", ast.NewBytesFrom(nil, []byte{0x12, 0x34})))
	viaHex := fold(t, call("sha256", ast.NewHexFrom(nil, "0x1234")))

	assert.Equal(t, direct.(*ast.Hex).Value, viaHex.(*ast.Hex).Value)
}

func TestChainStateBuiltinsNeverFold(t *testing.T) {
	for _, name := range []string{"blockhash", "send"} {
		folder, ok := builtins.Default().Lookup(name)
		require.True(t, ok)

		_, err := folder.FoldCall(call(name, intLit(1)))
		assert.True(t, errors.Is(err, diag.ErrUnfoldable), name)
	}
}

func TestUnknownBuiltin(t *testing.T) {
	_, ok := builtins.Default().Lookup("no_such_builtin")
	assert.False(t, ok)
}
