package builtins

import (
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/apd/v3"

	"github.com/sriharikapu/SRILang/internal/ast"
	"github.com/sriharikapu/SRILang/internal/diag"
)

var (
	uint256Max = func() *big.Int {
		v := new(big.Int).Lsh(big.NewInt(1), 256)
		return v.Sub(v, big.NewInt(1))
	}()

	uint256Mod = new(big.Int).Lsh(big.NewInt(1), 256)
)

// foldLen reduces len() of a literal string, byte-string or hex value.
func foldLen(call *ast.Call) (ast.Node, error) {
	arg, err := singleArg(call)
	if err != nil {
		return nil, err
	}

	var length int

	switch v := arg.(type) {
	case *ast.Str:
		length = utf8.RuneCountInString(v.Value)
	case *ast.Bytes:
		length = len(v.Value)
	case *ast.Hex:
		length = (len(v.Value) - 2) / 2
	default:
		return nil, diag.ErrUnfoldable
	}

	return ast.NewIntFrom(call, big.NewInt(int64(length))), nil
}

func foldFloor(call *ast.Call) (ast.Node, error) {
	return foldRounding(call, (*apd.Context).Floor)
}

func foldCeil(call *ast.Call) (ast.Node, error) {
	return foldRounding(call, (*apd.Context).Ceil)
}

func foldRounding(call *ast.Call, round func(*apd.Context, *apd.Decimal, *apd.Decimal) (apd.Condition, error)) (ast.Node, error) {
	arg, err := singleArg(call)
	if err != nil {
		return nil, err
	}

	lit, ok := arg.(*ast.Decimal)
	if !ok {
		return nil, diag.ErrUnfoldable
	}

	ctx := apd.BaseContext.WithPrecision(100)

	rounded := new(apd.Decimal)
	if _, err := round(ctx, rounded, lit.Value); err != nil {
		return nil, diag.Panicf("decimal rounding failed: %v.", err)
	}

	value, ok := new(big.Int).SetString(strings.SplitN(rounded.Text('f'), ".", 2)[0], 10)
	if !ok {
		return nil, diag.Panicf("rounded decimal %q is not an integer.", rounded.Text('f'))
	}

	return ast.NewIntFrom(call, value), nil
}

// foldAddMod reduces uint256_addmod(a, b, c) = (a + b) % c over the full
// intermediate sum.
func foldAddMod(call *ast.Call) (ast.Node, error) {
	return foldModArith(call, (*big.Int).Add)
}

// foldMulMod reduces uint256_mulmod(a, b, c) = (a * b) % c over the full
// intermediate product.
func foldMulMod(call *ast.Call) (ast.Node, error) {
	return foldModArith(call, (*big.Int).Mul)
}

func foldModArith(call *ast.Call, op func(*big.Int, *big.Int, *big.Int) *big.Int) (ast.Node, error) {
	args, err := intArgs(call, 3)
	if err != nil {
		return nil, err
	}

	for _, arg := range args {
		if arg.Sign() < 0 || arg.Cmp(uint256Max) > 0 {
			return nil, diag.ErrUnfoldable
		}
	}

	if args[2].Sign() == 0 {
		return nil, diag.NewError(diag.KindZeroDivision, "Modulo by zero", call)
	}

	value := op(new(big.Int), args[0], args[1])
	value.Mod(value, args[2])

	return ast.NewIntFrom(call, value), nil
}

// weiDenominations maps denomination names to their value in wei.
var weiDenominations = map[string]*big.Int{
	"wei":         pow10(0),
	"femtoether":  pow10(3),
	"kwei":        pow10(3),
	"babbage":     pow10(3),
	"picoether":   pow10(6),
	"mwei":        pow10(6),
	"lovelace":    pow10(6),
	"nanoether":   pow10(9),
	"gwei":        pow10(9),
	"shannon":     pow10(9),
	"microether":  pow10(12),
	"szabo":       pow10(12),
	"milliether":  pow10(15),
	"finney":      pow10(15),
	"ether":       pow10(18),
	"kether":      pow10(21),
	"grand":       pow10(21),
}

func pow10(exp int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(exp), nil)
}

// foldAsWeiValue reduces as_wei_value(value, denomination) to the equivalent
// amount in wei. Decimal values are truncated after scaling.
func foldAsWeiValue(call *ast.Call) (ast.Node, error) {
	if len(call.Args) != 2 {
		return nil, diag.ErrUnfoldable
	}

	denomArg, ok := call.Args[1].(*ast.Str)
	if !ok {
		return nil, diag.ErrUnfoldable
	}

	denom, ok := weiDenominations[strings.ToLower(denomArg.Value)]
	if !ok {
		return nil, diag.NewError(
			diag.KindInvalidLiteral,
			fmt.Sprintf("Unknown denomination: %s", denomArg.Value),
			denomArg,
		)
	}

	switch value := call.Args[0].(type) {
	case *ast.Int:
		if value.Value.Sign() < 0 {
			return nil, diag.NewError(
				diag.KindInvalidLiteral, "Negative wei value not allowed", value)
		}

		return ast.NewIntFrom(call, new(big.Int).Mul(value.Value, denom)), nil

	case *ast.Decimal:
		if value.Value.Negative && !value.Value.IsZero() {
			return nil, diag.NewError(
				diag.KindInvalidLiteral, "Negative wei value not allowed", value)
		}

		wei, err := scaleDecimal(value.Value, denom)
		if err != nil {
			return nil, err
		}

		return ast.NewIntFrom(call, wei), nil
	}

	return nil, diag.ErrUnfoldable
}

// scaleDecimal multiplies a decimal by an integer factor and truncates the
// result to an integer.
func scaleDecimal(value *apd.Decimal, factor *big.Int) (*big.Int, error) {
	ctx := apd.BaseContext.WithPrecision(100)
	ctx.Rounding = apd.RoundDown

	scale, _, err := apd.NewFromString(factor.String())
	if err != nil {
		return nil, diag.Panicf("invalid scale factor %q: %v.", factor, err)
	}

	scaled := new(apd.Decimal)
	if _, err := ctx.Mul(scaled, value, scale); err != nil {
		return nil, diag.Panicf("decimal scaling failed: %v.", err)
	}

	truncated := new(apd.Decimal)
	if _, err := ctx.Quantize(truncated, scaled, 0); err != nil {
		return nil, diag.Panicf("decimal truncation failed: %v.", err)
	}

	out, ok := new(big.Int).SetString(truncated.Text('f'), 10)
	if !ok {
		return nil, diag.Panicf("truncated decimal %q is not an integer.", truncated.Text('f'))
	}

	return out, nil
}
