package ast

import (
	"math/big"

	"github.com/cockroachdb/apd/v3"
	"github.com/sriharikapu/SRILang/internal/diag"
)

// Arithmetic on literals reproduces the virtual machine exactly: integer
// division truncates toward zero, modulo takes the sign of the dividend, and
// decimals hold ten fractional digits with results truncated, never rounded.

// decimalScale is the fixed number of fractional digits of the decimal type.
const decimalScale = -10

// maxExponent bounds literal exponentiation; anything larger cannot fit any
// VM integer type and would only burn memory.
var maxExponent = big.NewInt(1 << 32)

// decimalContext returns the arithmetic context for decimal literals. The
// precision comfortably covers products of two 38-digit operands before the
// result is re-quantized to ten fractional digits.
func decimalContext() *apd.Context {
	ctx := apd.BaseContext.WithPrecision(100)
	ctx.Rounding = apd.RoundDown

	return ctx
}

func evalIntOp(op BinaryOperator, left, right *big.Int, at Node) (*big.Int, error) {
	out := new(big.Int)

	switch op {
	case OpAdd:
		return out.Add(left, right), nil

	case OpSub:
		return out.Sub(left, right), nil

	case OpMult:
		return out.Mul(left, right), nil

	case OpDiv:
		if right.Sign() == 0 {
			return nil, diag.NewError(diag.KindZeroDivision, "Division by zero", at)
		}

		// Quo truncates toward zero.
		return out.Quo(left, right), nil

	case OpMod:
		if right.Sign() == 0 {
			return nil, diag.NewError(diag.KindZeroDivision, "Modulo by zero", at)
		}

		// Rem takes the sign of the dividend.
		return out.Rem(left, right), nil

	case OpPow:
		if right.Sign() < 0 {
			return nil, diag.ErrUnfoldable
		}

		if right.Cmp(maxExponent) > 0 {
			return nil, diag.NewError(diag.KindOverflow, "Exponent too large", at)
		}

		return out.Exp(left, right, nil), nil
	}

	return nil, diag.ErrUnfoldable
}

func evalDecimalOp(op BinaryOperator, left, right *apd.Decimal, at Node) (*apd.Decimal, error) {
	if op == OpPow {
		return nil, diag.NewError(
			diag.KindTypeMismatch,
			"Cannot perform exponentiation on decimal values.",
			at,
		)
	}

	ctx := decimalContext()
	out := new(apd.Decimal)

	var err error

	switch op {
	case OpAdd:
		_, err = ctx.Add(out, left, right)

	case OpSub:
		_, err = ctx.Sub(out, left, right)

	case OpMult:
		_, err = ctx.Mul(out, left, right)

	case OpDiv:
		if right.IsZero() {
			return nil, diag.NewError(diag.KindZeroDivision, "Division by zero", at)
		}

		_, err = ctx.Quo(out, left, right)

	case OpMod:
		if right.IsZero() {
			return nil, diag.NewError(diag.KindZeroDivision, "Modulo by zero", at)
		}

		// Rem truncates, so the result takes the sign of the dividend.
		_, err = ctx.Rem(out, left, right)

	default:
		return nil, diag.ErrUnfoldable
	}

	if err != nil {
		return nil, diag.Panicf("decimal %s failed: %v.", op.Description(), err)
	}

	// Excess fractional digits are cut, not rounded; RoundDown truncates
	// toward zero for negative results as well.
	if _, err := ctx.Quantize(out, out, decimalScale); err != nil {
		return nil, diag.Panicf("decimal quantize failed: %v.", err)
	}

	return out, nil
}
