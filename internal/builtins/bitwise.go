package builtins

import (
	"math/big"

	"github.com/sriharikapu/SRILang/internal/ast"
	"github.com/sriharikapu/SRILang/internal/diag"
)

// Bitwise builtins operate on uint256 values; arguments outside that range
// are left for type checking to reject.

func foldBitwiseAnd(call *ast.Call) (ast.Node, error) {
	return foldBitwiseBinary(call, (*big.Int).And)
}

func foldBitwiseOr(call *ast.Call) (ast.Node, error) {
	return foldBitwiseBinary(call, (*big.Int).Or)
}

func foldBitwiseXor(call *ast.Call) (ast.Node, error) {
	return foldBitwiseBinary(call, (*big.Int).Xor)
}

func foldBitwiseBinary(call *ast.Call, op func(*big.Int, *big.Int, *big.Int) *big.Int) (ast.Node, error) {
	args, err := intArgs(call, 2)
	if err != nil {
		return nil, err
	}

	for _, arg := range args {
		if arg.Sign() < 0 || arg.Cmp(uint256Max) > 0 {
			return nil, diag.ErrUnfoldable
		}
	}

	return ast.NewIntFrom(call, op(new(big.Int), args[0], args[1])), nil
}

func foldBitwiseNot(call *ast.Call) (ast.Node, error) {
	args, err := intArgs(call, 1)
	if err != nil {
		return nil, err
	}

	if args[0].Sign() < 0 || args[0].Cmp(uint256Max) > 0 {
		return nil, diag.ErrUnfoldable
	}

	return ast.NewIntFrom(call, new(big.Int).Sub(uint256Max, args[0])), nil
}

// foldShift reduces shift(value, bits): positive bit counts shift left with
// the result wrapped to 256 bits, negative counts shift right.
func foldShift(call *ast.Call) (ast.Node, error) {
	args, err := intArgs(call, 2)
	if err != nil {
		return nil, err
	}

	value, bits := args[0], args[1]

	if value.Sign() < 0 || value.Cmp(uint256Max) > 0 {
		return nil, diag.ErrUnfoldable
	}

	if !bits.IsInt64() || bits.Int64() < -256 || bits.Int64() > 256 {
		return nil, diag.ErrUnfoldable
	}

	out := new(big.Int)

	if n := bits.Int64(); n >= 0 {
		out.Lsh(value, uint(n))
		out.Mod(out, uint256Mod)
	} else {
		out.Rsh(value, uint(-n))
	}

	return ast.NewIntFrom(call, out), nil
}
