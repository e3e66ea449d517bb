package folding

import (
	"math/big"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"github.com/sriharikapu/SRILang/internal/ast"
)

// BuiltinConstants returns the environment constants of the language:
// the type bounds and the zero values of the address and bytes32 types.
// The returned nodes are prototypes for use with WithConstants.
func BuiltinConstants() map[string]ast.Node {
	return map[string]ast.Node{
		"EMPTY_BYTES32": ast.NewHexFrom(nil, "0x"+strings.Repeat("00", 32)),
		"ZERO_ADDRESS":  ast.NewHexFrom(nil, "0x"+strings.Repeat("00", 20)),
		"MAX_INT128":    ast.NewIntFrom(nil, maxInt128()),
		"MIN_INT128":    ast.NewIntFrom(nil, minInt128()),
		"MAX_UINT256":   ast.NewIntFrom(nil, maxUint256()),
		"MAX_DECIMAL":   ast.NewDecimalFrom(nil, decimalFromInt(maxInt128())),
		"MIN_DECIMAL":   ast.NewDecimalFrom(nil, decimalFromInt(minInt128())),
	}
}

// maxInt128 returns 2^127 - 1.
func maxInt128() *big.Int {
	v := new(big.Int).Lsh(big.NewInt(1), 127)

	return v.Sub(v, big.NewInt(1))
}

// minInt128 returns -(2^127).
func minInt128() *big.Int {
	v := new(big.Int).Lsh(big.NewInt(1), 127)

	return v.Neg(v)
}

// maxUint256 returns 2^256 - 1.
func maxUint256() *big.Int {
	v := new(big.Int).Lsh(big.NewInt(1), 256)

	return v.Sub(v, big.NewInt(1))
}

func decimalFromInt(v *big.Int) *apd.Decimal {
	d, _, err := apd.NewFromString(v.String())
	if err != nil {
		panic(err) // the input is always a valid integer string
	}

	return d
}
