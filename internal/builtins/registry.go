// Package builtins implements the builtin functions of the language that
// have compile-time semantics, exposed to the folding engine through its
// Registry interface.
package builtins

import (
	"math/big"

	"github.com/sriharikapu/SRILang/internal/ast"
	"github.com/sriharikapu/SRILang/internal/diag"
	"github.com/sriharikapu/SRILang/internal/folding"
)

type foldFunc func(call *ast.Call) (ast.Node, error)

// builtin pairs a function name with its optional folding behavior. Builtins
// whose value depends on chain state carry no fold function and are never
// reduced at compile time.
type builtin struct {
	name string
	fold foldFunc
}

func (b *builtin) FoldCall(call *ast.Call) (ast.Node, error) {
	if b.fold == nil {
		return nil, diag.ErrUnfoldable
	}

	return b.fold(call)
}

// Registry is the builtin function table.
type Registry struct {
	table map[string]*builtin
}

// Lookup resolves a builtin by name.
func (r *Registry) Lookup(name string) (folding.CallFolder, bool) {
	b, ok := r.table[name]
	if !ok {
		return nil, false
	}

	return b, true
}

// Names returns the registered builtin names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.table))
	for name := range r.table {
		names = append(names, name)
	}

	return names
}

// Default returns the registry of all builtin functions.
func Default() *Registry {
	r := &Registry{table: make(map[string]*builtin)}

	for _, b := range []*builtin{
		{name: "len", fold: foldLen},
		{name: "floor", fold: foldFloor},
		{name: "ceil", fold: foldCeil},
		{name: "uint256_addmod", fold: foldAddMod},
		{name: "uint256_mulmod", fold: foldMulMod},
		{name: "bitwise_and", fold: foldBitwiseAnd},
		{name: "bitwise_or", fold: foldBitwiseOr},
		{name: "bitwise_xor", fold: foldBitwiseXor},
		{name: "bitwise_not", fold: foldBitwiseNot},
		{name: "shift", fold: foldShift},
		{name: "as_wei_value", fold: foldAsWeiValue},
		{name: "keccak256", fold: foldKeccak256},
		{name: "sha256", fold: foldSha256},

		// Chain-state builtins: known names, no compile-time value.
		{name: "blockhash"},
		{name: "send"},
		{name: "raw_call"},
		{name: "create_forwarder_to"},
	} {
		r.table[b.name] = b
	}

	return r
}

// intArgs extracts exactly want integer literal arguments from a call.
func intArgs(call *ast.Call, want int) ([]*big.Int, error) {
	if len(call.Args) != want {
		return nil, diag.ErrUnfoldable
	}

	out := make([]*big.Int, want)

	for i, arg := range call.Args {
		lit, ok := arg.(*ast.Int)
		if !ok {
			return nil, diag.ErrUnfoldable
		}

		out[i] = lit.Value
	}

	return out, nil
}

// singleArg extracts the only argument of a call.
func singleArg(call *ast.Call) (ast.Node, error) {
	if len(call.Args) != 1 {
		return nil, diag.ErrUnfoldable
	}

	return call.Args[0], nil
}
