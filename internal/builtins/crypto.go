package builtins

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/sriharikapu/SRILang/internal/ast"
	"github.com/sriharikapu/SRILang/internal/diag"
)

// foldKeccak256 reduces keccak256() of a literal string, byte-string or hex
// value to the hex digest.
func foldKeccak256(call *ast.Call) (ast.Node, error) {
	input, err := hashInput(call)
	if err != nil {
		return nil, err
	}

	h := sha3.NewLegacyKeccak256()
	h.Write(input)

	return ast.NewHexFrom(call, "0x"+hex.EncodeToString(h.Sum(nil))), nil
}

// foldSha256 reduces sha256() of a literal string, byte-string or hex value
// to the hex digest.
func foldSha256(call *ast.Call) (ast.Node, error) {
	input, err := hashInput(call)
	if err != nil {
		return nil, err
	}

	digest := sha256.Sum256(input)

	return ast.NewHexFrom(call, "0x"+hex.EncodeToString(digest[:])), nil
}

func hashInput(call *ast.Call) ([]byte, error) {
	arg, err := singleArg(call)
	if err != nil {
		return nil, err
	}

	switch v := arg.(type) {
	case *ast.Str:
		return []byte(v.Value), nil

	case *ast.Bytes:
		return v.Value, nil

	case *ast.Hex:
		decoded, err := hex.DecodeString(v.Value[2:])
		if err != nil {
			return nil, diag.NewError(
				diag.KindInvalidLiteral, "Invalid hexadecimal literal", v)
		}

		return decoded, nil
	}

	return nil, diag.ErrUnfoldable
}
