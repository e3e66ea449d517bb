package ast

import (
	"encoding/hex"
	"math/big"
	"reflect"

	"github.com/cockroachdb/apd/v3"
)

// ToMap renders a node and its subtree as a generic dictionary suitable for
// serialization. The layout mirrors the raw parse-tree shape: an "ast_type"
// tag, the node id, the source offsets and the declared fields. Source text
// is omitted; numeric literal values are rendered as strings so arbitrary
// precision survives the round trip.
func ToMap(n Node) map[string]any {
	s := n.Span()

	out := map[string]any{
		"ast_type":       VariantName(n),
		"node_id":        n.NodeID(),
		"lineno":         s.Lineno,
		"col_offset":     s.ColOffset,
		"end_lineno":     s.EndLineno,
		"end_col_offset": s.EndColOffset,
	}

	v := reflect.ValueOf(n).Elem()

	for _, f := range variantFields(v.Type()) {
		fv := v.Field(f.index)

		switch {
		case fv.Type() == nodeInterfaceType:
			if fv.IsNil() {
				out[f.name] = nil
				continue
			}

			out[f.name] = ToMap(fv.Interface().(Node))

		case fv.Type() == reflect.SliceOf(nodeInterfaceType):
			items := make([]any, fv.Len())
			for i := 0; i < fv.Len(); i++ {
				items[i] = ToMap(fv.Index(i).Interface().(Node))
			}

			out[f.name] = items

		default:
			out[f.name] = plainToValue(fv.Interface())
		}
	}

	return out
}

func plainToValue(v any) any {
	switch value := v.(type) {
	case *big.Int:
		if value == nil {
			return nil
		}

		return value.String()

	case *apd.Decimal:
		if value == nil {
			return nil
		}

		return value.Text('f')

	case []byte:
		return "0x" + hex.EncodeToString(value)

	case UnaryOperator:
		return string(value)
	case BinaryOperator:
		return string(value)
	case BoolOperator:
		return string(value)
	case CmpOperator:
		return string(value)
	}

	return v
}
