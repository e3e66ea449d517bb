package ast

import "reflect"

// CompareNodes reports whether two nodes are structurally equivalent: same
// variant, equal plain field values and pairwise-equivalent children. Ids,
// parents and source spans are ignored, so a synthesized literal compares
// equal to the parsed literal it mirrors.
func CompareNodes(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	av := reflect.ValueOf(a).Elem()
	bv := reflect.ValueOf(b).Elem()

	if av.Type() != bv.Type() {
		return false
	}

	for _, f := range variantFields(av.Type()) {
		afv := av.Field(f.index)
		bfv := bv.Field(f.index)

		switch {
		case afv.Type() == nodeInterfaceType:
			an, _ := afv.Interface().(Node)
			bn, _ := bfv.Interface().(Node)

			if !CompareNodes(an, bn) {
				return false
			}

		case afv.Type() == reflect.SliceOf(nodeInterfaceType):
			if afv.Len() != bfv.Len() {
				return false
			}

			for i := 0; i < afv.Len(); i++ {
				an := afv.Index(i).Interface().(Node)
				bn := bfv.Index(i).Interface().(Node)

				if !CompareNodes(an, bn) {
					return false
				}
			}

		default:
			if !equalValue(afv.Interface(), bfv.Interface()) {
				return false
			}
		}
	}

	return true
}
