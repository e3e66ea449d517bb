package ast

import (
	"reflect"

	"github.com/sriharikapu/SRILang/internal/diag"
)

// ReplaceInTree substitutes new for old within the module. This is the only
// mutation primitive the tree exposes: every rewrite, including constant
// folding, goes through it.
//
// The errors returned here are internal (diag.Panic): a caller holding a node
// that is not actually reachable from the module, or a parent whose declared
// fields disagree with its child set, indicates a defect in the rewrite
// machinery rather than in the contract source.
func (m *Module) ReplaceInTree(old, new Node) error {
	if !reachable(m, old) {
		return diag.Panicf("Node to be replaced does not exist within the tree.")
	}

	parent := old.Parent()
	if parent == nil {
		return diag.Panicf("Cannot replace the tree root.")
	}

	if !containsChild(parent, old) {
		return diag.Panicf("Node to be replaced does not exist within parent children.")
	}

	slot, err := findFieldSlot(parent, old)
	if err != nil {
		return err
	}

	nb := new.base()
	nb.parent = parent
	nb.depth = old.Depth()

	slot.Set(reflect.ValueOf(new))

	pb := parent.base()
	for i, child := range pb.children {
		if child == old {
			pb.children[i] = new
			break
		}
	}

	return nil
}

// reachable walks the tree from root and reports whether target is a member,
// comparing by identity.
func reachable(root, target Node) bool {
	if root == target {
		return true
	}

	for _, child := range root.base().children {
		if reachable(child, target) {
			return true
		}
	}

	return false
}

func containsChild(parent, child Node) bool {
	for _, c := range parent.base().children {
		if c == child {
			return true
		}
	}

	return false
}

// findFieldSlot locates the exactly-one declared field slot of parent that
// holds target, either a scalar child field or an element of a child list.
func findFieldSlot(parent, target Node) (reflect.Value, error) {
	v := reflect.ValueOf(parent).Elem()

	var (
		slot  reflect.Value
		found int
	)

	for _, f := range variantFields(v.Type()) {
		fv := v.Field(f.index)

		switch {
		case fv.Type() == nodeInterfaceType:
			if !fv.IsNil() && fv.Interface().(Node) == target {
				slot = fv
				found++
			}

		case fv.Type() == reflect.SliceOf(nodeInterfaceType):
			for i := 0; i < fv.Len(); i++ {
				if fv.Index(i).Interface().(Node) == target {
					slot = fv.Index(i)
					found++
				}
			}
		}
	}

	switch {
	case found > 1:
		return reflect.Value{}, diag.Panicf(
			"Node to be replaced exists as multiple members in parent.")
	case found == 0:
		return reflect.Value{}, diag.Panicf(
			"Node to be replaced does not exist within parent members.")
	}

	return slot, nil
}
