// Package folding rewrites a module's syntax tree so that every expression
// whose value is known at compile time becomes a literal node. The engine
// runs replacement passes to a fixed point: each pass reports how many nodes
// it rewrote, and the loop stops once a full sweep changes nothing.
package folding

import (
	"errors"
	"log/slog"

	"github.com/sriharikapu/SRILang/internal/ast"
	"github.com/sriharikapu/SRILang/internal/diag"
)

// CallFolder reduces one builtin function call to a literal node. A builtin
// without compile-time semantics returns diag.ErrUnfoldable.
type CallFolder interface {
	FoldCall(call *ast.Call) (ast.Node, error)
}

// Registry resolves builtin function names to their folding behavior.
type Registry interface {
	Lookup(name string) (CallFolder, bool)
}

// Folder drives constant folding over a module. Its environment, the
// builtin constants and the builtin function registry, is injected at
// construction so the engine itself stays free of globals.
type Folder struct {
	constants map[string]ast.Node
	registry  Registry
	log       *slog.Logger
}

// FolderOption configures a Folder.
type FolderOption func(*Folder)

// WithConstants sets the named builtin constants. The given nodes are
// prototypes; every substitution receives a fresh copy.
func WithConstants(constants map[string]ast.Node) FolderOption {
	return func(f *Folder) { f.constants = constants }
}

// WithRegistry sets the builtin function registry.
func WithRegistry(registry Registry) FolderOption {
	return func(f *Folder) { f.registry = registry }
}

// WithLogger sets the logger used for per-round progress.
func WithLogger(log *slog.Logger) FolderOption {
	return func(f *Folder) { f.log = log }
}

// New builds a Folder.
func New(opts ...FolderOption) *Folder {
	f := &Folder{log: slog.Default()}
	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fold rewrites the module in place. Builtin constants are substituted once
// up front; user-defined constants, literal operations, literal subscripts
// and foldable builtin calls are then replaced in rounds until a round makes
// no change. Afterwards every constant declaration must have reduced to a
// literal initializer.
func (f *Folder) Fold(mod *ast.Module) error {
	if err := f.replaceBuiltinConstants(mod); err != nil {
		return err
	}

	for round := 1; ; round++ {
		changed := 0

		for _, pass := range []func(*ast.Module) (int, error){
			f.replaceUserDefinedConstants,
			f.replaceLiteralOps,
			f.replaceSubscripts,
			f.replaceBuiltinCalls,
		} {
			n, err := pass(mod)
			if err != nil {
				return err
			}

			changed += n
		}

		f.log.Debug("folding round complete", "round", round, "changed", changed)

		if changed == 0 {
			break
		}
	}

	return checkConstants(mod)
}

// checkConstants verifies that the initializer of every constant declaration
// reduced to a literal. Running after the fixed point means an initializer
// built from other constants has had every chance to fold first.
func checkConstants(mod *ast.Module) error {
	for _, decl := range constantDeclarations(mod) {
		if decl.Value == nil || !isLiteral(decl.Value) {
			return diag.NewError(
				diag.KindInvalidLiteral,
				"Constant initializer could not be folded to a literal",
				decl,
			)
		}
	}

	return nil
}

// isLiteral reports whether a node is a literal value: a constant, or a
// literal sequence of literal values.
func isLiteral(n ast.Node) bool {
	switch v := n.(type) {
	case ast.Constant:
		return true

	case *ast.List:
		for _, elt := range v.Elts {
			if !isLiteral(elt) {
				return false
			}
		}

		return true
	}

	return false
}

// constantDeclarations returns the module-level `name: constant(type) = ...`
// declarations.
func constantDeclarations(mod *ast.Module) []*ast.AnnAssign {
	var out []*ast.AnnAssign

	for _, decl := range ast.Children[*ast.AnnAssign](mod) {
		if ast.Get(decl, "annotation.func.id") != "constant" {
			continue
		}

		if _, ok := decl.Target.(*ast.Name); !ok {
			continue
		}

		out = append(out, decl)
	}

	return out
}

// replaceBuiltinConstants substitutes the environment's named constants.
// These prototypes are always literals, so a failed substitution is an
// engine defect.
func (f *Folder) replaceBuiltinConstants(mod *ast.Module) error {
	for name, prototype := range f.constants {
		if _, err := ReplaceConstant(mod, name, prototype, true); err != nil {
			return err
		}
	}

	return nil
}

func (f *Folder) replaceUserDefinedConstants(mod *ast.Module) (int, error) {
	changed := 0

	for _, decl := range constantDeclarations(mod) {
		if decl.Value == nil {
			continue
		}

		name := decl.Target.(*ast.Name).ID

		n, err := ReplaceConstant(mod, name, decl.Value, false)
		if err != nil {
			return changed, err
		}

		changed += n
	}

	return changed, nil
}

// replaceLiteralOps folds arithmetic, boolean and comparison operators whose
// operands are literals. Deepest nodes are visited first so inner
// expressions reduce before the expressions containing them.
func (f *Folder) replaceLiteralOps(mod *ast.Module) (int, error) {
	changed := 0

	for _, node := range ast.Descendants[ast.Operation](mod, ast.Reverse()) {
		replacement, err := node.Evaluate()
		if errors.Is(err, diag.ErrUnfoldable) {
			continue
		}

		if err != nil {
			return changed, err
		}

		if err := mod.ReplaceInTree(node, replacement); err != nil {
			return changed, err
		}

		changed++
	}

	return changed, nil
}

// replaceSubscripts folds indexed access into literal lists. The selected
// element node itself is spliced into the subscript's place.
func (f *Folder) replaceSubscripts(mod *ast.Module) (int, error) {
	changed := 0

	for _, node := range ast.Descendants[*ast.Subscript](mod, ast.Reverse()) {
		replacement, err := node.Evaluate()
		if errors.Is(err, diag.ErrUnfoldable) {
			continue
		}

		if err != nil {
			return changed, err
		}

		if err := mod.ReplaceInTree(node, replacement); err != nil {
			return changed, err
		}

		changed++
	}

	return changed, nil
}

// replaceBuiltinCalls folds calls to builtins that have compile-time
// semantics and fully literal arguments.
func (f *Folder) replaceBuiltinCalls(mod *ast.Module) (int, error) {
	if f.registry == nil {
		return 0, nil
	}

	changed := 0

	for _, node := range ast.Descendants[*ast.Call](mod, ast.Reverse()) {
		name, ok := ast.Get(node, "func.id").(string)
		if !ok {
			continue
		}

		folder, ok := f.registry.Lookup(name)
		if !ok {
			continue
		}

		replacement, err := folder.FoldCall(node)
		if errors.Is(err, diag.ErrUnfoldable) {
			continue
		}

		if err != nil {
			return changed, err
		}

		if err := mod.ReplaceInTree(node, replacement); err != nil {
			return changed, err
		}

		changed++
	}

	return changed, nil
}
