package cmd

import (
	"encoding/hex"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/sriharikapu/SRILang/internal/ast"
	"github.com/sriharikapu/SRILang/internal/folding"
)

// constantsCmd represents the constants command.
var constantsCmd = newConstantsCmd()

func newConstantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "constants [files...]",
		Short: "Show builtin and contract constants",
		Long: `Show the builtin constants of the language. When contract files are
given, their folded constant declarations are listed as well.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Source", "Name", "Value"})

			names := make([]string, 0)
			builtinConstants := folding.BuiltinConstants()

			for name := range builtinConstants {
				names = append(names, name)
			}

			sort.Strings(names)

			for _, name := range names {
				table.Append([]string{"builtin", name, literalText(builtinConstants[name])})
			}

			for _, path := range args {
				mod, err := compileFile(path)
				if err != nil {
					return err
				}

				for _, decl := range ast.Children[*ast.AnnAssign](mod) {
					if ast.Get(decl, "annotation.func.id") != "constant" {
						continue
					}

					name, ok := ast.Get(decl, "target.id").(string)
					if !ok {
						continue
					}

					table.Append([]string{path, name, literalText(decl.Value)})
				}
			}

			table.Render()

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(constantsCmd)
}

// literalText renders a folded literal for display.
func literalText(n ast.Node) string {
	switch v := n.(type) {
	case *ast.Int:
		return v.Value.String()
	case *ast.Decimal:
		return v.Value.Text('f')
	case *ast.Hex:
		return v.Value
	case *ast.Str:
		return "\"" + v.Value + "\""
	case *ast.Bytes:
		return "0x" + hex.EncodeToString(v.Value)
	case *ast.NameConstant:
		if b, ok := v.Value.(bool); ok {
			if b {
				return "True"
			}

			return "False"
		}

		return "None"

	case *ast.List:
		out := "["
		for i, elt := range v.Elts {
			if i > 0 {
				out += ", "
			}

			out += literalText(elt)
		}

		return out + "]"
	}

	return "<unfolded>"
}
