package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/sriharikapu/SRILang/internal/ast"
	"github.com/sriharikapu/SRILang/internal/builtins"
	"github.com/sriharikapu/SRILang/internal/folding"
	"github.com/sriharikapu/SRILang/internal/parser"
)

var foldFormatFlag string
var foldParallelFlag int

// foldCmd represents the fold command.
var foldCmd = newFoldCmd()

func newFoldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fold [files...]",
		Short: "Parse contracts and fold constant expressions",
		Long: `Parse each contract, substitute builtin and user-defined constants and
reduce every compile-time expression to a literal. The folded syntax tree
is printed for each file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := viper.GetString(foldFormatConfigKey)
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unknown output format %q", format)
			}

			parallel := viper.GetInt(foldParallelConfigKey)
			if parallel < 1 {
				parallel = 1
			}

			outputs := make([]string, len(args))

			var g errgroup.Group
			g.SetLimit(parallel)

			for i, path := range args {
				i, path := i, path
				g.Go(func() error {
					out, err := foldFile(path, format)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}

					outputs[i] = out

					return nil
				})
			}

			if err := g.Wait(); err != nil {
				return err
			}

			for _, out := range outputs {
				cmd.Println(out)
			}

			return nil
		},
	}

	configureFoldFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(foldCmd)
}

func configureFoldFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&foldFormatFlag, formatFlagName, "f", viper.GetString(foldFormatConfigKey), "output format: json or yaml")
	bindFlagToConfig(cmd.Flags().Lookup(formatFlagName), foldFormatConfigKey)

	cmd.Flags().IntVarP(&foldParallelFlag, parallelFlagName, "p", viper.GetInt(foldParallelConfigKey), "number of files to compile in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(parallelFlagName), foldParallelConfigKey)
}

// compileFile parses one source file and folds its constant expressions.
func compileFile(path string) (*ast.Module, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	mod, err := parser.ParseModuleNamed(string(src), filepath.Base(path))
	if err != nil {
		return nil, err
	}

	folder := folding.New(
		folding.WithConstants(folding.BuiltinConstants()),
		folding.WithRegistry(builtins.Default()),
	)

	if err := folder.Fold(mod); err != nil {
		return nil, err
	}

	return mod, nil
}

func foldFile(path, format string) (string, error) {
	mod, err := compileFile(path)
	if err != nil {
		return "", err
	}

	tree := ast.ToMap(mod)

	if format == "yaml" {
		out, err := yaml.Marshal(tree)
		if err != nil {
			return "", err
		}

		return string(out), nil
	}

	out, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return "", err
	}

	return string(out), nil
}
