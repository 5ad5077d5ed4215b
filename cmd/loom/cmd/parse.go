package cmd

import (
	"fmt"
	"os"

	"github.com/loomlang/loom/pkg/loom"
	"github.com/spf13/cobra"
)

var parseEval string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Lower a loom module and print its AST without executing it",
	Long: `Lower loom source and print the resulting AST, for debugging the
front end independently of the evaluator.

Examples:
  loom parse program.loom
  loom parse -e "let a = 1; a + 2"`,
	Args: cobra.MaximumNArgs(1),
	RunE: parseScript,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseEval, "eval", "e", "", "lower an inline statement list instead of reading from file")
}

func parseScript(_ *cobra.Command, args []string) error {
	if parseEval != "" {
		fn, err := loom.LowerFunction(parseEval, nil)
		if err != nil {
			exitWithError("%v", err)
		}
		printFunction(fn)
		return nil
	}

	if len(args) == 0 {
		exitWithError("no input: pass a file or use --eval")
	}
	source, err := os.ReadFile(args[0])
	if err != nil {
		exitWithError("%v", err)
	}
	registry, err := loom.LowerModule(string(source))
	if err != nil {
		exitWithError("%v", err)
	}
	for _, name := range registry.Names() {
		builder, _ := registry.Lookup(name)
		printFunction(builder())
	}
	return nil
}

func printFunction(fn *loom.Function) {
	fmt.Printf("fn %s(%s)\n", fn.Name, joinParams(fn.Params))
	for _, stmt := range fn.Body {
		fmt.Printf("  %s\n", stmt.String())
	}
}
