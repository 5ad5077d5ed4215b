package cmd

import (
	"fmt"
	"os"

	"github.com/loomlang/loom/pkg/loom"
	"github.com/spf13/cobra"
)

var (
	evalExpr  string
	dumpAST   bool
	showTrace bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a loom module or expression",
	Long: `Execute a loom module from a file or an inline statement list.

Examples:
  # Run a module file (executes fn main)
  loom run program.loom

  # Evaluate an inline statement list
  loom run -e "let a = 1; a + 2"

  # Show the lowered AST before running
  loom run --dump-ast program.loom

  # Print every contract check that ran
  loom run --trace program.loom`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate an inline statement list instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the lowered AST before running (for debugging)")
	runCmd.Flags().BoolVar(&showTrace, "trace", false, "print the contract checks that ran")
}

func runScript(_ *cobra.Command, args []string) error {
	fn, err := loadFunction(evalExpr, args)
	if err != nil {
		exitWithError("%v", err)
	}

	if dumpAST {
		dumpFunction(fn)
	}

	interpreter := loom.NewInterpreter()
	result, err := interpreter.ExecuteFunction(fn)
	if err != nil {
		exitWithError("%v", err)
	}

	fmt.Println(result.String())

	if showTrace {
		for _, check := range interpreter.ContractTrace() {
			status := "ok"
			if !check.Passed {
				status = "FAILED"
			}
			fmt.Fprintf(os.Stderr, "contract %s/%s (%s): %s\n", check.Tag, check.Condition, check.Phase, status)
		}
	}
	return nil
}

// loadFunction lowers either the inline statement list or the module file
// named by args, resolving fn main for the latter.
func loadFunction(inline string, args []string) (*loom.Function, error) {
	if inline != "" {
		return loom.LowerFunction(inline, nil)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("no input: pass a file or use --eval")
	}
	source, err := os.ReadFile(args[0])
	if err != nil {
		return nil, err
	}
	registry, err := loom.LowerModule(string(source))
	if err != nil {
		return nil, err
	}
	builder, ok := registry.Lookup("main")
	if !ok {
		return nil, fmt.Errorf("%s: module has no fn main", args[0])
	}
	return builder(), nil
}

func dumpFunction(fn *loom.Function) {
	fmt.Fprintf(os.Stderr, "fn %s(%s)\n", fn.Name, joinParams(fn.Params))
	for _, stmt := range fn.Body {
		fmt.Fprintf(os.Stderr, "  %s\n", stmt.String())
	}
	for tag, contract := range fn.Contracts {
		fmt.Fprintf(os.Stderr, "  contract %q:", tag)
		if contract.Pre != nil {
			fmt.Fprintf(os.Stderr, " pre=%s", contract.Pre.Name)
		}
		if contract.Maintenance != nil {
			fmt.Fprintf(os.Stderr, " maintenance=%s", contract.Maintenance.Name)
		}
		if contract.Post != nil {
			fmt.Fprintf(os.Stderr, " post=%s", contract.Post.Name)
		}
		fmt.Fprintln(os.Stderr)
	}
}

func joinParams(params []string) string {
	out := ""
	for i, p := range params {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
