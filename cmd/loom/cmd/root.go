package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "loom",
	Short: "Loom interpreter",
	Long: `loom runs programs written in the loom language: a small imperative
language with lexically scoped blocks, ranged-for and while loops, and
machine-checkable loop contracts (pre-, maintenance- and post-conditions)
attached to loops by tag.

A loom module is a sequence of function declarations:

  #[contract(sum: { maintenance_condition: acc_bounded })]
  fn main() {
      let mut acc = 0;
      'sum: for i in 0..10 { acc = acc + i; }
      acc
  }
  fn acc_bounded() { acc < 100 }`,
	Version: Version,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
