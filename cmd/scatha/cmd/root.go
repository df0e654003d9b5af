package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "scatha",
	Short: "Scatha compiler front end and bytecode VM",
	Long: `scatha is a statically typed, AOT-compiled systems language's
front end (entity graph, semantic analysis, IR lowering) and its
register-based bytecode virtual machine.`,
	Version: Version,

	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// colorEnabled reports whether diagnostic output to w should be colored:
// only when w is a real terminal, matching isatty's use across the ecosystem
// to avoid emitting escape codes into redirected output or CI logs.
func colorEnabled(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func exitWithError(msg string, args ...any) error {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	return fmt.Errorf(msg, args...)
}
