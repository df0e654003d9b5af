package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scatha-lang/scatha/internal/vm"
)

var (
	libSearchPaths []string
	hostConfigPath string
)

var runCmd = &cobra.Command{
	Use:   "run <binary>",
	Short: "Load and execute an assembled bytecode binary",
	Long: `run loads a binary produced by the (external) assembler and executes
it on the register-based virtual machine, starting at the binary's start
address, with stdin/stdout wired to the host's own streams.`,
	Args: cobra.ExactArgs(1),
	RunE: runBinary,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringSliceVar(&libSearchPaths, "lib-path", nil, "directories searched for foreign libraries, in order (overrides the config file)")
	runCmd.Flags().StringVar(&hostConfigPath, "config", "scatha.yaml", "optional host config file (library search path, foreign library dir, builtin bindings)")
}

func runBinary(_ *cobra.Command, args []string) error {
	bin, err := loadBinaryFile(args[0])
	if err != nil {
		return exitWithError("%v", err)
	}

	hostCfg, err := vm.LoadHostConfig(hostConfigPath)
	if err != nil {
		return exitWithError("%v", err)
	}

	machine, err := vm.LoadWithStack(bin, vm.DefaultStackSize, hostCfg.SearchPath(libSearchPaths))
	if err != nil {
		return exitWithError("loading %s: %v", args[0], err)
	}
	if err := hostCfg.ApplyBuiltins(machine); err != nil {
		return exitWithError("%v", err)
	}

	result, err := machine.Execute(nil)
	if err != nil {
		if exit, ok := err.(*vm.ExitException); ok {
			os.Exit(int(exit.Code))
		}
		return exitWithError("execution faulted: %v", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "exited with register value %d\n", result.Int64())
	}
	return nil
}

func loadBinaryFile(path string) (*vm.Binary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return vm.ReadBinary(f)
}
