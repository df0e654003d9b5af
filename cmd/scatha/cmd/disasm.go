package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/scatha-lang/scatha/internal/vm"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm <binary>",
	Short: "Print a human-readable listing of an assembled bytecode binary",
	Args:  cobra.ExactArgs(1),
	RunE:  runDisasm,
}

func init() {
	rootCmd.AddCommand(disasmCmd)
}

func runDisasm(_ *cobra.Command, args []string) error {
	bin, err := loadBinaryFile(args[0])
	if err != nil {
		return exitWithError("%v", err)
	}
	vm.NewDisassembler(bin, os.Stdout).Disassemble()
	return nil
}
