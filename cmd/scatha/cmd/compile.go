package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scatha-lang/scatha/internal/irgen"
	"github.com/scatha-lang/scatha/internal/lexer"
	"github.com/scatha-lang/scatha/internal/parser"
	"github.com/scatha-lang/scatha/internal/sema"
	"github.com/scatha-lang/scatha/internal/sema/libformat"
)

var dumpIR bool

var compileCmd = &cobra.Command{
	Use:   "compile <file>",
	Short: "Run the front end over a source file and report diagnostics",
	Long: `compile lexes, parses, and semantically analyzes a source file,
lowers every analyzed declaration to the typed IR, and reports every issue
the analyzer collected. It does not assemble bytecode: that is the external
assembler's job, consuming the same IR this command can dump with --dump-ir.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().BoolVar(&dumpIR, "dump-ir", false, "dump the lowered IR module")
}

func runCompile(_ *cobra.Command, args []string) error {
	filename := args[0]
	src, err := os.ReadFile(filename)
	if err != nil {
		return exitWithError("reading %s: %v", filename, err)
	}

	l := lexer.New(filename, string(src))
	p := parser.New(l)
	prog := p.ParseProgram()

	if len(l.Errors()) > 0 {
		for _, e := range l.Errors() {
			fmt.Fprintf(os.Stderr, "%s: %s\n", e.Pos, e.Message)
		}
		return exitWithError("lexing failed with %d error(s)", len(l.Errors()))
	}
	if len(p.Errors()) > 0 {
		for _, e := range p.Errors() {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return exitWithError("parsing failed with %d error(s)", len(p.Errors()))
	}

	sema.DescriptorDecoder = libformat.Deserialize
	analyzer := sema.NewAnalyzer()
	analyzer.Analyze(prog)
	if analyzer.Issues.HasErrors() {
		color := colorEnabled(os.Stderr)
		for _, iss := range analyzer.Issues.Issues() {
			fmt.Fprintln(os.Stderr, iss.Format(string(src), color))
		}
		return exitWithError("semantic analysis failed with %d issue(s)", len(analyzer.Issues.Issues()))
	}

	gen := irgen.NewGenerator()
	module := gen.Generate(prog, analyzer)

	if dumpIR {
		printModule(module)
	}
	return nil
}

func printModule(m *irgen.Module) {
	for _, g := range m.Globals {
		fmt.Printf("global %s: %d bytes, align %d, readonly=%v\n", g.Name, g.Size, g.Align, g.ReadOnly)
	}
	for _, fn := range m.Functions {
		fmt.Printf("func %s:\n", fn.Name)
		for _, b := range fn.Blocks {
			fmt.Printf("  %s:\n", b.Role)
			for _, inst := range b.Insts {
				fmt.Printf("    %s\n", inst.String())
			}
		}
	}
}
