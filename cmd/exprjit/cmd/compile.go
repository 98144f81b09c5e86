package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/exprjit"
)

var (
	compileExprFlag  string
	compileShowIR    bool
	compileEvalAt    float64
	compileEvalAtSet bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "JIT-compile an expression and optionally evaluate it once",
	Long: `JIT-compile an expression to native machine code.

With --ir, also prints the generated intermediate instruction list; the
expression is compiled either way. With --at, evaluates the compiled
function at the given x and prints the result.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVarP(&compileExprFlag, "expression", "e", "", "compile an inline expression instead of reading from a file")
	compileCmd.Flags().BoolVar(&compileShowIR, "ir", false, "print the generated IR instruction list")
	compileCmd.Flags().Float64Var(&compileEvalAt, "at", 0, "evaluate the compiled function at this x")
}

func runCompile(cmd *cobra.Command, args []string) error {
	input, err := readInput(compileExprFlag, args)
	if err != nil {
		return err
	}
	compileEvalAtSet = cmd.Flags().Changed("at")

	compiled, err := exprjit.Compile(input)
	if err != nil {
		return err
	}
	defer compiled.Close()

	if compileShowIR {
		for _, ins := range compiled.Module.Instrs {
			if ins.Func != "" {
				fmt.Printf("%s %s\n", ins.Op, ins.Func)
			} else if ins.Op.String() == "const" {
				fmt.Printf("%s %g\n", ins.Op, ins.Const)
			} else {
				fmt.Println(ins.Op)
			}
		}
	}

	if compileEvalAtSet {
		fmt.Println(compiled.Eval(compileEvalAt))
	} else if !compileShowIR {
		fmt.Println("compiled ok")
	}

	return nil
}
