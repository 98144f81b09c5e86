package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/exprjit/internal/lexer"
	"github.com/cwbudde/exprjit/internal/parser"
)

var (
	parseExprFlag string
	parseDumpAST  bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse an expression and display its tree",
	Long: `Parse an expression and display the resulting tree.

By default this prints a compact S-expression such as "(+ x (* 2 3))".
Use --dump-ast for an indented node-by-node dump instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseExprFlag, "expression", "e", "", "parse an inline expression instead of reading from a file")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "print an indented tree dump instead of an S-expression")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, err := readInput(parseExprFlag, args)
	if err != nil {
		return err
	}

	toks, ok := lexer.New(input).LexAll()
	if !ok {
		return fmt.Errorf("unbalanced parentheses")
	}

	tree := parser.New(toks).Parse()
	if tree.Errored {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: expression contains one or more parse errors")
	}

	if parseDumpAST {
		tree.Dump(cmd.OutOrStdout(), tree.Root)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), tree.SExpr(tree.Root))
	return nil
}
