package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/exprjit/internal/lexer"
	"github.com/cwbudde/exprjit/internal/token"
)

var lexExpr string

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize an expression and print the resulting tokens",
	Long: `Tokenize an expression and print the resulting tokens, one per line,
in the form [KIND   ] "lexeme" @line:col.

Examples:
  exprjit lex -e "2x^2+1"
  exprjit lex script.expr`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().StringVarP(&lexExpr, "eval", "e", "", "tokenize an inline expression instead of reading from a file")
}

func runLex(cmd *cobra.Command, args []string) error {
	input, err := readInput(lexExpr, args)
	if err != nil {
		return err
	}

	toks, ok := lexer.New(input).LexAll()
	if !ok {
		return fmt.Errorf("unbalanced parentheses")
	}
	token.DumpAll(cmd.OutOrStdout(), toks)
	return nil
}

// readInput resolves an expression from, in priority order: an inline
// -e flag value, a file argument, or stdin — the same three-way
// dispatch the teacher CLI's lex/parse subcommands use.
func readInput(inline string, args []string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), nil
	}
	data, err := readAllStdin()
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return data, nil
}

func readAllStdin() (string, error) {
	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)
	for {
		n, err := os.Stdin.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if err != nil {
			if n == 0 {
				break
			}
			break
		}
	}
	return string(buf), nil
}
