package cmd

import (
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cwbudde/exprjit"
	"github.com/cwbudde/exprjit/internal/diag"
)

var (
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	cyanColor   = color.New(color.FgCyan)
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactively JIT-compile and evaluate expressions",
	Long: `Start an interactive shell: each line is compiled and immediately
evaluated at a few sample x values. Type ".exit" or press Ctrl+D to quit.`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(*cobra.Command, []string) error {
	cyanColor.Println("exprjit interactive shell - type an expression in x, or \".exit\" to quit")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:      cfg.REPL.Prompt,
		HistoryFile: cfg.REPL.HistoryFile,
	})
	if err != nil {
		return fmt.Errorf("repl: %w", err)
	}
	defer rl.Close()

	pipeline := exprjit.NewPipeline()

	for {
		line, err := rl.Readline()
		if err != nil {
			fmt.Println("goodbye")
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ".exit" {
			return nil
		}

		evalRepl(pipeline, line)
	}
}

// evalRepl does not Close the Compiled it evaluates: Recompile may hand
// back the Pipeline's cached last-good result on a parse failure, and
// that same value is reused across many REPL iterations until a new
// expression compiles successfully. Native memory is reclaimed by
// CompiledFunction's finalizer instead.
func evalRepl(pipeline *exprjit.Pipeline, line string) {
	compiled, err := pipeline.Recompile(line)
	if err != nil {
		if de, ok := err.(*diag.Error); ok {
			redColor.Println(de.Format(true))
		} else {
			redColor.Printf("error: %v\n", err)
		}
		if compiled == nil {
			return
		}
		yellowColor.Println("(showing the last successfully compiled expression instead)")
	}

	for _, x := range []float64{-1, 0, 1, 2} {
		fmt.Printf("  f(%g) = %s\n", x, diag.FormatValue(compiled.Eval(x)))
	}
}
