// Package cmd implements the exprjit command-line tool: lex, parse,
// compile, sample, and repl subcommands over the exprjit pipeline,
// generalized from the teacher CLI's dwscript subcommand set
// (cmd/dwscript/cmd).
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/exprjit/internal/config"
)

var (
	// Version information, set by build flags (teacher's same pattern).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"

	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "exprjit",
	Short: "JIT-compile and evaluate single-variable math expressions",
	Long: `exprjit lexes, parses, and JIT-compiles real-valued single-variable
expressions (the "x" in "sin(x)*2+1") into native machine code, so a
graphing UI can resample the resulting function thousands of times per
redraw without re-parsing.`,
	Version:           Version,
	PersistentPreRunE: loadConfig,
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

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".exprjit.yaml", "path to an optional YAML config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func loadConfig(*cobra.Command, []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

