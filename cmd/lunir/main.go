// cmd/lunir is a thin driver around the core pipeline: it is not part of
// the library surface spec.md §6 describes ("no CLI surface" binds the
// library package, not an optional wrapper around it), and demonstrates
// job wiring against the CLI's own placeholder adapters rather than real
// Lua/Luau bytecode.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// version is bumped by hand; the teacher's own VERSION const in
// cmd/sentra/main.go is the precedent for a plain string instead of a
// build-time-injected one.
const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:           "lunir",
		Short:         "LUNIR: a bidirectional Lua source/bytecode toolchain",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(
		newVersionCommand(),
		newDecompileCommand(),
		newCompileCommand(),
		newServeCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "lunir: %v\n", err)
		os.Exit(1)
	}
}

// banner returns a one-line identifying header, colored when stdout is a
// real terminal and plain otherwise — piped output (a log file, `| less`)
// shouldn't carry escape codes.
func banner() string {
	if isatty.IsTerminal(os.Stdout.Fd()) {
		return "\x1b[1mLUNIR\x1b[0m v" + version
	}
	return "LUNIR v" + version
}
