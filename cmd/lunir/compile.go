package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"lunir/internal/il"
	"lunir/internal/pipeline"
)

func newCompileCommand() *cobra.Command {
	var format string
	c := &cobra.Command{
		Use:                   "compile --format TAG FILE.ast.json",
		Short:                 "lower a serialized AST into a bytecode chunk",
		DisableFlagsInUseLine: true,
		Args:                  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, format, args[0])
		},
	}
	c.Flags().StringVar(&format, "format", "", "bytecode dialect tag (one of: LuaP, LuaQ, LuaR, LuaS, LuaT, LuauV1, LuauV2, LuauV3)")
	return c
}

func runCompile(cmd *cobra.Command, format, path string) error {
	if !isKnownFormat(format) {
		return fmt.Errorf("unknown format %q (known: %v)", format, knownFormats)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "read %s (%s)\n", path, humanize.Bytes(uint64(len(raw))))

	tree, err := decodeASTDocument(raw)
	if err != nil {
		return err
	}

	serialize := func(chunk il.Chunk) []byte {
		lines := make([]string, chunk.Len())
		for i, instr := range chunk.Inner() {
			lines[i] = instr.String()
		}
		return []byte(strings.Join(lines, "\n"))
	}

	c := pipeline.NewCompiler()
	_, err = c.CreateJob().Tree(tree).Serializer(serialize).Run()
	return err
}
