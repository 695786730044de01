package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"lunir/internal/il"
	"lunir/internal/pipeline"
	"lunir/internal/reconstructor"
)

func newDecompileCommand() *cobra.Command {
	var format string
	c := &cobra.Command{
		Use:                   "decompile --format TAG FILE",
		Short:                 "reconstruct Lua source from a bytecode file",
		DisableFlagsInUseLine: true,
		Args:                  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecompile(cmd, format, args[0])
		},
	}
	c.Flags().StringVar(&format, "format", "", "bytecode dialect tag (one of: LuaP, LuaQ, LuaR, LuaS, LuaT, LuauV1, LuauV2, LuauV3)")
	return c
}

func runDecompile(cmd *cobra.Command, format, path string) error {
	decode, err := decoderFor(format)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "read %s (%s)\n", path, humanize.Bytes(uint64(len(raw))))

	function, instructions, err := decode(json.RawMessage(raw))
	if err != nil {
		return err
	}

	d := pipeline.NewDecompiler()
	source, err := d.CreateJob().
		Chunk(function, il.New(instructions)).
		Reconstructor(reconstructor.New()).
		Run()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), source)
	return nil
}
