package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"lunir/internal/server"
)

func newServeCommand() *cobra.Command {
	var addr string
	var format string
	c := &cobra.Command{
		Use:                   "serve --addr ADDR",
		Short:                 "run the decompile WebSocket service",
		DisableFlagsInUseLine: true,
		Args:                  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, addr, format)
		},
	}
	c.Flags().StringVar(&addr, "addr", ":8787", "`address` to listen on")
	c.Flags().StringVar(&format, "format", string(LuaS), "bytecode dialect tag this server decodes requests as")
	return c
}

func runServe(cmd *cobra.Command, addr, format string) error {
	decode, err := decoderFor(format)
	if err != nil {
		return err
	}

	s := server.New(addr, decode)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve() }()

	fmt.Fprintf(cmd.ErrOrStderr(), "%s serving on %s\n", banner(), addr)

	select {
	case <-ctx.Done():
		return s.Close()
	case err := <-errCh:
		return err
	}
}
