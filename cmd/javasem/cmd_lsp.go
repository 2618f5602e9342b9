package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/javasem/lsp"
)

const version = "0.1.0"

func newLSPCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			finder, err := opts.finder()
			if err != nil {
				return err
			}
			return lsp.NewServer(version, finder).RunStdio()
		},
	}
}
