package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dhamidi/javasem/analysis"
	"github.com/dhamidi/javasem/format"
	"github.com/dhamidi/javasem/semantic"
)

func newSymbolsCmd(opts *options) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "symbols <file>",
		Short: "Print the symbols a source file declares, nested by owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			finder, err := opts.finder()
			if err != nil {
				return err
			}
			r := analysis.NewRunner(finder, 1).AnalyzeFile(args[0])
			if r.Err != nil {
				return r.Err
			}
			return printSymbols(cmd.OutOrStdout(), outputFormat, r.Model)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format: text or json")

	return cmd
}

// printSymbols encodes the top-level classes of m; nested classes are
// encoded with their owner.
func printSymbols(w io.Writer, outputFormat string, m *semantic.Model) error {
	enc, err := format.New(outputFormat, w)
	if err != nil {
		return err
	}
	for _, c := range m.Classes() {
		if _, top := c.Owner().(*semantic.PackageSymbol); !top {
			continue
		}
		if err := enc.Encode(c); err != nil {
			return err
		}
	}
	return nil
}
