package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("javasem.cmd")

func main() {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:          "javasem",
		Short:        "Name resolution and typing for Java sources",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.close()
		},
	}
	opts.register(rootCmd)

	rootCmd.AddCommand(newResolveCmd(opts))
	rootCmd.AddCommand(newSymbolsCmd(opts))
	rootCmd.AddCommand(newClassinfoCmd(opts))
	rootCmd.AddCommand(newLSPCmd(opts))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
