package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dhamidi/javasem/format"
	"github.com/dhamidi/javasem/semantic"
)

func newClassinfoCmd(opts *options) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "classinfo <name>",
		Short: "Load a class from the classpath and print its hierarchy and members",
		Long: `Load a compiled class by its flat name (java.util.Map, java.util.Map$Entry)
and print its supertypes and members as the analyzer sees them.

Examples:
  javasem classinfo -c lib/rt.jar java.util.ArrayList
  javasem classinfo -c lib/rt.jar -f json java.lang.String`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			finder, err := opts.finder()
			if err != nil {
				return err
			}
			ss := semantic.NewSession(finder)
			c, ok := ss.LoadClass(args[0])
			if !ok {
				return fmt.Errorf("class %s not found on %s", args[0], opts.cfg.ClasspathPatterns())
			}
			if outputFormat == "json" {
				return format.NewJSONEncoder(cmd.OutOrStdout()).Encode(c)
			}
			return printClassInfo(cmd.OutOrStdout(), ss, c)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "output format: text or json")

	return cmd
}

func printClassInfo(w io.Writer, ss *semantic.Session, c *semantic.TypeSymbol) error {
	if err := format.NewTextEncoder(w).Encode(c); err != nil {
		return err
	}

	fmt.Fprintln(w, "hierarchy:")
	seen := map[*semantic.TypeSymbol]bool{}
	var walk func(t semantic.Type, depth int)
	walk = func(t semantic.Type, depth int) {
		sym := t.Symbol()
		fmt.Fprintf(w, "%*s%s\n", 2*depth+2, "", t)
		if sym == nil || seen[sym] {
			return
		}
		seen[sym] = true
		if sup := ss.Types().Superclass(t); sup != nil {
			walk(sup, depth+1)
		}
		for _, i := range ss.Types().Interfaces(t) {
			walk(i, depth+1)
		}
	}
	walk(ss.Resolve().ThisType(c), 0)
	return nil
}
