package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/javasem/analysis"
	"github.com/dhamidi/javasem/semantic"
	"github.com/dhamidi/javasem/tree"
)

func newResolveCmd(opts *options) *cobra.Command {
	var onlyUnresolved bool

	cmd := &cobra.Command{
		Use:   "resolve [file...]",
		Short: "Print every name in the given sources with its symbol and type",
		Long: `Analyse the given Java sources (or the configured source globs) and
print each identifier, member select and invocation with the symbol it
resolves to and its type.

Examples:
  javasem resolve -c lib/rt.jar src/Main.java
  javasem resolve --unresolved -j 8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := opts.sources(args)
			if err != nil {
				return err
			}
			finder, err := opts.finder()
			if err != nil {
				return err
			}
			reports, err := analysis.NewRunner(finder, opts.cfg.Jobs).Run(cmd.Context(), files)
			if err != nil {
				return err
			}
			failed := 0
			for _, r := range reports {
				if r.Err != nil {
					fmt.Fprintf(os.Stderr, "%s: %s\n", r.File, r.Err)
					failed++
					continue
				}
				printReferences(cmd.OutOrStdout(), r, onlyUnresolved)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d unresolved\n", analysis.Unresolved(reports))
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(reports))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&onlyUnresolved, "unresolved", "u", false, "only print unresolved references")

	return cmd
}

func printReferences(w io.Writer, r analysis.Report, onlyUnresolved bool) {
	m := r.Model
	if !onlyUnresolved {
		// A select's name and an invocation's target repeat their parent.
		skip := map[tree.Tree]bool{}
		tree.Inspect(m.Unit(), func(n tree.Tree) bool {
			switch n := n.(type) {
			case *tree.MemberSelect:
				skip[n.Name] = true
			case *tree.MethodInvocation:
				skip[n.Target] = true
				if s, ok := n.Target.(*tree.MemberSelect); ok {
					skip[s.Name] = true
				}
			case *tree.Identifier:
			case *tree.NewClass:
			default:
				return true
			}
			sym := m.SymbolOf(n)
			if sym == nil || skip[n] {
				return true
			}
			fmt.Fprintf(w, "%s:%s\t%s\t%s -> %s : %s\n",
				r.File, n.Pos(), n.Kind(), label(n), symbolName(sym), m.TypeOf(n))
			return true
		})
	}
	for _, u := range r.Unresolved {
		fmt.Fprintf(w, "%s:%s\tunresolved\t%s (%s)\n", r.File, u.Node.Pos(), u.Name, u.Outcome)
	}
}

// label is the source name a reference is printed under.
func label(n tree.Tree) string {
	switch n := n.(type) {
	case *tree.MethodInvocation:
		return label(n.Target) + "()"
	case *tree.NewClass:
		return "new " + label(n.Type)
	case *tree.ParameterizedType:
		return label(n.Type) + "<>"
	case tree.Expression:
		if q := tree.QualifiedName(n); q != "" {
			return q
		}
		if s, ok := n.(*tree.MemberSelect); ok {
			return "(" + s.Expr.Kind().String() + ")." + s.Name.Name
		}
	}
	return n.Kind().String()
}

// symbolName qualifies a symbol by its owner.
func symbolName(sym semantic.Symbol) string {
	switch s := sym.(type) {
	case *semantic.TypeSymbol:
		return s.FullName()
	case *semantic.PackageSymbol:
		return s.FullName()
	case *semantic.MethodSymbol:
		return ownerName(s) + s.Signature()
	case *semantic.VariableSymbol:
		if _, field := s.Owner().(*semantic.TypeSymbol); field {
			return ownerName(s) + s.Name()
		}
	}
	return sym.Name()
}

func ownerName(sym semantic.Symbol) string {
	if o, ok := sym.Owner().(*semantic.TypeSymbol); ok {
		return o.FullName() + "."
	}
	return ""
}
