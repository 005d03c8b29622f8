package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arran4/go-opterator"
	"github.com/arran4/go-opterator/scan"
)

func (a *app) newListCmd() *cobra.Command {
	var dir string
	var long bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the entry points declared in Go source",
		Long: "Scans the module rooted at --dir for functions whose doc comment says\n" +
			"\"<Function> is an entry point `<program>`\" and prints their usage lines.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eps, err := scan.New(scan.WithLogger(a.logger)).Scan(os.DirFS(dir), ".")
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, ep := range eps {
				p, err := ep.Parser(opterator.WithLogger(a.logger))
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s.%s\t%s\n", ep.Program, ep.ImportPath, ep.FunctionName, p.Model().UsageLine())
				if long {
					if err := w.Flush(); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), p.Help())
				}
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "module root containing go.mod")
	cmd.Flags().BoolVarP(&long, "long", "l", false, "print the full help of every entry point")
	return cmd
}
