package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arran4/go-opterator"
	"github.com/arran4/go-opterator/sigfile"
)

type buildFlags struct {
	program string
	kebab   bool
}

func (f *buildFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.program, "prog", "", "program name used in usage lines (default: the file's program)")
	cmd.Flags().BoolVar(&f.kebab, "kebab", false, "synthesize kebab-case long flags")
}

func (a *app) parserFor(cmd *cobra.Command, path string, f buildFlags) (*opterator.Parser, error) {
	file, err := sigfile.Load(path)
	if err != nil {
		return nil, err
	}
	opts := []opterator.Option{
		opterator.WithStdout(cmd.OutOrStdout()),
		opterator.WithStderr(cmd.ErrOrStderr()),
		opterator.WithLogger(a.logger),
	}
	if f.program != "" {
		opts = append(opts, opterator.WithProgramName(f.program))
	}
	if f.kebab {
		opts = append(opts, opterator.WithKebabFlags())
	}
	return file.Parser(opts...)
}

type callJSON struct {
	Args  []any          `json:"args"`
	Named map[string]any `json:"named"`
	Rest  []string       `json:"rest,omitempty"`
}

func (a *app) newRunCmd() *cobra.Command {
	var f buildFlags
	cmd := &cobra.Command{
		Use:   "run <signature-file> [args...]",
		Short: "Parse args against a signature file and print the resulting call as JSON",
		Long: `Builds the parser declared by the signature file, parses the remaining arguments
with it and prints the ordered call. Help and usage errors are printed the way the
derived program would print them, with the same exit status.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.parserFor(cmd, args[0], f)
			if err != nil {
				return err
			}
			call, err := p.Run(args[1:])
			if err != nil {
				return &exitError{code: opterator.ExitCode(err)}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(callJSON{Args: call.Args, Named: call.Named, Rest: call.Rest})
		},
	}
	cmd.Flags().SetInterspersed(false)
	f.register(cmd)
	return cmd
}

func (a *app) newUsageCmd() *cobra.Command {
	var f buildFlags
	cmd := &cobra.Command{
		Use:   "usage <signature-file>",
		Short: "Print the help text of the parser a signature file declares",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.parserFor(cmd, args[0], f)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), p.Help())
			return nil
		},
	}
	f.register(cmd)
	return cmd
}
