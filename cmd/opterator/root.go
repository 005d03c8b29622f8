package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// exitError carries an exit status for output that was already written.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

type app struct {
	verbose bool
	logger  *zap.Logger
}

// NewRootCmd assembles the opterator command tree.
func NewRootCmd(version, commit, date string) *cobra.Command {
	a := &app{logger: zap.NewNop()}
	root := &cobra.Command{
		Use:   "opterator",
		Short: "Derive command line parsers from function signatures",
		Long: `opterator turns a function signature and its annotation doc into a command line parser.

Signatures come from YAML or TOML signature files, or from Go functions marked
with an "is an entry point" doc comment.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !a.verbose {
				return nil
			}
			logger, err := zap.NewDevelopment()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log build warnings and parse traces to stderr")

	root.AddCommand(
		a.newRunCmd(),
		a.newUsageCmd(),
		a.newListCmd(),
		newSyntaxCmd(),
	)
	return root
}
