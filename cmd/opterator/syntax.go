package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const syntaxGuide = `
Opterator Syntax Guide

A parser is derived from a function signature plus an annotation doc. The doc is free
text followed by one entry per parameter, each starting a line. Two entry formats are
understood; when a doc has both, the current one is used.

Signature:

  Required parameters become positional arguments, in declaration order.
  Optional parameters become options; the default decides how they are handled:

    false             -x, --name        sets true
    true              -x, --name        sets false
    "text"            -x NAME           stores the last value given
    none              -x NAME           stores the last value given, unset by default
    [a, b]            -x NAME           repeatable, each value must be a or b
    []                -x NAME           repeatable, any value

  A variadic parameter, which must be last, absorbs the remaining arguments.

Current format:

  Copy files.

  :param recursive: -r --recursive copy directories recursively
  :param suffix: -S override the usual backup suffix

  Flags are optional. Without them a long flag is made from the parameter name and a
  short flag from its first free letter or digit; -h is always reserved for help.
  Entries for positional parameters take help text only, listed under "Arguments:".

Legacy format:

  @param recursive store_true -r --recursive copy directories recursively
  @param suffix store -S --suffix override the usual backup suffix

  Actions are store_true, store_false, store and append. They must fit the default.

Go source:

  // Copy is an entry point ` + "`copy`" + ` that copies files.
  //
  // :param suffix: -S the backup suffix (default: "~")
  func Copy(src, dst string, recursive bool, suffix string, others ...string) error

  string is required unless it has a default, bool and []string are options,
  *string is an option without a default and ...string is the variadic remainder.

Signature files (YAML or TOML):

  program: copy
  doc: |
    Copy files.
  parameters:
    - name: src
    - name: recursive
      kind: optional
      default: false
`

func newSyntaxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "syntax",
		Short: "Print the annotation and signature syntax guide",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), syntaxGuide)
		},
	}
}
