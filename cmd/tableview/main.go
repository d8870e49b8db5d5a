// Package main provides the tableview CLI, which prints one page of a
// dataset after applying filters, a sort and a selection.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Global flag values.
var (
	flagLogLevel string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tableview",
		Short:         "Browse tabular datasets in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newShowCmd())
	root.AddCommand(versionCmd)
	return root
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "tableview v0.1.0")
	},
}
