package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/waymark/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the step graph for consistency",
	Long:  `Loads the steps and reports duplicate ids, unknown guards, missing dependencies and cycles.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunValidate(options(cmd), cli.IO{Stdout: cmd.OutOrStdout()})
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
