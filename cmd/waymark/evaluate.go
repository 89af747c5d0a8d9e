package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/waymark/internal/cli"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <snapshot>",
	Short: "Print the onboarding checklist for a snapshot",
	Long: `Reads a tenant snapshot (YAML or JSON, "-" for stdin) and prints step statuses,
the current step and progress. On a terminal the checklist is rendered as markdown.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			format = cli.FormatJSON
		}
		stdio := cli.IO{Stdin: cmd.InOrStdin(), Stdout: cmd.OutOrStdout()}
		return cli.RunEvaluate(cmd.Context(), options(cmd), args[0], format, stdio)
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().String("format", cli.FormatAuto, "Output format: auto, json, markdown, plain")
	evaluateCmd.Flags().Bool("json", false, "Shorthand for --format json")
}
