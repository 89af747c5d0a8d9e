package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/waymark/internal/cli"
)

var layoutCmd = &cobra.Command{
	Use:   "layout <intervals>",
	Short: "Assign calendar columns to overlapping intervals",
	Long:  `Reads a list of intervals (YAML or JSON, "-" for stdin) and prints each one's column, cluster and fractional geometry.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := cli.FormatPlain
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			format = cli.FormatJSON
		}
		stdio := cli.IO{Stdin: cmd.InOrStdin(), Stdout: cmd.OutOrStdout()}
		return cli.RunLayout(cmd.Context(), options(cmd), args[0], format, stdio)
	},
}

func init() {
	rootCmd.AddCommand(layoutCmd)
	layoutCmd.Flags().Bool("json", false, "Print JSON instead of a table")
}
