package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/waymark/internal/cli"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the step dependency graph",
	Long:  `Outputs a Mermaid diagram (graph TD) of the steps. With --snapshot each step is styled by its status.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, _ := cmd.Flags().GetString("snapshot")
		stdio := cli.IO{Stdin: cmd.InOrStdin(), Stdout: cmd.OutOrStdout()}
		return cli.RunGraph(cmd.Context(), options(cmd), snapshot, stdio)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("snapshot", "", "Snapshot file used to color steps by status")
}
