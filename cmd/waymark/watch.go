package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aretw0/waymark/internal/cli"
)

var watchCmd = &cobra.Command{
	Use:   "watch <snapshot>",
	Short: "Re-evaluate a snapshot whenever the steps change",
	Long:  `Development mode: prints the checklist and reloads the --steps source on every change.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		format, _ := cmd.Flags().GetString("format")
		return cli.RunWatch(sigCtx, options(cmd), args[0], format, cli.StdIO())
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("format", cli.FormatAuto, "Output format: auto, markdown, plain")
}
