package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aretw0/waymark/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serves evaluation, layout and tenant snapshot endpoints over HTTP.
Configuration comes from --config, then WAYMARK_* environment variables, then flags.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		return cli.RunServe(sigCtx, options(cmd), serveOptions(cmd))
	},
}

func serveOptions(cmd *cobra.Command) cli.ServeOptions {
	configPath, _ := cmd.Flags().GetString("config")
	addr, _ := cmd.Flags().GetString("addr")
	return cli.ServeOptions{ConfigPath: configPath, Addr: addr}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("config", "waymark.yaml", "Config file (YAML or JSON); missing file means defaults")
	serveCmd.Flags().String("addr", "", "Listen address, overrides the config")
}
