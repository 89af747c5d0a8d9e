package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/waymark/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "waymark",
	Short: "Waymark evaluates onboarding checklists and lays out calendar days",
	Long: `Waymark derives a dependency-gated onboarding checklist from a tenant snapshot
and assigns side-by-side columns to overlapping calendar intervals.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("steps", "", "Steps file (YAML/JSON) or directory of step documents; defaults to the built-in checklist")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (silent when empty)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging and lifecycle tracing")
}

// options reads the persistent flags.
func options(cmd *cobra.Command) cli.Options {
	steps, _ := cmd.Flags().GetString("steps")
	level, _ := cmd.Flags().GetString("log-level")
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.Options{StepsPath: steps, LogLevel: level, Debug: debug}
}
