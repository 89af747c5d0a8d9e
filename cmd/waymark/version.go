package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/waymark"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of waymark",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "waymark version %s\n", waymark.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
