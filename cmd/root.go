package cmd

import (
	"fmt"
	"os"

	"github.com/suwook2/project-musicgen/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "musicgend",
	Short: "musicgend is a text-to-music generation backend.",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
