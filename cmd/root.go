// Package cmd defines the concierge command-line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "concierge",
	Short: "Concierge - conversational agent server",
	Long: `Concierge is an HTTP conversational agent server. It answers messages
using a model grounded in retrieved documents, recent conversation
history, and local skills (arithmetic, weather).

Running concierge without a subcommand starts the server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
