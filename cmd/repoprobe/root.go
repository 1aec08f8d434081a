package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "repoprobe",
	Short: "GitHub repository analyzer",
	Long: `Repoprobe investigates GitHub repositories and issues by
coordinating research sub-agents.

With no arguments, launches an interactive session where you can ask
questions and the coordinator delegates focused research tasks:
- repo-investigator locates code and analyzes repository structure
- error-researcher searches the web for error solutions

Findings are collected in an in-memory file store that both you and the
sub-agents share for the duration of a session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(interactiveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
