package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var analyzeVerbose bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <issue-url>",
	Short: "Investigate a GitHub issue",
	Long: `Analyze fetches a GitHub issue, delegates code investigation and
error research to sub-agents, and prints an investigation report.

Example:
  repoprobe analyze https://github.com/owner/repo/issues/123`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(analyzeVerbose)
		if err != nil {
			return fail(err)
		}
		defer s.close()

		color.Yellow("Analyzing %s ...", args[0])
		report, err := s.coordinator.AnalyzeIssue(context.Background(), args[0])
		if err != nil {
			return fail(err)
		}

		fmt.Println()
		fmt.Println(report)
		fmt.Println()
		s.printTokenUsage()
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Show tool activity while the investigation runs")
}
