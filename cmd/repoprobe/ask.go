package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var askVerbose bool

var askCmd = &cobra.Command{
	Use:   "ask <owner/repo> <question...>",
	Short: "Ask a question about a repository",
	Long: `Ask answers a free-form question about a repository, delegating
deeper investigation to sub-agents when needed.

Example:
  repoprobe ask golang/go "how does the scheduler pick the next goroutine?"`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(askVerbose)
		if err != nil {
			return fail(err)
		}
		defer s.close()

		repo := args[0]
		question := strings.Join(args[1:], " ")

		color.Yellow("Researching %s ...", repo)
		answer, err := s.coordinator.AskRepository(context.Background(), repo, question)
		if err != nil {
			return fail(err)
		}

		fmt.Println()
		fmt.Println(answer)
		fmt.Println()
		s.printTokenUsage()
		return nil
	},
}

func init() {
	askCmd.Flags().BoolVarP(&askVerbose, "verbose", "v", false, "Show tool activity while the research runs")
}
