package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"repoprobe/internal/errs"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Start an interactive analysis session",
	Long: `Interactive runs a conversation loop over a persistent session:
files and repository context carry over between questions.

Session commands:
  /files          list files in working memory
  /read <name>    print a file from working memory
  /tokens         show cumulative token usage
  /quit           end the session`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

func runInteractive() error {
	s, err := newSession(true)
	if err != nil {
		return fail(err)
	}
	defer s.close()

	color.Green("repoprobe interactive session. Ask about a repository or paste an issue URL; /quit to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if done := s.handleCommand(input); done {
				break
			}
			continue
		}

		answer, err := s.coordinator.Turn(context.Background(), input)
		if err != nil {
			// The session survives a failed turn.
			color.Red("%s", errs.Describe(err))
			continue
		}
		fmt.Println()
		fmt.Println(answer)
		fmt.Println()
	}

	s.printTokenUsage()
	return scanner.Err()
}

// handleCommand runs a /session command; it reports whether the
// session should end.
func (s *session) handleCommand(input string) bool {
	fields := strings.Fields(input)
	switch fields[0] {
	case "/quit", "/exit":
		return true
	case "/files":
		names := s.coordinator.State().FileNames()
		if len(names) == 0 {
			fmt.Println("No files in working memory.")
			return false
		}
		for _, name := range names {
			content, _ := s.coordinator.State().ReadFile(name)
			fmt.Printf("- %s (%d bytes)\n", name, len(content))
		}
	case "/read":
		if len(fields) < 2 {
			fmt.Println("Usage: /read <name>")
			return false
		}
		content, ok := s.coordinator.State().ReadFile(fields[1])
		if !ok {
			color.Red("No such file: %s", fields[1])
			return false
		}
		fmt.Println(content)
	case "/tokens":
		s.printTokenUsage()
	default:
		fmt.Printf("Unknown command %s. Available: /files, /read, /tokens, /quit\n", fields[0])
	}
	return false
}
