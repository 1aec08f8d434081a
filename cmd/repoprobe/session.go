package main

import (
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/fatih/color"

	"repoprobe/internal/api"
	"repoprobe/internal/config"
	"repoprobe/internal/errs"
	"repoprobe/internal/github"
	"repoprobe/internal/orchestrator"
	"repoprobe/internal/subagent"
	"repoprobe/internal/websearch"
)

// session bundles everything a command needs to run the coordinator.
type session struct {
	coordinator *orchestrator.Coordinator
	client      *api.Client
	logger      *orchestrator.DebugLogger
}

// newSession loads configuration and wires the coordinator with its
// backends. Missing credentials fail here, before any API call.
func newSession(verbose bool) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if missing := cfg.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("missing credentials: %s\n\nSet them in the environment or in %s",
			strings.Join(missing, ", "), config.GetUserConfigPath())
	}

	client, err := api.NewClient(api.ClientConfig{
		Model:      anthropic.Model(cfg.Anthropic.Model),
		APIKey:     cfg.Anthropic.APIKey,
		UseBedrock: cfg.Bedrock.Enabled,
		AWSRegion:  cfg.Bedrock.Region,
		AWSProfile: cfg.Bedrock.Profile,
	})
	if err != nil {
		return nil, err
	}

	registry := subagent.NewRegistry()
	if cfg.Agents.File != "" {
		if err := registry.LoadOverrides(cfg.Agents.File); err != nil {
			return nil, err
		}
	}

	logger, err := orchestrator.NewDebugLogger(cfg.Logging.DebugLog)
	if err != nil {
		return nil, err
	}

	var onEvent func(api.Event)
	if verbose {
		onEvent = printProgress
	}

	coordinator := orchestrator.New(orchestrator.Config{
		Completer:  client,
		GitHub:     github.NewClient(cfg.GitHub.Token),
		Search:     websearch.NewClient(cfg.Tavily.APIKey),
		Summarizer: client,
		Registry:   registry,
		Logger:     logger,
		OnEvent:    onEvent,
	})

	return &session{coordinator: coordinator, client: client, logger: logger}, nil
}

func (s *session) close() {
	s.logger.Close()
}

// printProgress renders loop events as they happen.
func printProgress(e api.Event) {
	switch e.Type {
	case "tool_use":
		color.Cyan("  → %s", e.Tool)
	case "tool_result":
		first := e.Content
		if i := strings.IndexByte(first, '\n'); i >= 0 {
			first = first[:i]
		}
		if len(first) > 80 {
			first = first[:80] + "..."
		}
		fmt.Printf("    %s\n", first)
	}
}

// printTokenUsage reports cumulative API usage for a session.
func (s *session) printTokenUsage() {
	in, out := s.client.Tracker().Total()
	fmt.Printf("Tokens: %d in / %d out across %d call(s)\n", in, out, s.client.Tracker().Calls())
}

// fail prints an error with its suggestion and a non-zero exit code.
func fail(err error) error {
	color.Red("%s", errs.Describe(err))
	return err
}
