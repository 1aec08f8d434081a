package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"repoprobe/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration and credential status",
	Long: `Config displays the resolved configuration with credentials masked,
and reports whether the session has everything it needs to run.

Configuration is stored at ~/.config/repoprobe/config.yaml
Project-specific overrides can be placed in .repoprobe.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("github.token: %s\n", config.MaskCredential(cfg.GitHub.Token))
		fmt.Printf("tavily.api_key: %s\n", config.MaskCredential(cfg.Tavily.APIKey))
		fmt.Printf("anthropic.api_key: %s\n", config.MaskCredential(cfg.Anthropic.APIKey))
		model := cfg.Anthropic.Model
		if model == "" {
			model = "(default)"
		}
		fmt.Printf("anthropic.model: %s\n", model)
		fmt.Printf("bedrock.enabled: %t\n", cfg.Bedrock.Enabled)
		if cfg.Bedrock.Enabled {
			fmt.Printf("bedrock.region: %s\n", cfg.Bedrock.Region)
			fmt.Printf("bedrock.profile: %s\n", cfg.Bedrock.Profile)
		}
		if cfg.Agents.File != "" {
			fmt.Printf("agents.file: %s\n", cfg.Agents.File)
		}
		if cfg.Logging.DebugLog != "" {
			fmt.Printf("logging.debug_log: %s\n", cfg.Logging.DebugLog)
		}

		fmt.Println()
		if missing := cfg.Missing(); len(missing) > 0 {
			color.Red("Not ready: missing %v", missing)
			os.Exit(1)
		}
		color.Green("Ready: all required credentials are set.")
	},
}
