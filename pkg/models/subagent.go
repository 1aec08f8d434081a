package models

// SubAgentDef describes a registered sub-agent type: an isolated
// research loop with a restricted tool allow-list.
type SubAgentDef struct {
	// Name is the type tag used in delegation calls (e.g. "repo-investigator").
	Name string `yaml:"name"`
	// Description is a one-line summary shown to the coordinator.
	Description string `yaml:"description"`
	// Prompt is the system prompt for the sub-agent's reasoning loop.
	Prompt string `yaml:"prompt"`
	// Tools lists the tool names the sub-agent may call.
	Tools []string `yaml:"tools"`
}
