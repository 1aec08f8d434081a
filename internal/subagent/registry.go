// Package subagent defines the sub-agent types the coordinator can
// delegate to, and runs them in isolation.
package subagent

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"repoprobe/internal/prompts"
	"repoprobe/internal/tools"
	"repoprobe/pkg/models"
)

// Registry is the closed set of sub-agent types available for
// delegation. Lookups outside it fail, which the delegation tool turns
// into an error message listing the valid types.
type Registry struct {
	defs map[string]models.SubAgentDef
}

// NewRegistry returns a registry with the built-in sub-agent types.
func NewRegistry() *Registry {
	r := &Registry{defs: make(map[string]models.SubAgentDef)}
	r.defs["repo-investigator"] = models.SubAgentDef{
		Name:        "repo-investigator",
		Description: "Locates code and analyzes repository structure",
		Prompt:      prompts.RepoInvestigator(),
		Tools: []string{
			tools.NameSearchCodeInRepo,
			tools.NameReadFileFromRepo,
			tools.NameListRepoStructure,
			tools.NameThink,
			tools.NameReadFile,
		},
	}
	r.defs["error-researcher"] = models.SubAgentDef{
		Name:        "error-researcher",
		Description: "Researches errors and finds solutions online",
		Prompt:      prompts.ErrorResearcher(),
		Tools: []string{
			tools.NameSearchErrorSolution,
			tools.NameSearchDocumentation,
			tools.NameThink,
			tools.NameReadFile,
		},
	}
	return r
}

// Get returns the definition for a sub-agent type.
func (r *Registry) Get(name string) (models.SubAgentDef, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NamesList renders the type names for error messages.
func (r *Registry) NamesList() string {
	return strings.Join(r.Names(), ", ")
}

type overridesFile struct {
	Agents []models.SubAgentDef `yaml:"agents"`
}

// LoadOverrides merges sub-agent definitions from a YAML file into the
// registry. Entries may replace built-ins or add new types; each entry
// needs a name and at least one known tool. A missing prompt keeps the
// built-in prompt when the name matches one, otherwise the entry is
// rejected.
func (r *Registry) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read agent overrides: %w", err)
	}

	var file overridesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse agent overrides: %w", err)
	}

	for i, def := range file.Agents {
		if def.Name == "" {
			return fmt.Errorf("agent override %d has no name", i+1)
		}
		if len(def.Tools) == 0 {
			return fmt.Errorf("agent %q has no tools", def.Name)
		}
		if err := tools.ValidateNames(def.Tools); err != nil {
			return fmt.Errorf("agent %q: %w", def.Name, err)
		}
		if def.Prompt == "" {
			existing, ok := r.defs[def.Name]
			if !ok {
				return fmt.Errorf("agent %q has no prompt", def.Name)
			}
			def.Prompt = existing.Prompt
		}
		r.defs[def.Name] = def
	}
	return nil
}
