// Package registry scans the agents and skills directories and resolves
// each agent's declared role against the model catalog.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/raro42/hearthhub/internal/catalog"
	"github.com/raro42/hearthhub/internal/logging"
)

const defaultMaxToolIterations = 15

// Agent is a directory-backed persona.
type Agent struct {
	ID                string
	Name              string
	Slug              string
	Model             string
	Role              catalog.Role
	Orchestrator      bool
	Enabled           bool
	Description       string
	MaxToolIterations int
	Prompt            string

	ResolvedModel string
}

type agentConfig struct {
	Name              string `json:"name" yaml:"name"`
	Slug              string `json:"slug" yaml:"slug"`
	Model             string `json:"model" yaml:"model"`
	ModelRole         string `json:"model_role" yaml:"model_role"`
	Orchestrator      bool   `json:"orchestrator" yaml:"orchestrator"`
	Enabled           *bool  `json:"enabled" yaml:"enabled"`
	Description       string `json:"description" yaml:"description"`
	MaxToolIterations int    `json:"max_tool_iterations" yaml:"max_tool_iterations"`
}

// LoadAgents enumerates <agentsDir>/agent-<id> directories and returns every
// well-formed agent, sorted by id.
func LoadAgents(agentsDir string) ([]*Agent, error) {
	entries, err := os.ReadDir(agentsDir)
	if err != nil {
		return nil, fmt.Errorf("registry: read agents dir %s: %w", agentsDir, err)
	}

	sharedSoul := readOptional(filepath.Join(agentsDir, "soul.md"))
	sharedMemory := readOptional(filepath.Join(agentsDir, "memory.md"))

	var agents []*Agent
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), "agent-") {
			continue
		}
		id := strings.TrimPrefix(e.Name(), "agent-")
		dir := filepath.Join(agentsDir, e.Name())

		agent, err := loadOneAgent(id, dir, sharedSoul, sharedMemory)
		if err != nil {
			logging.Warnf("registry: skipping %s: %v", e.Name(), err)
			continue
		}
		agents = append(agents, agent)
	}

	sort.Slice(agents, func(i, j int) bool { return agents[i].ID < agents[j].ID })
	return agents, nil
}

func loadOneAgent(id, dir, sharedSoul, sharedMemory string) (*Agent, error) {
	cfg, err := readAgentConfig(dir)
	if err != nil {
		return nil, err
	}

	skillPath := filepath.Join(dir, "skill.md")
	skillBody, err := os.ReadFile(skillPath)
	if err != nil {
		return nil, fmt.Errorf("required skill.md missing or unreadable: %w", err)
	}
	if strings.TrimSpace(string(skillBody)) == "" {
		return nil, fmt.Errorf("skill.md is empty")
	}

	soul := readOptional(filepath.Join(dir, "soul.md"))
	if soul == "" {
		soul = sharedSoul
	}
	mood := readOptional(filepath.Join(dir, "mood.md"))
	memory := readOptional(filepath.Join(dir, "memory.md"))
	if sharedMemory != "" {
		memory = joinNonEmpty("\n\n", memory, sharedMemory)
	}

	maxIter := cfg.MaxToolIterations
	if maxIter <= 0 {
		maxIter = defaultMaxToolIterations
	}

	enabled := true
	if cfg.Enabled != nil {
		enabled = *cfg.Enabled
	}

	agent := &Agent{
		ID:                id,
		Name:              cfg.Name,
		Slug:              cfg.Slug,
		Model:             cfg.Model,
		Role:              catalog.Role(cfg.ModelRole),
		Orchestrator:      cfg.Orchestrator,
		Enabled:           enabled,
		Description:       cfg.Description,
		MaxToolIterations: maxIter,
		Prompt:            combinePrompt(soul, mood, memory, string(skillBody)),
	}
	if agent.Name == "" {
		agent.Name = id
	}
	return agent, nil
}

func readAgentConfig(dir string) (agentConfig, error) {
	for _, name := range []string{"config.json", "config.yaml", "config.yml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg agentConfig
		if strings.HasSuffix(name, ".json") {
			if err := json.Unmarshal(data, &cfg); err != nil {
				return agentConfig{}, fmt.Errorf("parse %s: %w", name, err)
			}
		} else {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return agentConfig{}, fmt.Errorf("parse %s: %w", name, err)
			}
		}
		return cfg, nil
	}
	return agentConfig{}, fmt.Errorf("no config.* file found")
}

func readOptional(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(data), "\n")
}

// combinePrompt concatenates soul, mood, memory, and skill text in that
// order, separated by a blank line, with memory carrying a header.
func combinePrompt(soul, mood, memory, skill string) string {
	var parts []string
	if soul != "" {
		parts = append(parts, soul)
	}
	if mood != "" {
		parts = append(parts, mood)
	}
	if memory != "" {
		parts = append(parts, "## Memory\n\n"+memory)
	}
	parts = append(parts, skill)
	return strings.Join(parts, "\n\n")
}

func joinNonEmpty(sep string, parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, sep)
}

// ResolveRoles runs role resolution across every loaded agent against the
// given catalog, logging each decision, and fills in ResolvedModel.
func ResolveRoles(agents []*Agent, cat *catalog.Catalog) {
	for _, a := range agents {
		model, ok := cat.ResolveOverride(a.Model, a.Role)
		if !ok {
			logging.Warnf("registry: no model available to resolve agent %s (role=%q, explicit=%q)", a.ID, a.Role, a.Model)
			continue
		}
		a.ResolvedModel = model.Name
		logging.Infof("registry: agent %s resolved to model %s (role=%q, explicit=%q)", a.ID, model.Name, a.Role, a.Model)
	}
}

// Resolve finds an agent by slug, then name, then id, then id after an
// "agent-" prefix is stripped from the query — all case-insensitive.
func Resolve(agents []*Agent, query string) (*Agent, bool) {
	lower := strings.ToLower(strings.TrimSpace(query))
	stripped := strings.TrimPrefix(lower, "agent-")

	for _, a := range agents {
		if a.Slug != "" && strings.ToLower(a.Slug) == lower {
			return a, true
		}
	}
	for _, a := range agents {
		if strings.ToLower(a.Name) == lower {
			return a, true
		}
	}
	for _, a := range agents {
		if strings.ToLower(a.ID) == lower {
			return a, true
		}
	}
	for _, a := range agents {
		if strings.ToLower(a.ID) == stripped {
			return a, true
		}
	}
	return nil, false
}

// Enabled filters a slice down to enabled agents, preserving order.
func Enabled(agents []*Agent) []*Agent {
	var out []*Agent
	for _, a := range agents {
		if a.Enabled {
			out = append(out, a)
		}
	}
	return out
}
