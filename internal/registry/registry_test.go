package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/raro42/hearthhub/internal/catalog"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoadAgentsAndResolutionOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "agent-abc", "config.json"), `{"name":"Helper","slug":"hlp"}`)
	writeFile(t, filepath.Join(dir, "agent-abc", "skill.md"), "You help.")
	writeFile(t, filepath.Join(dir, "agent-xyz", "config.json"), `{"name":"Coder"}`)
	writeFile(t, filepath.Join(dir, "agent-xyz", "skill.md"), "You code.")

	agents, err := LoadAgents(dir)
	if err != nil {
		t.Fatalf("LoadAgents: %v", err)
	}
	if len(agents) != 2 {
		t.Fatalf("LoadAgents() len = %d, want 2", len(agents))
	}
	if agents[0].ID != "abc" || agents[1].ID != "xyz" {
		t.Fatalf("agents not sorted by id: %+v", agents)
	}

	if a, ok := Resolve(agents, "hlp"); !ok || a.ID != "abc" {
		t.Fatalf("Resolve(slug) = %+v, %v", a, ok)
	}
	if a, ok := Resolve(agents, "Coder"); !ok || a.ID != "xyz" {
		t.Fatalf("Resolve(name) = %+v, %v", a, ok)
	}
	if a, ok := Resolve(agents, "xyz"); !ok || a.ID != "xyz" {
		t.Fatalf("Resolve(id) = %+v, %v", a, ok)
	}
	if a, ok := Resolve(agents, "agent-xyz"); !ok || a.ID != "xyz" {
		t.Fatalf("Resolve(agent-<id>) = %+v, %v", a, ok)
	}
	if _, ok := Resolve(agents, "nope"); ok {
		t.Fatal("Resolve() matched a nonexistent agent")
	}
}

func TestLoadAgentsSkipsMissingSkill(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "agent-broken", "config.json"), `{"name":"Broken"}`)

	agents, err := LoadAgents(dir)
	if err != nil {
		t.Fatalf("LoadAgents: %v", err)
	}
	if len(agents) != 0 {
		t.Fatalf("LoadAgents() len = %d, want 0 (missing skill.md should be skipped)", len(agents))
	}
}

func TestCombinePromptOrderAndSeparators(t *testing.T) {
	prompt := combinePrompt("soul text", "mood text", "memory text", "skill text")
	want := "soul text\n\nmood text\n\n## Memory\n\nmemory text\n\nskill text"
	if prompt != want {
		t.Fatalf("combinePrompt() = %q, want %q", prompt, want)
	}
}

func TestResolveRolesSetsResolvedModel(t *testing.T) {
	agents := []*Agent{{ID: "a", Role: catalog.RoleSmall}}
	cat := &catalog.Catalog{Models: []catalog.Model{
		{Name: "tiny:latest", ParameterBillion: 1},
	}}
	ResolveRoles(agents, cat)
	if agents[0].ResolvedModel != "tiny:latest" {
		t.Fatalf("ResolvedModel = %q, want tiny:latest", agents[0].ResolvedModel)
	}
}

func TestLoadAgentsAcceptsYAMLConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "agent-yml", "config.yaml"), "name: Yamler\nmodel_role: code\n")
	writeFile(t, filepath.Join(dir, "agent-yml", "skill.md"), "You write YAML.")

	agents, err := LoadAgents(dir)
	if err != nil {
		t.Fatalf("LoadAgents: %v", err)
	}
	if len(agents) != 1 || agents[0].Name != "Yamler" || agents[0].Role != catalog.RoleCode {
		t.Fatalf("LoadAgents() = %+v", agents)
	}
}

func TestLoadSkillsAndResolve(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "skill-2-code.md"), "Write code.")
	writeFile(t, filepath.Join(dir, "skill-10-research.md"), "Research things.")

	skills, err := LoadSkills(dir)
	if err != nil {
		t.Fatalf("LoadSkills: %v", err)
	}
	if len(skills) != 2 || skills[0].Number != 2 || skills[1].Number != 10 {
		t.Fatalf("LoadSkills() = %+v", skills)
	}

	if s, ok := ResolveSkill(skills, "2"); !ok || s.Topic != "code" {
		t.Fatalf("ResolveSkill(numeric) = %+v, %v", s, ok)
	}
	if s, ok := ResolveSkill(skills, "Code"); !ok || s.Number != 2 {
		t.Fatalf("ResolveSkill(topic) = %+v, %v", s, ok)
	}
	if s, ok := ResolveSkill(skills, "research things"); ok {
		t.Fatalf("ResolveSkill() unexpectedly matched: %+v", s)
	}
	if s, ok := ResolveSkill(skills, "research"); !ok || s.Number != 10 {
		t.Fatalf("ResolveSkill(topic dash) = %+v, %v", s, ok)
	}
}
