package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Skill is a numbered markdown prompt overlay read from a skill-<N>-<topic>.md
// file by LoadSkills.
type Skill struct {
	Number int
	Topic  string
	Body   string
}

var skillFilePattern = regexp.MustCompile(`^skill-(\d+)-(.+)\.md$`)

// LoadSkills scans skillsDir for skill-<N>-<topic>.md files.
func LoadSkills(skillsDir string) ([]Skill, error) {
	entries, err := os.ReadDir(skillsDir)
	if err != nil {
		return nil, fmt.Errorf("registry: read skills dir %s: %w", skillsDir, err)
	}

	var skills []Skill
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := skillFilePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		body, err := os.ReadFile(filepath.Join(skillsDir, e.Name()))
		if err != nil {
			continue
		}
		skills = append(skills, Skill{Number: n, Topic: m[2], Body: string(body)})
	}

	sort.Slice(skills, func(i, j int) bool { return skills[i].Number < skills[j].Number })
	return skills, nil
}

// ResolveSkill matches a skill by numeric id or by a case-insensitive topic
// where spaces and dashes are interchangeable.
func ResolveSkill(skills []Skill, query string) (Skill, bool) {
	query = strings.TrimSpace(query)
	if n, err := strconv.Atoi(query); err == nil {
		for _, s := range skills {
			if s.Number == n {
				return s, true
			}
		}
		return Skill{}, false
	}

	normalized := normalizeTopic(query)
	for _, s := range skills {
		if normalizeTopic(s.Topic) == normalized {
			return s, true
		}
	}
	return Skill{}, false
}

func normalizeTopic(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "-")
	return s
}

// Label formats a skill's identity for user-facing messages, e.g. "2-code".
func (s Skill) Label() string {
	return fmt.Sprintf("%d-%s", s.Number, s.Topic)
}
