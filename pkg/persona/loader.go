package persona

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// personaFrontMatter mirrors the YAML front matter of a persona file.
type personaFrontMatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Welcome     string `yaml:"welcome"`
}

// LoadDir reads every *.md file directly under dir. The front matter carries
// the name and optional description and welcome; the body is the system prompt.
// A missing name falls back to the file stem.
func LoadDir(dir string) ([]Persona, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read personas dir: %w", err)
	}

	var personas []Persona
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".md") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		p, err := parsePersonaFile(path)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		personas = append(personas, p)
	}

	sort.Slice(personas, func(i, j int) bool {
		return personas[i].Name < personas[j].Name
	})
	return personas, nil
}

func parsePersonaFile(path string) (Persona, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Persona{}, err
	}

	fm, body, err := splitFrontMatter(content)
	if err != nil {
		return Persona{}, err
	}
	name := strings.TrimSpace(fm.Name)
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return Persona{}, fmt.Errorf("persona %q has an empty prompt body", name)
	}

	return Persona{
		Name:           name,
		SystemPrompt:   body,
		WelcomeMessage: strings.TrimSpace(fm.Welcome),
		Description:    strings.TrimSpace(fm.Description),
	}, nil
}

// splitFrontMatter separates optional YAML front matter from the body.
func splitFrontMatter(content []byte) (personaFrontMatter, string, error) {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return personaFrontMatter{}, text, nil
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		return personaFrontMatter{}, "", fmt.Errorf("unterminated YAML front matter")
	}

	var fm personaFrontMatter
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:end], "\n")), &fm); err != nil {
		return personaFrontMatter{}, "", err
	}
	return fm, strings.Join(lines[end+1:], "\n"), nil
}
