package config

import (
	"sort"

	"github.com/minhyannv/persona-chat/pkg/persona"
)

// BuildRegistry merges personas from PersonasDir with the inline personas
// map and validates the default. Inline entries win over files of the same name.
func BuildRegistry(cfg Config) (*persona.Registry, error) {
	fromDir, err := persona.LoadDir(cfg.PersonasDir)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]persona.Persona, len(fromDir)+len(cfg.Personas))
	for _, p := range fromDir {
		byName[p.Name] = p
	}
	for name, spec := range cfg.Personas {
		byName[name] = persona.Persona{
			Name:           name,
			SystemPrompt:   spec.Prompt,
			WelcomeMessage: spec.Welcome,
			Description:    spec.Description,
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	list := make([]persona.Persona, 0, len(names))
	for _, name := range names {
		list = append(list, byName[name])
	}
	return persona.NewRegistry(list, cfg.DefaultPersona)
}
