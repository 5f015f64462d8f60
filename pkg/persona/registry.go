// Package persona holds the immutable set of named system prompts a session can switch between.
package persona

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// ErrUnknown is returned when a persona name is not registered.
var ErrUnknown = errors.New("unknown persona")

// Persona is a named system-prompt profile.
type Persona struct {
	Name           string
	SystemPrompt   string
	WelcomeMessage string
	Description    string
}

// Summary is the one-line description shown in listings.
func (p Persona) Summary() string {
	if d := strings.TrimSpace(p.Description); d != "" {
		return d
	}
	return strings.TrimSpace(p.SystemPrompt)
}

// Registry is an ordered, read-only mapping of persona name to Persona.
type Registry struct {
	byName      map[string]Persona
	names       []string
	defaultName string
}

// NewRegistry validates personas and the default name. Names must be unique
// and contain no whitespace or slashes.
func NewRegistry(personas []Persona, defaultName string) (*Registry, error) {
	if len(personas) == 0 {
		return nil, errors.New("at least one persona is required")
	}
	r := &Registry{byName: make(map[string]Persona, len(personas))}
	for _, p := range personas {
		p.Name = strings.TrimSpace(p.Name)
		if err := ValidateName(p.Name); err != nil {
			return nil, err
		}
		if strings.TrimSpace(p.SystemPrompt) == "" {
			return nil, fmt.Errorf("persona %q: system prompt is empty", p.Name)
		}
		if _, dup := r.byName[p.Name]; dup {
			return nil, fmt.Errorf("persona %q: duplicate name", p.Name)
		}
		r.byName[p.Name] = p
		r.names = append(r.names, p.Name)
	}
	sort.Strings(r.names)

	defaultName = strings.TrimSpace(defaultName)
	if defaultName == "" {
		defaultName = r.names[0]
	}
	if _, ok := r.byName[defaultName]; !ok {
		return nil, fmt.Errorf("default persona %q: %w", defaultName, ErrUnknown)
	}
	r.defaultName = defaultName
	return r, nil
}

// ValidateName reports whether name can be used as a registry key.
func ValidateName(name string) error {
	if name == "" {
		return errors.New("persona name is empty")
	}
	for _, r := range name {
		if unicode.IsSpace(r) || r == '/' {
			return fmt.Errorf("persona name %q: contains whitespace or '/'", name)
		}
	}
	return nil
}

// Lookup returns the persona registered under name.
func (r *Registry) Lookup(name string) (Persona, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Get is Lookup with an error for unknown names.
func (r *Registry) Get(name string) (Persona, error) {
	p, ok := r.byName[name]
	if !ok {
		return Persona{}, fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	return p, nil
}

// Default returns the configured default persona name.
func (r *Registry) Default() string {
	return r.defaultName
}

// Names returns registered names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// All returns every persona in name order.
func (r *Registry) All() []Persona {
	out := make([]Persona, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.byName[name])
	}
	return out
}
