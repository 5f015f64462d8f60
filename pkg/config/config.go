package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid marks configuration values that cannot be used.
var ErrInvalid = errors.New("invalid config")

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds all runtime configuration for a chat session.
type Config struct {
	Provider    string  `yaml:"provider"`
	APIKey      string  `yaml:"apiKey"`
	BaseURL     string  `yaml:"baseURL"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"maxTokens"`
	MockEnabled bool    `yaml:"mockEnabled"`

	DefaultPersona string                 `yaml:"defaultPersona"`
	Personas       map[string]PersonaSpec `yaml:"personas"`
	PersonasDir    string                 `yaml:"personasDir"`

	Logging      LoggingConfig `yaml:"logging"`
	ExitCommands []string      `yaml:"exitCommands"`

	Verbose bool `yaml:"-"`
}

// LoggingConfig controls the conversation log, not the diagnostic logger.
type LoggingConfig struct {
	Enabled          bool   `yaml:"enabled"`
	Mode             string `yaml:"mode"`
	Directory        string `yaml:"directory"`
	Filename         string `yaml:"filename"`
	RetentionDays    int    `yaml:"retentionDays"`
	RetentionMinutes int    `yaml:"retentionMinutes"`
	PruneOnStart     bool   `yaml:"pruneOnStart"`
}

// PersonaSpec is one persona entry. In YAML it is either a bare string (the
// system prompt) or a mapping with prompt, welcome and description.
type PersonaSpec struct {
	Prompt      string `yaml:"prompt"`
	Welcome     string `yaml:"welcome"`
	Description string `yaml:"description"`
}

// UnmarshalYAML accepts both the scalar and the mapping form.
func (p *PersonaSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		p.Prompt = node.Value
		return nil
	}
	type plain PersonaSpec
	var out plain
	if err := node.Decode(&out); err != nil {
		return err
	}
	*p = PersonaSpec(out)
	return nil
}

// DefaultConfig returns a baseline configuration without side effects.
func DefaultConfig() Config {
	return Config{
		Provider:       ProviderOpenAI,
		Model:          "gpt-4o-mini",
		Temperature:    0.2,
		MaxTokens:      1024,
		DefaultPersona: "sas",
		Personas: map[string]PersonaSpec{
			"sas": {
				Prompt:      "You are an expert SAS programmer. Answer with working SAS code and short explanations.",
				Welcome:     "SAS persona ready. Ask about DATA steps, PROC SQL or macros.",
				Description: "SAS programming assistant",
			},
			"sql": {
				Prompt:      "You are a senior database engineer. Answer with correct, portable SQL and explain trade-offs briefly.",
				Description: "SQL and database design assistant",
			},
			"python": {
				Prompt:      "You are a pragmatic Python developer. Prefer the standard library and idiomatic code.",
				Description: "Python programming assistant",
			},
			"general": {
				Prompt:      "You are a concise, helpful assistant.",
				Description: "General-purpose assistant",
			},
		},
		Logging: LoggingConfig{
			Enabled:       true,
			Mode:          "rotate",
			Directory:     "logs",
			Filename:      "chat.log",
			RetentionDays: 7,
			PruneOnStart:  true,
		},
		ExitCommands: []string{"exit", "quit", "q", ":q", "/exit", "/quit"},
	}
}

// Load reads a YAML file on top of DefaultConfig. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := Decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode unmarshals YAML into cfg. A personas block in the file replaces
// the built-in personas rather than merging with them.
func Decode(data []byte, cfg *Config) error {
	var probe struct {
		Personas map[string]PersonaSpec `yaml:"personas"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Personas != nil {
		cfg.Personas = nil
	}
	return yaml.Unmarshal(data, cfg)
}

// ApplyEnv overlays non-empty environment values onto cfg.
func ApplyEnv(cfg Config, getenv func(string) string) Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	if v := get("LLM_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))

	switch provider {
	case ProviderAnthropic:
		if v := get("ANTHROPIC_API_KEY"); v != "" {
			cfg.APIKey = v
		}
		if v := get("ANTHROPIC_BASE_URL"); v != "" {
			cfg.BaseURL = v
		}
		if v := get("ANTHROPIC_MODEL"); v != "" {
			cfg.Model = v
		}
	default:
		if v := get("OPENAI_API_KEY"); v != "" {
			cfg.APIKey = v
		}
		if v := get("OPENAI_BASE_URL"); v != "" {
			cfg.BaseURL = v
		}
		if v := get("OPENAI_MODEL"); v != "" {
			cfg.Model = v
		}
	}

	if v := get("PERSONA_CHAT_MOCK"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.MockEnabled = b
		}
	}
	if v := get("PERSONA_CHAT_LOG_DIR"); v != "" {
		cfg.Logging.Directory = v
	}
	return cfg
}

// Normalize sanitizes configuration values and applies defaults.
func Normalize(cfg Config) Config {
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.Provider == "" {
		cfg.Provider = ProviderOpenAI
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.DefaultPersona = strings.TrimSpace(cfg.DefaultPersona)
	cfg.PersonasDir = strings.TrimSpace(cfg.PersonasDir)
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}

	cfg.Logging.Mode = strings.ToLower(strings.TrimSpace(cfg.Logging.Mode))
	if cfg.Logging.Mode == "" {
		cfg.Logging.Mode = "rotate"
	}
	cfg.Logging.Directory = strings.TrimSpace(cfg.Logging.Directory)
	if cfg.Logging.Directory == "" {
		cfg.Logging.Directory = "logs"
	}
	cfg.Logging.Filename = strings.TrimSpace(cfg.Logging.Filename)
	if cfg.Logging.Filename == "" {
		cfg.Logging.Filename = "chat.log"
	}
	if cfg.Logging.RetentionDays < 0 {
		cfg.Logging.RetentionDays = 0
	}
	if cfg.Logging.RetentionMinutes < 0 {
		cfg.Logging.RetentionMinutes = 0
	}

	exits := make([]string, 0, len(cfg.ExitCommands))
	seen := make(map[string]bool, len(cfg.ExitCommands))
	for _, token := range cfg.ExitCommands {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" || seen[token] {
			continue
		}
		seen[token] = true
		exits = append(exits, token)
	}
	cfg.ExitCommands = exits
	return cfg
}

// Validate checks a normalized config. Mock mode does not need an API key.
func Validate(cfg Config) error {
	switch cfg.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalid, cfg.Provider)
	}
	if !cfg.MockEnabled && cfg.APIKey == "" {
		return fmt.Errorf("%w: APIKey is not set", ErrInvalid)
	}
	if cfg.Model == "" {
		return fmt.Errorf("%w: Model is not set", ErrInvalid)
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return fmt.Errorf("%w: temperature %v out of range [0,2]", ErrInvalid, cfg.Temperature)
	}
	switch cfg.Logging.Mode {
	case "rotate", "append", "overwrite":
	default:
		return fmt.Errorf("%w: unknown logging mode %q", ErrInvalid, cfg.Logging.Mode)
	}
	if len(cfg.ExitCommands) == 0 {
		return fmt.Errorf("%w: at least one exit command is required", ErrInvalid)
	}
	return nil
}
