package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	configpkg "github.com/minhyannv/persona-chat/pkg/config"
)

const defaultConfigFile = "persona-chat.yaml"

// cliFlags holds values bound to persistent flags.
type cliFlags struct {
	configPath string
	verbose    bool
	mock       bool
	persona    string
}

// resolveConfigPath picks the explicit flag, then PERSONA_CHAT_CONFIG, then
// ./persona-chat.yaml when it exists. An empty result means built-in defaults.
func resolveConfigPath(flagValue string, getenv func(string) string) string {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v
	}
	if v := strings.TrimSpace(getenv("PERSONA_CHAT_CONFIG")); v != "" {
		return v
	}
	if _, err := os.Stat(defaultConfigFile); !errors.Is(err, fs.ErrNotExist) {
		return defaultConfigFile
	}
	return ""
}

// loadCLIConfig loads .env, the YAML file and env overrides, then applies flags.
// Provider settings are only validated for the chat session itself.
func loadCLIConfig(flags cliFlags, mockChanged, forChat bool) (configpkg.Config, error) {
	_ = godotenv.Load()

	cfg, err := configpkg.Load(resolveConfigPath(flags.configPath, os.Getenv))
	if err != nil {
		return configpkg.Config{}, err
	}
	cfg = configpkg.ApplyEnv(cfg, os.Getenv)
	if mockChanged {
		cfg.MockEnabled = flags.mock
	}
	if p := strings.TrimSpace(flags.persona); p != "" {
		cfg.DefaultPersona = p
	}
	cfg.Verbose = flags.verbose
	cfg = configpkg.Normalize(cfg)
	if !forChat {
		return cfg, nil
	}
	if err := configpkg.Validate(cfg); err != nil {
		return configpkg.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
