package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveConfigPathPrefersFlag(t *testing.T) {
	env := func(string) string { return "from-env.yaml" }
	if got := resolveConfigPath(" custom.yaml ", env); got != "custom.yaml" {
		t.Fatalf("expected flag value, got %q", got)
	}
	if got := resolveConfigPath("", env); got != "from-env.yaml" {
		t.Fatalf("expected env value, got %q", got)
	}
}

func TestResolveConfigPathFallsBackToDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	env := func(string) string { return "" }
	if got := resolveConfigPath("", env); got != "" {
		t.Fatalf("expected built-in defaults, got %q", got)
	}
	if err := os.WriteFile(filepath.Join(".", defaultConfigFile), []byte("model: m\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if got := resolveConfigPath("", env); got != defaultConfigFile {
		t.Fatalf("expected %s, got %q", defaultConfigFile, got)
	}
}

func TestLoadCLIConfigAppliesFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PERSONA_CHAT_CONFIG", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("PERSONA_CHAT_MOCK", "")

	cfg, err := loadCLIConfig(cliFlags{mock: true, persona: "sql", verbose: true}, true, true)
	if err != nil {
		t.Fatalf("loadCLIConfig: %v", err)
	}
	if !cfg.MockEnabled || cfg.DefaultPersona != "sql" || !cfg.Verbose {
		t.Fatalf("flags not applied: %+v", cfg)
	}
}

func TestLoadCLIConfigRequiresKeyWithoutMock(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PERSONA_CHAT_CONFIG", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("PERSONA_CHAT_MOCK", "")

	if _, err := loadCLIConfig(cliFlags{}, false, true); err == nil {
		t.Fatal("expected missing API key error")
	}
	if _, err := loadCLIConfig(cliFlags{}, false, false); err != nil {
		t.Fatalf("expected subcommands to skip provider validation, got %v", err)
	}
}
