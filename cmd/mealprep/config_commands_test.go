package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mealprep/internal/config"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, nil, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Config path: "+env.configPath, "Configuration valid")
	requireNotContains(t, out, "defaults were used")
	requireNotContains(t, out, "Warning:")

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, _, err = runCLI(t, cliEnv{}, nil, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration to "+target)
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if string(data) != config.SampleConfig() {
		t.Fatal("written config differs from the sample")
	}

	_, _, err = runCLI(t, cliEnv{}, nil, "config", "init", "--path", target)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected refusal to overwrite, got %v", err)
	}

	if err := os.WriteFile(target, []byte("# edited\n"), 0o644); err != nil {
		t.Fatalf("edit config: %v", err)
	}
	if _, _, err := runCLI(t, cliEnv{}, nil, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
	data, err = os.ReadFile(target)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if string(data) != config.SampleConfig() {
		t.Fatal("--overwrite did not restore the sample")
	}
}

func TestConfigInitSkipsBrokenConfig(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.toml")
	if err := os.WriteFile(broken, []byte("[paths]\nunknown_key = 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	target := filepath.Join(dir, "fresh.toml")

	if _, _, err := runCLI(t, cliEnv{configPath: broken}, nil, "config", "init", "--path", target); err != nil {
		t.Fatalf("config init should not load the config: %v", err)
	}

	_, _, err := runCLI(t, cliEnv{configPath: broken}, nil, "config", "validate")
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestConfigValidateWarnsAboutMissingRecipes(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.RemoveAll(env.cfg.Paths.RecipesDir); err != nil {
		t.Fatalf("remove recipes: %v", err)
	}

	out, _, err := runCLI(t, env, nil, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Warning: Recipes directory", "Configuration valid")
}

func TestConfigShowPrintsEffectiveConfig(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, nil, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "[paths]", "recipes_dir", env.cfg.Paths.RecipesDir, "[reconcile]", "fuzzy_threshold")
}
