package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Pipeline.MaxResults != 10 {
		t.Errorf("MaxResults = %d, want 10", cfg.Pipeline.MaxResults)
	}
	if !cfg.Pipeline.SkipIfExists {
		t.Error("SkipIfExists should default to true")
	}
	if len(cfg.Feeds) == 0 {
		t.Error("default feed table should not be empty")
	}
	if cfg.Tokenizer.Backend != "rule" {
		t.Errorf("tokenizer backend = %q, want rule", cfg.Tokenizer.Backend)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(maxResultsEnv, "25")
	t.Setenv(skipNonTechEnv, "1")
	t.Setenv(databasePathEnv, "/tmp/override.db")

	cfg := Load()

	if cfg.Pipeline.MaxResults != 25 {
		t.Errorf("MaxResults = %d, want 25", cfg.Pipeline.MaxResults)
	}
	if !cfg.Pipeline.SkipNonTech {
		t.Error("SkipNonTech should be overridden to true")
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("database path = %q", cfg.Database.Path)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
pipeline:
  maxResults: 7
  matchMode: word-boundary
feeds:
  - source: custom
    url: https://custom.example/feed
    scanner: rss
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(configPathEnv, path)

	cfg := Load()

	if cfg.Pipeline.MaxResults != 7 {
		t.Errorf("MaxResults = %d, want 7", cfg.Pipeline.MaxResults)
	}
	if cfg.Pipeline.MatchMode != "word-boundary" {
		t.Errorf("MatchMode = %q", cfg.Pipeline.MatchMode)
	}
	if len(cfg.Feeds) != 1 || cfg.Feeds[0].Source != "custom" {
		t.Errorf("feeds = %+v", cfg.Feeds)
	}
}

func TestLoadYAMLDisablesDefaultTrueToggles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
pipeline:
  skipIfExists: false
  strictTechKeywords: false
  fetchBody: false
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(configPathEnv, path)

	cfg := Load()

	if cfg.Pipeline.SkipIfExists {
		t.Error("SkipIfExists still true despite yaml false")
	}
	if cfg.Pipeline.StrictTechKeywords {
		t.Error("StrictTechKeywords still true despite yaml false")
	}
	if cfg.Pipeline.FetchBody {
		t.Error("FetchBody still true despite yaml false")
	}
	if cfg.Pipeline.SkipNonTech {
		t.Error("SkipNonTech should keep its false default when absent")
	}
}

func TestLoadBadEnvValueIgnored(t *testing.T) {
	t.Setenv(maxResultsEnv, "lots")

	cfg := Load()

	if cfg.Pipeline.MaxResults != 10 {
		t.Errorf("MaxResults = %d, want default 10", cfg.Pipeline.MaxResults)
	}
}
