package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Listen != "localhost:6893" || cfg.Collation != "en" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.FetchTimeout.Duration != 0 {
		t.Errorf("expected no fetch timeout by default, got %v", cfg.FetchTimeout)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
manifest_url = "https://example.com/blog/blogs.json"
fetch_concurrency = 4
fetch_rate = 2.5
fetch_timeout = "15s"
collation = "vi"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ManifestURL != "https://example.com/blog/blogs.json" {
		t.Errorf("unexpected manifest url: %s", cfg.ManifestURL)
	}
	if cfg.FetchConcurrency != 4 || cfg.FetchRate != 2.5 {
		t.Errorf("unexpected fetch settings: %+v", cfg)
	}
	if cfg.FetchTimeout.Duration != 15*time.Second {
		t.Errorf("expected 15s timeout, got %v", cfg.FetchTimeout)
	}
	if cfg.Language().String() != "vi" {
		t.Errorf("expected Vietnamese collation, got %v", cfg.Language())
	}
	if cfg.DataDir != "./data" {
		t.Errorf("unset key should keep default, got %q", cfg.DataDir)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"bad toml":       `manifest_url = `,
		"bad duration":   `fetch_timeout = "soon"`,
		"negative limit": `fetch_concurrency = -1`,
		"bad collation":  `collation = "not a tag!"`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := Default()
	cfg.FetchTimeout = Duration{time.Minute}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch: %+v vs %+v", loaded, cfg)
	}
}
