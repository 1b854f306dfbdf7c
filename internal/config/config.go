package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

type Config struct {
	ManifestURL      string   `toml:"manifest_url"`
	DataDir          string   `toml:"data_dir"`
	Listen           string   `toml:"listen"`
	FetchConcurrency int      `toml:"fetch_concurrency"` // 0 = every entry at once
	FetchRate        float64  `toml:"fetch_rate"`        // requests/second, 0 = unlimited
	FetchTimeout     Duration `toml:"fetch_timeout"`     // 0 = none
	Collation        string   `toml:"collation"`
	UserAgent        string   `toml:"user_agent,omitempty"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func Default() *Config {
	return &Config{
		ManifestURL: "http://localhost:8000/blog/blogs.json",
		DataDir:     "./data",
		Listen:      "localhost:6893",
		Collation:   "en",
	}
}

// Load reads a TOML config file. A missing file yields the defaults and
// unset keys keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ManifestURL == "" {
		return fmt.Errorf("manifest_url is required")
	}
	if c.FetchConcurrency < 0 {
		return fmt.Errorf("fetch_concurrency must not be negative")
	}
	if c.FetchRate < 0 {
		return fmt.Errorf("fetch_rate must not be negative")
	}
	if _, err := language.Parse(c.Collation); err != nil {
		return fmt.Errorf("invalid collation %q: %w", c.Collation, err)
	}
	return nil
}

// Language returns the collation language, English when unparsable
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.Collation)
	if err != nil {
		return language.English
	}
	return tag
}

func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "blog.db")
}

func (c *Config) IndexPath() string {
	return filepath.Join(c.DataDir, "bleve")
}

// Save writes the config as TOML
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
