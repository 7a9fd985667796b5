package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mfaulds/docdex/internal/dataset"
)

type Config struct {
	DocsDir    string          `json:"docs_dir"`
	DataPath   string          `json:"data_path"`
	BaseURL    string          `json:"base_url"`
	NumResults int             `json:"num_results"`
	DebounceMS int             `json:"debounce_ms"`
	Boosts     *dataset.Boosts `json:"boosts,omitempty"`
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "docdex"), nil
}

func configPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

func (c *Config) ApplyDefaults() {
	if c.DataPath == "" {
		c.DataPath = "search.json"
	}
	if c.NumResults == 0 {
		c.NumResults = dataset.DefaultNumResults
	}
	if c.DebounceMS == 0 {
		c.DebounceMS = 200
	}
}

func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	data = append(data, '\n')
	return os.WriteFile(path, data, 0600)
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}
