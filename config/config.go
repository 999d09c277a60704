package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Host          string    `yaml:"host"`
	Timeout       string    `yaml:"timeout"`
	NotifyTimeout string    `yaml:"notify_timeout"`
	StateFile     string    `yaml:"state_file"`
	MetricsAddr   string    `yaml:"metrics_addr"`
	Log           LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

// Default returns a config with only the defaults applied, for running
// without a config file.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	if c.NotifyTimeout == "" {
		c.NotifyTimeout = "1s"
	}
	if c.StateFile == "" {
		c.StateFile = "zeptrion.json"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
