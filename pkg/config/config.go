package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App       AppConfig                 `yaml:"app"`
	Providers map[string]ProviderConfig `yaml:"providers"`
	Planner   PlannerConfig             `yaml:"planner"`
}

type AppConfig struct {
	Name string `yaml:"name"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url,omitempty"`
	Enabled bool   `yaml:"enabled"`
}

type PlannerConfig struct {
	MaxSteps        int    `yaml:"max_steps"`
	CompletionToken string `yaml:"completion_token"`
	TaskFile        string `yaml:"task_file"`
	PromptsDir      string `yaml:"prompts_dir"`
}

// Parse decodes raw YAML and applies planner defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %v", err)
	}

	if cfg.Planner.MaxSteps <= 0 {
		cfg.Planner.MaxSteps = 10
	}
	if cfg.Planner.CompletionToken == "" {
		cfg.Planner.CompletionToken = "STEP COMPLETED"
	}
	if cfg.Planner.PromptsDir == "" {
		cfg.Planner.PromptsDir = "./prompts"
	}

	return &cfg, nil
}

func LoadConfig(path string) *Config {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		log.Fatalf("failed to parse config file %s: %v", path, err)
	}
	return cfg
}

// GetDefaultProvider returns the first enabled provider
func (c *Config) GetDefaultProvider() (string, ProviderConfig) {
	for name, p := range c.Providers {
		if p.Enabled {
			return name, p
		}
	}
	return "", ProviderConfig{}
}
