package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// serverConfig is the optional YAML configuration file for the serve
// command. Command-line flags override file values.
type serverConfig struct {
	Addr          string `yaml:"addr"`
	WarehousePath string `yaml:"warehouse_path"`
	StoragePath   string `yaml:"storage_path"`

	AI struct {
		Disabled       bool   `yaml:"disabled"`
		Host           string `yaml:"host"`
		EmbeddingModel string `yaml:"embedding_model"`
		GeneratorModel string `yaml:"generator_model"`
		APIKey         string `yaml:"api_key"`
	} `yaml:"ai"`
}

func defaultServerConfig() *serverConfig {
	return &serverConfig{
		Addr:          ":8080",
		WarehousePath: "./researchers.db",
		StoragePath:   "./projects_db",
	}
}

// loadServerConfig reads a YAML config file over the defaults. An empty
// path returns the defaults untouched.
func loadServerConfig(path string) (*serverConfig, error) {
	config := defaultServerConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}
