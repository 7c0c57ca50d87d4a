package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	sol "github.com/hilkojj/sol2"
	"github.com/hilkojj/sol2/pkg/catalog"
)

// containerSeed declares one host container bound as a global before the
// script runs.
type containerSeed struct {
	Name         string `yaml:"name"`
	Kind         string `yaml:"kind"`
	catalog.Seed `yaml:",inline"`
}

// cliConfig is sol.Config plus the containers to seed.
type cliConfig struct {
	sol.Config `yaml:",inline"`
	Containers []containerSeed `yaml:"containers"`
}

func defaultCLIConfig() *cliConfig {
	return &cliConfig{Config: *sol.DefaultConfig()}
}

func loadCLIConfig(path string) (*cliConfig, error) {
	cfg := defaultCLIConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	for i, c := range cfg.Containers {
		if c.Name == "" {
			return nil, fmt.Errorf("config %s: container %d has no name", path, i+1)
		}
	}
	return cfg, nil
}

// seed builds every configured container and binds it in s.
func seed(s *sol.State, containers []containerSeed) error {
	for _, c := range containers {
		v, err := catalog.Build(c.Kind, c.Seed)
		if err != nil {
			return fmt.Errorf("container %s: %w", c.Name, err)
		}
		if err := s.Set(c.Name, v); err != nil {
			return err
		}
		s.Logger().DebugCat(sol.CatConfig, "seeded %s as %s", c.Name, c.Kind)
	}
	return nil
}
