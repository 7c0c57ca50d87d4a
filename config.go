package sol

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a YAML configuration file. Fields missing from the file
// keep their DefaultConfig values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML configuration on top of DefaultConfig.
func ParseConfig(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate reports unknown log categories and libraries.
func (c *Config) Validate() error {
	for _, cat := range c.LogCategories {
		if !slices.Contains(allCategories, cat) {
			return fmt.Errorf("unknown log category %q", cat)
		}
	}
	for _, name := range c.Libraries {
		if !slices.ContainsFunc(standardLibraries, func(lib libraryEntry) bool { return lib.name == name }) {
			return fmt.Errorf("unknown library %q", name)
		}
	}
	if c.ContextLines < 0 {
		return fmt.Errorf("context_lines must not be negative")
	}
	return nil
}
