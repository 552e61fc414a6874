package eql

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the .eql.yaml configuration file used by the CLI.
type Config struct {
	Format FormatConfig `yaml:"format,omitempty"`
	Check  CheckConfig  `yaml:"check,omitempty"`
}

// FormatConfig holds settings for the fmt command.
type FormatConfig struct {
	// MaxWidth is the target line width; zero means the default.
	MaxWidth int `yaml:"max-width,omitempty"`

	// Extensions are the file extensions to discover, without the dot.
	Extensions []string `yaml:"extensions,omitempty"`
}

// CheckConfig holds settings for the check command.
type CheckConfig struct {
	// Color is "auto", "always", or "never".
	Color string `yaml:"color,omitempty"`
}

// MaxWidth returns the configured line width, or the default.
func (c *Config) MaxWidth() int {
	if c != nil && c.Format.MaxWidth > 0 {
		return c.Format.MaxWidth
	}

	return DefaultMaxLineWidth
}

// Extensions returns the configured file extensions, or the default.
func (c *Config) Extensions() []string {
	if c != nil && len(c.Format.Extensions) > 0 {
		return c.Format.Extensions
	}

	return []string{"eql"}
}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".eql.yaml", ".eql.yml"}

// LoadConfig finds and loads the nearest .eql.yaml walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
