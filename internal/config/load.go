package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/dat2obj/pkg/encoding"
)

// FileName is the config file name looked up in standard locations.
const FileName = "dat2obj.yaml"

// Load loads configuration with priority: defaults < file < flags. An empty
// path searches the standard locations.
func Load(path string, o Overrides) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg, o)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would make every conversion fail.
func (c *Config) Validate() error {
	if !encoding.Supported(c.Convert.Charset) {
		return fmt.Errorf("unsupported charset %q", c.Convert.Charset)
	}
	if c.Convert.Workers < 1 {
		c.Convert.Workers = 1
	}
	if c.Convert.IndexExt == "" {
		c.Convert.IndexExt = "oti"
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./" + FileName,
		filepath.Join(ConfigDir(), FileName),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "dat2obj")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "dat2obj")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "dat2obj")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "dat2obj")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
