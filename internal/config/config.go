// Package config handles converter configuration loading and management.
package config

import (
	"runtime"

	"github.com/Faultbox/dat2obj/pkg/encoding"
	"github.com/Faultbox/dat2obj/pkg/texture"
)

// Config holds all converter settings.
type Config struct {
	Convert ConvertConfig `yaml:"convert"`
	Logging LoggingConfig `yaml:"logging"`
}

// ConvertConfig holds conversion settings.
type ConvertConfig struct {
	MaterialSuffix  string `yaml:"material_suffix"`  // Appended to texture aliases
	Workers         int    `yaml:"workers"`          // Files converted in parallel
	Debug           bool   `yaml:"debug"`            // Write YAML dumps next to inputs
	Charset         string `yaml:"charset"`          // Charset of .dat and .oti files
	LowercaseOutput bool   `yaml:"lowercase_output"` // Lower-case output file names
	IndexExt        string `yaml:"index_ext"`        // Extension of texture index files
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Convert: ConvertConfig{
			MaterialSuffix:  texture.DefaultSuffix,
			Workers:         runtime.NumCPU(),
			Debug:           false,
			Charset:         encoding.Default,
			LowercaseOutput: true,
			IndexExt:        "oti",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
