package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Convert.MaterialSuffix != "_auv" {
		t.Errorf("expected suffix '_auv', got %q", cfg.Convert.MaterialSuffix)
	}
	if cfg.Convert.Workers < 1 {
		t.Errorf("expected at least one worker, got %d", cfg.Convert.Workers)
	}
	if cfg.Convert.Debug {
		t.Error("expected debug to be false by default")
	}
	if cfg.Convert.Charset != "utf-8" {
		t.Errorf("expected charset 'utf-8', got %q", cfg.Convert.Charset)
	}
	if !cfg.Convert.LowercaseOutput {
		t.Error("expected lowercase_output to be true by default")
	}
	if cfg.Convert.IndexExt != "oti" {
		t.Errorf("expected index ext 'oti', got %q", cfg.Convert.IndexExt)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "dat2obj.yaml")

	yamlContent := `
convert:
  material_suffix: "_mat"
  workers: 3
  debug: true
  charset: "windows-1252"
  lowercase_output: false
  index_ext: "idx"

logging:
  level: "debug"
  log_file: "dat2obj.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Convert.MaterialSuffix != "_mat" {
		t.Errorf("expected suffix '_mat', got %q", cfg.Convert.MaterialSuffix)
	}
	if cfg.Convert.Workers != 3 {
		t.Errorf("expected 3 workers, got %d", cfg.Convert.Workers)
	}
	if !cfg.Convert.Debug {
		t.Error("expected debug to be true")
	}
	if cfg.Convert.Charset != "windows-1252" {
		t.Errorf("expected charset 'windows-1252', got %q", cfg.Convert.Charset)
	}
	if cfg.Convert.LowercaseOutput {
		t.Error("expected lowercase_output to be false")
	}
	if cfg.Convert.IndexExt != "idx" {
		t.Errorf("expected index ext 'idx', got %q", cfg.Convert.IndexExt)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "dat2obj.log" {
		t.Errorf("expected log file 'dat2obj.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
convert:
  workers: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/dat2obj.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(configPath, []byte("convert:\n  workers: 2\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find dat2obj.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		flags  Overrides
		verify func(t *testing.T, cfg *Config)
	}{
		{
			name:  "debug flag",
			flags: Overrides{Debug: true},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Convert.Debug {
					t.Error("expected debug dumps to be enabled")
				}
			},
		},
		{
			name:  "verbose flag",
			flags: Overrides{Verbose: true},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name:  "workers and suffix",
			flags: Overrides{Workers: 8, Suffix: "_x"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Convert.Workers != 8 {
					t.Errorf("expected 8 workers, got %d", cfg.Convert.Workers)
				}
				if cfg.Convert.MaterialSuffix != "_x" {
					t.Errorf("expected suffix '_x', got %q", cfg.Convert.MaterialSuffix)
				}
			},
		},
		{
			name:  "zero values leave defaults",
			flags: Overrides{},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Convert.MaterialSuffix != "_auv" {
					t.Errorf("expected default suffix, got %q", cfg.Convert.MaterialSuffix)
				}
				if cfg.Convert.Charset != "utf-8" {
					t.Errorf("expected default charset, got %q", cfg.Convert.Charset)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			applyFlags(cfg, tt.flags)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "dat2obj.yaml")

	yamlContent := `
convert:
  workers: 2
  material_suffix: "_file"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath, Overrides{Suffix: "_flag"})
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Convert.MaterialSuffix != "_flag" {
		t.Errorf("expected suffix from flag, got %q", cfg.Convert.MaterialSuffix)
	}
	if cfg.Convert.Workers != 2 {
		t.Errorf("expected workers 2 from file, got %d", cfg.Convert.Workers)
	}
}

func TestLoadRejectsUnknownCharset(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "dat2obj.yaml")
	if err := os.WriteFile(configPath, []byte("convert:\n  charset: klingon\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := Load(configPath, Overrides{}); err == nil {
		t.Error("expected error for unknown charset, got nil")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dat2obj.yaml")

	cfg := Default()
	cfg.Convert.Workers = 5
	cfg.Convert.MaterialSuffix = "_saved"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := Load(path, Overrides{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Convert.Workers != 5 || loaded.Convert.MaterialSuffix != "_saved" {
		t.Errorf("loaded config = %+v, want workers 5 and suffix _saved", loaded.Convert)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "material_suffix: _auv") {
		t.Errorf("expected material_suffix in output, got:\n%s", buf.String())
	}
}
