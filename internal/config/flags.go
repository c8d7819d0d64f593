package config

// Overrides carries command-line values that take priority over the config
// file. Zero values leave the loaded setting untouched.
type Overrides struct {
	Debug   bool
	Verbose bool
	Workers int
	Suffix  string
	Charset string
	LogFile string
}

// applyFlags applies CLI overrides to the config.
func applyFlags(cfg *Config, o Overrides) {
	if o.Debug {
		cfg.Convert.Debug = true
	}
	if o.Verbose {
		cfg.Logging.Level = "debug"
	}
	if o.Workers > 0 {
		cfg.Convert.Workers = o.Workers
	}
	if o.Suffix != "" {
		cfg.Convert.MaterialSuffix = o.Suffix
	}
	if o.Charset != "" {
		cfg.Convert.Charset = o.Charset
	}
	if o.LogFile != "" {
		cfg.Logging.LogFile = o.LogFile
	}
}
