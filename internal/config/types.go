package config

import "time"

// Config represents the main configuration structure
type Config struct {
	GitHub  GitHubConfig  `yaml:"github" mapstructure:"github"`
	Redact  RedactConfig  `yaml:"redact" mapstructure:"redact"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// GitHubConfig contains GitHub API client configuration. The owner and
// token are deliberately absent: credentials are resolved from the
// environment or .env files (see Credentials), never from the config file.
type GitHubConfig struct {
	BaseURL           string        `yaml:"base_url" mapstructure:"base_url"`
	RequestTimeout    time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	KeepRuns          int           `yaml:"keep_runs" mapstructure:"keep_runs"`
}

// RedactConfig controls the sanitization engine. It is read once at
// startup; the engine is built from it and then frozen.
type RedactConfig struct {
	Detectors     []string        `yaml:"detectors" mapstructure:"detectors"`
	SensitiveKeys []string        `yaml:"sensitive_keys" mapstructure:"sensitive_keys"`
	Patterns      []PatternConfig `yaml:"patterns" mapstructure:"patterns"`
}

// PatternConfig is an additional user-supplied detection rule.
type PatternConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Pattern string `yaml:"pattern" mapstructure:"pattern"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
	File   struct {
		Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
		Path    string `yaml:"path" mapstructure:"path"`
	} `yaml:"file" mapstructure:"file"`
}

// GetDefaults returns a configuration with sensible defaults
func GetDefaults() *Config {
	return &Config{
		GitHub: GitHubConfig{
			BaseURL:           "https://api.github.com",
			RequestTimeout:    30 * time.Second,
			RequestsPerSecond: 5,
			KeepRuns:          50,
		},
		Redact: RedactConfig{
			Detectors: []string{"all"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
