package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the config file schema version
const CurrentVersion = 1

// Submit modes
const (
	SubmitModeDelay     = "delay"     // Simulated submission, waits Submit.Delay
	SubmitModeHTTP      = "http"      // POST the form as JSON to Submit.URL
	SubmitModeWebSocket = "websocket" // Send the form over a websocket at Submit.URL
)

// Environment variables that override the file
const (
	EnvLogLevel   = "STEPDIALOG_LOG_LEVEL"
	EnvLogFile    = "STEPDIALOG_LOG_FILE"
	EnvSubmitMode = "STEPDIALOG_SUBMIT_MODE"
	EnvSubmitURL  = "STEPDIALOG_SUBMIT_URL"
)

// Config represents the entire user configuration file.
type Config struct {
	Version int    `yaml:"version"`
	Log     Log    `yaml:"log"`
	Submit  Submit `yaml:"submit"`
}

// Log controls diagnostic output. An empty level keeps logging silent.
type Log struct {
	Level string `yaml:"level"` // debug|info|warn|error
	File  string `yaml:"file"`  // Log file used by the full-screen UI
}

// Submit selects how a completed form is delivered.
type Submit struct {
	Mode    string   `yaml:"mode"`    // delay|http|websocket
	Delay   Duration `yaml:"delay"`   // Simulated latency for delay mode
	URL     string   `yaml:"url"`     // Receiver for http/websocket modes
	Timeout Duration `yaml:"timeout"` // Per-attempt timeout for network modes
	Retries int      `yaml:"retries"` // Extra attempts for retryable HTTP failures
}

// Duration is a time.Duration written as "1500ms" or "10s" in YAML.
type Duration struct {
	time.Duration
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like 1500ms: %w", err)
	}
	if strings.TrimSpace(s) == "" {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// Default creates a Config with default values.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Submit: Submit{
			Mode:    SubmitModeDelay,
			Delay:   Duration{1500 * time.Millisecond},
			Timeout: Duration{10 * time.Second},
			Retries: 2,
		},
	}
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() []error {
	var errs []error

	if c.Version != CurrentVersion {
		errs = append(errs, fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, CurrentVersion))
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}

	switch c.Submit.Mode {
	case SubmitModeDelay, "":
	case SubmitModeHTTP, SubmitModeWebSocket:
		if c.Submit.URL == "" {
			errs = append(errs, fmt.Errorf("submit.url is required for mode %q", c.Submit.Mode))
		}
	default:
		errs = append(errs, fmt.Errorf("submit.mode: unknown mode %q (expected delay, http or websocket)", c.Submit.Mode))
	}

	if c.Submit.Delay.Duration < 0 {
		errs = append(errs, fmt.Errorf("submit.delay must not be negative"))
	}
	if c.Submit.Timeout.Duration < 0 {
		errs = append(errs, fmt.Errorf("submit.timeout must not be negative"))
	}
	if c.Submit.Retries < 0 {
		errs = append(errs, fmt.Errorf("submit.retries must not be negative"))
	}

	return errs
}

// ApplyEnv overlays values from STEPDIALOG_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv(EnvSubmitMode); v != "" {
		c.Submit.Mode = strings.ToLower(v)
	}
	if v := os.Getenv(EnvSubmitURL); v != "" {
		c.Submit.URL = v
	}
}
