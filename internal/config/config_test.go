package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if !strings.Contains(configDir, "stepdialog") {
		t.Errorf("GetConfigDir() = %v, should contain 'stepdialog'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("macOS config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestGetConfigDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux and other Unix systems")
	}

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if want := filepath.Join(dir, "stepdialog"); got != want {
		t.Errorf("GetConfigDir() = %v, want %v", got, want)
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, CurrentVersion)
	}
	if cfg.Submit.Mode != SubmitModeDelay {
		t.Errorf("Submit.Mode = %q, want delay", cfg.Submit.Mode)
	}
	if cfg.Submit.Delay.Duration != 1500*time.Millisecond {
		t.Errorf("Submit.Delay = %v, want 1.5s", cfg.Submit.Delay)
	}
	if cfg.Submit.Timeout.Duration != 10*time.Second {
		t.Errorf("Submit.Timeout = %v, want 10s", cfg.Submit.Timeout)
	}
	if cfg.Submit.Retries != 2 {
		t.Errorf("Submit.Retries = %d, want 2", cfg.Submit.Retries)
	}
	if cfg.Log.Level != "" {
		t.Errorf("Log.Level = %q, want empty", cfg.Log.Level)
	}
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Default().Validate() = %v, want no errors", errs)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Submit.Mode != SubmitModeDelay {
		t.Errorf("missing file should yield defaults, got mode %q", cfg.Submit.Mode)
	}
}

func TestLoad_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "version: 1\nsubmit:\n  mode: http\n  url: http://localhost:9000/forms\n  timeout: 3s\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Submit.Mode != SubmitModeHTTP {
		t.Errorf("Submit.Mode = %q, want http", cfg.Submit.Mode)
	}
	if cfg.Submit.Timeout.Duration != 3*time.Second {
		t.Errorf("Submit.Timeout = %v, want 3s", cfg.Submit.Timeout)
	}
	// Omitted keys keep defaults
	if cfg.Submit.Delay.Duration != 1500*time.Millisecond {
		t.Errorf("Submit.Delay = %v, want default 1.5s", cfg.Submit.Delay)
	}
	if cfg.Submit.Retries != 2 {
		t.Errorf("Submit.Retries = %d, want default 2", cfg.Submit.Retries)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"wrong version", "version: 7\n"},
		{"bad duration", "version: 1\nsubmit:\n  delay: soon\n"},
		{"not yaml", "version: [1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() expected error")
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Log.Level = "debug"
	cfg.Log.File = "/tmp/stepdialog.log"
	cfg.Submit.Mode = SubmitModeWebSocket
	cfg.Submit.URL = "ws://localhost:8080/ws"
	cfg.Submit.Delay = Duration{250 * time.Millisecond}

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after Save()")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "delay: 250ms") {
		t.Errorf("durations should be written as strings, got:\n%s", raw)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Load() = %+v, want %+v", loaded, cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"unknown mode", func(c *Config) { c.Submit.Mode = "fax" }, "submit.mode"},
		{"http without url", func(c *Config) { c.Submit.Mode = SubmitModeHTTP }, "submit.url"},
		{"websocket without url", func(c *Config) { c.Submit.Mode = SubmitModeWebSocket }, "submit.url"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"negative retries", func(c *Config) { c.Submit.Retries = -1 }, "submit.retries"},
		{"negative delay", func(c *Config) { c.Submit.Delay = Duration{-time.Second} }, "submit.delay"},
		{"wrong version", func(c *Config) { c.Version = 2 }, "version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			errs := cfg.Validate()
			if len(errs) != 1 {
				t.Fatalf("Validate() = %v, want exactly one error", errs)
			}
			if !strings.Contains(errs[0].Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", errs[0], tt.wantErr)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "info")
	t.Setenv(EnvLogFile, "/var/log/stepdialog.log")
	t.Setenv(EnvSubmitMode, "HTTP")
	t.Setenv(EnvSubmitURL, "http://example.test/forms")

	cfg := Default()
	cfg.ApplyEnv()

	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.Log.File != "/var/log/stepdialog.log" {
		t.Errorf("Log.File = %q", cfg.Log.File)
	}
	if cfg.Submit.Mode != SubmitModeHTTP {
		t.Errorf("Submit.Mode = %q", cfg.Submit.Mode)
	}
	if cfg.Submit.URL != "http://example.test/forms" {
		t.Errorf("Submit.URL = %q", cfg.Submit.URL)
	}
}
