package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stepName string

func (s stepName) String() string { return string(s) }

func TestInitializeSilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")

	if err := Initialize("", ""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be silent when no level is configured")
	}
}

func TestInitializeFromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")
	path := filepath.Join(t.TempDir(), "dialog.log")

	if err := Initialize("", path); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer SetLogger(nil)

	if GetLogger().Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}

	Warn("written to file")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file missing entry, got %q", data)
	}
}

func TestInitializeRejectsUnknownLevel(t *testing.T) {
	if err := Initialize("verbose", ""); err == nil {
		t.Error("Initialize(verbose) should fail")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLevel(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDomainHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	LogTransition("d1", "next", stepName("personal_info"), stepName("contact_info"))
	LogValidation("d1", stepName("contact_info"), []string{"phone"})
	LogValidation("d1", stepName("contact_info"), nil)
	LogSubmit("d1", "s1", "failed", zap.String("reason", "timeout"))
	LogSubmit("d1", "s1", "succeeded")

	entries := logs.AllUntimed()
	if len(entries) != 5 {
		t.Fatalf("got %d entries, want 5", len(entries))
	}

	if entries[0].ContextMap()["to"] != "contact_info" {
		t.Errorf("transition entry = %v", entries[0].ContextMap())
	}
	if entries[1].Level != zapcore.InfoLevel {
		t.Errorf("failed validation level = %v, want info", entries[1].Level)
	}
	if entries[2].Level != zapcore.DebugLevel {
		t.Errorf("passed validation level = %v, want debug", entries[2].Level)
	}
	if entries[3].Level != zapcore.WarnLevel {
		t.Errorf("failed submit level = %v, want warn", entries[3].Level)
	}
	if entries[4].ContextMap()["submission_id"] != "s1" {
		t.Errorf("submit entry = %v", entries[4].ContextMap())
	}
}
