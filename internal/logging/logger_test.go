package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "ttyrew.log")
	logger, err := New(Options{Level: "debug", File: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Debug("loaded recording", "frames", 42)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "loaded recording") {
		t.Errorf("log file = %q, want the record in it", data)
	}
	if !strings.Contains(string(data), "frames=42") {
		t.Errorf("log file = %q, want attrs in it", data)
	}
}

func TestNewWithoutFileDiscards(t *testing.T) {
	logger, err := New(Options{Level: "info"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("nowhere to go")

	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Enabled(info) = true, want all records suppressed")
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
