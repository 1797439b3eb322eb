package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitWithFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scatter.log")
	if err := InitWithFileConfig("debug", DefaultFileConfig(path), false); err != nil {
		t.Fatalf("InitWithFileConfig failed: %v", err)
	}

	Log.Info("hello from test", zap.Int("copies", 3))
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file missing: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("log file does not contain message: %q", string(data))
	}
}

func TestInitConsoleOnly(t *testing.T) {
	if err := Init("info", ""); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if Log == nil || Sugar == nil {
		t.Fatal("expected global loggers to be set")
	}
}
