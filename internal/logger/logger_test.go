package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestLogRotation(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "test.log")

	// 1MB is the smallest size lumberjack accepts.
	l, err := New(Options{
		Level: "debug",
		File: FileConfig{
			Path:       logFile,
			MaxSizeMB:  1,
			MaxBackups: 2,
			MaxAgeDays: 1,
		},
	})
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}

	longMessage := strings.Repeat("x", 200)
	sugar := l.Sugar()
	for i := 0; i < 15000; i++ {
		sugar.Infof("step %d: %s", i, longMessage)
	}
	_ = l.Sync()

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("main log file does not exist")
	}

	files, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("failed to read temp dir: %v", err)
	}

	rotated := 0
	for _, f := range files {
		name := f.Name()
		if name == "test.log" || !strings.HasPrefix(name, "test") {
			continue
		}
		rotated++
		// test-YYYY-MM-DDTHH-MM-SS.SSS.log
		if !strings.Contains(name, "-20") {
			t.Errorf("rotated file %s doesn't have expected timestamp format", name)
		}
	}
	if rotated == 0 {
		t.Error("no rotated files found")
	}
}

func TestLogLevels(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(tempDir, tt.level+".log")
			l, err := New(Options{Level: tt.level, File: FileConfig{Path: logFile, MaxSizeMB: 10}})
			if err != nil {
				t.Fatalf("failed to build logger: %v", err)
			}

			l.Debug("debug message")
			l.Info("info message")
			l.Warn("warn message")
			l.Error("error message")
			_ = l.Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}
			logContent := string(content)

			for _, exp := range tt.expected {
				if !strings.Contains(logContent, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(logContent, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestJSONFileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "sim.jsonl")
	l, err := New(Options{Level: "info", File: FileConfig{Path: logFile, MaxSizeMB: 1, JSON: true}})
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}
	l.Named("physics").Info("body landed", zap.String("body", "crate"))
	_ = l.Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(content))), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["logger"] != "physics" {
		t.Errorf("expected logger name physics, got %v", entry["logger"])
	}
	if entry["body"] != "crate" {
		t.Errorf("expected body field crate, got %v", entry["body"])
	}
}

func TestParseLevel(t *testing.T) {
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
	if lvl, err := ParseLevel(""); err != nil || lvl != zap.InfoLevel {
		t.Errorf("empty level = %v, %v; want info", lvl, err)
	}
}

func TestNoSinksIsNop(t *testing.T) {
	l, err := New(Options{Level: "debug"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.Core().Enabled(zap.ErrorLevel) {
		t.Error("logger without sinks should discard everything")
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/test.log")

	if cfg.Path != "/tmp/test.log" {
		t.Errorf("expected path /tmp/test.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 50 {
		t.Errorf("expected MaxSizeMB 50, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups != 3 {
		t.Errorf("expected MaxBackups 3, got %d", cfg.MaxBackups)
	}
	if cfg.MaxAgeDays != 7 {
		t.Errorf("expected MaxAgeDays 7, got %d", cfg.MaxAgeDays)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}
