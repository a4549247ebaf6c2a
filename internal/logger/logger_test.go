package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestFileRotation(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "bmeshtool.log")

	// 1MB is the smallest size lumberjack rotates at.
	cfg := FileConfig{Path: logFile, MaxSizeMB: 1, MaxBackups: 2, MaxAgeDays: 1}
	if err := InitWithFileConfig("debug", cfg, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	defer Sync()

	codecLog := Named("codec")
	payload := strings.Repeat("f", 200)
	for i := 0; i < 6000; i++ {
		codecLog.Debug("skipped face", zap.Int("face", i), zap.String("offsets", payload))
	}
	Sync()

	if _, err := os.Stat(logFile); err != nil {
		t.Fatalf("current log file missing: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read log dir: %v", err)
	}
	var rotated []string
	for _, e := range entries {
		name := e.Name()
		if name != "bmeshtool.log" && strings.HasPrefix(name, "bmeshtool-") && strings.HasSuffix(name, ".log") {
			rotated = append(rotated, name)
		}
	}
	if len(rotated) == 0 {
		t.Fatalf("no rotated files in %v", entries)
	}
	if len(rotated) > cfg.MaxBackups {
		t.Errorf("kept %d backups, want at most %d", len(rotated), cfg.MaxBackups)
	}
}

func TestNamedLoggersRespectLevel(t *testing.T) {
	dir := t.TempDir()

	// one line per severity, as the codec and pipeline emit them
	emit := func() {
		Named("codec").Debug("skipped face", zap.Int("face", 2))
		Named("pipeline").Info("imported mesh from triangles", zap.String("mesh", "Cube"))
		Named("pipeline").Warn("extension decode failed", zap.String("mesh", "Quad"))
		Named("codec").Error("stage failed", zap.String("stage", "faces"))
	}
	all := []string{"skipped face", "imported mesh from triangles", "extension decode failed", "stage failed"}

	tests := []struct {
		level string
		shown int
	}{
		{"error", 1},
		{"warn", 2},
		{"info", 3},
		{"debug", 4},
		{"bogus", 3},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(dir, tt.level+".log")
			cfg := FileConfig{Path: logFile, MaxSizeMB: 10, MaxBackups: 1, MaxAgeDays: 1}
			if err := InitWithFileConfig(tt.level, cfg, false); err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}
			emit()
			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}
			out := string(content)

			// messages are ordered from most to least verbose
			for i, msg := range all {
				want := i >= len(all)-tt.shown
				if got := strings.Contains(out, msg); got != want {
					t.Errorf("level %s: %q logged = %v, want %v", tt.level, msg, got, want)
				}
			}
			if !strings.Contains(out, "codec") {
				t.Error("logger name missing from output")
			}
		})
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("logs/bmeshtool.log")

	if cfg.Path != "logs/bmeshtool.log" {
		t.Errorf("unexpected path %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 50 || cfg.MaxBackups != 3 || cfg.MaxAgeDays != 7 {
		t.Errorf("unexpected rotation settings %+v", cfg)
	}
	if !cfg.Compress {
		t.Error("rotated logs should be compressed")
	}
}

func TestL_BeforeInit(t *testing.T) {
	saved := Log
	Log = nil
	defer func() { Log = saved }()

	if L() == nil {
		t.Fatal("L returned nil before Init")
	}
	// must not panic without a configured logger
	Info("dropped")
	Named("codec").Warn("dropped")
}

func TestSetLevel(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "level.log")

	cfg := FileConfig{Path: logFile, MaxSizeMB: 10, MaxBackups: 1, MaxAgeDays: 1}
	if err := InitWithFileConfig("error", cfg, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	Info("before raise")
	SetLevel("debug")
	Named("pipeline").Debug("after raise")
	Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	logContent := string(content)
	if strings.Contains(logContent, "before raise") {
		t.Error("info message logged at error level")
	}
	if !strings.Contains(logContent, "after raise") {
		t.Error("debug message missing after SetLevel")
	}
	if !strings.Contains(logContent, "pipeline") {
		t.Error("logger name missing from output")
	}
}
