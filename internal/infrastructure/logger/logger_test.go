package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)
	assert.NotEmpty(t, cfg.TimeFormat)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"default", DefaultConfig()},
		{"json to stderr", &Config{Level: "info", Format: "json", Output: "stderr", TimeFormat: "2006-01-02T15:04:05Z07:00"}},
		{"debug console", &Config{Level: "debug", Format: "console", Output: "stdout", TimeFormat: "2006-01-02T15:04:05Z07:00"}},
		{"garbage level still builds", &Config{Level: "loud", Format: "json", Output: "stdout", TimeFormat: "2006-01-02T15:04:05Z07:00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, log)
		})
	}
}

func TestZapLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{" error ", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"loud", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		cfg := &Config{Level: tt.level}
		assert.Equal(t, tt.want, cfg.zapLevel(), "level %q", tt.level)
	}
}

func TestSink_StandardStreams(t *testing.T) {
	for _, output := range []string{"stdout", "STDOUT", "stderr", ""} {
		cfg := &Config{Output: output}
		assert.NotNil(t, cfg.sink(), "output %q", output)
	}
}

func TestSink_FileFallsBackWhenUnwritable(t *testing.T) {
	cfg := &Config{Output: filepath.Join(t.TempDir(), "missing", "deep", "app.log")}
	assert.NotNil(t, cfg.sink())
}

func TestNew_JSONOutputToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := New(&Config{
		Level:      "info",
		Format:     "json",
		Output:     path,
		TimeFormat: "2006-01-02T15:04:05Z07:00",
	})
	require.NoError(t, err)

	log.Info("stats recomputed", zap.String("window", "current_month"))
	require.NoError(t, Sync(log))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(raw, &entry))
	assert.Equal(t, "stats recomputed", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "current_month", entry["window"])
	assert.NotEmpty(t, entry["ts"])
	assert.NotEmpty(t, entry["caller"])
}

func TestNew_LevelFiltersOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := New(&Config{
		Level:      "warn",
		Format:     "json",
		Output:     path,
		TimeFormat: "2006-01-02T15:04:05Z07:00",
	})
	require.NoError(t, err)

	log.Info("suppressed")
	log.Warn("kept")
	require.NoError(t, Sync(log))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "suppressed")
	assert.Contains(t, string(raw), "kept")
}
