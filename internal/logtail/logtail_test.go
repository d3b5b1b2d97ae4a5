package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slumber.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func entryLine(level, logger, msg string) string {
	return fmt.Sprintf(`{"level":%q,"ts":"2026-03-10T06:30:00.000Z","logger":%q,"msg":%q}`, level, logger, msg)
}

func TestTail(t *testing.T) {
	var lines []string
	for i := 1; i <= 10; i++ {
		lines = append(lines, entryLine("info", "sleep", fmt.Sprintf("Line %d", i)))
	}
	path := writeLog(t, lines...)

	tests := []struct {
		name       string
		maxEntries int
		first      string
		count      int
	}{
		{"read all (0)", 0, "Line 1", 10},
		{"read all (negative)", -1, "Line 1", 10},
		{"read partial (5)", 5, "Line 6", 5},
		{"read partial (3)", 3, "Line 8", 3},
		{"read exactly all (10)", 10, "Line 1", 10},
		{"read more than exists (20)", 20, "Line 1", 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tail(path, tt.maxEntries, Filter{})
			require.NoError(t, err)
			require.Len(t, got, tt.count)
			assert.Equal(t, tt.first, got[0].Message)
			assert.Equal(t, "Line 10", got[len(got)-1].Message)
		})
	}
}

func TestTail_MissingFile(t *testing.T) {
	got, err := Tail(filepath.Join(t.TempDir(), "nope.log"), 10, Filter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTail_FiltersBeforeCounting(t *testing.T) {
	path := writeLog(t,
		entryLine("warn", "theme", "persisting theme failed"),
		entryLine("debug", "sleep", "daily summary fetched"),
		"not json at all",
		entryLine("info", "capability", "health data not ready"),
		entryLine("error", "sleep", "boom"),
		`{"level":"info","no":"msg"}`,
	)

	got, err := Tail(path, 2, Filter{MinLevel: zapcore.WarnLevel})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "persisting theme failed", got[0].Message)
	assert.Equal(t, "boom", got[1].Message)

	got, err = Tail(path, 0, Filter{MinLevel: zapcore.DebugLevel, Logger: "sleep"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, zapcore.DebugLevel, got[0].Level)
}

func TestParse_RoundTripsZapOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zap.log")
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{path}
	logger, err := cfg.Build()
	require.NoError(t, err)

	logger.Named("theme").Warn("persisting theme failed",
		zap.String("theme", "dark"), zap.Error(fmt.Errorf("read-only fs")))
	require.NoError(t, logger.Sync())

	got, err := Tail(path, 1, Filter{})
	require.NoError(t, err)
	require.Len(t, got, 1)

	e := got[0]
	assert.Equal(t, zapcore.WarnLevel, e.Level)
	assert.Equal(t, "theme", e.Logger)
	assert.Equal(t, "read-only fs", e.Error)
	assert.Equal(t, map[string]any{"theme": "dark"}, e.Fields)
	assert.False(t, e.Time.IsZero())

	line := Format(e)
	assert.Contains(t, line, "WARN  theme: persisting theme failed theme=dark")
	assert.True(t, strings.HasSuffix(line, `error="read-only fs"`), line)
}
