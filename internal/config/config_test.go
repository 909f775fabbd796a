package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every lookup at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("GUGUDAN_CONFIG", filepath.Join(dir, "none.yaml"))
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Cards)
	assert.Equal(t, 1, cfg.StartLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.RevealDelay)
	assert.Equal(t, 200*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, "ko", cfg.Language)
	assert.False(t, cfg.NormalizeNumbers)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("GUGUDAN_CARDS", "8")
	t.Setenv("GUGUDAN_LEVEL", "4")
	t.Setenv("GUGUDAN_REVEAL_DELAY", "400ms")
	t.Setenv("GUGUDAN_NORMALIZE_NUMBERS", "true")
	t.Setenv("GUGUDAN_LANGUAGE", "en")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Cards)
	assert.Equal(t, 4, cfg.StartLevel)
	assert.Equal(t, 400*time.Millisecond, cfg.RevealDelay)
	assert.True(t, cfg.NormalizeNumbers)
	assert.Equal(t, "en", cfg.Language)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GUGUDAN_CARDS=12\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("GUGUDAN_CARDS") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Cards)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cards: 20\nreveal_delay: 500ms\nlanguage: en\n"), 0o644))
	t.Setenv("GUGUDAN_CONFIG", path)
	t.Setenv("GUGUDAN_LANGUAGE", "ja")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Cards)
	assert.Equal(t, 500*time.Millisecond, cfg.RevealDelay)
	assert.Equal(t, "ja", cfg.Language, "env wins over file")
}

func TestLoad_BadValues(t *testing.T) {
	tests := []struct {
		name, key, value, want string
	}{
		{"not a number", "GUGUDAN_CARDS", "many", "GUGUDAN_CARDS"},
		{"too many cards", "GUGUDAN_CARDS", "65", "GUGUDAN_CARDS"},
		{"level zero", "GUGUDAN_LEVEL", "0", "GUGUDAN_LEVEL"},
		{"bad duration", "GUGUDAN_TICK_INTERVAL", "soon", "GUGUDAN_TICK_INTERVAL"},
		{"tick too slow", "GUGUDAN_TICK_INTERVAL", "5s", "GUGUDAN_TICK_INTERVAL"},
		{"bad log level", "GUGUDAN_LOG_LEVEL", "loud", "GUGUDAN_LOG_LEVEL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
