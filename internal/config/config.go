package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Cards        int           `yaml:"cards" env:"GUGUDAN_CARDS" validate:"min=1,max=64"`
	StartLevel   int           `yaml:"start_level" env:"GUGUDAN_LEVEL" validate:"min=1,max=99"`
	RevealDelay  time.Duration `yaml:"reveal_delay" env:"GUGUDAN_REVEAL_DELAY" validate:"gte=0s,lte=5s"`
	TickInterval time.Duration `yaml:"tick_interval" env:"GUGUDAN_TICK_INTERVAL" validate:"gte=20ms,lte=1s"`

	LogLevel  string `yaml:"log_level" env:"GUGUDAN_LOG_LEVEL" validate:"oneof=trace debug info warn error"`
	LogFormat string `yaml:"log_format" env:"GUGUDAN_LOG_FORMAT" validate:"oneof=json pretty"`
	// LogFile receives all logs; "-" discards them.
	LogFile string `yaml:"log_file" env:"GUGUDAN_LOG_FILE" validate:"required"`

	// DBPath is the event log DSN. ":memory:" keeps nothing after exit.
	DBPath string `yaml:"db" env:"GUGUDAN_DB" validate:"required"`

	// RecordCommand captures one answer from the microphone as WAV on
	// stdout. "{seconds}" is replaced with RecordSeconds.
	RecordCommand string        `yaml:"record_command" env:"GUGUDAN_RECORD_COMMAND" validate:"required"`
	RecordSeconds time.Duration `yaml:"record_seconds" env:"GUGUDAN_RECORD_SECONDS" validate:"gte=1s,lte=10s"`
	Language      string        `yaml:"language" env:"GUGUDAN_LANGUAGE" validate:"omitempty,alpha,len=2"`

	// NormalizeNumbers asks the LLM provider to rewrite number words as
	// digits before answers are graded.
	NormalizeNumbers bool `yaml:"normalize_numbers" env:"GUGUDAN_NORMALIZE_NUMBERS"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Cards:         16,
		StartLevel:    1,
		RevealDelay:   250 * time.Millisecond,
		TickInterval:  200 * time.Millisecond,
		LogLevel:      "info",
		LogFormat:     "json",
		LogFile:       defaultLogFile(),
		DBPath:        ":memory:",
		RecordCommand: "arecord -q -f S16_LE -r 16000 -c 1 -t wav -d {seconds} -",
		RecordSeconds: 3 * time.Second,
		Language:      "ko",
	}
}

// Load reads configuration from an optional YAML file and environment
// variables, in that order, over the defaults. It loads .env if present
// but does not fail if missing. The result is validated.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	cfg := Default()

	path := getEnv("GUGUDAN_CONFIG", defaultConfigFile())
	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}
	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFile overlays the YAML file at path. A missing file is not an error.
func (c *Config) mergeFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() error {
	var err error
	c.Cards, err = getEnvInt("GUGUDAN_CARDS", c.Cards)
	if err != nil {
		return err
	}
	c.StartLevel, err = getEnvInt("GUGUDAN_LEVEL", c.StartLevel)
	if err != nil {
		return err
	}
	c.RevealDelay, err = getEnvDuration("GUGUDAN_REVEAL_DELAY", c.RevealDelay)
	if err != nil {
		return err
	}
	c.TickInterval, err = getEnvDuration("GUGUDAN_TICK_INTERVAL", c.TickInterval)
	if err != nil {
		return err
	}
	c.RecordSeconds, err = getEnvDuration("GUGUDAN_RECORD_SECONDS", c.RecordSeconds)
	if err != nil {
		return err
	}
	c.NormalizeNumbers, err = getEnvBool("GUGUDAN_NORMALIZE_NUMBERS", c.NormalizeNumbers)
	if err != nil {
		return err
	}

	c.LogLevel = getEnv("GUGUDAN_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("GUGUDAN_LOG_FORMAT", c.LogFormat)
	c.LogFile = getEnv("GUGUDAN_LOG_FILE", c.LogFile)
	c.DBPath = getEnv("GUGUDAN_DB", c.DBPath)
	c.RecordCommand = getEnv("GUGUDAN_RECORD_COMMAND", c.RecordCommand)
	c.Language = getEnv("GUGUDAN_LANGUAGE", c.Language)
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

// defaultLogFile resolves the log path:
// 1. $XDG_STATE_HOME/gugudan/gugudan.log
// 2. ~/.local/state/gugudan/gugudan.log
// 3. "-" (discard) when no home directory is known
func defaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "-"
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "gugudan", "gugudan.log")
}

func defaultConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "gugudan", "config.yaml")
}
