package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	defaultHTTPAddr      = ":8080"
	defaultStateFile     = "schedules.json"
	defaultStepMinutes   = "15"
	defaultBufferBefore  = "15"
	defaultBufferAfter   = "15"
	defaultMaxIterations = "50"
)

type Config struct {
	HTTPAddr  string
	StateFile string

	// DatabaseURL switches persistence to the SQL repository when set;
	// empty means the JSON file store.
	DatabaseURL string

	StepMinutes     int
	BufferBeforeMin int
	BufferAfterMin  int
	MaxIterations   int
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:    strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr)),
		StateFile:   strings.TrimSpace(getEnv("STATE_FILE", defaultStateFile)),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
	}

	var err error
	cfg.StepMinutes, err = parseIntEnv("STEP_MINUTES", defaultStepMinutes)
	if err != nil {
		return nil, err
	}
	cfg.BufferBeforeMin, err = parseIntEnv("ARRIVAL_BUFFER_BEFORE_MIN", defaultBufferBefore)
	if err != nil {
		return nil, err
	}
	cfg.BufferAfterMin, err = parseIntEnv("ARRIVAL_BUFFER_AFTER_MIN", defaultBufferAfter)
	if err != nil {
		return nil, err
	}
	cfg.MaxIterations, err = parseIntEnv("AUTOFILL_MAX_ITERATIONS", defaultMaxIterations)
	if err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.StateFile == "" && cfg.DatabaseURL == "" {
		return fmt.Errorf("either STATE_FILE or DATABASE_URL must be set")
	}
	if cfg.StepMinutes <= 0 {
		return fmt.Errorf("STEP_MINUTES must be > 0")
	}
	if cfg.BufferBeforeMin < 0 || cfg.BufferAfterMin < 0 {
		return fmt.Errorf("arrival buffers must be >= 0")
	}
	if cfg.MaxIterations <= 0 {
		return fmt.Errorf("AUTOFILL_MAX_ITERATIONS must be > 0")
	}
	return nil
}

func parseIntEnv(name, fallback string) (int, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return v, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
