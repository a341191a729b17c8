package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	BackendLocal    = "local"
	BackendTemporal = "temporal"
)

const (
	defaultHTTPPort          = "8080"
	defaultBackend           = BackendLocal
	defaultCompletionDelayMS = 2000
	defaultMaxSessions       = 1000
	defaultTemporalAddress   = "localhost:7233"
	defaultTemporalNS        = "default"
	defaultTaskQueue         = "resume-intake-task-queue"
)

type Config struct {
	HTTPPort          string
	IntakeBackend     string
	CompletionDelay   time.Duration
	MaxSessions       int
	TemporalAddress   string
	TemporalNamespace string
	TemporalTaskQueue string
	WorkflowIDPrefix  string
	LogJSON           bool
	LogDebug          bool
}

func Load() (Config, error) {
	cfg := Config{
		HTTPPort:          getenv("HTTP_PORT", defaultHTTPPort),
		IntakeBackend:     getenv("INTAKE_BACKEND", defaultBackend),
		CompletionDelay:   time.Duration(getenvInt("COMPLETION_DELAY_MS", defaultCompletionDelayMS)) * time.Millisecond,
		MaxSessions:       getenvInt("MAX_SESSIONS", defaultMaxSessions),
		TemporalAddress:   getenv("TEMPORAL_ADDRESS", defaultTemporalAddress),
		TemporalNamespace: getenv("TEMPORAL_NAMESPACE", defaultTemporalNS),
		TemporalTaskQueue: getenv("TEMPORAL_TASK_QUEUE", defaultTaskQueue),
		WorkflowIDPrefix:  getenv("WORKFLOW_ID_PREFIX", "resume-intake"),
		LogJSON:           getenvBool("LOG_JSON", false),
		LogDebug:          getenvBool("LOG_DEBUG", false),
	}

	switch cfg.IntakeBackend {
	case BackendLocal, BackendTemporal:
	default:
		return Config{}, fmt.Errorf("INTAKE_BACKEND must be %q or %q, got %q", BackendLocal, BackendTemporal, cfg.IntakeBackend)
	}
	if cfg.CompletionDelay < 0 {
		return Config{}, fmt.Errorf("COMPLETION_DELAY_MS must not be negative")
	}
	if cfg.MaxSessions <= 0 {
		return Config{}, fmt.Errorf("MAX_SESSIONS must be positive")
	}

	return cfg, nil
}

func getenv(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
