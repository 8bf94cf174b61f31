package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// RoutingMode selects the top-level dispatch strategy bound at startup.
type RoutingMode string

const (
	// RoutingGraph runs the staged extraction/selection/execution pipeline.
	RoutingGraph RoutingMode = "graph"
	// RoutingDirect runs the single-pass classify-and-dispatch agent.
	RoutingDirect RoutingMode = "direct"
)

// Config holds all configuration for the tutor orchestrator.
type Config struct {
	Port      int
	Version   string
	Routing   RoutingMode
	Database  DatabaseConfig
	Models    ModelsConfig
	Telemetry TelemetryConfig
}

type DatabaseConfig struct {
	Path string
}

// ModelsConfig configures the two remote chat-completion paths: the academic
// single-model endpoint and the coding fallback list. The fallback list is
// fixed at process start and never mutated per request.
type ModelsConfig struct {
	// Academic (single model, non-retrying) path.
	AcademicAPIKey   string
	AcademicEndpoint string
	AcademicModel    string

	// Coding (ordered fallback list) path.
	CodingAPIKey   string
	CodingEndpoint string
	FallbackModels []string

	RequestTimeout     time.Duration
	MaxRetriesPerModel int
}

type TelemetryConfig struct {
	Enabled        bool
	OTLPEndpoint   string
	ServiceName    string
	ServiceVersion string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	version := envStr("TUTOR_VERSION", "1.0.0")
	return &Config{
		Port:    envInt("TUTOR_PORT", 8000),
		Version: version,
		Routing: RoutingMode(envStr("TUTOR_ROUTING_MODE", string(RoutingGraph))),
		Database: DatabaseConfig{
			Path: envStr("TUTOR_DB_PATH", "data/tutor.db"),
		},
		Models: ModelsConfig{
			AcademicAPIKey:   envStr("GROQ_API_KEY", ""),
			AcademicEndpoint: envStr("GROQ_ENDPOINT", "https://api.groq.com/openai/v1"),
			AcademicModel:    envStr("GROQ_MODEL", "llama-3.3-70b-versatile"),
			CodingAPIKey:     envStr("OPENROUTER_API_KEY", ""),
			CodingEndpoint:   envStr("OPENROUTER_ENDPOINT", "https://openrouter.ai/api/v1"),
			FallbackModels: envList("OPENROUTER_MODELS", []string{
				"agentica-org/deepcoder-14b-preview:free",
				"deepseek/deepseek-chat-v3-0324:free",
				"qwen/qwen-2.5-coder-32b-instruct:free",
			}),
			RequestTimeout:     envDur("MODEL_REQUEST_TIMEOUT", 60*time.Second),
			MaxRetriesPerModel: envInt("MODEL_MAX_RETRIES", 2),
		},
		Telemetry: TelemetryConfig{
			Enabled:        envBool("OTEL_ENABLED", false),
			OTLPEndpoint:   envStr("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName:    envStr("OTEL_SERVICE_NAME", "tutor-orchestrator"),
			ServiceVersion: version,
		},
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDur(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
