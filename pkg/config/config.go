// Package config loads the env-var configuration surface spec.md §6
// describes ("an env-var LLM_MODEL selects the backend model; no other
// flags affect core semantics"), generalized to the rest of the
// collaborator wiring the server needs at startup.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/clinical/chestpain-copilot/pkg/apierr"
)

// Config holds every environment-derived setting the server needs. Unlike
// the teacher's config package this is never stored in a package-level
// global; callers own the returned value and pass it where needed
// (spec.md §9: no module-level mutable singletons).
type Config struct {
	ServerPort string

	LLMModel      string
	MLServiceURL  string
	LLMTimeoutSec int

	NATSURL      string
	AlertSubject string

	RedisURL string

	SQLitePath string

	RateLimitGlobalMax      int
	RateLimitAssessmentMax  int

	EnableNATS  bool
	EnableRedis bool
	EnableGorm  bool
}

// Load reads configuration from the environment (.env is loaded first,
// ignored if absent).
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using process environment")
	}

	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "3000"),

		LLMModel:      getEnv("LLM_MODEL", "rule-based-fallback"),
		MLServiceURL:  getEnv("ML_SERVICE_URL", "http://127.0.0.1:8000"),
		LLMTimeoutSec: getEnvInt("LLM_TIMEOUT_SECONDS", 10),

		NATSURL:      getEnv("NATS_URL", "nats://127.0.0.1:4222"),
		AlertSubject: getEnv("ALERT_SUBJECT", "medical.alerts"),

		RedisURL: getEnv("REDIS_URL", "127.0.0.1:6379"),

		SQLitePath: getEnv("SQLITE_PATH", "chestpain.db"),

		RateLimitGlobalMax:     getEnvInt("RATE_LIMIT_GLOBAL_MAX", 120),
		RateLimitAssessmentMax: getEnvInt("RATE_LIMIT_ASSESSMENT_MAX", 30),

		EnableNATS:  getEnvBool("ENABLE_NATS", false),
		EnableRedis: getEnvBool("ENABLE_REDIS", false),
		EnableGorm:  getEnvBool("ENABLE_GORM", false),
	}

	log.Printf("config: loaded port=%s llm_model=%s ml_service=%s", cfg.ServerPort, cfg.LLMModel, cfg.MLServiceURL)
	return cfg
}

// Validate returns a FatalConfig error if required collaborator wiring is
// missing, per spec.md §7: "missing required collaborator wiring at
// startup ... surfaced by refusing to start."
func (c *Config) Validate() error {
	if c.ServerPort == "" {
		return &apierr.FatalConfig{Component: "server", Reason: "SERVER_PORT must not be empty"}
	}
	if c.EnableNATS && c.NATSURL == "" {
		return &apierr.FatalConfig{Component: "alerts", Reason: "NATS_URL required when ENABLE_NATS=true"}
	}
	if c.EnableRedis && c.RedisURL == "" {
		return &apierr.FatalConfig{Component: "progress", Reason: "REDIS_URL required when ENABLE_REDIS=true"}
	}
	if c.EnableGorm && c.SQLitePath == "" {
		return &apierr.FatalConfig{Component: "repository", Reason: "SQLITE_PATH required when ENABLE_GORM=true"}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}
