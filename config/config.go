package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	Port       string
	LLM        LLMConfig
	LocalDB    string
	HandleTTL  time.Duration
	SessionTTL time.Duration
	Agent      AgentConfig
	// DefaultODBCDriver is offered to the UI as the prefilled driver name.
	DefaultODBCDriver string
}

type LLMConfig struct {
	APIKey  string // optional fallback when a session supplies none
	BaseURL string
	Model   string
	Timeout time.Duration
}

type AgentConfig struct {
	MaxSteps           int
	RowLimit           int
	MinRequestInterval time.Duration
}

func GetConfig() Config {
	return Config{
		Port: getEnv("PORT", "9090"),
		LLM: LLMConfig{
			APIKey:  getEnv("LLM_API_KEY", ""),
			BaseURL: getEnv("LLM_BASE_URL", "https://api.groq.com/openai/v1"),
			Model:   getEnv("LLM_MODEL", "llama-3.1-8b-instant"),
			Timeout: getDuration("LLM_TIMEOUT", 120*time.Second),
		},
		LocalDB:           getEnv("LOCAL_DB_PATH", DefaultLocalDBPath()),
		HandleTTL:         getDuration("HANDLE_TTL", 2*time.Hour),
		SessionTTL:        getDuration("SESSION_TTL", 12*time.Hour),
		DefaultODBCDriver: getEnv("DEFAULT_ODBC_DRIVER", "ODBC Driver 18 for SQL Server"),
		Agent: AgentConfig{
			MaxSteps:           getInt("AGENT_MAX_STEPS", 8),
			RowLimit:           getInt("QUERY_ROW_LIMIT", 200),
			MinRequestInterval: getDuration("LLM_MIN_REQUEST_INTERVAL", 500*time.Millisecond),
		},
	}
}

// DefaultLocalDBPath returns student.db next to the running executable.
func DefaultLocalDBPath() string {
	exe, err := os.Executable()
	if err != nil {
		return LocalDBFile
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), LocalDBFile)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
