package config

import (
	"os"
	"strconv"
	"time"
)

type AppConfig struct {
	Gemini  GeminiConfig
	Judge   JudgeConfig
	Redis   RedisConfig
	Storage StorageConfig
}

type GeminiConfig struct {
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxAttempts int
}

type JudgeConfig struct {
	APIKey  string
	Host    string
	Timeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	ResultsDir  string
	HandoffPath string
	HistoryPath string
}

func LoadAppConfig() *AppConfig {
	return &AppConfig{
		Gemini: GeminiConfig{
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			Model:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			Timeout:     getEnvAsDuration("GEMINI_TIMEOUT", 120*time.Second),
			MaxAttempts: getEnvAsInt("GEMINI_MAX_ATTEMPTS", 1),
		},
		Judge: JudgeConfig{
			APIKey:  getEnv("JUDGE0_API_KEY", ""),
			Host:    getEnv("JUDGE0_HOST", "judge0-ce.p.rapidapi.com"),
			Timeout: getEnvAsDuration("JUDGE0_TIMEOUT", 60*time.Second),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			ResultsDir:  getEnv("RESULTS_DIR", "results"),
			HandoffPath: getEnv("HANDOFF_PATH", "results/handoff.json"),
			HistoryPath: getEnv("HISTORY_PATH", "data/history.db"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
