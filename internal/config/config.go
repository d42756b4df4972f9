package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Router   RouterConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	LLMProvider   string // "ollama" or "gemini"
	LLMModel      string // e.g. "llama3", "qwen2.5"
	OllamaBaseURL string
	GeminiAPIKey  string
	Timeout       time.Duration
}

// RouterConfig carries the tuning knobs of the decision pipeline. The
// defaults match the values the pipeline was calibrated with.
type RouterConfig struct {
	ScoringConfigPath       string
	HighConfidenceThreshold float64
	MidConfidenceThreshold  float64
	ContradictionMargin     float64
	MinimumConfidence       float64
	ClearWinnerGap          float64
	CriticalScoreFloor      float64
	ClassifierCacheTTL      time.Duration
	AuditTopic              string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:      getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			GeminiAPIKey:  getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Timeout:       getEnvAsDuration("LLM_TIMEOUT", 15*time.Second),
		},
		Router: RouterConfig{
			ScoringConfigPath:       getEnv("SCORING_CONFIG_PATH", "configs/scoring.json"),
			HighConfidenceThreshold: getEnvAsFloat("ROUTER_HIGH_CONFIDENCE_THRESHOLD", 0.8),
			MidConfidenceThreshold:  getEnvAsFloat("ROUTER_MID_CONFIDENCE_THRESHOLD", 0.5),
			ContradictionMargin:     getEnvAsFloat("ROUTER_CONTRADICTION_MARGIN", 0.2),
			MinimumConfidence:       getEnvAsFloat("ROUTER_MINIMUM_CONFIDENCE", 0.1),
			ClearWinnerGap:          getEnvAsFloat("ROUTER_CLEAR_WINNER_GAP", 0.25),
			CriticalScoreFloor:      getEnvAsFloat("ROUTER_CRITICAL_SCORE_FLOOR", 0.05),
			ClassifierCacheTTL:      getEnvAsDuration("ROUTER_CLASSIFIER_CACHE_TTL", 10*time.Minute),
			AuditTopic:              getEnv("ROUTER_AUDIT_TOPIC_NAME", "ROUTER_DECISION_MADE"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
