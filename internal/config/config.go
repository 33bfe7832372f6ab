package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	LLMProvider        string
	LLMBaseURL         string
	LLMModelName       string
	LLMAPIKey          string
	GeminiAPIKey       string
	EmbeddingProvider  string
	EmbeddingBaseURL   string
	EmbeddingModelName string
	AnalyzerURL        string
	DBPath             string
	VectorStore        string
	QdrantURL          string
	QdrantCollection   string
	QdrantVectorSize   int
	ChromemPath        string
	RulesPath          string
	APIPort            string
	LogLevel           slog.Level
	LogFormat          string

	CollaboratorTimeout  time.Duration
	NormalizerCacheSize  int
	SearchLimit          int
	SearchScoreThreshold float32
	ConfidenceThreshold  float32
	NavSessionTTL        time.Duration
	NavSessionMax        int
	EmbedBatchSize       int
	MaxUploadBytes       int64
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or a parent directory, it is loaded.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		LLMProvider:        strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
		LLMBaseURL:         getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModelName:       getEnv("LLM_MODEL", "gemini-1.5-flash"),
		LLMAPIKey:          getEnv("LLM_API_KEY", "dummy-key"),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		EmbeddingProvider:  strings.ToLower(getEnv("EMBEDDING_PROVIDER", "openai")),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "ko-sroberta-multitask"),
		AnalyzerURL:        getEnv("ANALYZER_URL", ""),
		DBPath:             getEnv("DB_PATH", "./data/dollkongbot.db"),
		VectorStore:        strings.ToLower(getEnv("VECTOR_STORE", "qdrant")),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "faq_chunks"),
		ChromemPath:        getEnv("CHROMEM_PATH", "./data/chromem"),
		RulesPath:          getEnv("RULES_PATH", "./config/rules.yaml"),
		APIPort:            getEnv("API_PORT", "5000"),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	// QDRANT_VECTOR_SIZE must match the embedding model output; the collection
	// has to be recreated when it changes.
	vectorSizeStr := getEnv("QDRANT_VECTOR_SIZE", "")
	if vectorSizeStr == "" {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE is required")
	}
	vectorSize, err := strconv.Atoi(vectorSizeStr)
	if err != nil {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be a valid integer: %w", err)
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
	}
	cfg.QdrantVectorSize = vectorSize

	if cfg.CollaboratorTimeout, err = getDuration("COLLABORATOR_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.NavSessionTTL, err = getDuration("NAV_SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.NormalizerCacheSize, err = getPositiveInt("NORMALIZER_CACHE_SIZE", 2048); err != nil {
		return nil, err
	}
	if cfg.SearchLimit, err = getPositiveInt("SEARCH_LIMIT", 5); err != nil {
		return nil, err
	}
	if cfg.NavSessionMax, err = getPositiveInt("NAV_SESSION_MAX", 10000); err != nil {
		return nil, err
	}
	if cfg.EmbedBatchSize, err = getPositiveInt("EMBED_BATCH_SIZE", 32); err != nil {
		return nil, err
	}
	maxUpload, err := getPositiveInt("MAX_UPLOAD_BYTES", 10<<20)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(maxUpload)
	if cfg.SearchScoreThreshold, err = getUnitFloat("SEARCH_SCORE_THRESHOLD", 0.3); err != nil {
		return nil, err
	}
	if cfg.ConfidenceThreshold, err = getUnitFloat("CONFIDENCE_THRESHOLD", 0.5); err != nil {
		return nil, err
	}

	switch cfg.VectorStore {
	case "qdrant", "chromem":
	default:
		return nil, fmt.Errorf("VECTOR_STORE must be qdrant or chromem, got %q", cfg.VectorStore)
	}
	switch cfg.LLMProvider {
	case "openai", "gemini":
	default:
		return nil, fmt.Errorf("LLM_PROVIDER must be openai or gemini, got %q", cfg.LLMProvider)
	}
	switch cfg.EmbeddingProvider {
	case "openai", "gemini":
	default:
		return nil, fmt.Errorf("EMBEDDING_PROVIDER must be openai or gemini, got %q", cfg.EmbeddingProvider)
	}
	if (cfg.LLMProvider == "gemini" || cfg.EmbeddingProvider == "gemini") && cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required when a gemini provider is selected")
	}

	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return d, nil
}

func getPositiveInt(key string, def int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return n, nil
}

func getUnitFloat(key string, def float32) (float32, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	if f < 0 || f > 1 {
		return 0, fmt.Errorf("%s must be between 0 and 1", key)
	}
	return float32(f), nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", raw)
	}
}
