package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	LogLevel    string
	Environment string
	CORSOrigins string

	YouTubeAPIKey     string
	HuggingFaceAPIKey string

	OllamaURL   string
	OllamaModel string

	EngineURL       string
	EnginePort      string
	EngineCommand   string
	EngineAutostart bool

	TrendingCron string

	// Overrides is parsed from the optional YAML file named by
	// SCORING_CONFIG. Nil when the variable is unset or the file is
	// unreadable.
	Overrides *Overrides
}

// Overrides adjusts relevance weights and trending seed topics without a
// rebuild. All fields are optional; zero values fall back to defaults.
type Overrides struct {
	Weights struct {
		TopicAlignment float64 `yaml:"topicAlignment"`
		Authority      float64 `yaml:"authority"`
		AudienceAppeal float64 `yaml:"audienceAppeal"`
		Uniqueness     float64 `yaml:"uniqueness"`
		Engagement     float64 `yaml:"engagement"`
	} `yaml:"weights"`
	// SeedTopics maps a field tag to the topic names seeded for it.
	SeedTopics map[string][]string `yaml:"seedTopics"`
}

func Load() *Config {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "memory"),
		RedisURL:    getEnv("REDIS_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("ENVIRONMENT", "development"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		YouTubeAPIKey:     getEnv("YOUTUBE_API_KEY", ""),
		HuggingFaceAPIKey: getEnv("HUGGINGFACE_API_KEY", ""),

		OllamaURL:   getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel: getEnv("OLLAMA_MODEL", "llama3.1:8b"),

		EngineURL:       getEnv("AI_ENGINE_URL", "http://localhost:8001"),
		EnginePort:      getEnv("AI_ENGINE_PORT", "8001"),
		EngineCommand:   getEnv("AI_ENGINE_CMD", ""),
		EngineAutostart: getEnvBool("AI_ENGINE_AUTOSTART", false),

		TrendingCron: getEnv("TRENDING_REFRESH_CRON", "0 */6 * * *"),
	}

	if path := os.Getenv("SCORING_CONFIG"); path != "" {
		cfg.Overrides = loadOverrides(path)
	}

	return cfg
}

func loadOverrides(path string) *Overrides {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("config: cannot read %s: %v", path, err)
		return nil
	}
	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		log.Printf("config: cannot parse %s: %v", path, err)
		return nil
	}
	return &o
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
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
