package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenAddr     string
	DBPath         string
	RecipeBackend  string
	OllamaHost     string
	OllamaModel    string
	ClaudeAPIKey   string
	ClaudeModel    string
	ImageAPIURL    string
	ImageAPIKey    string
	ImageModel     string
	ImageCacheSize int
	JWTSecret      string
	TokenTTL       time.Duration
	LogLevel       string
	LogFile        string
}

func Load() *Config {
	return &Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		DBPath:         getEnv("DB_PATH", "/data/pantryledger.db"),
		RecipeBackend:  getEnv("RECIPE_BACKEND", "ollama"),
		OllamaHost:     getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:    getEnv("OLLAMA_MODEL", "llama3.1"),
		ClaudeAPIKey:   getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:    getEnv("CLAUDE_MODEL", "claude-sonnet-4-5"),
		ImageAPIURL:    getEnv("IMAGE_API_URL", "https://api.openai.com"),
		ImageAPIKey:    getEnv("IMAGE_API_KEY", ""),
		ImageModel:     getEnv("IMAGE_MODEL", "dall-e-3"),
		ImageCacheSize: getEnvInt("IMAGE_CACHE_SIZE", 256),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		TokenTTL:       getEnvDuration("TOKEN_TTL", 24*time.Hour),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

// getEnvInt falls back to defaultVal when the variable is unset, unparsable
// or not positive.
func getEnvInt(key string, defaultVal int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
