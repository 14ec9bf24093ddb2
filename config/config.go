package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	// Пустой RedisURL отключает кэш графов.
	RedisURL      string
	GraphCacheTTL time.Duration

	CORSAllowedOrigins []string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string

	ExportRatePerMinute int
}

// ExportsEnabled reports whether every R2 setting is present.
func (c *Config) ExportsEnabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	dbURL := getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080" // Порт по умолчанию
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	ttl := 10 * time.Minute
	if ttlStr := getenv("GRAPH_CACHE_TTL"); ttlStr != "" {
		ttl, err = time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid GRAPH_CACHE_TTL environment variable: %w", err)
		}
		if ttl <= 0 {
			return nil, fmt.Errorf("GRAPH_CACHE_TTL must be positive, got %s", ttl)
		}
	}

	origins := []string{"*"}
	if originsStr := getenv("CORS_ALLOWED_ORIGINS"); originsStr != "" {
		origins = origins[:0]
		for _, o := range strings.Split(originsStr, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	rate := 6
	if rateStr := getenv("EXPORT_RATE_PER_MINUTE"); rateStr != "" {
		rate, err = strconv.Atoi(rateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid EXPORT_RATE_PER_MINUTE environment variable: %w", err)
		}
		if rate <= 0 {
			return nil, fmt.Errorf("EXPORT_RATE_PER_MINUTE must be positive, got %d", rate)
		}
	}

	cfg := &Config{
		DatabaseURL:         dbURL,
		JWTSecretKey:        jwtKey,
		ServerPort:          port,
		RedisURL:            getenv("REDIS_URL"),
		GraphCacheTTL:       ttl,
		CORSAllowedOrigins:  origins,
		R2AccountID:         getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:       getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:   getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:        getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:     getenv("R2_PUBLIC_BASE_URL"),
		ExportRatePerMinute: rate,
	}

	return cfg, nil
}
