package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFunc(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL":   "postgres://localhost/brackets?sslmode=disable",
		"JWT_SECRET_KEY": "secret",
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envFunc(baseEnv()))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 10*time.Minute, cfg.GraphCacheTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 6, cfg.ExportRatePerMinute)
	assert.Empty(t, cfg.RedisURL)
	assert.False(t, cfg.ExportsEnabled())
}

func TestFromEnv_Overrides(t *testing.T) {
	env := baseEnv()
	env["SERVER_PORT"] = "9090"
	env["REDIS_URL"] = "redis://localhost:6379/0"
	env["GRAPH_CACHE_TTL"] = "90s"
	env["CORS_ALLOWED_ORIGINS"] = "https://a.example, https://b.example ,"
	env["EXPORT_RATE_PER_MINUTE"] = "12"
	env["R2_ACCOUNT_ID"] = "acc"
	env["R2_ACCESS_KEY_ID"] = "key"
	env["R2_SECRET_ACCESS_KEY"] = "secret"
	env["R2_BUCKET_NAME"] = "brackets"
	env["R2_PUBLIC_BASE_URL"] = "https://cdn.example"

	cfg, err := FromEnv(envFunc(env))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 90*time.Second, cfg.GraphCacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 12, cfg.ExportRatePerMinute)
	assert.True(t, cfg.ExportsEnabled())
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"missing database url", "DATABASE_URL", ""},
		{"missing jwt secret", "JWT_SECRET_KEY", ""},
		{"port not a number", "SERVER_PORT", "http"},
		{"port out of range", "SERVER_PORT", "70000"},
		{"bad ttl", "GRAPH_CACHE_TTL", "ten minutes"},
		{"negative ttl", "GRAPH_CACHE_TTL", "-1m"},
		{"bad rate", "EXPORT_RATE_PER_MINUTE", "many"},
		{"zero rate", "EXPORT_RATE_PER_MINUTE", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := baseEnv()
			env[tt.key] = tt.value
			cfg, err := FromEnv(envFunc(env))
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}
