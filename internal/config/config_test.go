package config

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput перехватывает вывод log.Fatal
func captureOutput(f func()) (string, bool) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	oldFlags := log.Flags()
	log.SetFlags(0)
	defer func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(oldFlags)
	}()

	panicked := false
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicked = true
			}
		}()
		f()
	}()

	return buf.String(), panicked
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestMustLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
env: test
api:
  base_url: "http://backend:8000/api"
  timeout: 15s
  rate_limit: 2.5
  burst: 10
storage:
  driver: redis
  redis_connection:
    addressredis: "localhost:6379"
    password: "redis_pass"
    user: "redis_user"
    db: 1
    max_retries: 3
    dial_timeout: 5s
    timeoutredis: 10s
http_server:
  addresshttp: ":8081"
  timeouthttp: 30s
  idle_timeout: 60s
verification:
  initial_interval: 2s
  max_interval: 20s
  max_attempts: 5
`)
	t.Setenv("CONFIG_PATH", path)

	output, panicked := captureOutput(func() {
		cfg := MustLoad()

		assert.Equal(t, "test", cfg.Env)
		assert.Equal(t, "http://backend:8000/api", cfg.BaseURL)
		assert.Equal(t, 15*time.Second, cfg.TimeoutAPI)
		assert.InDelta(t, 2.5, cfg.RateLimit, 0.0001)
		assert.Equal(t, 10, cfg.Burst)
		assert.Equal(t, DriverRedis, cfg.Driver)
		assert.Equal(t, "localhost:6379", cfg.AddressRedis)
		assert.Equal(t, "redis_pass", cfg.Password)
		assert.Equal(t, "redis_user", cfg.User)
		assert.Equal(t, 1, cfg.DB)
		assert.Equal(t, 3, cfg.MaxRetries)
		assert.Equal(t, 5*time.Second, cfg.DialTimeout)
		assert.Equal(t, 10*time.Second, cfg.TimeoutRedis)
		assert.Equal(t, ":8081", cfg.AddressHTTP)
		assert.Equal(t, 30*time.Second, cfg.TimeoutHTTP)
		assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
		assert.Equal(t, 2*time.Second, cfg.InitialInterval)
		assert.Equal(t, 20*time.Second, cfg.MaxInterval)
		assert.Equal(t, uint(5), cfg.MaxAttempts)
	})

	assert.Empty(t, output)
	assert.False(t, panicked)
}

func TestLoad_DefaultValues(t *testing.T) {
	path := writeConfig(t, `
env: test
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8000/api", cfg.BaseURL)
	assert.Equal(t, time.Duration(0), cfg.TimeoutAPI)
	assert.Equal(t, 5, cfg.Burst)
	assert.Equal(t, DriverMemory, cfg.Driver)
	assert.Equal(t, "127.0.0.1:8081", cfg.AddressHTTP)
	assert.Equal(t, 10*time.Second, cfg.TimeoutHTTP)
	assert.Equal(t, time.Second, cfg.InitialInterval)
	assert.Equal(t, 15*time.Second, cfg.MaxInterval)
	assert.Equal(t, uint(5), cfg.MaxAttempts)
}

func TestLoad_InvalidStorage(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "unknown driver",
			content: "storage:\n  driver: sqlite\n",
		},
		{
			name:    "redis without address",
			content: "storage:\n  driver: redis\n",
		},
		{
			name:    "postgres without dsn",
			content: "storage:\n  driver: postgres\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_FileDoesNotExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "env: test\n")
	t.Setenv("YOKED_API_URL", "http://override:9000/api")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://override:9000/api", cfg.BaseURL)
}

func TestConfig_String(t *testing.T) {
	cfg := &Config{Env: "prod"}
	cfg.BaseURL = "http://backend/api"
	cfg.Driver = DriverMemory

	out := cfg.String()
	assert.Contains(t, out, "Env: prod")
	assert.Contains(t, out, "BaseURL: http://backend/api")
	assert.Contains(t, out, "Driver: memory")
}
