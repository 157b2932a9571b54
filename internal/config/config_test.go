package config

import (
	"os"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "", cfg.DBURL)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "assessment-completed", cfg.EventsTopic)
	assert.Equal(t, 1, cfg.LikertMin)
	assert.Equal(t, 5, cfg.LikertMax)
	assert.Equal(t, 5, cfg.DefaultRecLimit)
	assert.Equal(t, 10*time.Minute, cfg.RecCacheTTL)
	assert.True(t, cfg.UsesBundledCatalog())
}

func Test_Load_And_AdminEnabled(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "secret")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load err: %v", err)
	}
	if !cfg.AdminEnabled() {
		t.Fatalf("expected AdminEnabled true")
	}
	if len(cfg.KafkaBrokers) != 2 {
		t.Fatalf("brokers not parsed: %+v", cfg.KafkaBrokers)
	}
	if !cfg.IsDev() {
		t.Fatalf("expected IsDev true")
	}
	if cfg.IsProd() {
		t.Fatalf("expected IsProd false")
	}

	require.NoError(t, os.Unsetenv("ADMIN_PASSWORD"))
	cfg, err = Load()
	if err != nil {
		t.Fatalf("reload err: %v", err)
	}
	if cfg.AdminEnabled() {
		t.Fatalf("expected AdminEnabled false")
	}
}

func Test_Load_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"PORT": "http"}},
		{"bad duration", map[string]string{"REC_CACHE_TTL": "soon"}},
		{"inverted likert", map[string]string{"LIKERT_MIN": "5", "LIKERT_MAX": "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "op=config.Load")
		})
	}
}

func Test_Load_NonPositiveRecLimit(t *testing.T) {
	t.Setenv("DEFAULT_REC_LIMIT", "0")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.DefaultRecLimit)
}

func TestRetryConfig_BackOff(t *testing.T) {
	rc := RetryConfig{MaxRetries: 2, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, Multiplier: 2}
	b := rc.BackOff()
	b.Reset()
	assert.NotEqual(t, backoff.Stop, b.NextBackOff())
	assert.NotEqual(t, backoff.Stop, b.NextBackOff())
	assert.Equal(t, backoff.Stop, b.NextBackOff())
}

func TestGetRetryConfig_TestEnv(t *testing.T) {
	cfg := Config{AppEnv: "test", RetryMaxRetries: 9}
	assert.Equal(t, 1, cfg.GetRetryConfig().MaxRetries)
	cfg.AppEnv = "prod"
	assert.Equal(t, 9, cfg.GetRetryConfig().MaxRetries)
}
