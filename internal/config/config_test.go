package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	require.Equal(t, ":8080", cfg.HTTPAddr)
	require.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	require.Equal(t, "pos-api", cfg.ServiceName)
	require.Equal(t, 8*time.Hour, cfg.TokenTTL)
	require.Equal(t, "kitchenfeed-svc", cfg.FeedGroup)
	require.Equal(t, 4, cfg.FeedWorkers)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092 ,")
	t.Setenv("TOKEN_TTL_MINUTES", "30")
	t.Setenv("FEED_GROUP", "feed-blue")
	t.Setenv("FEED_WORKERS", "8")

	cfg := Load()
	require.Equal(t, ":9999", cfg.HTTPAddr)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	require.Equal(t, 30*time.Minute, cfg.TokenTTL)
	require.Equal(t, "feed-blue", cfg.FeedGroup)
	require.Equal(t, 8, cfg.FeedWorkers)
}

func TestLoadBadIntFallsBack(t *testing.T) {
	t.Setenv("TOKEN_TTL_MINUTES", "soon")
	t.Setenv("FEED_WORKERS", "many")
	cfg := Load()
	require.Equal(t, 8*time.Hour, cfg.TokenTTL)
	require.Equal(t, 4, cfg.FeedWorkers)
}
