package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SWEEP_INTERVAL", "")
	t.Setenv("REVIEW_WINDOW", "")
	t.Setenv("DB_DRIVER", "")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 10*time.Minute, cfg.SweepInterval)
	assert.Equal(t, 7*24*time.Hour, cfg.ReviewWindow)
	assert.Equal(t, "AES-256-GCM", cfg.CipherAlgorithm)
	assert.Equal(t, 10, cfg.BodyLimitMB)
	assert.Equal(t, "payout-intents", cfg.PayoutStream)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SWEEP_INTERVAL", "30s")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("BODY_LIMIT_MB", "2")
	t.Setenv("CIPHER_ALGORITHM", "XChaCha20-Poly1305")

	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.SweepInterval)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 2, cfg.BodyLimitMB)
	assert.Equal(t, "XChaCha20-Poly1305", cfg.CipherAlgorithm)
}

func TestInvalidValuesFallBack(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("-5s", time.Minute))
	assert.Equal(t, 10, parseInt("ten", 10))
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5432", DBSSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", cfg.DSN())
}
