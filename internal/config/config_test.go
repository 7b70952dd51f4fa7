package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("REDIS_DB", "")
	t.Setenv("PAGE_CACHE_TTL", "")
	t.Setenv("MAILGUN_DOMAIN", "")

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "product-images", cfg.StorageBucket)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 10*time.Minute, cfg.PageCacheTTL)
	assert.False(t, cfg.MailEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("PAGE_CACHE_TTL", "30")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("MAILGUN_DOMAIN", "mg.example.com")
	t.Setenv("MAILGUN_API_KEY", "key")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "secret", cfg.RedisPass)
	assert.Equal(t, 30*time.Second, cfg.PageCacheTTL)
	assert.True(t, cfg.CookieSecure)
	assert.True(t, cfg.MailEnabled())
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	assert.Equal(t, 0, Load().RedisDB)
}
