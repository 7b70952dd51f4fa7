package config

import (
	"os"
	"time"

	"github.com/spf13/cast"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Port    string
	AppName string
	SiteURL string

	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseServiceKey string
	SupabaseJWTSecret  string
	StorageBucket      string

	RedisAddr    string
	RedisPass    string
	RedisDB      int
	PageCacheTTL time.Duration

	MailgunDomain string
	MailgunAPIKey string
	MailFrom      string

	LogMode      string
	LogFile      string
	CookieSecure bool
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		Port:    getEnv("PORT", "3000"),
		AppName: getEnv("APP_NAME", "Eau Clair"),
		SiteURL: getEnv("SITE_URL", "http://localhost:3000"),

		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:    os.Getenv("SUPABASE_ANON_KEY"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_KEY"),
		SupabaseJWTSecret:  os.Getenv("SUPABASE_JWT_SECRET"),
		StorageBucket:      getEnv("STORAGE_BUCKET", "product-images"),

		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		PageCacheTTL: time.Duration(getEnvInt("PAGE_CACHE_TTL", 600)) * time.Second,

		MailgunDomain: os.Getenv("MAILGUN_DOMAIN"),
		MailgunAPIKey: os.Getenv("MAILGUN_API_KEY"),
		MailFrom:      getEnv("MAIL_FROM", "Eau Clair <onboarding@eauclair.test>"),

		LogMode:      getEnv("LOG_MODE", "development"),
		LogFile:      os.Getenv("LOG_FILE"),
		CookieSecure: cast.ToBool(os.Getenv("COOKIE_SECURE")),
	}
}

// MailEnabled reports whether Mailgun credentials are present.
func (c *Config) MailEnabled() bool {
	return c.MailgunDomain != "" && c.MailgunAPIKey != ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := cast.ToIntE(v); err == nil {
			return parsed
		}
	}
	return def
}
