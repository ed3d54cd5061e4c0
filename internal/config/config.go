package config

import (
	"log"
	"strings"

	"olgish-cakes/internal/schema"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Schema    SchemaConfig
}

type ServerConfig struct {
	Port    string
	Env     string
	BaseURL string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type RateLimitConfig struct {
	Requests      int
	WindowSeconds int
}

// SchemaConfig holds the structured-data constants that can be tuned
// without a release. Zero values leave the built-in default in place.
type SchemaConfig struct {
	SKUPrefix         string
	PriceValidityDays int
	Currency          string
	FallbackPrice     float64
	FallbackImageURL  string
	MinReviewCount    int
	CacheTTLSeconds   int
}

// Load reads .env from the working directory, if present, then the environment
func Load() *Config {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance
func FromViper(v *viper.Viper) *Config {
	v.AutomaticEnv()
	setDefaults(v)

	return &Config{
		Server: ServerConfig{
			Port:    v.GetString("SERVER_PORT"),
			Env:     v.GetString("SERVER_ENV"),
			BaseURL: strings.TrimRight(v.GetString("SERVER_BASE_URL"), "/"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Database: v.GetString("DB_DATABASE"),
			Schema:   v.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		RateLimit: RateLimitConfig{
			Requests:      v.GetInt("RATE_LIMIT_REQUESTS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Schema: SchemaConfig{
			SKUPrefix:         v.GetString("SCHEMA_SKU_PREFIX"),
			PriceValidityDays: v.GetInt("SCHEMA_PRICE_VALIDITY_DAYS"),
			Currency:          v.GetString("SCHEMA_CURRENCY"),
			FallbackPrice:     v.GetFloat64("SCHEMA_FALLBACK_PRICE"),
			FallbackImageURL:  v.GetString("SCHEMA_FALLBACK_IMAGE_URL"),
			MinReviewCount:    v.GetInt("SCHEMA_MIN_REVIEW_COUNT"),
			CacheTTLSeconds:   v.GetInt("SCHEMA_CACHE_TTL_SECONDS"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	defaults := schema.DefaultSettings()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("SERVER_BASE_URL", defaults.BaseURL)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_REQUESTS", 120)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("SCHEMA_SKU_PREFIX", defaults.SKUPrefix)
	v.SetDefault("SCHEMA_PRICE_VALIDITY_DAYS", defaults.PriceValidityDays)
	v.SetDefault("SCHEMA_CURRENCY", defaults.Currency)
	v.SetDefault("SCHEMA_FALLBACK_PRICE", defaults.FallbackPrice)
	v.SetDefault("SCHEMA_FALLBACK_IMAGE_URL", defaults.FallbackImageURL)
	v.SetDefault("SCHEMA_MIN_REVIEW_COUNT", defaults.MinReviewCount)
	v.SetDefault("SCHEMA_CACHE_TTL_SECONDS", 3600)
}

// Settings overlays the configured schema constants and the site URL onto
// the built-in defaults.
func (c *Config) Settings() schema.Settings {
	s := c.Schema.Apply(schema.DefaultSettings())
	if c.Server.BaseURL != "" {
		s.BaseURL = c.Server.BaseURL
	}
	return s
}

// Apply returns s with every non-zero configured value replacing its default
func (sc SchemaConfig) Apply(s schema.Settings) schema.Settings {
	if sc.SKUPrefix != "" {
		s.SKUPrefix = strings.ToUpper(sc.SKUPrefix)
	}
	if sc.PriceValidityDays > 0 {
		s.PriceValidityDays = sc.PriceValidityDays
	}
	if sc.Currency != "" {
		s.Currency = strings.ToUpper(sc.Currency)
	}
	if sc.FallbackPrice > 0 {
		s.FallbackPrice = sc.FallbackPrice
	}
	if sc.FallbackImageURL != "" {
		s.FallbackImageURL = sc.FallbackImageURL
	}
	if sc.MinReviewCount > 0 {
		s.MinReviewCount = sc.MinReviewCount
	}
	return s
}
