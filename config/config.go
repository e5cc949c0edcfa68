package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the planner service
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Planner   PlannerConfig   `mapstructure:"planner"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Geo       GeoConfig       `mapstructure:"geo"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LLMConfig contains the reasoning-service provider settings
type LLMConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	CompletionModel string        `mapstructure:"completion_model"`
	Temperature     float64       `mapstructure:"temperature"`
	MaxTokens       int           `mapstructure:"max_tokens"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// PlannerConfig controls the planning orchestration core
type PlannerConfig struct {
	Agentic         bool   `mapstructure:"agentic"`          // delegate step decisions to the reasoner
	DefaultLocation string `mapstructure:"default_location"` // fallback city when the request carries no hint
	CardLimit       int    `mapstructure:"card_limit"`       // 0 = no limit
}

// CatalogConfig contains candidate-source settings
type CatalogConfig struct {
	Eventbrite EventbriteConfig `mapstructure:"eventbrite"`
	MaxResults int              `mapstructure:"max_results"`
	CacheTTL   time.Duration    `mapstructure:"cache_ttl"`
}

// EventbriteConfig contains Eventbrite API settings
type EventbriteConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	Endpoint   string        `mapstructure:"endpoint"`
	MaxResults int           `mapstructure:"max_results"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// StorageConfig contains storage and persistence settings
type StorageConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// PostgresConfig contains Postgres connection settings
type PostgresConfig struct {
	URL      string        `mapstructure:"url"`
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	User     string        `mapstructure:"user"`
	Password string        `mapstructure:"password"`
	DBName   string        `mapstructure:"dbname"`
	SSLMode  string        `mapstructure:"sslmode"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Configured reports whether enough is set to attempt a connection.
func (p PostgresConfig) Configured() bool {
	return strings.TrimSpace(p.URL) != "" ||
		(strings.TrimSpace(p.Host) != "" && strings.TrimSpace(p.DBName) != "")
}

// DSN builds a connection string from the individual fields when URL is unset.
func (p PostgresConfig) DSN() (string, error) {
	if strings.TrimSpace(p.URL) != "" {
		return p.URL, nil
	}
	if strings.TrimSpace(p.Host) == "" || strings.TrimSpace(p.DBName) == "" {
		return "", fmt.Errorf("postgres not configured (storage.postgres.host/dbname or url)")
	}
	port := p.Port
	if port == "" {
		port = "5432"
	}
	ssl := p.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", p.User, p.Password, p.Host, port, p.DBName, ssl), nil
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Configured reports whether a Redis address is set.
func (r RedisConfig) Configured() bool {
	return strings.TrimSpace(r.Host) != "" && strings.TrimSpace(r.Port) != ""
}

// Addr returns host:port for the redis client.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// GeoConfig controls exploration-progress computation
type GeoConfig struct {
	Resolution int     `mapstructure:"resolution"`
	MinLat     float64 `mapstructure:"min_lat"`
	MinLng     float64 `mapstructure:"min_lng"`
	MaxLat     float64 `mapstructure:"max_lat"`
	MaxLng     float64 `mapstructure:"max_lng"`
	CenterLat  float64 `mapstructure:"center_lat"`
	CenterLng  float64 `mapstructure:"center_lng"`
}

// TelemetryConfig contains metrics settings
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoadConfig loads config from the given file, or from defaults plus VIVI_* env
// variables when no file is present. The service is runnable with zero config.
func LoadConfig(path string) *Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")

	v.SetDefault("general.debug", false)
	v.SetDefault("general.log_level", "info")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.completion_model", "gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.max_tokens", 600)
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("planner.agentic", false)
	v.SetDefault("planner.default_location", "Boston, MA")
	v.SetDefault("planner.card_limit", 20)
	v.SetDefault("catalog.max_results", 25)
	v.SetDefault("catalog.cache_ttl", 5*time.Minute)
	v.SetDefault("catalog.eventbrite.endpoint", "https://www.eventbriteapi.com/v3")
	v.SetDefault("catalog.eventbrite.max_results", 20)
	v.SetDefault("catalog.eventbrite.timeout", 10*time.Second)
	// Secrets and connection settings have no usable default, but viper only
	// surfaces AutomaticEnv values through Unmarshal for keys it knows about,
	// so they must be seeded anyway.
	v.SetDefault("llm.api_key", "")
	v.SetDefault("catalog.eventbrite.api_key", "")
	v.SetDefault("storage.postgres.url", "")
	v.SetDefault("storage.postgres.host", "")
	v.SetDefault("storage.postgres.port", "")
	v.SetDefault("storage.postgres.user", "")
	v.SetDefault("storage.postgres.password", "")
	v.SetDefault("storage.postgres.dbname", "")
	v.SetDefault("storage.postgres.sslmode", "")
	v.SetDefault("storage.postgres.timeout", 10*time.Second)
	v.SetDefault("storage.redis.host", "")
	v.SetDefault("storage.redis.port", "")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.timeout", 5*time.Second)
	// Atlanta, GA bounding box for the exploration map
	v.SetDefault("geo.resolution", 9)
	v.SetDefault("geo.min_lat", 33.64)
	v.SetDefault("geo.min_lng", -84.55)
	v.SetDefault("geo.max_lat", 33.90)
	v.SetDefault("geo.max_lng", -84.25)
	v.SetDefault("geo.center_lat", 33.7490)
	v.SetDefault("geo.center_lng", -84.3880)
	v.SetDefault("telemetry.enabled", true)

	if path == "" {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("VIVI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv() // read in environment variables that match (VIVI_*)

	if err := v.ReadInConfig(); err != nil {
		// A config file is optional; env + defaults are enough for local runs.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}
	return &config
}
