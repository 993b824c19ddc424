// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ReadTimeout     int `mapstructure:"read_timeout"`     // seconds
	WriteTimeout    int `mapstructure:"write_timeout"`    // seconds
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // seconds
	RateLimit       int `mapstructure:"rate_limit"`       // requests per second, 0 disables
}

// CatalogConfig selects the plan catalog source. When URL is set the catalog
// is fetched over HTTP; otherwise FilePath is read (and watched for changes).
type CatalogConfig struct {
	URL          string `mapstructure:"url"`
	FilePath     string `mapstructure:"file_path"`
	FetchTimeout int    `mapstructure:"fetch_timeout"` // seconds
	CacheTTL     int    `mapstructure:"cache_ttl"`     // seconds
}

func (c CatalogConfig) TTL() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PipelineConfig holds the tunables of the query pipeline.
type PipelineConfig struct {
	PageSize        int `mapstructure:"page_size"`        // plans rendered per reply
	MaxAlternatives int `mapstructure:"max_alternatives"` // similarity fallback top-N
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}
