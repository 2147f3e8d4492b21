package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from app.env in the config directory or from environment variables.
type Config struct {
	ServerAddress string   `mapstructure:"SERVER_ADDRESS"`
	CORSOrigins   []string `mapstructure:"CORS_ORIGINS"`

	DBDriver   string `mapstructure:"DB_DRIVER"`
	DBSource   string `mapstructure:"DB_SOURCE"`
	DBTable    string `mapstructure:"DB_TABLE"`
	SQLitePath string `mapstructure:"SQLITE_PATH"`
	SeedFile   string `mapstructure:"SEED_FILE"`

	RedisEnabled  bool          `mapstructure:"REDIS_ENABLED"`
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`

	GeocoderURL       string        `mapstructure:"GEOCODER_URL"`
	GeocoderUserAgent string        `mapstructure:"GEOCODER_USER_AGENT"`
	GeocoderMinDelay  time.Duration `mapstructure:"GEOCODER_MIN_DELAY"`
	GeocoderTimeout   time.Duration `mapstructure:"GEOCODER_TIMEOUT"`

	FallbackState    string   `mapstructure:"FALLBACK_STATE"`
	GroceryRetailers []string `mapstructure:"GROCERY_RETAILERS"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

// Store drivers understood by DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_ADDRESS", ":8080")
	v.SetDefault("CORS_ORIGINS", []string{"*"})
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_SOURCE", "")
	v.SetDefault("DB_TABLE", "vending_locations")
	v.SetDefault("SQLITE_PATH", "data/locations.db")
	v.SetDefault("SEED_FILE", "data/complete_locations.json")
	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", 5*time.Minute)
	v.SetDefault("GEOCODER_URL", "https://nominatim.openstreetmap.org/search")
	v.SetDefault("GEOCODER_USER_AGENT", "VendingLocator/1.0")
	v.SetDefault("GEOCODER_MIN_DELAY", time.Second)
	v.SetDefault("GEOCODER_TIMEOUT", 10*time.Second)
	v.SetDefault("FALLBACK_STATE", "Arizona")
	v.SetDefault("GROCERY_RETAILERS", []string{"Frys", "Safeway", "Albertsons", "WinCo Foods"})
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// LoadConfig reads configuration from app.env in path (if present), a .env file in the working
// directory (if present) and the environment, in increasing order of precedence.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("config: failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("config: failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config: failed to decode config: %w", err)
	}

	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)
	cfg.GroceryRetailers = trimAll(cfg.GroceryRetailers)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("config: unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.GeocoderMinDelay < 0 {
		return fmt.Errorf("config: GEOCODER_MIN_DELAY must not be negative")
	}
	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// InitLogger configures zerolog's global logger from LOG_LEVEL and LOG_FORMAT.
func InitLogger(cfg Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}
