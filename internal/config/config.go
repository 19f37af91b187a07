package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Store      StoreConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Geocoder   GeocoderConfig
	Rides      RidesConfig
	Simulation SimulationConfig
	NewRelic   NewRelicConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port string
	Env  string
	Host string
}

// StoreConfig selects where the app-state document lives. "file" is
// the default; "redis" and "postgres" hold the same single document.
type StoreConfig struct {
	Backend string // file, redis, postgres
	Path    string // file backend only
	Key     string // document key / row name
	Seed    bool   // write demo data into an empty store
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

type RedisConfig struct {
	Host        string
	Port        string
	Password    string
	DB          int
	MaxRetries  int
	PoolSize    int
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

// GeocoderConfig drives the demo geocoder: coordinates are jittered
// around a fixed city center after a bounded delay.
type GeocoderConfig struct {
	CenterLat float64
	CenterLng float64
	Jitter    float64
	Delay     time.Duration
}

type RidesConfig struct {
	PriceCeiling float64
	MaxSeats     int
}

type SimulationConfig struct {
	StepInterval time.Duration
	RouteSteps   int
}

type NewRelicConfig struct {
	LicenseKey string
	AppName    string
	Enabled    bool
	LogLevel   string
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Store: StoreConfig{
			Backend: getEnv("STORE_BACKEND", "file"),
			Path:    getEnv("STORE_PATH", "data/app_state.json"),
			Key:     getEnv("STORE_KEY", "ride_with_us_app_state"),
			Seed:    getEnvAsBool("STORE_SEED", true),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "carpool"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNECTIONS", 5),
			MaxIdle:  getEnvAsInt("DB_MAX_IDLE_CONNECTIONS", 2),
		},
		Redis: RedisConfig{
			Host:        getEnv("REDIS_HOST", "localhost"),
			Port:        getEnv("REDIS_PORT", "6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvAsInt("REDIS_DB", 0),
			MaxRetries:  getEnvAsInt("REDIS_MAX_RETRIES", 3),
			PoolSize:    getEnvAsInt("REDIS_POOL_SIZE", 10),
			DialTimeout: 5 * time.Second,
			ReadTimeout: 3 * time.Second,
		},
		Geocoder: GeocoderConfig{
			CenterLat: getEnvAsFloat64("GEOCODER_CENTER_LAT", 28.6139),
			CenterLng: getEnvAsFloat64("GEOCODER_CENTER_LNG", 77.2090),
			Jitter:    getEnvAsFloat64("GEOCODER_JITTER", 0.1),
			Delay:     time.Duration(getEnvAsInt("GEOCODER_DELAY_MS", 500)) * time.Millisecond,
		},
		Rides: RidesConfig{
			PriceCeiling: getEnvAsFloat64("RIDE_PRICE_CEILING", 300),
			MaxSeats:     getEnvAsInt("RIDE_MAX_SEATS", 10),
		},
		Simulation: SimulationConfig{
			StepInterval: time.Duration(getEnvAsInt("SIM_STEP_INTERVAL_MS", 1000)) * time.Millisecond,
			RouteSteps:   getEnvAsInt("SIM_ROUTE_STEPS", 20),
		},
		NewRelic: NewRelicConfig{
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			AppName:    getEnv("NEW_RELIC_APP_NAME", "RideWithUs-Carpool"),
			Enabled:    getEnvAsBool("NEW_RELIC_ENABLED", false),
			LogLevel:   getEnv("NEW_RELIC_LOG_LEVEL", "info"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Output: getEnv("LOG_OUTPUT", "stdout"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	switch c.Store.Backend {
	case "file", "redis", "postgres":
	default:
		return fmt.Errorf("STORE_BACKEND must be file, redis or postgres, got %q", c.Store.Backend)
	}
	if c.Store.Backend == "file" && c.Store.Path == "" {
		return fmt.Errorf("STORE_PATH is required for the file backend")
	}
	if c.Store.Key == "" {
		return fmt.Errorf("STORE_KEY is required")
	}
	if c.Rides.PriceCeiling <= 0 {
		return fmt.Errorf("RIDE_PRICE_CEILING must be positive")
	}
	if c.Rides.MaxSeats < 1 {
		return fmt.Errorf("RIDE_MAX_SEATS must be at least 1")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
