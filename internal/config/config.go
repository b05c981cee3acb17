package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Schedule source kinds accepted in SCHEDULE_SOURCE.
const (
	SourceDir      = "dir"
	SourceHTTP     = "http"
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
)

// Config holds all configuration for the planner API and tools
type Config struct {
	// HTTP server
	Port           string        `yaml:"port"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	StaticDir      string        `yaml:"static_dir"`
	TripCacheSize  int           `yaml:"trip_cache_size"`
	HTTPTimeout    time.Duration `yaml:"http_timeout"`

	// Schedule sources
	ScheduleSource  string `yaml:"schedule_source"`
	DataDir         string `yaml:"data_dir"`
	ScheduleBaseURL string `yaml:"schedule_base_url"`
	SQLiteDatabase  string `yaml:"sqlite_database"`
	DatabaseURL     string `yaml:"database_url"`

	// ReloadInterval reloads the schedule periodically; zero disables it.
	ReloadInterval time.Duration `yaml:"reload_interval"`

	// Station names in stations.data are split on whitespace and joined back
	// with this separator. Empty joins the tokens directly ("Porta Venezia"
	// becomes "PortaVenezia"), matching the published data files.
	StationNameSeparator string `yaml:"station_name_separator"`
}

// Defaults returns the configuration used when nothing is set
func Defaults() *Config {
	return &Config{
		Port:           "8081",
		AllowedOrigins: []string{"http://localhost:5173"},
		TripCacheSize:  1024,
		HTTPTimeout:    10 * time.Second,

		ScheduleSource: SourceDir,
		DataDir:        "data",
		SQLiteDatabase: "data/schedules.db",
	}
}

// Load reads configuration from .env files, an optional YAML file named by
// CONFIG_FILE, and environment variables, in increasing priority.
func Load() (*Config, error) {
	// Load base .env first, then .env.local (which overrides for local development)
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected schedule source has what it needs
func (c *Config) Validate() error {
	switch c.ScheduleSource {
	case SourceDir:
		if c.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required for schedule source %q", c.ScheduleSource)
		}
	case SourceHTTP:
		if c.ScheduleBaseURL == "" {
			return fmt.Errorf("SCHEDULE_BASE_URL is required for schedule source %q", c.ScheduleSource)
		}
	case SourceSQLite:
		if c.SQLiteDatabase == "" {
			return fmt.Errorf("SQLITE_DATABASE is required for schedule source %q", c.ScheduleSource)
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for schedule source %q", c.ScheduleSource)
		}
	default:
		return fmt.Errorf("unknown schedule source %q", c.ScheduleSource)
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.StaticDir = getEnv("STATIC_DIR", cfg.StaticDir)
	cfg.TripCacheSize = getEnvInt("TRIP_CACHE_SIZE", cfg.TripCacheSize)
	if secs := getEnvInt("HTTP_TIMEOUT_SECONDS", 0); secs > 0 {
		cfg.HTTPTimeout = time.Duration(secs) * time.Second
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitList(origins)
	}

	cfg.ScheduleSource = strings.ToLower(getEnv("SCHEDULE_SOURCE", cfg.ScheduleSource))
	cfg.DataDir = getEnv("DATA_DIR", cfg.DataDir)
	cfg.ScheduleBaseURL = getEnv("SCHEDULE_BASE_URL", cfg.ScheduleBaseURL)
	cfg.SQLiteDatabase = getEnv("SQLITE_DATABASE", cfg.SQLiteDatabase)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	if mins := getEnvInt("RELOAD_INTERVAL_MINUTES", 0); mins > 0 {
		cfg.ReloadInterval = time.Duration(mins) * time.Minute
	}

	// An explicitly empty separator is meaningful, so presence is what counts.
	if sep, ok := os.LookupEnv("STATION_NAME_SEPARATOR"); ok {
		cfg.StationNameSeparator = sep
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
