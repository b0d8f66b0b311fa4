package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// DBFilename is the JSON database name inside the user config directory.
const DBFilename = "subito-it-scraper.json"

// ErrNoConfigDir is returned when neither $XDG_CONFIG_HOME nor $HOME is set.
var ErrNoConfigDir = errors.New("config: can't find $XDG_CONFIG_HOME nor $HOME/.config")

// Config holds all application configuration loaded from environment variables.
type Config struct {
	StorageBackend string
	DBPath         string
	BadgerDir      string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	FetchBackend      string
	ChromeBin         string
	UserAgent         string
	MaxRetries        int
	RequestTimeoutSec int

	LogLevel string

	// EnvFileLoaded reports whether a .env file was found in the working directory.
	EnvFileLoaded bool
}

// Load reads the .env file and returns a populated Config struct.
func Load() (*Config, error) {
	envLoaded := godotenv.Load() == nil

	dir, err := configDir()
	if err != nil {
		return nil, err
	}

	return &Config{
		StorageBackend: getEnv("STORAGE_BACKEND", "json"),
		DBPath:         getEnv("TRACKER_DB_PATH", filepath.Join(dir, DBFilename)),
		BadgerDir:      getEnv("BADGER_DIR", filepath.Join(dir, "subito-it-scraper.badger")),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "subito_tracker"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		FetchBackend:      getEnv("FETCH_BACKEND", "http"),
		ChromeBin:         getEnv("CHROME_BIN", ""),
		UserAgent:         getEnv("USER_AGENT", DefaultUserAgent),
		MaxRetries:        getEnvInt("MAX_RETRIES", 3),
		RequestTimeoutSec: getEnvInt("REQUEST_TIMEOUT_SEC", 30),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		EnvFileLoaded: envLoaded,
	}, nil
}

// DefaultUserAgent mimics a desktop Chromium browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36"

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg, nil
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config"), nil
	}
	return "", ErrNoConfigDir
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
