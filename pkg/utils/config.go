package utils

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ClientConfig drives the gateway, the session store and the CLI.
type ClientConfig struct {
	APIBaseURL     string // optional override, BOOKSHELF_API_BASE_URL
	Environment    string // "production" marks a production build
	FrontendHost   string // host the client runs from; loopback enables the dev backend
	HTTPTimeout    time.Duration
	SessionPath    string
	SessionBackend string // file | sqlite
	LogLevel       string
	LogFormat      string
}

// Production reports whether the build-mode flag is set.
func (c ClientConfig) Production() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

// MockAPIConfig drives the local backend stub.
type MockAPIConfig struct {
	Addr     string
	DBPath   string
	LogLevel string
}

// LoadEnvFile loads .env when present; a missing file is not an error.
func LoadEnvFile(paths ...string) {
	if err := godotenv.Load(paths...); err != nil && !os.IsNotExist(err) {
		log.Printf("ignoring env file: %v", err)
	}
}

func LoadClientConfig() ClientConfig {
	return ClientConfig{
		APIBaseURL:     os.Getenv("BOOKSHELF_API_BASE_URL"),
		Environment:    getenv("BOOKSHELF_ENV", "development"),
		FrontendHost:   os.Getenv("BOOKSHELF_FRONTEND_HOST"),
		HTTPTimeout:    getenvDuration("BOOKSHELF_HTTP_TIMEOUT", 15*time.Second),
		SessionPath:    getenv("BOOKSHELF_SESSION_PATH", defaultSessionPath()),
		SessionBackend: strings.ToLower(getenv("BOOKSHELF_SESSION_BACKEND", "file")),
		LogLevel:       getenv("LOG_LEVEL", "warn"),
		LogFormat:      os.Getenv("LOG_FORMAT"),
	}
}

func LoadMockAPIConfig() MockAPIConfig {
	return MockAPIConfig{
		Addr:     getenv("MOCKAPI_ADDR", ":5165"),
		DBPath:   os.Getenv("BOOKSHELF_DB_PATH"),
		LogLevel: getenv("LOG_LEVEL", "info"),
	}
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "./.bookshelf-session.json"
	}
	return filepath.Join(home, ".bookshelf", "session.json")
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	// bare numbers are seconds
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}
