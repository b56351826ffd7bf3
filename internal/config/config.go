package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	DatabaseURL  string
	LogLevel     string
	QueryTimeout time.Duration
}

func Load() (*Config, error) {
	// Load .env file if it exists (useful for local dev)
	_ = godotenv.Load()

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	queryTimeout := 5 * time.Second
	if s := os.Getenv("DB_QUERY_TIMEOUT"); s != "" {
		seconds, err := strconv.Atoi(s)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("DB_QUERY_TIMEOUT must be a positive number of seconds, got %q", s)
		}
		queryTimeout = time.Duration(seconds) * time.Second
	}

	return &Config{
		ServerPort:   serverPort,
		DatabaseURL:  databaseURL,
		LogLevel:     logLevel,
		QueryTimeout: queryTimeout,
	}, nil
}
