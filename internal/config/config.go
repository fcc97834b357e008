package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN             string
	Environment       string
	HTTPPort          string
	JWTSecret         string
	JWTExpiry         time.Duration
	DefaultPageSize   int
	MigrationsPath    string
	ScheduleApplyTick time.Duration
}

func Load() (*Config, error) {
	// Try to load a .env file, fall back to plain environment variables.
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		DBDSN:             os.Getenv("DB_DSN"),
		Environment:       os.Getenv("ENV"),
		HTTPPort:          os.Getenv("HTTP_PORT"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTExpiry:         24 * time.Hour,
		DefaultPageSize:   10,
		MigrationsPath:    os.Getenv("MIGRATIONS_PATH"),
		ScheduleApplyTick: time.Hour,
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPPort == "" {
		cfg.HTTPPort = "8080"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}
	if v := os.Getenv("JWT_EXPIRY_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRY_HOURS: %w", err)
		}
		cfg.JWTExpiry = time.Duration(hours) * time.Hour
	}
	if v := os.Getenv("DEFAULT_PAGE_SIZE"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DEFAULT_PAGE_SIZE: %w", err)
		}
		cfg.DefaultPageSize = size
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	return cfg, nil
}
