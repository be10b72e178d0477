// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from an optional
// .env file and environment variables. It provides a centralized Config
// struct used across the application.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"
	_ "time/tzdata" // zone database for TIME_ZONE on hosts without one

	"github.com/spf13/viper"

	"inventario/internal/database"
)

// Config keys. Environment variables use the same names.
const (
	KeyEnv             = "APP_ENV"
	KeyHost            = "APP_HOST"
	KeyPort            = "APP_PORT"
	KeyDatabaseURL     = "DATABASE_URL"
	KeyDBHost          = "POSTGRES_HOST"
	KeyDBPort          = "POSTGRES_PORT"
	KeyDBUser          = "POSTGRES_USER"
	KeyDBPassword      = "POSTGRES_PASSWORD"
	KeyDBName          = "POSTGRES_DB"
	KeyDBMaxOpenConns  = "DB_MAX_OPEN_CONNS"
	KeyDBConnMaxAge    = "DB_CONN_MAX_AGE"
	KeyValkeyHost      = "VALKEY_HOST"
	KeyValkeyPort      = "VALKEY_PORT"
	KeyValkeyPassword  = "VALKEY_PASSWORD"
	KeyLogFile         = "LOG_FILE"
	KeyLogLevel        = "LOG_LEVEL"
	KeyTimeZone        = "TIME_ZONE"
	defaultDBPassword  = "changeme"
	defaultEnvFileName = ".env"
)

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection. DatabaseURL wins over the discrete fields.
	DatabaseURL  string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBMaxOpen    int
	DBConnMaxAge time.Duration

	// Valkey (Redis-compatible session store)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	LogFile  string // empty means stdout only
	LogLevel string
	TimeZone string // IANA name, used to display timestamps
}

// New returns a viper instance with every default registered and
// environment lookup enabled. Callers may bind CLI flags to it before
// passing it to Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyEnv, "development")
	v.SetDefault(KeyHost, "0.0.0.0")
	v.SetDefault(KeyPort, "8080")
	v.SetDefault(KeyDatabaseURL, "")
	v.SetDefault(KeyDBHost, "localhost")
	v.SetDefault(KeyDBPort, "5432")
	v.SetDefault(KeyDBUser, "inventario")
	v.SetDefault(KeyDBPassword, defaultDBPassword)
	v.SetDefault(KeyDBName, "inventario")
	v.SetDefault(KeyDBMaxOpenConns, 25)
	v.SetDefault(KeyDBConnMaxAge, 60)
	v.SetDefault(KeyValkeyHost, "localhost")
	v.SetDefault(KeyValkeyPort, "6379")
	v.SetDefault(KeyValkeyPassword, "")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyTimeZone, "America/Santiago")
	v.AutomaticEnv()
	return v
}

// ReadEnvFile merges KEY=value pairs from path into v. A missing file is
// not an error. Real environment variables still take precedence.
func ReadEnvFile(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// Load builds a Config from v. Pass nil to use New() plus ./.env.
// Returns an error if critical values are missing in production mode.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = New()
		if err := ReadEnvFile(v, defaultEnvFileName); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Host: v.GetString(KeyHost),
		Port: v.GetString(KeyPort),
		Env:  v.GetString(KeyEnv),

		DatabaseURL:  v.GetString(KeyDatabaseURL),
		DBHost:       v.GetString(KeyDBHost),
		DBPort:       v.GetString(KeyDBPort),
		DBUser:       v.GetString(KeyDBUser),
		DBPassword:   v.GetString(KeyDBPassword),
		DBName:       v.GetString(KeyDBName),
		DBMaxOpen:    v.GetInt(KeyDBMaxOpenConns),
		DBConnMaxAge: time.Duration(v.GetInt(KeyDBConnMaxAge)) * time.Second,

		ValkeyHost:     v.GetString(KeyValkeyHost),
		ValkeyPort:     v.GetString(KeyValkeyPort),
		ValkeyPassword: v.GetString(KeyValkeyPassword),

		LogFile:  v.GetString(KeyLogFile),
		LogLevel: v.GetString(KeyLogLevel),
		TimeZone: v.GetString(KeyTimeZone),
	}

	if _, err := time.LoadLocation(cfg.TimeZone); err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", KeyTimeZone, cfg.TimeZone, err)
	}

	if cfg.Env == "production" && cfg.DatabaseURL == "" && cfg.DBPassword == defaultDBPassword {
		return nil, fmt.Errorf("%s must be set in production", KeyDBPassword)
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// PoolOptions returns the connection pool settings for database.Connect.
func (c *Config) PoolOptions() database.PoolOptions {
	opts := database.DefaultPoolOptions()
	if c.DBMaxOpen > 0 {
		opts.MaxOpenConns = c.DBMaxOpen
		if opts.MaxIdleConns > c.DBMaxOpen {
			opts.MaxIdleConns = c.DBMaxOpen
		}
	}
	if c.DBConnMaxAge > 0 {
		opts.ConnMaxLifetime = c.DBConnMaxAge
	}
	return opts
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}
