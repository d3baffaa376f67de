// Package config holds the runtime settings of the activities server.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
)

// DefaultAdminToken matches the token the admin UI offers by default.
const DefaultAdminToken = "secret-token"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Admin    AdminConfig
	Registry RegistryConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int
	Env             string
	StaticDir       string
	AllowedOrigins  []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// AdminConfig holds the admin gate settings.
type AdminConfig struct {
	Token string
}

// RegistryConfig holds activity registry settings.
type RegistryConfig struct {
	SeedFile        string
	EnforceCapacity bool
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
}

// Default returns a Config with local-development defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			Env:             "development",
			StaticDir:       "./static",
			AllowedOrigins:  []string{"*"},
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Admin:    AdminConfig{Token: DefaultAdminToken},
		Registry: RegistryConfig{EnforceCapacity: true},
		Log:      LogConfig{Level: "info"},
	}
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks every setting and reports all failures at once.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = errs.Append("port", fmt.Errorf("must be between 1 and 65535, got %d", c.Server.Port))
	}
	switch c.Server.Env {
	case "development", "production", "test":
	default:
		errs = errs.Append("env", fmt.Errorf("must be 'development', 'production', or 'test', got %q", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = errs.Append("cors-origins", errors.New("must have at least one origin"))
	}
	timeouts := []struct {
		name string
		d    time.Duration
	}{
		{"read-timeout", c.Server.ReadTimeout},
		{"write-timeout", c.Server.WriteTimeout},
		{"idle-timeout", c.Server.IdleTimeout},
		{"shutdown-timeout", c.Server.ShutdownTimeout},
	}
	for _, t := range timeouts {
		if t.d <= 0 {
			errs = errs.Append(t.name, errors.New("must be positive"))
		}
	}

	if c.Admin.Token == "" {
		errs = errs.Append("admin-token", errors.New("is required"))
	} else if c.IsProduction() && c.Admin.Token == DefaultAdminToken {
		errs = errs.Append("admin-token", errors.New("must be changed from the default in production"))
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = errs.Append("log-level", err)
	}

	return errs.ToError()
}
