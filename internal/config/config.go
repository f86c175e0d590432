// Package config loads settings for the form service.
//
// Values come from three layers, later ones winning: an optional YAML file
// (named by --config or FORMS_CONFIG), environment variables, then explicit
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config is the form service configuration.
type Config struct {
	// GRPCAddr is where FormService listens. Default: :50051
	GRPCAddr string `yaml:"grpc_addr"`

	// LogLevel is a zerolog level name. Default: info
	LogLevel string `yaml:"log_level"`

	Transactions APIConfig `yaml:"transactions"`
	Users        APIConfig `yaml:"users"`
}

// APIConfig locates one collaborator API.
type APIConfig struct {
	// BaseURL is scheme://host[:port]; the /api/... path is appended.
	BaseURL string `yaml:"base_url"`

	// Timeout bounds each request. Zero means no client-side timeout.
	Timeout time.Duration `yaml:"timeout"`
}

// Default matches the original local deployment.
func Default() Config {
	return Config{
		GRPCAddr: ":50051",
		LogLevel: "info",
		Transactions: APIConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 30 * time.Second,
		},
		Users: APIConfig{
			BaseURL: "http://localhost:8081",
			Timeout: 30 * time.Second,
		},
	}
}

// Load parses args (without the program name) and builds the configuration.
func Load(args []string) (Config, error) {
	fs := pflag.NewFlagSet("server", pflag.ContinueOnError)
	path := fs.String("config", "", "path to a YAML config file (env FORMS_CONFIG)")
	addr := fs.String("grpc-addr", "", "FormService listen address (env GRPC_ADDR)")
	txURL := fs.String("transactions-url", "", "transaction API base URL (env TRANSACTIONS_API_URL)")
	usersURL := fs.String("users-url", "", "user API base URL (env USERS_API_URL)")
	timeout := fs.Duration("request-timeout", 0, "timeout for each API request (env REQUEST_TIMEOUT)")
	level := fs.String("log-level", "", "log level (env LOG_LEVEL)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Default()
	if *path == "" {
		*path = os.Getenv("FORMS_CONFIG")
	}
	if *path != "" {
		if err := cfg.loadFile(*path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if fs.Changed("grpc-addr") {
		cfg.GRPCAddr = *addr
	}
	if fs.Changed("transactions-url") {
		cfg.Transactions.BaseURL = *txURL
	}
	if fs.Changed("users-url") {
		cfg.Users.BaseURL = *usersURL
	}
	if fs.Changed("request-timeout") {
		cfg.Transactions.Timeout = *timeout
		cfg.Users.Timeout = *timeout
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = *level
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.GRPCAddr = env("GRPC_ADDR", c.GRPCAddr)
	c.LogLevel = env("LOG_LEVEL", c.LogLevel)
	c.Transactions.BaseURL = env("TRANSACTIONS_API_URL", c.Transactions.BaseURL)
	c.Users.BaseURL = env("USERS_API_URL", c.Users.BaseURL)
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REQUEST_TIMEOUT: %w", err)
		}
		c.Transactions.Timeout = d
		c.Users.Timeout = d
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.GRPCAddr == "" {
		errs = append(errs, errors.New("grpc_addr is required"))
	}
	if c.Transactions.BaseURL == "" {
		errs = append(errs, errors.New("transactions.base_url is required"))
	}
	if c.Users.BaseURL == "" {
		errs = append(errs, errors.New("users.base_url is required"))
	}
	if c.Transactions.Timeout < 0 || c.Users.Timeout < 0 {
		errs = append(errs, errors.New("timeout must not be negative"))
	}
	return errors.Join(errs...)
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
