// Package config loads and validates runtime configuration at startup.
// Values come from the environment (optionally seeded from a .env file) and
// an optional YAML file; environment variables win. Missing required values
// fail fast.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"jobmate/recruiter-service/internal/kanban"
)

// Config holds all runtime configuration for the recruiter service.
type Config struct {
	DatabaseURL      string `mapstructure:"database-url"`
	RedisURL         string `mapstructure:"redis-url"`
	HTTPPort         string `mapstructure:"http-port"`
	GRPCPort         string `mapstructure:"grpc-port"`
	TransitionPolicy string `mapstructure:"transition-policy"`
	DigestSpec       string `mapstructure:"digest-spec"`
	Timezone         string `mapstructure:"timezone"`
	NodeID           int64  `mapstructure:"node-id"`
	Debug            bool   `mapstructure:"debug"`
	LogJSON          bool   `mapstructure:"log-json"`
}

var envBindings = map[string]string{
	"database-url":      "DATABASE_URL",
	"redis-url":         "REDIS_URL",
	"http-port":         "RECRUITER_HTTP_PORT",
	"grpc-port":         "RECRUITER_GRPC_PORT",
	"transition-policy": "RECRUITER_TRANSITION_POLICY",
	"digest-spec":       "RECRUITER_DIGEST_SPEC",
	"timezone":          "RECRUITER_TIMEZONE",
	"node-id":           "RECRUITER_NODE_ID",
	"debug":             "RECRUITER_DEBUG",
	"log-json":          "RECRUITER_LOG_JSON",
}

// NewViper returns a viper instance with defaults and env bindings applied.
// A .env file in the working directory is loaded first when present.
func NewViper() (*viper.Viper, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("http-port", "8085")
	v.SetDefault("grpc-port", "9085")
	v.SetDefault("transition-policy", string(kanban.PolicyPermissive))
	v.SetDefault("digest-spec", "0 8 * * *")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("node-id", 1)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s environment variable: %w", env, err)
		}
	}
	return v, nil
}

// Load reads configFile (if not empty) on top of v and returns a validated
// Config.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every problem with c at once.
func (c *Config) Validate() error {
	var err error
	if c.DatabaseURL == "" {
		err = multierr.Append(err, errors.New("DATABASE_URL is required"))
	}
	if c.RedisURL == "" {
		err = multierr.Append(err, errors.New("REDIS_URL is required"))
	}
	if _, perr := kanban.ParsePolicy(c.TransitionPolicy); perr != nil {
		err = multierr.Append(err, perr)
	}
	if _, lerr := time.LoadLocation(c.Timezone); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("unknown timezone %q", c.Timezone))
	}
	if c.NodeID < 0 || c.NodeID > 1023 {
		err = multierr.Append(err, fmt.Errorf("node id %d out of range 0-1023", c.NodeID))
	}
	return err
}

// Policy returns the parsed transition policy. Call after Validate.
func (c *Config) Policy() kanban.Policy {
	p, _ := kanban.ParsePolicy(c.TransitionPolicy)
	return p
}

// Location returns the timezone used for day boundaries. Call after Validate.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
