// Package config loads server configuration from file and environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig
	Firestore FirestoreConfig
	Local     LocalConfig
	Gemini    GeminiConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port       int
	StaticPath string
}

// FirestoreConfig holds cloud storage configuration. An empty ProjectID
// means cloud storage is not configured and the server runs local-only.
type FirestoreConfig struct {
	ProjectID       string
	CredentialsFile string
	Collection      string
}

// LocalConfig holds the local fallback store configuration.
type LocalConfig struct {
	Path string
}

// GeminiConfig holds the advice service configuration. An empty APIKey
// disables advice: the endpoint then answers with the fixed fallback.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// Load reads configuration from the given file (or ./config.yaml when
// empty) and from SMARTDEBT_* environment variables. A missing config
// file is fine; defaults and environment cover everything.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.staticpath", "./static")
	v.SetDefault("firestore.projectid", "")
	v.SetDefault("firestore.credentialsfile", "")
	v.SetDefault("firestore.collection", "debts")
	v.SetDefault("local.path", "./data/backup.db")
	v.SetDefault("gemini.apikey", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SMARTDEBT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// CloudConfigured reports whether a Firestore project is set up.
func (c *Config) CloudConfigured() bool {
	return c.Firestore.ProjectID != ""
}

// AdviceConfigured reports whether the Gemini advice service is set up.
func (c *Config) AdviceConfigured() bool {
	return c.Gemini.APIKey != ""
}
