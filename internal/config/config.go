// Package config loads client configuration from defaults, an optional .env
// file, and COLEGIO_-prefixed environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// BaseURL is the REST backend root, e.g. https://colegio.example.edu.
	BaseURL string
	// Token is the bearer token issued by the backend's auth service.
	Token string
	// Timeout bounds every HTTP request.
	Timeout time.Duration
	// DataDir holds logs and the local recents cache.
	DataDir string
	Debug   bool
}

// Load builds the effective configuration. A .env next to the working
// directory is honored if present; real environment variables win over it.
func Load() (Config, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	v.SetDefault("base_url", "http://localhost:8000")
	v.SetDefault("token", "")
	v.SetDefault("timeout", 15*time.Second)
	v.SetDefault("data_dir", filepath.Join(home, ".config", "colegio"))
	v.SetDefault("debug", false)

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return Config{}, fmt.Errorf("config: loading .env: %w", err)
		}
	}

	v.SetEnvPrefix("COLEGIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := Config{
		BaseURL: v.GetString("base_url"),
		Token:   v.GetString("token"),
		Timeout: v.GetDuration("timeout"),
		DataDir: v.GetString("data_dir"),
		Debug:   v.GetBool("debug"),
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return cfg, nil
}
