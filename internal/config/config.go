// Package config loads the required GitHub settings from the environment,
// with optional .env file support.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the settings required to reach the GitHub repository.
type Config struct {
	Owner string
	Repo  string
	Token string
}

// Load reads GITHUB_OWNER, GITHUB_REPO and GITHUB_TOKEN, after loading a
// .env file from the working directory when one exists. All three are
// required; a single error lists every missing variable.
func Load() (*Config, error) {
	// A missing .env file is fine; real environment variables win either way.
	_ = godotenv.Load()

	cfg := &Config{
		Owner: os.Getenv("GITHUB_OWNER"),
		Repo:  os.Getenv("GITHUB_REPO"),
		Token: os.Getenv("GITHUB_TOKEN"),
	}

	var missing []string
	if cfg.Owner == "" {
		missing = append(missing, "GITHUB_OWNER")
	}
	if cfg.Repo == "" {
		missing = append(missing, "GITHUB_REPO")
	}
	if cfg.Token == "" {
		missing = append(missing, "GITHUB_TOKEN")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables (%s)", strings.Join(missing, ", "))
	}
	return cfg, nil
}
