// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix namespaces every dashboard environment variable.
const EnvPrefix = "AFS_DASHBOARD_"

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseEnvWithPrefix loads configuration whose env tags omit the shared prefix.
//
// A struct tagged `env:"HTTP_ADDR"` reads AFS_DASHBOARD_HTTP_ADDR when prefix is
// EnvPrefix.
func ParseEnvWithPrefix(target any, prefix string) error {
	opts := env.Options{Prefix: strings.TrimSpace(prefix)}
	if err := env.ParseWithOptions(target, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
