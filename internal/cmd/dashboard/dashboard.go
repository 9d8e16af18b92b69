// Package dashboard parses dashboard command flags and composes the server
// entrypoint.
package dashboard

import (
	"context"
	"flag"
	"fmt"
	"strings"

	entrypoint "github.com/chistayaaa/afs-dashboard/internal/platform/cmd"
	server "github.com/chistayaaa/afs-dashboard/internal/services/dashboard"
)

// Config holds dashboard command configuration.
type Config struct {
	HTTPAddr   string   `env:"HTTP_ADDR"     envDefault:"localhost:8090"`
	APIBaseURL string   `env:"API_BASE_URL"  envDefault:"https://test-task-api.allfuneral.com/"`
	Username   string   `env:"API_USER"      envDefault:"USERNAME"`
	CompanyIDs []string `env:"COMPANY_IDS"   envDefault:"12"             envSeparator:","`
	DBPath     string   `env:"DB_PATH"       envDefault:"data/dashboard.db"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "dashboard HTTP listen address")
	fs.StringVar(&cfg.APIBaseURL, "api-base-url", cfg.APIBaseURL, "remote API base URL")
	fs.StringVar(&cfg.Username, "api-user", cfg.Username, "username sent to the remote auth endpoint")
	fs.Func("company-ids", "comma-separated company IDs listed on the companies page", func(value string) error {
		ids := splitIDs(value)
		if len(ids) == 0 {
			return fmt.Errorf("at least one company id is required")
		}
		cfg.CompanyIDs = ids
		return nil
	})
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "sqlite path for the token cache and change journal")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.CompanyIDs = splitIDs(strings.Join(cfg.CompanyIDs, ","))
	return cfg, nil
}

// Run builds the dashboard server and serves until ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceDashboard, func(ctx context.Context) error {
		srv, err := server.NewServer(ctx, server.Config{
			HTTPAddr:   cfg.HTTPAddr,
			APIBaseURL: cfg.APIBaseURL,
			Username:   cfg.Username,
			CompanyIDs: cfg.CompanyIDs,
			DBPath:     cfg.DBPath,
		})
		if err != nil {
			return fmt.Errorf("init dashboard server: %w", err)
		}
		defer srv.Close()

		if err := srv.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve dashboard: %w", err)
		}
		return nil
	})
}

func splitIDs(value string) []string {
	parts := strings.Split(value, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}
