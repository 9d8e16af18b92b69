package dashboard

import (
	"flag"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "localhost:8090" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.APIBaseURL != "https://test-task-api.allfuneral.com/" {
		t.Fatalf("expected default api base url, got %q", cfg.APIBaseURL)
	}
	if cfg.Username != "USERNAME" {
		t.Fatalf("expected default api user, got %q", cfg.Username)
	}
	if diff := cmp.Diff([]string{"12"}, cfg.CompanyIDs); diff != "" {
		t.Fatalf("company ids mismatch (-want +got):\n%s", diff)
	}
	if cfg.DBPath != "data/dashboard.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
}

func TestParseConfigEnv(t *testing.T) {
	t.Setenv("AFS_DASHBOARD_HTTP_ADDR", "env-addr")
	t.Setenv("AFS_DASHBOARD_COMPANY_IDS", "12, 13,,14")

	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "env-addr" {
		t.Fatalf("expected env http addr, got %q", cfg.HTTPAddr)
	}
	if diff := cmp.Diff([]string{"12", "13", "14"}, cfg.CompanyIDs); diff != "" {
		t.Fatalf("company ids mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("AFS_DASHBOARD_HTTP_ADDR", "env-addr")
	t.Setenv("AFS_DASHBOARD_API_USER", "env-user")
	t.Setenv("AFS_DASHBOARD_COMPANY_IDS", "99")

	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	args := []string{
		"-http-addr", "flag-addr",
		"-api-base-url", "http://flag-api/",
		"-api-user", "flag-user",
		"-company-ids", "12,13",
		"-db-path", "flag.db",
	}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	want := Config{
		HTTPAddr:   "flag-addr",
		APIBaseURL: "http://flag-api/",
		Username:   "flag-user",
		CompanyIDs: []string{"12", "13"},
		DBPath:     "flag.db",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseConfigRejectsEmptyCompanyIDs(t *testing.T) {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, err := ParseConfig(fs, []string{"-company-ids", " , "}); err == nil {
		t.Fatal("expected error for empty company ids")
	}
}
