package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/imobiliaria/imoveis-api/internal/config"
)

var envKeys = []string{
	"PORT", "ALLOWED_ORIGINS", "SESSION_TTL", "DEFAULT_PAGE_SIZE", "MAX_PAGE_SIZE",
	"MAX_BODY_BYTES", "DATABASE_URL", "BCRYPT_COST", "SEED_PROPERTIES",
	"ADMIN_CPF", "ADMIN_PASSWORD", "ADMIN_NAME", "ADMIN_EMAIL",
	"LOGIN_RATE_PER_MINUTE", "LOGIN_BURST", "CONTACT_RATE_PER_MINUTE", "CONTACT_BURST",
}

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func missingFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.yaml")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load(missingFile(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "5050" {
		t.Errorf("expected default port 5050, got %q", cfg.Port)
	}
	if cfg.DefaultPageSize != 9 {
		t.Errorf("expected default page size 9, got %d", cfg.DefaultPageSize)
	}
	ttl, err := cfg.TTL()
	if err != nil || ttl != 24*time.Hour {
		t.Errorf("expected 24h ttl, got %v (%v)", ttl, err)
	}
	if cfg.Admin.CPF != "12345678901" {
		t.Errorf("expected default admin cpf, got %q", cfg.Admin.CPF)
	}
	if !cfg.SeedProperties {
		t.Error("expected seeding enabled by default")
	}
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlDoc := []byte(`port: "8080"
session_ttl: 2h
max_page_size: 50
allowed_origins:
  - https://example.com
admin:
  cpf: "98765432100"
  password: s3cret
login_rate:
  per_minute: 3
  burst: 1
`)
	if err := os.WriteFile(path, yamlDoc, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected env to override port, got %q", cfg.Port)
	}
	if cfg.MaxPageSize != 50 {
		t.Errorf("expected max page size from yaml, got %d", cfg.MaxPageSize)
	}
	if cfg.Admin.CPF != "98765432100" || cfg.Admin.Password != "s3cret" {
		t.Errorf("expected admin from yaml, got %+v", cfg.Admin)
	}
	if cfg.Admin.Name != "Administrador" {
		t.Errorf("expected unset yaml fields to keep defaults, got %q", cfg.Admin.Name)
	}
	if cfg.LoginRate.PerMinute != 3 || cfg.LoginRate.Burst != 1 {
		t.Errorf("unexpected login rate %+v", cfg.LoginRate)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if ttl, _ := cfg.TTL(); ttl != 2*time.Hour {
		t.Errorf("expected 2h ttl, got %v", ttl)
	}
}

func TestLoad_InvalidEnvNumber(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_PAGE_SIZE", "lots")

	if _, err := config.Load(missingFile(t)); err == nil {
		t.Fatal("expected an error for a non-numeric MAX_PAGE_SIZE")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"short cpf", func(c *config.Config) { c.Admin.CPF = "123" }, config.ErrInvalidAdminCPF},
		{"empty password", func(c *config.Config) { c.Admin.Password = "" }, config.ErrMissingAdminPass},
		{"default above max", func(c *config.Config) { c.DefaultPageSize = 200 }, config.ErrInvalidPageSize},
		{"zero burst", func(c *config.Config) { c.ContactRate.Burst = 0 }, config.ErrInvalidRateLimit},
		{"negative ttl", func(c *config.Config) { c.SessionTTL = "-1h" }, config.ErrInvalidSessionTTL},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if err := config.Default().Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestValidate_FormattedCPF(t *testing.T) {
	cfg := config.Default()
	cfg.Admin.CPF = "123.456.789-01"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected punctuated CPF to validate, got %v", err)
	}

	cfg.Admin.CPF = "123.456.789-0"
	if err := cfg.Validate(); !errors.Is(err, config.ErrInvalidAdminCPF) {
		t.Errorf("expected ErrInvalidAdminCPF for 10 digits, got %v", err)
	}
}
