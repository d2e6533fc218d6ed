package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/imobiliaria/imoveis-api/internal/utils"
)

// DefaultConfigFile is read when Load is given an empty path.
const DefaultConfigFile = "config.yaml"

var (
	ErrInvalidAdminCPF   = errors.New("admin cpf must have exactly 11 digits once punctuation is removed")
	ErrMissingAdminPass  = errors.New("admin password is required")
	ErrInvalidPageSize   = errors.New("page sizes must be positive and default <= max")
	ErrInvalidSessionTTL = errors.New("session ttl must be positive")
	ErrInvalidRateLimit  = errors.New("rate limits and bursts must be positive")
)

var cpfRegex = regexp.MustCompile(`^\d{11}$`)

// AdminConfig describes the single seeded administrator.
type AdminConfig struct {
	CPF      string `yaml:"cpf"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
}

// RateConfig is a per-client token bucket: PerMinute events, Burst capacity.
type RateConfig struct {
	PerMinute int `yaml:"per_minute"`
	Burst     int `yaml:"burst"`
}

// Config holds everything the API server needs at startup.
type Config struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	// SessionTTL is a Go duration string, e.g. "24h".
	SessionTTL      string      `yaml:"session_ttl"`
	DefaultPageSize int         `yaml:"default_page_size"`
	MaxPageSize     int         `yaml:"max_page_size"`
	MaxBodyBytes    int64       `yaml:"max_body_bytes"`
	DatabaseURL     string      `yaml:"database_url"`
	BcryptCost      int         `yaml:"bcrypt_cost"`
	SeedProperties  bool        `yaml:"seed_properties"`
	Admin           AdminConfig `yaml:"admin"`
	LoginRate       RateConfig  `yaml:"login_rate"`
	ContactRate     RateConfig  `yaml:"contact_rate"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Port:            "5050",
		SessionTTL:      "24h",
		DefaultPageSize: 9,
		MaxPageSize:     100,
		MaxBodyBytes:    1 << 20,
		BcryptCost:      10,
		SeedProperties:  true,
		Admin: AdminConfig{
			CPF:      "12345678901",
			Password: "admin123",
			Name:     "Administrador",
			Email:    "admin@marceloalvesimoveis.com.br",
		},
		LoginRate:   RateConfig{PerMinute: 10, Burst: 5},
		ContactRate: RateConfig{PerMinute: 5, Burst: 3},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (a missing file is fine), then environment variables.
//
// Environment variables:
//   - PORT, ALLOWED_ORIGINS (comma separated), SESSION_TTL
//   - DEFAULT_PAGE_SIZE, MAX_PAGE_SIZE, MAX_BODY_BYTES
//   - DATABASE_URL, BCRYPT_COST, SEED_PROPERTIES
//   - ADMIN_CPF, ADMIN_PASSWORD, ADMIN_NAME, ADMIN_EMAIL
//   - LOGIN_RATE_PER_MINUTE, LOGIN_BURST, CONTACT_RATE_PER_MINUTE, CONTACT_BURST
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigFile
	}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.SessionTTL, "SESSION_TTL")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.Admin.CPF, "ADMIN_CPF")
	setString(&c.Admin.Password, "ADMIN_PASSWORD")
	setString(&c.Admin.Name, "ADMIN_NAME")
	setString(&c.Admin.Email, "ADMIN_EMAIL")

	if v := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")); v != "" {
		c.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.AllowedOrigins = append(c.AllowedOrigins, o)
			}
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"DEFAULT_PAGE_SIZE", &c.DefaultPageSize},
		{"MAX_PAGE_SIZE", &c.MaxPageSize},
		{"BCRYPT_COST", &c.BcryptCost},
		{"LOGIN_RATE_PER_MINUTE", &c.LoginRate.PerMinute},
		{"LOGIN_BURST", &c.LoginRate.Burst},
		{"CONTACT_RATE_PER_MINUTE", &c.ContactRate.PerMinute},
		{"CONTACT_BURST", &c.ContactRate.Burst},
	}
	for _, e := range ints {
		if err := setInt(e.dst, e.key); err != nil {
			return err
		}
	}

	if v := strings.TrimSpace(os.Getenv("MAX_BODY_BYTES")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MAX_BODY_BYTES: %w", err)
		}
		c.MaxBodyBytes = n
	}
	if v := strings.TrimSpace(os.Getenv("SEED_PROPERTIES")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SEED_PROPERTIES: %w", err)
		}
		c.SeedProperties = b
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

// Validate checks that the configuration can start a server.
func (c Config) Validate() error {
	if !cpfRegex.MatchString(utils.NormalizeCPF(c.Admin.CPF)) {
		return ErrInvalidAdminCPF
	}
	if c.Admin.Password == "" {
		return ErrMissingAdminPass
	}
	if c.DefaultPageSize <= 0 || c.MaxPageSize <= 0 || c.DefaultPageSize > c.MaxPageSize {
		return ErrInvalidPageSize
	}
	if _, err := c.TTL(); err != nil {
		return err
	}
	if c.LoginRate.PerMinute <= 0 || c.LoginRate.Burst <= 0 ||
		c.ContactRate.PerMinute <= 0 || c.ContactRate.Burst <= 0 {
		return ErrInvalidRateLimit
	}
	return nil
}

// TTL parses SessionTTL.
func (c Config) TTL() (time.Duration, error) {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil {
		return 0, fmt.Errorf("session ttl %q: %w", c.SessionTTL, err)
	}
	if d <= 0 {
		return 0, ErrInvalidSessionTTL
	}
	return d, nil
}

// Addr is the listen address for http.ListenAndServe.
func (c Config) Addr() string {
	return "0.0.0.0:" + c.Port
}
