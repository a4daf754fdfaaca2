package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DataSourceMemory    = "memory"
	DataSourceFirestore = "firestore"
)

type Config struct {
	Port          string
	ProjectID     string
	LogLevel      string
	DataSource    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
	AuthEnabled   bool
	Currency      string

	RevenueTarget   decimal.Decimal
	CustomersTarget int
	SalesTarget     int
}

// New reads the configuration from the environment. Malformed numeric
// values are reported rather than silently defaulted.
func New() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		ProjectID:     os.Getenv("PROJECTID"),
		LogLevel:      getEnv("LOGLEVEL", "info"),
		DataSource:    strings.ToLower(getEnv("DATASOURCE", DataSourceMemory)),
		RedisAddr:     os.Getenv("REDISADDR"),
		RedisPassword: os.Getenv("REDISPASSWORD"),
		Currency:      getEnv("CURRENCY", "$"),
	}

	var err error
	if cfg.RedisDB, err = getInt("REDISDB", 0); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration("CACHETTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.AuthEnabled, err = getBool("AUTHENABLED", false); err != nil {
		return nil, err
	}
	if cfg.RevenueTarget, err = getDecimal("REVENUETARGET"); err != nil {
		return nil, err
	}
	if cfg.CustomersTarget, err = getInt("CUSTOMERSTARGET", 0); err != nil {
		return nil, err
	}
	if cfg.SalesTarget, err = getInt("SALESTARGET", 0); err != nil {
		return nil, err
	}

	switch cfg.DataSource {
	case DataSourceMemory:
	case DataSourceFirestore:
		if cfg.ProjectID == "" {
			return nil, fmt.Errorf("PROJECTID is required when DATASOURCE=%s", DataSourceFirestore)
		}
	default:
		return nil, fmt.Errorf("DATASOURCE must be %q or %q, got %q", DataSourceMemory, DataSourceFirestore, cfg.DataSource)
	}
	if cfg.AuthEnabled && cfg.ProjectID == "" {
		return nil, fmt.Errorf("PROJECTID is required when AUTHENABLED is set")
	}

	return cfg, nil
}

// ---- Helpers ----
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, v)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, v)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s must be a duration such as 5m, got %q", key, v)
	}
	return d, nil
}

func getDecimal(key string) (decimal.Decimal, error) {
	v := os.Getenv(key)
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must be a non-negative amount, got %q", key, v)
	}
	return d, nil
}
