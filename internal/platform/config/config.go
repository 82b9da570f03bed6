// Package config assembles service configuration from a .env file, process
// environment, and an optional YAML tuning file. Environment values win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Tuning holds the knobs operators adjust without code changes.
type Tuning struct {
	SchedulerPeriod time.Duration `yaml:"schedulerPeriod"`
	BroadcastPeriod time.Duration `yaml:"broadcastPeriod"`
	DroneSpeed      float64       `yaml:"droneSpeed"`
	CatalogTTL      time.Duration `yaml:"catalogTTL"`
}

type Config struct {
	HTTPAddr string

	DBDriver string
	DBDSN    string
	SeedFile string

	// CatalogURL selects the live HTTP catalog; CatalogFile a local one.
	// URL wins when both are set.
	CatalogURL  string
	CatalogFile string

	// RedisAddr enables the path cache; empty disables it.
	RedisAddr string

	Tuning Tuning
}

// Load reads .env (if present), the optional tuning file named by
// TUNING_FILE, and the environment, in increasing precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr: ":8080",
		DBDriver: "sqlite",
		DBDSN:    "file:dispatch.db?_pragma=journal_mode(WAL)",
		Tuning: Tuning{
			SchedulerPeriod: 5 * time.Second,
			BroadcastPeriod: 250 * time.Millisecond,
			CatalogTTL:      time.Minute,
		},
	}

	if path := os.Getenv("TUNING_FILE"); path != "" {
		if err := loadTuning(path, &cfg.Tuning); err != nil {
			return nil, err
		}
	}

	setString(&cfg.HTTPAddr, "HTTP_ADDR")
	setString(&cfg.DBDriver, "DB_DRIVER")
	setString(&cfg.DBDSN, "DB_DSN")
	setString(&cfg.SeedFile, "SEED_FILE")
	setString(&cfg.CatalogURL, "CATALOG_URL")
	setString(&cfg.CatalogFile, "CATALOG_FILE")
	setString(&cfg.RedisAddr, "REDIS_ADDR")

	if err := setDuration(&cfg.Tuning.SchedulerPeriod, "SCHEDULER_PERIOD"); err != nil {
		return nil, err
	}
	if err := setDuration(&cfg.Tuning.BroadcastPeriod, "BROADCAST_PERIOD"); err != nil {
		return nil, err
	}
	if err := setDuration(&cfg.Tuning.CatalogTTL, "CATALOG_TTL"); err != nil {
		return nil, err
	}
	if err := setFloat(&cfg.Tuning.DroneSpeed, "DRONE_SPEED"); err != nil {
		return nil, err
	}

	if cfg.CatalogURL == "" && cfg.CatalogFile == "" {
		return nil, fmt.Errorf("config: one of CATALOG_URL or CATALOG_FILE is required")
	}
	return cfg, nil
}

func loadTuning(path string, t *Tuning) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: tuning file: %w", err)
	}
	if err := yaml.Unmarshal(raw, t); err != nil {
		return fmt.Errorf("config: tuning file %s: %w", path, err)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = d
	return nil
}

func setFloat(dst *float64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = f
	return nil
}
