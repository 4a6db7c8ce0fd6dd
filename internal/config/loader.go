package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the runtime configuration of the rehearsal service.
type Config struct {
	HTTPPort           int           `yaml:"http_port"`
	SQLiteDSN          string        `yaml:"sqlite_dsn"`
	SessionTTL         time.Duration `yaml:"session_ttl"`
	RedisAddr          string        `yaml:"redis_addr"`
	RedisPassword      string        `yaml:"redis_password"`
	RedisDB            int           `yaml:"redis_db"`
	PredictionCacheTTL time.Duration `yaml:"prediction_cache_ttl"`
	ReminderLead       time.Duration `yaml:"reminder_lead"`
	ReminderSchedule   string        `yaml:"reminder_schedule"`
	DefaultTimezone    string        `yaml:"default_timezone"`
}

// Load builds the configuration from an optional YAML file named by
// REHEARSAL_CONFIG_FILE, then applies environment variable overrides.
// Environment values always win over file values.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:           8080,
		SQLiteDSN:          "file:rehearsal.db?_foreign_keys=on",
		SessionTTL:         24 * time.Hour,
		PredictionCacheTTL: 30 * time.Second,
		ReminderLead:       24 * time.Hour,
		ReminderSchedule:   "@hourly",
		DefaultTimezone:    "UTC",
	}

	if path := strings.TrimSpace(os.Getenv("REHEARSAL_CONFIG_FILE")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("REHEARSAL_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "REHEARSAL_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("REHEARSAL_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("REHEARSAL_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "REHEARSAL_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if addr := strings.TrimSpace(os.Getenv("REHEARSAL_REDIS_ADDR")); addr != "" {
		cfg.RedisAddr = addr
	}
	if password := os.Getenv("REHEARSAL_REDIS_PASSWORD"); password != "" {
		cfg.RedisPassword = password
	}
	if dbValue := strings.TrimSpace(os.Getenv("REHEARSAL_REDIS_DB")); dbValue != "" {
		db, err := strconv.Atoi(dbValue)
		if err != nil || db < 0 {
			invalid = append(invalid, "REHEARSAL_REDIS_DB")
		} else {
			cfg.RedisDB = db
		}
	}

	if ttlValue := strings.TrimSpace(os.Getenv("REHEARSAL_PREDICTION_CACHE_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "REHEARSAL_PREDICTION_CACHE_TTL")
		} else {
			cfg.PredictionCacheTTL = ttl
		}
	}

	if leadValue := strings.TrimSpace(os.Getenv("REHEARSAL_REMINDER_LEAD")); leadValue != "" {
		lead, err := time.ParseDuration(leadValue)
		if err != nil || lead <= 0 {
			invalid = append(invalid, "REHEARSAL_REMINDER_LEAD")
		} else {
			cfg.ReminderLead = lead
		}
	}

	if schedule := strings.TrimSpace(os.Getenv("REHEARSAL_REMINDER_SCHEDULE")); schedule != "" {
		cfg.ReminderSchedule = schedule
	}

	if zone := strings.TrimSpace(os.Getenv("REHEARSAL_DEFAULT_TIMEZONE")); zone != "" {
		cfg.DefaultTimezone = zone
	}
	if _, err := time.LoadLocation(cfg.DefaultTimezone); err != nil {
		invalid = append(invalid, "REHEARSAL_DEFAULT_TIMEZONE")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid configuration values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
