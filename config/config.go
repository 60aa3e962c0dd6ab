package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// ScheduleConfig holds the scheduling engine's tunables.
type ScheduleConfig struct {
	// FetchLimit caps the number of shift rows pulled per query before the
	// date-window filter is applied in application code.
	FetchLimit int `yaml:"fetch_limit"`
	// ApprovalWindowDays is how far forward a recurring request approval
	// projects shifts, counted from the day of approval.
	ApprovalWindowDays int `yaml:"approval_window_days"`
	// WeekStart is the start-of-week convention used by the cascade
	// workload signal: "monday" or "sunday".
	WeekStart string `yaml:"week_start"`
}

// WeekStartDay converts the configured week start to a time.Weekday.
func (s ScheduleConfig) WeekStartDay() time.Weekday {
	if strings.EqualFold(s.WeekStart, "sunday") {
		return time.Sunday
	}
	return time.Monday
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	if cfg.Schedule.FetchLimit <= 0 {
		cfg.Schedule.FetchLimit = 500
	}
	if cfg.Schedule.ApprovalWindowDays <= 0 {
		cfg.Schedule.ApprovalWindowDays = 28
	}
	switch strings.ToLower(cfg.Schedule.WeekStart) {
	case "", "monday", "sunday":
	default:
		return nil, fmt.Errorf("schedule.week_start must be monday or sunday, got %q", cfg.Schedule.WeekStart)
	}

	return &cfg, nil
}
