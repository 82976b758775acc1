package config

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds application configuration.
type Config struct {
	Port              int
	DBPath            string
	RecentLimit       int
	ReconcileInterval time.Duration
	ShutdownTimeout   time.Duration
}

// duration lets TOML files spell intervals as "5m" or "30s".
type duration time.Duration

func (d *duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	*d = duration(v)
	return err
}

// fileConfig is the TOML file shape. Zero values mean "not set".
type fileConfig struct {
	Port              int      `toml:"port"`
	DBPath            string   `toml:"db_path"`
	RecentLimit       int      `toml:"recent_limit"`
	ReconcileInterval duration `toml:"reconcile_interval"`
	ShutdownTimeout   duration `toml:"shutdown_timeout"`
}

// DefaultDBPath returns the default database path using XDG_DATA_HOME.
func DefaultDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "hirehub", "hirehub.db")
}

// Load builds Config from flags, an optional TOML file and the
// environment. Precedence: flags < file < environment.
func Load() *Config {
	cfg := &Config{
		RecentLimit:       10,
		ReconcileInterval: 5 * time.Minute,
		ShutdownTimeout:   10 * time.Second,
	}

	var file string
	flag.StringVar(&file, "config", "", "TOML config file")
	flag.IntVar(&cfg.Port, "port", 8080, "HTTP server port")
	flag.StringVar(&cfg.DBPath, "db", DefaultDBPath(), "SQLite database path")
	flag.IntVar(&cfg.RecentLimit, "recent-limit", cfg.RecentLimit, "Rows in dashboard recent lists")
	flag.DurationVar(&cfg.ReconcileInterval, "reconcile-interval", cfg.ReconcileInterval, "Counter reconciliation interval")
	flag.Parse()

	if file != "" {
		if err := FromFile(file, cfg); err != nil {
			log.Fatalf("config file %s: %v", file, err)
		}
	}

	applyEnv(cfg)
	return cfg
}

// FromFile overlays cfg with the values set in a TOML file.
func FromFile(path string, cfg *Config) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return err
	}
	if fc.Port != 0 {
		cfg.Port = fc.Port
	}
	if fc.DBPath != "" {
		cfg.DBPath = fc.DBPath
	}
	if fc.RecentLimit != 0 {
		cfg.RecentLimit = fc.RecentLimit
	}
	if fc.ReconcileInterval != 0 {
		cfg.ReconcileInterval = time.Duration(fc.ReconcileInterval)
	}
	if fc.ShutdownTimeout != 0 {
		cfg.ShutdownTimeout = time.Duration(fc.ShutdownTimeout)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if port := os.Getenv("HIREHUB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if db := os.Getenv("HIREHUB_DB"); db != "" {
		cfg.DBPath = db
	}
	if limit := os.Getenv("HIREHUB_RECENT_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			cfg.RecentLimit = n
		}
	}
	if iv := os.Getenv("HIREHUB_RECONCILE_INTERVAL"); iv != "" {
		if d, err := time.ParseDuration(iv); err == nil {
			cfg.ReconcileInterval = d
		}
	}
}
