package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix = "CAFE_"

	DriverCSV      = "csv"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		Currency string `koanf:"currency"`
	} `koanf:"app"`

	Log struct {
		Level      string `koanf:"level"`
		File       string `koanf:"file"`
		MaxSizeMB  int    `koanf:"max_size_mb"`
		MaxBackups int    `koanf:"max_backups"`
		MaxAgeDays int    `koanf:"max_age_days"`
	} `koanf:"log"`

	Storage struct {
		Driver        string        `koanf:"driver"`
		CSVPath       string        `koanf:"csv_path"`
		PostgresDSN   string        `koanf:"postgres_dsn"`
		RedisAddr     string        `koanf:"redis_addr"`
		RedisPassword string        `koanf:"redis_password"`
		RedisDB       int           `koanf:"redis_db"`
		RedisKey      string        `koanf:"redis_key"`
		StartTimeout  time.Duration `koanf:"start_timeout"`
	} `koanf:"storage"`

	Receipts struct {
		Dir string `koanf:"dir"`
		QR  bool   `koanf:"qr"`
	} `koanf:"receipts"`

	Metrics struct {
		Textfile string `koanf:"textfile"`
	} `koanf:"metrics"`
}

func defaults() map[string]any {
	return map[string]any{
		"app.name":              "cafe",
		"app.currency":          "Rs.",
		"log.level":             "info",
		"log.file":              "logs/cafe.log",
		"log.max_size_mb":       10,
		"log.max_backups":       3,
		"log.max_age_days":      7,
		"storage.driver":        DriverCSV,
		"storage.csv_path":      "menu.csv",
		"storage.redis_key":     "cafe:menu",
		"storage.start_timeout": "5s",
	}
}

// Load layers defaults, an optional YAML file at path and CAFE_* environment
// variables (nested keys use "__", e.g. CAFE_STORAGE__DRIVER). A .env file
// in the working directory is read first when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Config{}, fmt.Errorf("load %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("stat %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverCSV:
		if c.Storage.CSVPath == "" {
			return fmt.Errorf("storage.csv_path required for csv driver")
		}
	case DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn required for postgres driver")
		}
	case DriverRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("storage.redis_addr required for redis driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("storage.driver %q not supported", c.Storage.Driver)
	}
	if c.Receipts.QR && c.Receipts.Dir == "" {
		return fmt.Errorf("receipts.dir required when receipts.qr is set")
	}
	return nil
}
