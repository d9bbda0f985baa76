package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/labstack/gommon/random"
)

// Config represents the complete configuration
type Config struct {
	App        AppConfig        `toml:"app"`
	Store      StoreConfig      `toml:"store"`
	Redis      RedisConfig      `toml:"redis"`
	Translator TranslatorConfig `toml:"translator"`
	Wipe       WipeConfig       `toml:"wipe"`
	Analytics  AnalyticsConfig  `toml:"analytics"`
	Archive    ArchiveConfig    `toml:"archive"`
	Jobs       JobsConfig       `toml:"jobs"`
}

type AppConfig struct {
	Port          int    `toml:"port"`
	Env           string `toml:"env"`
	SessionSecret string `toml:"session_secret"`
}

// StoreConfig selects the persistence backend: "file" or "postgres".
type StoreConfig struct {
	Driver         string `toml:"driver"`
	DataDir        string `toml:"data_dir"`
	DatabaseURL    string `toml:"database_url"`
	MigrationsPath string `toml:"migrations_path"`
}

// RedisConfig is optional; an empty address keeps cache state in memory.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type TranslatorConfig struct {
	APIKey  string   `toml:"api_key"`
	BaseURL string   `toml:"base_url"`
	Model   string   `toml:"model"`
	Timeout Duration `toml:"timeout"`
}

// WipeConfig.ConfirmTTL of zero keeps a pending wipe until it is consumed.
type WipeConfig struct {
	ConfirmTTL Duration `toml:"confirm_ttl"`
}

type AnalyticsConfig struct {
	CacheTTL Duration `toml:"cache_ttl"`
}

// ArchiveConfig points at the MinIO bucket reports are archived to. An empty
// endpoint disables archiving.
type ArchiveConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	UseSSL    bool   `toml:"use_ssl"`
	Bucket    string `toml:"bucket"`
}

type JobsConfig struct {
	Enabled          bool     `toml:"enabled"`
	LowStockInterval Duration `toml:"low_stock_interval"`
	ArchiveInterval  Duration `toml:"archive_interval"`
}

// Duration lets TOML files use strings such as "30s" or "24h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Port: 5000,
			Env:  "development",
		},
		Store: StoreConfig{
			Driver:         "file",
			DataDir:        "data",
			MigrationsPath: "file://migrations",
		},
		Translator: TranslatorConfig{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4.1-mini",
			Timeout: Duration{30 * time.Second},
		},
		Analytics: AnalyticsConfig{
			CacheTTL: Duration{5 * time.Minute},
		},
		Archive: ArchiveConfig{
			Bucket: "stocky-reports",
		},
		Jobs: JobsConfig{
			Enabled:          true,
			LowStockInterval: Duration{30 * time.Minute},
			ArchiveInterval:  Duration{24 * time.Hour},
		},
	}
}

// Load reads the optional TOML file and then applies environment overrides.
func Load(filename string) (*Config, error) {
	cfg := Default()
	if filename != "" {
		if _, err := toml.DecodeFile(filename, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if cfg.App.SessionSecret == "" {
		cfg.App.SessionSecret = random.String(32)
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "file":
		if c.Store.DataDir == "" {
			return fmt.Errorf("store.data_dir is required for the file driver")
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("store.database_url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.App.Port)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.App.Env, "APP_ENV")
	setString(&c.App.SessionSecret, "SESSION_SECRET")
	if err := setInt(&c.App.Port, "PORT"); err != nil {
		return err
	}

	setString(&c.Store.Driver, "STORE_DRIVER")
	setString(&c.Store.DataDir, "DATA_DIR")
	setString(&c.Store.DatabaseURL, "DATABASE_URL")
	setString(&c.Store.MigrationsPath, "MIGRATIONS_PATH")

	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	if err := setInt(&c.Redis.DB, "REDIS_DB"); err != nil {
		return err
	}

	// OPENAI_INVENTORY_KEY is the variable older deployments were set up with.
	setString(&c.Translator.APIKey, "OPENAI_INVENTORY_KEY")
	setString(&c.Translator.APIKey, "TRANSLATOR_API_KEY")
	setString(&c.Translator.BaseURL, "TRANSLATOR_BASE_URL")
	setString(&c.Translator.Model, "TRANSLATOR_MODEL")
	if err := setDuration(&c.Translator.Timeout, "TRANSLATOR_TIMEOUT"); err != nil {
		return err
	}

	if err := setDuration(&c.Wipe.ConfirmTTL, "WIPE_CONFIRM_TTL"); err != nil {
		return err
	}
	if err := setDuration(&c.Analytics.CacheTTL, "ANALYTICS_CACHE_TTL"); err != nil {
		return err
	}

	setString(&c.Archive.Endpoint, "MINIO_ENDPOINT")
	setString(&c.Archive.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.Archive.SecretKey, "MINIO_SECRET_KEY")
	setString(&c.Archive.Bucket, "MINIO_BUCKET")
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		c.Archive.UseSSL = v == "true"
	}

	if v := os.Getenv("JOBS_ENABLED"); v != "" {
		c.Jobs.Enabled = v == "true"
	}
	if err := setDuration(&c.Jobs.LowStockInterval, "JOBS_LOW_STOCK_INTERVAL"); err != nil {
		return err
	}
	return setDuration(&c.Jobs.ArchiveInterval, "JOBS_ARCHIVE_INTERVAL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	return dst.UnmarshalText([]byte(v))
}
