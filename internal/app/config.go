package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Otel     OtelConfig     `mapstructure:"otel"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Log      LogConfig      `mapstructure:"log"`
}

type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

type DatabaseConfig struct {
	Driver       string        `mapstructure:"driver" validate:"oneof=postgres sqlite"`
	DSN          string        `mapstructure:"dsn" validate:"required"`
	MaxOpenConns int           `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	SlowQuery    time.Duration `mapstructure:"slow_query"`
}

type JWTConfig struct {
	SecretKey  string        `mapstructure:"secret_key" validate:"required,min=16"`
	AccessTTL  time.Duration `mapstructure:"access_ttl" validate:"gt=0"`
	RefreshTTL time.Duration `mapstructure:"refresh_ttl" validate:"gt=0"`
}

type StorageConfig struct {
	Mode          string `mapstructure:"mode" validate:"oneof=local gcs gcs_emulator"`
	LocalDir      string `mapstructure:"local_dir" validate:"required_if=Mode local"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	GCSBucket     string `mapstructure:"gcs_bucket" validate:"required_unless=Mode local"`
	EmulatorHost  string `mapstructure:"emulator_host" validate:"required_if=Mode gcs_emulator"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	URL      string        `mapstructure:"url"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	LockTTL  time.Duration `mapstructure:"lock_ttl" validate:"gt=0"`
}

type CatalogConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type OtelConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	Endpoint     string  `mapstructure:"endpoint"`
	Headers      string  `mapstructure:"headers"`
	Insecure     bool    `mapstructure:"insecure"`
	SamplerRatio float64 `mapstructure:"sampler_ratio" validate:"gte=0,lte=1"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode" validate:"oneof=development production test"`
}

var defaults = map[string]interface{}{
	"app.name":                "quranstudy",
	"app.environment":         "development",
	"app.version":             "dev",
	"http.addr":               ":8080",
	"http.allowed_origins":    []string{},
	"http.shutdown_timeout":   "15s",
	"database.driver":         "sqlite",
	"database.dsn":            "file:quranstudy.db?cache=shared",
	"database.max_open_conns": 20,
	"database.max_idle_conns": 5,
	"database.slow_query":     "500ms",
	"jwt.secret_key":          "",
	"jwt.access_ttl":          "1h",
	"jwt.refresh_ttl":         "720h",
	"storage.mode":            "local",
	"storage.local_dir":       "storage/app/public",
	"storage.public_base_url": "/storage",
	"storage.gcs_bucket":      "",
	"storage.emulator_host":   "",
	"redis.addr":              "",
	"redis.url":               "",
	"redis.password":          "",
	"redis.db":                0,
	"redis.lock_ttl":          "10s",
	"catalog.cache_ttl":       "10m",
	"otel.enabled":            false,
	"otel.endpoint":           "",
	"otel.headers":            "",
	"otel.insecure":           false,
	"otel.sampler_ratio":      1.0,
	"metrics.enabled":         true,
	"log.mode":                "development",
}

// LoadConfig reads the optional YAML file at path, then environment overrides
// (HTTP_ADDR, DATABASE_DSN, JWT_SECRET_KEY, ...), then validates the result.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	c.Storage.Mode = strings.ToLower(strings.TrimSpace(c.Storage.Mode))
	c.Log.Mode = strings.ToLower(strings.TrimSpace(c.Log.Mode))
	// env overrides arrive as one comma separated string
	if len(c.HTTP.AllowedOrigins) == 1 && strings.Contains(c.HTTP.AllowedOrigins[0], ",") {
		c.HTTP.AllowedOrigins = strings.Split(c.HTTP.AllowedOrigins[0], ",")
	}
	origins := c.HTTP.AllowedOrigins[:0]
	for _, o := range c.HTTP.AllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.HTTP.AllowedOrigins = origins
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports every failing rule as "section.field: rule".
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		msgs = append(msgs, fmt.Sprintf("%s: %s", strings.TrimPrefix(fe.Namespace(), "Config."), rule))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func (c Config) RedisEnabled() bool {
	return strings.TrimSpace(c.Redis.Addr) != "" || strings.TrimSpace(c.Redis.URL) != ""
}
