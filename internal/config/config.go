package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	defaultAddress         = ":4001"
	defaultDriver          = "mysql"
	defaultAnalytics       = "sql"
	defaultBillingInterval = time.Hour
	defaultTimezone        = "Asia/Almaty"
)

type Config struct {
	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Analytics struct {
		Backend string `yaml:"backend"`
	} `yaml:"analytics"`
	Billing struct {
		Interval time.Duration `yaml:"interval"`
	} `yaml:"billing"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`
	Timezone string `yaml:"timezone"`
}

func defaults() Config {
	var cfg Config
	cfg.Server.Address = defaultAddress
	cfg.Database.Driver = defaultDriver
	cfg.Analytics.Backend = defaultAnalytics
	cfg.Billing.Interval = defaultBillingInterval
	cfg.Timezone = defaultTimezone
	return cfg
}

// LoadConfig reads the YAML file at path (if any), then applies environment
// overrides and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("unmarshal config data: %w", err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		if !strings.HasPrefix(v, ":") {
			v = ":" + v
		}
		cfg.Server.Address = v
	}
	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.URL, "DATABASE_URL")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Analytics.Backend, "ANALYTICS_BACKEND")
	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setString(&cfg.Timezone, "TIMEZONE")

	if v, err := readIntEnv("REDIS_DB"); err != nil {
		return fmt.Errorf("parse REDIS_DB: %w", err)
	} else if v != nil {
		cfg.Redis.DB = *v
	}

	if v, err := readIntEnv("BILLING_INTERVAL_SECONDS"); err != nil {
		return fmt.Errorf("parse BILLING_INTERVAL_SECONDS: %w", err)
	} else if v != nil {
		cfg.Billing.Interval = time.Duration(*v) * time.Second
	}

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.CORS.AllowedOrigins = origins
	}
	return nil
}

func setString(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func readIntEnv(name string) (*int, error) {
	val := os.Getenv(name)
	if val == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(val)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Database.Driver) {
	case "mysql", "mariadb", "pgx", "postgres", "postgresql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database url is required")
	}
	switch c.Analytics.Backend {
	case "sql":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis analytics backend requires redis.addr")
		}
	default:
		return fmt.Errorf("unsupported analytics backend %q", c.Analytics.Backend)
	}
	if c.Billing.Interval < 0 {
		return fmt.Errorf("billing interval must not be negative")
	}
	return nil
}
