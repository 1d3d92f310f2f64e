package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Log      LogConfig      `yaml:"log"`
	Sweeper  SweeperConfig  `yaml:"sweeper"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	Mode            string        `yaml:"mode"` // debug, release, test
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver         string        `yaml:"driver"` // sqlite, mysql, postgres, mongodb
	DSN            string        `yaml:"dsn"`
	Name           string        `yaml:"name"` // database name, mongodb only
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	ExpireHour int    `yaml:"expire_hour"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// SweeperConfig controls the periodic removal of tasks whose project is gone.
type SweeperConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"` // cron spec, e.g. "@every 30m"
}

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg.overrideFromEnv()
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "3001",
			Mode:            "debug",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:         "sqlite",
			DSN:            "taskhub.db",
			Name:           "taskhub",
			ConnectTimeout: 10 * time.Second,
		},
		JWT: JWTConfig{
			Secret:     "taskhub-secret-key-change-in-production",
			ExpireHour: 7 * 24,
		},
		Log: LogConfig{
			Level: "info",
		},
		Sweeper: SweeperConfig{
			Enabled:  true,
			Schedule: "@every 30m",
		},
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		c.Database.Name = name
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if hours := os.Getenv("JWT_EXPIRE_HOUR"); hours != "" {
		if h, err := strconv.Atoi(hours); err == nil && h > 0 {
			c.JWT.ExpireHour = h
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if schedule := os.Getenv("SWEEPER_SCHEDULE"); schedule != "" {
		c.Sweeper.Schedule = schedule
	}
}

// TokenTTL is the lifetime of an issued credential.
func (c *JWTConfig) TokenTTL() time.Duration {
	if c.ExpireHour <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(c.ExpireHour) * time.Hour
}

func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = "config.yaml"
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}
