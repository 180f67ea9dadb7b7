package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App     AppConfig     `yaml:"app"`
	Server  ServerConfig  `yaml:"server"`
	Remote  RemoteConfig  `yaml:"remote"`
	Session SessionConfig `yaml:"session"`
	Health  HealthConfig  `yaml:"health"`
	Logging LoggingConfig `yaml:"logging"`
}

type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Env     string `yaml:"env"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// RemoteConfig points at the exam service the console administers.
type RemoteConfig struct {
	BaseURL string        `yaml:"base_url" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout"`
}

// SessionConfig selects where the bearer token is persisted between runs.
// The file backend mirrors the single localStorage key the web console used.
type SessionConfig struct {
	Store     string      `yaml:"store" validate:"oneof=file redis"`
	TokenFile string      `yaml:"token_file"`
	Redis     RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TokenKey string `yaml:"token_key"`
}

type HealthConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.applyDefaults()

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Remote.Timeout == 0 {
		c.Remote.Timeout = 60 * time.Second
	}
	if c.Session.Store == "" {
		c.Session.Store = "file"
	}
	if c.Session.TokenFile == "" {
		c.Session.TokenFile = ".admin_token"
	}
	if c.Session.Redis.TokenKey == "" {
		c.Session.Redis.TokenKey = "admin_token"
	}
	if c.Health.Interval == 0 {
		c.Health.Interval = 5 * time.Second
	}
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Session.Redis.Host, c.Session.Redis.Port)
}
