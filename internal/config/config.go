package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type BotConfig struct {
	Token    string `yaml:"token"`
	Username string `yaml:"username"`
	Workers  int    `yaml:"workers"` // concurrent update handlers
}

type ManagerConfig struct {
	Token string `yaml:"token"` // empty disables the manager bot
}

type BackendConfig struct {
	URL        string        `yaml:"url"`
	APIKey     string        `yaml:"api_key"`
	CaptchaURL string        `yaml:"captcha_url"`
	Timeout    time.Duration `yaml:"timeout"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type HTTPConfig struct {
	Port int `yaml:"port"` // health + metrics
}

type SupervisorConfig struct {
	RestartInterval time.Duration `yaml:"restart_interval"`
}

type Config struct {
	Bot        BotConfig        `yaml:"bot"`
	Manager    ManagerConfig    `yaml:"manager"`
	Backend    BackendConfig    `yaml:"backend"`
	Redis      RedisConfig      `yaml:"redis"`
	Log        LogConfig        `yaml:"log"`
	HTTP       HTTPConfig       `yaml:"http"`
	Supervisor SupervisorConfig `yaml:"supervisor"`
	Locale     string           `yaml:"locale"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads and validates the YAML config file. Defaults keep a
// minimal file workable; only credentials and addresses are required.
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Bot.Workers <= 0 {
		cfg.Bot.Workers = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Backend.Timeout <= 0 {
		cfg.Backend.Timeout = 15 * time.Second
	}
	if cfg.Supervisor.RestartInterval <= 0 {
		cfg.Supervisor.RestartInterval = time.Second
	}
	if cfg.HTTP.Port <= 0 {
		cfg.HTTP.Port = 8090
	}
	if cfg.Locale == "" {
		cfg.Locale = "en"
	}

	// Minimal validation
	if cfg.Bot.Token == "" {
		return nil, errors.New("bot.token is required")
	}
	if cfg.Bot.Username == "" {
		return nil, errors.New("bot.username is required")
	}
	if cfg.Backend.URL == "" {
		return nil, errors.New("backend.url is required")
	}
	if cfg.Redis.Addr == "" {
		return nil, errors.New("redis.addr is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
