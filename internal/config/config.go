package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverRemote   = "remote"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
		Mode string `yaml:"mode"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		File   string `yaml:"file"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Store struct {
		Driver         string `yaml:"driver"`
		RemoteURL      string `yaml:"remote_url"`
		RemoteUsername string `yaml:"remote_username"`
		RemotePassword string `yaml:"remote_password"`
		Timeout        string `yaml:"timeout"`
	} `yaml:"store"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	MySQL struct {
		DSN string `yaml:"dsn"`
	} `yaml:"mysql"`
	Quiz struct {
		Topic         string `yaml:"topic"`
		QuestionCount int    `yaml:"question_count"`
		RevealDelay   string `yaml:"reveal_delay"`
		TTL           string `yaml:"ttl"`
	} `yaml:"quiz"`
	Admin struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"admin"`
	RabbitMQ struct {
		URL   string `yaml:"url"`
		Queue string `yaml:"queue"`
	} `yaml:"rabbitmq"`
}

// Load reads YAML config from path and fills in defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return cfg, cfg.Validate()
}

// Default is the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every unset value.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Store.Driver == "" {
		switch {
		case c.Postgres.URL != "":
			c.Store.Driver = DriverPostgres
		case c.MySQL.DSN != "":
			c.Store.Driver = DriverMySQL
		default:
			c.Store.Driver = DriverMemory
		}
	}
	if c.Store.Timeout == "" {
		c.Store.Timeout = "5s"
	}
	if c.Redis.TTL == "" {
		c.Redis.TTL = "10m"
	}
	if c.Quiz.Topic == "" {
		c.Quiz.Topic = "AI Literacy"
	}
	if c.Quiz.QuestionCount == 0 {
		c.Quiz.QuestionCount = 6
	}
	if c.Quiz.RevealDelay == "" {
		c.Quiz.RevealDelay = "1200ms"
	}
	if c.Quiz.TTL == "" {
		c.Quiz.TTL = "10m"
	}
	if c.Admin.Username == "" {
		c.Admin.Username = "Admin"
	}
	if c.Admin.Password == "" {
		c.Admin.Password = "Reset@123"
	}
	if c.RabbitMQ.Queue == "" {
		c.RabbitMQ.Queue = "participant.events"
	}
}

// Validate checks that the selected store driver has what it needs.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("store driver %q requires postgres.url", c.Store.Driver)
		}
	case DriverMySQL:
		if c.MySQL.DSN == "" {
			return fmt.Errorf("store driver %q requires mysql.dsn", c.Store.Driver)
		}
	case DriverRemote:
		if c.Store.RemoteURL == "" {
			return fmt.Errorf("store driver %q requires store.remote_url", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Quiz.QuestionCount < 0 {
		return fmt.Errorf("quiz.question_count must not be negative")
	}
	return nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
