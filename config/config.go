package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MinJWTKeyLen is the shortest HS512 signing key accepted from the environment.
const MinJWTKeyLen = 32

type Config struct {
	App struct {
		Env         string   `env:"APP_ENV" envDefault:"development"`
		Port        string   `env:"PORT" envDefault:"8080"`
		GRPCPort    string   `env:"GRPC_PORT" envDefault:"6969"`
		BaseURL     string   `env:"BASE_URL" envDefault:"http://localhost:8080"`
		ContactURL  string   `env:"CONTACT_URL" envDefault:"http://localhost:3000/contact"`
		CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
	}
	Mongo struct {
		URI      string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
		Database string `env:"MONGO_DB" envDefault:"hackathon"`
	}
	Event struct {
		TeamCapacity int   `env:"TEAM_CAPACITY" envDefault:"40"`
		MaxUploadMB  int64 `env:"MAX_UPLOAD_MB" envDefault:"30"`
	}
	Admin struct {
		Username     string `env:"ADMIN_USERNAME" envDefault:"admin"`
		Password     string `env:"ADMIN_PASSWORD"`
		PasswordHash string `env:"ADMIN_PASSWORD_HASH"`
		JWTKey       string `env:"JWT_KEY"`
	}
	Mail struct {
		Domain string `env:"MAILGUN_DOMAIN"`
		APIKey string `env:"MAILGUN_API_KEY"`
		EU     bool   `env:"MAILGUN_EU" envDefault:"false"`
		From   string `env:"MAIL_FROM" envDefault:"Hackathon <noreply@localhost>"`
	}
	RabbitMQ struct {
		ConnString string `env:"RABBITMQ_CONNSTRING"`
	}
	Redis struct {
		Addr     string `env:"REDIS_ADDR"`
		Password string `env:"REDIS_PASSWORD"`
	}
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.Event.TeamCapacity < 1 {
		return nil, fmt.Errorf("TEAM_CAPACITY must be positive, got %d", cfg.Event.TeamCapacity)
	}
	if cfg.Admin.Password == "" && cfg.Admin.PasswordHash == "" {
		return nil, fmt.Errorf("one of ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required")
	}
	if cfg.Admin.JWTKey == "" {
		return nil, fmt.Errorf("JWT_KEY is required")
	}
	if len(cfg.Admin.JWTKey) < MinJWTKeyLen {
		return nil, fmt.Errorf("JWT_KEY must be at least %d bytes, got %d", MinJWTKeyLen, len(cfg.Admin.JWTKey))
	}
	cfg.App.BaseURL = strings.TrimRight(cfg.App.BaseURL, "/")

	return cfg, nil
}

func (c *Config) Production() bool {
	return c.App.Env == "production"
}

func (c *Config) MaxUploadBytes() int64 {
	return c.Event.MaxUploadMB * 1024 * 1024
}
