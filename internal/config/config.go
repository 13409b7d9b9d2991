package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/viniciusfeitosaa/gymapp/internal/pkg/validation"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string `yaml:"port" env:"PORT"`
		Mode            string `yaml:"mode" env:"SERVER_MODE"`
		FrontendURL     string `yaml:"frontend_url" env:"FRONTEND_URL"`
		ShutdownTimeout string `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		URL             string `yaml:"url" env:"DATABASE_URL"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Asaas struct {
		BaseURL        string  `yaml:"base_url" env:"ASAAS_API_URL"`
		APIKey         string  `yaml:"api_key" env:"ASAAS_API_KEY"`
		WebhookToken   string  `yaml:"webhook_token" env:"ASAAS_WEBHOOK_TOKEN"`
		PlanName       string  `yaml:"plan_name" env:"ASAAS_PLAN_NAME"`
		PlanValue      float64 `yaml:"plan_value" env:"ASAAS_PLAN_VALUE"`
		RequestTimeout string  `yaml:"request_timeout" env:"ASAAS_REQUEST_TIMEOUT"`
		LookupRetries  int     `yaml:"lookup_retries" env:"ASAAS_LOOKUP_RETRIES"`
	} `yaml:"asaas"`

	AccessCode struct {
		Length      int `yaml:"length" env:"ACCESS_CODE_LENGTH"`
		MaxAttempts int `yaml:"max_attempts" env:"ACCESS_CODE_MAX_ATTEMPTS"`
	} `yaml:"access_code"`

	RateLimit struct {
		StudentLoginPerMinute int    `yaml:"student_login_per_minute" env:"STUDENT_LOGIN_PER_MINUTE"`
		RedisAddr             string `yaml:"redis_addr" env:"REDIS_ADDR"`
		RedisPassword         string `yaml:"redis_password" env:"REDIS_PASSWORD"`
		RedisDB               int    `yaml:"redis_db" env:"REDIS_DB"`
	} `yaml:"rate_limit"`

	Seed struct {
		TrainerName     string `yaml:"trainer_name" env:"SEED_TRAINER_NAME"`
		TrainerEmail    string `yaml:"trainer_email" env:"SEED_TRAINER_EMAIL"`
		TrainerPassword string `yaml:"trainer_password" env:"SEED_TRAINER_PASSWORD"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from defaults, a YAML file, an optional .env file
// and the process environment, in that order of precedence.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// .env only fills variables that are not already exported
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "3001"
	config.Server.Mode = "development"
	config.Server.FrontendURL = "http://localhost:5173"
	config.Server.ShutdownTimeout = "10s"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "gymapp"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"

	// Tokens live for seven days
	config.JWT.AccessTokenExpiration = "168h"
	config.JWT.Issuer = "gymapp"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Asaas.BaseURL = "https://sandbox.asaas.com/api/v3"
	config.Asaas.PlanName = "Plano PRO"
	config.Asaas.PlanValue = 49.90
	config.Asaas.RequestTimeout = "15s"
	config.Asaas.LookupRetries = 3

	config.AccessCode.Length = validation.AccessCodeLength
	config.AccessCode.MaxAttempts = 10

	config.RateLimit.StudentLoginPerMinute = 10
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.URL == "" && config.Database.Host == "" {
		return fmt.Errorf("database url or host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.Asaas.RequestTimeout); err != nil {
		return fmt.Errorf("invalid asaas request timeout format: %w", err)
	}

	// student login only accepts codes of this length
	if config.AccessCode.Length != validation.AccessCodeLength {
		return fmt.Errorf("access code length must be %d, got %d", validation.AccessCodeLength, config.AccessCode.Length)
	}

	if config.AccessCode.MaxAttempts <= 0 {
		return fmt.Errorf("access code max attempts must be positive")
	}

	if config.Asaas.PlanValue <= 0 {
		return fmt.Errorf("asaas plan value must be positive")
	}

	return nil
}

// GetPostgresConnectionString returns the postgres connection string, preferring DATABASE_URL
func (c *Config) GetPostgresConnectionString() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}

	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

// AllowedOrigins splits the comma separated frontend url list used for CORS
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.Server.FrontendURL, ",") {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// PrimaryFrontendURL is the first configured frontend origin, used to build checkout callbacks
func (c *Config) PrimaryFrontendURL() string {
	origins := c.AllowedOrigins()
	if len(origins) == 0 {
		return ""
	}
	return origins[0]
}
