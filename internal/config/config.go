package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string   `yaml:"port" env:"SERVER_PORT"`
		Mode           string   `yaml:"mode" env:"SERVER_MODE"`
		AllowedOrigins []string `yaml:"allowed_origins" env:"SERVER_ALLOWED_ORIGINS"`
		MaxUploadMB    int      `yaml:"max_upload_mb" env:"SERVER_MAX_UPLOAD_MB"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		AutoMigrate     bool   `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE"`
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

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"EMAIL_USER"`
		Password  string `yaml:"password" env:"EMAIL_PASS"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
		UseTLS    bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
		College   string `yaml:"college" env:"SMTP_COLLEGE"`
	} `yaml:"smtp"`

	Notification struct {
		MaxAttempts     int     `yaml:"max_attempts" env:"NOTIFY_MAX_ATTEMPTS"`
		InitialInterval string  `yaml:"initial_interval" env:"NOTIFY_INITIAL_INTERVAL"`
		Multiplier      float64 `yaml:"multiplier" env:"NOTIFY_MULTIPLIER"`
		MaxInterval     string  `yaml:"max_interval" env:"NOTIFY_MAX_INTERVAL"`
	} `yaml:"notification"`

	Storage struct {
		Driver    string `yaml:"driver" env:"STORAGE_DRIVER"`
		LocalPath string `yaml:"local_path" env:"STORAGE_LOCAL_PATH"`
		PublicURL string `yaml:"public_url" env:"STORAGE_PUBLIC_URL"`
		S3        struct {
			Bucket          string `yaml:"bucket" env:"S3_BUCKET"`
			Region          string `yaml:"region" env:"S3_REGION"`
			Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT"`
			AccessKeyID     string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID"`
			SecretAccessKey string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY"`
			PublicBaseURL   string `yaml:"public_base_url" env:"S3_PUBLIC_BASE_URL"`
		} `yaml:"s3"`
	} `yaml:"storage"`

	Alerts struct {
		Enabled   bool    `yaml:"enabled" env:"ALERTS_ENABLED"`
		Schedule  string  `yaml:"schedule" env:"ALERTS_SCHEDULE"`
		Threshold float64 `yaml:"threshold" env:"ALERTS_THRESHOLD"`
	} `yaml:"alerts"`

	Credits struct {
		Policy string `yaml:"policy" env:"CREDITS_POLICY"`
	} `yaml:"credits"`

	Auth struct {
		StudentEmailDomain string `yaml:"student_email_domain" env:"AUTH_STUDENT_EMAIL_DOMAIN"`
	} `yaml:"auth"`

	Seed struct {
		Enabled           bool   `yaml:"enabled" env:"SEED_ENABLED"`
		AdminName         string `yaml:"admin_name" env:"SEED_ADMIN_NAME"`
		AdminEmail        string `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
		AdminPassword     string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
		ProctorName       string `yaml:"proctor_name" env:"SEED_PROCTOR_NAME"`
		ProctorEmail      string `yaml:"proctor_email" env:"SEED_PROCTOR_EMAIL"`
		ProctorPassword   string `yaml:"proctor_password" env:"SEED_PROCTOR_PASSWORD"`
		ProctorDepartment string `yaml:"proctor_department" env:"SEED_PROCTOR_DEPARTMENT"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from a file and environment variables.
// A .env file in the working directory is applied to the environment first.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

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

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "5000"
	config.Server.Mode = "development"
	config.Server.AllowedOrigins = []string{"http://localhost:5173"}
	config.Server.MaxUploadMB = 10

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "participation"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.AutoMigrate = true

	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.Issuer = "participation-portal"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.SMTP.Host = "smtp.gmail.com"
	config.SMTP.Port = 587
	config.SMTP.FromName = "TCE CSBS Hackathon Portal"
	config.SMTP.FromEmail = "no-reply@portal.com"
	config.SMTP.College = "Thiagarajar College of Engineering"

	config.Notification.MaxAttempts = 3
	config.Notification.InitialInterval = "1s"
	config.Notification.Multiplier = 2
	config.Notification.MaxInterval = "30s"

	config.Storage.Driver = "local"
	config.Storage.LocalPath = "uploads"
	config.Storage.PublicURL = "/uploads"

	config.Alerts.Enabled = true
	config.Alerts.Schedule = "0 9 * * 1"
	config.Alerts.Threshold = 3

	config.Credits.Policy = "split"

	config.Auth.StudentEmailDomain = "@student.tce.edu"

	config.Seed.Enabled = true
	config.Seed.AdminName = "Admin"
	config.Seed.AdminEmail = "admin@portal.com"
	config.Seed.AdminPassword = "adminpassword"
	config.Seed.ProctorName = "Default Proctor"
	config.Seed.ProctorEmail = "proctor@portal.com"
	config.Seed.ProctorPassword = "proctorpassword"
	config.Seed.ProctorDepartment = "CSBS"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return applyEnv(reflect.ValueOf(config))
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}
	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid database connection lifetime: %w", err)
	}
	if _, err := time.ParseDuration(config.Notification.InitialInterval); err != nil {
		return fmt.Errorf("invalid notification initial interval: %w", err)
	}
	if _, err := time.ParseDuration(config.Notification.MaxInterval); err != nil {
		return fmt.Errorf("invalid notification max interval: %w", err)
	}
	if config.Notification.MaxAttempts < 1 {
		return fmt.Errorf("notification max attempts must be at least 1")
	}

	switch config.Storage.Driver {
	case "local":
	case "s3":
		if config.Storage.S3.Bucket == "" {
			return fmt.Errorf("s3 bucket is required when storage driver is s3")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	switch strings.ToLower(config.Credits.Policy) {
	case "split", "unified":
	default:
		return fmt.Errorf("unknown credit policy %q", config.Credits.Policy)
	}

	if config.Alerts.Enabled && strings.TrimSpace(config.Alerts.Schedule) == "" {
		return fmt.Errorf("alerts schedule is required when alerts are enabled")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
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

// AccessTokenTTL returns the parsed access token lifetime
func (c *Config) AccessTokenTTL() time.Duration {
	return mustDuration(c.JWT.AccessTokenExpiration, 24*time.Hour)
}

// ConnMaxLifetime returns the parsed pool connection lifetime
func (c *Config) ConnMaxLifetime() time.Duration {
	return mustDuration(c.Database.ConnMaxLifetime, time.Hour)
}

// NotifyInitialInterval returns the first retry delay
func (c *Config) NotifyInitialInterval() time.Duration {
	return mustDuration(c.Notification.InitialInterval, time.Second)
}

// NotifyMaxInterval returns the retry delay cap
func (c *Config) NotifyMaxInterval() time.Duration {
	return mustDuration(c.Notification.MaxInterval, 30*time.Second)
}

// IsProduction reports whether the server runs in release mode
func (c *Config) IsProduction() bool {
	return c.Server.Mode == "production" || c.Server.Mode == "release"
}

func mustDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
