package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	Log       LogConfig       `yaml:"log"`
	Requests  RequestsConfig  `yaml:"requests"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// AuthConfig contains identity settings. Provider "local" issues HS256 JWTs
// signed with Secret; provider "firebase" verifies hosted identity-provider
// ID tokens using the given service account credentials.
type AuthConfig struct {
	Provider                string `yaml:"provider"` // "local" or "firebase"
	Secret                  string `yaml:"secret"`
	AccessTokenExpiry       int    `yaml:"access_token_expiry_minutes"`
	RefreshTokenExpiry      int    `yaml:"refresh_token_expiry_minutes"`
	FirebaseCredentialsFile string `yaml:"firebase_credentials_file"`
}

// SendGridConfig contains email delivery settings
type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// RequestsConfig contains blood request lifecycle settings
type RequestsConfig struct {
	StaleAfterDays int `yaml:"stale_after_days"` // 0 disables the stale sweep
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	SendUrgentRequestReminders string `yaml:"send_urgent_request_reminders"`
	CancelStaleRequests        string `yaml:"cancel_stale_requests"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Auth
	if val := os.Getenv("AUTH_PROVIDER"); val != "" {
		c.Auth.Provider = val
	}
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.Auth.Secret = val
	}
	if val := os.Getenv("FIREBASE_CREDENTIALS_FILE"); val != "" {
		c.Auth.FirebaseCredentialsFile = val
	}

	// SendGrid
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}
	if val := os.Getenv("SENDGRID_FROM_EMAIL"); val != "" {
		c.SendGrid.FromEmail = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// Auth validation
	if c.Auth.Provider == "" {
		c.Auth.Provider = "local"
	}
	switch c.Auth.Provider {
	case "local":
		if c.Auth.Secret == "" {
			return fmt.Errorf("JWT secret is required")
		}
		if len(c.Auth.Secret) < 32 {
			return fmt.Errorf("JWT secret must be at least 32 characters")
		}
	case "firebase":
		if c.Auth.FirebaseCredentialsFile == "" {
			return fmt.Errorf("firebase credentials file is required")
		}
		// Local tokens are still minted for password signups even when
		// verification is delegated to the hosted provider.
		if c.Auth.Secret == "" {
			return fmt.Errorf("JWT secret is required")
		}
	default:
		return fmt.Errorf("unknown auth provider: %s", c.Auth.Provider)
	}
	if c.Auth.AccessTokenExpiry <= 0 {
		c.Auth.AccessTokenExpiry = 60
	}
	if c.Auth.RefreshTokenExpiry <= 0 {
		c.Auth.RefreshTokenExpiry = 60 * 24 * 7
	}

	// Request lifecycle validation
	if c.Requests.StaleAfterDays < 0 {
		return fmt.Errorf("stale_after_days must not be negative")
	}

	// Scheduler defaults
	if c.Scheduler.SendUrgentRequestReminders == "" {
		c.Scheduler.SendUrgentRequestReminders = "0 0 8 * * *" // 8 AM UTC
	}
	if c.Scheduler.CancelStaleRequests == "" {
		c.Scheduler.CancelStaleRequests = "0 30 2 * * *" // 2:30 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
