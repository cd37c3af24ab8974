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
	Firebase  FirebaseConfig  `yaml:"firebase"`
	Stripe    StripeConfig    `yaml:"stripe"`
	Deposit   DepositConfig   `yaml:"deposit"`
	Checkout  CheckoutConfig  `yaml:"checkout"`
	Email     EmailConfig     `yaml:"email"`
	Log       LogConfig       `yaml:"log"`
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

// FirebaseConfig contains the hosted auth provider settings
type FirebaseConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

// StripeConfig contains payment processor settings
type StripeConfig struct {
	SecretKey     string `yaml:"secret_key"`
	WebhookSecret string `yaml:"webhook_secret"`
	SuccessURL    string `yaml:"success_url"`
	CancelURL     string `yaml:"cancel_url"`
}

// DepositConfig governs the authorization-hold renewal cadence.
// RenewalIntervalDays must stay below AuthorizationWindowDays or holds
// lapse before the renewal job fires.
type DepositConfig struct {
	AuthorizationWindowDays int `yaml:"authorization_window_days"`
	RenewalIntervalDays     int `yaml:"renewal_interval_days"`
	RenewalLeadHours        int `yaml:"renewal_lead_hours"`
}

// CheckoutConfig contains storefront checkout settings
type CheckoutConfig struct {
	Currency    string  `yaml:"currency"`
	ShippingFee float64 `yaml:"shipping_fee"`
}

// EmailConfig contains SendGrid settings for operator alerts
type EmailConfig struct {
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	FromName       string `yaml:"from_name"`
	FromAddress    string `yaml:"from_address"`
	OperatorEmail  string `yaml:"operator_email"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	RenewDepositHolds string `yaml:"renew_deposit_holds"`
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

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Firebase
	if val := os.Getenv("FIREBASE_PROJECT_ID"); val != "" {
		c.Firebase.ProjectID = val
	}
	if val := os.Getenv("FIREBASE_CREDENTIALS_FILE"); val != "" {
		c.Firebase.CredentialsFile = val
	}

	// Stripe
	if val := os.Getenv("STRIPE_SECRET_KEY"); val != "" {
		c.Stripe.SecretKey = val
	}
	if val := os.Getenv("STRIPE_WEBHOOK_SECRET"); val != "" {
		c.Stripe.WebhookSecret = val
	}
	if val := os.Getenv("STRIPE_SUCCESS_URL"); val != "" {
		c.Stripe.SuccessURL = val
	}
	if val := os.Getenv("STRIPE_CANCEL_URL"); val != "" {
		c.Stripe.CancelURL = val
	}

	// Deposit cadence
	if val := os.Getenv("DEPOSIT_AUTH_WINDOW_DAYS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Deposit.AuthorizationWindowDays)
	}
	if val := os.Getenv("DEPOSIT_REAUTHORIZE_INTERVAL_DAYS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Deposit.RenewalIntervalDays)
	}
	if val := os.Getenv("DEPOSIT_REAUTHORIZE_LEAD_HOURS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Deposit.RenewalLeadHours)
	}

	// Email
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.SendGridAPIKey = val
	}
	if val := os.Getenv("OPERATOR_EMAIL"); val != "" {
		c.Email.OperatorEmail = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Stripe.SecretKey == "" {
		return fmt.Errorf("stripe secret key is required")
	}
	if c.Stripe.WebhookSecret == "" {
		return fmt.Errorf("stripe webhook secret is required")
	}

	// Deposit cadence defaults
	if c.Deposit.AuthorizationWindowDays == 0 {
		c.Deposit.AuthorizationWindowDays = 7
	}
	if c.Deposit.RenewalIntervalDays == 0 {
		c.Deposit.RenewalIntervalDays = 6
	}
	if c.Deposit.RenewalLeadHours == 0 {
		c.Deposit.RenewalLeadHours = 12
	}
	if c.Deposit.RenewalIntervalDays >= c.Deposit.AuthorizationWindowDays {
		return fmt.Errorf("deposit renewal interval (%d days) must be shorter than the authorization window (%d days)",
			c.Deposit.RenewalIntervalDays, c.Deposit.AuthorizationWindowDays)
	}

	// Checkout defaults
	if c.Checkout.Currency == "" {
		c.Checkout.Currency = "usd"
	}
	if c.Checkout.ShippingFee == 0 {
		c.Checkout.ShippingFee = 10
	}

	// Scheduler defaults
	if c.Scheduler.RenewDepositHolds == "" {
		c.Scheduler.RenewDepositHolds = "0 0 */6 * * *" // every 6 hours UTC
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
