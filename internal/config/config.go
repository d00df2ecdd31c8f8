package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	Mail      MailConfig      `mapstructure:"mail" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
// ClientURL is the front-end origin used in activation and reset links.
type ServerConfig struct {
	Port                   int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	AppName                string `mapstructure:"app_name" validate:"required"`
	ClientURL              string `mapstructure:"client_url" validate:"required,url"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// ShutdownTimeout returns the graceful shutdown budget.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=0"`
}

// AuthConfig contains token signing keys, lifetimes and cookie settings.
// Each token kind has its own key so one cannot be replayed as another.
type AuthConfig struct {
	AccessSecret              string `mapstructure:"access_secret" validate:"required,min=32"`
	RefreshSecret             string `mapstructure:"refresh_secret" validate:"required,min=32"`
	ActivationSecret          string `mapstructure:"activation_secret" validate:"required,min=32"`
	ResetSecret               string `mapstructure:"reset_secret" validate:"required,min=32"`
	AccessLifetimeMinutes     int    `mapstructure:"access_lifetime_minutes" validate:"gt=0"`
	RefreshLifetimeMinutes    int    `mapstructure:"refresh_lifetime_minutes" validate:"gt=0"`
	ActivationLifetimeMinutes int    `mapstructure:"activation_lifetime_minutes" validate:"gt=0"`
	ResetLifetimeMinutes      int    `mapstructure:"reset_lifetime_minutes" validate:"gt=0"`
	BcryptCost                int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
	CookieSecure              bool   `mapstructure:"cookie_secure"`
}

// MailConfig selects and configures the outgoing mail transport.
type MailConfig struct {
	Driver   string `mapstructure:"driver" validate:"required,oneof=smtp log"`
	Host     string `mapstructure:"host" validate:"required_if=Driver smtp"`
	Port     int    `mapstructure:"port" validate:"gt=0,lt=65536"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from" validate:"required,email"`
}

// SchedulerConfig controls the reminder and overdue sweep jobs.
type SchedulerConfig struct {
	Enabled                 bool   `mapstructure:"enabled"`
	ReminderIntervalSeconds int    `mapstructure:"reminder_interval_seconds" validate:"gt=0"`
	SweepIntervalSeconds    int    `mapstructure:"sweep_interval_seconds" validate:"gt=0"`
	ReminderWindowMinutes   int    `mapstructure:"reminder_window_minutes" validate:"gt=0,lt=60"`
	TimeZone                string `mapstructure:"time_zone" validate:"required"`
	SendConcurrency         int    `mapstructure:"send_concurrency" validate:"gt=0"`
}

// Location resolves TimeZone. Deadlines are interpreted in this zone by both
// the scheduler and the task edit checks.
func (c SchedulerConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}
