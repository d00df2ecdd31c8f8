package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load,
// e.g. TASKBOARD_DATABASE_URL.
const EnvPrefix = "TASKBOARD"

// Load reads configuration from defaults, an optional config.yaml in the
// working directory, and TASKBOARD_* environment variables, in increasing
// precedence. The result is validated before it is returned.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path searches the
// working directory for config.yaml and tolerates its absence.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := cfg.Scheduler.Location(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that have
// no value in the config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.app_name", "Taskboard")
	v.SetDefault("server.client_url", "http://localhost:3000")
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)
	v.SetDefault("database.conn_max_lifetime_minutes", 5)
	v.SetDefault("auth.access_secret", "")
	v.SetDefault("auth.refresh_secret", "")
	v.SetDefault("auth.activation_secret", "")
	v.SetDefault("auth.reset_secret", "")
	v.SetDefault("auth.access_lifetime_minutes", 15)
	v.SetDefault("auth.refresh_lifetime_minutes", 10080)
	v.SetDefault("auth.activation_lifetime_minutes", 10)
	v.SetDefault("auth.reset_lifetime_minutes", 15)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.cookie_secure", true)
	v.SetDefault("mail.driver", "smtp")
	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "no-reply@taskboard.example.com")
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.reminder_interval_seconds", 60)
	v.SetDefault("scheduler.sweep_interval_seconds", 60)
	v.SetDefault("scheduler.reminder_window_minutes", 15)
	v.SetDefault("scheduler.time_zone", "Local")
	v.SetDefault("scheduler.send_concurrency", 4)
}
