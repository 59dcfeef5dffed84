package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	TomTom    TomTomConfig    `mapstructure:"tomtom"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Delivery  DeliveryConfig  `mapstructure:"delivery"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type TomTomConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type AlertsConfig struct {
	UrgentThresholdMins int `mapstructure:"urgent_threshold_mins"`
	MinorThresholdMins  int `mapstructure:"minor_threshold_mins"`
}

type SchedulerConfig struct {
	PollIntervalSeconds  int    `mapstructure:"poll_interval_seconds"`
	ThrottleIntervalMins int    `mapstructure:"throttle_interval_mins"`
	MaxConcurrentChecks  int    `mapstructure:"max_concurrent_checks"`
	Timezone             string `mapstructure:"timezone"`
}

type DeliveryConfig struct {
	QueueSize int `mapstructure:"queue_size"`
}

func (c TomTomConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c SchedulerConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c SchedulerConfig) ThrottleInterval() time.Duration {
	return time.Duration(c.ThrottleIntervalMins) * time.Minute
}

// Location resolves the configured timezone; an empty value means the
// system's local zone.
func (c SchedulerConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("tomtom.base_url", "https://api.tomtom.com")
	v.SetDefault("tomtom.timeout_seconds", 10)
	v.SetDefault("alerts.urgent_threshold_mins", 5)
	v.SetDefault("alerts.minor_threshold_mins", 2)
	v.SetDefault("scheduler.poll_interval_seconds", 60)
	v.SetDefault("scheduler.throttle_interval_mins", 2)
	v.SetDefault("scheduler.max_concurrent_checks", 4)
	v.SetDefault("scheduler.timezone", "")
	v.SetDefault("delivery.queue_size", 1024)

	// Enable environment variable support
	v.AutomaticEnv()

	// Read the config file
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Secrets come from the environment when present
	if token := v.GetString("TELEGRAM_TOKEN"); token != "" {
		config.Telegram.Token = token
	}
	if apiKey := v.GetString("TOMTOM_API_KEY"); apiKey != "" {
		config.TomTom.APIKey = apiKey
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects option combinations the scheduler cannot run with.
func (c *Config) Validate() error {
	if c.Alerts.MinorThresholdMins >= c.Alerts.UrgentThresholdMins {
		return fmt.Errorf("minor threshold (%d) must be below urgent threshold (%d)",
			c.Alerts.MinorThresholdMins, c.Alerts.UrgentThresholdMins)
	}
	if c.Scheduler.PollIntervalSeconds <= 0 {
		return fmt.Errorf("poll interval must be positive, got %d", c.Scheduler.PollIntervalSeconds)
	}
	if c.Scheduler.ThrottleIntervalMins <= 0 {
		return fmt.Errorf("throttle interval must be positive, got %d", c.Scheduler.ThrottleIntervalMins)
	}
	if c.Scheduler.MaxConcurrentChecks <= 0 {
		return fmt.Errorf("max concurrent checks must be positive, got %d", c.Scheduler.MaxConcurrentChecks)
	}
	if _, err := c.Scheduler.Location(); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Scheduler.Timezone, err)
	}
	return nil
}
