package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"puppymentor/internal/domain"
)

// Config holds all application configuration
type Config struct {
	BotToken string `envconfig:"BOT_TOKEN" required:"true"`

	// embedded so their keys are not prefixed with the field name
	DatabaseConfig
	GeminiConfig

	Timezone             string        `envconfig:"TIMEZONE" default:"Europe/Moscow"`
	MorningTipTime       Clock         `envconfig:"MORNING_TIP_TIME" default:"09:00"`
	VaccinationCheckTime Clock         `envconfig:"VACCINATION_CHECK_TIME" default:"10:00"`
	CleanupTime          Clock         `envconfig:"CLEANUP_TIME" default:"03:30"`
	ReminderLead         time.Duration `envconfig:"REMINDER_LEAD" default:"10m"`

	FlushWindow     time.Duration `envconfig:"FLUSH_WINDOW" default:"5s"`
	FlushMaxPending int           `envconfig:"FLUSH_MAX_PENDING" default:"64"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	location *time.Location
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"puppymentor"`
	User     string `envconfig:"DB_USER" default:"puppymentor"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
}

// GeminiConfig holds AI settings; an empty key disables AI answers
type GeminiConfig struct {
	APIKey string `envconfig:"GEMINI_API_KEY"`
	Model  string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
}

// Clock is a HH:MM time of day read from the environment
type Clock struct {
	domain.TimeOfDay
}

// Decode implements envconfig.Decoder
func (c *Clock) Decode(value string) error {
	t, err := domain.ParseTimeOfDay(value)
	if err != nil {
		return err
	}
	c.TimeOfDay = t
	return nil
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.location = loc

	if cfg.ReminderLead < 0 || cfg.ReminderLead >= 24*time.Hour {
		return nil, fmt.Errorf("REMINDER_LEAD must be within [0, 24h), got %s", cfg.ReminderLead)
	}
	if cfg.FlushWindow < 0 {
		return nil, fmt.Errorf("FLUSH_WINDOW must not be negative, got %s", cfg.FlushWindow)
	}

	return &cfg, nil
}

// Location returns the reference timezone
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DatabaseConfig.Host,
		c.DatabaseConfig.Port,
		c.DatabaseConfig.User,
		c.DatabaseConfig.Password,
		c.DatabaseConfig.Name,
	)
}
