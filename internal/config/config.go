package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Review   ReviewConfig   `mapstructure:"review" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// ReviewConfig tunes review sessions. The interval table itself is fixed.
type ReviewConfig struct {
	// MaxDueWords caps the due words placed in one session.
	MaxDueWords int `mapstructure:"max_due_words" validate:"required,min=1,max=500"`

	// DefaultDailyNewWords applies to users who never saved settings.
	DefaultDailyNewWords int `mapstructure:"default_daily_new_words" validate:"required,min=1,max=100"`

	// ConflictRetryAttempts bounds retries after a concurrent write on the same review state.
	ConflictRetryAttempts int `mapstructure:"conflict_retry_attempts" validate:"required,min=1,max=10"`
}
