package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Log      LogConfig      `mapstructure:"log"      validate:"required"`
	Task     TaskConfig     `mapstructure:"task"     validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Crypto   CryptoConfig   `mapstructure:"crypto"   validate:"required"`
}

// LogConfig contains all logging-related configuration settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// TaskConfig contains all task dispatcher configuration settings.
type TaskConfig struct {
	// WorkerCount determines how many concurrent workers process tasks.
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0,lte=128"`

	// QueueSize determines the buffer size for the in-memory task queue.
	QueueSize int `mapstructure:"queue_size" validate:"required,gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// Path is the SQLite database file path. ":memory:" keeps the
	// operation log in memory only.
	Path string `mapstructure:"path" validate:"required"`
}

// CryptoConfig contains settings for the encryption operations.
type CryptoConfig struct {
	// KeyIterations is the PBKDF2 iteration count used when deriving
	// encryption keys from passphrases.
	KeyIterations int `mapstructure:"key_iterations" validate:"required,gte=1000"`
}
