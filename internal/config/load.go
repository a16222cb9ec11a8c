package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Default values applied when neither the environment nor a config file
// provides a setting.
const (
	DefaultLogLevel      = "info"
	DefaultWorkerCount   = 4
	DefaultQueueSize     = 100
	DefaultDatabasePath  = "dataproc.db"
	DefaultKeyIterations = 10000
)

// Load reads configuration from environment variables and optionally a
// config file named config.yaml in the working directory. Environment
// variables take precedence over values from config files. Returns a
// populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return load("")
}

// LoadFromFile behaves like Load but reads the config file at the given
// path. Unlike the implicit working-directory file, an explicitly named
// file must exist.
func LoadFromFile(path string) (*Config, error) {
	return load(path)
}

func load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("task.worker_count", DefaultWorkerCount)
	v.SetDefault("task.queue_size", DefaultQueueSize)
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("crypto.key_iterations", DefaultKeyIterations)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		// Optional config file in the working directory
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// A missing config file is fine; anything else is a real error
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// Environment variables with the DATAPROC_ prefix override everything.
	// DATAPROC_TASK_WORKER_COUNT maps to task.worker_count.
	v.SetEnvPrefix("DATAPROC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
