package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name,
// e.g. LINGODECK_SERVER_PORT.
const EnvPrefix = "LINGODECK"

// ErrInvalidConfig is returned when the loaded configuration fails validation.
var ErrInvalidConfig = errors.New("configuration validation failed")

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files; a
// .env file in the working directory is read first if present.
// Returns a populated Config struct or an error if loading/validation fails.
func Load(configFiles ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if len(configFiles) > 0 && configFiles[0] != "" {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("storage.engine", EngineJSON)
	v.SetDefault("storage.path", "data/state")
	v.SetDefault("storage.url", "")

	v.SetDefault("catalog.path", "data/vocabulary.json")

	v.SetDefault("quiz.duration_seconds", 60)
	v.SetDefault("quiz.question_limit", 10)
	v.SetDefault("quiz.history_limit", 30)
}

// Validate checks struct tags and the cross-field storage requirements.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	switch cfg.Storage.Engine {
	case EngineJSON, EngineSQLite:
		if strings.TrimSpace(cfg.Storage.Path) == "" {
			return fmt.Errorf("%w: storage.path is required for the %s engine", ErrInvalidConfig, cfg.Storage.Engine)
		}
	case EnginePostgres:
		if strings.TrimSpace(cfg.Storage.URL) == "" {
			return fmt.Errorf("%w: storage.url is required for the postgres engine", ErrInvalidConfig)
		}
	}

	return nil
}
