package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Catalog CatalogConfig `mapstructure:"catalog" validate:"required"`
	Quiz    QuizConfig    `mapstructure:"quiz"    validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// Storage engines
const (
	EngineMemory   = "memory"
	EngineJSON     = "json"
	EngineSQLite   = "sqlite"
	EnginePostgres = "postgres"
)

// StorageConfig selects where learner records are persisted.
//
// Path is a directory for the json engine and a database file for sqlite.
// URL is only used by the postgres engine.
type StorageConfig struct {
	Engine string `mapstructure:"engine" validate:"required,oneof=memory json sqlite postgres"`
	Path   string `mapstructure:"path"`
	URL    string `mapstructure:"url"`
}

// CatalogConfig points at the vocabulary resource.
type CatalogConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// QuizConfig holds quiz defaults.
type QuizConfig struct {
	DurationSeconds int `mapstructure:"duration_seconds" validate:"required,gt=0,lte=3600"`
	QuestionLimit   int `mapstructure:"question_limit"   validate:"required,gt=0,lte=500"`
	HistoryLimit    int `mapstructure:"history_limit"    validate:"required,gt=0,lte=1000"`
}
