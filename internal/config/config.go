package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gte=1,lte=300"`
}

// Storage backends accepted in StorageConfig.Backend.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
)

// StorageConfig selects where the memory collection is persisted.
// Only the settings of the selected backend are required.
type StorageConfig struct {
	Backend     string `mapstructure:"backend"      validate:"required,oneof=memory file postgres sqlite redis"`
	Key         string `mapstructure:"key"          validate:"required,max=128"`
	FileDir     string `mapstructure:"file_dir"     validate:"required_if=Backend file"`
	SQLitePath  string `mapstructure:"sqlite_path"  validate:"required_if=Backend sqlite"`
	DatabaseURL string `mapstructure:"database_url" validate:"required_if=Backend postgres"`
	RedisURL    string `mapstructure:"redis_url"    validate:"required_if=Backend redis"`
	RedisPrefix string `mapstructure:"redis_prefix"`
}
