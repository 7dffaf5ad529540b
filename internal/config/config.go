// Package config loads the pocketchat configuration from YAML with
// environment overrides.
package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Config is the root configuration.
type Config struct {
	User    UserConfig    `yaml:"user,omitempty"`
	Storage StorageConfig `yaml:"storage,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// UserConfig identifies the single local actor of the store.
type UserConfig struct {
	ID     string `yaml:"id,omitempty"`
	Name   string `yaml:"name,omitempty"`
	Avatar string `yaml:"avatar,omitempty"`
	Role   string `yaml:"role,omitempty"`
}

// StorageConfig selects and configures the key-value backend.
type StorageConfig struct {
	Backend string      `yaml:"backend,omitempty"` // "sqlite" | "memory" | "redis"
	Path    string      `yaml:"path,omitempty"`    // sqlite file, defaults under the data dir
	Redis   RedisConfig `yaml:"redis,omitempty"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"` // supports ${ENV_VAR} references
	DB       int    `yaml:"db,omitempty"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"`
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		User: UserConfig{
			ID:   "me",
			Name: "Me",
			Role: "member",
		},
		Storage: StorageConfig{
			Backend: "sqlite",
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
