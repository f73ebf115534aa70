// Package config loads jobflow settings from a JSON config file at
// $XDG_CONFIG_HOME/jobflow/config.json with JOBFLOW_* environment
// variables overriding file values.
package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port int
}

type StorageConfig struct {
	DataDir string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4280,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the config file backend with
// environment overrides applied on top.
func Load() (Config, error) {
	return loadWith(newFileBackend())
}

func loadWith(b Backend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return Config{}, fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}

	return cfg, nil
}

func applyBackend(cfg *Config, b Backend) error {
	if v, ok, err := b.GetInt("server.port"); err != nil {
		return err
	} else if ok {
		cfg.Server.Port = v
	}
	if v, ok, err := b.GetString("storage.data_dir"); err != nil {
		return err
	} else if ok && v != "" {
		cfg.Storage.DataDir = v
	}
	if v, ok, err := b.GetString("log.level"); err != nil {
		return err
	} else if ok && v != "" {
		cfg.Log.Level = v
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("JOBFLOW_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid JOBFLOW_PORT %q: %w", v, err)
		}
		cfg.Server.Port = p
	}
	if v := os.Getenv("JOBFLOW_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("JOBFLOW_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

// Set writes one config key to the file backend. Known keys:
// server.port, storage.data_dir, log.level.
func Set(key, value string) error {
	return setWith(newFileBackend(), key, value)
}

func setWith(b Backend, key, value string) error {
	switch key {
	case "server.port":
		p, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port %q: %w", value, err)
		}
		if p < 1 || p > 65535 {
			return fmt.Errorf("port %d out of range", p)
		}
		return b.SetInt(key, p)
	case "storage.data_dir", "log.level":
		return b.SetString(key, value)
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
}
