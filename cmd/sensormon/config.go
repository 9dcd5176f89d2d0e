package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is read from sensormon.toml. Every field has a sane default so the
// tool works with no file at all.
type Config struct {
	Port     string `toml:"port"`
	Baud     int    `toml:"baud"`
	LogLevel string `toml:"log_level"`
}

func defaultConfig() Config {
	return Config{
		Port:     "/dev/ttyACM0",
		Baud:     115200,
		LogLevel: "info",
	}
}

// loadConfig merges the file at path over the defaults. A missing file is not
// an error; a malformed one is.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("baud must be positive, got %d", c.Baud)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("unknown log_level %q", c.LogLevel)
}
