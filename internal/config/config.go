// Package config holds the server's runtime settings with the precedence
// file > environment > defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the validated runtime configuration.
type Config struct {
	Server   *ServerConfig   `json:"server"`
	Database *DatabaseConfig `json:"database"`
	Protocol *ProtocolConfig `json:"protocol"`
	Log      *LogConfig      `json:"log"`
}

// ServerConfig configures the TCP listener.
type ServerConfig struct {
	Addr string `json:"addr"`
}

// DatabaseConfig configures the sqlite store.
type DatabaseConfig struct {
	Path string `json:"path"`
}

// ProtocolConfig configures the wire layer.
type ProtocolConfig struct {
	MaxFrameSize uint32        `json:"max_frame_size"`
	CallTimeout  time.Duration `json:"call_timeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `json:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: &ServerConfig{
			Addr: "0.0.0.0:5200",
		},
		Database: &DatabaseConfig{
			Path: "./trainer.db",
		},
		Protocol: &ProtocolConfig{
			MaxFrameSize: 1 << 20,
			CallTimeout:  10 * time.Second,
		},
		Log: &LogConfig{
			Level: "info",
		},
	}
}

// Validate rejects configurations that cannot run.
func (c *Config) Validate() error {
	if c.Server == nil || c.Server.Addr == "" {
		return fmt.Errorf("server address is required")
	}
	if c.Database == nil || c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Protocol == nil {
		return fmt.Errorf("protocol configuration is required")
	}
	if c.Protocol.MaxFrameSize < 1024 {
		return fmt.Errorf("max frame size must be at least 1024 bytes")
	}
	if c.Protocol.CallTimeout <= 0 {
		return fmt.Errorf("call timeout must be positive")
	}
	if c.Log == nil || c.Log.Level == "" {
		return fmt.Errorf("log level is required")
	}
	return nil
}

// FromEnv returns the defaults overridden by TRAINER_* environment
// variables. Unparsable values are ignored.
func FromEnv() *Config {
	c := Default()
	if addr := os.Getenv("TRAINER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if path := os.Getenv("TRAINER_DATABASE_PATH"); path != "" {
		c.Database.Path = path
	}
	if size := os.Getenv("TRAINER_MAX_FRAME_SIZE"); size != "" {
		if v, err := strconv.ParseUint(size, 10, 32); err == nil {
			c.Protocol.MaxFrameSize = uint32(v)
		}
	}
	if timeout := os.Getenv("TRAINER_CALL_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Protocol.CallTimeout = d
		}
	}
	if level := os.Getenv("TRAINER_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	return c
}

// configFile mirrors Config for JSON parsing; durations are strings.
type configFile struct {
	Server *ServerConfig   `json:"server"`
	Database *DatabaseConfig `json:"database"`
	Protocol *struct {
		MaxFrameSize uint32 `json:"max_frame_size"`
		CallTimeout  string `json:"call_timeout"`
	} `json:"protocol"`
	Log *LogConfig `json:"log"`
}

// LoadFile parses a JSON config file on top of the environment/default
// configuration and validates the result.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	var f configFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	c := FromEnv()
	if f.Server != nil && f.Server.Addr != "" {
		c.Server.Addr = f.Server.Addr
	}
	if f.Database != nil && f.Database.Path != "" {
		c.Database.Path = f.Database.Path
	}
	if f.Protocol != nil {
		if f.Protocol.MaxFrameSize > 0 {
			c.Protocol.MaxFrameSize = f.Protocol.MaxFrameSize
		}
		if f.Protocol.CallTimeout != "" {
			if d, err := time.ParseDuration(f.Protocol.CallTimeout); err == nil {
				c.Protocol.CallTimeout = d
			}
		}
	}
	if f.Log != nil && f.Log.Level != "" {
		c.Log.Level = f.Log.Level
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return c, nil
}

// Load resolves the configuration with full precedence. An empty path
// skips the file layer.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	c := FromEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
