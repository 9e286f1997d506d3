// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/intvm/pebble"
	"github.com/ava-labs/intvm/server"
	"github.com/ava-labs/intvm/trace"
	"github.com/ava-labs/intvm/vm"
)

const (
	DefaultHTTPAddress = "127.0.0.1:9650"
	DefaultDataDir     = ".intvm"
)

var (
	ErrMissingDataDir      = errors.New("missing data directory")
	ErrInvalidHTTPAddress  = errors.New("invalid http address")
	ErrInvalidLockmapSize  = errors.New("lockmap size must be positive")
	ErrInvalidLogLevel     = errors.New("invalid log level")
	ErrInvalidShutdownTime = errors.New("shutdown timeout must be positive")
)

// Config is the server configuration. Fields left out of the YAML file keep
// their defaults.
type Config struct {
	HTTPAddress    string            `yaml:"httpAddress"`
	HTTP           server.HTTPConfig `yaml:"http"`
	AllowedOrigins []string          `yaml:"allowedOrigins"`

	DataDir string        `yaml:"dataDir"`
	Pebble  pebble.Config `yaml:"pebble"`

	LogLevel        string `yaml:"logLevel"`
	LogDisplayLevel string `yaml:"logDisplayLevel"`
	LogDir          string `yaml:"logDir"`
	LogMaxSize      int    `yaml:"logMaxSize"`
	LogMaxFiles     int    `yaml:"logMaxFiles"`
	LogMaxAge       int    `yaml:"logMaxAge"`
	LogCompress     bool   `yaml:"logCompress"`

	Trace trace.Config `yaml:"trace"`
	VM    vm.Config    `yaml:"vm"`
}

func NewDefault() Config {
	return Config{
		HTTPAddress:     DefaultHTTPAddress,
		HTTP:            server.NewDefaultHTTPConfig(),
		AllowedOrigins:  []string{"*"},
		DataDir:         DefaultDataDir,
		Pebble:          pebble.NewDefaultConfig(),
		LogLevel:        logging.Info.String(),
		LogDisplayLevel: logging.Info.String(),
		LogMaxSize:      8,
		LogMaxFiles:     7,
		LogMaxAge:       1,
		Trace: trace.Config{
			Enabled:         false,
			TraceSampleRate: 1,
			Endpoint:        trace.DefaultEndpoint,
			AppName:         "intvm",
			Agent:           "intvm",
			Version:         "v0.0.1",
		},
		VM: vm.NewConfig(),
	}
}

// Load reads [path] over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	c := NewDefault()
	if len(path) == 0 {
		return c, c.Verify()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.UnmarshalStrict(b, &c); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return c, c.Verify()
}

func (c *Config) Verify() error {
	if len(c.DataDir) == 0 {
		return ErrMissingDataDir
	}
	if _, _, err := net.SplitHostPort(c.HTTPAddress); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidHTTPAddress, err)
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		return ErrInvalidShutdownTime
	}
	if c.VM.LockmapSize <= 0 {
		return ErrInvalidLockmapSize
	}
	if _, err := c.GetLogLevel(); err != nil {
		return err
	}
	if _, err := c.GetLogDisplayLevel(); err != nil {
		return err
	}
	return nil
}

func (c *Config) GetLogLevel() (logging.Level, error) {
	return parseLevel(c.LogLevel)
}

func (c *Config) GetLogDisplayLevel() (logging.Level, error) {
	return parseLevel(c.LogDisplayLevel)
}

// GetLogDir defaults to a directory inside the data dir.
func (c *Config) GetLogDir() string {
	if len(c.LogDir) > 0 {
		return c.LogDir
	}
	return c.DataDir + "/logs"
}

func parseLevel(s string) (logging.Level, error) {
	l, err := logging.ToLevel(s)
	if err != nil {
		return logging.Off, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
	}
	return l, nil
}
