package mcpkg

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Config describes one server deployment: its advertised identity and
// the controller registry it exclusively owns. The dispatcher and
// protocol server borrow the registry through the config for the
// process lifetime; nothing mutates it after construction.
type Config struct {
	ServerName    string
	ServerVersion string
	Registry      Registry
	Logger        *logrus.Logger
}

// Option is a functional option for building a Config.
type Option func(*Config) error

// NewConfig builds a validated Config. Defaults: server name
// "MCP Server", version "0.0.0", an EmptyRegistry, and a discarding
// logger (deployments inject a real one).
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{
		ServerName:    "MCP Server",
		ServerVersion: "0.0.0",
		Registry:      EmptyRegistry{},
		Logger:        newDiscardLogger(),
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	return cfg, nil
}

// WithServerName sets the advertised server name.
func WithServerName(name string) Option {
	return func(cfg *Config) error {
		if name == "" {
			return ErrEmptyServerName
		}
		cfg.ServerName = name
		return nil
	}
}

// WithServerVersion sets the advertised server version.
func WithServerVersion(version string) Option {
	return func(cfg *Config) error {
		if version == "" {
			return ErrEmptyServerVersion
		}
		cfg.ServerVersion = version
		return nil
	}
}

// WithRegistry sets the controller registry for this deployment.
func WithRegistry(registry Registry) Option {
	return func(cfg *Config) error {
		if registry == nil {
			return ErrNilRegistry
		}
		cfg.Registry = registry
		return nil
	}
}

// WithLogger sets the logger used by the dispatcher and server.
func WithLogger(logger *logrus.Logger) Option {
	return func(cfg *Config) error {
		if logger == nil {
			return ErrNilLogger
		}
		cfg.Logger = logger
		return nil
	}
}

func newDiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
