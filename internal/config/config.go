package config

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/monolith/internal/errors"
	"github.com/vango-dev/monolith/pkg/server"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "monolith.yaml"

	// DefaultAddress is the default listen address.
	DefaultAddress = ":8080"

	// DefaultPath is the default websocket path.
	DefaultPath = "/ui"
)

// Config represents the complete monolith.yaml configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Session    SessionConfig    `yaml:"session"`
	Dispatcher DispatcherConfig `yaml:"dispatcher"`
	Log        LogConfig        `yaml:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP and websocket upgrade settings.
type ServerConfig struct {
	// Address is the address to listen on.
	Address string `yaml:"address,omitempty"`

	// Path is the websocket endpoint.
	Path string `yaml:"path,omitempty"`

	ReadBufferSize    int  `yaml:"read_buffer_size,omitempty"`
	WriteBufferSize   int  `yaml:"write_buffer_size,omitempty"`
	EnableCompression bool `yaml:"enable_compression,omitempty"`

	// AllowedOrigins lists cross-origin clients accepted in addition to
	// same-origin ones. "*" accepts every origin.
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "30s").
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout,omitempty"`
}

// SessionConfig contains per-session settings.
type SessionConfig struct {
	ReadTimeout        time.Duration `yaml:"read_timeout,omitempty"`
	WriteTimeout       time.Duration `yaml:"write_timeout,omitempty"`
	PingInterval       time.Duration `yaml:"ping_interval,omitempty"` // Negative disables heartbeats
	MaxMessageSize     int64         `yaml:"max_message_size,omitempty"`
	MaxPendingCommands int           `yaml:"max_pending_commands,omitempty"`
}

// DispatcherConfig contains accept queue and event buffer sizes.
type DispatcherConfig struct {
	AcceptQueue int `yaml:"accept_queue,omitempty"`
	EventBuffer int `yaml:"event_buffer,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level,omitempty"`

	// Format is one of auto, text, json. Auto picks text on a terminal.
	Format string `yaml:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from monolith.yaml in dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path. Unknown keys
// are rejected.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E101").
				WithDetail("no " + filepath.Base(path) + " in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or pass --config")
		}
		return nil, errors.New("E102").Wrap(err)
	}

	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.New("E102").
			Wrap(err).
			WithLocationFromError(path, err).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid YAML")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.New("E104").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("E104").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	sd := server.DefaultServerConfig()
	ssd := server.DefaultSessionConfig()
	dd := server.DefaultDispatcherConfig()

	// Server
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.Path == "" {
		c.Server.Path = DefaultPath
	}
	if c.Server.ReadBufferSize == 0 {
		c.Server.ReadBufferSize = sd.ReadBufferSize
	}
	if c.Server.WriteBufferSize == 0 {
		c.Server.WriteBufferSize = sd.WriteBufferSize
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = sd.ShutdownTimeout
	}

	// Session
	if c.Session.ReadTimeout == 0 {
		c.Session.ReadTimeout = ssd.ReadTimeout
	}
	if c.Session.WriteTimeout == 0 {
		c.Session.WriteTimeout = ssd.WriteTimeout
	}
	if c.Session.PingInterval == 0 {
		c.Session.PingInterval = ssd.HeartbeatInterval
	}
	if c.Session.MaxMessageSize == 0 {
		c.Session.MaxMessageSize = ssd.MaxMessageSize
	}
	if c.Session.MaxPendingCommands == 0 {
		c.Session.MaxPendingCommands = ssd.MaxPendingCommands
	}

	// Dispatcher
	if c.Dispatcher.AcceptQueue == 0 {
		c.Dispatcher.AcceptQueue = dd.AcceptQueue
	}
	if c.Dispatcher.EventBuffer == 0 {
		c.Dispatcher.EventBuffer = dd.EventBuffer
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "auto"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		e := errors.New("E103").WithDetail(fmt.Sprintf(format, args...))
		if c.configPath != "" {
			e.Location = &errors.Location{File: c.configPath}
		}
		return e
	}

	if _, _, err := net.SplitHostPort(c.Server.Address); err != nil {
		return invalid("server.address %q is not host:port", c.Server.Address)
	}
	if !strings.HasPrefix(c.Server.Path, "/") {
		return invalid("server.path %q must start with /", c.Server.Path)
	}
	if c.Server.ReadBufferSize < 0 || c.Server.WriteBufferSize < 0 {
		return invalid("server buffer sizes must not be negative")
	}
	if c.Server.ShutdownTimeout < 0 {
		return invalid("server.shutdown_timeout must not be negative")
	}

	if c.Session.ReadTimeout < 0 || c.Session.WriteTimeout < 0 {
		return invalid("session timeouts must not be negative")
	}
	if c.Session.MaxMessageSize < 0 {
		return invalid("session.max_message_size must not be negative")
	}
	if c.Session.MaxPendingCommands < 0 {
		return invalid("session.max_pending_commands must not be negative")
	}

	if c.Dispatcher.AcceptQueue < 0 {
		return invalid("dispatcher.accept_queue must not be negative")
	}
	if c.Dispatcher.EventBuffer < 0 {
		return invalid("dispatcher.event_buffer must not be negative")
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return invalid("%v", err)
	}
	switch c.Log.Format {
	case "auto", "text", "json":
	default:
		return invalid("log.format %q must be auto, text or json", c.Log.Format)
	}

	return nil
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level %q must be debug, info, warn or error", s)
	}
	return level, nil
}

// ToSessionConfig converts the session section. A negative ping interval
// disables heartbeats.
func (c *Config) ToSessionConfig() *server.SessionConfig {
	ping := c.Session.PingInterval
	if ping < 0 {
		ping = 0
	}
	return &server.SessionConfig{
		ReadTimeout:        c.Session.ReadTimeout,
		WriteTimeout:       c.Session.WriteTimeout,
		HeartbeatInterval:  ping,
		MaxMessageSize:     c.Session.MaxMessageSize,
		MaxPendingCommands: c.Session.MaxPendingCommands,
	}
}

// ToDispatcherConfig converts the dispatcher and session sections.
func (c *Config) ToDispatcherConfig() *server.DispatcherConfig {
	return &server.DispatcherConfig{
		AcceptQueue: c.Dispatcher.AcceptQueue,
		EventBuffer: c.Dispatcher.EventBuffer,
		Session:     c.ToSessionConfig(),
	}
}

// ToServerConfig converts the server section.
func (c *Config) ToServerConfig() *server.ServerConfig {
	sc := &server.ServerConfig{
		Address:           c.Server.Address,
		Path:              c.Server.Path,
		ReadBufferSize:    c.Server.ReadBufferSize,
		WriteBufferSize:   c.Server.WriteBufferSize,
		EnableCompression: c.Server.EnableCompression,
		CheckOrigin:       server.SameOriginCheck,
		ShutdownTimeout:   c.Server.ShutdownTimeout,
	}
	if len(c.Server.AllowedOrigins) > 0 {
		sc.CheckOrigin = server.AllowedOrigins(c.Server.AllowedOrigins...)
	}
	return sc
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
