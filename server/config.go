// ABOUTME: Process configuration for kanband, resolved from flags, KANBAN_* env vars, and a YAML file.
// ABOUTME: Enforces the loopback-only default: remote binds must be opted into explicitly.
package server

import (
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/2389-research/kanban/board"
)

// ErrNonLoopbackBind rejects a public bind address that was not opted into.
var ErrNonLoopbackBind = errors.New(
	"bind is a non-loopback address but allow_remote is not true; set KANBAN_ALLOW_REMOTE=true to allow remote access",
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config is the fully resolved process configuration.
type Config struct {
	Bind        string `mapstructure:"bind"`
	AllowRemote bool   `mapstructure:"allow_remote"`
	DataDir     string `mapstructure:"data_dir"`
	Store       string `mapstructure:"store"`
	IDScheme    string `mapstructure:"id_scheme"`

	InitialStage string `mapstructure:"initial_stage"`

	Rules struct {
		AllowDuplicates bool `mapstructure:"allow_duplicates"`
	} `mapstructure:"rules"`

	Telemetry struct {
		Enabled      bool   `mapstructure:"enabled"`
		Stdout       bool   `mapstructure:"stdout"`
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"telemetry"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper, dataDir string) {
	v.SetDefault("bind", "127.0.0.1:7780")
	v.SetDefault("allow_remote", false)
	v.SetDefault("data_dir", dataDir)
	v.SetDefault("store", DriverSQLite)
	v.SetDefault("id_scheme", board.IDSchemeULID)
	v.SetDefault("initial_stage", board.DefaultInitialStage)
	v.SetDefault("rules.allow_duplicates", false)
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.stdout", false)
	v.SetDefault("telemetry.otlp_endpoint", "")
}

// BindEnv maps KANBAN_* environment variables onto v. Nested keys use an
// underscore, e.g. KANBAN_RULES_ALLOW_DUPLICATES. The standard
// OTEL_EXPORTER_OTLP_ENDPOINT is honored as well.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix("KANBAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("telemetry.enabled", "KANBAN_OTEL_ENABLED", "KANBAN_TELEMETRY_ENABLED")
	_ = v.BindEnv("telemetry.stdout", "KANBAN_OTEL_STDOUT", "KANBAN_TELEMETRY_STDOUT")
	_ = v.BindEnv("telemetry.otlp_endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT", "KANBAN_TELEMETRY_OTLP_ENDPOINT")
}

// LoadConfig decodes v into a Config and validates it.
func LoadConfig(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated fields and the bind safety rule.
func (c *Config) Validate() error {
	switch c.Store {
	case DriverSQLite:
		if c.DataDir == "" {
			return fmt.Errorf("data_dir must not be empty for the %s store", DriverSQLite)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store %q (want %q or %q)", c.Store, DriverSQLite, DriverMemory)
	}
	if _, err := board.NewIDGenerator(c.IDScheme); err != nil {
		return err
	}
	if strings.TrimSpace(c.InitialStage) == "" {
		return errors.New("initial_stage must not be empty")
	}

	if !c.AllowRemote && !isLoopbackBind(c.Bind) {
		return fmt.Errorf("%w: bind=%s", ErrNonLoopbackBind, c.Bind)
	}
	return nil
}

// isLoopbackBind accepts only 127.0.0.0/8, ::1, and "localhost". An empty
// host listens on every interface.
func isLoopbackBind(bind string) bool {
	host, _, err := net.SplitHostPort(bind)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// DatabasePath is where the SQLite store lives inside DataDir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "kanban.db")
}
