// ABOUTME: Tests for process configuration: defaults, env overrides, enum validation, and the loopback rule.
package server

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389-research/kanban/board"
)

func newTestViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v, t.TempDir())
	BindEnv(v)
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	v := newTestViper(t)
	cfg, err := LoadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7780", cfg.Bind)
	assert.False(t, cfg.AllowRemote)
	assert.Equal(t, DriverSQLite, cfg.Store)
	assert.Equal(t, board.IDSchemeULID, cfg.IDScheme)
	assert.Equal(t, board.DefaultInitialStage, cfg.InitialStage)
	assert.False(t, cfg.Rules.AllowDuplicates)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("KANBAN_STORE", "memory")
	t.Setenv("KANBAN_ID_SCHEME", "uuid")
	t.Setenv("KANBAN_INITIAL_STAGE", "Backlog")
	t.Setenv("KANBAN_RULES_ALLOW_DUPLICATES", "true")
	t.Setenv("KANBAN_OTEL_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")

	cfg, err := LoadConfig(newTestViper(t))
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Store)
	assert.Equal(t, board.IDSchemeUUID, cfg.IDScheme)
	assert.Equal(t, "Backlog", cfg.InitialStage)
	assert.True(t, cfg.Rules.AllowDuplicates)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
}

func TestLoadConfig_RejectsBadValues(t *testing.T) {
	cases := map[string]func(v *viper.Viper){
		"unknown store":      func(v *viper.Viper) { v.Set("store", "postgres") },
		"unknown id scheme":  func(v *viper.Viper) { v.Set("id_scheme", "snowflake") },
		"blank stage":        func(v *viper.Viper) { v.Set("initial_stage", "  ") },
		"sqlite without dir": func(v *viper.Viper) { v.Set("data_dir", "") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			v := newTestViper(t)
			mutate(v)
			_, err := LoadConfig(v)
			assert.Error(t, err)
		})
	}
}

func TestValidate_BindSafety(t *testing.T) {
	cases := []struct {
		bind        string
		allowRemote bool
		wantErr     bool
	}{
		{"127.0.0.1:7780", false, false},
		{"[::1]:7780", false, false},
		{"localhost:7780", false, false},
		{"0.0.0.0:7780", false, true},
		{"192.168.1.10:7780", false, true},
		{"example.com:7780", false, true},
		{"0.0.0.0:7780", true, false},
		{":7780", false, true},
		{"no-port", false, true},
	}
	for _, tc := range cases {
		cfg := Config{Bind: tc.bind, AllowRemote: tc.allowRemote, Store: DriverMemory, InitialStage: "Requested"}
		err := cfg.Validate()
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrNonLoopbackBind, "bind %s", tc.bind)
		} else {
			assert.NoError(t, err, "bind %s", tc.bind)
		}
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := Config{DataDir: "/var/lib/kanban"}
	assert.Equal(t, "/var/lib/kanban/kanban.db", cfg.DatabasePath())
}
