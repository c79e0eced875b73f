// ABOUTME: Cobra command tree and viper configuration resolution for kanband.
// ABOUTME: Precedence is flags, then KANBAN_* env vars, then config.yaml, then defaults.
package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/2389-research/kanban/server"
)

// cli carries state shared by every subcommand.
type cli struct {
	v       *viper.Viper
	cfgFile string
	cfg     *server.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:          "kanband",
		Short:        "Kanban board service with rule-gated stage transitions",
		Long:         `kanband serves a kanban board over HTTP. Administrators register disallowed stage transitions; every card stage change is checked against them.`,
		Version:      version,
		SilenceUsage: true,

		PersistentPreRunE: func(*cobra.Command, []string) error {
			return c.load()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&c.cfgFile, "config", "c", "", "config file (default: $XDG_CONFIG_HOME/kanban/config.yaml)")
	pf.String("data-dir", "", "data directory for the board database (default: $XDG_DATA_HOME/kanban)")
	pf.String("store", server.DriverSQLite, "store driver: sqlite or memory")
	pf.String("id-scheme", "", "identifier scheme: ulid or uuid")
	pf.String("initial-stage", "", "initial stage for a board with no saved configuration")
	pf.Bool("allow-duplicate-rules", false, "accept rules that repeat an existing (from, to) pair")

	_ = c.v.BindPFlag("data_dir", pf.Lookup("data-dir"))
	_ = c.v.BindPFlag("store", pf.Lookup("store"))
	_ = c.v.BindPFlag("id_scheme", pf.Lookup("id-scheme"))
	_ = c.v.BindPFlag("initial_stage", pf.Lookup("initial-stage"))
	_ = c.v.BindPFlag("rules.allow_duplicates", pf.Lookup("allow-duplicate-rules"))

	root.AddCommand(newServeCmd(c), newExportCmd(c), newVersionCmd())
	return root
}

func (c *cli) load() error {
	dataDir, err := defaultDataDir()
	if err != nil {
		return err
	}
	server.SetDefaults(c.v, dataDir)
	server.BindEnv(c.v)

	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	} else {
		if configDir, err := defaultConfigDir(); err == nil {
			c.v.AddConfigPath(configDir)
		}
		c.v.AddConfigPath(filepath.Join(".", ".kanban"))
		c.v.SetConfigName("config")
		c.v.SetConfigType("yaml")
	}
	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if c.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := server.LoadConfig(c.v)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the kanband version",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kanband %s\n", version)
		},
	}
}
