// ABOUTME: The export subcommand: writes the board (configuration, rules, cards by stage) as YAML.
// ABOUTME: Reads the same store the server uses; output goes to stdout or --output.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/2389-research/kanban/board/export"
	"github.com/2389-research/kanban/server"
)

func newExportCmd(c *cli) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the board as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" || output == "-" {
				return runExport(cmd, c.cfg, cmd.OutOrStdout())
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			if err := runExport(cmd, c.cfg, f); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func runExport(cmd *cobra.Command, cfg *server.Config, w io.Writer) error {
	b, closer, err := server.OpenBoard(cfg, nil)
	if err != nil {
		return fmt.Errorf("open board: %w", err)
	}
	defer func() { _ = closer.Close() }()

	snap, err := b.Snapshot(cmd.Context())
	if err != nil {
		return err
	}
	doc, err := export.ExportYAML(snap)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, doc)
	return err
}
