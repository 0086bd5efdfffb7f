package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/config"
	"github.com/thoreinstein/mcpsync/internal/errors"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false,
		"overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter mcpsync config file",
	Long: `Write a starter mcpsync configuration file with default values.

The file controls automatic backups, backup retention, default sync
targets, server validation, and per-client config path overrides.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, _ []string) error {
	path, err := config.WriteDefault(initForce)
	if err != nil {
		return errors.NewUserError(err, "")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
