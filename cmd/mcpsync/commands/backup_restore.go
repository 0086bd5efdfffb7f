package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/backup"
	"github.com/thoreinstein/mcpsync/internal/cli/prompt"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/paths"
)

var backupRestoreForce bool

func init() {
	backupRestoreCmd.Flags().BoolVarP(&backupRestoreForce, "force", "f", false,
		"skip confirmation prompt")
	backupCmd.AddCommand(backupRestoreCmd)
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <client> [backup-path]",
	Short: "Restore a client config from a backup",
	Long: `Restore a client's configuration file from a backup.

If no backup path is provided, the most recent backup for the client is
used. The backup must be valid JSON; a corrupt backup is rejected before
the live file is touched. The live config is overwritten in full.`,
	Example: `  # Restore the most recent Cursor backup
  mcpsync backup restore cursor

  # Restore a specific backup
  mcpsync backup restore cursor ~/.cursor/backups/cursor_20260831_120000.json

  # List available backups first
  mcpsync backup list --client cursor`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runBackupRestore,
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	kind := args[0]

	reg := newRegistry()
	handle, err := reg.Get(kind)
	if err != nil {
		return errors.NewUserError(err, "Run 'mcpsync status' to see detected clients")
	}

	w := cmd.OutOrStdout()

	var backupPath string
	if len(args) > 1 {
		backupPath = args[1]
	} else {
		latest, err := backup.Latest(handle.ConfigPath, kind)
		if err != nil {
			if errors.Is(err, backup.ErrBackupNotFound) {
				return errors.NewUserError(
					errors.Newf("no backups found for %s", paths.DisplayName(kind)),
					"Run 'mcpsync backup create' first")
			}
			return err
		}
		backupPath = latest.BackupPath
		fmt.Fprintf(w, "Using most recent backup: %s\n", backupPath)
	}

	if !backupRestoreForce {
		question := fmt.Sprintf("Overwrite the %s config at %s with %s?",
			paths.DisplayName(kind), handle.ConfigPath, backupPath)
		if !prompt.Confirm(w, os.Stdin, question) {
			fmt.Fprintln(w, "Aborted.")
			return nil
		}
	}

	handler, err := getHandler(reg, kind)
	if err != nil {
		return err
	}
	if err := handler.Restore(backupPath); err != nil {
		if errors.Is(err, backup.ErrInvalidBackup) {
			return errors.NewUserError(err,
				"The backup file is not valid JSON; pick another with 'mcpsync backup list'")
		}
		return errors.Wrapf(err, "restoring %s", paths.DisplayName(kind))
	}

	fmt.Fprintf(w, "%sRestored %s from %s%s\n",
		colorGreen, paths.DisplayName(kind), backupPath, colorReset)
	return nil
}
