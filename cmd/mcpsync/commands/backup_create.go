package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/backup"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/paths"
)

var backupCreateClients []string

func init() {
	backupCreateCmd.Flags().StringSliceVarP(&backupCreateClients, "client", "c", nil,
		"target client(s): "+kindList()+" (default: all detected)")
	backupCmd.AddCommand(backupCreateCmd)
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create backups of client config files",
	Long: `Create a timestamped backup of each targeted client's config file.

Clients without a config file yet are skipped with a warning. Older backups
beyond the configured retention count are pruned after a successful backup.`,
	Example: `  # Back up every detected client
  mcpsync backup create

  # Back up one client
  mcpsync backup create --client claude-code`,
	RunE: runBackupCreate,
}

func runBackupCreate(cmd *cobra.Command, _ []string) error {
	reg := newRegistry()
	handles, err := resolveClients(reg, backupCreateClients)
	if err != nil {
		return err
	}

	retention := getConfig().BackupRetentionCount
	w := cmd.OutOrStdout()
	created := 0
	for _, h := range handles {
		handler, err := getHandler(reg, h.Kind)
		if err != nil {
			return err
		}

		path, err := handler.Backup("")
		if err != nil {
			if errors.Is(err, backup.ErrNoConfigFile) {
				fmt.Fprintf(os.Stderr, "Warning: %s has no config file to back up\n",
					paths.DisplayName(h.Kind))
				continue
			}
			return errors.Wrapf(err, "backing up %s", paths.DisplayName(h.Kind))
		}

		fmt.Fprintf(w, "%s%s%s -> %s\n",
			colorCyan, paths.DisplayName(h.Kind), colorReset, path)
		created++

		if pruned, err := backup.Prune(h.ConfigPath, h.Kind, retention); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: pruning old %s backups: %v\n", h.Kind, err)
		} else if pruned > 0 {
			fmt.Fprintf(w, "  %spruned %d old backup(s)%s\n", colorGray, pruned, colorReset)
		}
	}

	fmt.Fprintf(w, "Created %d backup(s)\n", created)
	return nil
}
