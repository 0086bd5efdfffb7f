package commands

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create, list, and restore client config backups",
	Long: `Manage backups of client configuration files.

Backups are byte-exact copies stored in a backups/ directory next to each
client's config file, named <client>_<YYYYMMDD_HHMMSS>.json.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}
