package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/backup"
	"github.com/thoreinstein/mcpsync/internal/client"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/paths"
)

var (
	backupListClients []string
	backupListJSON    bool
)

func init() {
	backupListCmd.Flags().StringSliceVarP(&backupListClients, "client", "c", nil,
		"target client(s): "+kindList()+" (default: all detected)")
	backupListCmd.Flags().BoolVar(&backupListJSON, "json", false, "Output in JSON format")
	backupCmd.AddCommand(backupListCmd)
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available backups",
	Long: `List all available configuration backups grouped by client, most
recent first.`,
	Example: `  # List all backups
  mcpsync backup list

  # List backups for one client
  mcpsync backup list --client cursor

  # Output as JSON
  mcpsync backup list --json`,
	RunE: runBackupList,
}

// backupListOutput represents one client's backups in JSON output.
type backupListOutput struct {
	Client  string        `json:"client"`
	Backups []backup.Info `json:"backups"`
}

func runBackupList(cmd *cobra.Command, _ []string) error {
	reg := newRegistry()
	handles, err := resolveClients(reg, backupListClients)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if backupListJSON {
		return outputBackupListJSON(w, handles)
	}
	return outputBackupListTabular(w, handles)
}

// countServers reads a backup through the owning kind's adapter and reports
// how many servers it holds. Unreadable backups count as zero.
func countServers(kind, backupPath string) int {
	handler, err := client.New(client.Handle{Kind: kind, ConfigPath: backupPath})
	if err != nil {
		return 0
	}
	servers, err := handler.Load()
	if err != nil {
		return 0
	}
	return len(servers)
}

func outputBackupListJSON(w io.Writer, handles []client.Handle) error {
	output := make([]backupListOutput, 0, len(handles))
	for _, h := range handles {
		backups, err := backup.List(h.ConfigPath, h.Kind)
		if err != nil {
			return errors.Wrapf(err, "listing backups for %s", h.Kind)
		}
		for i := range backups {
			backups[i].ServerCount = countServers(h.Kind, backups[i].BackupPath)
		}
		output = append(output, backupListOutput{Client: h.Kind, Backups: backups})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(output), "encoding JSON output")
}

func outputBackupListTabular(w io.Writer, handles []client.Handle) error {
	for i, h := range handles {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%sClient: %s%s\n",
			colorCyan+colorBold, paths.DisplayName(h.Kind), colorReset)

		backups, err := backup.List(h.ConfigPath, h.Kind)
		if err != nil {
			return errors.Wrapf(err, "listing backups for %s", h.Kind)
		}
		if len(backups) == 0 {
			fmt.Fprintf(w, "  %sno backups%s\n", colorGray, colorReset)
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  CREATED\tSERVERS\tPATH")
		for _, b := range backups {
			fmt.Fprintf(tw, "  %s\t%d\t%s\n",
				b.Timestamp.Format(time.DateTime),
				countServers(h.Kind, b.BackupPath), b.BackupPath)
		}
		if err := tw.Flush(); err != nil {
			return errors.Wrap(err, "flushing table output")
		}
	}
	return nil
}
