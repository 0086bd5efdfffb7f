package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/client"
	"github.com/thoreinstein/mcpsync/internal/paths"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show detected clients and their config files",
	Long: `Show every supported client, whether it was detected on this host,
where its configuration file lives, and how many MCP servers it has.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, _ []string) error {
	reg := newRegistry()
	w := cmd.OutOrStdout()

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CLIENT\tDETECTED\tSERVERS\tCONFIG")
	for _, kind := range paths.Kinds() {
		if !reg.IsAvailable(kind) {
			fmt.Fprintf(tw, "%s\t-\t-\t%s\n",
				paths.DisplayName(kind), paths.ConfigPath(kind))
			continue
		}

		handle, err := reg.Get(kind)
		if err != nil {
			return err
		}

		count := "-"
		if _, statErr := os.Stat(handle.ConfigPath); statErr == nil {
			if handler, err := client.New(handle); err == nil {
				if servers, err := handler.Load(); err == nil {
					count = fmt.Sprintf("%d", len(servers))
				} else {
					count = "error"
				}
			}
		} else {
			count = "0"
		}

		fmt.Fprintf(tw, "%s\tyes\t%s\t%s\n",
			paths.DisplayName(kind), count, handle.ConfigPath)
	}
	return tw.Flush()
}
