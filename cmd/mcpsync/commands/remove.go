package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/cli/prompt"
	"github.com/thoreinstein/mcpsync/internal/client"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/logging"
	"github.com/thoreinstein/mcpsync/internal/paths"
)

// Package-level flag variables for the remove command.
var (
	removeClients []string
	removeForce   bool
	removeBackup  bool
)

func init() {
	removeCmd.Flags().StringSliceVarP(&removeClients, "client", "c", nil,
		"target client(s): "+kindList()+" (default: all detected)")
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false,
		"skip confirmation prompt")
	removeCmd.Flags().BoolVar(&removeBackup, "backup", false,
		"back up each config before removing (defaults to the auto_backup setting)")
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an MCP server from client configurations",
	Long: `Remove an MCP server from the targeted client configuration(s).

Only clients that actually have the server configured are touched. By
default a confirmation prompt lists those clients first.

When run without a name on a terminal, an interactive fuzzy finder lets
you pick the server to remove.

Examples:
  mcpsync remove github
  mcpsync remove github --client cursor
  mcpsync remove github --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	reg := newRegistry()
	handles, err := resolveClients(reg, removeClients)
	if err != nil {
		return err
	}

	var name string
	if len(args) > 0 {
		name = args[0]
	} else {
		if !logging.IsTTY(os.Stdout) {
			return errors.NewUserError(
				errors.New("a server name is required when not running interactively"), "")
		}
		name, err = pickServerName(reg, handles)
		if err != nil {
			if errors.Is(err, prompt.ErrAborted) {
				return nil
			}
			return err
		}
	}

	// Narrow to the clients that actually have this server
	var present []client.Handle
	for _, h := range handles {
		handler, err := getHandler(reg, h.Kind)
		if err != nil {
			return err
		}
		existing, err := handler.Get(name)
		if err != nil {
			return errors.Wrapf(err, "checking %s", paths.DisplayName(h.Kind))
		}
		if existing != nil {
			present = append(present, h)
		}
	}

	w := cmd.OutOrStdout()
	if len(present) == 0 {
		fmt.Fprintf(w, "Server %q is not configured on any targeted client\n", name)
		return nil
	}

	// Confirm removal unless --force is specified
	if !removeForce {
		names := make([]string, len(present))
		for i, h := range present {
			names[i] = paths.DisplayName(h.Kind)
		}
		question := fmt.Sprintf("Remove MCP server %q from %s?", name, strings.Join(names, ", "))
		if !prompt.Confirm(w, os.Stdin, question) {
			fmt.Fprintln(w, "Aborted.")
			return nil
		}
	}

	doBackup := removeBackup || getConfig().AutoBackup

	var removed int
	for _, h := range present {
		handler, err := getHandler(reg, h.Kind)
		if err != nil {
			return err
		}

		if doBackup {
			if path, err := handler.Backup(""); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not back up %s config: %v\n",
					paths.DisplayName(h.Kind), err)
			} else {
				fmt.Fprintf(w, "%sBacked up %s to %s%s\n", colorGray, h.Kind, path, colorReset)
			}
		}

		fmt.Fprintf(w, "Removing %q from %s... ", name, paths.DisplayName(h.Kind))
		found, err := handler.Remove(name)
		if err != nil {
			return errors.Wrapf(err, "removing from %s", paths.DisplayName(h.Kind))
		}
		if found {
			fmt.Fprintf(w, "%sdone%s\n", colorGreen, colorReset)
			removed++
		} else {
			fmt.Fprintf(w, "%snot found%s\n", colorYellow, colorReset)
		}
	}

	fmt.Fprintf(w, "Removed %q from %d client(s)\n", name, removed)
	return nil
}
