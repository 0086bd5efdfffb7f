package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/cli/prompt"
	"github.com/thoreinstein/mcpsync/internal/client"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/logging"
	"github.com/thoreinstein/mcpsync/internal/mcp"
	"github.com/thoreinstein/mcpsync/internal/paths"
)

// Package-level flag variables for the show command.
var showClients []string

func init() {
	showCmd.Flags().StringSliceVarP(&showClients, "client", "c", nil,
		"target client(s): "+kindList()+" (default: all detected)")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show the full definition of an MCP server",
	Long: `Show the full definition of an MCP server on each client that has it.

When run without a name on a terminal, an interactive fuzzy finder lets
you pick a server from everything currently configured.

Examples:
  mcpsync show github
  mcpsync show github --client cursor
  mcpsync show`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	reg := newRegistry()
	handles, err := resolveClients(reg, showClients)
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

	w := cmd.OutOrStdout()
	found := false
	for i, h := range handles {
		handler, err := getHandler(reg, h.Kind)
		if err != nil {
			return err
		}
		server, err := handler.Get(name)
		if err != nil {
			return errors.Wrapf(err, "reading %s", paths.DisplayName(h.Kind))
		}
		if server == nil {
			continue
		}

		if found && i > 0 {
			fmt.Fprintln(w)
		}
		found = true

		fmt.Fprintf(w, "%sClient: %s%s\n", colorCyan+colorBold, paths.DisplayName(h.Kind), colorReset)
		printServer(w, *server)
	}

	if !found {
		return errors.NewUserError(
			errors.Newf("server %q is not configured on any targeted client", name),
			"Run 'mcpsync list' to see configured servers")
	}
	return nil
}

// pickServerName offers a fuzzy selection over the union of all configured
// servers across the targeted clients, deduplicated by name.
func pickServerName(reg *client.Registry, handles []client.Handle) (string, error) {
	seen := make(map[string]bool)
	var union []mcp.Server
	for _, h := range handles {
		handler, err := getHandler(reg, h.Kind)
		if err != nil {
			return "", err
		}
		servers, err := handler.Load()
		if err != nil {
			return "", errors.Wrapf(err, "reading %s", paths.DisplayName(h.Kind))
		}
		for _, s := range servers {
			if !seen[s.Name] {
				seen[s.Name] = true
				union = append(union, s)
			}
		}
	}
	mcp.SortByName(union)

	selected, err := prompt.SelectServer(union)
	if err != nil {
		return "", err
	}
	return selected.Name, nil
}

func printServer(w io.Writer, s mcp.Server) {
	fmt.Fprintf(w, "  Name:      %s\n", s.Name)
	fmt.Fprintf(w, "  Transport: %s\n", s.EffectiveTransport())
	if s.IsRemote() {
		fmt.Fprintf(w, "  URL:       %s\n", s.URL)
	} else {
		fmt.Fprintf(w, "  Command:   %s\n", s.Command)
		if len(s.Args) > 0 {
			fmt.Fprintf(w, "  Args:      %s\n", strings.Join(s.Args, " "))
		}
	}
	if len(s.Env) > 0 {
		keys := make([]string, 0, len(s.Env))
		for k := range s.Env {
			keys = append(keys, k)
		}
		fmt.Fprintf(w, "  Env:       %s\n", strings.Join(keys, ", "))
	}
	fmt.Fprintf(w, "  Enabled:   %t\n", s.Enabled)
	if s.Description != "" {
		fmt.Fprintf(w, "  About:     %s\n", s.Description)
	}
}
