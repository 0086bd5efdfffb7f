package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/cli/prompt"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/logging"
	"github.com/thoreinstein/mcpsync/internal/mcp"
	"github.com/thoreinstein/mcpsync/internal/paths"
	"github.com/thoreinstein/mcpsync/internal/sync"
)

// Package-level flag variables for the sync command.
var (
	syncTargets   []string
	syncServers   []string
	syncOverwrite bool
	syncNoBackup  bool
	syncDryRun    bool
)

func init() {
	syncCmd.Flags().StringSliceVarP(&syncTargets, "target", "t", nil,
		"target client(s): "+kindList()+" (default: all detected except the source)")
	syncCmd.Flags().StringSliceVarP(&syncServers, "server", "s", nil,
		"limit the sync to the named server(s) (repeatable)")
	syncCmd.Flags().BoolVar(&syncOverwrite, "overwrite", false,
		"replace servers that already exist on targets without asking")
	syncCmd.Flags().BoolVar(&syncNoBackup, "no-backup", false,
		"skip pre-sync backups of target configs")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false,
		"report what would change without writing anything")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync [source]",
	Short: "Copy MCP servers from one client to others",
	Long: `Copy MCP server configurations from a source client to target clients.

Records are translated through the common form, so each target file keeps
its native format and none of its unrelated settings are touched. Servers
that already exist on a target are skipped unless you pass --overwrite or
confirm each conflict at the prompt.

When run without a source on a terminal, an interactive fuzzy finder lets
you pick one from the detected clients.

Examples:
  mcpsync sync claude-code
  mcpsync sync claude-code --target cursor --target vscode
  mcpsync sync cursor --server github --server linear
  mcpsync sync claude-code --dry-run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	reg := newRegistry()
	log := logging.FromContext(cmd.Context())

	var source string
	if len(args) > 0 {
		source = args[0]
	} else {
		if !logging.IsTTY(os.Stdout) {
			return errors.NewUserError(
				errors.New("a source client is required when not running interactively"), "")
		}
		handle, err := prompt.SelectClient(reg.Available())
		if err != nil {
			if errors.Is(err, prompt.ErrAborted) {
				return nil
			}
			return err
		}
		source = handle.Kind
	}

	if !paths.ValidKind(source) {
		return errors.NewUserError(
			errors.Newf("invalid source client %q (valid: %s)", source, kindList()),
			"Run 'mcpsync status' to see detected clients")
	}

	cfg := getConfig()
	targets := syncTargets
	if len(targets) == 0 {
		targets = cfg.DefaultSyncTargets
	}

	opts := sync.Options{
		Source:    source,
		Targets:   targets,
		Servers:   syncServers,
		Overwrite: syncOverwrite,
		Backup:    cfg.AutoBackup && !syncNoBackup,
		DryRun:    syncDryRun,
	}

	w := cmd.OutOrStdout()
	var confirm sync.ConflictFunc
	if !syncOverwrite && !syncDryRun && logging.IsTTY(os.Stdout) {
		confirm = func(server mcp.Server, targetKind string) bool {
			question := fmt.Sprintf("Server %q already exists on %s. Overwrite?",
				server.Name, paths.DisplayName(targetKind))
			return prompt.Confirm(w, os.Stdin, question)
		}
	}

	orch := sync.New(reg, log)
	report, err := orch.Run(cmd.Context(), opts, confirm)
	if err != nil {
		return err
	}

	printSyncReport(w, report)
	if report.HasFailures() {
		return errors.NewExitError(errors.New("sync completed with failures"), errors.ExitSystem)
	}
	return nil
}

func printSyncReport(w io.Writer, report *sync.Report) {
	if report.DryRun {
		fmt.Fprintf(w, "%sDry run: no files were written%s\n\n", colorYellow, colorReset)
	}

	for _, t := range report.Targets {
		fmt.Fprintf(w, "%s%s%s %s(%s)%s\n",
			colorCyan+colorBold, paths.DisplayName(t.Kind), colorReset,
			colorGray, t.ConfigPath, colorReset)

		if t.Err != nil {
			fmt.Fprintf(w, "  %sfailed%s: %v\n", colorYellow, colorReset, t.Err)
			continue
		}
		if t.BackupPath != "" {
			fmt.Fprintf(w, "  %sbacked up to %s%s\n", colorGray, t.BackupPath, colorReset)
		}
		for _, name := range t.Synced {
			fmt.Fprintf(w, "  %s+ %s%s\n", colorGreen, name, colorReset)
		}
		for _, name := range t.Skipped {
			fmt.Fprintf(w, "  %s- %s (exists, skipped)%s\n", colorGray, name, colorReset)
		}
		for _, f := range t.Failures {
			fmt.Fprintf(w, "  %s! %s: %v%s\n", colorYellow, f.Name, f.Err, colorReset)
		}
	}

	fmt.Fprintf(w, "\nSynced %d server(s) from %s across %d client(s)\n",
		report.TotalSynced(), paths.DisplayName(report.Source), len(report.Targets))
}
