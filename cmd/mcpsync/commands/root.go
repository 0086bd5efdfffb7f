// Package commands implements the CLI commands for mcpsync.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/config"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/logging"
)

// Build-time variables set via ldflags.
// Defaults apply to local builds.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configFile holds the value of the --config flag.
var configFile string

// appConfig is the loaded application configuration.
var appConfig *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"path to mcpsync config file")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("mcpsync version {{.Version}} (commit " + commit + ", built " + date + ")\n")

	// Silence errors and usage so main controls error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	appConfig, configLoadErr = config.Load(configFile)
}

var rootCmd = &cobra.Command{
	Use:   "mcpsync",
	Short: "Sync MCP server configurations across AI coding tools",
	Long: `mcpsync manages Model Context Protocol (MCP) server configurations
across the tools that consume them: Claude Code, Claude Desktop, Cursor,
VS Code, Gemini CLI, and OpenCode.

Each tool stores MCP servers in its own file format. mcpsync reads any of
them into a common form and writes it back out in each target's native
format, leaving every unrelated setting in those files untouched.`,
	Example: `  # See which clients are installed
  mcpsync status

  # Add a server to every detected client
  mcpsync add github npx -- -y @modelcontextprotocol/server-github

  # Copy all servers from Claude Code to Cursor
  mcpsync sync claude-code --target cursor

  # Check every config file for structural problems
  mcpsync validate`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence; fall back to the env var
		if v == 0 {
			if val, ok := os.LookupEnv("MCPSYNC_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig surfaces config load failures before any command runs.
func checkConfig(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "init" {
		return nil
	}
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	return nil
}

// getConfig returns the loaded app configuration, or defaults when loading
// was skipped.
func getConfig() *config.Config {
	if appConfig != nil {
		return appConfig
	}
	return &config.Config{
		Version:              1,
		AutoBackup:           true,
		BackupRetentionCount: 10,
		ValidateServers:      true,
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
