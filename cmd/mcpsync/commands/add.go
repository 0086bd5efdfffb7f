package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/mcp"
	"github.com/thoreinstein/mcpsync/internal/paths"
)

// Sentinel errors for add operations.
var (
	errAddMissingCommandOrURL = errors.New("either command or --url is required")
	errAddBothCommandAndURL   = errors.New("cannot specify both command and --url")
)

// Package-level flag variables for the add command.
var (
	addClients     []string
	addURL         string
	addEnv         []string
	addTransport   string
	addDescription string
	addDisabled    bool
	addForce       bool
)

func init() {
	addCmd.Flags().StringSliceVarP(&addClients, "client", "c", nil,
		"target client(s): "+kindList()+" (default: all detected)")
	addCmd.Flags().StringVar(&addURL, "url", "",
		"remote server endpoint for sse/http transport")
	addCmd.Flags().StringSliceVar(&addEnv, "env", nil,
		"environment variables in KEY=VALUE format (repeatable)")
	addCmd.Flags().StringVar(&addTransport, "transport", "",
		"explicit transport type: stdio, sse, http")
	addCmd.Flags().StringVar(&addDescription, "description", "",
		"human-readable description of the server")
	addCmd.Flags().BoolVar(&addDisabled, "disabled", false,
		"add the server in a disabled state")
	addCmd.Flags().BoolVarP(&addForce, "force", "f", false,
		"overwrite if server already exists")
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <name> [command] [args...]",
	Short: "Add an MCP server to client configurations",
	Long: `Add an MCP server to the targeted client configuration(s).

For local stdio servers, provide a command and optional arguments:
  mcpsync add github npx -- -y @modelcontextprotocol/server-github

For remote servers, use the --url flag:
  mcpsync add api-gateway --url=https://api.example.com/mcp --transport http

Environment variables can be set with --env (repeatable):
  mcpsync add github npx --env GITHUB_TOKEN=ghp_xxx

Examples:
  mcpsync add github npx -- -y @modelcontextprotocol/server-github
  mcpsync add api --url=https://api.example.com/sse
  mcpsync add db-tools ./db-mcp --env DB_HOST=localhost --env DB_PORT=5432
  mcpsync add github npx --client cursor --force`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	name := args[0]
	var command string
	var cmdArgs []string

	if len(args) > 1 {
		command = args[1]
		if len(args) > 2 {
			cmdArgs = args[2:]
		}
	}

	// Either command or --url is required, but not both
	if command == "" && addURL == "" {
		return errors.NewUserError(errAddMissingCommandOrURL,
			"Provide a command for stdio servers or --url for remote servers")
	}
	if command != "" && addURL != "" {
		return errors.NewUserError(errAddBothCommandAndURL, "")
	}

	envMap, err := parseEnvSlice(addEnv)
	if err != nil {
		return errors.NewUserError(err, "")
	}

	// Infer transport when not given: remote defaults to sse
	transport := addTransport
	if transport == "" && addURL != "" {
		transport = mcp.TransportSSE
	}
	if transport != "" && !mcp.ValidTransport(transport) {
		return errors.NewUserError(
			errors.Newf("invalid --transport %q: must be stdio, sse, or http", transport), "")
	}

	server := mcp.Server{
		Name:        name,
		Command:     command,
		Args:        cmdArgs,
		Env:         envMap,
		Transport:   transport,
		URL:         addURL,
		Enabled:     !addDisabled,
		Description: addDescription,
	}

	if getConfig().ValidateServers {
		if err := server.Validate(); err != nil {
			return errors.NewUserError(err, "")
		}
	}

	reg := newRegistry()
	handles, err := resolveClients(reg, addClients)
	if err != nil {
		return err
	}

	// Check for existing servers (unless --force)
	if !addForce {
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
				return errors.NewUserError(
					errors.Newf("server %q already exists on %s", name, paths.DisplayName(h.Kind)),
					"Use --force to overwrite")
			}
		}
	}

	w := cmd.OutOrStdout()
	var added int
	var failed int
	for _, h := range handles {
		handler, err := getHandler(reg, h.Kind)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "Adding %q to %s... ", name, paths.DisplayName(h.Kind))
		if err := handler.Add(server); err != nil {
			fmt.Fprintf(w, "%sfailed%s: %v\n", colorYellow, colorReset, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "%sdone%s\n", colorGreen, colorReset)
		added++
	}

	if failed > 0 {
		return errors.NewExitError(
			errors.Newf("added %q to %d client(s), %d failed", name, added, failed),
			errors.ExitSystem)
	}
	fmt.Fprintf(w, "Added %q to %d client(s)\n", name, added)
	return nil
}
