package commands

import (
	"strings"

	"github.com/thoreinstein/mcpsync/internal/client"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/paths"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// newRegistry builds a client registry with any per-client config path
// overrides from the app configuration applied on top of discovery.
func newRegistry() *client.Registry {
	reg := client.NewRegistry()

	cfg := getConfig()
	for _, kind := range paths.Kinds() {
		if override := cfg.ConfigPathFor(kind); override != "" {
			reg.RegisterCustom(client.Handle{
				Kind:       kind,
				ConfigPath: override,
				Available:  true,
			})
		}
	}
	return reg
}

// getHandler resolves one client kind to its adapter through the registry.
func getHandler(reg *client.Registry, kind string) (client.Handler, error) {
	handle, err := reg.Get(kind)
	if err != nil {
		return nil, errors.NewUserError(err, "Run 'mcpsync status' to see detected clients")
	}
	return client.New(handle)
}

// resolveClients expands the --client flag to handles. An empty flag means
// every detected client.
func resolveClients(reg *client.Registry, kinds []string) ([]client.Handle, error) {
	if len(kinds) == 0 {
		handles := reg.Available()
		if len(handles) == 0 {
			return nil, errors.NewUserError(
				errors.New("no MCP clients detected"),
				"Install a supported client or set a config_path override in the mcpsync config")
		}
		return handles, nil
	}

	var invalid []string
	for _, kind := range kinds {
		if !paths.ValidKind(kind) {
			invalid = append(invalid, kind)
		}
	}
	if len(invalid) > 0 {
		err := errors.Newf("invalid client(s): %s (valid: %s)",
			strings.Join(invalid, ", "),
			strings.Join(paths.Kinds(), ", "))
		return nil, errors.NewUserError(err, "Run 'mcpsync status' to see detected clients")
	}

	handles := make([]client.Handle, 0, len(kinds))
	for _, kind := range kinds {
		h, err := reg.Get(kind)
		if err != nil {
			return nil, errors.NewUserError(err, "Run 'mcpsync status' to see detected clients")
		}
		handles = append(handles, h)
	}
	return handles, nil
}

// kindList returns the valid client kinds as a comma-separated string for
// flag help text.
func kindList() string {
	return strings.Join(paths.Kinds(), ", ")
}

// parseEnvSlice parses repeated KEY=VALUE flag values into a map.
func parseEnvSlice(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, errors.Newf("invalid environment variable %q (expected KEY=VALUE)", pair)
		}
		env[key] = value
	}
	return env, nil
}

// truncate shortens a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
