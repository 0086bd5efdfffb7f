package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/mcpsync/internal/client"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/paths"
)

// Package-level flag variables for the list command.
var (
	listClients []string
	listOutput  string
)

func init() {
	listCmd.Flags().StringSliceVarP(&listClients, "client", "c", nil,
		"target client(s): "+kindList()+" (default: all detected)")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "table",
		"output format: table, json, yaml, toml")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured MCP servers",
	Long: `List all configured MCP servers grouped by client.

By default, lists servers for all detected clients. Use the --client flag
to limit to specific clients.

Examples:
  # List all MCP servers
  mcpsync list

  # List servers for one client
  mcpsync list --client claude-code

  # Machine-readable output
  mcpsync list --output json
  mcpsync list --output yaml`,
	RunE: runList,
}

// clientServers represents one client's servers in structured output.
type clientServers struct {
	Client     string       `json:"client" yaml:"client" toml:"client"`
	ConfigPath string       `json:"config_path" yaml:"config_path" toml:"config_path"`
	Servers    []serverInfo `json:"servers" yaml:"servers" toml:"servers"`
}

// serverInfo represents one server in structured output.
type serverInfo struct {
	Name      string            `json:"name" yaml:"name" toml:"name"`
	Transport string            `json:"transport" yaml:"transport" toml:"transport"`
	Command   string            `json:"command,omitempty" yaml:"command,omitempty" toml:"command,omitempty"`
	Args      []string          `json:"args,omitempty" yaml:"args,omitempty" toml:"args,omitempty"`
	URL       string            `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`
	Enabled   bool              `json:"enabled" yaml:"enabled" toml:"enabled"`
	Env       map[string]string `json:"env,omitempty" yaml:"env,omitempty" toml:"env,omitempty"`
}

func runList(cmd *cobra.Command, _ []string) error {
	reg := newRegistry()
	handles, err := resolveClients(reg, listClients)
	if err != nil {
		return err
	}

	output, err := collectServers(reg, handles)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch listOutput {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(output), "encoding JSON output")
	case "yaml":
		data, err := yaml.Marshal(output)
		if err != nil {
			return errors.Wrap(err, "encoding YAML output")
		}
		_, err = w.Write(data)
		return err
	case "toml":
		// TOML cannot represent a top-level array; wrap it in a table.
		data, err := toml.Marshal(map[string]any{"clients": output})
		if err != nil {
			return errors.Wrap(err, "encoding TOML output")
		}
		_, err = w.Write(data)
		return err
	case "table":
		return outputTable(w, output)
	default:
		return errors.NewUserError(
			errors.Newf("invalid --output %q: must be table, json, yaml, or toml", listOutput), "")
	}
}

func collectServers(reg *client.Registry, handles []client.Handle) ([]clientServers, error) {
	output := make([]clientServers, 0, len(handles))
	for _, h := range handles {
		handler, err := getHandler(reg, h.Kind)
		if err != nil {
			return nil, err
		}
		servers, err := handler.Load()
		if err != nil {
			return nil, errors.Wrapf(err, "listing servers for %s", paths.DisplayName(h.Kind))
		}

		infos := make([]serverInfo, len(servers))
		for i, s := range servers {
			infos[i] = serverInfo{
				Name:      s.Name,
				Transport: s.EffectiveTransport(),
				Command:   s.Command,
				Args:      s.Args,
				URL:       s.URL,
				Enabled:   s.Enabled,
				Env:       s.Env,
			}
		}
		output = append(output, clientServers{
			Client:     h.Kind,
			ConfigPath: h.ConfigPath,
			Servers:    infos,
		})
	}
	return output, nil
}

func outputTable(w io.Writer, output []clientServers) error {
	for i, cs := range output {
		if i > 0 {
			fmt.Fprintln(w)
		}

		fmt.Fprintf(w, "%sClient: %s%s %s(%s)%s\n",
			colorCyan+colorBold, paths.DisplayName(cs.Client), colorReset,
			colorGray, cs.ConfigPath, colorReset)

		if len(cs.Servers) == 0 {
			fmt.Fprintf(w, "  %sno servers configured%s\n", colorGray, colorReset)
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  NAME\tTRANSPORT\tTARGET\tENABLED")
		for _, s := range cs.Servers {
			target := s.URL
			if target == "" {
				target = strings.TrimSpace(s.Command + " " + strings.Join(s.Args, " "))
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%t\n",
				s.Name, s.Transport, truncate(target, 60), s.Enabled)
		}
		if err := tw.Flush(); err != nil {
			return errors.Wrap(err, "flushing table output")
		}
	}
	return nil
}
