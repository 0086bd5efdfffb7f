// Package claudecode implements the client adapter for Claude Code's
// configuration format, also used by Claude Desktop.
//
// The format is an object-of-objects under a top-level "mcpServers" key:
//
//	{
//	  "mcpServers": {
//	    "github": {
//	      "command": "npx",
//	      "args": ["-y", "@modelcontextprotocol/server-github"],
//	      "env": {}
//	    }
//	  }
//	}
//
// A "type" field carries the transport for sse/http servers and is omitted
// for stdio. The format has no enabled/disabled field; every server loads as
// enabled and disabling is not representable.
package claudecode

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/thoreinstein/mcpsync/internal/backup"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/mcp"
	"github.com/thoreinstein/mcpsync/pkg/fileutil"
)

// serverConfig is the wire form of one entry under "mcpServers".
type serverConfig struct {
	Type    string            `json:"type,omitempty"`
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env"`
	URL     string            `json:"url,omitempty"`
}

// Handler is the Claude Code / Claude Desktop client adapter.
type Handler struct {
	kind       string
	configPath string
}

// New creates a handler for the given kind (claude-code or claude-desktop)
// and configuration file path.
func New(kind, configPath string) *Handler {
	return &Handler{
		kind:       kind,
		configPath: configPath,
	}
}

// Kind returns the client kind this handler serves.
func (h *Handler) Kind() string { return h.kind }

// ConfigPath returns the live configuration file path.
func (h *Handler) ConfigPath() string { return h.configPath }

// Load reads all MCP servers from the configuration file.
// A missing file yields an empty slice.
func (h *Handler) Load() ([]mcp.Server, error) {
	raw, err := fileutil.ReadJSONMap(h.configPath)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s configuration", h.kind)
	}
	if raw == nil {
		return []mcp.Server{}, nil
	}

	serversRaw, ok := raw["mcpServers"]
	if !ok {
		return []mcp.Server{}, nil
	}

	var wire map[string]serverConfig
	if err := json.Unmarshal(serversRaw, &wire); err != nil {
		return nil, errors.Wrapf(err, "parsing %s mcpServers", h.kind)
	}

	servers := make([]mcp.Server, 0, len(wire))
	for name, cfg := range wire {
		servers = append(servers, mcp.Server{
			Name:      name,
			Command:   cfg.Command,
			Args:      cfg.Args,
			Env:       cfg.Env,
			Transport: transportFromType(cfg.Type),
			URL:       cfg.URL,
			Enabled:   true, // no native enabled/disabled field
		})
	}

	mcp.SortByName(servers)
	return servers, nil
}

// Save writes the full record set, preserving every non-mcpServers key
// already present in the file. A corrupt existing file is treated as empty.
func (h *Handler) Save(servers []mcp.Server) error {
	raw := fileutil.ReadJSONMapLenient(h.configPath)

	wire := make(map[string]serverConfig, len(servers))
	for _, s := range servers {
		cfg := serverConfig{
			Command: s.Command,
			Args:    emptyIfNil(s.Args),
			Env:     emptyEnvIfNil(s.Env),
			URL:     s.URL,
		}
		if t := s.EffectiveTransport(); t != mcp.TransportStdio {
			cfg.Type = t
		}
		wire[s.Name] = cfg
	}

	data, err := json.Marshal(wire)
	if err != nil {
		return errors.Wrapf(err, "marshaling %s mcpServers", h.kind)
	}
	raw["mcpServers"] = data

	if err := os.MkdirAll(filepath.Dir(h.configPath), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	return errors.Wrapf(fileutil.AtomicWriteJSON(h.configPath, raw), "saving %s configuration", h.kind)
}

// Add inserts or replaces the named server (last-write-wins).
func (h *Handler) Add(server mcp.Server) error {
	servers, err := h.Load()
	if err != nil {
		return err
	}
	return h.Save(mcp.Upsert(servers, server))
}

// Remove deletes the named server. The file is rewritten only when the
// record existed.
func (h *Handler) Remove(name string) (bool, error) {
	servers, err := h.Load()
	if err != nil {
		return false, err
	}

	kept := servers[:0]
	for _, s := range servers {
		if s.Name != name {
			kept = append(kept, s)
		}
	}
	if len(kept) == len(servers) {
		return false, nil
	}
	return true, h.Save(kept)
}

// Get returns the named server, or nil if not present.
func (h *Handler) Get(name string) (*mcp.Server, error) {
	servers, err := h.Load()
	if err != nil {
		return nil, err
	}
	return mcp.FindByName(servers, name), nil
}

// ValidateFormat structurally checks the raw file: mcpServers must be an
// object of objects, each with a command, and args/env typed correctly.
// A missing file is valid.
func (h *Handler) ValidateFormat() bool {
	raw, err := fileutil.ReadJSONMap(h.configPath)
	if err != nil {
		return false
	}
	if raw == nil {
		return true
	}
	serversRaw, ok := raw["mcpServers"]
	if !ok {
		return true
	}
	return validServersSection(serversRaw)
}

// validServersSection checks an mcpServers value: a mapping of objects, each
// with a required command and correctly typed args/env.
func validServersSection(serversRaw json.RawMessage) bool {
	var entries map[string]map[string]json.RawMessage
	if err := json.Unmarshal(serversRaw, &entries); err != nil {
		return false
	}

	for _, entry := range entries {
		if entry == nil {
			return false
		}
		if _, ok := entry["command"]; !ok {
			return false
		}
		if argsRaw, ok := entry["args"]; ok {
			var args []any
			if err := json.Unmarshal(argsRaw, &args); err != nil {
				return false
			}
		}
		if envRaw, ok := entry["env"]; ok {
			var env map[string]any
			if err := json.Unmarshal(envRaw, &env); err != nil {
				return false
			}
		}
	}
	return true
}

// Backup copies the live config byte-for-byte. Fails if no config exists.
func (h *Handler) Backup(dest string) (string, error) {
	return backup.Create(h.configPath, h.kind, dest)
}

// Restore copies a validated backup over the live config.
func (h *Handler) Restore(path string) error {
	return backup.Restore(h.configPath, path)
}

func transportFromType(t string) string {
	switch t {
	case "sse":
		return mcp.TransportSSE
	case "http":
		return mcp.TransportHTTP
	default:
		return mcp.TransportStdio
	}
}

func emptyIfNil(args []string) []string {
	if args == nil {
		return []string{}
	}
	return args
}

func emptyEnvIfNil(env map[string]string) map[string]string {
	if env == nil {
		return map[string]string{}
	}
	return env
}
