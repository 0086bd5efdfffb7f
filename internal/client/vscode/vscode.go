// Package vscode implements the client adapter for Visual Studio Code.
//
// VS Code stores MCP servers inside its user settings.json, nested under
// "mcp" -> "servers". User settings carry many unrelated keys, so the adapter
// goes out of its way to never touch anything outside that nested section.
// A workspace-local .vscode/mcp.json can override the user-level file via
// SetWorkspacePath.
package vscode

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/thoreinstein/mcpsync/internal/backup"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/mcp"
	"github.com/thoreinstein/mcpsync/internal/paths"
	"github.com/thoreinstein/mcpsync/pkg/fileutil"
)

// serverConfig is the wire form of one servers entry. VS Code has no
// enabled/disabled flag and no description field, so those record fields do
// not survive a round trip through this client.
type serverConfig struct {
	Type    string            `json:"type,omitempty"`
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env,omitempty"`
	URL     string            `json:"url,omitempty"`
}

// Handler is the VS Code client adapter.
type Handler struct {
	configPath string
}

// New creates a handler targeting the user-level settings.json.
func New(configPath string) *Handler {
	return &Handler{configPath: configPath}
}

// Kind returns the client kind this handler serves.
func (h *Handler) Kind() string { return paths.KindVSCode }

// ConfigPath returns the live configuration file path.
func (h *Handler) ConfigPath() string { return h.configPath }

// SetWorkspacePath retargets the handler at a workspace-local mcp.json under
// the given project root instead of the user settings file.
func (h *Handler) SetWorkspacePath(root string) {
	h.configPath = filepath.Join(root, ".vscode", "mcp.json")
}

// Load reads all MCP servers from the nested mcp.servers section. A missing
// file or absent section yields an empty slice.
func (h *Handler) Load() ([]mcp.Server, error) {
	raw, err := fileutil.ReadJSONMap(h.configPath)
	if err != nil {
		return nil, errors.Wrap(err, "loading vscode settings")
	}
	if raw == nil {
		return []mcp.Server{}, nil
	}

	serversRaw, ok := nestedServers(raw)
	if !ok {
		return []mcp.Server{}, nil
	}

	var wire map[string]serverConfig
	if err := json.Unmarshal(serversRaw, &wire); err != nil {
		return nil, errors.Wrap(err, "parsing vscode mcp.servers")
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
			Enabled:   true, // vscode has no per-server disable flag
		})
	}
	mcp.SortByName(servers)
	return servers, nil
}

// nestedServers extracts the raw mcp.servers object. The second return is
// false when either level of nesting is absent or malformed.
func nestedServers(raw map[string]json.RawMessage) (json.RawMessage, bool) {
	mcpRaw, ok := raw["mcp"]
	if !ok {
		return nil, false
	}
	var inner map[string]json.RawMessage
	if err := json.Unmarshal(mcpRaw, &inner); err != nil {
		return nil, false
	}
	serversRaw, ok := inner["servers"]
	return serversRaw, ok
}

// Save writes the full record set into mcp.servers, preserving every other
// settings key byte-for-byte. A malformed "mcp" section is replaced rather
// than failing the write.
func (h *Handler) Save(servers []mcp.Server) error {
	raw := fileutil.ReadJSONMapLenient(h.configPath)

	inner := map[string]json.RawMessage{}
	if mcpRaw, ok := raw["mcp"]; ok {
		var existing map[string]json.RawMessage
		if err := json.Unmarshal(mcpRaw, &existing); err == nil {
			inner = existing
		}
	}

	wire := make(map[string]serverConfig, len(servers))
	for _, s := range servers {
		cfg := serverConfig{
			Command: s.Command,
			Args:    s.Args,
			Env:     s.Env,
			URL:     s.URL,
		}
		if cfg.Args == nil {
			cfg.Args = []string{}
		}
		if len(cfg.Env) == 0 {
			cfg.Env = nil
		}
		if t := s.EffectiveTransport(); t != mcp.TransportStdio {
			cfg.Type = t
		}
		wire[s.Name] = cfg
	}

	serversData, err := json.Marshal(wire)
	if err != nil {
		return errors.Wrap(err, "marshaling vscode mcp.servers")
	}
	inner["servers"] = serversData

	mcpData, err := json.Marshal(inner)
	if err != nil {
		return errors.Wrap(err, "marshaling vscode mcp section")
	}
	raw["mcp"] = mcpData

	if err := os.MkdirAll(filepath.Dir(h.configPath), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	return errors.Wrap(fileutil.AtomicWriteJSON(h.configPath, raw), "saving vscode settings")
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

// ValidateFormat structurally checks the mcp.servers section. A missing
// file or absent section is valid.
func (h *Handler) ValidateFormat() bool {
	raw, err := fileutil.ReadJSONMap(h.configPath)
	if err != nil {
		return false
	}
	if raw == nil {
		return true
	}

	mcpRaw, ok := raw["mcp"]
	if !ok {
		return true
	}
	var inner map[string]json.RawMessage
	if err := json.Unmarshal(mcpRaw, &inner); err != nil {
		return false
	}
	serversRaw, ok := inner["servers"]
	if !ok {
		return true
	}

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
	return backup.Create(h.configPath, paths.KindVSCode, dest)
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
