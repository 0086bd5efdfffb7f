// Package gemini implements the client adapter for Gemini CLI.
//
// Gemini stores MCP servers under "mcpServers" in its settings.json, which
// also carries unrelated keys like theme and auth type. Two quirks set it
// apart from the Claude-style format: the per-server "trust" boolean doubles
// as an enabled flag, and HTTP-transport servers use a dedicated "httpUrl"
// field while SSE servers use "url".
package gemini

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

// serverConfig is the wire form of one mcpServers entry. Trust is a pointer
// so an absent field (default trusted) is distinguishable from an explicit
// false.
type serverConfig struct {
	Type    string            `json:"type,omitempty"`
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env"`
	URL     string            `json:"url,omitempty"`
	HTTPURL string            `json:"httpUrl,omitempty"`
	Trust   *bool             `json:"trust,omitempty"`
}

// Handler is the Gemini CLI client adapter.
type Handler struct {
	configPath string
}

// New creates a handler for the given configuration file path.
func New(configPath string) *Handler {
	return &Handler{configPath: configPath}
}

// Kind returns the client kind this handler serves.
func (h *Handler) Kind() string { return paths.KindGeminiCLI }

// ConfigPath returns the live configuration file path.
func (h *Handler) ConfigPath() string { return h.configPath }

// Load reads all MCP servers. A missing file or absent mcpServers section
// yields an empty slice. An entry with no trust field loads as enabled.
func (h *Handler) Load() ([]mcp.Server, error) {
	raw, err := fileutil.ReadJSONMap(h.configPath)
	if err != nil {
		return nil, errors.Wrap(err, "loading gemini settings")
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
		return nil, errors.Wrap(err, "parsing gemini mcpServers")
	}

	servers := make([]mcp.Server, 0, len(wire))
	for name, cfg := range wire {
		url := cfg.URL
		if cfg.HTTPURL != "" {
			url = cfg.HTTPURL
		}

		enabled := true
		if cfg.Trust != nil {
			enabled = *cfg.Trust
		}

		servers = append(servers, mcp.Server{
			Name:      name,
			Command:   cfg.Command,
			Args:      cfg.Args,
			Env:       cfg.Env,
			Transport: transportFor(cfg),
			URL:       url,
			Enabled:   enabled,
		})
	}
	mcp.SortByName(servers)
	return servers, nil
}

// transportFor resolves the effective transport for a wire entry. An entry
// with httpUrl set is HTTP regardless of the type field.
func transportFor(cfg serverConfig) string {
	if cfg.HTTPURL != "" {
		return mcp.TransportHTTP
	}
	switch cfg.Type {
	case "sse":
		return mcp.TransportSSE
	case "http":
		return mcp.TransportHTTP
	default:
		return mcp.TransportStdio
	}
}

// Save writes the full record set into mcpServers, preserving all other
// settings keys. The enabled flag is always written as an explicit trust
// boolean. HTTP servers are written with httpUrl, SSE servers with url.
func (h *Handler) Save(servers []mcp.Server) error {
	raw := fileutil.ReadJSONMapLenient(h.configPath)

	wire := make(map[string]serverConfig, len(servers))
	for _, s := range servers {
		trust := s.Enabled
		cfg := serverConfig{
			Command: s.Command,
			Args:    s.Args,
			Env:     s.Env,
			Trust:   &trust,
		}
		if cfg.Args == nil {
			cfg.Args = []string{}
		}
		if cfg.Env == nil {
			cfg.Env = map[string]string{}
		}

		switch s.EffectiveTransport() {
		case mcp.TransportHTTP:
			cfg.Type = mcp.TransportHTTP
			cfg.HTTPURL = s.URL
		case mcp.TransportSSE:
			cfg.Type = mcp.TransportSSE
			cfg.URL = s.URL
		}
		wire[s.Name] = cfg
	}

	data, err := json.Marshal(wire)
	if err != nil {
		return errors.Wrap(err, "marshaling gemini mcpServers")
	}
	raw["mcpServers"] = data

	if err := os.MkdirAll(filepath.Dir(h.configPath), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	return errors.Wrap(fileutil.AtomicWriteJSON(h.configPath, raw), "saving gemini settings")
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

// ValidateFormat structurally checks the mcpServers section. A missing file
// or absent section is valid.
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
	return backup.Create(h.configPath, paths.KindGeminiCLI, dest)
}

// Restore copies a validated backup over the live config.
func (h *Handler) Restore(path string) error {
	return backup.Restore(h.configPath, path)
}
