// Package cursor implements the client adapter for Cursor, which has two
// coexisting on-disk formats for MCP servers:
//
//   - Claude-compatible: a "mcpServers" object map with separate command,
//     args, and env fields plus an optional "disabled" boolean.
//   - Cursor-native: a "servers" list of flat objects where command and
//     arguments are combined into a single string and "type" uses "command"
//     to mean stdio. The native format has no environment variables.
//
// Both keys populated at once is a conflict state: Load returns the union of
// both so no data is silently dropped, while Save collapses to the
// Claude-compatible format and removes the "servers" key entirely. That
// collapse is a deliberate, documented lossy normalization.
package cursor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/mcpsync/internal/backup"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/mcp"
	"github.com/thoreinstein/mcpsync/internal/paths"
	"github.com/thoreinstein/mcpsync/pkg/fileutil"
)

// Format identifies which MCP sub-format(s) a Cursor config file uses.
// Detection is an explicit step so the "both" ambiguity is a first-class
// state rather than an implicit precedence rule.
type Format string

const (
	// FormatClaude is the Claude-compatible mcpServers object map.
	FormatClaude Format = "claude"
	// FormatCursor is the native servers list.
	FormatCursor Format = "cursor"
	// FormatBoth means both storage keys are populated (conflict state).
	FormatBoth Format = "both"
	// FormatNone means no MCP configuration is present.
	FormatNone Format = "none"
)

// claudeServer is the wire form of one mcpServers entry.
type claudeServer struct {
	Type     string            `json:"type,omitempty"`
	Command  string            `json:"command"`
	Args     []string          `json:"args"`
	Env      map[string]string `json:"env"`
	URL      string            `json:"url,omitempty"`
	Disabled bool              `json:"disabled,omitempty"`
}

// nativeServer is the wire form of one servers list entry. Command holds the
// executable and its arguments joined by spaces.
type nativeServer struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Command string `json:"command"`
	Enabled *bool  `json:"enabled,omitempty"`
}

// Handler is the Cursor client adapter.
type Handler struct {
	configPath string
}

// New creates a handler for the given configuration file path.
func New(configPath string) *Handler {
	return &Handler{configPath: configPath}
}

// Kind returns the client kind this handler serves.
func (h *Handler) Kind() string { return paths.KindCursor }

// ConfigPath returns the live configuration file path.
func (h *Handler) ConfigPath() string { return h.configPath }

// DetectFormat reports which sub-format the live file currently uses.
// A missing or unreadable file reports FormatNone.
func (h *Handler) DetectFormat() Format {
	raw, err := fileutil.ReadJSONMap(h.configPath)
	if err != nil || raw == nil {
		return FormatNone
	}
	return detectFormat(raw)
}

// detectFormat inspects the raw top-level keys. A key counts only when it is
// present and non-empty, mirroring how Cursor itself ignores empty sections.
func detectFormat(raw map[string]json.RawMessage) Format {
	hasClaude := false
	if data, ok := raw["mcpServers"]; ok {
		var m map[string]json.RawMessage
		if err := json.Unmarshal(data, &m); err == nil && len(m) > 0 {
			hasClaude = true
		}
	}

	hasNative := false
	if data, ok := raw["servers"]; ok {
		var list []json.RawMessage
		if err := json.Unmarshal(data, &list); err == nil && len(list) > 0 {
			hasNative = true
		}
	}

	switch {
	case hasClaude && hasNative:
		return FormatBoth
	case hasClaude:
		return FormatClaude
	case hasNative:
		return FormatCursor
	default:
		return FormatNone
	}
}

// Load reads all MCP servers. When both sub-formats are populated the union
// is returned (Claude-format entries first) so no data is dropped.
func (h *Handler) Load() ([]mcp.Server, error) {
	raw, err := fileutil.ReadJSONMap(h.configPath)
	if err != nil {
		return nil, errors.Wrap(err, "loading cursor configuration")
	}
	if raw == nil {
		return []mcp.Server{}, nil
	}

	var servers []mcp.Server

	switch detectFormat(raw) {
	case FormatBoth:
		claude, err := loadClaudeFormat(raw)
		if err != nil {
			return nil, err
		}
		native, err := loadNativeFormat(raw)
		if err != nil {
			return nil, err
		}
		servers = append(claude, native...)
	case FormatClaude:
		if servers, err = loadClaudeFormat(raw); err != nil {
			return nil, err
		}
	case FormatCursor:
		if servers, err = loadNativeFormat(raw); err != nil {
			return nil, err
		}
	default:
		return []mcp.Server{}, nil
	}

	return servers, nil
}

func loadClaudeFormat(raw map[string]json.RawMessage) ([]mcp.Server, error) {
	var wire map[string]claudeServer
	if err := json.Unmarshal(raw["mcpServers"], &wire); err != nil {
		return nil, errors.Wrap(err, "parsing cursor mcpServers")
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
			Enabled:   !cfg.Disabled,
		})
	}
	mcp.SortByName(servers)
	return servers, nil
}

func loadNativeFormat(raw map[string]json.RawMessage) ([]mcp.Server, error) {
	var wire []nativeServer
	if err := json.Unmarshal(raw["servers"], &wire); err != nil {
		return nil, errors.Wrap(err, "parsing cursor servers list")
	}

	servers := make([]mcp.Server, 0, len(wire))
	for _, cfg := range wire {
		// The native format stores the executable and its arguments as one
		// space-joined string. Splitting on whitespace is lossy for values
		// with embedded spaces; the format has no escaping convention.
		command, args := splitCommand(cfg.Command)

		enabled := true
		if cfg.Enabled != nil {
			enabled = *cfg.Enabled
		}

		servers = append(servers, mcp.Server{
			Name:      cfg.Name,
			Command:   command,
			Args:      args,
			Env:       map[string]string{}, // native format has no env vars
			Transport: transportFromNativeType(cfg.Type),
			Enabled:   enabled,
		})
	}
	return servers, nil
}

// Save writes the full record set in the sub-format the file already uses.
// New and corrupt files start in the native format with a version marker.
// When both sub-formats are present, Save collapses to the Claude-compatible
// format and deletes the native "servers" key.
func (h *Handler) Save(servers []mcp.Server) error {
	raw, err := fileutil.ReadJSONMap(h.configPath)

	format := FormatCursor
	if err != nil || raw == nil {
		// Corrupt or missing: start fresh in the native format.
		raw = map[string]json.RawMessage{
			"version": json.RawMessage(`"1.0"`),
		}
	} else {
		switch detectFormat(raw) {
		case FormatClaude:
			format = FormatClaude
		case FormatBoth:
			format = FormatClaude
			delete(raw, "servers")
		}
	}

	if format == FormatClaude {
		if err := saveClaudeFormat(raw, servers); err != nil {
			return err
		}
	} else {
		if err := saveNativeFormat(raw, servers); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(h.configPath), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	return errors.Wrap(fileutil.AtomicWriteJSON(h.configPath, raw), "saving cursor configuration")
}

func saveClaudeFormat(raw map[string]json.RawMessage, servers []mcp.Server) error {
	wire := make(map[string]claudeServer, len(servers))
	for _, s := range servers {
		cfg := claudeServer{
			Command:  s.Command,
			Args:     s.Args,
			Env:      s.Env,
			URL:      s.URL,
			Disabled: !s.Enabled,
		}
		if cfg.Args == nil {
			cfg.Args = []string{}
		}
		if cfg.Env == nil {
			cfg.Env = map[string]string{}
		}
		if t := s.EffectiveTransport(); t != mcp.TransportStdio {
			cfg.Type = t
		}
		wire[s.Name] = cfg
	}

	data, err := json.Marshal(wire)
	if err != nil {
		return errors.Wrap(err, "marshaling cursor mcpServers")
	}
	raw["mcpServers"] = data
	return nil
}

func saveNativeFormat(raw map[string]json.RawMessage, servers []mcp.Server) error {
	wire := make([]nativeServer, 0, len(servers))
	for _, s := range servers {
		command := s.Command
		if len(s.Args) > 0 {
			command = s.Command + " " + strings.Join(s.Args, " ")
		}

		enabled := s.Enabled
		wire = append(wire, nativeServer{
			Name:    s.Name,
			Type:    nativeTypeFromTransport(s.EffectiveTransport()),
			Command: command,
			Enabled: &enabled,
		})
	}

	data, err := json.Marshal(wire)
	if err != nil {
		return errors.Wrap(err, "marshaling cursor servers list")
	}
	raw["servers"] = data
	return nil
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

// ValidateFormat structurally checks whichever sub-format(s) are present.
// A missing file is valid; when both sub-formats exist, both must be valid.
func (h *Handler) ValidateFormat() bool {
	raw, err := fileutil.ReadJSONMap(h.configPath)
	if err != nil {
		return false
	}
	if raw == nil {
		return true
	}

	switch detectFormat(raw) {
	case FormatClaude:
		return validClaudeSection(raw["mcpServers"])
	case FormatCursor:
		return validNativeSection(raw["servers"])
	case FormatBoth:
		return validClaudeSection(raw["mcpServers"]) && validNativeSection(raw["servers"])
	default:
		return true
	}
}

func validClaudeSection(serversRaw json.RawMessage) bool {
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

func validNativeSection(serversRaw json.RawMessage) bool {
	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(serversRaw, &entries); err != nil {
		return false
	}

	for _, entry := range entries {
		if entry == nil {
			return false
		}
		if _, ok := entry["name"]; !ok {
			return false
		}
		if _, ok := entry["command"]; !ok {
			return false
		}
		if typeRaw, ok := entry["type"]; ok {
			var t string
			if err := json.Unmarshal(typeRaw, &t); err != nil {
				return false
			}
			switch t {
			case "command", "sse", "http":
			default:
				return false
			}
		}
		if enabledRaw, ok := entry["enabled"]; ok {
			var enabled bool
			if err := json.Unmarshal(enabledRaw, &enabled); err != nil {
				return false
			}
		}
	}
	return true
}

// Backup copies the live config byte-for-byte. Fails if no config exists.
func (h *Handler) Backup(dest string) (string, error) {
	return backup.Create(h.configPath, paths.KindCursor, dest)
}

// Restore copies a validated backup over the live config.
func (h *Handler) Restore(path string) error {
	return backup.Restore(h.configPath, path)
}

// splitCommand splits a combined command string into executable and
// positional arguments on whitespace.
func splitCommand(command string) (string, []string) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return "", nil
	}
	return parts[0], parts[1:]
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

// transportFromNativeType maps the native "type" field, which uses "command"
// to mean stdio.
func transportFromNativeType(t string) string {
	switch t {
	case "sse":
		return mcp.TransportSSE
	case "http":
		return mcp.TransportHTTP
	default:
		return mcp.TransportStdio
	}
}

func nativeTypeFromTransport(transport string) string {
	switch transport {
	case mcp.TransportSSE:
		return "sse"
	case mcp.TransportHTTP:
		return "http"
	default:
		return "command"
	}
}
