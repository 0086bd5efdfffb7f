// Package opencode implements the client adapter for OpenCode.
//
// OpenCode's opencode.json stores MCP servers under "mcp" with its own
// vocabulary: entries are typed "local" or "remote", a local entry's
// "command" is an array whose first element is the executable, and env vars
// live under "environment". Entries the rest of the world cannot express are
// skipped on load rather than failing the whole file, matching how OpenCode
// itself tolerates partial config.
package opencode

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

// schemaURL is written into new config files so editors pick up completion.
const schemaURL = "https://opencode.ai/config.json"

const (
	typeLocal  = "local"
	typeRemote = "remote"
)

// serverConfig is the wire form of one mcp entry.
type serverConfig struct {
	Type        string            `json:"type"`
	Command     []string          `json:"command,omitempty"`
	Environment map[string]string `json:"environment,omitempty"`
	Enabled     *bool             `json:"enabled,omitempty"`
	URL         string            `json:"url,omitempty"`
}

// Handler is the OpenCode client adapter.
type Handler struct {
	configPath string
}

// New creates a handler for the given configuration file path.
func New(configPath string) *Handler {
	return &Handler{configPath: configPath}
}

// Kind returns the client kind this handler serves.
func (h *Handler) Kind() string { return paths.KindOpenCode }

// ConfigPath returns the live configuration file path.
func (h *Handler) ConfigPath() string { return h.configPath }

// Load reads all MCP servers. Entries with an unknown type, a local entry
// with an empty command list, or a remote entry without a url are skipped.
func (h *Handler) Load() ([]mcp.Server, error) {
	raw, err := fileutil.ReadJSONMap(h.configPath)
	if err != nil {
		return nil, errors.Wrap(err, "loading opencode configuration")
	}
	if raw == nil {
		return []mcp.Server{}, nil
	}

	mcpRaw, ok := raw["mcp"]
	if !ok {
		return []mcp.Server{}, nil
	}

	var wire map[string]serverConfig
	if err := json.Unmarshal(mcpRaw, &wire); err != nil {
		return nil, errors.Wrap(err, "parsing opencode mcp section")
	}

	servers := make([]mcp.Server, 0, len(wire))
	for name, cfg := range wire {
		kind := cfg.Type
		if kind == "" {
			kind = typeLocal
		}

		enabled := true
		if cfg.Enabled != nil {
			enabled = *cfg.Enabled
		}

		switch kind {
		case typeLocal:
			if len(cfg.Command) == 0 {
				continue
			}
			servers = append(servers, mcp.Server{
				Name:      name,
				Command:   cfg.Command[0],
				Args:      cfg.Command[1:],
				Env:       cfg.Environment,
				Transport: mcp.TransportStdio,
				Enabled:   enabled,
			})
		case typeRemote:
			if cfg.URL == "" {
				continue
			}
			servers = append(servers, mcp.Server{
				Name:      name,
				Transport: remoteTransport(cfg.URL),
				URL:       cfg.URL,
				Enabled:   enabled,
			})
		default:
			continue
		}
	}
	mcp.SortByName(servers)
	return servers, nil
}

// remoteTransport guesses the transport for a remote entry; OpenCode does
// not record it. Remote entries default to SSE; only a plain http:// URL
// that does not mention sse is treated as streamable HTTP.
func remoteTransport(url string) string {
	lower := strings.ToLower(url)
	if strings.HasPrefix(lower, "http://") && !strings.Contains(lower, "sse") {
		return mcp.TransportHTTP
	}
	return mcp.TransportSSE
}

// Save writes the full record set under "mcp", preserving other config keys
// and adding a $schema marker when absent. Stdio records without a command
// and remote records without a URL cannot be represented and are skipped.
func (h *Handler) Save(servers []mcp.Server) error {
	raw := fileutil.ReadJSONMapLenient(h.configPath)

	if _, ok := raw["$schema"]; !ok {
		raw["$schema"] = json.RawMessage(`"` + schemaURL + `"`)
	}

	wire := make(map[string]serverConfig, len(servers))
	for _, s := range servers {
		enabled := s.Enabled
		if s.IsRemote() {
			if s.URL == "" {
				continue
			}
			wire[s.Name] = serverConfig{
				Type:    typeRemote,
				URL:     s.URL,
				Enabled: &enabled,
			}
			continue
		}

		if s.Command == "" {
			continue
		}
		command := append([]string{s.Command}, s.Args...)
		cfg := serverConfig{
			Type:    typeLocal,
			Command: command,
			Enabled: &enabled,
		}
		if len(s.Env) > 0 {
			cfg.Environment = s.Env
		}
		wire[s.Name] = cfg
	}

	data, err := json.Marshal(wire)
	if err != nil {
		return errors.Wrap(err, "marshaling opencode mcp section")
	}
	raw["mcp"] = data

	if err := os.MkdirAll(filepath.Dir(h.configPath), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	return errors.Wrap(fileutil.AtomicWriteJSON(h.configPath, raw), "saving opencode configuration")
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

// ValidateFormat structurally checks the mcp section. Unlike Load, which
// tolerates broken entries, validation reports them: every entry must carry
// a valid type and the fields that type requires.
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

	var entries map[string]map[string]json.RawMessage
	if err := json.Unmarshal(mcpRaw, &entries); err != nil {
		return false
	}
	for _, entry := range entries {
		if entry == nil {
			return false
		}

		typeRaw, ok := entry["type"]
		if !ok {
			return false
		}
		var kind string
		if err := json.Unmarshal(typeRaw, &kind); err != nil {
			return false
		}

		switch kind {
		case typeLocal:
			commandRaw, ok := entry["command"]
			if !ok {
				return false
			}
			var command []string
			if err := json.Unmarshal(commandRaw, &command); err != nil || len(command) == 0 {
				return false
			}
		case typeRemote:
			urlRaw, ok := entry["url"]
			if !ok {
				return false
			}
			var url string
			if err := json.Unmarshal(urlRaw, &url); err != nil || url == "" {
				return false
			}
		default:
			return false
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
	return backup.Create(h.configPath, paths.KindOpenCode, dest)
}

// Restore copies a validated backup over the live config.
func (h *Handler) Restore(path string) error {
	return backup.Restore(h.configPath, path)
}
