package client

import (
	"github.com/thoreinstein/mcpsync/internal/mcp"
)

// Handler is the contract every client adapter implements. Each adapter wraps
// exactly one configuration file and translates between the canonical
// [mcp.Server] record and that client's on-disk schema; only the mapping
// differs, which is what lets the registry and sync orchestrator stay generic.
//
// Adapters never retry internally. Every failure is returned to the caller,
// which decides whether to continue with other targets (sync) or abort
// (single-client operations).
type Handler interface {
	// Kind returns the client kind identifier (see internal/paths).
	Kind() string

	// ConfigPath returns the live configuration file path.
	ConfigPath() string

	// Load reads all MCP servers from the configuration file.
	// A missing file yields an empty slice, not an error. A present but
	// unparseable file is an error. Foreign keys in the file are ignored.
	Load() ([]mcp.Server, error)

	// Save writes the full record set back, merged with any non-MCP keys
	// already present in the file. A corrupt existing file is treated as
	// empty and overwritten.
	Save(servers []mcp.Server) error

	// Add inserts or replaces the named server (last-write-wins).
	Add(server mcp.Server) error

	// Remove deletes the named server. Returns true if a record was
	// removed; false leaves the file untouched.
	Remove(name string) (bool, error)

	// Get returns the named server, or nil if not present.
	Get(name string) (*mcp.Server, error)

	// ValidateFormat structurally checks the raw file without a full parse
	// into records. A missing file is valid; any structural violation
	// returns false rather than an error.
	ValidateFormat() bool

	// Backup copies the live config byte-for-byte to dest, or to a
	// synthesized timestamped path under <config-dir>/backups/ when dest
	// is empty. Returns the backup path. Fails if no config file exists.
	Backup(dest string) (string, error)

	// Restore copies the backup at path over the live config. The backup
	// must exist and be valid JSON.
	Restore(path string) error
}
