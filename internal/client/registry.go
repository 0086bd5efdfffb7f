package client

import (
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/paths"
)

// ErrClientNotFound is returned when a requested client kind was not
// discovered as available. Recoverable: the caller can pick a different kind
// or re-run discovery.
var ErrClientNotFound = errors.New("client not found or not available")

// Registry discovers which MCP clients are installed on the host and where
// each one's configuration lives. It owns the set of discovered handles for
// its lifetime and is safe for concurrent use.
//
// Construct registries explicitly and pass them to callers; tests build
// isolated registries with injected handles via RegisterCustom.
type Registry struct {
	mu      sync.RWMutex
	handles map[string]Handle
}

// NewRegistry creates a registry and runs an initial discovery pass.
func NewRegistry() *Registry {
	r := &Registry{
		handles: make(map[string]Handle),
	}
	r.Discover()
	return r
}

// NewEmptyRegistry creates a registry with no discovered handles.
// Intended for tests and callers that inject handles via RegisterCustom.
func NewEmptyRegistry() *Registry {
	return &Registry{
		handles: make(map[string]Handle),
	}
}

// Discover rebuilds the full handle set from scratch. Idempotent and safe to
// call repeatedly; previously registered custom handles are discarded.
func (r *Registry) Discover() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handles = make(map[string]Handle)
	for _, kind := range paths.Kinds() {
		if h, ok := discoverKind(kind); ok {
			r.handles[kind] = h
		}
	}
}

// Refresh is an alias for Discover.
func (r *Registry) Refresh() {
	r.Discover()
}

// Get returns the handle for a client kind.
// Returns ErrClientNotFound if the kind was not discovered as available.
func (r *Registry) Get(kind string) (Handle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.handles[kind]
	if !ok {
		return Handle{}, errors.Wrapf(ErrClientNotFound, "client %q", kind)
	}
	return h, nil
}

// Available returns all discovered handles in the declaration order of
// client kinds.
func (r *Registry) Available() []Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]Handle, 0, len(r.handles))
	for _, kind := range paths.Kinds() {
		if h, ok := r.handles[kind]; ok {
			results = append(results, h)
		}
	}
	return results
}

// IsAvailable returns true if the kind was discovered.
func (r *Registry) IsAvailable(kind string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.handles[kind]
	return ok
}

// RegisterCustom injects or overrides a handle outside discovery.
// Used for workspace-scoped paths and for tests.
func (r *Registry) RegisterCustom(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handles[h.Kind] = h
}

// discoverKind applies the per-kind availability rule: an installed-
// application marker, an executable on PATH, the config file itself, or the
// config file's parent directory. Any one of these marks the client
// available, because a tool may be installed without ever having been
// configured.
func discoverKind(kind string) (Handle, bool) {
	configPath := paths.ConfigPath(kind)
	if configPath == "" {
		return Handle{}, false
	}

	available := fileExists(configPath)

	// The parent-directory clause is skipped for claude-code: its config
	// lives directly in the home directory, which always exists. The
	// ~/.claude marker covers the installed-but-unconfigured case instead.
	if !available && kind != paths.KindClaudeCode {
		available = dirExists(filepath.Dir(configPath))
	}

	if !available {
		for _, marker := range paths.AppMarkers(kind) {
			if pathExists(marker) {
				available = true
				break
			}
		}
	}

	if !available {
		for _, name := range paths.Executables(kind) {
			if _, err := exec.LookPath(name); err == nil {
				available = true
				break
			}
		}
	}

	if !available {
		return Handle{}, false
	}

	return Handle{
		Kind:       kind,
		ConfigPath: configPath,
		Available:  true,
	}, true
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
