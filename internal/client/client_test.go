package client

import (
	"path/filepath"
	"testing"

	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/paths"
)

func TestRegistryGet(t *testing.T) {
	reg := NewEmptyRegistry()
	reg.RegisterCustom(Handle{Kind: paths.KindCursor, ConfigPath: "/tmp/mcp.json", Available: true})

	h, err := reg.Get(paths.KindCursor)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if h.ConfigPath != "/tmp/mcp.json" {
		t.Errorf("ConfigPath = %q", h.ConfigPath)
	}

	if _, err := reg.Get(paths.KindVSCode); !errors.Is(err, ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}
	if reg.IsAvailable(paths.KindVSCode) {
		t.Error("vscode should not be available")
	}
}

func TestRegistryAvailableOrder(t *testing.T) {
	reg := NewEmptyRegistry()
	// Register out of declaration order
	reg.RegisterCustom(Handle{Kind: paths.KindOpenCode, ConfigPath: "/a", Available: true})
	reg.RegisterCustom(Handle{Kind: paths.KindClaudeCode, ConfigPath: "/b", Available: true})
	reg.RegisterCustom(Handle{Kind: paths.KindCursor, ConfigPath: "/c", Available: true})

	handles := reg.Available()
	if len(handles) != 3 {
		t.Fatalf("expected 3 handles, got %d", len(handles))
	}
	if handles[0].Kind != paths.KindClaudeCode {
		t.Errorf("first handle = %q, want claude-code", handles[0].Kind)
	}
	if handles[len(handles)-1].Kind != paths.KindOpenCode {
		t.Errorf("last handle = %q, want opencode", handles[len(handles)-1].Kind)
	}
}

func TestRegisterCustomOverrides(t *testing.T) {
	reg := NewEmptyRegistry()
	reg.RegisterCustom(Handle{Kind: paths.KindCursor, ConfigPath: "/first", Available: true})
	reg.RegisterCustom(Handle{Kind: paths.KindCursor, ConfigPath: "/second", Available: true})

	h, err := reg.Get(paths.KindCursor)
	if err != nil {
		t.Fatal(err)
	}
	if h.ConfigPath != "/second" {
		t.Errorf("override not applied: %q", h.ConfigPath)
	}
}

func TestFactoryBuildsEveryKind(t *testing.T) {
	dir := t.TempDir()
	for _, kind := range paths.Kinds() {
		h := Handle{Kind: kind, ConfigPath: filepath.Join(dir, kind+".json"), Available: true}
		handler, err := New(h)
		if err != nil {
			t.Fatalf("New(%s) failed: %v", kind, err)
		}
		if handler.Kind() != kind {
			t.Errorf("handler for %s reports kind %q", kind, handler.Kind())
		}
		if handler.ConfigPath() != h.ConfigPath {
			t.Errorf("handler for %s reports path %q", kind, handler.ConfigPath())
		}
	}
}

func TestFactoryUnknownKind(t *testing.T) {
	_, err := New(Handle{Kind: "emacs", ConfigPath: "/x"})
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}
