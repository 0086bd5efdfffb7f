package paths

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestKindsOrder(t *testing.T) {
	kinds := Kinds()
	if len(kinds) != 6 {
		t.Fatalf("expected 6 kinds, got %d", len(kinds))
	}
	if kinds[0] != KindClaudeCode {
		t.Errorf("first kind = %q, want claude-code", kinds[0])
	}
	for _, kind := range kinds {
		if !ValidKind(kind) {
			t.Errorf("ValidKind(%q) = false", kind)
		}
	}
	if ValidKind("emacs") {
		t.Error("unknown kind should be invalid")
	}
}

func TestConfigPathShapes(t *testing.T) {
	cases := []struct {
		kind   string
		suffix string
	}{
		{KindClaudeCode, ".claude.json"},
		{KindCursor, filepath.Join(".cursor", "mcp.json")},
		{KindOpenCode, filepath.Join("opencode", "opencode.json")},
	}
	for _, tc := range cases {
		got := ConfigPath(tc.kind)
		if got == "" {
			t.Fatalf("ConfigPath(%q) empty", tc.kind)
		}
		if !strings.HasSuffix(got, tc.suffix) {
			t.Errorf("ConfigPath(%q) = %q, want suffix %q", tc.kind, got, tc.suffix)
		}
	}

	if ConfigPath("emacs") != "" {
		t.Error("unknown kind should have no config path")
	}
}

func TestDisplayName(t *testing.T) {
	if DisplayName(KindVSCode) != "VS Code" {
		t.Errorf("DisplayName = %q", DisplayName(KindVSCode))
	}
	// Unknown kinds fall through to the raw identifier
	if DisplayName("emacs") != "emacs" {
		t.Errorf("unknown kind display = %q", DisplayName("emacs"))
	}
}

func TestExecutablesNonEmpty(t *testing.T) {
	for _, kind := range Kinds() {
		if kind == KindClaudeDesktop {
			continue // desktop app has no CLI executable
		}
		if len(Executables(kind)) == 0 {
			t.Errorf("Executables(%q) empty", kind)
		}
	}
}
