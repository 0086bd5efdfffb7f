package vscode

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/thoreinstein/mcpsync/internal/mcp"
)

func newTestHandler(t *testing.T) (*Handler, string) {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "settings.json")
	return New(configPath), configPath
}

func TestLoadNestedSection(t *testing.T) {
	h, configPath := newTestHandler(t)
	content := `{
  "editor.fontSize": 14,
  "mcp": {
    "servers": {
      "github": {"command": "npx", "args": ["-y", "server-github"]},
      "api": {"type": "http", "command": "", "url": "https://api.example.com/mcp"}
    }
  }
}`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	servers, err := h.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(servers) != 2 {
		t.Fatalf("expected 2 servers, got %d", len(servers))
	}

	api := mcp.FindByName(servers, "api")
	if api == nil || api.EffectiveTransport() != mcp.TransportHTTP || api.URL == "" {
		t.Errorf("http server not loaded correctly: %+v", api)
	}
}

func TestLoadAbsentSection(t *testing.T) {
	h, configPath := newTestHandler(t)
	if err := os.WriteFile(configPath, []byte(`{"editor.fontSize": 14}`), 0o644); err != nil {
		t.Fatal(err)
	}

	servers, err := h.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(servers) != 0 {
		t.Errorf("expected no servers, got %d", len(servers))
	}
}

func TestSavePreservesUserSettings(t *testing.T) {
	h, configPath := newTestHandler(t)
	content := `{
  "editor.fontSize": 14,
  "workbench.colorTheme": "Solarized Dark",
  "mcp": {
    "inputs": [{"id": "token", "type": "promptString"}],
    "servers": {}
  }
}`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := h.Add(mcp.Server{Name: "linear", Command: "linear-mcp", Enabled: true}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if string(raw["editor.fontSize"]) != "14" {
		t.Errorf("editor.fontSize not preserved: %s", raw["editor.fontSize"])
	}

	var inner map[string]json.RawMessage
	if err := json.Unmarshal(raw["mcp"], &inner); err != nil {
		t.Fatal(err)
	}
	if _, ok := inner["inputs"]; !ok {
		t.Error("sibling key inside mcp section not preserved")
	}

	var wire map[string]serverConfig
	if err := json.Unmarshal(inner["servers"], &wire); err != nil {
		t.Fatal(err)
	}
	if _, ok := wire["linear"]; !ok {
		t.Error("added server missing from mcp.servers")
	}
}

func TestSaveOmitsEmptyEnv(t *testing.T) {
	h, configPath := newTestHandler(t)

	if err := h.Add(mcp.Server{Name: "a", Command: "a-mcp", Enabled: true}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	var raw struct {
		Mcp struct {
			Servers map[string]map[string]json.RawMessage `json:"servers"`
		} `json:"mcp"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	entry := raw.Mcp.Servers["a"]
	if _, ok := entry["env"]; ok {
		t.Error("empty env should be omitted")
	}
	if string(entry["args"]) != "[]" {
		t.Errorf("args should be explicit empty array, got %s", entry["args"])
	}
}

func TestSetWorkspacePath(t *testing.T) {
	root := t.TempDir()
	h := New(filepath.Join(root, "settings.json"))
	h.SetWorkspacePath(root)

	want := filepath.Join(root, ".vscode", "mcp.json")
	if h.ConfigPath() != want {
		t.Errorf("ConfigPath() = %q, want %q", h.ConfigPath(), want)
	}

	if err := h.Add(mcp.Server{Name: "ws", Command: "ws-mcp", Enabled: true}); err != nil {
		t.Fatalf("Add to workspace path failed: %v", err)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("workspace config not created: %v", err)
	}
}

func TestValidateFormat(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    bool
	}{
		{"missing file", "", true},
		{"no mcp section", `{"editor.fontSize": 14}`, true},
		{"mcp without servers", `{"mcp": {"inputs": []}}`, true},
		{"valid", `{"mcp": {"servers": {"a": {"command": "x"}}}}`, true},
		{"entry missing command", `{"mcp": {"servers": {"a": {}}}}`, false},
		{"mcp not an object", `{"mcp": []}`, false},
		{"servers not an object", `{"mcp": {"servers": []}}`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, configPath := newTestHandler(t)
			if tc.content != "" {
				if err := os.WriteFile(configPath, []byte(tc.content), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			if got := h.ValidateFormat(); got != tc.want {
				t.Errorf("ValidateFormat() = %t, want %t", got, tc.want)
			}
		})
	}
}
