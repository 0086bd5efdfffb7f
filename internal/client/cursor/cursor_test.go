package cursor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/thoreinstein/mcpsync/internal/mcp"
)

func newTestHandler(t *testing.T) (*Handler, string) {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "mcp.json")
	return New(configPath), configPath
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    Format
	}{
		{"missing file", "", FormatNone},
		{"empty object", `{}`, FormatNone},
		{"empty sections", `{"mcpServers": {}, "servers": []}`, FormatNone},
		{"claude only", `{"mcpServers": {"a": {"command": "x"}}}`, FormatClaude},
		{"native only", `{"servers": [{"name": "a", "command": "x"}]}`, FormatCursor},
		{"both populated", `{"mcpServers": {"a": {"command": "x"}}, "servers": [{"name": "b", "command": "y"}]}`, FormatBoth},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, configPath := newTestHandler(t)
			if tc.content != "" {
				writeConfig(t, configPath, tc.content)
			}
			if got := h.DetectFormat(); got != tc.want {
				t.Errorf("DetectFormat() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLoadBothFormatsUnion(t *testing.T) {
	h, configPath := newTestHandler(t)
	writeConfig(t, configPath, `{
  "mcpServers": {"alpha": {"command": "alpha-mcp"}},
  "servers": [{"name": "beta", "type": "command", "command": "beta-mcp --port 8080", "enabled": false}]
}`)

	servers, err := h.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(servers) != 2 {
		t.Fatalf("expected union of 2 servers, got %d", len(servers))
	}

	alpha := mcp.FindByName(servers, "alpha")
	if alpha == nil || alpha.Command != "alpha-mcp" || !alpha.Enabled {
		t.Errorf("alpha not loaded correctly: %+v", alpha)
	}

	beta := mcp.FindByName(servers, "beta")
	if beta == nil {
		t.Fatal("beta not loaded")
	}
	if beta.Command != "beta-mcp" {
		t.Errorf("beta command = %q, want beta-mcp", beta.Command)
	}
	if len(beta.Args) != 2 || beta.Args[0] != "--port" || beta.Args[1] != "8080" {
		t.Errorf("beta args = %v, want [--port 8080]", beta.Args)
	}
	if beta.Enabled {
		t.Error("beta should be disabled")
	}
}

func TestSaveCollapsesBothToClaude(t *testing.T) {
	h, configPath := newTestHandler(t)
	writeConfig(t, configPath, `{
  "version": "1.0",
  "mcpServers": {"alpha": {"command": "alpha-mcp"}},
  "servers": [{"name": "beta", "command": "beta-mcp"}]
}`)

	servers, err := h.Load()
	if err != nil {
		t.Fatal(err)
	}
	if err := h.Save(servers); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["servers"]; ok {
		t.Error("native servers key should be deleted after collapse")
	}
	if string(raw["version"]) != `"1.0"` {
		t.Errorf("version not preserved: %s", raw["version"])
	}

	var wire map[string]claudeServer
	if err := json.Unmarshal(raw["mcpServers"], &wire); err != nil {
		t.Fatal(err)
	}
	if len(wire) != 2 {
		t.Errorf("expected both servers in mcpServers, got %d", len(wire))
	}
}

func TestSaveNewFileUsesNativeFormat(t *testing.T) {
	h, configPath := newTestHandler(t)

	server := mcp.Server{
		Name:    "github",
		Command: "npx",
		Args:    []string{"-y", "server-github"},
		Enabled: true,
	}
	if err := h.Save([]mcp.Server{server}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	if string(raw["version"]) != `"1.0"` {
		t.Errorf("new file should carry version marker, got %s", raw["version"])
	}

	var wire []nativeServer
	if err := json.Unmarshal(raw["servers"], &wire); err != nil {
		t.Fatal(err)
	}
	if len(wire) != 1 {
		t.Fatalf("expected 1 native entry, got %d", len(wire))
	}
	if wire[0].Command != "npx -y server-github" {
		t.Errorf("combined command = %q", wire[0].Command)
	}
	if wire[0].Type != "command" {
		t.Errorf("stdio should map to native type command, got %q", wire[0].Type)
	}
	if wire[0].Enabled == nil || !*wire[0].Enabled {
		t.Error("enabled not written")
	}
}

func TestSaveKeepsClaudeFormat(t *testing.T) {
	h, configPath := newTestHandler(t)
	writeConfig(t, configPath, `{"mcpServers": {"alpha": {"command": "alpha-mcp"}}}`)

	if err := h.Add(mcp.Server{Name: "next", Command: "next-mcp", Enabled: false}); err != nil {
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
	if _, ok := raw["servers"]; ok {
		t.Error("claude-format file should stay in claude format")
	}

	var wire map[string]claudeServer
	if err := json.Unmarshal(raw["mcpServers"], &wire); err != nil {
		t.Fatal(err)
	}
	if !wire["next"].Disabled {
		t.Error("disabled record should write disabled: true")
	}
	if wire["alpha"].Disabled {
		t.Error("enabled record should not be disabled")
	}
}

func TestNativeRoundTripLossyCommand(t *testing.T) {
	h, _ := newTestHandler(t)

	server := mcp.Server{Name: "db", Command: "python", Args: []string{"-m", "db_server"}, Enabled: true}
	if err := h.Save([]mcp.Server{server}); err != nil {
		t.Fatal(err)
	}

	got, err := h.Get("db")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil {
		t.Fatal("expected server")
	}
	if got.Command != "python" || len(got.Args) != 2 {
		t.Errorf("command split incorrectly: %q %v", got.Command, got.Args)
	}
}

func TestValidateFormat(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    bool
	}{
		{"missing file", "", true},
		{"no mcp sections", `{"version": "1.0"}`, true},
		{"valid claude", `{"mcpServers": {"a": {"command": "x"}}}`, true},
		{"claude missing command", `{"mcpServers": {"a": {}}}`, false},
		{"valid native", `{"servers": [{"name": "a", "type": "sse", "command": "x"}]}`, true},
		{"native missing name", `{"servers": [{"command": "x"}]}`, false},
		{"native bad type", `{"servers": [{"name": "a", "type": "stdio", "command": "x"}]}`, false},
		{"native bad enabled", `{"servers": [{"name": "a", "command": "x", "enabled": "yes"}]}`, false},
		{"both one invalid", `{"mcpServers": {"a": {"command": "x"}}, "servers": [{"name": "b"}]}`, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, configPath := newTestHandler(t)
			if tc.content != "" {
				writeConfig(t, configPath, tc.content)
			}
			if got := h.ValidateFormat(); got != tc.want {
				t.Errorf("ValidateFormat() = %t, want %t", got, tc.want)
			}
		})
	}
}
