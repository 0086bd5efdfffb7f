// Package client defines the adapter contract shared by every supported MCP
// client, the factory that constructs adapters from discovered handles, and
// the registry that performs discovery.
//
// # Adapters
//
// Each client kind (Claude Code, Claude Desktop, Cursor, VS Code, Gemini CLI,
// OpenCode) has an adapter package under internal/client implementing
// [Handler]: a bidirectional mapping between the canonical [mcp.Server]
// record and that tool's configuration schema. Adapters share a design rule:
// on save, the live file is re-read first and only the MCP-server keys are
// patched, preserving every other top-level key. These are shared,
// human-edited configuration files, not files this program owns exclusively.
//
// # Discovery
//
// [Registry.Discover] checks, for each kind: an application install marker,
// an executable on PATH, the config file, or the config file's parent
// directory. Any one of these marks the client available. Discovery is
// rebuilt from scratch on every pass.
//
// # Wiring
//
//	registry := client.NewRegistry()
//	handle, err := registry.Get(paths.KindCursor)
//	if err != nil { ... }
//	handler, err := client.New(handle)
//	if err != nil { ... }
//	servers, err := handler.Load()
package client
