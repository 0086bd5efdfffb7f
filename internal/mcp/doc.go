// Package mcp provides the canonical MCP (Model Context Protocol) server
// record that serves as the bridge between different AI client formats.
//
// The [Server] type is a format-independent value describing one MCP server:
//
//	// Local stdio server
//	server := mcp.Server{
//	    Name:    "github",
//	    Command: "npx",
//	    Args:    []string{"-y", "@modelcontextprotocol/server-github"},
//	    Env:     map[string]string{"GITHUB_TOKEN": "${GITHUB_TOKEN}"},
//	    Enabled: true,
//	}
//
//	// Remote SSE server
//	server := mcp.Server{
//	    Name:      "remote-api",
//	    URL:       "https://api.example.com/mcp",
//	    Transport: mcp.TransportSSE,
//	    Enabled:   true,
//	}
//
// Client adapters (see internal/client) translate Server values to and from
// each tool's on-disk schema. [Server.Validate] enforces the record's own
// invariants (legal name characters, URL presence for remote transports)
// before any I/O is attempted.
package mcp
