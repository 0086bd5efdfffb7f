package mcp

import "sort"

// Transport type constants for MCP server communication.
const (
	// TransportStdio indicates local process communication via stdin/stdout.
	// This is the default transport when a Command is specified.
	TransportStdio = "stdio"

	// TransportSSE indicates remote server communication via Server-Sent Events.
	TransportSSE = "sse"

	// TransportHTTP indicates remote server communication via streamable HTTP.
	TransportHTTP = "http"
)

// Server is the canonical representation of one MCP server entry,
// independent of any client's on-disk format.
//
// A Server is a plain value. It has no identity beyond Name within the scope
// of one client's configuration; two records with the same Name are the same
// logical server, and the second overwrites the first.
type Server struct {
	// Name is the server's unique identifier within one client configuration.
	// Letters, digits, hyphens, and underscores only.
	Name string `json:"name"`

	// Command is the executable to launch for stdio servers.
	// May be empty only when URL is set (remote server).
	Command string `json:"command,omitempty"`

	// Args are positional command-line arguments. Order is significant.
	Args []string `json:"args,omitempty"`

	// Env contains environment variable overrides for the server process.
	Env map[string]string `json:"env,omitempty"`

	// Transport is the connection mechanism: stdio, sse, or http.
	// Empty is treated as stdio.
	Transport string `json:"transport,omitempty"`

	// URL is the server endpoint. Required for sse and http transports,
	// unused for stdio.
	URL string `json:"url,omitempty"`

	// Enabled indicates whether the server is active. Clients without a
	// native representation always load as enabled.
	Enabled bool `json:"enabled"`

	// Description is optional free text. Not every client format
	// round-trips it.
	Description string `json:"description,omitempty"`
}

// EffectiveTransport returns the server's transport, defaulting to stdio
// when unset.
func (s *Server) EffectiveTransport() string {
	if s.Transport == "" {
		return TransportStdio
	}
	return s.Transport
}

// IsRemote returns true if this server uses a network transport (sse or http).
func (s *Server) IsRemote() bool {
	t := s.EffectiveTransport()
	return t == TransportSSE || t == TransportHTTP
}

// ValidTransport returns true if t names a known transport.
func ValidTransport(t string) bool {
	switch t {
	case TransportStdio, TransportSSE, TransportHTTP:
		return true
	}
	return false
}

// SortByName sorts servers by name in place for deterministic ordering.
func SortByName(servers []Server) {
	sort.Slice(servers, func(i, j int) bool {
		return servers[i].Name < servers[j].Name
	})
}

// FindByName returns the first server with the given name, or nil.
func FindByName(servers []Server, name string) *Server {
	for i := range servers {
		if servers[i].Name == name {
			return &servers[i]
		}
	}
	return nil
}

// Upsert returns servers with any same-named record removed and s appended.
// Last-write-wins semantics: the new record's field values replace the old.
func Upsert(servers []Server, s Server) []Server {
	out := make([]Server, 0, len(servers)+1)
	for _, existing := range servers {
		if existing.Name != s.Name {
			out = append(out, existing)
		}
	}
	return append(out, s)
}
