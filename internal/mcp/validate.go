package mcp

import (
	"github.com/thoreinstein/mcpsync/internal/errors"
)

// Sentinel errors for server record validation.
var (
	// ErrEmptyName indicates the server name is empty or whitespace.
	ErrEmptyName = errors.New("server name cannot be empty")

	// ErrInvalidName indicates the server name contains illegal characters.
	ErrInvalidName = errors.New("server name can only contain letters, numbers, hyphens, and underscores")

	// ErrInvalidTransport indicates an unrecognized transport value.
	ErrInvalidTransport = errors.New("transport must be stdio, sse, or http")

	// ErrMissingURL indicates a remote transport without a URL.
	ErrMissingURL = errors.New("url is required for sse and http servers")

	// ErrMissingCommand indicates a stdio server without a command.
	ErrMissingCommand = errors.New("command is required for stdio servers")
)

// Validate checks the record's own invariants before any I/O is attempted.
// It returns the first violation found.
func (s *Server) Validate() error {
	if s.Name == "" {
		return ErrEmptyName
	}
	for _, c := range s.Name {
		if !isNameChar(c) {
			return errors.Wrapf(ErrInvalidName, "name %q", s.Name)
		}
	}

	if s.Transport != "" && !ValidTransport(s.Transport) {
		return errors.Wrapf(ErrInvalidTransport, "transport %q", s.Transport)
	}

	if s.IsRemote() {
		if s.URL == "" {
			return errors.Wrapf(ErrMissingURL, "server %q", s.Name)
		}
		return nil
	}

	if s.Command == "" {
		return errors.Wrapf(ErrMissingCommand, "server %q", s.Name)
	}
	return nil
}

func isNameChar(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	}
	return false
}
