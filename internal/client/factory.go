package client

import (
	"github.com/thoreinstein/mcpsync/internal/client/claudecode"
	"github.com/thoreinstein/mcpsync/internal/client/cursor"
	"github.com/thoreinstein/mcpsync/internal/client/gemini"
	"github.com/thoreinstein/mcpsync/internal/client/opencode"
	"github.com/thoreinstein/mcpsync/internal/client/vscode"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/paths"
)

// ErrUnknownKind indicates a handle with an unrecognized client kind.
var ErrUnknownKind = errors.New("unknown client kind")

// New constructs the adapter for a handle. The handle's kind and config path
// are the only inputs an adapter needs; everything else is derived.
//
// The kind set is closed: adding a client means adding a case here, a kind
// constant in internal/paths, and an adapter package.
func New(h Handle) (Handler, error) {
	switch h.Kind {
	case paths.KindClaudeCode, paths.KindClaudeDesktop:
		// Claude Desktop shares Claude Code's mcpServers schema; only the
		// config location and discovery markers differ.
		return claudecode.New(h.Kind, h.ConfigPath), nil
	case paths.KindCursor:
		return cursor.New(h.ConfigPath), nil
	case paths.KindVSCode:
		return vscode.New(h.ConfigPath), nil
	case paths.KindGeminiCLI:
		return gemini.New(h.ConfigPath), nil
	case paths.KindOpenCode:
		return opencode.New(h.ConfigPath), nil
	}
	return nil, errors.Wrapf(ErrUnknownKind, "kind %q", h.Kind)
}
