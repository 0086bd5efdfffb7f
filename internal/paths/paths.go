package paths

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"

	"github.com/thoreinstein/mcpsync/internal/errors"
)

// Client kind identifiers for supported MCP clients.
const (
	KindClaudeCode    = "claude-code"
	KindClaudeDesktop = "claude-desktop"
	KindCursor        = "cursor"
	KindVSCode        = "vscode"
	KindGeminiCLI     = "gemini-cli"
	KindOpenCode      = "opencode"
)

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrUnknownKind indicates an unrecognized client kind.
	ErrUnknownKind = errors.New("unknown client kind")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory.
// This is a thin wrapper around os.UserHomeDir for consistency.
// Note: It returns an empty string on error for backward compatibility.
// Use ResolveHome for proper error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// AppConfigDir returns the directory for mcpsync's own configuration.
// Returns: <ConfigHome>/mcpsync/
func AppConfigDir() string {
	return filepath.Join(ConfigHome(), "mcpsync")
}

// ValidKind returns true if the client kind is recognized.
func ValidKind(kind string) bool {
	switch kind {
	case KindClaudeCode, KindClaudeDesktop, KindCursor,
		KindVSCode, KindGeminiCLI, KindOpenCode:
		return true
	}
	return false
}

// Kinds returns all supported client kinds in declaration order.
// This order is the canonical iteration order for discovery and display.
func Kinds() []string {
	return []string{
		KindClaudeCode,
		KindClaudeDesktop,
		KindCursor,
		KindVSCode,
		KindGeminiCLI,
		KindOpenCode,
	}
}

// ConfigPath returns the configuration file path for a client kind on the
// current platform.
//
// Client paths:
//   - claude-code: ~/.claude.json (main user config, NOT in the .claude directory)
//   - claude-desktop: per-OS Claude/claude_desktop_config.json
//   - cursor: ~/.cursor/mcp.json
//   - vscode: per-OS Code/User/settings.json
//   - gemini-cli: ./.gemini/settings.json when present, else ~/.gemini/settings.json
//   - opencode: ~/.config/opencode/opencode.json
//
// Returns an empty string for unknown kinds or when home cannot be resolved.
func ConfigPath(kind string) string {
	home := Home()
	if home == "" {
		return ""
	}

	switch kind {
	case KindClaudeCode:
		return filepath.Join(home, ".claude.json")

	case KindClaudeDesktop:
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "Claude", "claude_desktop_config.json")
		default:
			return filepath.Join(xdg.ConfigHome, "Claude", "claude_desktop_config.json")
		}

	case KindCursor:
		return filepath.Join(home, ".cursor", "mcp.json")

	case KindVSCode:
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "Code", "User", "settings.json")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "Code", "User", "settings.json")
		default:
			return filepath.Join(xdg.ConfigHome, "Code", "User", "settings.json")
		}

	case KindGeminiCLI:
		// Project-local settings take precedence over the global file.
		if cwd, err := os.Getwd(); err == nil {
			local := filepath.Join(cwd, ".gemini", "settings.json")
			if _, err := os.Stat(local); err == nil {
				return local
			}
		}
		return filepath.Join(home, ".gemini", "settings.json")

	case KindOpenCode:
		return filepath.Join(xdg.ConfigHome, "opencode", "opencode.json")
	}

	return ""
}

// AppMarkers returns filesystem paths whose existence indicates the client
// application is installed on the current platform. Used by discovery in
// addition to PATH lookups and config file presence.
func AppMarkers(kind string) []string {
	home := Home()

	switch kind {
	case KindClaudeCode:
		if home == "" {
			return nil
		}
		return []string{filepath.Join(home, ".claude")}

	case KindClaudeDesktop:
		switch runtime.GOOS {
		case "darwin":
			return []string{"/Applications/Claude.app"}
		case "windows":
			if home == "" {
				return nil
			}
			return []string{
				filepath.Join(home, "AppData", "Local", "Claude", "Claude.exe"),
				`C:\Program Files\Claude\Claude.exe`,
				`C:\Program Files (x86)\Claude\Claude.exe`,
			}
		default:
			return nil
		}

	case KindCursor:
		switch runtime.GOOS {
		case "darwin":
			return []string{"/Applications/Cursor.app"}
		case "windows":
			if home == "" {
				return nil
			}
			return []string{
				filepath.Join(home, "AppData", "Local", "Programs", "cursor", "Cursor.exe"),
				`C:\Program Files\Cursor\Cursor.exe`,
			}
		default:
			if home == "" {
				return nil
			}
			return []string{
				filepath.Join(home, ".local", "share", "cursor"),
				"/usr/local/bin/cursor",
				"/usr/bin/cursor",
			}
		}

	case KindVSCode:
		if runtime.GOOS == "darwin" {
			return []string{"/Applications/Visual Studio Code.app"}
		}
		return nil
	}

	return nil
}

// Executables returns command names whose presence on PATH indicates the
// client is installed.
func Executables(kind string) []string {
	switch kind {
	case KindClaudeCode:
		return []string{"claude"}
	case KindCursor:
		return []string{"cursor"}
	case KindVSCode:
		return []string{"code", "code-insiders"}
	case KindGeminiCLI:
		return []string{"gemini"}
	case KindOpenCode:
		return []string{"opencode"}
	}
	return nil
}

// DisplayName returns a human-readable name for a client kind.
func DisplayName(kind string) string {
	switch kind {
	case KindClaudeCode:
		return "Claude Code"
	case KindClaudeDesktop:
		return "Claude Desktop"
	case KindCursor:
		return "Cursor"
	case KindVSCode:
		return "VS Code"
	case KindGeminiCLI:
		return "Gemini CLI"
	case KindOpenCode:
		return "OpenCode"
	}
	return kind
}
