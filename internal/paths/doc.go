// Package paths centralizes client kind identifiers and filesystem path
// resolution for mcpsync.
//
// Each supported MCP client stores its configuration in a different location,
// and several of those locations vary by operating system. This package is the
// single source of truth for:
//
//   - The closed set of client kinds ([Kinds], [ValidKind])
//   - Per-kind, per-OS configuration file paths ([ConfigPath])
//   - Installation markers used by discovery ([AppMarkers], [Executables])
//
// Path construction relies on github.com/adrg/xdg for the XDG base
// directories so Linux, macOS, and Windows each resolve to their native
// conventions.
package paths
