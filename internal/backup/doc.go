// Package backup implements byte-level backup and restore of client
// configuration files.
//
// Backups are bit-exact copies of the live file, written to a backups/
// directory next to the configuration with a timestamped name:
//
//	~/.cursor/backups/cursor_20260831_142500.json
//
// Restore validates that the backup is syntactically valid JSON before
// overwriting the live file, then performs a byte-level copy back. No
// manifest or index of backups is kept; the [Info] value returned to
// callers is purely descriptive.
package backup
