package backup

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Sentinel errors for backup operations.
var (
	// ErrNoConfigFile indicates there is no live configuration file to back up.
	ErrNoConfigFile = errors.New("no configuration file exists to back up")

	// ErrBackupNotFound indicates the requested backup file does not exist.
	ErrBackupNotFound = errors.New("backup file not found")

	// ErrInvalidBackup indicates a backup file failed JSON validation before restore.
	ErrInvalidBackup = errors.New("invalid backup file format")
)

// TimestampLayout is the format used in generated backup file names.
const TimestampLayout = "20060102_150405"

// Info describes a completed backup. It is purely informational metadata
// returned to the caller; no index of backups is persisted.
type Info struct {
	// Timestamp is when the backup was created.
	Timestamp time.Time `json:"timestamp"`

	// Kind is the client kind the backup belongs to.
	Kind string `json:"kind"`

	// BackupPath is where the copy was written.
	BackupPath string `json:"backup_path"`

	// OriginalPath is the live configuration file that was copied.
	OriginalPath string `json:"original_path"`

	// ServerCount is the number of MCP servers in the backed-up file.
	// This package does not parse client formats; callers that can
	// construct the owning adapter fill it in.
	ServerCount int `json:"server_count"`
}

// DefaultPath synthesizes the backup destination for a config file:
// <config-dir>/backups/<kind>_<YYYYMMDD_HHMMSS>.json
// Hyphens in the kind are flattened to underscores.
func DefaultPath(configPath, kind string, t time.Time) string {
	name := strings.ReplaceAll(kind, "-", "_") + "_" + t.Format(TimestampLayout) + ".json"
	return filepath.Join(filepath.Dir(configPath), "backups", name)
}

// Create copies the live config file at configPath to dest, byte for byte.
// If dest is empty, a path is synthesized via DefaultPath with the current
// time. The backup directory is created if missing.
//
// Returns ErrNoConfigFile if the live file does not exist. The copy is a
// byte-level duplicate, never a re-serialization, so backups are bit-exact.
func Create(configPath, kind, dest string) (string, error) {
	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrapf(ErrNoConfigFile, "config %s", configPath)
		}
		return "", errors.Wrapf(err, "stat %s", configPath)
	}

	if dest == "" {
		dest = DefaultPath(configPath, kind, time.Now())
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", errors.Wrap(err, "creating backup directory")
	}

	if err := copyFile(configPath, dest); err != nil {
		return "", errors.Wrap(err, "creating backup")
	}

	return dest, nil
}

// Restore copies the backup at backupPath over the live config at configPath.
//
// The backup must exist and must be syntactically valid JSON; the live format
// may differ between clients, but JSON validity is the floor enforced before
// any overwrite so corruption never propagates into a restore target.
// The config's parent directory is created if needed.
func Restore(configPath, backupPath string) error {
	data, err := os.ReadFile(backupPath)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrBackupNotFound, "backup %s", backupPath)
		}
		return errors.Wrapf(err, "reading backup %s", backupPath)
	}

	if !json.Valid(data) {
		return errors.Wrapf(ErrInvalidBackup, "backup %s", backupPath)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	if err := copyFile(backupPath, configPath); err != nil {
		return errors.Wrap(err, "restoring configuration")
	}

	return nil
}

// List returns the backups for a client kind found next to its config file,
// newest first. Returns an empty slice when the backup directory does not
// exist yet.
func List(configPath, kind string) ([]Info, error) {
	dir := filepath.Join(filepath.Dir(configPath), "backups")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, errors.Wrapf(err, "reading backup directory %s", dir)
	}

	prefix := strings.ReplaceAll(kind, "-", "_") + "_"
	var backups []Info
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		ts, err := time.ParseInLocation(TimestampLayout,
			strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json"), time.Local)
		if err != nil {
			// Not one of ours; someone else's file in the backups dir.
			continue
		}
		backups = append(backups, Info{
			Timestamp:    ts,
			Kind:         kind,
			BackupPath:   filepath.Join(dir, name),
			OriginalPath: configPath,
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// Latest returns the most recent backup for a client kind.
// Returns ErrBackupNotFound when there are none.
func Latest(configPath, kind string) (Info, error) {
	backups, err := List(configPath, kind)
	if err != nil {
		return Info{}, err
	}
	if len(backups) == 0 {
		return Info{}, errors.Wrapf(ErrBackupNotFound, "no backups for %s", kind)
	}
	return backups[0], nil
}

// Prune deletes all but the newest keep backups for a client kind.
// keep <= 0 disables pruning. Returns the number of backups removed.
func Prune(configPath, kind string, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}

	backups, err := List(configPath, kind)
	if err != nil {
		return 0, err
	}
	if len(backups) <= keep {
		return 0, nil
	}

	removed := 0
	for _, b := range backups[keep:] {
		if err := os.Remove(b.BackupPath); err != nil {
			return removed, errors.Wrapf(err, "removing backup %s", b.BackupPath)
		}
		removed++
	}
	return removed, nil
}

// copyFile copies src to dst preserving the source's permission bits.
func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return errors.Wrap(err, "stat source file")
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrap(err, "creating destination file")
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return errors.Wrap(err, "copying file")
	}

	if err := dstFile.Close(); err != nil {
		return errors.Wrap(err, "closing destination file")
	}

	if err := os.Chmod(dst, srcInfo.Mode()); err != nil {
		return errors.Wrap(err, "setting permissions")
	}

	return nil
}
