package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
)

func TestDefaultPath(t *testing.T) {
	ts := time.Date(2026, 8, 31, 12, 30, 45, 0, time.UTC)
	got := DefaultPath("/home/u/.cursor/mcp.json", "claude-code", ts)
	want := filepath.Join("/home/u/.cursor", "backups", "claude_code_20260831_123045.json")
	if got != want {
		t.Errorf("DefaultPath = %q, want %q", got, want)
	}
}

func TestCreateAndRestoreByteExact(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "mcp.json")
	original := []byte("{\n  \"mcpServers\": {\"a\": {\"command\": \"x\"}},\n  \"custom\": 1\n}\n")
	if err := os.WriteFile(configPath, original, 0o600); err != nil {
		t.Fatal(err)
	}

	backupPath, err := Create(configPath, "cursor", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	copied, err := os.ReadFile(backupPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(copied) != string(original) {
		t.Error("backup is not byte-identical to the original")
	}

	// Clobber the live file, then restore
	if err := os.WriteFile(configPath, []byte(`{"mcpServers": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Restore(configPath, backupPath); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	restored, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(restored) != string(original) {
		t.Error("restore did not reproduce the original bytes")
	}
}

func TestCreateMissingConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "missing.json")

	if _, err := Create(configPath, "cursor", ""); !errors.Is(err, ErrNoConfigFile) {
		t.Errorf("expected ErrNoConfigFile, got %v", err)
	}
}

func TestRestoreRejectsInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "mcp.json")
	liveContent := []byte(`{"mcpServers": {}}`)
	if err := os.WriteFile(configPath, liveContent, 0o644); err != nil {
		t.Fatal(err)
	}

	badBackup := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(badBackup, []byte("{truncated"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Restore(configPath, badBackup); !errors.Is(err, ErrInvalidBackup) {
		t.Errorf("expected ErrInvalidBackup, got %v", err)
	}

	// Live file must be untouched
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(liveContent) {
		t.Error("live config was modified by a rejected restore")
	}
}

func TestRestoreMissingBackup(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "mcp.json")

	err := Restore(configPath, filepath.Join(dir, "nope.json"))
	if !errors.Is(err, ErrBackupNotFound) {
		t.Errorf("expected ErrBackupNotFound, got %v", err)
	}
}

func TestListAndLatest(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "mcp.json")
	if err := os.WriteFile(configPath, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	times := []time.Time{
		time.Date(2026, 8, 29, 10, 0, 0, 0, time.Local),
		time.Date(2026, 8, 31, 10, 0, 0, 0, time.Local),
		time.Date(2026, 8, 30, 10, 0, 0, 0, time.Local),
	}
	for _, ts := range times {
		if _, err := Create(configPath, "cursor", DefaultPath(configPath, "cursor", ts)); err != nil {
			t.Fatal(err)
		}
	}

	// Unrelated files in the backups dir must be ignored
	if err := os.WriteFile(filepath.Join(dir, "backups", "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "backups", "vscode_20260831_100000.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	backups, err := List(configPath, "cursor")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups, got %d", len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Error("backups not sorted newest first")
		}
	}

	latest, err := Latest(configPath, "cursor")
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if !latest.Timestamp.Equal(times[1]) {
		t.Errorf("Latest = %v, want %v", latest.Timestamp, times[1])
	}
}

func TestListNoBackupDir(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "mcp.json")

	backups, err := List(configPath, "cursor")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %d", len(backups))
	}

	if _, err := Latest(configPath, "cursor"); !errors.Is(err, ErrBackupNotFound) {
		t.Errorf("expected ErrBackupNotFound, got %v", err)
	}
}

func TestPrune(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "mcp.json")
	if err := os.WriteFile(configPath, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	base := time.Date(2026, 8, 25, 9, 0, 0, 0, time.Local)
	for i := 0; i < 5; i++ {
		ts := base.Add(time.Duration(i) * time.Hour)
		if _, err := Create(configPath, "cursor", DefaultPath(configPath, "cursor", ts)); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := Prune(configPath, "cursor", 2)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}

	backups, err := List(configPath, "cursor")
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 2 {
		t.Fatalf("expected 2 backups after prune, got %d", len(backups))
	}
	if !backups[0].Timestamp.Equal(base.Add(4 * time.Hour)) {
		t.Error("prune removed the wrong backups")
	}

	// keep <= 0 disables pruning
	if removed, err := Prune(configPath, "cursor", 0); err != nil || removed != 0 {
		t.Errorf("Prune with keep=0 should be a no-op, got %d, %v", removed, err)
	}
}
