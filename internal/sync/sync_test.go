package sync

import (
	"context"
	"strings"
	"testing"

	"github.com/thoreinstein/mcpsync/internal/client"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/logging"
	"github.com/thoreinstein/mcpsync/internal/mcp"
)

// fakeHandler is an in-memory client.Handler for orchestrator tests.
type fakeHandler struct {
	kind    string
	servers []mcp.Server

	loadErr   error
	addErr    map[string]error
	backupErr error
	backups   int
}

func (f *fakeHandler) Kind() string       { return f.kind }
func (f *fakeHandler) ConfigPath() string { return "/fake/" + f.kind + ".json" }

func (f *fakeHandler) Load() ([]mcp.Server, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	out := make([]mcp.Server, len(f.servers))
	copy(out, f.servers)
	return out, nil
}

func (f *fakeHandler) Save(servers []mcp.Server) error {
	f.servers = servers
	return nil
}

func (f *fakeHandler) Add(s mcp.Server) error {
	if err := f.addErr[s.Name]; err != nil {
		return err
	}
	f.servers = mcp.Upsert(f.servers, s)
	return nil
}

func (f *fakeHandler) Remove(name string) (bool, error) {
	kept := f.servers[:0]
	found := false
	for _, s := range f.servers {
		if s.Name == name {
			found = true
			continue
		}
		kept = append(kept, s)
	}
	f.servers = kept
	return found, nil
}

func (f *fakeHandler) Get(name string) (*mcp.Server, error) {
	return mcp.FindByName(f.servers, name), nil
}

func (f *fakeHandler) ValidateFormat() bool { return true }

func (f *fakeHandler) Backup(dest string) (string, error) {
	if f.backupErr != nil {
		return "", f.backupErr
	}
	f.backups++
	return "/fake/backups/" + f.kind + ".json", nil
}

func (f *fakeHandler) Restore(path string) error { return nil }

// newTestOrchestrator wires an orchestrator over fake handlers.
func newTestOrchestrator(t *testing.T, handlers map[string]*fakeHandler) *Orchestrator {
	t.Helper()

	reg := client.NewEmptyRegistry()
	for kind := range handlers {
		reg.RegisterCustom(client.Handle{Kind: kind, ConfigPath: "/fake/" + kind + ".json", Available: true})
	}

	orch := New(reg, logging.NewDiscard())
	orch.newHandler = func(h client.Handle) (client.Handler, error) {
		fh, ok := handlers[h.Kind]
		if !ok {
			return nil, errors.Newf("no fake for %s", h.Kind)
		}
		return fh, nil
	}
	return orch
}

func TestRunSyncsAllServersToAllTargets(t *testing.T) {
	source := &fakeHandler{kind: "claude-code", servers: []mcp.Server{
		{Name: "alpha", Command: "alpha-mcp", Enabled: true},
		{Name: "beta", Command: "beta-mcp", Enabled: true},
	}}
	target1 := &fakeHandler{kind: "cursor"}
	target2 := &fakeHandler{kind: "opencode"}
	orch := newTestOrchestrator(t, map[string]*fakeHandler{
		"claude-code": source, "cursor": target1, "opencode": target2,
	})

	report, err := orch.Run(context.Background(), Options{Source: "claude-code"}, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(report.Targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(report.Targets))
	}
	if report.TotalSynced() != 4 {
		t.Errorf("TotalSynced = %d, want 4", report.TotalSynced())
	}
	if len(target1.servers) != 2 || len(target2.servers) != 2 {
		t.Errorf("targets not populated: %d, %d", len(target1.servers), len(target2.servers))
	}
}

func TestRunConflictHandling(t *testing.T) {
	source := &fakeHandler{kind: "claude-code", servers: []mcp.Server{
		{Name: "alpha", Command: "new-alpha", Enabled: true},
		{Name: "beta", Command: "beta-mcp", Enabled: true},
	}}
	target := &fakeHandler{kind: "cursor", servers: []mcp.Server{
		{Name: "alpha", Command: "old-alpha", Enabled: true},
	}}
	orch := newTestOrchestrator(t, map[string]*fakeHandler{
		"claude-code": source, "cursor": target,
	})

	t.Run("skip without confirm func", func(t *testing.T) {
		report, err := orch.Run(context.Background(), Options{Source: "claude-code"}, nil)
		if err != nil {
			t.Fatal(err)
		}
		result := report.Targets[0]
		if len(result.Skipped) != 1 || result.Skipped[0] != "alpha" {
			t.Errorf("expected alpha skipped, got %v", result.Skipped)
		}
		if got, _ := target.Get("alpha"); got.Command != "old-alpha" {
			t.Error("skipped record was overwritten")
		}
	})

	t.Run("confirm func declines", func(t *testing.T) {
		target.servers = []mcp.Server{{Name: "alpha", Command: "old-alpha", Enabled: true}}
		confirm := func(s mcp.Server, kind string) bool { return false }
		report, err := orch.Run(context.Background(), Options{Source: "claude-code"}, confirm)
		if err != nil {
			t.Fatal(err)
		}
		if len(report.Targets[0].Skipped) != 1 {
			t.Errorf("declined conflict should be skipped")
		}
	})

	t.Run("confirm func accepts", func(t *testing.T) {
		confirm := func(s mcp.Server, kind string) bool { return true }
		report, err := orch.Run(context.Background(), Options{Source: "claude-code"}, confirm)
		if err != nil {
			t.Fatal(err)
		}
		if len(report.Targets[0].Synced) != 2 {
			t.Errorf("accepted conflict should sync, got %v", report.Targets[0].Synced)
		}
		if got, _ := target.Get("alpha"); got.Command != "new-alpha" {
			t.Error("accepted conflict did not overwrite")
		}
	})

	t.Run("overwrite flag bypasses confirm", func(t *testing.T) {
		target.servers = []mcp.Server{{Name: "alpha", Command: "old-alpha", Enabled: true}}
		report, err := orch.Run(context.Background(),
			Options{Source: "claude-code", Overwrite: true}, nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(report.Targets[0].Synced) != 2 {
			t.Errorf("overwrite should sync everything, got %v", report.Targets[0].Synced)
		}
	})
}

func TestRunServerFilter(t *testing.T) {
	source := &fakeHandler{kind: "claude-code", servers: []mcp.Server{
		{Name: "alpha", Command: "a", Enabled: true},
		{Name: "beta", Command: "b", Enabled: true},
		{Name: "gamma", Command: "c", Enabled: true},
	}}
	target := &fakeHandler{kind: "cursor"}
	orch := newTestOrchestrator(t, map[string]*fakeHandler{
		"claude-code": source, "cursor": target,
	})

	report, err := orch.Run(context.Background(),
		Options{Source: "claude-code", Servers: []string{"alpha", "gamma"}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Targets[0].Synced) != 2 {
		t.Errorf("expected 2 synced, got %v", report.Targets[0].Synced)
	}
	if got, _ := target.Get("beta"); got != nil {
		t.Error("unrequested server was synced")
	}
}

func TestRunMissingServersReportedTogether(t *testing.T) {
	source := &fakeHandler{kind: "claude-code", servers: []mcp.Server{
		{Name: "alpha", Command: "a", Enabled: true},
	}}
	orch := newTestOrchestrator(t, map[string]*fakeHandler{
		"claude-code": source, "cursor": {kind: "cursor"},
	})

	_, err := orch.Run(context.Background(),
		Options{Source: "claude-code", Servers: []string{"nope", "alpha", "also-nope"}}, nil)
	if err == nil {
		t.Fatal("expected error for missing servers")
	}
	msg := err.Error()
	if !strings.Contains(msg, "nope") || !strings.Contains(msg, "also-nope") {
		t.Errorf("error should name every missing server: %v", err)
	}
}

func TestRunEmptySource(t *testing.T) {
	orch := newTestOrchestrator(t, map[string]*fakeHandler{
		"claude-code": {kind: "claude-code"}, "cursor": {kind: "cursor"},
	})

	_, err := orch.Run(context.Background(), Options{Source: "claude-code"}, nil)
	if !errors.Is(err, ErrEmptySource) {
		t.Errorf("expected ErrEmptySource, got %v", err)
	}
}

func TestRunUnknownSource(t *testing.T) {
	orch := newTestOrchestrator(t, map[string]*fakeHandler{"cursor": {kind: "cursor"}})

	_, err := orch.Run(context.Background(), Options{Source: "claude-code"}, nil)
	if !errors.Is(err, client.ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound, got %v", err)
	}
}

func TestRunExplicitTargetsExcludeSource(t *testing.T) {
	source := &fakeHandler{kind: "claude-code", servers: []mcp.Server{
		{Name: "alpha", Command: "a", Enabled: true},
	}}
	target := &fakeHandler{kind: "cursor"}
	orch := newTestOrchestrator(t, map[string]*fakeHandler{
		"claude-code": source, "cursor": target,
	})

	report, err := orch.Run(context.Background(),
		Options{Source: "claude-code", Targets: []string{"claude-code", "cursor"}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Targets) != 1 || report.Targets[0].Kind != "cursor" {
		t.Errorf("source should be dropped from targets: %+v", report.Targets)
	}
}

func TestRunSourceOnlyTargetFails(t *testing.T) {
	source := &fakeHandler{kind: "claude-code", servers: []mcp.Server{
		{Name: "alpha", Command: "a", Enabled: true},
	}}
	orch := newTestOrchestrator(t, map[string]*fakeHandler{"claude-code": source})

	_, err := orch.Run(context.Background(),
		Options{Source: "claude-code", Targets: []string{"claude-code"}}, nil)
	if !errors.Is(err, ErrNoTargets) {
		t.Errorf("expected ErrNoTargets, got %v", err)
	}
}

func TestRunBackupFailureIsWarningOnly(t *testing.T) {
	source := &fakeHandler{kind: "claude-code", servers: []mcp.Server{
		{Name: "alpha", Command: "a", Enabled: true},
	}}
	target := &fakeHandler{kind: "cursor", backupErr: errors.New("no config file")}
	orch := newTestOrchestrator(t, map[string]*fakeHandler{
		"claude-code": source, "cursor": target,
	})

	report, err := orch.Run(context.Background(),
		Options{Source: "claude-code", Backup: true}, nil)
	if err != nil {
		t.Fatalf("backup failure should not fail the run: %v", err)
	}
	result := report.Targets[0]
	if result.BackupPath != "" {
		t.Error("no backup path should be recorded on failure")
	}
	if len(result.Synced) != 1 {
		t.Errorf("sync should proceed after backup warning, got %v", result.Synced)
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	source := &fakeHandler{kind: "claude-code", servers: []mcp.Server{
		{Name: "alpha", Command: "a", Enabled: true},
	}}
	target := &fakeHandler{kind: "cursor"}
	orch := newTestOrchestrator(t, map[string]*fakeHandler{
		"claude-code": source, "cursor": target,
	})

	report, err := orch.Run(context.Background(),
		Options{Source: "claude-code", Backup: true, DryRun: true}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Targets[0].Synced) != 1 {
		t.Errorf("dry run should report would-be syncs")
	}
	if len(target.servers) != 0 {
		t.Error("dry run wrote to target")
	}
	if target.backups != 0 {
		t.Error("dry run created a backup")
	}
}

func TestRunPerRecordFailureContinues(t *testing.T) {
	source := &fakeHandler{kind: "claude-code", servers: []mcp.Server{
		{Name: "alpha", Command: "a", Enabled: true},
		{Name: "beta", Command: "b", Enabled: true},
	}}
	target := &fakeHandler{kind: "cursor", addErr: map[string]error{
		"alpha": errors.New("disk full"),
	}}
	orch := newTestOrchestrator(t, map[string]*fakeHandler{
		"claude-code": source, "cursor": target,
	})

	report, err := orch.Run(context.Background(), Options{Source: "claude-code"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	result := report.Targets[0]
	if len(result.Failures) != 1 || result.Failures[0].Name != "alpha" {
		t.Errorf("expected alpha failure, got %+v", result.Failures)
	}
	if len(result.Synced) != 1 || result.Synced[0] != "beta" {
		t.Errorf("remaining records should still sync, got %v", result.Synced)
	}
	if !report.HasFailures() {
		t.Error("HasFailures should be true")
	}
}
