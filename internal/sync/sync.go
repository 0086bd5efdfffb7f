// Package sync copies MCP server records from one client's configuration to
// others through their adapters. It never moves bytes between config files
// directly: every record is loaded into the canonical form and re-saved by
// the target's own adapter, so each file stays in its native format.
package sync

import (
	"context"
	"log/slog"
	"strings"

	"github.com/thoreinstein/mcpsync/internal/client"
	"github.com/thoreinstein/mcpsync/internal/errors"
	"github.com/thoreinstein/mcpsync/internal/mcp"
)

// ErrEmptySource is returned when the source client has no servers to sync.
var ErrEmptySource = errors.New("source client has no servers configured")

// ErrNoTargets is returned when no sync targets remain after filtering.
var ErrNoTargets = errors.New("no sync targets available")

// Options controls a sync run.
type Options struct {
	// Source is the client kind to read records from.
	Source string

	// Targets lists the client kinds to write to. Empty means every
	// available client except the source.
	Targets []string

	// Servers limits the sync to the named records. Empty means all.
	Servers []string

	// Overwrite replaces records that already exist on a target without
	// asking.
	Overwrite bool

	// Backup creates a backup of each target config before writing.
	Backup bool

	// DryRun reports what would change without writing anything.
	DryRun bool
}

// ConflictFunc decides whether an existing record on a target should be
// replaced. It is consulted once per conflicting record per target. A nil
// func means conflicts are always skipped.
type ConflictFunc func(server mcp.Server, targetKind string) bool

// Failure records one server that could not be written to a target.
type Failure struct {
	Name string
	Err  error
}

// TargetResult is the per-target outcome of a sync run.
type TargetResult struct {
	Kind       string
	ConfigPath string

	// BackupPath is set when a pre-sync backup was created.
	BackupPath string

	// Err is set when the target's existing config could not be loaded;
	// no records were written to this target.
	Err error

	Synced   []string
	Skipped  []string
	Failures []Failure
}

// Report is the full outcome of a sync run.
type Report struct {
	Source  string
	Servers []string
	DryRun  bool
	Targets []TargetResult
}

// TotalSynced returns the number of records written across all targets.
func (r *Report) TotalSynced() int {
	n := 0
	for _, t := range r.Targets {
		n += len(t.Synced)
	}
	return n
}

// HasFailures reports whether any target load failed or any record write
// failed.
func (r *Report) HasFailures() bool {
	for _, t := range r.Targets {
		if t.Err != nil || len(t.Failures) > 0 {
			return true
		}
	}
	return false
}

// Orchestrator runs sync operations against a client registry.
type Orchestrator struct {
	registry *client.Registry
	log      *slog.Logger

	// newHandler is swappable so tests can inject fakes.
	newHandler func(client.Handle) (client.Handler, error)
}

// New creates an orchestrator over the given registry.
func New(registry *client.Registry, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		registry:   registry,
		log:        log,
		newHandler: client.New,
	}
}

// Run executes one sync per Options. Unknown source or target kinds and
// requested server names missing from the source fail the whole run before
// any target is touched; per-target and per-record problems are recorded in
// the report and do not stop the remaining work.
func (o *Orchestrator) Run(ctx context.Context, opts Options, confirm ConflictFunc) (*Report, error) {
	records, err := o.loadSource(opts)
	if err != nil {
		return nil, err
	}

	targets, err := o.resolveTargets(opts)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Source: opts.Source,
		DryRun: opts.DryRun,
	}
	for _, rec := range records {
		report.Servers = append(report.Servers, rec.Name)
	}

	for _, handle := range targets {
		if err := ctx.Err(); err != nil {
			return report, errors.Wrap(err, "sync canceled")
		}
		report.Targets = append(report.Targets, o.syncTarget(handle, records, opts, confirm))
	}
	return report, nil
}

// loadSource loads and filters the source records. All missing requested
// names are reported together in one error.
func (o *Orchestrator) loadSource(opts Options) ([]mcp.Server, error) {
	handle, err := o.registry.Get(opts.Source)
	if err != nil {
		return nil, err
	}
	handler, err := o.newHandler(handle)
	if err != nil {
		return nil, err
	}

	records, err := handler.Load()
	if err != nil {
		return nil, errors.Wrapf(err, "loading source %q", opts.Source)
	}
	if len(records) == 0 {
		return nil, errors.Wrapf(ErrEmptySource, "source %q", opts.Source)
	}

	if len(opts.Servers) == 0 {
		return records, nil
	}

	var selected []mcp.Server
	var missing []string
	for _, name := range opts.Servers {
		if s := mcp.FindByName(records, name); s != nil {
			selected = append(selected, *s)
		} else {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Newf("servers not found in %q: %s",
			opts.Source, strings.Join(missing, ", "))
	}
	return selected, nil
}

// resolveTargets expands Options.Targets to handles. The source is never a
// target; listing it explicitly logs a warning and drops it.
func (o *Orchestrator) resolveTargets(opts Options) ([]client.Handle, error) {
	var targets []client.Handle

	if len(opts.Targets) == 0 {
		for _, h := range o.registry.Available() {
			if h.Kind != opts.Source {
				targets = append(targets, h)
			}
		}
	} else {
		for _, kind := range opts.Targets {
			if kind == opts.Source {
				o.log.Warn("skipping source client as sync target", "client", kind)
				continue
			}
			h, err := o.registry.Get(kind)
			if err != nil {
				return nil, err
			}
			targets = append(targets, h)
		}
	}

	if len(targets) == 0 {
		return nil, ErrNoTargets
	}
	return targets, nil
}

func (o *Orchestrator) syncTarget(handle client.Handle, records []mcp.Server, opts Options, confirm ConflictFunc) TargetResult {
	result := TargetResult{
		Kind:       handle.Kind,
		ConfigPath: handle.ConfigPath,
	}

	handler, err := o.newHandler(handle)
	if err != nil {
		result.Err = err
		return result
	}

	if opts.Backup && !opts.DryRun {
		// A failed backup downgrades to a warning: the common cause is a
		// target that has no config file yet, which is fine to sync into.
		path, err := handler.Backup("")
		if err != nil {
			o.log.Warn("could not back up target config",
				"client", handle.Kind, "error", err)
		} else {
			result.BackupPath = path
			o.log.Debug("created pre-sync backup",
				"client", handle.Kind, "path", path)
		}
	}

	existing, err := handler.Load()
	if err != nil {
		result.Err = errors.Wrapf(err, "loading target %q", handle.Kind)
		return result
	}

	for _, rec := range records {
		if mcp.FindByName(existing, rec.Name) != nil && !opts.Overwrite {
			if confirm == nil || !confirm(rec, handle.Kind) {
				result.Skipped = append(result.Skipped, rec.Name)
				continue
			}
		}

		if opts.DryRun {
			result.Synced = append(result.Synced, rec.Name)
			continue
		}

		if err := handler.Add(rec); err != nil {
			result.Failures = append(result.Failures, Failure{Name: rec.Name, Err: err})
			o.log.Error("failed to sync server",
				"client", handle.Kind, "server", rec.Name, "error", err)
			continue
		}
		result.Synced = append(result.Synced, rec.Name)
		o.log.Debug("synced server", "client", handle.Kind, "server", rec.Name)
	}

	return result
}
