// Package janitor tracks every temporary file a sort run has ever
// created (the "run registry" of spec §3) and deletes them on
// completion or failure (spec §4.3).
package janitor

import (
	"os"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"linesort/internal/logx"
)

// Registry is the append-only set of temp paths scheduled for deletion
// at the end of a run. A path enters the registry when its file is
// created and leaves only when deleted here or renamed onto the final
// output (renamed paths must not be tracked, or must be untracked
// before Cleanup runs).
type Registry struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{paths: make(map[string]struct{})}
}

// Track adds path to the registry. Appended-to only by the orchestrator
// (or a task reporting back to it) — never read concurrently with a
// write, per spec §5's shared-resource policy.
func (r *Registry) Track(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths[path] = struct{}{}
}

// Untrack removes path from the registry without deleting it — used
// when a temp file is consumed by a rename onto the final output
// instead of by deletion.
func (r *Registry) Untrack(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.paths, path)
}

// Paths returns a snapshot of the currently tracked paths.
func (r *Registry) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.paths))
	for p := range r.paths {
		out = append(out, p)
	}
	return out
}

// Empty reports whether the registry currently holds no paths — true at
// successful or failed termination per spec §3's invariant.
func (r *Registry) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paths) == 0
}

// Janitor performs best-effort deletion of every path handed to it.
// Missing files are ignored; per-file errors are logged and suppressed
// (never returned from Cleanup) but retained behind LastErrors for
// tests and diagnostics, matching spec §4.3/§7's "logged and suppressed
// for subsequent paths."
type Janitor struct {
	mu   sync.Mutex
	errs *multierror.Error
}

// New returns a ready Janitor.
func New() *Janitor {
	return &Janitor{}
}

// Cleanup deletes every path in the registry, idempotently: calling it
// again on an already-emptied registry is a no-op.
func (j *Janitor) Cleanup(r *Registry) {
	for _, path := range r.Paths() {
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				r.Untrack(path)
				continue
			}
			wrapped := errors.Wrapf(err, "janitor: remove %s", path)
			logx.Log().Errorf("failed to remove temp file %s: %v", path, err)
			j.mu.Lock()
			j.errs = multierror.Append(j.errs, wrapped)
			j.mu.Unlock()
			continue
		}
		r.Untrack(path)
	}
}

// LastErrors returns the accumulated, already-suppressed deletion
// errors from the most recent Cleanup calls, or nil if none occurred.
func (j *Janitor) LastErrors() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.errs.ErrorOrNil()
}
