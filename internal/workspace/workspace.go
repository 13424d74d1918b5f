// Package workspace manages the disposable scratch directory owned by a
// single pipeline run. Cleanup is best-effort and idempotent: failures are
// logged, never returned, so they cannot mask the run's primary outcome.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Workspace is an isolated scratch area holding the run's intermediate
// artifacts. One workspace belongs to exactly one run; concurrent runs get
// distinct uniquely-named roots, so no locking is needed.
type Workspace struct {
	root   string
	logger zerolog.Logger
}

// Create allocates a unique scratch directory under base. An empty base
// falls back to the system temp directory.
func Create(base string, logger zerolog.Logger) (*Workspace, error) {
	if base == "" {
		base = os.TempDir()
	}
	root := filepath.Join(base, "clipper-"+uuid.NewString())
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	logger.Debug().Str("root", root).Msg("workspace created")
	return &Workspace{root: root, logger: logger}, nil
}

// Root returns the workspace root directory.
func (w *Workspace) Root() string { return w.root }

// Path returns the path of a named artifact inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.root, name)
}

// Destroy removes every file under the workspace root except keep. When
// keep is empty the root directory itself is removed as well. Safe to call
// on a partially populated or already destroyed workspace; errors are
// swallowed and logged at warn level.
func (w *Workspace) Destroy(keep string) {
	if keep == "" {
		if err := os.RemoveAll(w.root); err != nil {
			w.logger.Warn().Err(err).Str("root", w.root).Msg("workspace cleanup failed")
		}
		return
	}

	entries, err := os.ReadDir(w.root)
	if err != nil {
		if !os.IsNotExist(err) {
			w.logger.Warn().Err(err).Str("root", w.root).Msg("workspace cleanup failed")
		}
		return
	}
	for _, e := range entries {
		p := filepath.Join(w.root, e.Name())
		if p == keep {
			continue
		}
		if err := os.RemoveAll(p); err != nil {
			w.logger.Warn().Err(err).Str("path", p).Msg("could not remove intermediate artifact")
		}
	}
}
