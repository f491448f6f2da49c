// Package workspace manages per-invocation temporary directories.
// Every dispatch acquires a fresh directory and releases it on all exit
// paths; nothing inside a workspace survives its invocation unless the
// caller asked for the output file to be persisted elsewhere.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/bio-mcp/bio-mcp-seqkit/internal/log"
)

// dirPrefix marks workspace directories so Sweep can recognize leftovers
// from crashed processes without touching anything else under the root.
const dirPrefix = "seqkit-mcp-"

// Workspace is one invocation's private directory.
type Workspace struct {
	dir      string
	released bool
}

// Acquire creates a unique workspace directory under root. An empty root
// means the system temp directory. The root is created when missing.
func Acquire(root string) (*Workspace, error) {
	if root == "" {
		root = os.TempDir()
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating workspace root %s: %w", root, err)
	}

	dir := filepath.Join(root, dirPrefix+uuid.NewString())
	if err := os.Mkdir(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}
	log.Debug(log.CatWorkspace, "workspace acquired", "dir", dir)
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory path.
func (w *Workspace) Dir() string {
	return w.dir
}

// Join returns a path inside the workspace.
func (w *Workspace) Join(name string) string {
	return filepath.Join(w.dir, name)
}

// Release recursively deletes the workspace. Safe to call more than once;
// callers defer it immediately after Acquire.
func (w *Workspace) Release() {
	if w == nil || w.released {
		return
	}
	w.released = true
	if err := os.RemoveAll(w.dir); err != nil {
		log.ErrorErr(log.CatWorkspace, "workspace release failed", err, "dir", w.dir)
		return
	}
	log.Debug(log.CatWorkspace, "workspace released", "dir", w.dir)
}

// Sweep removes workspace directories under root older than olderThan,
// left behind by crashed processes. Fresh directories are skipped so a
// concurrently running server never loses a live workspace. Returns the
// number of directories removed.
func Sweep(root string, olderThan time.Duration) (int, error) {
	if root == "" {
		root = os.TempDir()
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading workspace root %s: %w", root, err)
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() || len(entry.Name()) <= len(dirPrefix) || entry.Name()[:len(dirPrefix)] != dirPrefix {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if err := os.RemoveAll(dir); err != nil {
			log.ErrorErr(log.CatWorkspace, "stale workspace removal failed", err, "dir", dir)
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Info(log.CatWorkspace, "stale workspaces swept", "root", root, "removed", removed)
	}
	return removed, nil
}
