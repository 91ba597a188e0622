// Package workspace manages the staging directory layout and the exclusive
// lock that keeps concurrent renders off the same staging area.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// Workspace is the staging area for one albumreel invocation.
type Workspace struct {
	stagingDir string
	lockPath   string
	lock       *flock.Flock
}

// New prepares the staging directory and its lock file. The lock is not
// acquired until Acquire is called.
func New(stagingDir string) (*Workspace, error) {
	if stagingDir == "" {
		return nil, errors.New("staging directory not configured")
	}
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	lockPath := filepath.Join(stagingDir, "albumreel.lock")
	return &Workspace{
		stagingDir: stagingDir,
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}, nil
}

// Acquire takes the staging lock, failing immediately if another invocation
// holds it.
func (w *Workspace) Acquire() error {
	ok, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire staging lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another albumreel run holds %s", w.lockPath)
	}
	return nil
}

// Release drops the staging lock.
func (w *Workspace) Release() error {
	return w.lock.Unlock()
}

// StagingDir returns the root staging directory.
func (w *Workspace) StagingDir() string {
	return w.stagingDir
}

// AlbumDir returns the per-album image directory, creating it if needed.
func (w *Workspace) AlbumDir(albumID string) (string, error) {
	dir := filepath.Join(w.stagingDir, "albums", albumID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create album directory: %w", err)
	}
	return dir, nil
}

// ManifestPath returns the path of the download manifest database.
func (w *Workspace) ManifestPath() string {
	return filepath.Join(w.stagingDir, "manifest.db")
}

// RunDir creates a fresh uniquely named working directory for one render.
func (w *Workspace) RunDir() (string, error) {
	dir := filepath.Join(w.stagingDir, "runs", uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create run directory: %w", err)
	}
	return dir, nil
}

// CleanupRun removes one render's working directory and its intermediates.
func (w *Workspace) CleanupRun(runDir string) error {
	if runDir == "" {
		return nil
	}
	rel, err := filepath.Rel(filepath.Join(w.stagingDir, "runs"), runDir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("refusing to remove %s outside the runs directory", runDir)
	}
	if err := os.RemoveAll(runDir); err != nil {
		return fmt.Errorf("remove run directory: %w", err)
	}
	return nil
}
