package preflight

import (
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"identigraph/internal/config"
)

// CheckDirectoryAccess verifies that the directory exists and is readable,
// and writable when write is set.
func CheckDirectoryAccess(name, path string, write bool) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	mode, label := uint32(unix.R_OK|unix.X_OK), "read ok"
	if write {
		mode, label = mode|unix.W_OK, "read/write ok"
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, label)}
}

// CheckSources reports how many files the configured pattern for kind
// matches. A pattern matching nothing passes: not every deployment has
// every source.
func CheckSources(cfg *config.Config, kind config.SourceKind) Result {
	name := fmt.Sprintf("Sources (%s)", kind)
	pattern, err := cfg.SourcePattern(kind)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	files, err := cfg.SourceFiles(kind)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", pattern, err)}
	}
	if len(files) == 0 {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (no files)", pattern)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d files)", pattern, len(files))}
}

// CheckDatabaseLock verifies that no other process holds the graph database.
func CheckDatabaseLock(path string) Result {
	const name = "Graph database"
	if path == "" {
		return Result{Name: name, Detail: "path is empty"}
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (created on first ingest)", path)}
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: lock: %v)", path, err)}
	}
	if !locked {
		return Result{Name: name, Detail: fmt.Sprintf("%s (in use by another process)", path)}
	}
	_ = lock.Unlock()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (available)", path)}
}
