package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
)

// Digest identifies the content of a written file.
type Digest struct {
	Size   int64  `json:"size" yaml:"size"`
	SHA256 string `json:"sha256" yaml:"sha256"`
}

// AtomicFile writes to a temporary file beside the destination and renames
// it into place on Commit, so readers never observe a partial artifact.
type AtomicFile struct {
	path   string
	tmp    *os.File
	hasher hash.Hash
	size   int64
	done   bool
}

// Create starts an atomic write of path. The parent directory must exist.
func Create(path string) (*AtomicFile, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp for %s: %w", filepath.Base(path), err)
	}
	return &AtomicFile{path: path, tmp: tmp, hasher: sha256.New()}, nil
}

// Path returns the final destination.
func (f *AtomicFile) Path() string { return f.path }

func (f *AtomicFile) Write(p []byte) (int, error) {
	n, err := f.tmp.Write(p)
	f.hasher.Write(p[:n])
	f.size += int64(n)
	return n, err
}

// Commit syncs the temporary file and renames it over the destination.
func (f *AtomicFile) Commit() (Digest, error) {
	if f.done {
		return Digest{}, fmt.Errorf("commit %s: already finished", filepath.Base(f.path))
	}
	f.done = true
	if err := f.tmp.Sync(); err != nil {
		f.discard()
		return Digest{}, fmt.Errorf("sync %s: %w", filepath.Base(f.path), err)
	}
	if err := f.tmp.Close(); err != nil {
		_ = os.Remove(f.tmp.Name())
		return Digest{}, fmt.Errorf("close %s: %w", filepath.Base(f.path), err)
	}
	if err := os.Chmod(f.tmp.Name(), 0o644); err != nil {
		_ = os.Remove(f.tmp.Name())
		return Digest{}, fmt.Errorf("chmod %s: %w", filepath.Base(f.path), err)
	}
	if err := os.Rename(f.tmp.Name(), f.path); err != nil {
		_ = os.Remove(f.tmp.Name())
		return Digest{}, fmt.Errorf("rename %s: %w", filepath.Base(f.path), err)
	}
	return Digest{Size: f.size, SHA256: hex.EncodeToString(f.hasher.Sum(nil))}, nil
}

// Abort discards the temporary file. It is a no-op after Commit.
func (f *AtomicFile) Abort() {
	if f.done {
		return
	}
	f.done = true
	f.discard()
}

func (f *AtomicFile) discard() {
	_ = f.tmp.Close()
	_ = os.Remove(f.tmp.Name())
}

// FileDigest hashes the file at path.
func FileDigest(path string) (Digest, error) {
	in, err := os.Open(path)
	if err != nil {
		return Digest{}, err
	}
	defer in.Close()

	hasher := sha256.New()
	n, err := io.Copy(hasher, in)
	if err != nil {
		return Digest{}, err
	}
	return Digest{Size: n, SHA256: hex.EncodeToString(hasher.Sum(nil))}, nil
}
