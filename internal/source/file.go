package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/dkoosis/bugreg/pkg/registry"
)

const lockSuffix = ".lock"

// lockRetry is how often a blocked Lock polls.
const lockRetry = 100 * time.Millisecond

// File is a registry on the local filesystem. Stores replace the file
// atomically so readers never see a partial document.
type File struct {
	Path    string
	locking bool
}

// NewFile returns a file source. When locking is set, Lock takes an
// exclusive flock on Path + ".lock".
func NewFile(path string, locking bool) *File {
	return &File{Path: path, locking: locking}
}

func (f *File) Name() string { return f.Path }

// Load reads the whole file. A missing file is a NotFound error.
func (f *File) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, registry.NotFoundError("load registry", f.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	return data, nil
}

// Store writes data to a temporary file next to Path and renames it over
// Path. An existing file keeps its permissions.
func (f *File) Store(_ context.Context, data []byte) error {
	mode := fs.FileMode(0o644)
	if st, err := os.Stat(f.Path); err == nil {
		mode = st.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), "."+filepath.Base(f.Path)+".*")
	if err != nil {
		return fmt.Errorf("store registry: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // already renamed on success

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("store registry: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("store registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store registry: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("store registry: %w", err)
	}
	return nil
}

// Lock blocks until the lock file is held or ctx is done. It is a no-op
// when the file was opened without locking.
func (f *File) Lock(ctx context.Context) (func() error, error) {
	if !f.locking {
		return func() error { return nil }, nil
	}
	lk := flock.New(f.Path + lockSuffix)
	ok, err := lk.TryLockContext(ctx, lockRetry)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", f.Path, err)
	}
	if !ok {
		return nil, fmt.Errorf("lock %s: not acquired", f.Path)
	}
	return lk.Unlock, nil
}
