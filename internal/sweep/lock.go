package sweep

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created in the library root while a live run holds it.
const LockFileName = ".cutsweep.lock"

// ErrRootLocked reports that another live run holds the root.
var ErrRootLocked = errors.New("library root is locked by another run")

type rootLock struct {
	path string
	lock *flock.Flock
}

func acquireRootLock(root string) (*rootLock, error) {
	path := filepath.Join(root, LockFileName)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrRootLocked, path)
	}
	return &rootLock{path: path, lock: lock}, nil
}

func (l *rootLock) release() error {
	if l == nil {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("release run lock: %w", err)
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove run lock: %w", err)
	}
	return nil
}
