package sweep_test

import (
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"cutsweep/internal/sweep"
)

func lockRoot(t *testing.T, root string) func() {
	t.Helper()
	lock := flock.New(filepath.Join(root, sweep.LockFileName))
	ok, err := lock.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock: ok=%v err=%v", ok, err)
	}
	return func() { _ = lock.Unlock() }
}
