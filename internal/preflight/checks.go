package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// CheckDirectoryAccess verifies that the directory exists and is readable,
// and writable when needWrite is set.
func CheckDirectoryAccess(name, path string, needWrite bool) Result {
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
	mode := uint32(unix.R_OK | unix.X_OK)
	label := "read ok"
	if needWrite {
		mode |= unix.W_OK
		label = "read/write ok"
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, label)}
}

// CheckRoot verifies the library root. Live runs need write access to remove
// entries from its directories.
func CheckRoot(root string, needWrite bool) Result {
	if root == "" {
		return Result{Name: "Library root", Detail: "(error: not set)"}
	}
	return CheckDirectoryAccess("Library root", root, needWrite)
}

// CheckBackupDir verifies the quarantine destination. The directory may not
// exist yet; its nearest existing ancestor must then be writable.
func CheckBackupDir(path string) Result {
	if path == "" {
		return Result{Name: "Backup directory", Detail: "(error: not configured)"}
	}
	return CheckParentWritable("Backup directory", path)
}

// CheckCache verifies the catalog cache. An existing cache is only read, so
// it needs read access alone; a missing one will be written and needs a
// writable directory.
func CheckCache(path string) Result {
	const name = "Catalog cache"
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return CheckParentWritable(name, filepath.Dir(path))
	case err != nil:
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	case info.IsDir():
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckParentWritable passes when path is a writable directory or can be
// created below its nearest existing ancestor.
func CheckParentWritable(name, path string) Result {
	existing, err := nearestExisting(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	result := CheckDirectoryAccess(name, existing, true)
	if result.Passed && existing != path {
		result.Detail = fmt.Sprintf("%s (will be created under %s)", path, existing)
	}
	return result
}

func nearestExisting(path string) (string, error) {
	current := filepath.Clean(path)
	for {
		_, err := os.Stat(current)
		if err == nil {
			return current, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", current, err)
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no existing ancestor for %s", path)
		}
		current = parent
	}
}
