package catalog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/sys/unix"
)

// ErrCorruptCache reports a cache file that exists but cannot be decoded.
var ErrCorruptCache = errors.New("catalog cache is corrupt")

const maxCacheLine = 1 << 20

// CacheExists reports whether a cache file is present at path.
func CacheExists(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat catalog cache: %w", err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("catalog cache %s is a directory", path)
	}
	return true, nil
}

// LoadCache reads a catalog written by SaveCache. The shared lock is skipped
// when the lock file cannot be created, so a cache on read-only storage can
// still be read.
func LoadCache(path string) (*Catalog, error) {
	lock := flock.New(path + ".lock")
	if err := lock.RLock(); err != nil {
		if !lockUnavailable(err) {
			return nil, fmt.Errorf("lock catalog cache: %w", err)
		}
	} else {
		defer lock.Unlock()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog cache: %w", err)
	}
	defer file.Close()

	decoder, err := zstd.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCache, err)
	}
	defer decoder.Close()

	merged := make(map[string]string)
	scanner := bufio.NewScanner(decoder)
	scanner.Buffer(make([]byte, 0, 64*1024), maxCacheLine)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var partial map[string]string
		if err := json.Unmarshal(raw, &partial); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrCorruptCache, line, err)
		}
		for name, p := range partial {
			merged[name] = p
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCache, err)
	}

	return FromMap(merged), nil
}

func lockUnavailable(err error) bool {
	return errors.Is(err, fs.ErrPermission) || errors.Is(err, unix.EROFS)
}

// SaveCache writes c to path atomically.
func SaveCache(path string, c *Catalog) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock catalog cache: %w", err)
	}
	defer lock.Unlock()

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := writeCache(tmp, c); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func writeCache(file *os.File, c *Catalog) error {
	encoder, err := zstd.NewWriter(file)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	buffered := bufio.NewWriter(encoder)
	enc := json.NewEncoder(buffered)
	for _, entry := range c.Entries() {
		if err := enc.Encode(map[string]string{entry.Name: entry.Path}); err != nil {
			_ = encoder.Close()
			return fmt.Errorf("encode cache entry: %w", err)
		}
	}
	if err := buffered.Flush(); err != nil {
		_ = encoder.Close()
		return fmt.Errorf("flush cache: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finish zstd stream: %w", err)
	}
	return nil
}
