package cache

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// DiskCache persists annotations between runs. Entries live in two-level
// shard directories; each file holds the expiry (unix nanoseconds) on the
// first line followed by the raw response body.
type DiskCache struct {
	dir string
	ttl time.Duration
}

// NewDiskCache creates a new disk cache
func NewDiskCache(dir string, ttl time.Duration) *DiskCache {
	return &DiskCache{
		dir: dir,
		ttl: ttl,
	}
}

// Get retrieves a value from the disk cache
func (c *DiskCache) Get(key string) ([]byte, bool) {
	path := c.path(key)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	expires, body, err := decodeEntry(raw)
	if err != nil || time.Now().After(expires) {
		_ = os.Remove(path)
		return nil, false
	}

	return body, true
}

// Set stores a value in the disk cache. The file is written next to its
// destination and renamed so readers never see a partial entry.
func (c *DiskCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}

	path := c.path(key)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "entry-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	w := bufio.NewWriter(tmp)
	_, err = fmt.Fprintf(w, "%d\n", time.Now().Add(ttl).UnixNano())
	if err == nil {
		_, err = w.Write(value)
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename cache file: %w", err)
	}
	return nil
}

// Delete removes a value from the disk cache; a missing entry is not an error
func (c *DiskCache) Delete(key string) error {
	err := os.Remove(c.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Clear removes all cached files
func (c *DiskCache) Clear() error {
	return os.RemoveAll(c.dir)
}

func (c *DiskCache) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	name := hex.EncodeToString(sum[:])
	return filepath.Join(c.dir, name[:2], name[2:]+".ann")
}

func decodeEntry(raw []byte) (time.Time, []byte, error) {
	line, body, found := bytes.Cut(raw, []byte("\n"))
	if !found {
		return time.Time{}, nil, io.ErrUnexpectedEOF
	}
	nanos, err := strconv.ParseInt(string(line), 10, 64)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("bad expiry header: %w", err)
	}
	return time.Unix(0, nanos), body, nil
}
