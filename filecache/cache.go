// Package filecache provides the default file access layer of the shader
// tools: a thread-safe memoizing file cache and an include-path locator.
package filecache

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Backend reads files from the underlying storage. Implementations do not
// need to be safe for concurrent use; the Cache serializes access.
type Backend interface {
	// Normalize rewrites a path so that different spellings of the same
	// file compare equal.
	Normalize(path string) string

	// Exists reports whether a file exists at the normalized path.
	Exists(normalizedPath string) bool

	// ReadFile returns the file's entire content.
	ReadFile(normalizedPath string) (string, error)
}

// Cache memoizes file contents by normalized path, guaranteeing that
// repeated reads return byte-identical strings. It implements
// hydra.FileCache and is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	backend  Backend
	contents map[string]string
}

// New creates a cache over the given backend. A nil backend selects Disk.
func New(backend Backend) *Cache {
	if backend == nil {
		backend = Disk{}
	}
	return &Cache{
		backend:  backend,
		contents: make(map[string]string),
	}
}

// NormalizePath rewrites a path to its canonical spelling.
func (c *Cache) NormalizePath(path string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.backend.Normalize(path)
}

// Exists reports whether the file exists, either cached or on the backend.
func (c *Cache) Exists(normalizedPath string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.contents[normalizedPath]; ok {
		return true
	}
	return c.backend.Exists(normalizedPath)
}

// Content returns the file's content, reading it from the backend on first
// access. The caller is expected to have checked Exists beforehand.
func (c *Cache) Content(normalizedPath string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if content, ok := c.contents[normalizedPath]; ok {
		return content, nil
	}

	content, err := c.backend.ReadFile(normalizedPath)
	if err != nil {
		return "", err
	}

	c.contents[normalizedPath] = content
	return content, nil
}

// ClearCache drops all cached contents, so future accesses re-read the
// backend.
func (c *Cache) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.contents = make(map[string]string)
}

// Disk is the operating-system file backend.
type Disk struct{}

// Normalize removes redundant ".." and double separators and applies the
// platform separator.
func (Disk) Normalize(path string) string {
	return filepath.Clean(filepath.FromSlash(path))
}

// Exists reports whether an absolute path names an existing file. Paths
// are expected to be absolute after normalization and include resolution.
func (Disk) Exists(normalizedPath string) bool {
	if !filepath.IsAbs(normalizedPath) {
		return false
	}

	_, err := os.Stat(normalizedPath)
	return err == nil
}

// ReadFile returns the file content, guaranteeing a trailing newline.
func (Disk) ReadFile(normalizedPath string) (string, error) {
	raw, err := os.ReadFile(normalizedPath)
	if err != nil {
		return "", err
	}

	content := string(raw)
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content, nil
}
