package filecache

import (
	"strings"

	"github.com/leaappelsmeier/hydra"
)

// Locator resolves import and #include references. References in quotes
// resolve relative to the referencing file's directory; references in
// angle brackets search the configured include directories. It implements
// hydra.FileLocator.
//
// The zero value is a locator without include directories.
type Locator struct {
	includeDirs []string
}

// AddIncludeDirectory appends a root searched by angle-bracket references.
// Directories added later take priority.
func (l *Locator) AddIncludeDirectory(path string) {
	if !strings.HasSuffix(path, "/") && !strings.HasSuffix(path, `\`) {
		path += "/"
	}
	l.includeDirs = append(l.includeDirs, path)
}

// FindFile resolves a reference found in the file at parentPath and
// returns the normalized path of the referenced file.
func (l *Locator) FindFile(cache hydra.FileCache, parentPath, relativePath string) (string, bool) {
	if relativePath == "" {
		return "", false
	}

	// an already-resolvable path needs no search
	if cache.Exists(relativePath) {
		return relativePath, true
	}

	quoted := relativePath[0] == '"'

	if relativePath[0] == '"' || relativePath[0] == '<' {
		relativePath = relativePath[1:]
	}
	if n := len(relativePath); n > 0 && (relativePath[n-1] == '"' || relativePath[n-1] == '>') {
		relativePath = relativePath[:n-1]
	}

	if quoted {
		return l.findRelativeToParent(cache, parentPath, relativePath)
	}
	return l.findInIncludeDirectories(cache, relativePath)
}

// findRelativeToParent resolves against the parent file's directory; the
// "/../" hop strips the parent's file name.
func (l *Locator) findRelativeToParent(cache hydra.FileCache, parentPath, relativePath string) (string, bool) {
	fullPath := cache.NormalizePath(parentPath + "/../" + relativePath)

	if cache.Exists(fullPath) {
		return fullPath, true
	}
	return "", false
}

// findInIncludeDirectories searches the include roots, last added first.
func (l *Locator) findInIncludeDirectories(cache hydra.FileCache, relativePath string) (string, bool) {
	for i := len(l.includeDirs); i > 0; i-- {
		fullPath := cache.NormalizePath(l.includeDirs[i-1] + relativePath)

		if cache.Exists(fullPath) {
			return fullPath, true
		}
	}

	return "", false
}
