package hydra

// FileCache is the file access layer used by the shader tools. Repeated
// reads of the same normalized path must return byte-identical content.
// Implementations must be safe for concurrent use.
type FileCache interface {
	// NormalizePath rewrites a path such that different spellings of the
	// same file compare equal. Typically this makes the path absolute.
	NormalizePath(path string) string

	// Exists reports whether a file with the given normalized path exists.
	Exists(normalizedPath string) bool

	// Content returns the content of the file with the given normalized
	// path. The caller is expected to have checked Exists beforehand.
	Content(normalizedPath string) (string, error)
}

// FileLocator resolves a path reference found inside a file, such as an
// import statement or an #include directive.
//
// References of the form "Relative/To/Current/File.h" resolve relative to
// the parent file's directory; references of the form
// <Relative/To/Include/Directories.h> search configured include roots.
type FileLocator interface {
	// FindFile returns the normalized path of the referenced file, or
	// ok=false if the reference cannot be resolved.
	FindFile(cache FileCache, parentPath, relativePath string) (path string, ok bool)
}
