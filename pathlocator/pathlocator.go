// Package pathlocator implements the path-locator collaborator named in
// spec §6: given a relative or absolute path and a list of search
// directories, resolve it to a canonical filesystem path.
package pathlocator

import (
	"os"
	"path/filepath"
)

// Locator is the trait the factory package depends on for the path(key)
// operation. A custom implementation can back this with a virtual
// filesystem, an archive, or a remote fetcher; the factory never touches
// the filesystem directly.
type Locator interface {
	Locate(path string, searchPaths []string) (string, error)
}

// Default is the reference implementation from spec §6: return the path
// as-is if it exists, else search searchPaths and return the canonical
// form of the first hit, else return the input unchanged.
type Default struct{}

func (Default) Locate(path string, searchPaths []string) (string, error) {
	if path == "" {
		return "", nil
	}
	if _, err := os.Stat(path); err == nil {
		return canonical(path), nil
	}
	for _, dir := range searchPaths {
		candidate := filepath.Join(dir, path)
		if _, err := os.Stat(candidate); err == nil {
			return canonical(candidate), nil
		}
	}
	return path, nil
}

func canonical(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return filepath.Clean(abs)
	}
	return filepath.Clean(path)
}
