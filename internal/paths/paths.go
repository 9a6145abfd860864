// Package paths normalizes file paths so every stage of the pipeline sees the
// same repo-relative, forward-slash form regardless of platform.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// Canonicalize converts an absolute path to a repo-relative path with forward
// slashes, resolving symlinks when the path exists.
func Canonicalize(absolutePath string, repoRoot string) (string, error) {
	resolved, err := filepath.EvalSymlinks(absolutePath)
	if err != nil {
		if os.IsNotExist(err) {
			resolved = absolutePath
		} else {
			return "", err
		}
	}

	rootResolved, err := filepath.EvalSymlinks(repoRoot)
	if err != nil {
		if os.IsNotExist(err) {
			rootResolved = repoRoot
		} else {
			return "", err
		}
	}

	rel, err := filepath.Rel(rootResolved, resolved)
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(rel), nil
}

// Normalize converts backslashes to forward slashes
func Normalize(path string) string {
	return filepath.ToSlash(path)
}

// Dir returns the immediate parent directory name of a normalized path.
// Files at the repository root report "." as their directory.
func Dir(path string) string {
	dir := filepath.ToSlash(filepath.Dir(path))
	if dir == "" {
		return "."
	}
	return dir
}

// DirName returns the basename of the immediate parent directory, or "." for
// root-level files.
func DirName(path string) string {
	dir := Dir(path)
	if dir == "." || dir == "/" {
		return "."
	}
	parts := strings.Split(dir, "/")
	return parts[len(parts)-1]
}

// Depth counts the number of directory components in a normalized path.
func Depth(path string) int {
	path = Normalize(path)
	if path == "" || path == "." {
		return 0
	}
	return strings.Count(path, "/")
}
