package pathutil

import (
	"path/filepath"
	"runtime"
	"strings"
)

// NormalizeForLookup creates a canonical, case-normalized path suitable for use as a map key or in comparisons.
// It performs the following steps:
// 1. Makes the path absolute.
// 2. Evaluates any symbolic links.
// 3. On case-insensitive OSes (macOS, Windows), converts the path to lowercase.
func NormalizeForLookup(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	canonicalPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		// The path may not exist yet; fall back to the absolute path.
		canonicalPath = absPath
	}

	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		return strings.ToLower(canonicalPath), nil
	}

	return canonicalPath, nil
}

// IsWithin reports whether child is parent or lies below it. The comparison
// is component-wise, so /a/bc is not within /a/b. Both paths are normalized
// first; an empty parent never matches.
func IsWithin(parent, child string) bool {
	if strings.TrimSpace(parent) == "" || strings.TrimSpace(child) == "" {
		return false
	}
	normParent, err := NormalizeForLookup(parent)
	if err != nil {
		return false
	}
	normChild, err := NormalizeForLookup(child)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(normParent, normChild)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
