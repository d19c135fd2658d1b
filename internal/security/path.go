// Package security provides input validation for operations that touch
// the local filesystem.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Path validates download and upload destinations.
// Used to prevent path traversal attacks (CWE-22): tool callers supply
// arbitrary paths, and writes must stay inside the working directory or
// an explicitly allowed directory.
type Path struct {
	allowedDirs []string
	workDir     string
}

// NewPath creates a path validator.
// allowedDirs lists directories allowed in addition to the working
// directory (empty means working directory only).
func NewPath(allowedDirs []string) (*Path, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("unable to get working directory: %w", err)
	}

	absAllowedDirs := make([]string, 0, len(allowedDirs))
	for _, dir := range allowedDirs {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("unable to resolve directory %s: %w", dir, err)
		}
		absAllowedDirs = append(absAllowedDirs, absDir)
	}

	return &Path{
		allowedDirs: absAllowedDirs,
		workDir:     workDir,
	}, nil
}

// Validate validates and sanitizes a file path.
// Returns a safe absolute path or an error.
func (v *Path) Validate(path string) (string, error) {
	cleanPath := filepath.Clean(path)

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return "", fmt.Errorf("invalid path: %w", err)
	}

	if !v.isAllowed(absPath) {
		return "", fmt.Errorf("access denied: path '%s' is not within allowed directories", absPath)
	}

	// Resolve symbolic links so a link inside an allowed directory cannot
	// point the write somewhere else.
	realPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		// Nonexistent targets are fine for new files; the parent check
		// above already passed.
		if os.IsNotExist(err) {
			return absPath, nil
		}
		return "", fmt.Errorf("unable to resolve symbolic link: %w", err)
	}

	if realPath != absPath && !v.isAllowed(realPath) {
		return "", fmt.Errorf("access denied: symbolic link points to disallowed location '%s'", realPath)
	}

	return realPath, nil
}

// isAllowed reports whether absPath is the working directory, an allowed
// directory, or inside one of them.
func (v *Path) isAllowed(absPath string) bool {
	pathWithSep := filepath.Clean(absPath) + string(filepath.Separator)

	workDirNorm := filepath.Clean(v.workDir) + string(filepath.Separator)
	if strings.HasPrefix(pathWithSep, workDirNorm) || absPath == v.workDir {
		return true
	}

	for _, dir := range v.allowedDirs {
		dirNorm := filepath.Clean(dir) + string(filepath.Separator)
		if strings.HasPrefix(pathWithSep, dirNorm) || absPath == dir {
			return true
		}
	}
	return false
}
