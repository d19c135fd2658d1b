package tools

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Seif-Sameh/Kaggle-mcp/internal/security"
)

// resolveDest validates a download destination against the allowed
// directories. An empty path means the current working directory.
// Denied destinations are IO errors: the path is well-formed input, the
// filesystem location is what is unusable.
func resolveDest(paths *security.Path, path string) (string, error) {
	if path == "" {
		path = "."
	}
	dest, err := paths.Validate(path)
	if err != nil {
		return "", &IOError{Op: "resolve", Path: path, Err: err}
	}
	return dest, nil
}

// checkFolder verifies that a caller-supplied source folder exists and is
// a directory.
func checkFolder(folder string) error {
	info, err := os.Stat(folder)
	if err != nil {
		if os.IsNotExist(err) {
			return &ValidationError{Reason: fmt.Sprintf("folder %q does not exist", folder)}
		}
		return &IOError{Op: "stat", Path: folder, Err: err}
	}
	if !info.IsDir() {
		return &ValidationError{Reason: fmt.Sprintf("%q is not a directory", folder)}
	}
	return nil
}

// checkMetadataFile verifies that folder contains the named metadata file.
func checkMetadataFile(folder, name string) error {
	if err := checkFolder(folder); err != nil {
		return err
	}
	path := filepath.Join(folder, name)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &ValidationError{Reason: fmt.Sprintf("%s not found in %q, run the matching initialize tool first", name, folder)}
		}
		return &IOError{Op: "stat", Path: path, Err: err}
	}
	return nil
}
