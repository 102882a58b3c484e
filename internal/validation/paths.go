package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathHandler validates and normalizes the filesystem paths the app
// writes to: the database file, the search index and the config file.
type PathHandler struct {
	// MaxPathLength is the maximum allowed path length
	MaxPathLength int
}

// NewPathHandler creates a path handler with sane limits
func NewPathHandler() *PathHandler {
	return &PathHandler{MaxPathLength: 4096}
}

// ExpandAndValidatePath expands ~ and normalizes a path, rejecting
// traversal attempts and unsafe characters.
func (ph *PathHandler) ExpandAndValidatePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if len(path) > ph.MaxPathLength {
		return "", fmt.Errorf("path too long (max %d characters)", ph.MaxPathLength)
	}
	if strings.Contains(path, "\x00") {
		return "", fmt.Errorf("path contains null bytes")
	}
	for _, char := range path {
		if char < 32 && char != '\t' {
			return "", fmt.Errorf("path contains control characters")
		}
	}
	if strings.Contains(path, "../") || strings.Contains(path, "..\\") {
		return "", fmt.Errorf("directory traversal not allowed")
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	} else if strings.HasPrefix(path, "~") {
		return "", fmt.Errorf("invalid tilde usage")
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("cannot make path absolute: %w", err)
		}
		path = absPath
	}

	cleanPath := filepath.Clean(path)
	for _, component := range strings.Split(filepath.ToSlash(cleanPath), "/") {
		if component == ".." {
			return "", fmt.Errorf("directory traversal not allowed")
		}
	}

	return cleanPath, nil
}

// DBPath returns a validated database path, falling back to the default
// location when userPath is empty.
func (ph *PathHandler) DBPath(userPath string) (string, error) {
	if userPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		userPath = filepath.Join(homeDir, ".streamix.db")
	}

	path, err := ph.ExpandAndValidatePath(userPath)
	if err != nil {
		return "", err
	}

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a file: %s", path)
	}

	return path, nil
}

// IndexPath returns a validated search index path. Bleve indexes are
// directories, so an existing regular file at the path is rejected.
func (ph *PathHandler) IndexPath(userPath string) (string, error) {
	if userPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		userPath = filepath.Join(homeDir, ".streamix", "index.bleve")
	}

	path, err := ph.ExpandAndValidatePath(userPath)
	if err != nil {
		return "", err
	}

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return "", fmt.Errorf("path exists but is not a directory: %s", path)
	}

	return path, nil
}

// ConfigPath returns a validated configuration file path.
func (ph *PathHandler) ConfigPath(userPath string) (string, error) {
	if userPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		userPath = filepath.Join(homeDir, ".config", "streamix", "config.toml")
	}

	return ph.ExpandAndValidatePath(userPath)
}

// EnsureDirectory validates a directory path and creates it if missing.
func (ph *PathHandler) EnsureDirectory(path string) (string, error) {
	validated, err := ph.ExpandAndValidatePath(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(validated)
	switch {
	case os.IsNotExist(err):
		if mkErr := os.MkdirAll(validated, 0o755); mkErr != nil {
			return "", fmt.Errorf("failed to create directory: %w", mkErr)
		}
	case err != nil:
		return "", fmt.Errorf("checking directory: %w", err)
	case !info.IsDir():
		return "", fmt.Errorf("path exists but is not a directory: %s", validated)
	}

	return validated, nil
}
