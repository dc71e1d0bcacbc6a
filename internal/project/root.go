package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Manifest file names, in lookup order.
const (
	ManifestTOML = "poet.toml"
	ManifestYAML = "poet.yaml"
	ManifestYML  = "poet.yml"
)

var manifestNames = []string{ManifestTOML, ManifestYAML, ManifestYML}

// FindManifest walks up from startDir to locate a manifest.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range manifestNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// FindProjectRoot returns the directory containing the manifest, if any.
func FindProjectRoot(startDir string) (root string, ok bool, err error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return "", ok, err
	}
	return filepath.Dir(manifestPath), true, nil
}

// ResolveWithin joins rel to root and rejects absolute paths and paths that
// escape root.
func ResolveWithin(root, rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("%q: must be relative", rel)
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	p := filepath.Join(root, clean)
	if clean != "." && !pathWithin(root, p) {
		return "", fmt.Errorf("%q: escapes project root", rel)
	}
	return p, nil
}

func pathWithin(root, path string) bool {
	if root == "" || path == "" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
