// Package project handles the faraday.toml manifest and the build
// directory lifecycle.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file the project root is identified by.
const ManifestName = "faraday.toml"

// Manifest is the parsed faraday.toml.
type Manifest struct {
	Package   PackageSection   `toml:"package"`
	Build     BuildSection     `toml:"build"`
	Templates TemplatesSection `toml:"templates"`
}

// PackageSection names the project and its entry file.
type PackageSection struct {
	Name  string `toml:"name"`
	Entry string `toml:"entry"`
}

// BuildSection configures output placement.
type BuildSection struct {
	Dir string `toml:"dir"`
}

// TemplatesSection points at an optional template-set override.
type TemplatesSection struct {
	Path string `toml:"path"`
}

// Default returns the manifest used when no faraday.toml exists.
func Default() Manifest {
	return Manifest{
		Package: PackageSection{Name: "main", Entry: "main.fd"},
		Build:   BuildSection{Dir: "build"},
	}
}

// Load reads and decodes a manifest file. Omitted fields keep their
// defaults.
func Load(path string) (Manifest, error) {
	m := Default()
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return Manifest{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return m, nil
}

// FindManifest walks up from startDir to locate faraday.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Resolve loads the manifest governing startDir, falling back to defaults
// when none exists. The returned root is the manifest's directory, or
// startDir itself for the fallback.
func Resolve(startDir string) (Manifest, string, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return Manifest{}, "", err
	}
	if !ok {
		return Default(), startDir, nil
	}
	m, err := Load(path)
	if err != nil {
		return Manifest{}, "", err
	}
	return m, filepath.Dir(path), nil
}

// RecreateBuildDir removes and remakes the build directory so stale output
// never survives a build.
func RecreateBuildDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clearing build dir %q: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating build dir %q: %w", dir, err)
	}
	return nil
}
