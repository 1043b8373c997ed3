package project

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadKeepsDefaultsForOmittedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestName)
	content := "[package]\nname = \"demo\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Package.Name != "demo" {
		t.Fatalf("name = %q, want demo", m.Package.Name)
	}
	if m.Package.Entry != "main.fd" || m.Build.Dir != "build" {
		t.Fatalf("defaults not preserved: %+v", m)
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	manifest := filepath.Join(root, ManifestName)
	if err := os.WriteFile(manifest, []byte("[package]\nname = \"x\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	found, ok, err := FindManifest(nested)
	if err != nil || !ok {
		t.Fatalf("find: ok=%v err=%v", ok, err)
	}
	if found != manifest {
		t.Fatalf("found %q, want %q", found, manifest)
	}
}

func TestResolveFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	m, root, err := Resolve(dir)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if root != dir || m.Package.Entry != "main.fd" {
		t.Fatalf("got root=%q manifest=%+v", root, m)
	}
}

func TestRecreateBuildDirClearsStaleOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "build")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(dir, "old.lua")
	if err := os.WriteFile(stale, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := RecreateBuildDir(dir); err != nil {
		t.Fatalf("recreate: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("stale output survived: %v", err)
	}
}
