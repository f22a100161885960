package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadManifest(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		ManifestName: `name: Demo-App
version: 0.1.0
main: src/main.newt
dependencies:
  util: ../util
  mathx:
    git: https://example.com/mathx.git
    tag: v1.2.0
interpreter:
  max_call_depth: 64
  short_circuit: true
`,
	})

	m, err := LoadManifest(filepath.Join(root, ManifestName))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Name != "demo_app" {
		t.Fatalf("name = %q", m.Name)
	}
	if m.Dir != root {
		t.Fatalf("dir = %q, want %q", m.Dir, root)
	}
	if got := m.Dependencies["util"]; got == nil || got.Path != "../util" || got.Kind() != "path" {
		t.Fatalf("util dependency = %#v", got)
	}
	if got := m.Dependencies["mathx"]; got == nil || got.Git != "https://example.com/mathx.git" || got.Tag != "v1.2.0" || got.Kind() != "git" {
		t.Fatalf("mathx dependency = %#v", got)
	}
	main, err := m.MainPath()
	if err != nil {
		t.Fatalf("MainPath: %v", err)
	}
	if want := filepath.Join(root, "src", "main.newt"); main != want {
		t.Fatalf("MainPath = %q, want %q", main, want)
	}
	opts := m.Options()
	if opts.MaxCallDepth != 64 || !opts.ShortCircuit {
		t.Fatalf("options = %+v", opts)
	}
	if got, want := m.LockfilePath(), filepath.Join(root, LockfileName); got != want {
		t.Fatalf("LockfilePath = %q, want %q", got, want)
	}
}

func TestLoadManifestRejectsUnknownFields(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{ManifestName: "name: demo\nentry: main.newt\n"})
	_, err := LoadManifest(filepath.Join(root, ManifestName))
	if err == nil || !strings.Contains(err.Error(), "entry") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestLoadManifestEmpty(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{ManifestName: ""})
	_, err := LoadManifest(filepath.Join(root, ManifestName))
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty manifest error, got %v", err)
	}
}

func TestManifestValidation(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		ManifestName: `version: 1.0.0
main: main.txt
dependencies:
  both:
    path: ../both
    git: https://example.com/both.git
    branch: main
  unpinned:
    git: https://example.com/unpinned.git
  nothing: {}
interpreter:
  max_call_depth: -1
`,
	})
	_, err := LoadManifest(filepath.Join(root, ManifestName))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := []string{
		"name must be provided",
		`main "main.txt" must be a .newt file`,
		"interpreter.max_call_depth must not be negative",
		"dependencies.both: path dependencies cannot also specify git",
		"dependencies.both: rev, tag and branch apply only to git dependencies",
		"dependencies.nothing: must specify git or path",
		"dependencies.unpinned: git dependencies require exactly one of rev, tag or branch",
	}
	if len(verr.Issues) != len(want) {
		t.Fatalf("issues = %q, want %q", verr.Issues, want)
	}
	for i := range want {
		if verr.Issues[i] != want[i] {
			t.Fatalf("issue %d = %q, want %q", i, verr.Issues[i], want[i])
		}
	}
	if !strings.HasPrefix(err.Error(), "manifest validation failed:\n- ") {
		t.Fatalf("error text %q", err.Error())
	}
}

func TestFindManifest(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{ManifestName: "name: test\n"})
	child := filepath.Join(root, "src", "app")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, err := FindManifest(child)
	if err != nil {
		t.Fatalf("FindManifest returned error: %v", err)
	}
	if want := filepath.Join(root, ManifestName); found != want {
		t.Fatalf("FindManifest = %q, want %q", found, want)
	}
}

func TestFindManifestMissing(t *testing.T) {
	_, err := FindManifest(t.TempDir())
	if !errors.Is(err, ErrManifestNotFound) {
		t.Fatalf("expected ErrManifestNotFound, got %v", err)
	}
}

func TestResolveHomeEnv(t *testing.T) {
	target := filepath.Join(t.TempDir(), "cache")
	t.Setenv(HomeEnv, target)

	got, err := ResolveHome()
	if err != nil {
		t.Fatalf("ResolveHome error: %v", err)
	}
	if got != target {
		t.Fatalf("ResolveHome = %q, want %q", got, target)
	}
}

func TestResolveHomeDefault(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(HomeEnv, "")
	t.Setenv("HOME", tmp)

	got, err := ResolveHome()
	if err != nil {
		t.Fatalf("ResolveHome error: %v", err)
	}
	if want := filepath.Join(tmp, ".newt"); got != want {
		t.Fatalf("ResolveHome = %q, want %q", got, want)
	}
}
