package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func loadTestManifest(t *testing.T, dir, contents string) *Manifest {
	t.Helper()
	writeFiles(t, dir, map[string]string{ManifestName: contents})
	m, err := LoadManifest(filepath.Join(dir, ManifestName))
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	return m
}

func TestInstallPathDependency(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"util/lib.newt": "fn double(x) { return x * 2; }\n",
	})
	m := loadTestManifest(t, filepath.Join(root, "app"), "name: app\ndependencies:\n  util: ../util\n")

	lock := NewLockfile(m.Name, "test")
	installer := NewInstaller(t.TempDir(), nil)
	changed, err := installer.Install(context.Background(), m, lock)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if !changed {
		t.Fatalf("expected first install to change the lockfile")
	}
	pkg, ok := lock.Find("util")
	if !ok {
		t.Fatalf("util not locked: %#v", lock.Packages)
	}
	if pkg.Dir != filepath.Join(root, "util") {
		t.Fatalf("dir = %q", pkg.Dir)
	}
	if pkg.Source != "path:../util" || pkg.Version != "path" || len(pkg.Checksum) != 64 {
		t.Fatalf("locked package = %#v", pkg)
	}

	changed, err = installer.Install(context.Background(), m, lock)
	if err != nil {
		t.Fatalf("second Install: %v", err)
	}
	if changed {
		t.Fatalf("expected second install to leave the lockfile unchanged")
	}

	writeFiles(t, root, map[string]string{"util/lib.newt": "fn double(x) { return x + x; }\n"})
	changed, err = installer.Install(context.Background(), m, lock)
	if err != nil {
		t.Fatalf("third Install: %v", err)
	}
	if !changed {
		t.Fatalf("expected an edited dependency to update its checksum")
	}
}

func TestInstallMissingPathDependency(t *testing.T) {
	root := t.TempDir()
	m := loadTestManifest(t, root, "name: app\ndependencies:\n  gone: ./gone\n")
	_, err := NewInstaller(t.TempDir(), nil).Install(context.Background(), m, NewLockfile("app", "test"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if !strings.Contains(err.Error(), `dependency "gone"`) {
		t.Fatalf("error should name the dependency: %v", err)
	}
}

func TestInstallGitDependency(t *testing.T) {
	root := t.TempDir()
	repoDir := filepath.Join(root, "mathx")
	writeFiles(t, repoDir, map[string]string{
		"mathx.newt":      "fn square(x) { return x * x; }\n",
		"extra/more.newt": "let answer = 42;\n",
	})
	commit := initGitRepo(t, repoDir)

	home := filepath.Join(root, "home")
	m := loadTestManifest(t, filepath.Join(root, "app"), "name: app\ndependencies:\n  mathx:\n    git: "+repoDir+"\n    branch: master\n")
	lock := NewLockfile(m.Name, "test")
	installer := NewInstaller(home, nil)

	changed, err := installer.Install(context.Background(), m, lock)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if !changed {
		t.Fatalf("expected the lockfile to change")
	}
	pkg, ok := lock.Find("mathx")
	if !ok {
		t.Fatalf("mathx not locked")
	}
	if want := "master@" + commit; pkg.Version != want {
		t.Fatalf("version = %q, want %q", pkg.Version, want)
	}
	if want := "git+" + repoDir + "@" + commit; pkg.Source != want {
		t.Fatalf("source = %q, want %q", pkg.Source, want)
	}
	if want := filepath.Join(home, "pkg", "src", "mathx", "master_"+commit); pkg.Dir != want {
		t.Fatalf("dir = %q, want %q", pkg.Dir, want)
	}
	if _, err := os.Stat(filepath.Join(pkg.Dir, "extra", "more.newt")); err != nil {
		t.Fatalf("checkout missing sources: %v", err)
	}
	srcSum, err := dirChecksum(repoDir)
	if err != nil {
		t.Fatalf("checksum: %v", err)
	}
	if pkg.Checksum != srcSum {
		t.Fatalf("checkout checksum %s differs from source %s", pkg.Checksum, srcSum)
	}

	changed, err = installer.Install(context.Background(), m, lock)
	if err != nil {
		t.Fatalf("second Install: %v", err)
	}
	if changed {
		t.Fatalf("expected locked git dependency to be reused")
	}
}

func TestInstallPrunesRemovedDependencies(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"util/lib.newt": "let u = 1;\n"})
	m := loadTestManifest(t, filepath.Join(root, "app"), "name: app\ndependencies:\n  util: ../util\n")
	lock := NewLockfile(m.Name, "test")
	lock.Put(&LockedPackage{Name: "stale", Version: "path", Source: "path:../stale"})

	changed, err := NewInstaller(t.TempDir(), nil).Install(context.Background(), m, lock)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if !changed {
		t.Fatalf("expected change")
	}
	if _, ok := lock.Find("stale"); ok {
		t.Fatalf("stale package kept: %#v", lock.Packages)
	}
	if len(lock.Packages) != 1 {
		t.Fatalf("packages = %#v", lock.Packages)
	}
}

func TestInstallHonoursCancellation(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"util/lib.newt": "let u = 1;\n"})
	m := loadTestManifest(t, filepath.Join(root, "app"), "name: app\ndependencies:\n  util: ../util\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewInstaller(t.TempDir(), nil).Install(ctx, m, NewLockfile("app", "test"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLockfilePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), LockfileName)
	lock := NewLockfile("App", "newt test")
	lock.Put(&LockedPackage{Name: "zeta", Version: "path", Source: "path:../zeta", Checksum: "abc", Dir: "/tmp/zeta"})
	lock.Put(&LockedPackage{Name: "alpha", Version: "main@123", Source: "git+x@123", Checksum: "def", Dir: "/tmp/alpha"})
	if err := WriteLockfile(lock, path); err != nil {
		t.Fatalf("WriteLockfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "root: app\n") || !strings.Contains(string(data), "- name: alpha\n") {
		t.Fatalf("unexpected lockfile contents:\n%s", data)
	}

	loaded, err := LoadLockfile(path)
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	if loaded.Root != "app" || loaded.Tool != "newt test" || len(loaded.Packages) != 2 {
		t.Fatalf("loaded = %#v", loaded)
	}
	if loaded.Packages[0].Name != "alpha" || loaded.Packages[1].Dir != "/tmp/zeta" {
		t.Fatalf("packages out of order: %#v %#v", loaded.Packages[0], loaded.Packages[1])
	}
}
