package driver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Installer resolves manifest dependencies into locked packages. Git
// dependencies are cloned under Home/pkg/src/<name>/<version>; path
// dependencies are used in place.
type Installer struct {
	Home   string
	Logger *slog.Logger
}

// NewInstaller returns an installer caching into home.
func NewInstaller(home string, logger *slog.Logger) *Installer {
	return &Installer{Home: home, Logger: logger}
}

func (in *Installer) logger() *slog.Logger {
	if in.Logger == nil {
		return discardLogger
	}
	return in.Logger
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Install resolves every dependency of manifest into lock, dropping packages
// the manifest no longer declares. Git packages already locked at a checkout
// that still exists are not fetched again. It reports whether lock changed.
func (in *Installer) Install(ctx context.Context, manifest *Manifest, lock *Lockfile) (bool, error) {
	if manifest == nil || lock == nil {
		return false, errors.New("install: missing manifest or lockfile")
	}
	changed := lock.Prune(manifest.Dependencies)
	for _, name := range sortedKeys(manifest.Dependencies) {
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		dep := manifest.Dependencies[name]
		var (
			pkg *LockedPackage
			err error
		)
		switch dep.Kind() {
		case "git":
			if locked, ok := lock.Find(name); ok && in.reusable(locked, dep) {
				in.logger().Debug("dependency locked", "name", name, "version", locked.Version)
				continue
			}
			pkg, err = in.fetchGit(ctx, name, dep)
		default:
			pkg, err = resolvePath(manifest.Dir, name, dep)
		}
		if err != nil {
			return changed, fmt.Errorf("dependency %q: %w", name, err)
		}
		in.logger().Info("dependency resolved", "name", name, "kind", dep.Kind(), "version", pkg.Version, "dir", pkg.Dir)
		if lock.Put(pkg) {
			changed = true
		}
	}
	return changed, nil
}

// reusable reports whether a locked git package still matches dep and its
// checkout is on disk.
func (in *Installer) reusable(locked *LockedPackage, dep *DependencySpec) bool {
	if !strings.HasPrefix(locked.Source, "git+"+dep.Git+"@") {
		return false
	}
	_, descriptor, err := gitRevision(dep)
	if err != nil {
		return false
	}
	if locked.Version != descriptor && !strings.HasPrefix(locked.Version, descriptor+"@") {
		return false
	}
	info, err := os.Stat(locked.Dir)
	return err == nil && info.IsDir()
}

func resolvePath(base, name string, dep *DependencySpec) (*LockedPackage, error) {
	dir := filepath.FromSlash(dep.Path)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(base, dir)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path %s is not a directory", dir)
	}
	checksum, err := dirChecksum(dir)
	if err != nil {
		return nil, fmt.Errorf("checksum %s: %w", dir, err)
	}
	return &LockedPackage{
		Name:     name,
		Version:  "path",
		Source:   "path:" + filepath.ToSlash(dep.Path),
		Checksum: checksum,
		Dir:      filepath.Clean(dir),
	}, nil
}

func (in *Installer) fetchGit(ctx context.Context, name string, dep *DependencySpec) (*LockedPackage, error) {
	if in.Home == "" {
		return nil, errors.New("git fetcher unavailable: no cache directory")
	}
	baseDir := filepath.Join(in.Home, "pkg", "src", sanitizePathSegment(name))
	version, commit, err := in.ensureCheckout(ctx, baseDir, dep)
	if err != nil {
		return nil, err
	}
	checkoutDir := filepath.Join(baseDir, sanitizePathSegment(version))
	checksum, err := dirChecksum(checkoutDir)
	if err != nil {
		return nil, err
	}
	return &LockedPackage{
		Name:     name,
		Version:  version,
		Source:   fmt.Sprintf("git+%s@%s", dep.Git, commit),
		Checksum: checksum,
		Dir:      checkoutDir,
	}, nil
}

func (in *Installer) ensureCheckout(ctx context.Context, baseDir string, dep *DependencySpec) (string, string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", err
	}
	revision, descriptor, err := gitRevision(dep)
	if err != nil {
		return "", "", err
	}
	if dep.Rev != "" {
		existing := filepath.Join(baseDir, sanitizePathSegment(dep.Rev))
		if _, err := os.Stat(existing); err == nil {
			return dep.Rev, dep.Rev, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", "", err
	}

	in.logger().Info("cloning", "url", dep.Git, "revision", string(revision))
	repo, err := git.PlainCloneContext(ctx, tmpDir, false, &git.CloneOptions{
		URL:               dep.Git,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git clone %s: %w", dep.Git, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil && dep.Branch != "" {
		// Only the default branch is created locally by a clone.
		hash, err = repo.ResolveRevision(plumbing.Revision("refs/remotes/origin/" + dep.Branch))
	}
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	version := gitPinnedVersion(descriptor, hash.String())
	targetDir := filepath.Join(baseDir, sanitizePathSegment(version))
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return version, hash.String(), nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git checkout %s: %w", revision, err)
	}
	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	return version, hash.String(), nil
}

func gitPinnedVersion(descriptor, commit string) string {
	if commit == "" {
		return descriptor
	}
	if descriptor == "" || descriptor == commit {
		return commit
	}
	return descriptor + "@" + commit
}

func gitRevision(dep *DependencySpec) (plumbing.Revision, string, error) {
	switch {
	case dep.Rev != "":
		return plumbing.Revision(dep.Rev), dep.Rev, nil
	case dep.Tag != "":
		return plumbing.Revision("refs/tags/" + dep.Tag), dep.Tag, nil
	case dep.Branch != "":
		return plumbing.Revision("refs/heads/" + dep.Branch), dep.Branch, nil
	}
	return "", "", errors.New("git dependencies require rev, tag, or branch")
}

// dirChecksum hashes every file under path by relative name and contents.
// Git metadata is skipped so a checkout hashes like the tree it holds.
func dirChecksum(path string) (string, error) {
	h := sha256.New()
	err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		h.Write([]byte(filepath.ToSlash(rel)))
		h.Write(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
