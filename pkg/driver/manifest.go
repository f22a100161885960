// Package driver turns a Newt project on disk into something the interpreter
// can run: it reads newt.yml and newt.lock, fetches dependencies, and loads
// and parses source files.
package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"newt/interpreter-go/pkg/interpreter"
)

const (
	ManifestName = "newt.yml"
	LockfileName = "newt.lock"
	SourceExt    = ".newt"
)

var ErrManifestNotFound = errors.New(ManifestName + " not found")

// Manifest represents the parsed contents of newt.yml.
type Manifest struct {
	Path         string
	Dir          string
	Name         string
	Version      string
	Main         string
	Dependencies map[string]*DependencySpec
	Interpreter  InterpreterSettings
}

// InterpreterSettings mirrors the manifest's interpreter block.
type InterpreterSettings struct {
	MaxCallDepth int
	ShortCircuit bool
}

// DependencySpec describes a dependency descriptor in the manifest. Exactly
// one of Path or Git is set; git dependencies pin with Rev, Tag or Branch.
type DependencySpec struct {
	Path   string
	Git    string
	Rev    string
	Tag    string
	Branch string
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses newt.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks from start towards the filesystem root and returns the
// first newt.yml it meets. The error wraps ErrManifestNotFound when there is
// none.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, ManifestName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", ManifestName, origin, ErrManifestNotFound)
		}
		dir = parent
	}
}

// MainPath resolves the entry file relative to the manifest directory.
func (m *Manifest) MainPath() (string, error) {
	main := strings.TrimSpace(m.Main)
	if main == "" {
		return "", fmt.Errorf("manifest %s does not declare main", m.Path)
	}
	if filepath.IsAbs(main) {
		return filepath.Clean(main), nil
	}
	return filepath.Join(m.Dir, filepath.FromSlash(main)), nil
}

// LockfilePath is where newt.lock lives for this manifest.
func (m *Manifest) LockfilePath() string {
	return filepath.Join(m.Dir, LockfileName)
}

// Options converts the interpreter block into interpreter options.
func (m *Manifest) Options() interpreter.Options {
	if m == nil {
		return interpreter.Options{}
	}
	return interpreter.Options{
		MaxCallDepth: m.Interpreter.MaxCallDepth,
		ShortCircuit: m.Interpreter.ShortCircuit,
	}
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.Main != "" && filepath.Ext(m.Main) != SourceExt {
		errs.Issues = append(errs.Issues, fmt.Sprintf("main %q must be a %s file", m.Main, SourceExt))
	}
	if m.Interpreter.MaxCallDepth < 0 {
		errs.Issues = append(errs.Issues, "interpreter.max_call_depth must not be negative")
	}
	for _, name := range sortedKeys(m.Dependencies) {
		for _, issue := range m.Dependencies[name].validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: %s", name, issue))
		}
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (d *DependencySpec) validate() []string {
	var errs []string
	switch {
	case d.Path == "" && d.Git == "":
		errs = append(errs, "must specify git or path")
	case d.Path != "" && d.Git != "":
		errs = append(errs, "path dependencies cannot also specify git")
	}
	pins := 0
	for _, pin := range []string{d.Rev, d.Tag, d.Branch} {
		if pin != "" {
			pins++
		}
	}
	if d.Path != "" && pins > 0 {
		errs = append(errs, "rev, tag and branch apply only to git dependencies")
	}
	if d.Git != "" && pins != 1 {
		errs = append(errs, "git dependencies require exactly one of rev, tag or branch")
	}
	return errs
}

// Kind names the dependency source for logs.
func (d *DependencySpec) Kind() string {
	if d.Git != "" {
		return "git"
	}
	return "path"
}

type manifestFile struct {
	Name         string          `yaml:"name"`
	Version      string          `yaml:"version"`
	Main         string          `yaml:"main"`
	Dependencies dependencyMap   `yaml:"dependencies"`
	Interpreter  interpreterYAML `yaml:"interpreter"`
}

type interpreterYAML struct {
	MaxCallDepth int  `yaml:"max_call_depth"`
	ShortCircuit bool `yaml:"short_circuit"`
}

type dependencyMap map[string]*DependencySpec

func (mf manifestFile) toManifest(path string) *Manifest {
	deps := make(map[string]*DependencySpec, len(mf.Dependencies))
	for name, dep := range mf.Dependencies {
		copy := *dep
		deps[name] = &copy
	}
	return &Manifest{
		Path:         path,
		Dir:          filepath.Dir(path),
		Name:         sanitizeSegment(mf.Name),
		Version:      strings.TrimSpace(mf.Version),
		Main:         strings.TrimSpace(mf.Main),
		Dependencies: deps,
		Interpreter: InterpreterSettings{
			MaxCallDepth: mf.Interpreter.MaxCallDepth,
			ShortCircuit: mf.Interpreter.ShortCircuit,
		},
	}
}

func (dm *dependencyMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		*dm = make(dependencyMap)
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: dependencies must be a mapping")
	}
	result := make(dependencyMap, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		var key string
		if err := value.Content[i].Decode(&key); err != nil {
			return err
		}
		key = sanitizeSegment(key)
		if key == "" {
			return fmt.Errorf("manifest: dependency names must be non-empty")
		}
		var dep DependencySpec
		if err := dep.unmarshalYAML(value.Content[i+1]); err != nil {
			return fmt.Errorf("manifest: dependency %q: %w", key, err)
		}
		result[key] = &dep
	}
	*dm = result
	return nil
}

// A bare string is shorthand for a path dependency.
func (d *DependencySpec) unmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*d = DependencySpec{}
			return nil
		}
		*d = DependencySpec{Path: strings.TrimSpace(value.Value)}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Path   string `yaml:"path"`
			Git    string `yaml:"git"`
			Rev    string `yaml:"rev"`
			Tag    string `yaml:"tag"`
			Branch string `yaml:"branch"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		*d = DependencySpec{
			Path:   strings.TrimSpace(raw.Path),
			Git:    strings.TrimSpace(raw.Git),
			Rev:    strings.TrimSpace(raw.Rev),
			Tag:    strings.TrimSpace(raw.Tag),
			Branch: strings.TrimSpace(raw.Branch),
		}
		return nil
	case yaml.AliasNode:
		return d.unmarshalYAML(value.Alias)
	default:
		return fmt.Errorf("expected string or mapping, found %s", value.ShortTag())
	}
}

// sanitizeSegment lowercases a package name and folds separators to '_'.
func sanitizeSegment(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}
