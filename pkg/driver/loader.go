package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"newt/interpreter-go/pkg/interpreter"
	"newt/interpreter-go/pkg/parser"
	"newt/interpreter-go/pkg/runtime"
	"newt/interpreter-go/pkg/syntax"
)

// Unit is one parsed source file. Package is empty for the entry file.
type Unit struct {
	Path    string
	Package string
	Source  string
	Tree    *syntax.Tree
	Errors  []parser.ParseError
}

// Program holds the units of a run in evaluation order: locked packages
// first, the entry file last.
type Program struct {
	Units []*Unit
}

// Entry returns the entry unit.
func (p *Program) Entry() *Unit {
	if len(p.Units) == 0 {
		return nil
	}
	return p.Units[len(p.Units)-1]
}

// Diagnostics collects the parse diagnostics of every unit.
func (p *Program) Diagnostics() []Diagnostic {
	var diags []Diagnostic
	for _, u := range p.Units {
		diags = append(diags, ParseDiagnostics(u)...)
	}
	return diags
}

// ErrSyntax is returned by Run for a unit that did not parse cleanly.
var ErrSyntax = errors.New("unit has syntax errors")

// Run evaluates each unit in order in interp and returns the entry unit's
// result. On failure it also returns the unit that failed. No unit runs when
// any of them has syntax errors.
func (p *Program) Run(interp *interpreter.Interpreter) (runtime.Value, *Unit, error) {
	for _, u := range p.Units {
		if len(u.Errors) > 0 || u.Tree.HasErrors() {
			return nil, u, fmt.Errorf("%s: %w", u.Path, ErrSyntax)
		}
	}
	var result runtime.Value
	for _, u := range p.Units {
		v, err := interp.Interpret(u.Tree)
		if err != nil {
			return nil, u, err
		}
		result = v
	}
	return result, nil, nil
}

// Loader reads and parses Newt sources.
type Loader struct {
	Logger *slog.Logger
}

// NewLoader returns a loader that traces to logger, which may be nil.
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{Logger: logger}
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return discardLogger
	}
	return l.Logger
}

// Load parses every source file of the locked packages, then entry. A nil
// lock loads entry alone. Parse errors are kept on the units; the returned
// error covers I/O failures only.
func (l *Loader) Load(entry string, lock *Lockfile) (*Program, error) {
	if entry == "" {
		return nil, fmt.Errorf("loader: empty entry path")
	}
	entryPath, err := filepath.Abs(entry)
	if err != nil {
		return nil, fmt.Errorf("loader: resolve entry path: %w", err)
	}
	prog := &Program{}
	if lock != nil {
		for _, pkg := range lock.Packages {
			files, err := sourceFiles(pkg.Dir)
			if err != nil {
				return nil, fmt.Errorf("loader: package %s: %w", pkg.Name, err)
			}
			for _, file := range files {
				if file == entryPath {
					continue
				}
				u, err := l.LoadFile(file)
				if err != nil {
					return nil, err
				}
				u.Package = pkg.Name
				prog.Units = append(prog.Units, u)
			}
		}
	}
	u, err := l.LoadFile(entryPath)
	if err != nil {
		return nil, err
	}
	prog.Units = append(prog.Units, u)
	return prog, nil
}

// LoadFile reads and parses a single program file.
func (l *Loader) LoadFile(path string) (*Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	text := string(data)
	tree, errs := parser.Parse(text, parser.Program)
	l.logger().Debug("parsed", "path", path, "bytes", len(text), "errors", len(errs))
	return &Unit{Path: path, Source: text, Tree: tree, Errors: errs}, nil
}

// sourceFiles lists the .newt files under dir in lexical order.
func sourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(p) == SourceExt {
			abs, err := filepath.Abs(p)
			if err != nil {
				return err
			}
			files = append(files, abs)
		}
		return nil
	})
	return files, err
}
