package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"newt/interpreter-go/pkg/driver"
	"newt/interpreter-go/pkg/interpreter"
	"newt/interpreter-go/pkg/lexer"
	"newt/interpreter-go/pkg/parser"
	"newt/interpreter-go/pkg/syntax"
)

const cliToolVersion = "newt-cli 0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("newt", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = printUsage
	verbose := fs.Bool("v", false, "trace project loading to stderr")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	args = fs.Args()
	if len(args) == 0 {
		printUsage()
		return 1
	}
	logger := newLogger(*verbose)

	switch args[0] {
	case "help":
		printUsage()
		return 0
	case "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(args[1:], logger)
	case "tokens":
		return runTokens(args[1:])
	case "tree":
		return runTree(args[1:])
	case "repl":
		return runRepl(args[1:], logger)
	case "deps":
		return runDeps(args[1:], logger)
	default:
		if filepath.Ext(args[0]) == driver.SourceExt {
			return runEntry(args, logger)
		}
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		printUsage()
		return 1
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `usage: newt [-v] <command> [arguments]

commands:
  run [file.newt]         run a file, or the manifest's main file
  tokens <file.newt>      print the token stream
  tree [-expr] <file>     print the syntax tree
  repl                    start an interactive session
  deps install            fetch dependencies and write newt.lock
  version                 print the tool version
`)
}

// newLogger returns nil unless tracing was asked for; the driver treats a
// nil logger as silent.
func newLogger(verbose bool) *slog.Logger {
	if !verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func runEntry(args []string, logger *slog.Logger) int {
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args[1:], " "))
		return 1
	}
	entry := ""
	start := "."
	if len(args) == 1 {
		entry = args[0]
		start = filepath.Dir(entry)
	}

	manifest, err := loadManifestFrom(start)
	switch {
	case errors.Is(err, driver.ErrManifestNotFound):
		manifest = nil
	case err != nil:
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return 1
	}
	if manifest != nil && logger != nil {
		logger.Info("manifest", "path", manifest.Path, "name", manifest.Name)
	}

	if entry == "" {
		if manifest == nil {
			fmt.Fprintf(os.Stderr, "newt run requires a source file (%s not found)\n", driver.ManifestName)
			return 1
		}
		entry, err = manifest.MainPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "manifest error: %v\n", err)
			return 1
		}
	}

	lock, err := loadLockfileForManifest(manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	program, err := driver.NewLoader(logger).Load(entry, lock)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load program: %v\n", err)
		return 1
	}
	if diags := program.Diagnostics(); len(diags) > 0 {
		printDiagnostics(diags)
		return 1
	}

	interp := interpreter.New(manifest.Options())
	if _, failed, err := program.Run(interp); err != nil {
		printDiagnostics([]driver.Diagnostic{driver.RuntimeDiagnostic(failed, err)})
		return 1
	}
	return 0
}

func printDiagnostics(diags []driver.Diagnostic) {
	for i, diag := range diags {
		if i > 0 {
			fmt.Fprintln(os.Stderr)
		}
		fmt.Fprint(os.Stderr, diag.Render())
	}
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	manifestPath, err := driver.FindManifest(start)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(manifestPath)
}

// loadLockfileForManifest returns nil when there is nothing to lock. A
// manifest with dependencies needs an up to date newt.lock.
func loadLockfileForManifest(manifest *driver.Manifest) (*driver.Lockfile, error) {
	if manifest == nil || len(manifest.Dependencies) == 0 {
		return nil, nil
	}
	lock, err := driver.LoadLockfile(manifest.LockfilePath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s missing; run `newt deps install`", driver.LockfileName)
		}
		return nil, fmt.Errorf("failed to read lockfile: %w", err)
	}
	if lock.Root != manifest.Name {
		return nil, fmt.Errorf("lockfile root %q does not match manifest name %q", lock.Root, manifest.Name)
	}
	for name := range manifest.Dependencies {
		if _, ok := lock.Find(name); !ok {
			return nil, fmt.Errorf("dependency %q is not locked; run `newt deps install`", name)
		}
	}
	return lock, nil
}

func readSource(args []string, command string) (string, string, bool) {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "newt %s requires exactly one source file\n", command)
		return "", "", false
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", args[0], err)
		return "", "", false
	}
	return args[0], string(data), true
}

func runTokens(args []string) int {
	_, text, ok := readSource(args, "tokens")
	if !ok {
		return 1
	}
	src := lexer.NewSource(text)
	for i := range src.Len() {
		tok := src.Token(i)
		fmt.Fprintf(os.Stdout, "%s %d '%s'\n", tok.Kind, tok.Len, syntax.EscapeLexeme(src.Lexeme(i)))
	}
	return 0
}

func runTree(args []string) int {
	fs := flag.NewFlagSet("tree", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asExpr := fs.Bool("expr", false, "parse the file as a single expression")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	name, text, ok := readSource(fs.Args(), "tree")
	if !ok {
		return 1
	}
	entry := parser.Program
	if *asExpr {
		entry = parser.Expression
	}
	tree, errs := parser.Parse(text, entry)
	fmt.Fprint(os.Stdout, tree.Display())
	if len(errs) > 0 {
		fmt.Fprint(os.Stderr, parser.Render(errs, name, text))
		return 1
	}
	return 0
}
