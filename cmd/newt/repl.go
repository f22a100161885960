package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"newt/interpreter-go/pkg/driver"
	"newt/interpreter-go/pkg/interpreter"
	"newt/interpreter-go/pkg/parser"
	"newt/interpreter-go/pkg/runtime"
	"newt/interpreter-go/pkg/syntax"
)

const (
	historyFile = "history"
	promptMain  = "newt> "
	promptCont  = "  ... "
)

func runRepl(args []string, logger *slog.Logger) int {
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "newt repl does not take arguments (received %s)\n", strings.Join(args, " "))
		return 1
	}
	opts := interpreter.Options{}
	if manifest, err := loadManifestFrom("."); err == nil {
		opts = manifest.Options()
	}
	sess := newSession(opts, os.Stdout, os.Stderr)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if home, err := driver.ResolveHome(); err == nil {
		histPath := filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if err := os.MkdirAll(home, 0o755); err != nil {
				return
			}
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	} else if logger != nil {
		logger.Warn("history disabled", "err", err)
	}

	fmt.Fprintf(os.Stdout, "%s (:quit to exit)\n", cliToolVersion)
	var pending strings.Builder
	for {
		prompt := promptMain
		if pending.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			pending.Reset()
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stdout)
			return 0
		}
		if pending.Len() == 0 && strings.TrimSpace(line) == ":quit" {
			return 0
		}
		if pending.Len() > 0 {
			pending.WriteByte('\n')
		}
		pending.WriteString(line)
		if !sess.feed(pending.String()) {
			continue
		}
		if src := strings.TrimSpace(pending.String()); src != "" {
			ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		}
		pending.Reset()
	}
}

// session evaluates REPL input against one interpreter, so bindings persist
// between entries.
type session struct {
	interp *interpreter.Interpreter
	out    io.Writer
	errOut io.Writer
}

func newSession(opts interpreter.Options, out, errOut io.Writer) *session {
	opts.Stdout = out
	return &session{interp: interpreter.New(opts), out: out, errOut: errOut}
}

// feed evaluates src and reports false when src is an unfinished program
// that needs more lines. Input is tried as an expression, then as a
// program, then as a program missing its final ';'.
func (s *session) feed(src string) bool {
	if strings.TrimSpace(src) == "" {
		return true
	}
	if tree, errs := parser.Parse(src, parser.Expression); len(errs) == 0 {
		s.eval(tree, src)
		return true
	}
	tree, errs := parser.Parse(src, parser.Program)
	if len(errs) == 0 {
		s.eval(tree, src)
		return true
	}
	if patched, perrs := parser.Parse(src+";", parser.Program); len(perrs) == 0 {
		s.eval(patched, src)
		return true
	}
	if incomplete(src, errs) {
		return false
	}
	fmt.Fprint(s.errOut, parser.Render(errs, "", src))
	return true
}

func (s *session) eval(tree *syntax.Tree, src string) {
	v, err := s.interp.Interpret(tree)
	s.report(v, err, src)
}

// incomplete reports whether every error sits at the end of src and would
// go away with more input.
func incomplete(src string, errs []parser.ParseError) bool {
	for _, err := range errs {
		switch {
		case err.Kind == parser.MissingSyntax && err.Offset >= len(src):
		case err.Kind == parser.InvalidToken && err.Offset+err.Len == len(src) && strings.HasPrefix(err.Message, "unterminated"):
		default:
			return false
		}
	}
	return len(errs) > 0
}

func (s *session) report(v runtime.Value, err error, src string) {
	if err != nil {
		unit := &driver.Unit{Source: src}
		fmt.Fprint(s.errOut, driver.RuntimeDiagnostic(unit, err).Render())
		return
	}
	if v == nil {
		return
	}
	if _, isNull := v.(runtime.NullValue); isNull {
		return
	}
	fmt.Fprintln(s.out, runtime.Inspect(v))
}
