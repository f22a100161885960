package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"newt/interpreter-go/pkg/driver"
	"newt/interpreter-go/pkg/interpreter"
	"newt/interpreter-go/pkg/parser"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func captureCLI(t *testing.T, args []string) (int, string, string) {
	t.Helper()

	stdout := os.Stdout
	stderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("stdout pipe: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("stderr pipe: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	code := run(args)

	if err := wOut.Close(); err != nil {
		t.Fatalf("stdout close: %v", err)
	}
	if err := wErr.Close(); err != nil {
		t.Fatalf("stderr close: %v", err)
	}

	os.Stdout = stdout
	os.Stderr = stderr

	outBytes, err := io.ReadAll(rOut)
	if err != nil {
		t.Fatalf("stdout read: %v", err)
	}
	errBytes, err := io.ReadAll(rErr)
	if err != nil {
		t.Fatalf("stderr read: %v", err)
	}
	_ = rOut.Close()
	_ = rErr.Close()
	return code, string(outBytes), string(errBytes)
}

func TestVersion(t *testing.T) {
	code, stdout, _ := captureCLI(t, []string{"version"})
	if code != 0 || stdout != cliToolVersion+"\n" {
		t.Fatalf("version = %d %q", code, stdout)
	}
}

func TestUnknownCommand(t *testing.T) {
	code, _, stderr := captureCLI(t, []string{"frobnicate"})
	if code != 1 || !strings.Contains(stderr, `unknown command "frobnicate"`) {
		t.Fatalf("code %d stderr %q", code, stderr)
	}
}

func TestRunEntryDirectFileNoManifest(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "main.newt"), `
fn fib(n) {
  if n < 2 { return n; }
  return fib(n - 1) + fib(n - 2);
}
print("fib", fib(10));
`)
	code, stdout, stderr := captureCLI(t, []string{"run", "main.newt"})
	if code != 0 {
		t.Fatalf("exit %d, stderr:\n%s", code, stderr)
	}
	if stdout != "fib 55\n" {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestRunShortcutAcceptsSourceFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.newt")
	writeFile(t, path, `print("hi");`)
	code, stdout, stderr := captureCLI(t, []string{path})
	if code != 0 || stdout != "hi\n" {
		t.Fatalf("exit %d stdout %q stderr %q", code, stdout, stderr)
	}
}

func TestRunReportsParseErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.newt")
	writeFile(t, path, "let x = ;\nprint(x);\n")
	code, stdout, stderr := captureCLI(t, []string{"run", path})
	if code != 1 {
		t.Fatalf("exit %d", code)
	}
	if stdout != "" {
		t.Fatalf("program ran despite parse errors: %q", stdout)
	}
	if !strings.HasPrefix(stderr, "PARSE ERROR in "+path+" at 1:9: expected expression") {
		t.Fatalf("stderr:\n%s", stderr)
	}
}

func TestRunReportsRuntimeErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "div.newt")
	writeFile(t, path, "print(1);\nlet z = 1 / 0;\nprint(2);\n")
	code, stdout, stderr := captureCLI(t, []string{"run", path})
	if code != 1 {
		t.Fatalf("exit %d", code)
	}
	if stdout != "1\n" {
		t.Fatalf("stdout = %q", stdout)
	}
	if !strings.HasPrefix(stderr, "RUNTIME ERROR in "+path+" at 2:11: division by zero") {
		t.Fatalf("stderr:\n%s", stderr)
	}
}

func TestRunManifestWithDependencies(t *testing.T) {
	root := t.TempDir()
	t.Setenv(driver.HomeEnv, filepath.Join(root, "home"))
	app := filepath.Join(root, "app")
	writeFile(t, filepath.Join(root, "greet", "greet.newt"), `fn greet(who) { return "hello " + who; }`)
	writeFile(t, filepath.Join(app, driver.ManifestName), "name: app\nmain: src/main.newt\ndependencies:\n  greet: ../greet\n")
	writeFile(t, filepath.Join(app, "src", "main.newt"), `print(greet("newt"));`)
	t.Chdir(app)

	code, _, stderr := captureCLI(t, []string{"run"})
	if code != 1 || !strings.Contains(stderr, "newt.lock missing") {
		t.Fatalf("expected missing lockfile error, got %d %q", code, stderr)
	}

	code, stdout, stderr := captureCLI(t, []string{"deps", "install"})
	if code != 0 {
		t.Fatalf("deps install exit %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(stdout, "Created newt.lock") || !strings.Contains(stdout, "greet path (path:../greet)") {
		t.Fatalf("deps install stdout:\n%s", stdout)
	}
	if _, err := os.Stat(filepath.Join(app, driver.LockfileName)); err != nil {
		t.Fatalf("lockfile not written: %v", err)
	}

	code, stdout, _ = captureCLI(t, []string{"deps", "install"})
	if code != 0 || !strings.Contains(stdout, "newt.lock already up to date") {
		t.Fatalf("second install: %d\n%s", code, stdout)
	}

	code, stdout, stderr = captureCLI(t, []string{"run"})
	if code != 0 {
		t.Fatalf("run exit %d, stderr:\n%s", code, stderr)
	}
	if stdout != "hello newt\n" {
		t.Fatalf("stdout = %q", stdout)
	}
}

func TestRunManifestInterpreterSettings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, driver.ManifestName), "name: deep\nmain: main.newt\ninterpreter:\n  max_call_depth: 8\n")
	writeFile(t, filepath.Join(dir, "main.newt"), "fn down(n) { if n == 0 { return 0; } return down(n - 1); }\ndown(20);\n")
	t.Chdir(dir)
	code, _, stderr := captureCLI(t, []string{"run"})
	if code != 1 || !strings.Contains(stderr, "call depth exceeded") {
		t.Fatalf("exit %d stderr %q", code, stderr)
	}
}

func TestTokens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.newt")
	writeFile(t, path, "1+ 'a'")
	code, stdout, _ := captureCLI(t, []string{"tokens", path})
	want := "IntLiteral 1 '1'\nPlus 1 '+'\nWhitespace 1 ' '\nGlyphLiteral 3 '\\'a\\''\nEOF 0 ''\n"
	if code != 0 || stdout != want {
		t.Fatalf("tokens = %d\n%s\nwant\n%s", code, stdout, want)
	}
}

func TestTreeExpression(t *testing.T) {
	path := filepath.Join(t.TempDir(), "e.newt")
	writeFile(t, path, "-x")
	code, stdout, _ := captureCLI(t, []string{"tree", "-expr", path})
	want := strings.Join([]string{
		"[0..2) ExprRoot",
		"  [0..2) UnaryExpr",
		"    [0..1) Minus '-'",
		"    [1..2) VariableExpr",
		"      [1..2) Identifier 'x'",
		"",
	}, "\n")
	if code != 0 || stdout != want {
		t.Fatalf("tree = %d\n%s\nwant\n%s", code, stdout, want)
	}
}

func TestTreeWithErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "e.newt")
	writeFile(t, path, "let = 1;")
	code, stdout, stderr := captureCLI(t, []string{"tree", path})
	if code != 1 || !strings.HasPrefix(stdout, "[0..8) Program\n") || !strings.Contains(stderr, "PARSE ERROR") {
		t.Fatalf("exit %d stdout %q stderr %q", code, stdout, stderr)
	}
}

func newTestSession() (*session, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return newSession(interpreter.Options{}, &out, &errOut), &out, &errOut
}

func TestSessionPersistsBindings(t *testing.T) {
	sess, out, errOut := newTestSession()
	for _, line := range []string{"let x = 40", "fn add(a, b) { return a + b; }", "add(x, 2)", "x = 1;", "x"} {
		if !sess.feed(line) {
			t.Fatalf("%q reported incomplete", line)
		}
	}
	if errOut.Len() > 0 {
		t.Fatalf("stderr: %s", errOut.String())
	}
	if out.String() != "42\n1\n" {
		t.Fatalf("stdout = %q", out.String())
	}
}

func TestSessionWaitsForIncompleteInput(t *testing.T) {
	sess, out, _ := newTestSession()
	for _, src := range []string{"fn f() {", "if true { print(1);", `let s = "abc`, "1 +"} {
		if sess.feed(src) {
			t.Fatalf("%q should need more input", src)
		}
	}
	if !sess.feed("fn f() {\n  return 7;\n}") || !sess.feed("f()") {
		t.Fatalf("completed input rejected")
	}
	if out.String() != "7\n" {
		t.Fatalf("stdout = %q", out.String())
	}
}

func TestSessionReportsErrors(t *testing.T) {
	sess, out, errOut := newTestSession()
	if !sess.feed("let = 3;") {
		t.Fatalf("malformed input reported incomplete")
	}
	if !strings.HasPrefix(errOut.String(), "PARSE ERROR at 1:5:") {
		t.Fatalf("parse stderr %q", errOut.String())
	}
	errOut.Reset()
	sess.feed("missing + 1")
	if !strings.HasPrefix(errOut.String(), "RUNTIME ERROR at 1:1: undefined variable") {
		t.Fatalf("runtime stderr %q", errOut.String())
	}
	errOut.Reset()
	sess.feed("print(null)")
	if out.String() != "null\n" || errOut.Len() != 0 {
		t.Fatalf("stdout %q stderr %q", out.String(), errOut.String())
	}
}

func TestIncomplete(t *testing.T) {
	src := "let x = (1"
	_, errs := parser.Parse(src, parser.Program)
	if !incomplete(src, errs) {
		t.Fatalf("expected %q to be incomplete: %v", src, errs)
	}
	src = "let x = ) 1"
	_, errs = parser.Parse(src, parser.Program)
	if incomplete(src, errs) {
		t.Fatalf("expected %q to be a hard error", src)
	}
	if incomplete("", nil) {
		t.Fatalf("no errors is not incomplete")
	}
}
