package driver

import (
	"errors"
	"fmt"
	"strings"

	"newt/interpreter-go/pkg/parser"
	"newt/interpreter-go/pkg/runtime"
)

// DiagnosticStage says which phase produced a diagnostic.
type DiagnosticStage string

const (
	StageParse   DiagnosticStage = "parse"
	StageRuntime DiagnosticStage = "runtime"
)

// DiagnosticLocation references a source span for diagnostics. Offset is -1
// when the span is unknown.
type DiagnosticLocation struct {
	Path   string
	Line   int
	Column int
	Offset int
	Len    int
}

// Diagnostic is a parse or runtime failure tied to the unit it came from.
type Diagnostic struct {
	Stage    DiagnosticStage
	Message  string
	Location DiagnosticLocation

	source string
}

// ParseDiagnostics converts the parse errors of u.
func ParseDiagnostics(u *Unit) []Diagnostic {
	diags := make([]Diagnostic, 0, len(u.Errors))
	for _, err := range u.Errors {
		diags = append(diags, newDiagnostic(StageParse, u, err.Error(), err.Offset, err.Len))
	}
	return diags
}

// RuntimeDiagnostic converts an error returned while running u.
func RuntimeDiagnostic(u *Unit, err error) Diagnostic {
	offset, length := -1, 0
	var rerr *runtime.Error
	if errors.As(err, &rerr) && rerr.Offset >= 0 {
		offset, length = rerr.Offset, 1
	}
	return newDiagnostic(StageRuntime, u, err.Error(), offset, length)
}

func newDiagnostic(stage DiagnosticStage, u *Unit, msg string, offset, length int) Diagnostic {
	loc := DiagnosticLocation{Path: u.Path, Offset: offset, Len: length}
	if offset >= 0 {
		loc.Line, loc.Column = parser.Position(u.Source, offset)
	}
	return Diagnostic{Stage: stage, Message: msg, Location: loc, source: u.Source}
}

// Describe formats a diagnostic on a single line for CLI output.
func (d Diagnostic) Describe() string {
	message := strings.TrimSpace(d.Message)
	prefix := string(d.Stage) + " error: "
	if location := formatDiagnosticLocation(d.Location); location != "" {
		return fmt.Sprintf("%s%s %s", prefix, location, message)
	}
	return prefix + message
}

// Render formats a diagnostic with a source snippet, falling back to
// Describe when the location is unknown.
func (d Diagnostic) Render() string {
	if d.Location.Offset < 0 {
		return d.Describe() + "\n"
	}
	header := strings.ToUpper(string(d.Stage)) + " ERROR"
	return parser.Snippet(header, d.Location.Path, d.source, d.Location.Offset, d.Location.Len, d.Message)
}

func formatDiagnosticLocation(loc DiagnosticLocation) string {
	path := strings.TrimSpace(loc.Path)
	switch {
	case path != "" && loc.Line > 0 && loc.Column > 0:
		return fmt.Sprintf("%s:%d:%d", path, loc.Line, loc.Column)
	case path != "":
		return path
	case loc.Line > 0 && loc.Column > 0:
		return fmt.Sprintf("line %d, column %d", loc.Line, loc.Column)
	default:
		return ""
	}
}
