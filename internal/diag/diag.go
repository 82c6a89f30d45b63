// Package diag is the process-wide diagnostic reporter shared by the
// lexer, parser and type checker.
//
// Uses a structured diagnostic type (the source token plus a rendered
// "origin: file:line:column: message" line) and a small process-wide logger
// configuration struct set once at startup, not a monkey-patched
// global.
package diag

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"sn/internal/token"
)

// Level is the process-wide verbosity threshold, set once at startup.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

var currentLevel = LevelError

// Init sets the process-wide debug level. Call once at startup.
func Init(l Level) { currentLevel = l }

// CurrentLevel returns the process-wide debug level.
func CurrentLevel() Level { return currentLevel }

// Origin classifies where a diagnostic came from.
type Origin string

const (
	LexOrigin        Origin = "lex"
	ParseOrigin      Origin = "parse"
	ResolutionOrigin Origin = "resolution"
	TypeOrigin       Origin = "type"
)

// Diagnostic is one collected error: the source token it points at
// plus where in the pipeline it was raised.
type Diagnostic struct {
	Origin  Origin
	Message string
	Tok     token.Token
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s:%d:%d: %s", d.Origin, d.Tok.Filename, d.Tok.Line, d.Tok.Column, d.Message)
}

// Reporter collects diagnostics across one compile pass without
// stopping at the first one.
type Reporter struct {
	diagnostics []Diagnostic
	colorize    bool
}

// NewReporter builds a Reporter that colorizes its rendered output only
// when stderr is a real terminal, the canonical use of go-isatty.
func NewReporter() *Reporter {
	return &Reporter{colorize: isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())}
}

// Report records a diagnostic and, if the current level permits it,
// writes a human-readable line to stderr.
func (r *Reporter) Report(origin Origin, message string, tok token.Token) {
	d := Diagnostic{Origin: origin, Message: message, Tok: tok}
	r.diagnostics = append(r.diagnostics, d)
	if currentLevel >= LevelError {
		fmt.Fprintln(os.Stderr, r.render(d))
	}
}

func (r *Reporter) render(d Diagnostic) string {
	if !r.colorize {
		return d.Error()
	}
	const red = "\x1b[31m"
	const reset = "\x1b[0m"
	return red + string(d.Origin) + reset + ": " + d.Tok.Filename + ":" +
		fmt.Sprint(d.Tok.Line) + ":" + fmt.Sprint(d.Tok.Column) + ": " + d.Message
}

// HasErrors reports whether any diagnostic has been recorded.
func (r *Reporter) HasErrors() bool { return len(r.diagnostics) > 0 }

// Diagnostics returns every diagnostic recorded so far.
func (r *Reporter) Diagnostics() []Diagnostic { return r.diagnostics }

// Summary renders every diagnostic, one per line.
func (r *Reporter) Summary() string {
	var sb strings.Builder
	for _, d := range r.diagnostics {
		sb.WriteString(d.Error())
		sb.WriteByte('\n')
	}
	return sb.String()
}
