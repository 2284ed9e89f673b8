package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"gusket/internal/common"
	"gusket/internal/diagnostic"
)

// reporter renders diagnostics with the offending source line and a caret:
//
//	model.go:12:10: error[UnsupportedDirective]: unknown directive "imut"
//	   12 | //gusket:imut
//	      |          ^
//	      = help: did you mean immut?
type reporter struct {
	w     io.Writer
	wd    string
	lines map[string][]string
	read  func(string) ([]byte, error)

	errorColor *color.Color
	warnColor  *color.Color
	infoColor  *color.Color
	codeColor  *color.Color
	caretColor *color.Color
	helpColor  *color.Color
	gutter     *color.Color
}

func newReporter(w io.Writer) *reporter {
	wd, _ := os.Getwd()

	return &reporter{
		w:          w,
		wd:         wd,
		lines:      make(map[string][]string),
		read:       os.ReadFile,
		errorColor: color.New(color.FgRed, color.Bold),
		warnColor:  color.New(color.FgYellow, color.Bold),
		infoColor:  color.New(color.FgBlue, color.Bold),
		codeColor:  color.New(color.Bold),
		caretColor: color.New(color.FgRed, color.Bold),
		helpColor:  color.New(color.FgCyan),
		gutter:     color.New(color.FgBlue),
	}
}

// Print writes every diagnostic, errors first, then a one-line summary.
func (r *reporter) Print(diags diagnostic.Diagnostics) {
	all := make([]diagnostic.Diagnostic, 0, len(diags.Errors)+len(diags.Warnings)+len(diags.Infos))
	all = append(all, diags.Errors...)
	all = append(all, diags.Warnings...)
	all = append(all, diags.Infos...)

	for _, d := range all {
		r.print(d)
	}

	if n := len(diags.Errors); n > 0 {
		noun := "errors"
		if common.IsSingle(diags.Errors) {
			noun = "error"
		}

		fmt.Fprintln(r.w, r.errorColor.Sprintf("%d %s", n, noun))
	}
}

func (r *reporter) print(d diagnostic.Diagnostic) {
	sev := r.severityColor(d.Severity).Sprintf("%s[%s]", d.Severity, d.Code)

	var subject string

	switch {
	case d.Record != "" && d.Field != "":
		subject = d.Record + "." + d.Field + ": "
	case d.Record != "":
		subject = d.Record + ": "
	}

	if loc := r.location(d); loc != "" {
		fmt.Fprintf(r.w, "%s: %s: %s%s\n", loc, sev, subject, r.codeColor.Sprint(d.Message))
	} else {
		fmt.Fprintf(r.w, "%s: %s%s\n", sev, subject, r.codeColor.Sprint(d.Message))
	}

	width := 0

	if line, ok := r.sourceLine(d); ok {
		num := fmt.Sprint(d.Pos.Line)
		width = len(num)

		fmt.Fprintf(r.w, " %s %s\n", r.gutter.Sprint(num+" |"), line)

		if d.Pos.Column > 0 {
			fmt.Fprintf(r.w, " %s %s%s\n",
				r.gutter.Sprint(strings.Repeat(" ", width)+" |"),
				caretPadding(line, d.Pos.Column),
				r.caretColor.Sprint("^"))
		}
	}

	if len(d.Suggestions) > 0 {
		fmt.Fprintf(r.w, " %s %s\n",
			r.gutter.Sprint(strings.Repeat(" ", width)+" ="),
			r.helpColor.Sprintf("help: did you mean %s?", strings.Join(d.Suggestions, " or ")))
	}
}

func (r *reporter) severityColor(s diagnostic.DiagnosticSeverity) *color.Color {
	switch s {
	case diagnostic.DiagnosticError:
		return r.errorColor
	case diagnostic.DiagnosticWarning:
		return r.warnColor
	default:
		return r.infoColor
	}
}

// location renders file:line:col relative to the working directory.
func (r *reporter) location(d diagnostic.Diagnostic) string {
	if d.Pos.Filename == "" {
		return ""
	}

	name := d.Pos.Filename
	if rel, err := filepath.Rel(r.wd, name); err == nil && !strings.HasPrefix(rel, "..") {
		name = rel
	}

	switch {
	case d.Pos.Line > 0 && d.Pos.Column > 0:
		return fmt.Sprintf("%s:%d:%d", name, d.Pos.Line, d.Pos.Column)
	case d.Pos.Line > 0:
		return fmt.Sprintf("%s:%d", name, d.Pos.Line)
	default:
		return name
	}
}

// sourceLine returns the line d points at, if the file can be read.
func (r *reporter) sourceLine(d diagnostic.Diagnostic) (string, bool) {
	if d.Pos.Filename == "" || d.Pos.Line <= 0 {
		return "", false
	}

	lines, ok := r.lines[d.Pos.Filename]
	if !ok {
		data, err := r.read(d.Pos.Filename)
		if err == nil {
			lines = strings.Split(string(data), "\n")
		}

		r.lines[d.Pos.Filename] = lines
	}

	if d.Pos.Line > len(lines) {
		return "", false
	}

	return strings.TrimRight(lines[d.Pos.Line-1], "\r"), true
}

// caretPadding returns the whitespace that puts a caret under the given
// 1-based byte column, keeping tabs so the caret lines up with the source.
func caretPadding(line string, column int) string {
	n := min(column-1, len(line))

	var sb strings.Builder

	for _, c := range line[:n] {
		if c == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
	}

	return sb.String()
}
