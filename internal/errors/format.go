package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	red   = color.New(color.FgRed, color.Bold).SprintFunc()
	white = color.New(color.FgWhite, color.Bold).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	gray  = color.New(color.FgHiBlack).SprintFunc()
	arrow = color.New(color.FgRed).SprintFunc()
)

// DisableColors disables ANSI color output.
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables ANSI color output.
func EnableColors() {
	color.NoColor = false
}

// Format returns the error formatted for terminal display.
func (e *Error) Format() string {
	var b strings.Builder

	b.WriteString("\n")
	if e.Code != "" {
		b.WriteString(red("ERROR "))
		b.WriteString(white(e.Code + ": "))
	} else {
		b.WriteString(red("ERROR: "))
	}
	b.WriteString(e.Message)
	b.WriteString("\n\n")

	if e.Location != nil {
		b.WriteString("  ")
		b.WriteString(cyan(e.Location.String()))
		b.WriteString("\n\n")

		if len(e.Context) > 0 {
			startLine := e.Location.Line - len(e.Context)/2
			if startLine < 1 {
				startLine = 1
			}
			for i, line := range e.Context {
				lineNum := startLine + i
				if lineNum == e.Location.Line {
					b.WriteString("  ")
					b.WriteString(arrow("→ "))
					fmt.Fprintf(&b, "%4d", lineNum)
					b.WriteString(gray(" │ "))
					b.WriteString(line)
					b.WriteString("\n")

					if e.Location.Column > 0 {
						b.WriteString("       ")
						b.WriteString(gray("│ "))
						b.WriteString(strings.Repeat(" ", e.Location.Column-1))
						b.WriteString(arrow("^"))
						b.WriteString("\n")
					}
				} else {
					b.WriteString("    ")
					fmt.Fprintf(&b, "%4d", lineNum)
					b.WriteString(gray(" │ "))
					b.WriteString(line)
					b.WriteString("\n")
				}
			}
			b.WriteString("\n")
		}
	}

	if e.Detail != "" {
		for _, line := range wrapText(e.Detail, 70) {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if e.Wrapped != nil {
		b.WriteString("  ")
		b.WriteString(gray("Cause: "))
		b.WriteString(e.Wrapped.Error())
		b.WriteString("\n\n")
	}

	if e.Suggestion != "" {
		b.WriteString("  ")
		b.WriteString(cyan("Hint: "))
		b.WriteString(e.Suggestion)
		b.WriteString("\n\n")
	}

	if e.Example != "" {
		b.WriteString("  ")
		b.WriteString(cyan("Example:"))
		b.WriteString("\n")
		for _, line := range strings.Split(e.Example, "\n") {
			b.WriteString("    ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// FormatCompact returns a compact single-line error format.
func (e *Error) FormatCompact() string {
	var b strings.Builder

	if e.Location != nil {
		b.WriteString(e.Location.String())
		b.WriteString(": ")
	}
	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	return b.String()
}

type jsonLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

type jsonError struct {
	Code       string        `json:"code,omitempty"`
	Category   Category      `json:"category"`
	Message    string        `json:"message"`
	Detail     string        `json:"detail,omitempty"`
	Location   *jsonLocation `json:"location,omitempty"`
	Suggestion string        `json:"suggestion,omitempty"`
	Cause      string        `json:"cause,omitempty"`
}

// FormatJSON returns the error as a JSON object.
func (e *Error) FormatJSON() string {
	out := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Suggestion: e.Suggestion,
	}
	if e.Location != nil {
		out.Location = &jsonLocation{File: e.Location.File, Line: e.Location.Line, Column: e.Location.Column}
	}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}
	data, _ := json.Marshal(out)
	return string(data)
}

// wrapText wraps text to the specified width.
func wrapText(text string, width int) []string {
	if text == "" {
		return nil
	}
	if len(text) <= width {
		return []string{text}
	}

	var lines []string
	words := strings.Fields(text)
	var current strings.Builder

	for _, word := range words {
		if current.Len()+len(word)+1 > width {
			if current.Len() > 0 {
				lines = append(lines, current.String())
				current.Reset()
			}
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}

	if current.Len() > 0 {
		lines = append(lines, current.String())
	}

	return lines
}

// OutputFormat selects how Fprint renders an error.
type OutputFormat string

const (
	OutputPretty  OutputFormat = "pretty"
	OutputCompact OutputFormat = "compact"
	OutputJSON    OutputFormat = "json"
)

// ParseOutputFormat validates an output format name. The empty string
// means OutputPretty.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "", OutputPretty:
		return OutputPretty, nil
	case OutputCompact, OutputJSON:
		return OutputFormat(s), nil
	}
	return "", New("E140").
		WithDetail(fmt.Sprintf("unknown error format %q", s)).
		WithSuggestion("Use one of: pretty, compact, json")
}

// Fprint writes err to w, formatted when it is an *Error.
func Fprint(w io.Writer, err error) {
	FprintAs(w, err, OutputPretty)
}

// FprintAs writes err to w in the given format. Errors that are not an
// *Error are reported under the cli category. Unknown formats fall back to
// OutputPretty.
func FprintAs(w io.Writer, err error, format OutputFormat) {
	e, ok := err.(*Error)
	switch format {
	case OutputCompact, OutputJSON:
		if !ok {
			e = &Error{Category: CategoryCLI, Message: err.Error()}
		}
		if format == OutputJSON {
			fmt.Fprintln(w, e.FormatJSON())
		} else {
			fmt.Fprintln(w, e.FormatCompact())
		}
	default:
		if ok {
			fmt.Fprint(w, e.Format())
			return
		}
		fmt.Fprintf(w, "\n%s %s\n\n", red("ERROR:"), err.Error())
	}
}
