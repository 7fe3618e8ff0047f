package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ANSI escape sequences.
const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiRed   = "\033[31m"
	ansiBlue  = "\033[34m"
	ansiCyan  = "\033[36m"
	ansiGray  = "\033[90m"
)

// colorEnabled controls whether Format emits ANSI colors. NO_COLOR turns
// them off at startup.
var colorEnabled = os.Getenv("NO_COLOR") == ""

// SetColor enables or disables ANSI colors in Format.
func SetColor(enabled bool) {
	colorEnabled = enabled
}

func paint(text string, codes ...string) string {
	if !colorEnabled || len(codes) == 0 {
		return text
	}
	return strings.Join(codes, "") + text + ansiReset
}

// detailWidth is the column Format wraps detail text at.
const detailWidth = 70

// Format renders the error for a terminal: a header line, the node and its
// path, the wrapped cause, the detail, a hint and the documentation link.
func (e *Error) Format() string {
	var b strings.Builder

	b.WriteString("\n")
	header := "ERROR"
	if e.Code != "" {
		header += " " + e.Code
	}
	fmt.Fprintf(&b, "%s %s\n\n", paint(header+":", ansiRed, ansiBold), paint(e.Message, ansiBold))

	indent := func(label, value string) {
		fmt.Fprintf(&b, "  %s %s\n", paint(label, ansiGray), value)
	}
	if e.Node != "" {
		indent("node:", paint(e.Node, ansiCyan))
		if len(e.Path) > 0 {
			indent("path:", strings.Join(e.Path, paint(" › ", ansiGray)))
		}
		b.WriteString("\n")
	}
	if e.Wrapped != nil {
		indent("cause:", e.Wrapped.Error())
		b.WriteString("\n")
	}

	if lines := wrapText(e.Detail, detailWidth); len(lines) > 0 {
		for _, line := range lines {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("\n")
	}

	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s %s\n\n", paint("Hint:", ansiCyan), e.Suggestion)
	}
	if e.DocURL != "" {
		indent("Learn more:", paint(e.DocURL, ansiBlue))
	}

	return b.String()
}

// jsonError is the wire shape of an Error.
type jsonError struct {
	Code       string   `json:"code,omitempty"`
	Category   Category `json:"category"`
	Message    string   `json:"message"`
	Detail     string   `json:"detail,omitempty"`
	Node       string   `json:"node,omitempty"`
	Path       []string `json:"path,omitempty"`
	Cause      string   `json:"cause,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	DocURL     string   `json:"docUrl,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (e *Error) MarshalJSON() ([]byte, error) {
	je := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Node:       e.Node,
		Path:       e.Path,
		Suggestion: e.Suggestion,
		DocURL:     e.DocURL,
	}
	if e.Wrapped != nil {
		je.Cause = e.Wrapped.Error()
	}
	return json.Marshal(je)
}

// wrapText splits text into lines of at most width columns, breaking on
// spaces. A single word longer than width gets its own line.
func wrapText(text string, width int) []string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// Fprint writes err to w, formatted for a terminal or as one JSON object
// per line. Errors without a code are wrapped so they render the same way.
func Fprint(w io.Writer, err error, asJSON bool) {
	var e *Error
	if !stderrors.As(err, &e) {
		e = &Error{Message: err.Error()}
	}
	if !asJSON {
		fmt.Fprint(w, e.Format())
		return
	}
	data, mErr := json.Marshal(e)
	if mErr != nil {
		fmt.Fprintf(w, "{\"message\":%q}\n", err.Error())
		return
	}
	fmt.Fprintf(w, "%s\n", data)
}
