package report

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// FormatText returns a human-readable string representation of the report.
// Each finding is on its own line with kind, severity, message, and location.
// A summary line is appended at the end.
func FormatText(r *Report) string {
	return formatText(r, plainStyle)
}

// FormatColorText is FormatText with ANSI colors: errors red, warnings
// yellow, kinds and the file header bold. Colors are emitted even when
// stdout is not a terminal; callers decide whether to use it.
func FormatColorText(r *Report) string {
	return formatText(r, newColorStyle())
}

type style struct {
	header   func(a ...any) string
	kind     func(a ...any) string
	severity map[Severity]func(a ...any) string
}

var plainStyle = style{
	header: fmt.Sprint,
	kind:   fmt.Sprint,
	severity: map[Severity]func(a ...any) string{
		SeverityError:   fmt.Sprint,
		SeverityWarning: fmt.Sprint,
	},
}

func newColorStyle() style {
	c := func(attrs ...color.Attribute) func(a ...any) string {
		col := color.New(attrs...)
		col.EnableColor()
		return col.SprintFunc()
	}
	return style{
		header: c(color.Bold),
		kind:   c(color.Bold),
		severity: map[Severity]func(a ...any) string{
			SeverityError:   c(color.FgRed, color.Bold),
			SeverityWarning: c(color.FgYellow),
		},
	}
}

func formatText(r *Report, st style) string {
	var b strings.Builder

	fmt.Fprintf(&b, "File: %s\n", st.header(r.File))

	for _, f := range r.Errors {
		writeFinding(&b, f, st)
	}
	for _, f := range r.Warnings {
		writeFinding(&b, f, st)
	}

	fmt.Fprintf(&b, "\n%d errors, %d warnings\n", r.Summary.ErrorCount, r.Summary.WarningCount)
	return b.String()
}

func writeFinding(b *strings.Builder, f Finding, st style) {
	sev := fmt.Sprint
	if fn, ok := st.severity[f.Severity]; ok {
		sev = fn
	}
	fmt.Fprintf(b, "  [%s] %s: %s at %s\n", st.kind(string(f.Kind)), sev(f.Severity.String()), f.Message, f.Location)
	if f.Related != nil {
		fmt.Fprintf(b, "      see %s\n", *f.Related)
	}
}
