// Package report defines types for diagnostics (errors and warnings) and the
// report structure used to collect and present the result of checking a form.
package report

import "fmt"

// Severity indicates whether a finding is an error or a warning.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// String returns "error" or "warning".
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler so JSON output uses the string form.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler for JSON round-tripping.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// Location identifies where in a form document a finding occurred.
type Location struct {
	File   string `json:"file"`
	Path   string `json:"path,omitempty"` // JSON pointer into the document, schema findings only
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// String renders the location as file:line:col, omitting unknown parts.
func (l Location) String() string {
	s := l.File
	if l.Line > 0 {
		s = fmt.Sprintf("%s:%d:%d", s, l.Line, l.Column)
	}
	if l.Path != "" {
		s += " " + l.Path
	}
	return s
}

// Finding represents a single diagnostic. Besides the rendered Message it
// carries kind-specific payload fields so a consumer can build its own
// message without re-inspecting the form.
type Finding struct {
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Location Location `json:"location"`

	Name     string    `json:"name,omitempty"`     // question id or rendered operand expression
	Operator string    `json:"operator,omitempty"` // operator label, e.g. "Addition"
	Expected string    `json:"expected,omitempty"` // declared type
	Actual   string    `json:"actual,omitempty"`   // computed type
	Left     string    `json:"left,omitempty"`     // left operand type
	Right    string    `json:"right,omitempty"`    // right operand type
	Cycle    []string  `json:"cycle,omitempty"`    // question ids, first repeated last
	Related  *Location `json:"related,omitempty"`  // e.g. the first declaration of a duplicate
}

// NewFinding creates a Finding with the given parameters.
func NewFinding(kind Kind, severity Severity, message string, loc Location) Finding {
	return Finding{
		Kind:     kind,
		Severity: severity,
		Message:  message,
		Location: loc,
	}
}

// NewError creates an error-severity Finding.
func NewError(kind Kind, message string, loc Location) Finding {
	return NewFinding(kind, SeverityError, message, loc)
}

// NewWarning creates a warning-severity Finding.
func NewWarning(kind Kind, message string, loc Location) Finding {
	return NewFinding(kind, SeverityWarning, message, loc)
}

// ErrorList is an ordered, append-only sequence of findings produced by one
// analysis phase. It is threaded through recursive checks by value:
//
//	findings = findings.Add(f)
type ErrorList []Finding

// Add appends f and returns the extended list.
func (l ErrorList) Add(f Finding) ErrorList {
	return append(l, f)
}

// HasErrors reports whether the list is non-empty. Analysis phases only
// record error-severity findings, so any entry rejects the form.
func (l ErrorList) HasErrors() bool {
	return len(l) > 0
}

// OfKind returns the findings of the given kind, in order.
func (l ErrorList) OfKind(kind Kind) ErrorList {
	var out ErrorList
	for _, f := range l {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// Summary holds aggregate counts for a report.
type Summary struct {
	ErrorCount   int `json:"error_count"`
	WarningCount int `json:"warning_count"`
}

// Report collects all findings for a single form document.
type Report struct {
	File        string    `json:"file"`
	SchemaValid bool      `json:"schema_valid"`
	Errors      []Finding `json:"errors"`
	Warnings    []Finding `json:"warnings"`
	Summary     Summary   `json:"summary"`
}

// NewReport creates a Report for the given file with empty finding slices.
func NewReport(file string) *Report {
	return &Report{
		File:     file,
		Errors:   []Finding{},
		Warnings: []Finding{},
	}
}

// AddFinding appends a finding to the appropriate slice (Errors or Warnings)
// and updates the summary counts.
func (r *Report) AddFinding(f Finding) {
	switch f.Severity {
	case SeverityError:
		r.Errors = append(r.Errors, f)
		r.Summary.ErrorCount++
	case SeverityWarning:
		r.Warnings = append(r.Warnings, f)
		r.Summary.WarningCount++
	}
}

// AddFindings adds every finding of l in order.
func (r *Report) AddFindings(l ErrorList) {
	for _, f := range l {
		r.AddFinding(f)
	}
}

// HasErrors returns true if the report contains any error-severity findings.
// A form must not be rendered while this is true.
func (r *Report) HasErrors() bool {
	return r.Summary.ErrorCount > 0
}

// HasWarnings returns true if the report contains any warning-severity findings.
func (r *Report) HasWarnings() bool {
	return r.Summary.WarningCount > 0
}
