// Package diag carries the diagnostics produced while tokenizing and
// parsing: severities, records and the sinks that receive them.
package diag

import (
	"fmt"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/pyfront/python/token"
)

// Severity grades a diagnostic.
type Severity int

const (
	Ignore Severity = iota
	Warning
	Error
	FatalError
)

var severityNames = map[Severity]string{
	Ignore:     "ignore",
	Warning:    "warning",
	Error:      "error",
	FatalError: "fatal",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseSeverity accepts the names printed by String.
func ParseSeverity(s string) (Severity, error) {
	for sev, name := range severityNames {
		if strings.EqualFold(name, s) {
			return sev, nil
		}
	}
	return Ignore, fmt.Errorf("unknown severity %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	sev, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Error codes attached to diagnostics.
const (
	CodeSyntax          = 1
	CodeIncompleteToken = 2
	CodeIndentation     = 3
	CodeTab             = 4
	CodeEncoding        = 5
	CodeVersion         = 6
	CodeContext         = 7
)

// Diagnostic is one reported problem.
type Diagnostic struct {
	Message  string
	Span     token.SourceSpan
	Code     int
	Severity Severity
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%v: %s: %s", d.Span.Start, d.Severity, d.Message)
}

// ErrorSink receives diagnostics.
type ErrorSink interface {
	Add(message string, span token.SourceSpan, code int, severity Severity)
}

// NullSink drops everything.
type NullSink struct{}

func (NullSink) Add(string, token.SourceSpan, int, Severity) {}

// CollectingSink appends to a caller-owned slice.
type CollectingSink struct {
	list *[]Diagnostic
}

// NewCollectingSink returns a sink appending to *list.
func NewCollectingSink(list *[]Diagnostic) *CollectingSink {
	return &CollectingSink{list: list}
}

func (s *CollectingSink) Add(message string, span token.SourceSpan, code int, severity Severity) {
	*s.list = append(*s.list, Diagnostic{Message: message, Span: span, Code: code, Severity: severity})
}

// Diagnostics returns the collected list.
func (s *CollectingSink) Diagnostics() []Diagnostic {
	return *s.list
}

// LogSink writes each diagnostic to a commonlog logger.
type LogSink struct {
	Log  commonlog.Logger
	Name string
}

func (s LogSink) Add(message string, span token.SourceSpan, code int, severity Severity) {
	switch severity {
	case Ignore:
		s.Log.Debugf("%s:%v: %s", s.Name, span.Start, message)
	case Warning:
		s.Log.Warningf("%s:%v: %s", s.Name, span.Start, message)
	default:
		s.Log.Errorf("%s:%v: %s (code %d)", s.Name, span.Start, message, code)
	}
}

// Tee forwards every diagnostic to each sink in order.
func Tee(sinks ...ErrorSink) ErrorSink {
	return teeSink(sinks)
}

type teeSink []ErrorSink

func (t teeSink) Add(message string, span token.SourceSpan, code int, severity Severity) {
	for _, s := range t {
		if s != nil {
			s.Add(message, span, code, severity)
		}
	}
}

// HasErrors reports whether any diagnostic is an error or worse.
func HasErrors(list []Diagnostic) bool {
	for _, d := range list {
		if d.Severity >= Error {
			return true
		}
	}
	return false
}
