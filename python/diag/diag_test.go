package diag

import (
	"testing"

	"github.com/dhamidi/pyfront/python/token"
)

func TestParseSeverity(t *testing.T) {
	for _, sev := range []Severity{Ignore, Warning, Error, FatalError} {
		got, err := ParseSeverity(sev.String())
		if err != nil || got != sev {
			t.Errorf("ParseSeverity(%q) = %v, %v", sev.String(), got, err)
		}
	}
	var s Severity
	if err := s.UnmarshalText([]byte("WARNING")); err != nil || s != Warning {
		t.Errorf("UnmarshalText: got %v, %v", s, err)
	}
	if err := s.UnmarshalText([]byte("loud")); err == nil {
		t.Errorf("unknown severity was accepted")
	}
}

func TestSinks(t *testing.T) {
	var first, second []Diagnostic
	sink := Tee(NewCollectingSink(&first), nil, NewCollectingSink(&second), NullSink{})

	span := token.NewSpan(token.NewLocation(0, 1, 1), token.NewLocation(1, 1, 2))
	sink.Add("odd", span, CodeSyntax, Warning)
	sink.Add("bad", token.NoSpan, CodeIndentation, Error)

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("got %d and %d diagnostics, want 2 each", len(first), len(second))
	}
	if first[0].Message != "odd" || first[0].Span != span || first[0].Code != CodeSyntax {
		t.Errorf("got %+v", first[0])
	}
	if HasErrors(first[:1]) || !HasErrors(first) {
		t.Errorf("HasErrors is wrong for %+v", first)
	}
	if got := first[0].String(); got != "1:1: warning: odd" {
		t.Errorf("got %q", got)
	}
}
