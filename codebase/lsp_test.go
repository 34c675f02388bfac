package codebase

import (
	"testing"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/pyfront/python/diag"
	"github.com/dhamidi/pyfront/python/parser"
	"github.com/dhamidi/pyfront/python/token"
)

func TestToPosition(t *testing.T) {
	source := "s = 'é𝄞' + x\n"
	tests := []struct {
		name   string
		offset int
		want   uint32
	}{
		{"line start", 0, 0},
		{"ascii", 4, 4},
		{"after two-byte rune", 7, 6},
		{"after astral rune", 11, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := token.SourceLocation{Index: tt.offset, Line: 1, Column: tt.offset + 1}
			got := toPosition(source, loc)
			if got.Line != 0 || got.Character != tt.want {
				t.Errorf("got %d:%d, want 0:%d", got.Line, got.Character, tt.want)
			}
		})
	}
}

func TestToDiagnostics(t *testing.T) {
	src := "x = (1\n"
	tree, diags := parser.ParseString(src)
	if len(diags) == 0 {
		t.Fatal("expected diagnostics")
	}
	diags = append(diags, diag.Diagnostic{Message: "quiet", Span: token.NoSpan, Severity: diag.Ignore})

	got := toDiagnostics(tree.Tokenization.Source(), diags)
	if len(got) != len(diags)-1 {
		t.Fatalf("got %d diagnostics, want %d", len(got), len(diags)-1)
	}
	d := got[0]
	if *d.Severity != protocol.DiagnosticSeverityError {
		t.Errorf("severity: got %v", *d.Severity)
	}
	if *d.Source != lsName {
		t.Errorf("source: got %q", *d.Source)
	}
	if d.Message != diags[0].Message {
		t.Errorf("message: got %q, want %q", d.Message, diags[0].Message)
	}
	if toSeverity(diag.Warning) != protocol.DiagnosticSeverityWarning {
		t.Errorf("warnings are not mapped to warnings")
	}
	if r := toRange(src, token.NoSpan); r != (protocol.Range{}) {
		t.Errorf("missing span: got %+v", r)
	}
}

func TestEncodingDiagnosticRange(t *testing.T) {
	// a raw span past the end of the decoded text
	src := "# coding: bogus\n"
	d := diag.Diagnostic{
		Message:  "unknown encoding: bogus",
		Code:     diag.CodeEncoding,
		Severity: diag.Error,
		Span:     token.NewSpan(token.NewLocation(13, 1, 11), token.NewLocation(18, 1, 16)),
	}
	got := toDiagnostics(src, []diag.Diagnostic{d})
	if len(got) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(got))
	}
	want := protocol.Range{
		Start: protocol.Position{Line: 0, Character: 10},
		End:   protocol.Position{Line: 0, Character: 15},
	}
	if got[0].Range != want {
		t.Errorf("got %+v, want %+v", got[0].Range, want)
	}
}

func TestToDocumentSymbols(t *testing.T) {
	src := "class C:\n    def m(self):\n        pass\n"
	tree, _ := parser.ParseString(src)
	symbols := toDocumentSymbols(src, Symbols(tree))
	if len(symbols) != 1 {
		t.Fatalf("got %d symbols, want 1", len(symbols))
	}
	class := symbols[0]
	if class.Name != "C" || class.Kind != protocol.SymbolKindClass {
		t.Errorf("got %s %v", class.Name, class.Kind)
	}
	if class.SelectionRange.Start.Character != 6 {
		t.Errorf("selection: got %+v", class.SelectionRange)
	}
	if len(class.Children) != 1 || class.Children[0].Kind != protocol.SymbolKindMethod {
		t.Fatalf("children: got %+v", class.Children)
	}
	if d := class.Children[0].Detail; d == nil || *d != "(self)" {
		t.Errorf("detail: got %v", d)
	}
}

func TestURIs(t *testing.T) {
	path, err := uriToPath("file:///home/user/my%20proj/a.py")
	if err != nil {
		t.Fatal(err)
	}
	if path != "/home/user/my proj/a.py" {
		t.Errorf("got %q", path)
	}
	if got := pathToURI("/home/user/my proj/a.py"); got != "file:///home/user/my%20proj/a.py" {
		t.Errorf("got %q", got)
	}
	if got, _ := uriToPath("untitled:1"); got != "untitled:1" {
		t.Errorf("got %q", got)
	}
}
