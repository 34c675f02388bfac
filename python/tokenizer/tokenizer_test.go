package tokenizer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/pyfront/python/diag"
	"github.com/dhamidi/pyfront/python/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func sameKinds(a, b []token.Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTokenizeLines(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		version token.LanguageVersion
		lines   [][]token.Kind
		errors  int
	}{
		{
			name:  "assignment",
			input: "x = 1\n",
			lines: [][]token.Kind{
				{token.SignificantWhitespace, token.Name, token.Whitespace, token.Assign, token.Whitespace, token.Decimal, token.NewLine},
				{token.EOF},
			},
		},
		{
			name:  "newline inside parentheses",
			input: "x = (1, 2,\n3)",
			lines: [][]token.Kind{
				{token.SignificantWhitespace, token.Name, token.Whitespace, token.Assign, token.Whitespace,
					token.LeftParenthesis, token.Decimal, token.Comma, token.Whitespace, token.Decimal, token.Comma, token.Whitespace},
				{token.Decimal, token.RightParenthesis, token.EOF},
			},
		},
		{
			name:  "indented block",
			input: "if x:\n    pass\n",
			lines: [][]token.Kind{
				{token.SignificantWhitespace, token.KeywordIf, token.Whitespace, token.Name, token.Colon, token.NewLine},
				{token.SignificantWhitespace, token.KeywordPass, token.NewLine},
				{token.EOF},
			},
		},
		{
			name:  "escaped quote",
			input: `s = 'a'b'` + "\n",
			lines: [][]token.Kind{
				{token.SignificantWhitespace, token.Name, token.Whitespace, token.Assign, token.Whitespace,
					token.LeftSingleQuote, token.StringBody, token.RightSingleQuote, token.NewLine},
				{token.EOF},
			},
		},
		{
			name:  "even backslash run closes",
			input: `'a\'` + "\n",
			lines: [][]token.Kind{
				{token.SignificantWhitespace, token.LeftSingleQuote, token.StringBody, token.RightSingleQuote, token.NewLine},
				{token.EOF},
			},
		},
		{
			name:  "triple quoted across lines",
			input: "'''a\nb'''\n",
			lines: [][]token.Kind{
				{token.SignificantWhitespace, token.LeftSingleTripleQuote, token.StringBody},
				{token.StringBody, token.RightSingleTripleQuote, token.NewLine},
				{token.EOF},
			},
		},
		{
			name:  "unterminated single quote",
			input: "'abc\nx\n",
			lines: [][]token.Kind{
				{token.SignificantWhitespace, token.LeftSingleQuote, token.StringBody, token.ErrorIncompleteString, token.NewLine},
				{token.SignificantWhitespace, token.Name, token.NewLine},
				{token.EOF},
			},
			errors: 1,
		},
		{
			name:  "backslash continues single quote",
			input: "'ab\\\ncd'\n",
			lines: [][]token.Kind{
				{token.SignificantWhitespace, token.LeftSingleQuote, token.StringBody},
				{token.StringBody, token.RightSingleQuote, token.NewLine},
				{token.EOF},
			},
		},
		{
			name:  "unterminated triple quote at end",
			input: `"""doc`,
			lines: [][]token.Kind{
				{token.SignificantWhitespace, token.LeftDoubleTripleQuote, token.StringBody, token.ErrorIncompleteString, token.EOF},
			},
			errors: 1,
		},
		{
			name:  "prefixed string",
			input: "rb'x'",
			lines: [][]token.Kind{
				{token.SignificantWhitespace, token.LeftSingleQuote, token.StringBody, token.RightSingleQuote, token.EOF},
			},
		},
		{
			name:  "explicit line join",
			input: "x = 1 + \\\n  2\n",
			lines: [][]token.Kind{
				{token.SignificantWhitespace, token.Name, token.Whitespace, token.Assign, token.Whitespace,
					token.Decimal, token.Whitespace, token.Add, token.Whitespace, token.ExplicitLineJoin},
				{token.Whitespace, token.Decimal, token.NewLine},
				{token.EOF},
			},
		},
		{
			name:  "comment",
			input: "# hello\r\n",
			lines: [][]token.Kind{
				{token.SignificantWhitespace, token.Comment, token.NewLine},
				{token.EOF},
			},
		},
		{
			name:  "reset nesting on def",
			input: "x = f(1,\ndef g(): pass\n",
			lines: [][]token.Kind{
				{token.SignificantWhitespace, token.Name, token.Whitespace, token.Assign, token.Whitespace,
					token.Name, token.LeftParenthesis, token.Decimal, token.Comma, token.Whitespace},
				{token.NewLine, token.SignificantWhitespace, token.KeywordDef, token.Whitespace, token.Name,
					token.LeftParenthesis, token.RightParenthesis, token.Colon, token.Whitespace, token.KeywordPass, token.NewLine},
				{token.EOF},
			},
		},
		{
			name:  "invalid character",
			input: "a $ b",
			lines: [][]token.Kind{
				{token.SignificantWhitespace, token.Name, token.Whitespace, token.Error, token.Whitespace, token.Name, token.EOF},
			},
			errors: 1,
		},
		{
			name:  "empty",
			input: "",
			lines: [][]token.Kind{{token.EOF}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version := tt.version
			if version == 0 {
				version = token.V36
			}
			tz := TokenizeString(tt.input, version, Options{})
			if tz.LineCount() != len(tt.lines) {
				t.Fatalf("got %d lines, want %d", tz.LineCount(), len(tt.lines))
			}
			for i, want := range tt.lines {
				if got := kinds(tz.Line(i)); !sameKinds(got, want) {
					t.Errorf("line %d: got %v, want %v", i, got, want)
				}
			}
			if len(tz.Errors()) != tt.errors {
				t.Errorf("got %d errors, want %d: %v", len(tz.Errors()), tt.errors, tz.Errors())
			}
		})
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input   string
		version token.LanguageVersion
		kind    token.Kind
		length  int
	}{
		{"0x1F", token.V36, token.Hex, 4},
		{"0x", token.V36, token.Error, 2},
		{"0o17", token.V25, token.Octal, 4},
		{"0b101", token.V36, token.Binary, 5},
		{"017", token.V27, token.Octal, 3},
		{"017", token.V36, token.Error, 3},
		{"019", token.V27, token.Error, 3},
		{"000", token.V36, token.Decimal, 3},
		{"0", token.V36, token.Decimal, 1},
		{"10L", token.V27, token.DecimalLong, 3},
		{"10L", token.V36, token.Decimal, 2},
		{"0xffL", token.V27, token.HexLong, 5},
		{"1.5", token.V36, token.Float, 3},
		{".5", token.V36, token.Float, 2},
		{"1.", token.V36, token.Float, 2},
		{"1e10", token.V36, token.Float, 4},
		{"1e", token.V36, token.Decimal, 1},
		{"1.5e-3j", token.V36, token.Imaginary, 7},
		{"1j", token.V36, token.Imaginary, 2},
		{"09.5", token.V27, token.Float, 4},
	}
	for _, tt := range tests {
		t.Run(tt.input+"/"+tt.version.String(), func(t *testing.T) {
			toks := New(tt.version).TokenizeLine(tt.input)
			got := toks[1]
			if got.Kind != tt.kind || got.Len() != tt.length {
				t.Errorf("got %v (len %d), want %v (len %d)", got.Kind, got.Len(), tt.kind, tt.length)
			}
		})
	}
}

func TestOperators(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"+", token.Add},
		{"+=", token.AddEqual},
		{"**", token.Power},
		{"**=", token.PowerEqual},
		{"//=", token.FloorDivideEqual},
		{"<<=", token.LeftShiftEqual},
		{">>", token.RightShift},
		{"->", token.Arrow},
		{"<>", token.LessThanGreaterThan},
		{"!=", token.NotEquals},
		{"==", token.Equals},
		{"...", token.Ellipsis},
		{"@=", token.MatMultiplyEqual},
		{"~", token.Twiddle},
		{"`", token.BackQuote},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks := New(token.V36).TokenizeLine(tt.input)
			if len(toks) != 2 || toks[1].Kind != tt.kind || toks[1].Len() != len(tt.input) {
				t.Errorf("got %v, want a single %v", kinds(toks), tt.kind)
			}
		})
	}
}

func TestKeywordsCarrySingletons(t *testing.T) {
	toks := New(token.V36).TokenizeLine("None True False")
	want := []*token.Singleton{token.NoneValue, token.TrueValue, token.FalseValue}
	var got []*token.Singleton
	for _, tok := range toks {
		if v, ok := tok.Value.(*token.Singleton); ok {
			got = append(got, v)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("got %d singletons, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("singleton %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizationInvariants(t *testing.T) {
	inputs := []string{
		"",
		"x",
		"def f(x):\n    return x\n",
		"s = '''\nunterminated",
		"a = [1,\n  2]\r\nb = 3\r",
		"\\\n",
		"x = (\n",
	}
	for _, src := range inputs {
		tz := TokenizeString(src, token.V36, Options{})
		toks := tz.Tokens()
		if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
			t.Errorf("%q: last token is not EOF", src)
		}
		var b strings.Builder
		for i := 0; i < tz.LineCount(); i++ {
			if len(tz.Line(i)) != len(tz.LineInfo(i)) || len(tz.Line(i)) != len(tz.PrecedingWhitespace(i)) {
				t.Errorf("%q: line %d arrays differ in length", src, i)
			}
		}
		prev := 0
		for _, tok := range toks {
			if tok.Span.Start.Index != prev {
				t.Errorf("%q: gap before %v", src, tok)
			}
			prev = tok.Span.End.Index
			b.WriteString(tz.TokenText(tok))
		}
		if b.String() != src {
			t.Errorf("tokens do not cover source: got %q, want %q", b.String(), src)
		}
	}
}

func TestLineQueries(t *testing.T) {
	tz := TokenizeString("a = 1\nbb = 2\n\nccc\n", token.V36, Options{})
	if tz.LineCount() != 5 {
		t.Fatalf("got %d lines, want 5", tz.LineCount())
	}
	tests := []struct {
		offset int
		line   int
	}{
		{0, 0},
		{3, 0},
		{6, 1},
		{11, 1},
		{13, 2},
		{14, 3},
		{18, 4},
	}
	for _, tt := range tests {
		if got := tz.LineNumberByIndex(tt.offset); got != tt.line {
			t.Errorf("LineNumberByIndex(%d) = %d, want %d", tt.offset, got, tt.line)
		}
	}
	if got := tz.LineStartIndex(3); got != 14 {
		t.Errorf("LineStartIndex(3) = %d, want 14", got)
	}
	loc := tz.Location(8)
	if loc.Line != 2 || loc.Column != 3 {
		t.Errorf("Location(8) = %v, want 2:3", loc)
	}

	name := tz.Line(1)[1]
	if got := tz.TokenText(name); got != "bb" {
		t.Errorf("TokenText = %q, want %q", got, "bb")
	}
	pw := tz.PrecedingWhitespace(1)
	if pw[3].Length != 1 {
		t.Errorf("preceding whitespace of '=' = %v, want one byte", pw[3])
	}
}

func TestStateRoundTrip(t *testing.T) {
	src := []string{"x = (1,\n", "   2)\n", "s = '''a\n", "b'''\n", "y = 3\n"}

	full := New(token.V27)
	var want [][]token.Token
	var states []State
	for _, line := range src {
		states = append(states, full.State())
		want = append(want, full.TokenizeLine(line))
	}

	for start := range src {
		data, err := json.Marshal(states[start])
		if err != nil {
			t.Fatal(err)
		}
		var s State
		if err := json.Unmarshal(data, &s); err != nil {
			t.Fatal(err)
		}
		resumed := New(token.V36)
		if err := resumed.Restore(s); err != nil {
			t.Fatalf("restore line %d: %v", start, err)
		}
		for i := start; i < len(src); i++ {
			got := resumed.TokenizeLine(src[i])
			if len(got) != len(want[i]) {
				t.Fatalf("resume at %d, line %d: got %v, want %v", start, i, kinds(got), kinds(want[i]))
			}
			for j := range got {
				if got[j].Kind != want[i][j].Kind || got[j].Span != want[i][j].Span {
					t.Errorf("resume at %d, line %d token %d: got %v, want %v", start, i, j, got[j], want[i][j])
				}
			}
		}
	}
}

func TestRestoreRejectsBadState(t *testing.T) {
	tests := []struct {
		name  string
		state State
	}{
		{"zero line", State{Version: token.V36, Line: 0}},
		{"bad version", State{Version: 0x99, Line: 1}},
		{"opener on stack", State{Version: token.V36, Line: 1, Nesting: []token.Kind{token.LeftParenthesis}}},
		{"quote below bracket", State{Version: token.V36, Line: 1, Nesting: []token.Kind{token.RightSingleQuote, token.RightParenthesis}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(token.V36).Restore(tt.state)
			if !errors.Is(err, ErrInvalidState) {
				t.Errorf("got %v, want ErrInvalidState", err)
			}
		})
	}
}

func TestUpdateMatchesFullTokenization(t *testing.T) {
	tests := []struct {
		name          string
		before, after string
	}{
		{"edit in the middle", "import os\n\ndef f():\n    return 1\n", "import os\n\ndef f():\n    return (1 +\n        2)\n"},
		{"append after open bracket", "x = (1,\n", "x = (1,\n2)\n"},
		{"append inside open bracket without newline", "x = [1,\n", "x = [1,\n 2]"},
		{"append after open triple quote", "s = '''abc\n", "s = '''abc\ndef'''\nx = 1\n"},
		{"append after continuation", "x = 1 + \\\n", "x = 1 + \\\n    2\n"},
		{"close the bracket", "f(a,\n  b,\n", "f(a,\n  b)\ng()\n"},
		{"lone cr becomes crlf", "x\rabc\n", "x\r\nabc\n"},
		{"crlf to lone cr", "x\r\nabc\n", "x\rabc\n"},
		{"append at end of file", "def f():\n    pass\n", "def f():\n    pass\n\nclass C:\n    pass\n"},
		{"delete the tail", "a = 1\nb = (2,\n3)\n", "a = 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tz := TokenizeString(tt.before, token.V36, Options{})
			fresh := TokenizeString(tt.after, token.V36, Options{})
			for from := 0; from <= tz.LineCount(); from++ {
				updated := tz.Update(tt.after, from)
				if got, want := updated.Tokens(), fresh.Tokens(); !sameTokens(got, want) {
					t.Fatalf("from line %d: got %v, want %v", from, kinds(got), kinds(want))
				}
				if updated.LineCount() != fresh.LineCount() {
					t.Fatalf("from line %d: got %d lines, want %d", from, updated.LineCount(), fresh.LineCount())
				}
				for i := 0; i < fresh.LineCount(); i++ {
					if !updated.LineState(i).Equal(fresh.LineState(i)) {
						t.Errorf("from line %d, state at line %d: got %+v, want %+v", from, i, updated.LineState(i), fresh.LineState(i))
					}
				}
				if len(updated.Errors()) != len(fresh.Errors()) {
					t.Errorf("from line %d: got errors %v, want %v", from, updated.Errors(), fresh.Errors())
				}
			}
		})
	}
}

func sameTokens(a, b []token.Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLastLineStateKeepsNesting(t *testing.T) {
	tests := []struct {
		src  string
		want []token.Kind
	}{
		{"x = (1,\n", []token.Kind{token.RightParenthesis}},
		{"s = '''abc\n", []token.Kind{token.RightSingleTripleQuote}},
		{"x = 1\n", nil},
	}
	for _, tt := range tests {
		tz := TokenizeString(tt.src, token.V36, Options{})
		got := tz.LineState(tz.LineCount() - 1)
		if len(got.Nesting) != len(tt.want) || (len(tt.want) > 0 && got.Nesting[0] != tt.want[0]) {
			t.Errorf("%q: got nesting %v, want %v", tt.src, got.Nesting, tt.want)
		}
	}
}

func TestTokenizeDocument(t *testing.T) {
	var seen []diag.Diagnostic
	doc := BytesDocument{Name: "latin.py", Data: []byte("# coding: latin-1\ns = '\xe9'\n"), Rev: 3}
	tz, err := Tokenize(context.Background(), doc, token.V27, Options{Sink: diag.NewCollectingSink(&seen)})
	if err != nil {
		t.Fatal(err)
	}
	if tz.Codec().Name != "latin-1" {
		t.Errorf("codec = %s, want latin-1", tz.Codec())
	}
	if tz.Moniker() != "latin.py" || tz.DocumentVersion() != 3 {
		t.Errorf("got %q v%d", tz.Moniker(), tz.DocumentVersion())
	}
	if !strings.Contains(tz.Source(), "é") {
		t.Errorf("source not decoded: %q", tz.Source())
	}
	if len(seen) != 0 {
		t.Errorf("unexpected diagnostics: %v", seen)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Tokenize(ctx, StringDocument{Name: "x.py", Text: "x\n"}, token.V36, Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}
