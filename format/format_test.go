package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dhamidi/pyfront/python/ast"
	"github.com/dhamidi/pyfront/python/parser"
	"github.com/dhamidi/pyfront/python/token"
	"github.com/dhamidi/pyfront/python/tokenizer"
)

func TestSource(t *testing.T) {
	tests := []string{
		"",
		"x = 1\n",
		"  # lead\n\nif x:  # why\n    y = [1,\n  2]  # trail\n",
		"def f(:\n    pass\n",
		"x = '''open\n",
		"\t\n\f\nx\r\ny\r",
		"a = b \\\n  + c\n",
	}
	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			tree, _ := parser.ParseString(src)
			if got := Source(tree); got != src {
				t.Errorf("got %q, want %q", got, src)
			}
			var buf bytes.Buffer
			if err := NewSourceEncoder(&buf).Encode(tree); err != nil {
				t.Fatal(err)
			}
			if got := buf.String(); got != src {
				t.Errorf("encoder: got %q, want %q", got, src)
			}
		})
	}
}

func TestASTJSONEncoder(t *testing.T) {
	tree, _ := parser.ParseString("x = 1  # one\nreturn\n", parser.WithVersion(token.V36))
	var buf bytes.Buffer
	if err := NewASTJSONEncoder(&buf).WithTrivia(true).Encode(tree); err != nil {
		t.Fatal(err)
	}

	var doc astJSONDocument
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if doc.Version != "3.6" {
		t.Errorf("version: got %q, want %q", doc.Version, "3.6")
	}
	if doc.Root.Kind != "Module" {
		t.Errorf("root: got %q, want %q", doc.Root.Kind, "Module")
	}
	suite := doc.Root.Children[0]
	if len(suite.Children) != 2 {
		t.Fatalf("got %d statements, want 2", len(suite.Children))
	}
	assign := suite.Children[0]
	if assign.After != "  # one" {
		t.Errorf("after: got %q, want %q", assign.After, "  # one")
	}
	if assign.Span == nil || assign.Span.Start.Line != 1 || assign.Span.Start.Column != 1 {
		t.Errorf("span: got %+v", assign.Span)
	}
	if got := assign.Children[1].Value; got != "1" {
		t.Errorf("value: got %q, want %q", got, "1")
	}
	if len(doc.Diagnostics) != 1 || !strings.Contains(doc.Diagnostics[0].Message, "'return' outside function") {
		t.Errorf("diagnostics: got %+v", doc.Diagnostics)
	}
}

func TestASTJSONEncoderWithoutPositions(t *testing.T) {
	tree, _ := parser.ParseString("x\n")
	text, err := func() ([]byte, error) {
		e := NewASTJSONEncoder(nil).WithPositions(false)
		e.tree = tree
		return e.MarshalText()
	}()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(text), `"span"`) {
		t.Errorf("got spans in %s", text)
	}
}

func TestTreeEncoder(t *testing.T) {
	tree, _ := parser.ParseString("def f(a, *b):\n    return a + 1\n")
	var buf bytes.Buffer
	if err := NewTreeEncoder(&buf).Encode(tree); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"Module",
		"  Suite",
		"    FunctionDefinition",
		"      Name f",
		"      Parameter",
		"        Name a",
		"      Parameter *",
		"        Name b",
		"      Suite",
		"        Return",
		"          Binary +",
		"            Name a",
		"            Constant 1",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"'a\\tb'\n", `"a\tb"`},
		{"b'x'\n", `b"x"`},
		{"2j\n", "2j"},
		{"1.5\n", "1.5"},
		{"None\n", "None"},
		{"...\n", "Ellipsis"},
		{"x\n", "x"},
		{"-x\n", "-"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tree, _ := parser.ParseString(tt.input)
			children := ast.Children(tree.Root.Body().Statement(0))
			if len(children) == 0 {
				t.Fatalf("statement has no expression")
			}
			if got := Label(children[0]); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTokenEncoder(t *testing.T) {
	tz := tokenizer.TokenizeString("x = 1\n", token.V36, tokenizer.Options{})
	var buf bytes.Buffer
	if err := NewTokenEncoder(&buf).Encode(tz); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"   1\n", "1:1\t", "Name\t\"x\"", "=\t\"=\"", "\"1\"", "   2\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}

	buf.Reset()
	if err := NewTokenEncoder(&buf).WithColor(true).Encode(tz); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "x") {
		t.Errorf("colored output lost the token text: %q", buf.String())
	}
}
