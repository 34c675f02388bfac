package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/pyfront/python/ast"
	"github.com/dhamidi/pyfront/python/diag"
	"github.com/dhamidi/pyfront/python/parser"
	"github.com/dhamidi/pyfront/python/token"
)

type ASTJSONEncoder struct {
	w         io.Writer
	tree      *parser.AST
	positions bool
	trivia    bool
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w, positions: true}
}

// WithPositions controls whether spans are written.
func (e *ASTJSONEncoder) WithPositions(on bool) *ASTJSONEncoder {
	e.positions = on
	return e
}

// WithTrivia adds the text of each node's leading and trailing trivia.
func (e *ASTJSONEncoder) WithTrivia(on bool) *ASTJSONEncoder {
	e.trivia = on
	return e
}

func (e *ASTJSONEncoder) Encode(tree *parser.AST) error {
	e.tree = tree
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ASTJSONEncoder) MarshalText() ([]byte, error) {
	doc := astJSONDocument{
		Version: e.tree.Features.Version.String(),
		Root:    e.nodeToJSON(e.tree.Root),
	}
	for _, d := range e.tree.Diagnostics {
		doc.Diagnostics = append(doc.Diagnostics, e.diagnosticToJSON(d))
	}
	return json.MarshalIndent(doc, "", "  ")
}

type astJSONDocument struct {
	Version     string              `json:"version"`
	Root        *astJSONNode        `json:"root"`
	Diagnostics []astJSONDiagnostic `json:"diagnostics,omitempty"`
}

type astJSONNode struct {
	Kind     string         `json:"kind"`
	Span     *astJSONSpan   `json:"span,omitempty"`
	Value    string         `json:"value,omitempty"`
	Before   string         `json:"before,omitempty"`
	After    string         `json:"after,omitempty"`
	Children []*astJSONNode `json:"children,omitempty"`
}

type astJSONSpan struct {
	Start astJSONPosition `json:"start"`
	End   astJSONPosition `json:"end"`
}

type astJSONPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type astJSONDiagnostic struct {
	Message  string       `json:"message"`
	Severity string       `json:"severity"`
	Code     int          `json:"code"`
	Span     *astJSONSpan `json:"span,omitempty"`
}

func (e *ASTJSONEncoder) span(s token.SourceSpan) *astJSONSpan {
	if !e.positions || s.IsNone() {
		return nil
	}
	return &astJSONSpan{
		Start: astJSONPosition{Line: s.Start.Line, Column: s.Start.Column},
		End:   astJSONPosition{Line: s.End.Line, Column: s.End.Column},
	}
}

func (e *ASTJSONEncoder) nodeToJSON(n ast.Node) *astJSONNode {
	jn := &astJSONNode{
		Kind:  n.Kind().String(),
		Span:  e.span(n.Span()),
		Value: Label(n),
	}
	if e.trivia {
		jn.Before = e.tree.Tokenization.Text(n.BeforeNode())
		jn.After = e.tree.Tokenization.Text(n.AfterNode())
	}
	children := ast.Children(n)
	if len(children) > 0 {
		jn.Children = make([]*astJSONNode, len(children))
		for i, child := range children {
			jn.Children[i] = e.nodeToJSON(child)
		}
	}
	return jn
}

func (e *ASTJSONEncoder) diagnosticToJSON(d diag.Diagnostic) astJSONDiagnostic {
	return astJSONDiagnostic{
		Message:  d.Message,
		Severity: d.Severity.String(),
		Code:     d.Code,
		Span:     e.span(d.Span),
	}
}
