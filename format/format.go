package format

import (
	"encoding"
	"io"
	"strings"

	"github.com/dhamidi/pyfront/python/ast"
	"github.com/dhamidi/pyfront/python/parser"
	"github.com/dhamidi/pyfront/python/token"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(tree *parser.AST) error
}

// SourceEncoder writes a tree back out as the exact text it was parsed
// from.
type SourceEncoder struct {
	w    io.Writer
	tree *parser.AST
}

func NewSourceEncoder(w io.Writer) *SourceEncoder {
	return &SourceEncoder{w: w}
}

func (e *SourceEncoder) Encode(tree *parser.AST) error {
	e.tree = tree
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *SourceEncoder) MarshalText() ([]byte, error) {
	return []byte(Source(e.tree)), nil
}

// Source reprints tree from its node spans alone.
func Source(tree *parser.AST) string {
	var sb strings.Builder
	WriteSource(&sb, tree)
	return sb.String()
}

// WriteSource writes, for every node in pre-order, its leading trivia,
// its own text interleaved with its children, and its trailing trivia.
func WriteSource(w io.StringWriter, tree *parser.AST) {
	src := tree.Tokenization.Source()
	text := func(s token.SourceSpan) {
		if !s.IsNone() {
			w.WriteString(src[s.Start.Index:s.End.Index])
		}
	}

	var write func(n ast.Node)
	write = func(n ast.Node) {
		text(n.BeforeNode())
		cur := n.Span().Start.Index
		for _, child := range ast.Children(n) {
			full := child.FullSpan()
			if full.IsNone() {
				continue
			}
			w.WriteString(src[cur:full.Start.Index])
			write(child)
			cur = full.End.Index
		}
		w.WriteString(src[cur:n.Span().End.Index])
		text(n.AfterNode())
	}
	write(tree.Root)
}
