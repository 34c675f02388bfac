package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dhamidi/pyfront/python/token"
	"github.com/dhamidi/pyfront/python/tokenizer"
)

var (
	ColorKeyword    = lipgloss.Color("#8B5CF6")
	ColorIdentifier = lipgloss.Color("#F8FAFC")
	ColorString     = lipgloss.Color("#10B981")
	ColorNumber     = lipgloss.Color("#F59E0B")
	ColorComment    = lipgloss.Color("#6B7280")
	ColorOperator   = lipgloss.Color("#06B6D4")
	ColorError      = lipgloss.Color("#EF4444")
	ColorMuted      = lipgloss.Color("#374151")
)

var classStyles = map[token.Class]lipgloss.Style{
	token.ClassKeyword:    lipgloss.NewStyle().Foreground(ColorKeyword).Bold(true),
	token.ClassIdentifier: lipgloss.NewStyle().Foreground(ColorIdentifier),
	token.ClassString:     lipgloss.NewStyle().Foreground(ColorString),
	token.ClassNumber:     lipgloss.NewStyle().Foreground(ColorNumber),
	token.ClassComment:    lipgloss.NewStyle().Foreground(ColorComment).Italic(true),
	token.ClassOperator:   lipgloss.NewStyle().Foreground(ColorOperator),
	token.ClassDelimiter:  lipgloss.NewStyle().Foreground(ColorOperator),
	token.ClassGrouping:   lipgloss.NewStyle().Foreground(ColorOperator).Bold(true),
	token.ClassWhitespace: lipgloss.NewStyle().Foreground(ColorMuted),
	token.ClassError:      lipgloss.NewStyle().Foreground(ColorError).Underline(true),
}

var lineNumberStyle = lipgloss.NewStyle().Foreground(ColorMuted)

// TokenEncoder writes every token of a tokenization, one line of source
// per output block.
type TokenEncoder struct {
	w     io.Writer
	tz    *tokenizer.Tokenization
	color bool
}

func NewTokenEncoder(w io.Writer) *TokenEncoder {
	return &TokenEncoder{w: w}
}

// WithColor renders each token with the style of its editor class.
func (e *TokenEncoder) WithColor(on bool) *TokenEncoder {
	e.color = on
	return e
}

func (e *TokenEncoder) Encode(tz *tokenizer.Tokenization) error {
	e.tz = tz
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TokenEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for n := 0; n < e.tz.LineCount(); n++ {
		infos := e.tz.LineInfo(n)
		header := fmt.Sprintf("%4d", n+1)
		if e.color {
			header = lineNumberStyle.Render(header)
		}
		sb.WriteString(header)
		sb.WriteByte('\n')
		for i, tok := range e.tz.Line(n) {
			e.writeToken(&sb, tok, infos[i].Class)
		}
	}
	for _, d := range e.tz.Errors() {
		fmt.Fprintf(&sb, "! %s\n", d)
	}
	return []byte(sb.String()), nil
}

func (e *TokenEncoder) writeToken(sb *strings.Builder, tok token.Token, class token.Class) {
	kind := tok.Kind.String()
	text := strconv.Quote(e.tz.TokenText(tok))
	if e.color {
		if style, ok := classStyles[class]; ok {
			kind = style.Render(kind)
			text = style.Render(text)
		}
	}
	fmt.Fprintf(sb, "     %d:%d\t%s\t%s\n", tok.Span.Start.Line, tok.Span.Start.Column, kind, text)
}
