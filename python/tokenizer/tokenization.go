package tokenizer

import (
	"context"
	"sort"
	"strings"

	"github.com/dhamidi/pyfront/python/diag"
	"github.com/dhamidi/pyfront/python/encoding"
	"github.com/dhamidi/pyfront/python/token"
)

// Options control a batch tokenization.
type Options struct {
	// IndentationInconsistency is the severity the parser uses for
	// indentation that mixes tabs and spaces differently from its block.
	IndentationInconsistency diag.Severity
	// DisableNestingReset turns off the unbalanced-bracket recovery.
	DisableNestingReset bool
	// Sink additionally receives every diagnostic as it is produced.
	Sink diag.ErrorSink
}

// Tokenization is the immutable result of tokenizing a whole document.
// For every line i, Line(i), LineInfo(i) and PrecedingWhitespace(i) have
// the same length.
type Tokenization struct {
	source     string
	moniker    string
	docVersion int
	version    token.LanguageVersion
	options    Options
	codec      *encoding.Codec

	lines      [][]token.Token
	infos      [][]token.Info
	preceding  [][]token.IndexSpan
	lineStarts []int
	states     []State
	errors     []diag.Diagnostic
	tokens     []token.Token
}

// TokenizeString tokenizes already-decoded text.
func TokenizeString(src string, version token.LanguageVersion, opts Options) *Tokenization {
	tz := &Tokenization{source: src, version: version, options: opts, codec: encoding.UTF8}
	tz.tokenizeFrom(context.Background(), 0, New(version))
	return tz
}

func (tz *Tokenization) sink() diag.ErrorSink {
	collect := diag.NewCollectingSink(&tz.errors)
	if tz.options.Sink == nil {
		return collect
	}
	return diag.Tee(collect, tz.options.Sink)
}

// tokenizeFrom tokenizes the source starting at line index first, keeping
// earlier lines. t must already be positioned at that line.
func (tz *Tokenization) tokenizeFrom(ctx context.Context, first int, t *Tokenizer) error {
	WithErrorSink(tz.sink())(t)
	WithResetNesting(!tz.options.DisableNestingReset)(t)

	tz.lines = tz.lines[:first]
	tz.infos = tz.infos[:first]
	tz.lineStarts = tz.lineStarts[:first]
	tz.states = tz.states[:first]

	offset := 0
	if first > 0 {
		offset = t.lineStart
	}
	for i, line := range splitLines(tz.source[offset:]) {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		tz.lineStarts = append(tz.lineStarts, offset)
		tz.states = append(tz.states, t.State())
		tz.appendLine(t.TokenizeLine(line))
		offset += len(line)
	}

	// Finish drops the nesting, so the last line's state is taken first.
	final := t.State()
	tail := t.Finish()
	if len(tz.lines) == 0 || endsWithNewline(tz.source) {
		tz.lineStarts = append(tz.lineStarts, len(tz.source))
		tz.states = append(tz.states, final)
		tz.appendLine(tail)
	} else {
		last := len(tz.lines) - 1
		tz.lines[last] = append(tz.lines[last], tail...)
		for _, tok := range tail {
			tz.infos[last] = append(tz.infos[last], tok.Kind.Info())
		}
	}
	tz.index()
	return nil
}

func (tz *Tokenization) appendLine(toks []token.Token) {
	infos := make([]token.Info, len(toks))
	for i, tok := range toks {
		infos[i] = tok.Kind.Info()
	}
	tz.lines = append(tz.lines, toks)
	tz.infos = append(tz.infos, infos)
}

// index rebuilds the flattened token list and the preceding whitespace
// table.
func (tz *Tokenization) index() {
	tz.tokens = tz.tokens[:0]
	tz.preceding = make([][]token.IndexSpan, len(tz.lines))
	runStart := 0
	for i, line := range tz.lines {
		tz.preceding[i] = make([]token.IndexSpan, len(line))
		for j, tok := range line {
			start := tok.Span.Start.Index
			if runStart > start {
				runStart = start
			}
			tz.preceding[i][j] = token.IndexSpan{Start: runStart, Length: start - runStart}
			if !isTriviaForIndex(tok.Kind) {
				runStart = tok.Span.End.Index
			}
			tz.tokens = append(tz.tokens, tok)
		}
	}
}

func isTriviaForIndex(k token.Kind) bool {
	return k.IsTrivia() || k == token.SignificantWhitespace
}

// splitLines cuts s after every \n, \r\n or lone \r.
func splitLines(s string) []string {
	var lines []string
	for len(s) > 0 {
		i := strings.IndexAny(s, "\r\n")
		if i < 0 {
			lines = append(lines, s)
			break
		}
		end := i + newlineLen(s[i:])
		lines = append(lines, s[:end])
		s = s[end:]
	}
	return lines
}

// Source returns the decoded text.
func (tz *Tokenization) Source() string { return tz.source }

// Version returns the language version the text was tokenized for.
func (tz *Tokenization) Version() token.LanguageVersion { return tz.version }

// Options returns the options used.
func (tz *Tokenization) Options() Options { return tz.options }

// Codec returns the encoding the document was decoded with.
func (tz *Tokenization) Codec() *encoding.Codec { return tz.codec }

// Moniker names the document, if it came from one.
func (tz *Tokenization) Moniker() string { return tz.moniker }

// DocumentVersion is the version of the document that was tokenized.
func (tz *Tokenization) DocumentVersion() int { return tz.docVersion }

// Errors returns the encoding and lexical diagnostics.
func (tz *Tokenization) Errors() []diag.Diagnostic { return tz.errors }

// Tokens returns every token in document order. The last is EOF.
func (tz *Tokenization) Tokens() []token.Token { return tz.tokens }

// LineCount returns the number of lines, counting the empty line after a
// final newline.
func (tz *Tokenization) LineCount() int { return len(tz.lines) }

// Line returns the tokens of line n (0-based).
func (tz *Tokenization) Line(n int) []token.Token { return tz.lines[n] }

// LineInfo returns the colorization records of line n.
func (tz *Tokenization) LineInfo(n int) []token.Info { return tz.infos[n] }

// PrecedingWhitespace returns, for each token of line n, the trivia
// immediately before it.
func (tz *Tokenization) PrecedingWhitespace(n int) []token.IndexSpan { return tz.preceding[n] }

// LineState returns the tokenizer state at the start of line n.
func (tz *Tokenization) LineState(n int) State { return tz.states[n].Clone() }

// LineStartIndex returns the offset of line n.
func (tz *Tokenization) LineStartIndex(n int) int { return tz.lineStarts[n] }

// LineNumberByIndex returns the 0-based line holding offset; offsets
// inside a line map to the nearest line start at or before them.
func (tz *Tokenization) LineNumberByIndex(offset int) int {
	i := sort.SearchInts(tz.lineStarts, offset)
	if i < len(tz.lineStarts) && tz.lineStarts[i] == offset {
		return i
	}
	if i == 0 {
		return 0
	}
	return i - 1
}

// Location converts an offset to a full location.
func (tz *Tokenization) Location(offset int) token.SourceLocation {
	line := tz.LineNumberByIndex(offset)
	return token.SourceLocation{Index: offset, Line: line + 1, Column: offset - tz.lineStarts[line] + 1}
}

// Span converts an index span to a source span.
func (tz *Tokenization) Span(s token.IndexSpan) token.SourceSpan {
	return token.SourceSpan{Start: tz.Location(s.Start), End: tz.Location(s.End())}
}

// TokenText returns the source text of tok.
func (tz *Tokenization) TokenText(tok token.Token) string {
	return tz.Text(tok.Span)
}

// Text returns the source text covered by span.
func (tz *Tokenization) Text(span token.SourceSpan) string {
	if span.IsNone() {
		return ""
	}
	return tz.source[span.Start.Index:span.End.Index]
}

// Update returns the tokenization of newSource, reusing the lines before
// fromLine when newSource starts with the same text. Otherwise it
// tokenizes newSource from scratch.
func (tz *Tokenization) Update(newSource string, fromLine int) *Tokenization {
	out := &Tokenization{
		source:     newSource,
		moniker:    tz.moniker,
		docVersion: tz.docVersion,
		version:    tz.version,
		options:    tz.options,
		codec:      tz.codec,
	}
	if fromLine >= len(tz.lines) {
		fromLine = len(tz.lines) - 1
	}
	// A kept line ending in a lone \r would swallow a following \n.
	for fromLine > 0 && splitsCRLF(tz.source, newSource, tz.lineStarts[fromLine]) {
		fromLine--
	}
	if fromLine <= 0 || !strings.HasPrefix(newSource, tz.source[:tz.lineStarts[fromLine]]) {
		out.tokenizeFrom(context.Background(), 0, New(tz.version))
		return out
	}

	keep := tz.lineStarts[fromLine]
	out.lines = append(out.lines, tz.lines[:fromLine]...)
	out.infos = append(out.infos, tz.infos[:fromLine]...)
	out.lineStarts = append(out.lineStarts, tz.lineStarts[:fromLine]...)
	out.states = append(out.states, tz.states[:fromLine]...)
	for _, d := range tz.errors {
		if d.Span.IsNone() || d.Span.Start.Index < keep {
			out.errors = append(out.errors, d)
		}
	}

	t := New(tz.version)
	if err := t.Restore(tz.states[fromLine]); err != nil {
		panic(err)
	}
	out.tokenizeFrom(context.Background(), fromLine, t)
	return out
}

func splitsCRLF(before, after string, keep int) bool {
	return keep > 0 && keep < len(after) && before[keep-1] == '\r' && after[keep] == '\n'
}
