package tokenizer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/pyfront/python/diag"
	"github.com/dhamidi/pyfront/python/token"
)

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithResetNesting turns the unbalanced-bracket recovery on or off. When
// on, a line opening with a statement-only keyword while brackets are
// still open closes every bracket and starts a new statement.
func WithResetNesting(on bool) Option {
	return func(t *Tokenizer) {
		t.resetNesting = on
	}
}

// WithErrorSink sets where lexical diagnostics go.
func WithErrorSink(sink diag.ErrorSink) Option {
	return func(t *Tokenizer) {
		t.sink = sink
	}
}

// Tokenizer turns source text into tokens one physical line at a time.
type Tokenizer struct {
	version      token.LanguageVersion
	sink         diag.ErrorSink
	resetNesting bool

	line      int
	lineStart int
	nesting   []token.Kind
	joined    bool

	// the line being scanned
	text string
	pos  int
	out  []token.Token

	// set when the last line had no terminator
	openLine bool
	lastLen  int
}

// New returns a tokenizer positioned at the start of a document.
func New(version token.LanguageVersion, opts ...Option) *Tokenizer {
	t := &Tokenizer{
		version:      version,
		sink:         diag.NullSink{},
		resetNesting: true,
		line:         1,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// State returns a snapshot of the carried state.
func (t *Tokenizer) State() State {
	return State{
		Version:   t.version,
		Line:      t.line,
		LineStart: t.lineStart,
		Nesting:   append([]token.Kind(nil), t.nesting...),
		Joined:    t.joined,
	}
}

// Restore resumes from a snapshot taken with State.
func (t *Tokenizer) Restore(s State) error {
	if err := s.Validate(); err != nil {
		return err
	}
	t.version = s.Version
	t.line = s.Line
	t.lineStart = s.LineStart
	t.nesting = append(t.nesting[:0], s.Nesting...)
	t.joined = s.Joined
	t.openLine = false
	t.lastLen = 0
	return nil
}

// Version returns the language version being tokenized.
func (t *Tokenizer) Version() token.LanguageVersion { return t.version }

// TokenizeLine scans one physical line, including its terminator if it
// has one, and returns its tokens.
func (t *Tokenizer) TokenizeLine(line string) []token.Token {
	t.text = line
	t.pos = 0
	t.out = nil

	switch {
	case t.inString():
	case len(t.nesting) == 0 && !t.joined:
		t.emit(token.SignificantWhitespace, t.skipBlanks())
	default:
		if !t.joined && t.resetNesting && t.startsStatement() {
			t.emitAt(token.NewLine, 0, 0)
			t.nesting = t.nesting[:0]
			t.emit(token.SignificantWhitespace, t.skipBlanks())
		} else if n := t.skipBlanks(); n > 0 {
			t.emit(token.Whitespace, n)
		}
	}
	t.joined = false

	for t.pos < len(t.text) {
		t.next()
	}

	t.openLine = !endsWithNewline(line)
	t.lastLen = len(line)
	t.line++
	t.lineStart += len(line)
	out := t.out
	t.out = nil
	return out
}

// Finish reports unterminated strings and returns the trailing tokens,
// ending with EOF.
func (t *Tokenizer) Finish() []token.Token {
	loc := t.endLocation()
	var out []token.Token
	if t.inString() {
		quote := t.nesting[len(t.nesting)-1]
		msg := "EOL while scanning string literal"
		if quote.IsTripleQuote() {
			msg = "EOF while scanning triple-quoted string literal"
		}
		t.report(msg, token.EmptySpan(loc), diag.CodeIncompleteToken)
		out = append(out, token.Token{Kind: token.ErrorIncompleteString, Span: token.EmptySpan(loc)})
	}
	t.nesting = t.nesting[:0]
	out = append(out, token.Token{Kind: token.EOF, Span: token.EmptySpan(loc)})
	return out
}

func (t *Tokenizer) endLocation() token.SourceLocation {
	if t.openLine {
		return token.SourceLocation{Index: t.lineStart, Line: t.line - 1, Column: t.lastLen + 1}
	}
	return token.SourceLocation{Index: t.lineStart, Line: t.line, Column: 1}
}

func (t *Tokenizer) inString() bool {
	return len(t.nesting) > 0 && t.nesting[len(t.nesting)-1].IsCloseQuote()
}

func (t *Tokenizer) peek(offset int) byte {
	if t.pos+offset < len(t.text) {
		return t.text[t.pos+offset]
	}
	return 0
}

func (t *Tokenizer) location(pos int) token.SourceLocation {
	if pos == len(t.text) && endsWithNewline(t.text) {
		return token.SourceLocation{Index: t.lineStart + pos, Line: t.line + 1, Column: 1}
	}
	return token.SourceLocation{Index: t.lineStart + pos, Line: t.line, Column: pos + 1}
}

// emit appends a token of n bytes at the current position and advances.
func (t *Tokenizer) emit(kind token.Kind, n int) token.Token {
	tok := t.emitAt(kind, t.pos, n)
	t.pos += n
	return tok
}

func (t *Tokenizer) emitAt(kind token.Kind, pos, n int) token.Token {
	tok := token.Token{Kind: kind, Span: token.SourceSpan{Start: t.location(pos), End: t.location(pos + n)}}
	t.out = append(t.out, tok)
	return tok
}

func (t *Tokenizer) report(msg string, span token.SourceSpan, code int) {
	t.sink.Add(msg, span, code, diag.Error)
}

func (t *Tokenizer) reportLast(msg string, code int) {
	t.report(msg, t.out[len(t.out)-1].Span, code)
}

func (t *Tokenizer) skipBlanks() int {
	n := 0
	for t.pos+n < len(t.text) && isBlank(t.text[t.pos+n]) {
		n++
	}
	return n
}

// statementOnly are keywords that cannot appear inside brackets.
var statementOnly = map[token.Kind]bool{
	token.KeywordDef:      true,
	token.KeywordClass:    true,
	token.KeywordReturn:   true,
	token.KeywordImport:   true,
	token.KeywordPass:     true,
	token.KeywordBreak:    true,
	token.KeywordContinue: true,
	token.KeywordRaise:    true,
	token.KeywordGlobal:   true,
	token.KeywordNonlocal: true,
	token.KeywordTry:      true,
	token.KeywordWhile:    true,
	token.KeywordWith:     true,
	token.KeywordDel:      true,
	token.KeywordAssert:   true,
	token.KeywordElif:     true,
	token.KeywordExcept:   true,
	token.KeywordFinally:  true,
}

func (t *Tokenizer) startsStatement() bool {
	for _, k := range t.nesting {
		if !k.IsCloseGroup() {
			return false
		}
	}
	i := t.pos
	for i < len(t.text) && isBlank(t.text[i]) {
		i++
	}
	j := i
	for j < len(t.text) && isASCIIIdent(t.text[j]) {
		j++
	}
	if j == i || (j < len(t.text) && t.text[j] >= utf8.RuneSelf) {
		return false
	}
	return statementOnly[token.LookupKeyword(t.text[i:j])]
}

func (t *Tokenizer) next() {
	if t.inString() {
		t.scanStringBody()
		return
	}
	c := t.text[t.pos]
	switch {
	case isBlank(c):
		t.emit(token.Whitespace, t.skipBlanks())
	case c == '\n' || c == '\r':
		kind := token.NewLine
		if len(t.nesting) > 0 {
			kind = token.Whitespace
		}
		t.emit(kind, newlineLen(t.text[t.pos:]))
	case c == '#':
		n := 0
		for t.pos+n < len(t.text) && t.text[t.pos+n] != '\n' && t.text[t.pos+n] != '\r' {
			n++
		}
		t.emit(token.Comment, n)
	case c == '\\':
		rest := t.text[t.pos+1:]
		if nl := newlineLen(rest); nl > 0 || rest == "" {
			t.emit(token.ExplicitLineJoin, 1+nl)
			t.joined = true
			return
		}
		t.emit(token.Error, 1)
		t.reportLast("unexpected character after line continuation character", diag.CodeSyntax)
	case isDigit(c) || (c == '.' && isDigit(t.peek(1))):
		t.scanNumber()
	case c == '\'' || c == '"':
		t.scanStringStart(0)
	case isASCIIIdentStart(c) || c >= utf8.RuneSelf:
		t.scanName()
	default:
		t.scanOperator()
	}
}

func (t *Tokenizer) scanName() {
	start := t.pos
	n := 0
	for t.pos+n < len(t.text) {
		c := t.text[t.pos+n]
		if isASCIIIdent(c) {
			n++
			continue
		}
		if c < utf8.RuneSelf {
			break
		}
		r, size := utf8.DecodeRuneInString(t.text[t.pos+n:])
		if !isIdentRune(r, n == 0) {
			break
		}
		n += size
	}
	if n == 0 {
		r, size := utf8.DecodeRuneInString(t.text[start:])
		t.emit(token.Error, size)
		if r == utf8.RuneError {
			t.reportLast("invalid byte in source text", diag.CodeSyntax)
		} else {
			t.reportLast(fmt.Sprintf("invalid character %q (U+%04X)", r, r), diag.CodeSyntax)
		}
		return
	}

	word := t.text[start : start+n]
	if q := t.peek(n); (q == '\'' || q == '"') && t.isStringPrefix(word) {
		t.scanStringStart(n)
		return
	}
	kind := token.LookupKeyword(word)
	t.emit(kind, n)
	if v := token.SingletonFor(kind); v != nil {
		t.out[len(t.out)-1].Value = v
	}
}

// isStringPrefix reports whether word may precede a quote. Combinations
// that are illegal for the version are still accepted so the parser can
// report them.
func (t *Tokenizer) isStringPrefix(word string) bool {
	if len(word) > 3 {
		return false
	}
	for i := 0; i < len(word); i++ {
		switch word[i] {
		case 'r', 'R', 'b', 'B', 'u', 'U':
		case 'f', 'F':
			if !t.version.AtLeast(token.V36) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// scanStringStart emits the opening quote, including a prefix of
// prefixLen bytes, and pushes the matching closer.
func (t *Tokenizer) scanStringStart(prefixLen int) {
	q := t.text[t.pos+prefixLen]
	triple := t.peek(prefixLen+1) == q && t.peek(prefixLen+2) == q
	var open, close token.Kind
	switch {
	case q == '\'' && triple:
		open, close = token.LeftSingleTripleQuote, token.RightSingleTripleQuote
	case q == '"' && triple:
		open, close = token.LeftDoubleTripleQuote, token.RightDoubleTripleQuote
	case q == '\'':
		open, close = token.LeftSingleQuote, token.RightSingleQuote
	default:
		open, close = token.LeftDoubleQuote, token.RightDoubleQuote
	}
	n := prefixLen + 1
	if triple {
		n += 2
	}
	t.emit(open, n)
	t.nesting = append(t.nesting, close)
}

// scanStringBody hunts for the closing quote of the innermost open
// string. Keywords and operators are not recognized here.
func (t *Tokenizer) scanStringBody() {
	closer := t.nesting[len(t.nesting)-1]
	var quote string
	switch closer {
	case token.RightSingleQuote:
		quote = "'"
	case token.RightDoubleQuote:
		quote = `"`
	case token.RightSingleTripleQuote:
		quote = "'''"
	default:
		quote = `"""`
	}
	triple := len(quote) == 3

	start := t.pos
	i := t.pos
	for i < len(t.text) {
		c := t.text[i]
		switch {
		case c == '\\':
			i++
			if i < len(t.text) {
				i += newlineLen(t.text[i:])
				if i < len(t.text) && t.text[i] != '\n' && t.text[i] != '\r' {
					i++
				}
			}
			continue
		case c == quote[0] && len(t.text)-i >= len(quote) && t.text[i:i+len(quote)] == quote:
			if i > start {
				t.emit(token.StringBody, i-start)
			}
			t.emit(closer, len(quote))
			t.nesting = t.nesting[:len(t.nesting)-1]
			return
		case !triple && (c == '\n' || c == '\r'):
			if i > start {
				t.emit(token.StringBody, i-start)
			}
			t.emitAt(token.ErrorIncompleteString, t.pos, 0)
			t.reportLast("EOL while scanning string literal", diag.CodeIncompleteToken)
			t.nesting = t.nesting[:len(t.nesting)-1]
			return
		}
		i++
	}
	if i > start {
		t.emit(token.StringBody, i-start)
	}
}

func (t *Tokenizer) scanNumber() {
	start := t.pos
	i := start
	text := t.text

	if text[i] == '0' && i+1 < len(text) {
		var kind token.Kind
		var valid func(byte) bool
		switch text[i+1] {
		case 'x', 'X':
			kind, valid = token.Hex, isHexDigit
		case 'o', 'O':
			kind, valid = token.Octal, isOctalDigit
		case 'b', 'B':
			kind, valid = token.Binary, isBinaryDigit
		}
		if valid != nil {
			j := i + 2
			for j < len(text) && valid(text[j]) {
				j++
			}
			if j == i+2 {
				t.emit(token.Error, 2)
				t.reportLast("invalid number literal", diag.CodeSyntax)
				return
			}
			t.emit(t.withLong(kind, &j), j-start)
			return
		}
	}

	for i < len(text) && isDigit(text[i]) {
		i++
	}
	intEnd := i
	isFloat := false
	if i < len(text) && text[i] == '.' {
		isFloat = true
		i++
		for i < len(text) && isDigit(text[i]) {
			i++
		}
	}
	if i < len(text) && (text[i] == 'e' || text[i] == 'E') {
		j := i + 1
		if j < len(text) && (text[j] == '+' || text[j] == '-') {
			j++
		}
		if j < len(text) && isDigit(text[j]) {
			for j < len(text) && isDigit(text[j]) {
				j++
			}
			i = j
			isFloat = true
		}
	}
	if i < len(text) && (text[i] == 'j' || text[i] == 'J') {
		t.emit(token.Imaginary, i+1-start)
		return
	}
	if isFloat {
		t.emit(token.Float, i-start)
		return
	}

	digits := text[start:intEnd]
	if len(digits) > 1 && digits[0] == '0' {
		if t.version.Is2x() {
			for k := 1; k < len(digits); k++ {
				if !isOctalDigit(digits[k]) {
					t.emit(token.Error, intEnd-start)
					t.reportLast("invalid token", diag.CodeSyntax)
					return
				}
			}
			t.emit(t.withLong(token.Octal, &intEnd), intEnd-start)
			return
		}
		for k := 1; k < len(digits); k++ {
			if digits[k] != '0' {
				t.emit(token.Error, intEnd-start)
				t.reportLast("invalid token", diag.CodeSyntax)
				return
			}
		}
	}
	t.emit(t.withLong(token.Decimal, &intEnd), intEnd-start)
}

// withLong consumes an L suffix at *end in 2.x and returns the long
// variant of kind.
func (t *Tokenizer) withLong(kind token.Kind, end *int) token.Kind {
	if !t.version.Is2x() || *end >= len(t.text) || (t.text[*end] != 'l' && t.text[*end] != 'L') {
		return kind
	}
	*end++
	switch kind {
	case token.Decimal:
		return token.DecimalLong
	case token.Hex:
		return token.HexLong
	case token.Octal:
		return token.OctalLong
	case token.Binary:
		return token.BinaryLong
	}
	return kind
}

// operator lists the kinds reachable from one leading character:
// alone, followed by '=', doubled, and doubled followed by '='.
type operator struct {
	single, equal, double, doubleEqual token.Kind
}

var operators = map[byte]operator{
	'+': {token.Add, token.AddEqual, token.EOF, token.EOF},
	'-': {token.Subtract, token.SubtractEqual, token.EOF, token.EOF},
	'*': {token.Multiply, token.MultiplyEqual, token.Power, token.PowerEqual},
	'/': {token.Divide, token.DivideEqual, token.FloorDivide, token.FloorDivideEqual},
	'%': {token.Mod, token.ModEqual, token.EOF, token.EOF},
	'@': {token.MatMultiply, token.MatMultiplyEqual, token.EOF, token.EOF},
	'<': {token.LessThan, token.LessThanOrEqual, token.LeftShift, token.LeftShiftEqual},
	'>': {token.GreaterThan, token.GreaterThanOrEqual, token.RightShift, token.RightShiftEqual},
	'&': {token.BitwiseAnd, token.BitwiseAndEqual, token.EOF, token.EOF},
	'|': {token.BitwiseOr, token.BitwiseOrEqual, token.EOF, token.EOF},
	'^': {token.ExclusiveOr, token.ExclusiveOrEqual, token.EOF, token.EOF},
	'=': {token.Assign, token.Equals, token.EOF, token.EOF},
	'!': {token.Error, token.NotEquals, token.EOF, token.EOF},
	'~': {token.Twiddle, token.EOF, token.EOF, token.EOF},
	'.': {token.Dot, token.EOF, token.EOF, token.EOF},
	',': {token.Comma, token.EOF, token.EOF, token.EOF},
	':': {token.Colon, token.EOF, token.EOF, token.EOF},
	';': {token.Semicolon, token.EOF, token.EOF, token.EOF},
	'`': {token.BackQuote, token.EOF, token.EOF, token.EOF},
}

func (t *Tokenizer) scanOperator() {
	c := t.text[t.pos]
	switch c {
	case '(':
		t.open(token.RightParenthesis, token.LeftParenthesis)
		return
	case '[':
		t.open(token.RightBracket, token.LeftBracket)
		return
	case '{':
		t.open(token.RightBrace, token.LeftBrace)
		return
	case ')', ']', '}':
		t.close(c)
		return
	}

	c2, c3 := t.peek(1), t.peek(2)
	switch {
	case c == '<' && c2 == '>':
		t.emit(token.LessThanGreaterThan, 2)
		return
	case c == '-' && c2 == '>':
		t.emit(token.Arrow, 2)
		return
	case c == '.' && c2 == '.' && c3 == '.':
		t.emit(token.Ellipsis, 3)
		return
	}

	op, ok := operators[c]
	if !ok {
		r, size := utf8.DecodeRuneInString(t.text[t.pos:])
		t.emit(token.Error, size)
		t.reportLast(fmt.Sprintf("invalid character %q (U+%04X)", r, r), diag.CodeSyntax)
		return
	}
	switch {
	case c2 == c && op.double != token.EOF:
		if c3 == '=' && op.doubleEqual != token.EOF {
			t.emit(op.doubleEqual, 3)
		} else {
			t.emit(op.double, 2)
		}
	case c2 == '=' && op.equal != token.EOF:
		t.emit(op.equal, 2)
	default:
		t.emit(op.single, 1)
		if op.single == token.Error {
			t.reportLast("invalid syntax", diag.CodeSyntax)
		}
	}
}

func (t *Tokenizer) open(closer, kind token.Kind) {
	t.emit(kind, 1)
	t.nesting = append(t.nesting, closer)
}

// close pops the nesting stack down to the matching opener. A closer with
// no opener leaves the stack alone; the parser reports it.
func (t *Tokenizer) close(c byte) {
	var kind token.Kind
	switch c {
	case ')':
		kind = token.RightParenthesis
	case ']':
		kind = token.RightBracket
	default:
		kind = token.RightBrace
	}
	t.emit(kind, 1)
	for i := len(t.nesting) - 1; i >= 0; i-- {
		if t.nesting[i] == kind {
			t.nesting = t.nesting[:i]
			return
		}
	}
}

func newlineLen(s string) int {
	switch {
	case len(s) >= 2 && s[0] == '\r' && s[1] == '\n':
		return 2
	case len(s) >= 1 && (s[0] == '\n' || s[0] == '\r'):
		return 1
	}
	return 0
}

func endsWithNewline(s string) bool {
	return len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r')
}

func isBlank(c byte) bool      { return c == ' ' || c == '\t' || c == '\f' }
func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isOctalDigit(c byte) bool { return c >= '0' && c <= '7' }
func isBinaryDigit(c byte) bool {
	return c == '0' || c == '1'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isASCIIIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isASCIIIdent(c byte) bool {
	return isASCIIIdentStart(c) || isDigit(c)
}

func isIdentRune(r rune, first bool) bool {
	if r == utf8.RuneError {
		return false
	}
	if unicode.In(r, unicode.L, unicode.Nl, unicode.Other_ID_Start) {
		return true
	}
	return !first && unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
}
