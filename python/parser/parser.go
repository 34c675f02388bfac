package parser

import (
	"context"
	"fmt"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/pyfront/python/ast"
	"github.com/dhamidi/pyfront/python/diag"
	"github.com/dhamidi/pyfront/python/token"
	"github.com/dhamidi/pyfront/python/tokenizer"
)

// DefaultMaxDepth bounds statement and expression nesting.
const DefaultMaxDepth = 200

type Option func(*Parser)

// WithVersion parses with a grammar other than the one the text was
// tokenized for.
func WithVersion(v token.LanguageVersion) Option {
	return func(p *Parser) {
		p.version = v
	}
}

// WithFuture starts the parse with future features already enabled.
func WithFuture(f FutureOptions) Option {
	return func(p *Parser) {
		p.future = f
	}
}

// WithIndentationSeverity sets the severity of "inconsistent whitespace".
func WithIndentationSeverity(s diag.Severity) Option {
	return func(p *Parser) {
		p.indentSeverity = s
	}
}

func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		p.maxDepth = n
	}
}

func WithLogger(log commonlog.Logger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// AST is the result of a parse.
type AST struct {
	Root         *ast.Module
	Tokenization *tokenizer.Tokenization
	Features     LanguageFeatures
	Diagnostics  []diag.Diagnostic
}

// Text returns the core source text of n.
func (a *AST) Text(n ast.Node) string {
	return a.Tokenization.Text(n.Span())
}

// FullText returns the source text of n including its trivia.
func (a *AST) FullText(n ast.Node) string {
	return a.Tokenization.Text(n.FullSpan())
}

// bailout abandons the current statement. It never escapes Parse.
type bailout struct{}

type cancelled struct{ err error }

type Parser struct {
	tz             *tokenizer.Tokenization
	version        token.LanguageVersion
	future         FutureOptions
	indentSeverity diag.Severity
	maxDepth       int
	log            commonlog.Logger

	ctx      context.Context
	sink     diag.ErrorSink
	diags    []diag.Diagnostic
	features LanguageFeatures

	toks    []token.Token
	pos     int
	la      []int
	lastEnd token.SourceLocation

	depth          int
	tooDeep        bool
	lastError      string
	scopes         []*scope
	indents        []indent
	stmtIndent     indent
	reportedIndent map[int]bool
	futureAllowed  bool
	sawDocstring   bool
}

// New prepares a parser over tz. Parse may be called more than once.
func New(tz *tokenizer.Tokenization, opts ...Option) *Parser {
	p := &Parser{
		tz:             tz,
		version:        tz.Version(),
		indentSeverity: tz.Options().IndentationInconsistency,
		maxDepth:       DefaultMaxDepth,
		log:            commonlog.GetLogger("pyfront.parser"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseString tokenizes and parses src in one step.
func ParseString(src string, opts ...Option) (*AST, []diag.Diagnostic) {
	probe := &Parser{version: token.Latest}
	for _, opt := range opts {
		opt(probe)
	}
	tz := tokenizer.TokenizeString(src, probe.version, tokenizer.Options{})
	tree, _ := New(tz, opts...).Parse(context.Background(), nil)
	return tree, tree.Diagnostics
}

// Parse builds the tree. Malformed input never fails the parse; the only
// error is the context's.
func (p *Parser) Parse(ctx context.Context, sink diag.ErrorSink) (tree *AST, err error) {
	p.reset(ctx, sink)
	for _, d := range p.tz.Errors() {
		p.diags = append(p.diags, d)
		if sink != nil {
			sink.Add(d.Message, d.Span, d.Code, d.Severity)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			c, ok := r.(cancelled)
			if !ok {
				panic(r)
			}
			tree, err = nil, c.err
		}
	}()

	root := p.parseModule()
	ast.FreezeAll(root)
	p.log.Debugf("parsed %s: %d diagnostics", p.moniker(), len(p.diags))
	return &AST{
		Root:         root,
		Tokenization: p.tz,
		Features:     p.features,
		Diagnostics:  p.diags,
	}, nil
}

func (p *Parser) reset(ctx context.Context, sink diag.ErrorSink) {
	if ctx == nil {
		ctx = context.Background()
	}
	p.ctx = ctx
	p.sink = sink
	p.diags = nil
	p.features = LanguageFeatures{Version: p.version, Future: p.future}
	p.toks = p.tz.Tokens()
	p.pos = 0
	p.la = p.la[:0]
	p.lastEnd = p.toks[0].Span.Start
	p.depth = 0
	p.tooDeep = false
	p.scopes = nil
	p.indents = nil
	p.stmtIndent = indent{}
	p.reportedIndent = map[int]bool{}
	p.futureAllowed = true
	p.sawDocstring = false
}

func (p *Parser) moniker() string {
	if m := p.tz.Moniker(); m != "" {
		return m
	}
	return "<string>"
}

func (p *Parser) parseModule() *ast.Module {
	p.pushScope(nil, scopeModule)
	p.indents = []indent{{}}

	start := p.loc()
	stmts := p.parseStatements(indent{})
	body := ast.NewSuite(stmts)
	p.finish(body, token.NoSpan, start)

	last := len(p.toks) - 1
	p.skipTo(last)
	p.lastEnd = p.toks[last].Span.End
	mod := ast.NewModule(body)
	p.finish(mod, token.NoSpan, p.toks[0].Span.Start)
	return mod
}

// report records a diagnostic.
func (p *Parser) report(msg string, span token.SourceSpan, code int, sev diag.Severity) {
	if sev == diag.Ignore {
		return
	}
	p.diags = append(p.diags, diag.Diagnostic{Message: msg, Span: span, Code: code, Severity: sev})
	if p.sink != nil {
		p.sink.Add(msg, span, code, sev)
	}
}

func (p *Parser) syntaxError(msg string, span token.SourceSpan) {
	p.lastError = msg
	p.report(msg, span, diag.CodeSyntax, diag.Error)
}

// requires reports a version-compatibility problem unless ok.
func (p *Parser) requires(ok bool, span token.SourceSpan, msg string) {
	if !ok {
		p.report(msg, span, diag.CodeVersion, diag.Error)
	}
}

// since reports a construct used before version v introduced it.
func (p *Parser) since(v token.LanguageVersion, ok bool, span token.SourceSpan, what string) {
	p.requires(ok, span, fmt.Sprintf("%s requires Python %s or later", what, v))
}

// dropped reports a construct that the selected 3.x version removed.
func (p *Parser) dropped(ok bool, span token.SourceSpan, what string) {
	p.requires(ok, span, fmt.Sprintf("%s is not supported in Python %s", what, p.version))
}

func (p *Parser) contextError(msg string, span token.SourceSpan) {
	p.report(msg, span, diag.CodeContext, diag.Error)
}

// fail reports msg at span and abandons the statement.
func (p *Parser) fail(msg string, span token.SourceSpan) {
	p.syntaxError(msg, span)
	panic(bailout{})
}

// unexpected abandons the statement at the next token. Error tokens were
// already reported by the tokenizer.
func (p *Parser) unexpected() {
	tok := p.peek()
	switch tok.Kind {
	case token.Error, token.ErrorIncompleteString:
		p.lastError = "invalid token"
		panic(bailout{})
	}
	p.fail(unexpectedMessage(tok.Kind, p.text(tok)), tok.Span)
}

func unexpectedMessage(kind token.Kind, text string) string {
	switch {
	case kind == token.EOF:
		return "unexpected end of file"
	case kind == token.NewLine:
		return "unexpected end of line"
	case kind == token.SignificantWhitespace && text != "":
		return "unexpected indent"
	case text == "":
		return "invalid syntax"
	}
	return fmt.Sprintf("unexpected token '%s'", text)
}

func (p *Parser) checkCancel() {
	if err := p.ctx.Err(); err != nil {
		panic(cancelled{err})
	}
}

func (p *Parser) enter() {
	p.depth++
	if p.depth > p.maxDepth && p.maxDepth > 0 {
		if !p.tooDeep {
			p.tooDeep = true
			p.syntaxError("nesting too deep", p.peek().Span)
		}
		panic(bailout{})
	}
}

func (p *Parser) leave() { p.depth-- }

// Cursor.

// peek returns the next token that is not trivia.
func (p *Parser) peek() token.Token { return p.peekN(0) }

// peekN looks n tokens past the next one, growing the lookahead buffer
// as needed. Trivia is skipped; SignificantWhitespace and NewLine are not.
func (p *Parser) peekN(n int) token.Token {
	last := len(p.toks) - 1
	for len(p.la) <= n {
		i := p.pos
		if len(p.la) > 0 {
			i = p.la[len(p.la)-1] + 1
		}
		for i < last && p.toks[i].Kind.IsTrivia() {
			i++
		}
		if i > last {
			i = last
		}
		p.la = append(p.la, i)
	}
	return p.toks[p.la[n]]
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

// readTrivia consumes the trivia before the next token and returns its
// span, or NoSpan if there was none.
func (p *Parser) readTrivia() token.SourceSpan {
	start := p.pos
	last := len(p.toks) - 1
	for p.pos < last && p.toks[p.pos].Kind.IsTrivia() {
		p.pos++
	}
	if p.pos == start {
		return token.NoSpan
	}
	p.lastEnd = p.toks[p.pos-1].Span.End
	return token.NewSpan(p.toks[start].Span.Start, p.lastEnd)
}

// advance consumes the next token together with the trivia before it.
// EOF is never consumed.
func (p *Parser) advance() token.Token {
	p.readTrivia()
	tok := p.toks[p.pos]
	if tok.Kind == token.EOF {
		return tok
	}
	p.pos++
	p.lastEnd = tok.Span.End
	if len(p.la) > 0 {
		p.la = p.la[1:]
	}
	return tok
}

func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(k token.Kind) token.Token {
	if !p.at(k) {
		tok := p.peek()
		if tok.Kind == token.Error || tok.Kind == token.ErrorIncompleteString {
			p.unexpected()
		}
		p.fail(fmt.Sprintf("expected '%s'", k), tok.Span)
	}
	return p.advance()
}

// skipTo moves the cursor to token index i, consuming everything between.
func (p *Parser) skipTo(i int) {
	if i <= p.pos {
		return
	}
	p.pos = i
	p.lastEnd = p.toks[i-1].Span.End
	for len(p.la) > 0 && p.la[0] < i {
		p.la = p.la[1:]
	}
}

// loc is the start of the next unconsumed token.
func (p *Parser) loc() token.SourceLocation { return p.toks[p.pos].Span.Start }

func (p *Parser) text(tok token.Token) string { return p.tz.TokenText(tok) }

// begin reads the trivia before a node that starts with its own token.
func (p *Parser) begin() (token.SourceSpan, token.SourceLocation) {
	before := p.readTrivia()
	return before, p.loc()
}

// hoist starts a node at its first child, taking over the child's
// leading trivia.
func (p *Parser) hoist(first ast.Node) (token.SourceSpan, token.SourceLocation) {
	before := first.BeforeNode()
	first.SetBeforeNode(token.NoSpan)
	return before, first.Span().Start
}

// finish sets the spans of a node that ends at the last consumed token.
func (p *Parser) finish(n ast.Node, before token.SourceSpan, start token.SourceLocation) {
	n.SetBeforeNode(before)
	n.SetSpan(token.NewSpan(start, p.lastEnd))
}

// Scopes.

type scopeKind int

const (
	scopeModule scopeKind = iota
	scopeFunction
	scopeClass
	scopeLambda
)

type scope struct {
	node    ast.Scope
	kind    scopeKind
	async   bool
	loops   int
	finally int
	returns []token.SourceSpan
}

func (p *Parser) pushScope(node ast.Scope, kind scopeKind) *scope {
	s := &scope{node: node, kind: kind}
	p.scopes = append(p.scopes, s)
	return s
}

// popScope closes the innermost scope and runs the checks that need the
// whole body.
func (p *Parser) popScope() {
	s := p.scopes[len(p.scopes)-1]
	p.scopes = p.scopes[:len(p.scopes)-1]
	if s.kind == scopeFunction && s.node.IsGenerator() && !p.features.HasReturnValueInGenerator() {
		for _, span := range s.returns {
			p.contextError("'return' with argument inside generator", span)
		}
	}
}

func (p *Parser) scope() *scope { return p.scopes[len(p.scopes)-1] }

// functionScope returns the innermost function or lambda scope that is
// not hidden by a class, or nil.
func (p *Parser) functionScope() *scope {
	s := p.scope()
	if s.kind == scopeFunction || s.kind == scopeLambda {
		return s
	}
	return nil
}

func (p *Parser) inAsyncFunction() bool {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		switch s := p.scopes[i]; s.kind {
		case scopeFunction:
			return s.async
		case scopeClass, scopeModule:
			return false
		}
	}
	return false
}

// declare records name as assigned in the current scope.
func (p *Parser) declare(name string) {
	s := p.scope()
	if s.node == nil || name == "" {
		return
	}
	if s.node.IsGlobal(name) || s.node.IsNonlocal(name) {
		return
	}
	s.node.AddLocal(name)
}

// checkpoint is the parser state restored when a statement is abandoned.
type checkpoint struct {
	scopes     int
	indents    int
	depth      int
	loops      int
	finally    int
	stmtIndent indent
}

func (p *Parser) save() checkpoint {
	s := p.scope()
	return checkpoint{
		scopes:     len(p.scopes),
		indents:    len(p.indents),
		depth:      p.depth,
		loops:      s.loops,
		finally:    s.finally,
		stmtIndent: p.stmtIndent,
	}
}

func (p *Parser) restore(c checkpoint) {
	p.scopes = p.scopes[:c.scopes]
	p.indents = p.indents[:c.indents]
	p.depth = c.depth
	s := p.scope()
	s.loops = c.loops
	s.finally = c.finally
	p.stmtIndent = c.stmtIndent
}
