package parser

import (
	"github.com/dhamidi/pyfront/python/ast"
	"github.com/dhamidi/pyfront/python/diag"
	"github.com/dhamidi/pyfront/python/token"
)

// indent is the leading whitespace of a block.
type indent struct {
	width int
	text  string
}

// measure returns the column width of leading whitespace. Tabs count 8
// and a form feed resets the count.
func measure(ws string) int {
	n := 0
	for i := 0; i < len(ws); i++ {
		switch ws[i] {
		case '\t':
			n += 8
		case '\f':
			n = 0
		default:
			n++
		}
	}
	return n
}

func (p *Parser) indentOf(ws int) indent {
	text := p.text(p.toks[ws])
	return indent{width: measure(text), text: text}
}

// lineFrom finds the first line at or after token index i holding a
// significant token. It returns the index of that line's
// SignificantWhitespace token, or -1 when i is not at a line start,
// together with the line's first significant token.
func (p *Parser) lineFrom(i int) (int, token.Token) {
	last := len(p.toks) - 1
	for {
		for i < last && p.toks[i].Kind.IsTrivia() {
			i++
		}
		tok := p.toks[i]
		if tok.Kind == token.NewLine {
			i++
			continue
		}
		if tok.Kind != token.SignificantWhitespace {
			return -1, tok
		}
		j := i + 1
		for j < last && p.toks[j].Kind.IsTrivia() {
			j++
		}
		if p.toks[j].Kind == token.NewLine {
			i = j + 1
			continue
		}
		return i, p.toks[j]
	}
}

func (p *Parser) nextLine() (int, token.Token) { return p.lineFrom(p.pos) }

// readLeading consumes everything up to and including the
// SignificantWhitespace token ws, plus trivia, and returns its span.
func (p *Parser) readLeading(ws int) token.SourceSpan {
	from := p.pos
	if ws >= 0 {
		p.skipTo(ws + 1)
	}
	p.readTrivia()
	if p.pos == from {
		return token.NoSpan
	}
	return token.NewSpan(p.toks[from].Span.Start, p.lastEnd)
}

func (p *Parser) isOuterIndent(width int) bool {
	for _, in := range p.indents[:len(p.indents)-1] {
		if in.width == width {
			return true
		}
	}
	return false
}

func (p *Parser) indentError(ws int, msg string) {
	if p.reportedIndent[ws] {
		return
	}
	p.reportedIndent[ws] = true
	p.report(msg, p.toks[ws].Span, diag.CodeIndentation, diag.Error)
}

// checkConsistent reports indentation of the right width spelled
// differently from its block.
func (p *Parser) checkConsistent(ws int, level indent) {
	if in := p.indentOf(ws); in.width == level.width && in.text != level.text {
		p.report("inconsistent whitespace", p.toks[ws].Span, diag.CodeTab, p.indentSeverity)
	}
}

// parseStatements reads the statements of a block whose lines are
// indented to level. It stops at a dedent or the end of input.
func (p *Parser) parseStatements(level indent) []ast.Statement {
	var stmts []ast.Statement
	for {
		p.checkCancel()
		ws, first := p.nextLine()
		if first.Kind == token.EOF {
			return stmts
		}
		if ws >= 0 {
			in := p.indentOf(ws)
			switch {
			case in.width < level.width:
				if !p.isOuterIndent(in.width) {
					p.indentError(ws, "unindent does not match any outer indentation level")
				}
				return stmts
			case in.width > level.width:
				p.indentError(ws, "unexpected indent")
			default:
				p.checkConsistent(ws, level)
			}
			p.stmtIndent = in
		}
		stmts = p.parseLine(ws, stmts)
	}
}

// parseLine parses the statements of one logical line and its
// terminator.
func (p *Parser) parseLine(ws int, stmts []ast.Statement) []ast.Statement {
	stmts = append(stmts, p.parseStatement(ws))
	for {
		switch p.peek().Kind {
		case token.Semicolon:
			p.advance()
			if k := p.peek().Kind; k == token.NewLine || k == token.EOF {
				p.eat(token.NewLine)
				return stmts
			}
			stmts = append(stmts, p.parseStatement(-1))
		case token.NewLine:
			p.advance()
			return stmts
		default:
			return stmts
		}
	}
}

// parseBody parses the suite after the colon of a compound statement
// whose header is indented to level.
func (p *Parser) parseBody(level indent) *ast.SuiteStatement {
	k := p.peek().Kind
	if k != token.NewLine && k != token.EOF {
		start := p.loc()
		suite := ast.NewSuite(p.parseLine(-1, nil))
		p.finish(suite, token.NoSpan, start)
		return suite
	}
	if !p.blockFollows(level) {
		next := p.peek()
		if k == token.NewLine {
			_, next = p.lineFrom(p.la[0] + 1)
		}
		p.report("expected an indented block", next.Span, diag.CodeIndentation, diag.Error)
		empty := ast.NewEmptyStatement()
		empty.SetSpan(token.EmptySpan(p.lastEnd))
		suite := ast.NewSuite([]ast.Statement{empty})
		suite.SetSpan(token.EmptySpan(p.lastEnd))
		return suite
	}
	p.advance()
	return p.parseBlock()
}

// blockFollows reports whether the line after the pending NewLine is
// indented deeper than level.
func (p *Parser) blockFollows(level indent) bool {
	if !p.at(token.NewLine) {
		return false
	}
	ws, first := p.lineFrom(p.la[0] + 1)
	return ws >= 0 && first.Kind != token.EOF && p.indentOf(ws).width > level.width
}

// parseBlock parses an indented block starting at the next line.
func (p *Parser) parseBlock() *ast.SuiteStatement {
	start := p.loc()
	ws, _ := p.nextLine()
	in := p.indentOf(ws)
	p.indents = append(p.indents, in)
	stmts := p.parseStatements(in)
	p.indents = p.indents[:len(p.indents)-1]
	suite := ast.NewSuite(stmts)
	p.finish(suite, token.NoSpan, start)
	return suite
}

// clauseAhead reports whether the next line continues a compound
// statement at level with one of kinds, returning its whitespace token.
func (p *Parser) clauseAhead(level indent, kinds ...token.Kind) (int, bool) {
	ws, first := p.nextLine()
	if ws < 0 || p.indentOf(ws).width != level.width {
		return -1, false
	}
	for _, k := range kinds {
		if first.Kind == k {
			p.checkConsistent(ws, level)
			return ws, true
		}
	}
	return -1, false
}

// isSimple reports whether s ends at its line terminator.
func isSimple(s ast.Statement) bool {
	switch s := s.(type) {
	case *ast.IfStatement, *ast.WhileStatement, *ast.ForStatement, *ast.TryStatement,
		*ast.FunctionDefinition, *ast.ClassDefinition, *ast.WithStatement,
		*ast.DecoratorStatement:
		return false
	case *ast.ErrorStatement:
		return s.Body() == nil
	}
	return true
}

var compoundKeywords = map[token.Kind]bool{
	token.KeywordIf:      true,
	token.KeywordElif:    true,
	token.KeywordElse:    true,
	token.KeywordWhile:   true,
	token.KeywordFor:     true,
	token.KeywordTry:     true,
	token.KeywordExcept:  true,
	token.KeywordFinally: true,
	token.KeywordWith:    true,
	token.KeywordDef:     true,
	token.KeywordClass:   true,
	token.KeywordAsync:   true,
}

// parseStatement parses one statement. ws is the SignificantWhitespace
// token opening its line, or -1 after a semicolon or colon.
func (p *Parser) parseStatement(ws int) (stmt ast.Statement) {
	before := p.readLeading(ws)
	start := p.loc()
	first := p.peek()
	p.trackFuture(first)
	saved := p.save()
	p.tooDeep = false

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(bailout); !ok {
			panic(r)
		}
		p.restore(saved)
		stmt = p.recoverStatement(first, before, start)
	}()

	p.enter()
	stmt = p.parseStatementKind(first)
	p.leave()
	if isSimple(stmt) {
		if !p.peek().Kind.IsEndStatement() {
			p.unexpected()
		}
		stmt.SetAfterNode(p.readTrivia())
	}
	stmt.SetBeforeNode(before)
	return stmt
}

// recoverStatement skips to the end of the statement and covers the
// skipped text with an ErrorStatement. A broken compound header keeps
// the indented block after it as the body.
func (p *Parser) recoverStatement(first token.Token, before token.SourceSpan, start token.SourceLocation) ast.Statement {
	var last token.Kind
	for {
		k := p.peek().Kind
		if k.IsEndStatement() || k == token.SignificantWhitespace {
			break
		}
		last = p.advance().Kind
	}
	es := ast.NewErrorStatement(p.lastError)
	header := last == token.Colon || compoundKeywords[first.Kind]
	if header && !p.tooDeep && p.blockFollows(p.stmtIndent) {
		p.advance()
		es.SetBody(p.parseBlock())
		p.finish(es, before, start)
		return es
	}
	p.finish(es, before, start)
	es.SetAfterNode(p.readTrivia())
	return es
}

// trackFuture closes the window in which __future__ imports are legal.
func (p *Parser) trackFuture(first token.Token) {
	if !p.futureAllowed {
		return
	}
	top := len(p.indents) == 1 && len(p.scopes) == 1
	switch {
	case top && first.Kind == token.KeywordFrom:
	case top && first.Kind.IsOpenQuote() && !p.sawDocstring:
		p.sawDocstring = true
	default:
		p.futureAllowed = false
	}
}

func (p *Parser) parseStatementKind(first token.Token) ast.Statement {
	f := p.features
	switch first.Kind {
	case token.KeywordIf:
		return p.parseIf()
	case token.KeywordWhile:
		return p.parseWhile()
	case token.KeywordFor:
		return p.parseFor(false)
	case token.KeywordTry:
		return p.parseTry()
	case token.KeywordWith:
		return p.parseWith(false)
	case token.KeywordDef:
		return p.parseFunctionDefinition(false)
	case token.KeywordClass:
		return p.parseClassDefinition()
	case token.MatMultiply:
		return p.parseDecorated()
	case token.KeywordAsync:
		switch p.peekN(1).Kind {
		case token.KeywordDef:
			return p.parseFunctionDefinition(true)
		case token.KeywordFor:
			return p.parseFor(true)
		case token.KeywordWith:
			return p.parseWith(true)
		}
	case token.KeywordPrint:
		if !f.HasPrintFunction() {
			return p.parsePrint()
		}
	case token.KeywordExec:
		if f.HasExecStatement() {
			return p.parseExec()
		}
	case token.KeywordNonlocal:
		if f.HasNonlocal() {
			return p.parseNonlocal()
		}
	case token.KeywordPass:
		return p.parseKeywordStatement(ast.NewPass())
	case token.KeywordBreak:
		return p.parseBreak()
	case token.KeywordContinue:
		return p.parseContinue()
	case token.KeywordReturn:
		return p.parseReturn()
	case token.KeywordRaise:
		return p.parseRaise()
	case token.KeywordGlobal:
		return p.parseGlobal()
	case token.KeywordDel:
		return p.parseDel()
	case token.KeywordAssert:
		return p.parseAssert()
	case token.KeywordImport:
		return p.parseImport()
	case token.KeywordFrom:
		return p.parseFromImport()
	case token.KeywordElif, token.KeywordElse, token.KeywordExcept, token.KeywordFinally:
		p.fail("invalid syntax", first.Span)
	}
	return p.parseExpressionStatement()
}
