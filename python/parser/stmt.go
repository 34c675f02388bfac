package parser

import (
	"fmt"

	"github.com/dhamidi/pyfront/python/ast"
	"github.com/dhamidi/pyfront/python/token"
)

// parseKeywordStatement consumes a statement that is a single keyword.
func (p *Parser) parseKeywordStatement(stmt ast.Statement) ast.Statement {
	start := p.loc()
	p.advance()
	p.finish(stmt, token.NoSpan, start)
	return stmt
}

func (p *Parser) parseBreak() ast.Statement {
	tok := p.peek()
	if p.scope().loops == 0 {
		p.contextError("'break' outside loop", tok.Span)
	}
	return p.parseKeywordStatement(ast.NewBreak())
}

func (p *Parser) parseContinue() ast.Statement {
	tok := p.peek()
	if s := p.scope(); s.loops == 0 || s.finally > 0 {
		p.contextError("'continue' not properly in loop", tok.Span)
	}
	return p.parseKeywordStatement(ast.NewContinue())
}

// loopBody parses the body of a while or for statement.
func (p *Parser) loopBody(level indent) *ast.SuiteStatement {
	s := p.scope()
	finally := s.finally
	s.loops++
	s.finally = 0
	body := p.parseBody(level)
	s.loops--
	s.finally = finally
	return body
}

// parseElse parses an else clause aligned with level, if one follows.
func (p *Parser) parseElse(level indent) *ast.Clause {
	ws, ok := p.clauseAhead(level, token.KeywordElse)
	if !ok {
		return nil
	}
	before := p.readLeading(ws)
	start := p.loc()
	p.advance()
	p.expect(token.Colon)
	c := ast.NewClause(token.KeywordElse, nil, nil, p.parseBody(level))
	p.finish(c, before, start)
	return c
}

func (p *Parser) parseIf() ast.Statement {
	level := p.stmtIndent
	start := p.loc()
	var tests []*ast.Clause
	before := token.NoSpan
	for {
		cstart := p.loc()
		kw := p.advance()
		test := p.parseTest()
		p.expect(token.Colon)
		c := ast.NewClause(kw.Kind, test, nil, p.parseBody(level))
		p.finish(c, before, cstart)
		tests = append(tests, c)

		ws, ok := p.clauseAhead(level, token.KeywordElif)
		if !ok {
			break
		}
		before = p.readLeading(ws)
	}
	stmt := ast.NewIf(tests, p.parseElse(level))
	p.finish(stmt, token.NoSpan, start)
	return stmt
}

func (p *Parser) parseWhile() ast.Statement {
	level := p.stmtIndent
	start := p.loc()
	p.advance()
	test := p.parseTest()
	p.expect(token.Colon)
	body := p.loopBody(level)
	stmt := ast.NewWhile(test, body, p.parseElse(level))
	p.finish(stmt, token.NoSpan, start)
	return stmt
}

func (p *Parser) parseFor(async bool) ast.Statement {
	level := p.stmtIndent
	start := p.loc()
	if async {
		tok := p.advance()
		p.since(token.V35, p.features.HasAsyncAwait(), tok.Span, "'async for'")
		p.checkAsyncContext(tok.Span, "'async for'")
	}
	p.expect(token.KeywordFor)
	target := p.parseTargetList()
	p.checkAssignTarget(target)
	p.expect(token.KeywordIn)
	iter := p.parseTestList(true)
	p.expect(token.Colon)
	body := p.loopBody(level)
	stmt := ast.NewFor(target, iter, body, p.parseElse(level), async)
	p.finish(stmt, token.NoSpan, start)
	return stmt
}

func (p *Parser) checkAsyncContext(span token.SourceSpan, what string) {
	if !p.inAsyncFunction() {
		p.contextError(what+" outside async function", span)
	}
}

func (p *Parser) parseTry() ast.Statement {
	level := p.stmtIndent
	start := p.loc()
	p.advance()
	p.expect(token.Colon)
	body := p.parseBody(level)

	var handlers []*ast.Clause
	var defaultHandler *ast.Clause
	for {
		ws, ok := p.clauseAhead(level, token.KeywordExcept)
		if !ok {
			break
		}
		before := p.readLeading(ws)
		cstart := p.loc()
		p.advance()
		if defaultHandler != nil {
			p.syntaxError("default 'except:' must be last", defaultHandler.Span())
			defaultHandler = nil
		}
		var test, target ast.Expression
		if !p.at(token.Colon) {
			test = p.parseTest()
			switch p.peek().Kind {
			case token.KeywordAs:
				tok := p.advance()
				p.since(token.V26, p.features.HasExceptAs(), tok.Span, "'except ... as'")
				target = p.parseTest()
				p.checkAssignTarget(target)
			case token.Comma:
				tok := p.advance()
				p.dropped(p.features.is2x(), tok.Span, "'except X, e'")
				target = p.parseTest()
				p.checkAssignTarget(target)
			}
		}
		p.expect(token.Colon)
		c := ast.NewClause(token.KeywordExcept, test, target, p.parseBody(level))
		p.finish(c, before, cstart)
		if test == nil {
			defaultHandler = c
		}
		handlers = append(handlers, c)
	}

	var elseCase *ast.Clause
	if len(handlers) > 0 {
		elseCase = p.parseElse(level)
	}

	var finally *ast.Clause
	if ws, ok := p.clauseAhead(level, token.KeywordFinally); ok {
		before := p.readLeading(ws)
		cstart := p.loc()
		kw := p.advance()
		if len(handlers) > 0 {
			p.since(token.V25, p.features.HasTryExceptFinally(), kw.Span, "'try' with both 'except' and 'finally'")
		}
		p.expect(token.Colon)
		s := p.scope()
		s.finally++
		fbody := p.parseBody(level)
		s.finally--
		finally = ast.NewClause(token.KeywordFinally, nil, nil, fbody)
		p.finish(finally, before, cstart)
	}

	if len(handlers) == 0 && finally == nil {
		_, next := p.nextLine()
		p.syntaxError("expected 'except' or 'finally' block", next.Span)
	}
	stmt := ast.NewTry(body, handlers, elseCase, finally)
	p.finish(stmt, token.NoSpan, start)
	return stmt
}

func (p *Parser) parseWith(async bool) ast.Statement {
	level := p.stmtIndent
	start := p.loc()
	if async {
		tok := p.advance()
		p.since(token.V35, p.features.HasAsyncAwait(), tok.Span, "'async with'")
		p.checkAsyncContext(tok.Span, "'async with'")
	}
	kw := p.expect(token.KeywordWith)
	p.since(token.V26, p.features.HasWith(), kw.Span, "'with' statement")
	var items []ast.Expression
	for {
		e := p.parseTest()
		if p.at(token.KeywordAs) {
			p.advance()
			target := p.parseExpr(5)
			p.checkAssignTarget(target)
			as := ast.NewAs(e, target)
			before, astart := p.hoist(e)
			p.finish(as, before, astart)
			e = as
		}
		items = append(items, e)
		if !p.at(token.Comma) {
			break
		}
		tok := p.advance()
		p.since(token.V27, p.features.atLeast(token.V27), tok.Span, "multiple context managers")
	}
	p.expect(token.Colon)
	stmt := ast.NewWith(items, p.parseBody(level), async)
	p.finish(stmt, token.NoSpan, start)
	return stmt
}

func (p *Parser) parseFunctionDefinition(async bool) ast.Statement {
	level := p.stmtIndent
	start := p.loc()
	if async {
		tok := p.advance()
		p.since(token.V35, p.features.HasAsyncAwait(), tok.Span, "'async def'")
	}
	p.expect(token.KeywordDef)
	name := p.parseName()
	p.expect(token.LeftParenthesis)
	params := p.parseParameters(token.RightParenthesis, false)
	p.closeGroup(token.RightParenthesis)
	var returns ast.Expression
	if p.at(token.Arrow) {
		tok := p.advance()
		p.since(token.V30, p.features.HasAnnotations(), tok.Span, "return annotation")
		returns = p.parseTest()
	}
	p.expect(token.Colon)

	fn := ast.NewFunctionDefinition(name, params, returns, async)
	p.declare(name.Name())
	s := p.pushScope(fn, scopeFunction)
	s.async = async
	for _, param := range params {
		p.declareParameter(param)
	}
	fn.SetBody(p.parseBody(level))
	p.popScope()
	p.finish(fn, token.NoSpan, start)
	return fn
}

func (p *Parser) parseClassDefinition() ast.Statement {
	level := p.stmtIndent
	start := p.loc()
	p.advance()
	name := p.parseName()
	var bases []*ast.Arg
	if p.at(token.LeftParenthesis) {
		p.advance()
		bases = p.parseArgs(token.RightParenthesis)
		p.closeGroup(token.RightParenthesis)
	}
	p.expect(token.Colon)

	class := ast.NewClassDefinition(name, bases)
	p.declare(name.Name())
	p.pushScope(class, scopeClass)
	class.SetBody(p.parseBody(level))
	p.popScope()
	p.finish(class, token.NoSpan, start)
	return class
}

// parseDecorated buffers decorator lines and attaches them to the
// definition that follows.
func (p *Parser) parseDecorated() ast.Statement {
	level := p.stmtIndent
	start := p.loc()
	var decorators []*ast.Decorator
	before := token.NoSpan
	for {
		dstart := p.loc()
		p.advance()
		d := ast.NewDecorator(p.parseTest())
		p.finish(d, before, dstart)
		decorators = append(decorators, d)
		if !p.peek().Kind.IsEndStatement() {
			p.unexpected()
		}
		d.SetAfterNode(p.readTrivia())
		p.eat(token.NewLine)

		ws, first := p.nextLine()
		if ws < 0 || p.indentOf(ws).width != level.width {
			return p.orphanDecorators(decorators, first, start)
		}
		kind := first.Kind
		if kind == token.KeywordAsync && p.lineToken(ws, 1).Kind == token.KeywordDef {
			kind = token.KeywordDef
		}
		switch kind {
		case token.MatMultiply:
			p.checkConsistent(ws, level)
			before = p.readLeading(ws)
			continue
		case token.KeywordDef, token.KeywordClass:
			p.checkConsistent(ws, level)
			inner := p.readLeading(ws)
			var def ast.Statement
			if kind == token.KeywordClass {
				p.since(token.V26, p.features.HasClassDecorators(), decorators[0].Span(), "class decorator")
				def = p.parseClassDefinition()
			} else {
				def = p.parseFunctionDefinition(first.Kind == token.KeywordAsync)
			}
			def.SetBeforeNode(inner)
			stmt := ast.NewDecoratorStatement(decorators, def)
			p.finish(stmt, token.NoSpan, start)
			return stmt
		}
		return p.orphanDecorators(decorators, first, start)
	}
}

func (p *Parser) orphanDecorators(decorators []*ast.Decorator, next token.Token, start token.SourceLocation) ast.Statement {
	p.syntaxError("expected function or class declaration after decorator", next.Span)
	stmt := ast.NewDecoratorStatement(decorators, nil)
	p.finish(stmt, token.NoSpan, start)
	return stmt
}

// lineToken returns the n-th significant token after the line's
// SignificantWhitespace token ws.
func (p *Parser) lineToken(ws, n int) token.Token {
	last := len(p.toks) - 1
	i := ws + 1
	for {
		for i < last && p.toks[i].Kind.IsTrivia() {
			i++
		}
		if n == 0 || i >= last {
			return p.toks[i]
		}
		n--
		i++
	}
}

func (p *Parser) parseReturn() ast.Statement {
	start := p.loc()
	kw := p.advance()
	s := p.scope()
	if s.kind != scopeFunction {
		p.contextError("'return' outside function", kw.Span)
	}
	var value ast.Expression
	if !p.peek().Kind.IsEndStatement() {
		value = p.parseTestList(true)
		if s.kind == scopeFunction {
			s.returns = append(s.returns, value.Span())
		}
	}
	stmt := ast.NewReturn(value)
	p.finish(stmt, token.NoSpan, start)
	return stmt
}

func (p *Parser) parseRaise() ast.Statement {
	start := p.loc()
	p.advance()
	var exc, value, traceback, cause ast.Expression
	if !p.peek().Kind.IsEndStatement() {
		exc = p.parseTest()
		switch p.peek().Kind {
		case token.KeywordFrom:
			tok := p.advance()
			p.since(token.V30, p.features.HasRaiseFrom(), tok.Span, "'raise ... from'")
			cause = p.parseTest()
		case token.Comma:
			tok := p.advance()
			p.dropped(p.features.is2x(), tok.Span, "'raise' with multiple arguments")
			value = p.parseTest()
			if p.eat(token.Comma) {
				traceback = p.parseTest()
			}
		}
	}
	stmt := ast.NewRaise(exc, value, traceback, cause)
	p.finish(stmt, token.NoSpan, start)
	return stmt
}

func (p *Parser) parseAssert() ast.Statement {
	start := p.loc()
	p.advance()
	test := p.parseTest()
	var msg ast.Expression
	if p.eat(token.Comma) {
		msg = p.parseTest()
	}
	stmt := ast.NewAssert(test, msg)
	p.finish(stmt, token.NoSpan, start)
	return stmt
}

func (p *Parser) parseExec() ast.Statement {
	start := p.loc()
	p.advance()
	code := p.parseExpr(5)
	var globals, locals ast.Expression
	if p.eat(token.KeywordIn) {
		globals = p.parseTest()
		if p.eat(token.Comma) {
			locals = p.parseTest()
		}
	}
	stmt := ast.NewExec(code, globals, locals)
	p.finish(stmt, token.NoSpan, start)
	return stmt
}

func (p *Parser) parsePrint() ast.Statement {
	start := p.loc()
	p.advance()
	var dest ast.Expression
	var exprs []ast.Expression
	trailing := false
	if p.at(token.RightShift) {
		p.advance()
		dest = p.parseTest()
		if !p.eat(token.Comma) {
			stmt := ast.NewPrint(dest, nil, false)
			p.finish(stmt, token.NoSpan, start)
			return stmt
		}
	}
	for p.startsExpression(p.peek()) {
		exprs = append(exprs, p.parseTest())
		trailing = p.eat(token.Comma)
		if !trailing {
			break
		}
	}
	if dest != nil && len(exprs) == 0 {
		trailing = true
	}
	stmt := ast.NewPrint(dest, exprs, trailing)
	p.finish(stmt, token.NoSpan, start)
	return stmt
}

func (p *Parser) parseDel() ast.Statement {
	start := p.loc()
	p.advance()
	var targets []ast.Expression
	for p.startsExpression(p.peek()) {
		t := p.parseExpr(5)
		p.checkDelTarget(t)
		targets = append(targets, t)
		if !p.eat(token.Comma) {
			break
		}
	}
	if len(targets) == 0 {
		p.fail("expected expression after del", p.peek().Span)
	}
	stmt := ast.NewDel(targets)
	p.finish(stmt, token.NoSpan, start)
	return stmt
}

func (p *Parser) parseNameList() []*ast.NameExpression {
	var names []*ast.NameExpression
	for {
		names = append(names, p.parseName())
		if !p.eat(token.Comma) {
			return names
		}
	}
}

func (p *Parser) parseGlobal() ast.Statement {
	start := p.loc()
	p.advance()
	names := p.parseNameList()
	if s := p.scope().node; s != nil {
		for _, n := range names {
			switch {
			case s.IsNonlocal(n.Name()):
				p.syntaxError(fmt.Sprintf("name '%s' is nonlocal and global", n.Name()), n.Span())
			case s.IsLocal(n.Name()):
				p.syntaxError(fmt.Sprintf("name '%s' is assigned to before global declaration", n.Name()), n.Span())
			}
			s.AddGlobal(n.Name())
		}
	}
	stmt := ast.NewGlobal(names)
	p.finish(stmt, token.NoSpan, start)
	return stmt
}

func (p *Parser) parseNonlocal() ast.Statement {
	start := p.loc()
	kw := p.advance()
	names := p.parseNameList()
	s := p.scope()
	if s.kind == scopeModule {
		p.syntaxError("nonlocal declaration not allowed at module level", kw.Span)
	} else {
		for _, n := range names {
			switch {
			case s.node.IsGlobal(n.Name()):
				p.syntaxError(fmt.Sprintf("name '%s' is nonlocal and global", n.Name()), n.Span())
			case s.node.IsLocal(n.Name()):
				p.syntaxError(fmt.Sprintf("name '%s' is assigned to before nonlocal declaration", n.Name()), n.Span())
			}
			s.node.AddNonlocal(n.Name())
		}
	}
	stmt := ast.NewNonlocal(names)
	p.finish(stmt, token.NoSpan, start)
	return stmt
}

func (p *Parser) parseDottedName() *ast.DottedName {
	start := p.loc()
	names := []*ast.NameExpression{p.parseName()}
	for p.eat(token.Dot) {
		names = append(names, p.parseName())
	}
	d := ast.NewDottedName(names)
	p.finish(d, token.NoSpan, start)
	return d
}

func (p *Parser) parseAlias(name *ast.DottedName) *ast.ImportName {
	var alias *ast.NameExpression
	if p.eat(token.KeywordAs) {
		alias = p.parseName()
	}
	in := ast.NewImportName(name, alias)
	before, start := p.hoist(name)
	p.finish(in, before, start)
	return in
}

func (p *Parser) parseImport() ast.Statement {
	start := p.loc()
	p.advance()
	var names []*ast.ImportName
	for {
		before, _ := p.begin()
		dotted := p.parseDottedName()
		dotted.SetBeforeNode(before)
		in := p.parseAlias(dotted)
		p.declare(in.Bound())
		names = append(names, in)
		if !p.eat(token.Comma) {
			break
		}
	}
	stmt := ast.NewImport(names)
	p.finish(stmt, token.NoSpan, start)
	return stmt
}

func (p *Parser) parseFromImport() ast.Statement {
	start := p.loc()
	kw := p.advance()
	level := 0
	for {
		switch p.peek().Kind {
		case token.Dot:
			level++
			p.advance()
			continue
		case token.Ellipsis:
			level += 3
			p.advance()
			continue
		}
		break
	}
	var module *ast.DottedName
	if level == 0 || p.isNameToken(p.peek()) {
		before, _ := p.begin()
		module = p.parseDottedName()
		module.SetBeforeNode(before)
	}
	p.expect(token.KeywordImport)

	future := level == 0 && module.String() == "__future__"
	if future && !p.futureAllowed {
		p.syntaxError("from __future__ imports must occur at the beginning of the file", kw.Span)
	}
	if !future {
		p.futureAllowed = false
	}

	var names []*ast.ImportName
	star := false
	switch {
	case p.at(token.Multiply):
		tok := p.advance()
		star = true
		if p.scope().kind != scopeModule {
			p.contextError("import * only allowed at module level", tok.Span)
		}
	default:
		paren := p.eat(token.LeftParenthesis)
		for {
			before, nstart := p.begin()
			name := p.parseName()
			dotted := ast.NewDottedName([]*ast.NameExpression{name})
			p.finish(dotted, before, nstart)
			in := p.parseAlias(dotted)
			names = append(names, in)
			p.declare(in.Bound())
			if future {
				p.enableFuture(name)
			}
			if !p.eat(token.Comma) {
				break
			}
			if paren && p.at(token.RightParenthesis) {
				break
			}
		}
		if paren {
			p.closeGroup(token.RightParenthesis)
		}
	}
	stmt := ast.NewFromImport(level, module, names, star)
	p.finish(stmt, token.NoSpan, start)
	return stmt
}

func (p *Parser) enableFuture(name *ast.NameExpression) {
	f, ok := LookupFuture(name.Name())
	if !ok {
		p.syntaxError(fmt.Sprintf("future feature %s is not defined", name.Name()), name.Span())
		return
	}
	p.features.Future |= f
}

// parseExpressionStatement handles expression statements and both forms
// of assignment.
func (p *Parser) parseExpressionStatement() ast.Statement {
	start := p.loc()
	first := p.parseTestListOrYield()
	switch k := p.peek().Kind; {
	case k == token.Assign:
		targets := []ast.Expression{first}
		for p.eat(token.Assign) {
			targets = append(targets, p.parseTestListOrYield())
		}
		value := targets[len(targets)-1]
		targets = targets[:len(targets)-1]
		for _, t := range targets {
			p.checkAssignTarget(t)
		}
		stmt := ast.NewAssignment(targets, value)
		p.finish(stmt, token.NoSpan, start)
		return stmt
	case k.IsAugmentedAssign():
		op := p.advance()
		if op.Kind == token.MatMultiplyEqual {
			p.since(token.V35, p.features.HasMatMultiply(), op.Span, "'@=' operator")
		}
		p.checkAugmentedTarget(first)
		value := p.parseTestListOrYield()
		stmt := ast.NewAugmentedAssign(op.Kind.AugmentedOperator(), first, value)
		p.finish(stmt, token.NoSpan, start)
		return stmt
	case k == token.Colon:
		p.fail("variable annotations are not supported", p.peek().Span)
	}
	stmt := ast.NewExpressionStatement(first)
	p.finish(stmt, token.NoSpan, start)
	return stmt
}
