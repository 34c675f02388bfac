package parser

import (
	"github.com/dhamidi/pyfront/python/ast"
	"github.com/dhamidi/pyfront/python/token"
)

// isNameToken reports whether tok reads as an identifier under the
// current features. Several keywords of one language family are plain
// names in the other.
func (p *Parser) isNameToken(tok token.Token) bool {
	f := p.features
	switch tok.Kind {
	case token.Name, token.KeywordAsync, token.KeywordAwait:
		return true
	case token.KeywordPrint:
		return f.HasPrintFunction()
	case token.KeywordExec:
		return !f.HasExecStatement()
	case token.KeywordNonlocal:
		return !f.HasNonlocal()
	case token.KeywordTrue, token.KeywordFalse:
		return !f.HasConstantBooleans()
	}
	return false
}

// startsExpression reports whether tok can begin an expression.
func (p *Parser) startsExpression(tok token.Token) bool {
	k := tok.Kind
	if p.isNameToken(tok) || k.IsNumber() || k.IsOpenQuote() || k.IsOpenGroup() {
		return true
	}
	switch k {
	case token.Add, token.Subtract, token.Twiddle, token.KeywordNot, token.KeywordLambda,
		token.KeywordNone, token.KeywordTrue, token.KeywordFalse, token.Ellipsis,
		token.BackQuote, token.Error, token.ErrorIncompleteString:
		return true
	}
	return false
}

func (p *Parser) parseName() *ast.NameExpression {
	tok := p.peek()
	if !p.isNameToken(tok) {
		p.unexpected()
	}
	before, start := p.begin()
	p.advance()
	n := ast.NewName(p.text(tok))
	p.finish(n, before, start)
	return n
}

// closeGroup consumes the closing bracket of a group. A group cut off
// by the end of the line is reported without abandoning the statement.
func (p *Parser) closeGroup(close token.Kind) {
	switch tok := p.peek(); {
	case tok.Kind == close:
		p.advance()
	case tok.Kind.IsEndStatement():
		p.syntaxError("expected '"+close.String()+"'", tok.Span)
	default:
		p.unexpected()
	}
}

func (p *Parser) parseTest() ast.Expression {
	if p.at(token.KeywordLambda) {
		return p.parseLambda(false)
	}
	e := p.parseExpr(1)
	if !p.at(token.KeywordIf) {
		return e
	}
	kw := p.advance()
	p.since(token.V25, p.features.HasConditionalExpression(), kw.Span, "conditional expression")
	test := p.parseExpr(1)
	p.expect(token.KeywordElse)
	falseExpr := p.parseTest()
	c := ast.NewConditional(e, test, falseExpr)
	before, start := p.hoist(e)
	p.finish(c, before, start)
	return c
}

// parseTestNoCond parses a test that may not be a conditional
// expression, as in a comprehension's if clause.
func (p *Parser) parseTestNoCond() ast.Expression {
	if p.at(token.KeywordLambda) {
		return p.parseLambda(true)
	}
	return p.parseExpr(1)
}

// binaryOperator returns the operator at the cursor and the number of
// tokens it spans, or zero precedence if there is none.
func (p *Parser) binaryOperator() (token.Kind, int) {
	k := p.peek().Kind
	switch k {
	case token.KeywordNot:
		if p.peekN(1).Kind == token.KeywordIn {
			return token.NotIn, 2
		}
		return k, 0
	case token.KeywordIs:
		if p.peekN(1).Kind == token.KeywordNot {
			return token.IsNot, 2
		}
	case token.Power:
		return k, 0
	}
	return k, 1
}

// parseExpr is the precedence climber. Operators binding at least as
// tightly as minPrec are folded left to right.
func (p *Parser) parseExpr(minPrec int) ast.Expression {
	p.enter()
	defer p.leave()

	var left ast.Expression
	if minPrec <= token.KeywordNot.Precedence() && p.at(token.KeywordNot) {
		before, start := p.begin()
		p.advance()
		operand := p.parseExpr(token.KeywordNot.Precedence())
		left = ast.NewUnary(token.KeywordNot, operand)
		p.finish(left, before, start)
	} else {
		left = p.parseFactor()
	}

	for {
		op, width := p.binaryOperator()
		prec := op.Precedence()
		if width == 0 || prec == 0 || prec < minPrec {
			return left
		}
		var opSpan token.SourceSpan
		for i := 0; i < width; i++ {
			tok := p.advance()
			if i == 0 {
				opSpan = tok.Span
			}
		}
		switch op {
		case token.LessThanGreaterThan:
			p.dropped(p.features.HasLessGreater(), opSpan, "'<>' operator")
		case token.MatMultiply:
			p.since(token.V35, p.features.HasMatMultiply(), opSpan, "'@' operator")
		}
		right := p.parseExpr(prec + 1)
		b := ast.NewBinary(op, left, right)
		before, start := p.hoist(left)
		p.finish(b, before, start)
		left = b
	}
}

func (p *Parser) parseFactor() ast.Expression {
	switch p.peek().Kind {
	case token.Add, token.Subtract, token.Twiddle:
		p.enter()
		defer p.leave()
		before, start := p.begin()
		op := p.advance()
		u := ast.NewUnary(op.Kind, p.parseFactor())
		p.finish(u, before, start)
		return u
	}
	return p.parsePower()
}

// parsePower binds ** tighter than a unary operator on its left and
// looser than one on its right.
func (p *Parser) parsePower() ast.Expression {
	var e ast.Expression
	// before 3.5 await is a name outside a coroutine
	if p.at(token.KeywordAwait) && (p.features.HasAsyncAwait() || p.inAsyncFunction()) && p.startsExpression(p.peekN(1)) {
		before, start := p.begin()
		kw := p.advance()
		p.since(token.V35, p.features.HasAsyncAwait(), kw.Span, "'await' expression")
		p.checkAsyncContext(kw.Span, "'await'")
		aw := ast.NewAwait(p.parsePrimary())
		p.finish(aw, before, start)
		e = aw
	} else {
		e = p.parsePrimary()
	}
	if !p.at(token.Power) {
		return e
	}
	p.advance()
	right := p.parseFactor()
	b := ast.NewBinary(token.Power, e, right)
	before, start := p.hoist(e)
	p.finish(b, before, start)
	return b
}

// parsePrimary reads an atom and its call, subscript and member
// trailers.
func (p *Parser) parsePrimary() ast.Expression {
	e := p.parseAtom()
	for {
		var next ast.Expression
		switch p.peek().Kind {
		case token.LeftParenthesis:
			p.advance()
			args := p.parseArgs(token.RightParenthesis)
			p.closeGroup(token.RightParenthesis)
			next = ast.NewCall(e, args)
		case token.LeftBracket:
			p.advance()
			index := p.parseSubscriptList()
			p.closeGroup(token.RightBracket)
			next = ast.NewIndex(e, index)
		case token.Dot:
			p.advance()
			next = ast.NewMember(e, p.parseName())
		default:
			return e
		}
		before, start := p.hoist(e)
		p.finish(next, before, start)
		e = next
	}
}

func (p *Parser) parseAtom() ast.Expression {
	tok := p.peek()
	switch k := tok.Kind; {
	case k == token.KeywordNone, k == token.Ellipsis,
		(k == token.KeywordTrue || k == token.KeywordFalse) && p.features.HasConstantBooleans():
		before, start := p.begin()
		p.advance()
		c := ast.NewConstant(token.SingletonFor(k))
		p.finish(c, before, start)
		return c
	case p.isNameToken(tok):
		return p.parseName()
	case k.IsNumber():
		return p.parseNumber()
	case k.IsOpenQuote():
		return p.parseStrings()
	case k == token.LeftParenthesis:
		return p.parseParenthesis()
	case k == token.LeftBracket:
		return p.parseList()
	case k == token.LeftBrace:
		return p.parseBrace()
	case k == token.BackQuote:
		return p.parseBackQuote()
	case k == token.Error, k == token.ErrorIncompleteString:
		before, start := p.begin()
		p.advance()
		e := ast.NewErrorExpression()
		p.finish(e, before, start)
		return e
	case k.IsEndStatement():
		before, start := p.begin()
		p.syntaxError("expected expression", tok.Span)
		e := ast.NewEmptyExpression()
		e.SetBeforeNode(before)
		e.SetSpan(token.EmptySpan(start))
		return e
	}
	p.unexpected()
	return nil
}

func (p *Parser) parseBackQuote() ast.Expression {
	before, start := p.begin()
	tok := p.advance()
	p.dropped(p.features.HasBackquote(), tok.Span, "backquote repr")
	e := ast.NewBackQuote(p.parseTestList(false))
	p.closeGroup(token.BackQuote)
	p.finish(e, before, start)
	return e
}

// parseStar parses `*expr` in a list, tuple or assignment target.
func (p *Parser) parseStar() ast.Expression {
	before, start := p.begin()
	tok := p.advance()
	p.since(token.V30, p.features.HasStarUnpacking(), tok.Span, "starred expression")
	s := ast.NewStarred(p.parseExpr(5), false)
	p.finish(s, before, start)
	return s
}

func (p *Parser) parseTestOrStar(allowStar bool) ast.Expression {
	if allowStar && p.at(token.Multiply) {
		return p.parseStar()
	}
	return p.parseTest()
}

func (p *Parser) startsItem(allowStar bool) bool {
	return p.startsExpression(p.peek()) || allowStar && p.at(token.Multiply)
}

// parseTestList parses one test or an unparenthesized tuple.
func (p *Parser) parseTestList(allowStar bool) ast.Expression {
	first := p.parseTestOrStar(allowStar)
	if !p.at(token.Comma) {
		return first
	}
	items := []ast.Expression{first}
	for p.eat(token.Comma) && p.startsItem(allowStar) {
		items = append(items, p.parseTestOrStar(allowStar))
	}
	return p.tuple(items)
}

func (p *Parser) tuple(items []ast.Expression) ast.Expression {
	t := ast.NewTuple(items, false)
	before, start := p.hoist(items[0])
	p.finish(t, before, start)
	return t
}

func (p *Parser) parseTestListOrYield() ast.Expression {
	if p.at(token.KeywordYield) {
		return p.parseYield()
	}
	return p.parseTestList(true)
}

// parseTargetList parses the targets of a for loop or comprehension.
func (p *Parser) parseTargetList() ast.Expression {
	item := func() ast.Expression {
		if p.at(token.Multiply) {
			return p.parseStar()
		}
		return p.parseExpr(5)
	}
	first := item()
	if !p.at(token.Comma) {
		return first
	}
	items := []ast.Expression{first}
	for p.eat(token.Comma) && p.startsItem(true) {
		items = append(items, item())
	}
	return p.tuple(items)
}

func (p *Parser) parseYield() ast.Expression {
	before, start := p.begin()
	kw := p.advance()
	if s := p.functionScope(); s != nil {
		s.node.MarkGenerator()
	} else {
		p.contextError("'yield' outside function", kw.Span)
	}
	var y ast.Expression
	switch {
	case p.at(token.KeywordFrom):
		tok := p.advance()
		p.since(token.V33, p.features.HasYieldFrom(), tok.Span, "'yield from'")
		y = ast.NewYieldFrom(p.parseTest())
	case p.startsItem(true):
		y = ast.NewYield(p.parseTestList(true))
	default:
		y = ast.NewYield(nil)
	}
	p.finish(y, before, start)
	return y
}

func (p *Parser) parseLambda(noCond bool) ast.Expression {
	before, start := p.begin()
	p.advance()
	params := p.parseParameters(token.Colon, true)
	p.expect(token.Colon)
	lambda := ast.NewLambda(params)
	p.pushScope(lambda, scopeLambda)
	for _, param := range params {
		p.declareParameter(param)
	}
	if noCond {
		lambda.SetBody(p.parseTestNoCond())
	} else {
		lambda.SetBody(p.parseTest())
	}
	p.popScope()
	p.finish(lambda, before, start)
	return lambda
}

// atComprehension reports whether a comprehension clause starts at the
// cursor.
func (p *Parser) atComprehension() bool {
	switch p.peek().Kind {
	case token.KeywordFor:
		return true
	case token.KeywordAsync:
		return p.features.HasAsyncAwait() && p.peekN(1).Kind == token.KeywordFor
	}
	return false
}

func (p *Parser) parseComprehension() []ast.ComprehensionIterator {
	var its []ast.ComprehensionIterator
	for {
		switch {
		case p.atComprehension():
			before, start := p.begin()
			async := false
			if p.at(token.KeywordAsync) {
				tok := p.advance()
				p.since(token.V36, p.features.atLeast(token.V36), tok.Span, "asynchronous comprehension")
				async = true
			}
			p.advance()
			target := p.parseTargetList()
			p.validateTarget(target, false)
			p.expect(token.KeywordIn)
			iter := p.parseExpr(1)
			c := ast.NewComprehensionFor(target, iter, async)
			p.finish(c, before, start)
			its = append(its, c)
		case p.at(token.KeywordIf):
			before, start := p.begin()
			p.advance()
			c := ast.NewComprehensionIf(p.parseTestNoCond())
			p.finish(c, before, start)
			its = append(its, c)
		default:
			return its
		}
	}
}

// parseGenerator parses the clauses of an unparenthesized generator
// argument whose element has been read.
func (p *Parser) parseGenerator(element ast.Expression) ast.Expression {
	g := ast.NewGenerator(element, p.parseComprehension())
	before, start := p.hoist(element)
	p.finish(g, before, start)
	return g
}

func (p *Parser) parseParenthesis() ast.Expression {
	before, start := p.begin()
	p.advance()
	var e ast.Expression
	switch {
	case p.at(token.RightParenthesis):
		e = ast.NewTuple(nil, true)
	case p.at(token.KeywordYield):
		e = ast.NewParenthesis(p.parseYield())
	default:
		first := p.parseTestOrStar(true)
		switch {
		case p.atComprehension():
			e = ast.NewGenerator(first, p.parseComprehension())
		case p.at(token.Comma):
			items := []ast.Expression{first}
			for p.eat(token.Comma) && p.startsItem(true) {
				items = append(items, p.parseTestOrStar(true))
			}
			e = ast.NewTuple(items, true)
		default:
			e = ast.NewParenthesis(first)
		}
	}
	p.closeGroup(token.RightParenthesis)
	p.finish(e, before, start)
	return e
}

func (p *Parser) parseList() ast.Expression {
	before, start := p.begin()
	p.advance()
	var e ast.Expression
	if p.at(token.RightBracket) {
		e = ast.NewList(nil)
	} else {
		first := p.parseTestOrStar(true)
		if p.atComprehension() {
			e = ast.NewListComprehension(first, p.parseComprehension())
		} else {
			items := []ast.Expression{first}
			for p.eat(token.Comma) && p.startsItem(true) {
				items = append(items, p.parseTestOrStar(true))
			}
			e = ast.NewList(items)
		}
	}
	p.closeGroup(token.RightBracket)
	p.finish(e, before, start)
	return e
}

// parseBrace parses a dict or set display or comprehension. The first
// element decides which: a key with a colon or a ** item makes a dict.
func (p *Parser) parseBrace() ast.Expression {
	before, start := p.begin()
	open := p.advance()
	var e ast.Expression
	if p.at(token.RightBrace) {
		e = ast.NewDictionary(nil)
	} else {
		first := p.parseBraceItem()
		_, isDict := first.(*ast.SliceExpression)
		if s, ok := first.(*ast.StarredExpression); ok && s.IsDouble() {
			isDict = true
		}
		switch {
		case p.atComprehension():
			if slice, ok := first.(*ast.SliceExpression); ok {
				p.since(token.V27, p.features.HasDictComprehension(), open.Span, "dict comprehension")
				e = ast.NewDictComprehension(slice.Start(), slice.Stop(), p.parseComprehension())
			} else {
				p.since(token.V27, p.features.HasSetLiterals(), open.Span, "set comprehension")
				e = ast.NewSetComprehension(first, p.parseComprehension())
			}
		default:
			items := []ast.Expression{first}
			for p.eat(token.Comma) && (p.startsItem(true) || p.at(token.Power)) {
				item := p.parseBraceItem()
				_, slice := item.(*ast.SliceExpression)
				s, star := item.(*ast.StarredExpression)
				if itemIsDict := slice || star && s.IsDouble(); itemIsDict != isDict {
					p.fail("invalid syntax", item.Span())
				}
				items = append(items, item)
			}
			if isDict {
				e = ast.NewDictionary(items)
			} else {
				p.since(token.V27, p.features.HasSetLiterals(), open.Span, "set literal")
				e = ast.NewSet(items)
			}
		}
	}
	p.closeGroup(token.RightBrace)
	p.finish(e, before, start)
	return e
}

// parseBraceItem reads `key: value`, `**mapping`, `*iterable` or a
// plain element. Dictionary entries are returned as slices.
func (p *Parser) parseBraceItem() ast.Expression {
	switch p.peek().Kind {
	case token.Power:
		before, start := p.begin()
		tok := p.advance()
		p.since(token.V35, p.features.HasGeneralUnpacking(), tok.Span, "dictionary unpacking")
		s := ast.NewStarred(p.parseExpr(5), true)
		p.finish(s, before, start)
		return s
	case token.Multiply:
		return p.parseStar()
	}
	key := p.parseTest()
	if !p.at(token.Colon) {
		return key
	}
	p.advance()
	value := p.parseTest()
	s := ast.NewSlice(key, value, nil, false)
	before, start := p.hoist(key)
	p.finish(s, before, start)
	return s
}

func (p *Parser) parseSubscriptList() ast.Expression {
	first := p.parseSubscript()
	if !p.at(token.Comma) {
		return first
	}
	items := []ast.Expression{first}
	for p.eat(token.Comma) && (p.startsExpression(p.peek()) || p.at(token.Colon)) {
		items = append(items, p.parseSubscript())
	}
	return p.tuple(items)
}

// parseSubscript reads an index or a slice with optional bounds and
// step.
func (p *Parser) parseSubscript() ast.Expression {
	var lower ast.Expression
	if !p.at(token.Colon) {
		lower = p.parseTest()
		if !p.at(token.Colon) {
			return lower
		}
	}
	var before token.SourceSpan
	var start token.SourceLocation
	if lower != nil {
		before, start = p.hoist(lower)
	} else {
		before, start = p.begin()
	}
	p.advance()
	var upper, step ast.Expression
	if p.startsExpression(p.peek()) {
		upper = p.parseTest()
	}
	stepColon := p.eat(token.Colon)
	if stepColon && p.startsExpression(p.peek()) {
		step = p.parseTest()
	}
	s := ast.NewSlice(lower, upper, step, stepColon)
	p.finish(s, before, start)
	return s
}

// parseArgs reads call arguments or class bases up to close.
func (p *Parser) parseArgs(close token.Kind) []*ast.Arg {
	var args []*ast.Arg
	keywords := map[string]bool{}
	sawKeyword, sawList, sawDict := false, false, false
	for !p.at(close) {
		var arg *ast.Arg
		switch tok := p.peek(); tok.Kind {
		case token.Multiply, token.Power:
			before, start := p.begin()
			p.advance()
			kind := ast.ArgList
			if tok.Kind == token.Power {
				kind = ast.ArgDict
			}
			if sawDict || kind == ast.ArgList && sawList {
				p.since(token.V35, p.features.HasGeneralUnpacking(), tok.Span, "multiple unpacking in call")
			}
			arg = ast.NewArg(kind, nil, p.parseTest())
			p.finish(arg, before, start)
			if kind == ast.ArgList {
				sawList = true
			} else {
				sawDict = true
			}
		default:
			value := p.parseTest()
			if p.atComprehension() {
				value = p.parseGenerator(value)
			}
			before, start := p.hoist(value)
			if p.eat(token.Assign) {
				name, ok := value.(*ast.NameExpression)
				if !ok {
					p.syntaxError("keyword can't be an expression", value.Span())
				} else if keywords[name.Name()] {
					p.syntaxError("keyword argument repeated", name.Span())
				}
				if ok {
					keywords[name.Name()] = true
				}
				arg = ast.NewArg(ast.ArgKeyword, name, p.parseTest())
				sawKeyword = true
			} else {
				if sawKeyword || sawDict {
					p.syntaxError("non-keyword arg after keyword arg", value.Span())
				}
				arg = ast.NewArg(ast.ArgPositional, nil, value)
			}
			p.finish(arg, before, start)
		}
		args = append(args, arg)
		if !p.eat(token.Comma) {
			break
		}
	}
	return args
}
