package parser

import (
	"fmt"

	"github.com/dhamidi/pyfront/python/ast"
	"github.com/dhamidi/pyfront/python/token"
)

// describe names an expression the way target diagnostics do.
func describe(e ast.Expression) string {
	switch e := e.(type) {
	case *ast.ConstantExpression:
		if e.IsNone() {
			return "None"
		}
		return "literal"
	case *ast.StringExpression, *ast.DictionaryExpression, *ast.SetExpression:
		return "literal"
	case *ast.CallExpression:
		return "function call"
	case *ast.BinaryExpression, *ast.UnaryExpression:
		return "operator"
	case *ast.LambdaExpression:
		return "lambda"
	case *ast.ConditionalExpression:
		return "conditional expression"
	case *ast.GeneratorExpression:
		return "generator expression"
	case *ast.ListComprehension, *ast.SetComprehension, *ast.DictComprehension:
		return "comprehension"
	case *ast.YieldExpression, *ast.YieldFromExpression:
		return "yield expression"
	case *ast.AwaitExpression:
		return "await expression"
	case *ast.BackQuoteExpression:
		return "repr"
	}
	return "expression"
}

func (p *Parser) checkAssignTarget(e ast.Expression) { p.validateTarget(e, true) }

// validateTarget reports expressions that cannot be assigned to. When
// declare is set the bound names are recorded in the current scope.
func (p *Parser) validateTarget(e ast.Expression, declare bool) {
	switch e := e.(type) {
	case *ast.NameExpression:
		if declare {
			p.declare(e.Name())
		}
	case *ast.MemberExpression, *ast.IndexExpression, *ast.ErrorExpression, *ast.EmptyExpression:
	case *ast.ParenthesisExpression:
		p.validateTarget(e.Expression(), declare)
	case *ast.TupleExpression:
		p.validateItems(e.Items(), declare)
	case *ast.ListExpression:
		p.validateItems(e.Items(), declare)
	case *ast.StarredExpression:
		if e.IsDouble() {
			p.syntaxError("can't assign to operator", e.Span())
			return
		}
		p.validateTarget(e.Value(), declare)
	case *ast.ConstantExpression:
		if e.IsNone() {
			p.syntaxError("cannot assign to None", e.Span())
			return
		}
		if v, ok := e.Value().(*token.Singleton); ok && v != token.EllipsisValue {
			p.syntaxError(fmt.Sprintf("cannot assign to %s", v), e.Span())
			return
		}
		p.syntaxError("can't assign to literal", e.Span())
	default:
		p.syntaxError("can't assign to "+describe(e), e.Span())
	}
}

func (p *Parser) validateItems(items []ast.Expression, declare bool) {
	starred := 0
	for _, item := range items {
		if _, ok := item.(*ast.StarredExpression); ok {
			starred++
			if starred == 2 {
				p.syntaxError("two starred expressions in assignment", item.Span())
			}
		}
		p.validateTarget(item, declare)
	}
}

func (p *Parser) checkAugmentedTarget(e ast.Expression) {
	switch e := e.(type) {
	case *ast.NameExpression:
		p.declare(e.Name())
	case *ast.MemberExpression, *ast.IndexExpression, *ast.ErrorExpression, *ast.EmptyExpression:
	default:
		p.syntaxError("illegal expression for augmented assignment", e.Span())
	}
}

func (p *Parser) checkDelTarget(e ast.Expression) {
	switch e := e.(type) {
	case *ast.NameExpression, *ast.MemberExpression, *ast.IndexExpression,
		*ast.ErrorExpression, *ast.EmptyExpression:
	case *ast.ParenthesisExpression:
		p.checkDelTarget(e.Expression())
	case *ast.TupleExpression:
		for _, item := range e.Items() {
			p.checkDelTarget(item)
		}
	case *ast.ListExpression:
		for _, item := range e.Items() {
			p.checkDelTarget(item)
		}
	default:
		p.syntaxError("can't delete "+describe(e), e.Span())
	}
}

// parameterNames lists the names a parameter binds, including those
// inside a sublist.
func parameterNames(param *ast.Parameter) []*ast.NameExpression {
	if param.Name() != nil {
		return []*ast.NameExpression{param.Name()}
	}
	var names []*ast.NameExpression
	if param.Sublist() != nil {
		ast.Inspect(param.Sublist(), func(n ast.Node) bool {
			if name, ok := n.(*ast.NameExpression); ok {
				names = append(names, name)
			}
			return true
		})
	}
	return names
}

func (p *Parser) declareParameter(param *ast.Parameter) {
	s := p.scope().node
	for _, name := range parameterNames(param) {
		s.AddLocal(name.Name())
	}
}

// parseParameters reads a def or lambda parameter list up to close.
// Annotations are only read outside lambdas.
func (p *Parser) parseParameters(close token.Kind, lambda bool) []*ast.Parameter {
	var params []*ast.Parameter
	seen := map[string]bool{}
	sawDefault, sawStar := false, false
	for !p.at(close) {
		var param *ast.Parameter
		switch tok := p.peek(); tok.Kind {
		case token.Multiply:
			before, start := p.begin()
			p.advance()
			if p.at(token.Comma) || p.at(close) {
				p.since(token.V30, p.features.HasBareStarParameter(), tok.Span, "bare '*' parameter")
				param = ast.NewParameter(ast.ParameterKeywordMarker, nil, nil, nil)
			} else {
				name := p.parseName()
				param = ast.NewParameter(ast.ParameterList, name, p.parseAnnotation(lambda), nil)
			}
			p.finish(param, before, start)
			sawStar = true
		case token.Power:
			before, start := p.begin()
			p.advance()
			name := p.parseName()
			param = ast.NewParameter(ast.ParameterDict, name, p.parseAnnotation(lambda), nil)
			p.finish(param, before, start)
			if n := len(params); n > 0 && params[n-1].ParameterKind() == ast.ParameterKeywordMarker {
				p.syntaxError("named arguments must follow bare *", params[n-1].Span())
			}
		case token.LeftParenthesis:
			before, start := p.begin()
			p.dropped(p.features.HasSublistParameters(), tok.Span, "sublist parameter")
			sublist := p.parseSublist()
			var def ast.Expression
			if p.eat(token.Assign) {
				def = p.parseTest()
				sawDefault = true
			} else if sawDefault && !sawStar {
				p.syntaxError("non-default argument follows default argument", sublist.Span())
			}
			param = ast.NewSublistParameter(sublist, def)
			p.finish(param, before, start)
		default:
			name := p.parseName()
			ann := p.parseAnnotation(lambda)
			var def ast.Expression
			if p.eat(token.Assign) {
				def = p.parseTest()
				sawDefault = true
			} else if sawDefault && !sawStar {
				p.syntaxError("non-default argument follows default argument", name.Span())
			}
			param = ast.NewParameter(ast.ParameterNormal, name, ann, def)
			before, start := p.hoist(name)
			p.finish(param, before, start)
		}
		for _, name := range parameterNames(param) {
			if seen[name.Name()] {
				p.syntaxError(fmt.Sprintf("duplicate argument '%s' in function definition", name.Name()), name.Span())
			}
			seen[name.Name()] = true
		}
		params = append(params, param)
		if !p.eat(token.Comma) {
			break
		}
	}
	if n := len(params); n > 0 && params[n-1].ParameterKind() == ast.ParameterKeywordMarker {
		p.syntaxError("named arguments must follow bare *", params[n-1].Span())
	}
	return params
}

func (p *Parser) parseAnnotation(lambda bool) ast.Expression {
	if lambda || !p.at(token.Colon) {
		return nil
	}
	tok := p.advance()
	p.since(token.V30, p.features.HasAnnotations(), tok.Span, "parameter annotation")
	return p.parseTest()
}

// parseSublist reads a parenthesized 2.x parameter unpacking pattern.
func (p *Parser) parseSublist() ast.Expression {
	before, start := p.begin()
	p.expect(token.LeftParenthesis)
	var items []ast.Expression
	comma := false
	for !p.at(token.RightParenthesis) {
		if p.at(token.LeftParenthesis) {
			items = append(items, p.parseSublist())
		} else {
			items = append(items, p.parseName())
		}
		comma = p.eat(token.Comma)
		if !comma {
			break
		}
	}
	p.closeGroup(token.RightParenthesis)
	var e ast.Expression
	if len(items) == 1 && !comma {
		e = ast.NewParenthesis(items[0])
	} else {
		e = ast.NewTuple(items, true)
	}
	p.finish(e, before, start)
	return e
}
