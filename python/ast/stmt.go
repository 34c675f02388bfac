package ast

import "github.com/dhamidi/pyfront/python/token"

// SuiteStatement is a sequence of statements sharing one indentation.
type SuiteStatement struct {
	stmtBase
	stmts []Statement
}

func NewSuite(stmts []Statement) *SuiteStatement { return &SuiteStatement{stmts: stmts} }

func (*SuiteStatement) Kind() Kind                  { return KindSuite }
func (n *SuiteStatement) Statements() []Statement   { return clone(n.stmts) }
func (n *SuiteStatement) Len() int                  { return len(n.stmts) }
func (n *SuiteStatement) Statement(i int) Statement { return n.stmts[i] }

type ExpressionStatement struct {
	stmtBase
	expr Expression
}

func NewExpressionStatement(e Expression) *ExpressionStatement {
	return &ExpressionStatement{expr: e}
}

func (*ExpressionStatement) Kind() Kind               { return KindExpressionStatement }
func (n *ExpressionStatement) Expression() Expression { return n.expr }

// AssignmentStatement is `a = b = value`.
type AssignmentStatement struct {
	stmtBase
	targets []Expression
	value   Expression
}

func NewAssignment(targets []Expression, value Expression) *AssignmentStatement {
	return &AssignmentStatement{targets: targets, value: value}
}

func (*AssignmentStatement) Kind() Kind              { return KindAssignment }
func (n *AssignmentStatement) Targets() []Expression { return clone(n.targets) }
func (n *AssignmentStatement) Value() Expression     { return n.value }

type AugmentedAssignStatement struct {
	stmtBase
	op     token.Kind
	target Expression
	value  Expression
}

// NewAugmentedAssign takes the binary operator, e.g. token.Add for +=.
func NewAugmentedAssign(op token.Kind, target, value Expression) *AugmentedAssignStatement {
	return &AugmentedAssignStatement{op: op, target: target, value: value}
}

func (*AugmentedAssignStatement) Kind() Kind             { return KindAugmentedAssign }
func (n *AugmentedAssignStatement) Operator() token.Kind { return n.op }
func (n *AugmentedAssignStatement) Target() Expression   { return n.target }
func (n *AugmentedAssignStatement) Value() Expression    { return n.value }

// Clause is one keyword-introduced block of a compound statement: an
// if/elif test, an else, an except handler or a finally.
type Clause struct {
	nodeBase
	keyword token.Kind
	test    Expression
	target  Expression
	body    *SuiteStatement
}

func NewClause(keyword token.Kind, test, target Expression, body *SuiteStatement) *Clause {
	return &Clause{keyword: keyword, test: test, target: target, body: body}
}

func (*Clause) Kind() Kind              { return KindClause }
func (n *Clause) Keyword() token.Kind   { return n.keyword }
func (n *Clause) Test() Expression      { return n.test }
func (n *Clause) Target() Expression    { return n.target }
func (n *Clause) Body() *SuiteStatement { return n.body }

type IfStatement struct {
	stmtBase
	tests    []*Clause
	elseCase *Clause
}

func NewIf(tests []*Clause, elseCase *Clause) *IfStatement {
	return &IfStatement{tests: tests, elseCase: elseCase}
}

func (*IfStatement) Kind() Kind         { return KindIf }
func (n *IfStatement) Tests() []*Clause { return clone(n.tests) }
func (n *IfStatement) Else() *Clause    { return n.elseCase }

type WhileStatement struct {
	stmtBase
	test     Expression
	body     *SuiteStatement
	elseCase *Clause
}

func NewWhile(test Expression, body *SuiteStatement, elseCase *Clause) *WhileStatement {
	return &WhileStatement{test: test, body: body, elseCase: elseCase}
}

func (*WhileStatement) Kind() Kind              { return KindWhile }
func (n *WhileStatement) Test() Expression      { return n.test }
func (n *WhileStatement) Body() *SuiteStatement { return n.body }
func (n *WhileStatement) Else() *Clause         { return n.elseCase }

type ForStatement struct {
	stmtBase
	target   Expression
	iter     Expression
	body     *SuiteStatement
	elseCase *Clause
	async    bool
}

func NewFor(target, iter Expression, body *SuiteStatement, elseCase *Clause, async bool) *ForStatement {
	return &ForStatement{target: target, iter: iter, body: body, elseCase: elseCase, async: async}
}

func (*ForStatement) Kind() Kind              { return KindFor }
func (n *ForStatement) Target() Expression    { return n.target }
func (n *ForStatement) Iter() Expression      { return n.iter }
func (n *ForStatement) Body() *SuiteStatement { return n.body }
func (n *ForStatement) Else() *Clause         { return n.elseCase }
func (n *ForStatement) IsAsync() bool         { return n.async }

type TryStatement struct {
	stmtBase
	body     *SuiteStatement
	handlers []*Clause
	elseCase *Clause
	finally  *Clause
}

func NewTry(body *SuiteStatement, handlers []*Clause, elseCase, finally *Clause) *TryStatement {
	return &TryStatement{body: body, handlers: handlers, elseCase: elseCase, finally: finally}
}

func (*TryStatement) Kind() Kind              { return KindTry }
func (n *TryStatement) Body() *SuiteStatement { return n.body }
func (n *TryStatement) Handlers() []*Clause   { return clone(n.handlers) }
func (n *TryStatement) Else() *Clause         { return n.elseCase }
func (n *TryStatement) Finally() *Clause      { return n.finally }

// FunctionDefinition is a def statement and the scope it opens.
type FunctionDefinition struct {
	scopeBase
	name    *NameExpression
	params  []*Parameter
	returns Expression
	body    *SuiteStatement
	async   bool
}

func NewFunctionDefinition(name *NameExpression, params []*Parameter, returns Expression, async bool) *FunctionDefinition {
	return &FunctionDefinition{name: name, params: params, returns: returns, async: async}
}

func (*FunctionDefinition) statementNode()             {}
func (*FunctionDefinition) Kind() Kind                 { return KindFunctionDefinition }
func (n *FunctionDefinition) Name() *NameExpression    { return n.name }
func (n *FunctionDefinition) Parameters() []*Parameter { return clone(n.params) }
func (n *FunctionDefinition) Returns() Expression      { return n.returns }
func (n *FunctionDefinition) Body() *SuiteStatement    { return n.body }
func (n *FunctionDefinition) IsAsync() bool            { return n.async }
func (n *FunctionDefinition) IsCoroutine() bool        { return n.async }

func (n *FunctionDefinition) SetBody(body *SuiteStatement) {
	n.checkMutable()
	n.body = body
}

// Docstring returns the leading string of the body, if any.
func (n *FunctionDefinition) Docstring() (string, bool) { return docstring(n.body) }

type ClassDefinition struct {
	scopeBase
	name  *NameExpression
	bases []*Arg
	body  *SuiteStatement
}

func NewClassDefinition(name *NameExpression, bases []*Arg) *ClassDefinition {
	return &ClassDefinition{name: name, bases: bases}
}

func (*ClassDefinition) statementNode()          {}
func (*ClassDefinition) Kind() Kind              { return KindClassDefinition }
func (n *ClassDefinition) Name() *NameExpression { return n.name }
func (n *ClassDefinition) Bases() []*Arg         { return clone(n.bases) }
func (n *ClassDefinition) Body() *SuiteStatement { return n.body }

func (n *ClassDefinition) SetBody(body *SuiteStatement) {
	n.checkMutable()
	n.body = body
}

// Docstring returns the leading string of the body, if any.
func (n *ClassDefinition) Docstring() (string, bool) { return docstring(n.body) }

// WithStatement items are plain expressions or AsExpressions.
type WithStatement struct {
	stmtBase
	items []Expression
	body  *SuiteStatement
	async bool
}

func NewWith(items []Expression, body *SuiteStatement, async bool) *WithStatement {
	return &WithStatement{items: items, body: body, async: async}
}

func (*WithStatement) Kind() Kind              { return KindWith }
func (n *WithStatement) Items() []Expression   { return clone(n.items) }
func (n *WithStatement) Body() *SuiteStatement { return n.body }
func (n *WithStatement) IsAsync() bool         { return n.async }

// DottedName is a.b.c in an import.
type DottedName struct {
	nodeBase
	names []*NameExpression
}

func NewDottedName(names []*NameExpression) *DottedName { return &DottedName{names: names} }

func (*DottedName) Kind() Kind                 { return KindDottedName }
func (n *DottedName) Names() []*NameExpression { return clone(n.names) }

// String joins the parts with dots.
func (n *DottedName) String() string {
	s := ""
	for i, name := range n.names {
		if i > 0 {
			s += "."
		}
		s += name.name
	}
	return s
}

// ImportName is `name [as alias]`.
type ImportName struct {
	nodeBase
	name  *DottedName
	alias *NameExpression
}

func NewImportName(name *DottedName, alias *NameExpression) *ImportName {
	return &ImportName{name: name, alias: alias}
}

func (*ImportName) Kind() Kind               { return KindImportName }
func (n *ImportName) Name() *DottedName      { return n.name }
func (n *ImportName) Alias() *NameExpression { return n.alias }

// Bound returns the name the import binds locally.
func (n *ImportName) Bound() string {
	if n.alias != nil {
		return n.alias.name
	}
	if n.name != nil && len(n.name.names) > 0 {
		return n.name.names[0].name
	}
	return ""
}

type ImportStatement struct {
	stmtBase
	names []*ImportName
}

func NewImport(names []*ImportName) *ImportStatement { return &ImportStatement{names: names} }

func (*ImportStatement) Kind() Kind             { return KindImport }
func (n *ImportStatement) Names() []*ImportName { return clone(n.names) }

type FromImportStatement struct {
	stmtBase
	level  int
	module *DottedName
	names  []*ImportName
	star   bool
}

func NewFromImport(level int, module *DottedName, names []*ImportName, star bool) *FromImportStatement {
	return &FromImportStatement{level: level, module: module, names: names, star: star}
}

func (*FromImportStatement) Kind() Kind             { return KindFromImport }
func (n *FromImportStatement) Level() int           { return n.level }
func (n *FromImportStatement) Module() *DottedName  { return n.module }
func (n *FromImportStatement) Names() []*ImportName { return clone(n.names) }
func (n *FromImportStatement) IsStar() bool         { return n.star }

// IsFuture reports whether this is a from __future__ import.
func (n *FromImportStatement) IsFuture() bool {
	return n.level == 0 && n.module != nil && n.module.String() == "__future__"
}

type GlobalStatement struct {
	stmtBase
	names []*NameExpression
}

func NewGlobal(names []*NameExpression) *GlobalStatement { return &GlobalStatement{names: names} }

func (*GlobalStatement) Kind() Kind                 { return KindGlobal }
func (n *GlobalStatement) Names() []*NameExpression { return clone(n.names) }

type NonlocalStatement struct {
	stmtBase
	names []*NameExpression
}

func NewNonlocal(names []*NameExpression) *NonlocalStatement { return &NonlocalStatement{names: names} }

func (*NonlocalStatement) Kind() Kind                 { return KindNonlocal }
func (n *NonlocalStatement) Names() []*NameExpression { return clone(n.names) }

// RaiseStatement covers `raise E, V, T` and `raise E from C`.
type RaiseStatement struct {
	stmtBase
	exc, value, traceback, cause Expression
}

func NewRaise(exc, value, traceback, cause Expression) *RaiseStatement {
	return &RaiseStatement{exc: exc, value: value, traceback: traceback, cause: cause}
}

func (*RaiseStatement) Kind() Kind              { return KindRaise }
func (n *RaiseStatement) Exception() Expression { return n.exc }
func (n *RaiseStatement) Value() Expression     { return n.value }
func (n *RaiseStatement) Traceback() Expression { return n.traceback }
func (n *RaiseStatement) Cause() Expression     { return n.cause }

type AssertStatement struct {
	stmtBase
	test, message Expression
}

func NewAssert(test, message Expression) *AssertStatement {
	return &AssertStatement{test: test, message: message}
}

func (*AssertStatement) Kind() Kind            { return KindAssert }
func (n *AssertStatement) Test() Expression    { return n.test }
func (n *AssertStatement) Message() Expression { return n.message }

// ExecStatement is `exec code in globals, locals`.
type ExecStatement struct {
	stmtBase
	code, globals, locals Expression
}

func NewExec(code, globals, locals Expression) *ExecStatement {
	return &ExecStatement{code: code, globals: globals, locals: locals}
}

func (*ExecStatement) Kind() Kind            { return KindExec }
func (n *ExecStatement) Code() Expression    { return n.code }
func (n *ExecStatement) Globals() Expression { return n.globals }
func (n *ExecStatement) Locals() Expression  { return n.locals }

type DelStatement struct {
	stmtBase
	targets []Expression
}

func NewDel(targets []Expression) *DelStatement { return &DelStatement{targets: targets} }

func (*DelStatement) Kind() Kind              { return KindDel }
func (n *DelStatement) Targets() []Expression { return clone(n.targets) }

type PassStatement struct{ stmtBase }

func NewPass() *PassStatement     { return &PassStatement{} }
func (*PassStatement) Kind() Kind { return KindPass }

type BreakStatement struct{ stmtBase }

func NewBreak() *BreakStatement    { return &BreakStatement{} }
func (*BreakStatement) Kind() Kind { return KindBreak }

type ContinueStatement struct{ stmtBase }

func NewContinue() *ContinueStatement { return &ContinueStatement{} }
func (*ContinueStatement) Kind() Kind { return KindContinue }

type ReturnStatement struct {
	stmtBase
	value Expression
}

func NewReturn(value Expression) *ReturnStatement { return &ReturnStatement{value: value} }

func (*ReturnStatement) Kind() Kind          { return KindReturn }
func (n *ReturnStatement) Value() Expression { return n.value }

// PrintStatement is the 2.x print statement.
type PrintStatement struct {
	stmtBase
	dest          Expression
	exprs         []Expression
	trailingComma bool
}

func NewPrint(dest Expression, exprs []Expression, trailingComma bool) *PrintStatement {
	return &PrintStatement{dest: dest, exprs: exprs, trailingComma: trailingComma}
}

func (*PrintStatement) Kind() Kind                  { return KindPrint }
func (n *PrintStatement) Destination() Expression   { return n.dest }
func (n *PrintStatement) Expressions() []Expression { return clone(n.exprs) }
func (n *PrintStatement) TrailingComma() bool       { return n.trailingComma }

// Decorator is one `@expr` line.
type Decorator struct {
	nodeBase
	expr Expression
}

func NewDecorator(e Expression) *Decorator { return &Decorator{expr: e} }

func (*Decorator) Kind() Kind               { return KindDecorator }
func (n *Decorator) Expression() Expression { return n.expr }

// DecoratorStatement holds decorators and the definition they apply to.
// Inner is nil for decorators not followed by a def or class.
type DecoratorStatement struct {
	stmtBase
	decorators []*Decorator
	inner      Statement
}

func NewDecoratorStatement(decorators []*Decorator, inner Statement) *DecoratorStatement {
	return &DecoratorStatement{decorators: decorators, inner: inner}
}

func (*DecoratorStatement) Kind() Kind                 { return KindDecorated }
func (n *DecoratorStatement) Decorators() []*Decorator { return clone(n.decorators) }
func (n *DecoratorStatement) Inner() Statement         { return n.inner }

// ErrorStatement covers text that could not be parsed. Body holds the
// indented block that followed a broken compound header.
type ErrorStatement struct {
	stmtBase
	message string
	body    *SuiteStatement
}

func NewErrorStatement(message string) *ErrorStatement { return &ErrorStatement{message: message} }

func (*ErrorStatement) Kind() Kind              { return KindErrorStatement }
func (n *ErrorStatement) Message() string       { return n.message }
func (n *ErrorStatement) Body() *SuiteStatement { return n.body }

func (n *ErrorStatement) SetBody(body *SuiteStatement) {
	n.checkMutable()
	n.body = body
}

// EmptyStatement stands in for a missing block.
type EmptyStatement struct{ stmtBase }

func NewEmptyStatement() *EmptyStatement { return &EmptyStatement{} }
func (*EmptyStatement) Kind() Kind       { return KindEmptyStatement }
