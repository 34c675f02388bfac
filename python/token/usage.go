package token

// Usage is a set of grammar roles a kind can play.
type Usage uint16

const (
	UsageBeginStatement Usage = 1 << iota
	UsageEndStatement
	UsageAssignment
	UsageComparison
	UsageUnaryOperator
	UsageBinaryOperator
	UsageBeginGroup
	UsageEndGroup
	UsageBeginStatementOrBinaryOperator
)

// Has reports whether every flag in f is set.
func (u Usage) Has(f Usage) bool { return u&f == f }

var usages = [kindCount]Usage{}

// augmented maps an augmented assignment to its binary operator.
var augmented = map[Kind]Kind{
	AddEqual:         Add,
	SubtractEqual:    Subtract,
	PowerEqual:       Power,
	MultiplyEqual:    Multiply,
	MatMultiplyEqual: MatMultiply,
	FloorDivideEqual: FloorDivide,
	DivideEqual:      Divide,
	ModEqual:         Mod,
	LeftShiftEqual:   LeftShift,
	RightShiftEqual:  RightShift,
	BitwiseAndEqual:  BitwiseAnd,
	BitwiseOrEqual:   BitwiseOr,
	ExclusiveOrEqual: ExclusiveOr,
}

var precedence = map[Kind]int{
	KeywordOr:           1,
	KeywordAnd:          2,
	KeywordNot:          3,
	LessThan:            4,
	GreaterThan:         4,
	LessThanOrEqual:     4,
	GreaterThanOrEqual:  4,
	Equals:              4,
	NotEquals:           4,
	LessThanGreaterThan: 4,
	KeywordIn:           4,
	KeywordIs:           4,
	NotIn:               4,
	IsNot:               4,
	BitwiseOr:           5,
	ExclusiveOr:         6,
	BitwiseAnd:          7,
	LeftShift:           8,
	RightShift:          8,
	Add:                 9,
	Subtract:            9,
	Multiply:            10,
	MatMultiply:         10,
	Divide:              10,
	FloorDivide:         10,
	Mod:                 10,
	Power:               12,
}

// UnaryPrecedence is the binding strength of prefix +, - and ~.
const UnaryPrecedence = 11

// ComparisonPrecedence is the binding strength shared by all comparisons.
const ComparisonPrecedence = 4

func init() {
	set := func(u Usage, kinds ...Kind) {
		for _, k := range kinds {
			usages[k] |= u
		}
	}
	set(UsageBeginStatement,
		KeywordDef, KeywordClass, KeywordIf, KeywordWhile, KeywordFor, KeywordTry,
		KeywordWith, KeywordImport, KeywordFrom, KeywordGlobal, KeywordNonlocal,
		KeywordReturn, KeywordPass, KeywordBreak, KeywordContinue, KeywordRaise,
		KeywordAssert, KeywordDel, KeywordPrint, KeywordExec, KeywordYield,
		KeywordAsync, KeywordElif, KeywordExcept, KeywordFinally)
	set(UsageBeginStatementOrBinaryOperator, MatMultiply)
	set(UsageEndStatement, NewLine, Semicolon, EOF)
	set(UsageAssignment, Assign)
	for k := range augmented {
		set(UsageAssignment, k)
	}
	set(UsageComparison,
		LessThan, GreaterThan, LessThanOrEqual, GreaterThanOrEqual, Equals,
		NotEquals, LessThanGreaterThan, KeywordIn, KeywordIs, NotIn, IsNot)
	set(UsageUnaryOperator, Add, Subtract, Twiddle, KeywordNot)
	for k := range precedence {
		if k != KeywordNot {
			set(UsageBinaryOperator, k)
		}
	}
	set(UsageBeginGroup, LeftParenthesis, LeftBracket, LeftBrace)
	set(UsageEndGroup, RightParenthesis, RightBracket, RightBrace)
}

// Usage returns the grammar roles of k.
func (k Kind) Usage() Usage {
	if k < 0 || k >= kindCount {
		return 0
	}
	return usages[k]
}

func (k Kind) IsBeginStatement() bool     { return k.Usage().Has(UsageBeginStatement) }
func (k Kind) IsEndStatement() bool       { return k.Usage().Has(UsageEndStatement) }
func (k Kind) IsAssignment() bool         { return k.Usage().Has(UsageAssignment) }
func (k Kind) IsComparisonOperator() bool { return k.Usage().Has(UsageComparison) }
func (k Kind) IsUnaryOperator() bool      { return k.Usage().Has(UsageUnaryOperator) }
func (k Kind) IsBinaryOperator() bool     { return k.Usage().Has(UsageBinaryOperator) }

// IsAugmentedAssign reports whether k is an operator-assignment such as +=.
func (k Kind) IsAugmentedAssign() bool {
	_, ok := augmented[k]
	return ok
}

// AugmentedOperator returns the binary operator behind an augmented
// assignment, or EOF.
func (k Kind) AugmentedOperator() Kind {
	if op, ok := augmented[k]; ok {
		return op
	}
	return EOF
}

// Precedence returns the binary binding strength of k; zero means k is
// not a binary operator.
func (k Kind) Precedence() int {
	return precedence[k]
}

// Class is the editor colorization class of a token.
type Class int

const (
	ClassText Class = iota
	ClassKeyword
	ClassIdentifier
	ClassString
	ClassNumber
	ClassComment
	ClassOperator
	ClassDelimiter
	ClassGrouping
	ClassWhitespace
	ClassError
)

var classNames = map[Class]string{
	ClassText:       "text",
	ClassKeyword:    "keyword",
	ClassIdentifier: "identifier",
	ClassString:     "string",
	ClassNumber:     "number",
	ClassComment:    "comment",
	ClassOperator:   "operator",
	ClassDelimiter:  "delimiter",
	ClassGrouping:   "grouping",
	ClassWhitespace: "whitespace",
	ClassError:      "error",
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return "unknown"
}

// Trigger flags tell an editor which interactive features a token starts.
type Trigger uint8

const (
	TriggerMatchBraces Trigger = 1 << iota
	TriggerMemberSelect
	TriggerParameterStart
	TriggerParameterNext
	TriggerParameterEnd
)

// Info is the per-token colorization record kept by a tokenization.
type Info struct {
	Class   Class
	Trigger Trigger
}

// Info returns the editor classification of k.
func (k Kind) Info() Info {
	var info Info
	switch k.Category() {
	case CategoryKeyword:
		info.Class = ClassKeyword
	case CategoryIdentifier:
		info.Class = ClassIdentifier
	case CategoryLiteral:
		if k.IsNumber() {
			info.Class = ClassNumber
		} else {
			info.Class = ClassString
		}
	case CategoryComment:
		info.Class = ClassComment
	case CategoryOperator:
		info.Class = ClassOperator
	case CategoryDelimiter:
		info.Class = ClassDelimiter
	case CategoryGrouping:
		info.Class = ClassGrouping
	case CategoryWhitespace:
		info.Class = ClassWhitespace
	case CategoryError:
		info.Class = ClassError
	}
	switch k {
	case LeftParenthesis:
		info.Trigger = TriggerMatchBraces | TriggerParameterStart
	case RightParenthesis:
		info.Trigger = TriggerMatchBraces | TriggerParameterEnd
	case LeftBracket, RightBracket, LeftBrace, RightBrace:
		info.Trigger = TriggerMatchBraces
	case Comma:
		info.Trigger = TriggerParameterNext
	case Dot:
		info.Trigger = TriggerMemberSelect
	}
	if k.IsOpenQuote() || k.IsCloseQuote() {
		info.Trigger |= TriggerMatchBraces
	}
	return info
}
