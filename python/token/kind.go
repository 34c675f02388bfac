package token

// Kind identifies the lexical class of a token.
type Kind int

const (
	EOF Kind = iota
	NewLine
	Whitespace
	SignificantWhitespace
	Comment
	ExplicitLineJoin
	Error
	ErrorIncompleteString

	Name

	// Numeric literals
	Decimal
	DecimalLong
	Hex
	HexLong
	Octal
	OctalLong
	Binary
	BinaryLong
	Float
	Imaginary

	// String pieces. The opening quote token carries the prefix.
	StringBody
	LeftSingleQuote
	LeftDoubleQuote
	LeftSingleTripleQuote
	LeftDoubleTripleQuote
	RightSingleQuote
	RightDoubleQuote
	RightSingleTripleQuote
	RightDoubleTripleQuote

	// Operators
	Add
	AddEqual
	Subtract
	SubtractEqual
	Power
	PowerEqual
	Multiply
	MultiplyEqual
	MatMultiply
	MatMultiplyEqual
	FloorDivide
	FloorDivideEqual
	Divide
	DivideEqual
	Mod
	ModEqual
	LeftShift
	LeftShiftEqual
	RightShift
	RightShiftEqual
	BitwiseAnd
	BitwiseAndEqual
	BitwiseOr
	BitwiseOrEqual
	ExclusiveOr
	ExclusiveOrEqual
	LessThan
	GreaterThan
	LessThanOrEqual
	GreaterThanOrEqual
	Equals
	NotEquals
	LessThanGreaterThan
	Twiddle
	Assign
	Arrow
	Dot
	Ellipsis
	Comma
	Colon
	Semicolon
	BackQuote

	// Grouping
	LeftParenthesis
	RightParenthesis
	LeftBracket
	RightBracket
	LeftBrace
	RightBrace

	// Keywords
	KeywordAnd
	KeywordAs
	KeywordAssert
	KeywordAsync
	KeywordAwait
	KeywordBreak
	KeywordClass
	KeywordContinue
	KeywordDef
	KeywordDel
	KeywordElif
	KeywordElse
	KeywordExcept
	KeywordExec
	KeywordFalse
	KeywordFinally
	KeywordFor
	KeywordFrom
	KeywordGlobal
	KeywordIf
	KeywordImport
	KeywordIn
	KeywordIs
	KeywordLambda
	KeywordNone
	KeywordNonlocal
	KeywordNot
	KeywordOr
	KeywordPass
	KeywordPrint
	KeywordRaise
	KeywordReturn
	KeywordTrue
	KeywordTry
	KeywordWhile
	KeywordWith
	KeywordYield

	// pseudo-operators used by the parser for two-token comparisons
	NotIn
	IsNot

	kindCount
)

const (
	firstKeyword = KeywordAnd
	lastKeyword  = KeywordYield
)

var kindNames = map[Kind]string{
	EOF:                    "EOF",
	NewLine:                "NewLine",
	Whitespace:             "Whitespace",
	SignificantWhitespace:  "SignificantWhitespace",
	Comment:                "Comment",
	ExplicitLineJoin:       "ExplicitLineJoin",
	Error:                  "Error",
	ErrorIncompleteString:  "ErrorIncompleteString",
	Name:                   "Name",
	Decimal:                "Decimal",
	DecimalLong:            "DecimalLong",
	Hex:                    "Hex",
	HexLong:                "HexLong",
	Octal:                  "Octal",
	OctalLong:              "OctalLong",
	Binary:                 "Binary",
	BinaryLong:             "BinaryLong",
	Float:                  "Float",
	Imaginary:              "Imaginary",
	StringBody:             "StringBody",
	LeftSingleQuote:        "LeftSingleQuote",
	LeftDoubleQuote:        "LeftDoubleQuote",
	LeftSingleTripleQuote:  "LeftSingleTripleQuote",
	LeftDoubleTripleQuote:  "LeftDoubleTripleQuote",
	RightSingleQuote:       "RightSingleQuote",
	RightDoubleQuote:       "RightDoubleQuote",
	RightSingleTripleQuote: "RightSingleTripleQuote",
	RightDoubleTripleQuote: "RightDoubleTripleQuote",
	Add:                    "+",
	AddEqual:               "+=",
	Subtract:               "-",
	SubtractEqual:          "-=",
	Power:                  "**",
	PowerEqual:             "**=",
	Multiply:               "*",
	MultiplyEqual:          "*=",
	MatMultiply:            "@",
	MatMultiplyEqual:       "@=",
	FloorDivide:            "//",
	FloorDivideEqual:       "//=",
	Divide:                 "/",
	DivideEqual:            "/=",
	Mod:                    "%",
	ModEqual:               "%=",
	LeftShift:              "<<",
	LeftShiftEqual:         "<<=",
	RightShift:             ">>",
	RightShiftEqual:        ">>=",
	BitwiseAnd:             "&",
	BitwiseAndEqual:        "&=",
	BitwiseOr:              "|",
	BitwiseOrEqual:         "|=",
	ExclusiveOr:            "^",
	ExclusiveOrEqual:       "^=",
	LessThan:               "<",
	GreaterThan:            ">",
	LessThanOrEqual:        "<=",
	GreaterThanOrEqual:     ">=",
	Equals:                 "==",
	NotEquals:              "!=",
	LessThanGreaterThan:    "<>",
	Twiddle:                "~",
	Assign:                 "=",
	Arrow:                  "->",
	Dot:                    ".",
	Ellipsis:               "...",
	Comma:                  ",",
	Colon:                  ":",
	Semicolon:              ";",
	BackQuote:              "`",
	LeftParenthesis:        "(",
	RightParenthesis:       ")",
	LeftBracket:            "[",
	RightBracket:           "]",
	LeftBrace:              "{",
	RightBrace:             "}",
	KeywordAnd:             "and",
	KeywordAs:              "as",
	KeywordAssert:          "assert",
	KeywordAsync:           "async",
	KeywordAwait:           "await",
	KeywordBreak:           "break",
	KeywordClass:           "class",
	KeywordContinue:        "continue",
	KeywordDef:             "def",
	KeywordDel:             "del",
	KeywordElif:            "elif",
	KeywordElse:            "else",
	KeywordExcept:          "except",
	KeywordExec:            "exec",
	KeywordFalse:           "False",
	KeywordFinally:         "finally",
	KeywordFor:             "for",
	KeywordFrom:            "from",
	KeywordGlobal:          "global",
	KeywordIf:              "if",
	KeywordImport:          "import",
	KeywordIn:              "in",
	KeywordIs:              "is",
	KeywordLambda:          "lambda",
	KeywordNone:            "None",
	KeywordNonlocal:        "nonlocal",
	KeywordNot:             "not",
	KeywordOr:              "or",
	KeywordPass:            "pass",
	KeywordPrint:           "print",
	KeywordRaise:           "raise",
	KeywordReturn:          "return",
	KeywordTrue:            "True",
	KeywordTry:             "try",
	KeywordWhile:           "while",
	KeywordWith:            "with",
	KeywordYield:           "yield",
	NotIn:                  "not in",
	IsNot:                  "is not",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

var keywords map[string]Kind

func init() {
	keywords = make(map[string]Kind, int(lastKeyword-firstKeyword)+1)
	for k := firstKeyword; k <= lastKeyword; k++ {
		keywords[kindNames[k]] = k
	}
}

// LookupKeyword returns the keyword kind for ident, or Name.
func LookupKeyword(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return Name
}

// Category is the coarse partition of kinds.
type Category int

const (
	CategoryNone Category = iota
	CategoryEndOfFile
	CategoryWhitespace
	CategoryComment
	CategoryError
	CategoryIdentifier
	CategoryKeyword
	CategoryLiteral
	CategoryOperator
	CategoryDelimiter
	CategoryGrouping
)

var categoryNames = map[Category]string{
	CategoryNone:       "None",
	CategoryEndOfFile:  "EndOfFile",
	CategoryWhitespace: "Whitespace",
	CategoryComment:    "Comment",
	CategoryError:      "Error",
	CategoryIdentifier: "Identifier",
	CategoryKeyword:    "Keyword",
	CategoryLiteral:    "Literal",
	CategoryOperator:   "Operator",
	CategoryDelimiter:  "Delimiter",
	CategoryGrouping:   "Grouping",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Unknown"
}

// Category returns the coarse category of k.
func (k Kind) Category() Category {
	switch {
	case k == EOF:
		return CategoryEndOfFile
	case k == NewLine, k == Whitespace, k == SignificantWhitespace, k == ExplicitLineJoin:
		return CategoryWhitespace
	case k == Comment:
		return CategoryComment
	case k == Error, k == ErrorIncompleteString:
		return CategoryError
	case k == Name:
		return CategoryIdentifier
	case k >= Decimal && k <= RightDoubleTripleQuote:
		return CategoryLiteral
	case k == Dot, k == Comma, k == Colon, k == Semicolon, k == Arrow, k == Assign, k == Ellipsis:
		return CategoryDelimiter
	case k >= Add && k <= BackQuote:
		return CategoryOperator
	case k >= LeftParenthesis && k <= RightBrace:
		return CategoryGrouping
	case k.IsKeyword():
		return CategoryKeyword
	}
	return CategoryNone
}

// IsKeyword reports whether k is a reserved or contextual keyword.
func (k Kind) IsKeyword() bool {
	return k >= firstKeyword && k <= lastKeyword
}

// IsTrivia reports whether k carries no grammatical meaning inside a
// logical line.
func (k Kind) IsTrivia() bool {
	return k == Whitespace || k == Comment || k == ExplicitLineJoin
}

// IsNumber reports whether k is a numeric literal.
func (k Kind) IsNumber() bool {
	return k >= Decimal && k <= Imaginary
}

// IsLiteral reports whether k is a number or part of a string literal.
func (k Kind) IsLiteral() bool {
	return k.Category() == CategoryLiteral
}

// IsOpenQuote reports whether k starts a string literal.
func (k Kind) IsOpenQuote() bool {
	return k >= LeftSingleQuote && k <= LeftDoubleTripleQuote
}

// IsCloseQuote reports whether k ends a string literal.
func (k Kind) IsCloseQuote() bool {
	return k >= RightSingleQuote && k <= RightDoubleTripleQuote
}

// IsTripleQuote reports whether k is an opening or closing triple quote.
func (k Kind) IsTripleQuote() bool {
	switch k {
	case LeftSingleTripleQuote, LeftDoubleTripleQuote, RightSingleTripleQuote, RightDoubleTripleQuote:
		return true
	}
	return false
}

// IsOpenGroup reports whether k opens a bracket group.
func (k Kind) IsOpenGroup() bool {
	return k == LeftParenthesis || k == LeftBracket || k == LeftBrace
}

// IsCloseGroup reports whether k closes a bracket group.
func (k Kind) IsCloseGroup() bool {
	return k == RightParenthesis || k == RightBracket || k == RightBrace
}

// GroupEnding returns the token closing a group opened by k, or EOF when
// k opens nothing.
func (k Kind) GroupEnding() Kind {
	switch k {
	case LeftParenthesis:
		return RightParenthesis
	case LeftBracket:
		return RightBracket
	case LeftBrace:
		return RightBrace
	case LeftSingleQuote:
		return RightSingleQuote
	case LeftDoubleQuote:
		return RightDoubleQuote
	case LeftSingleTripleQuote:
		return RightSingleTripleQuote
	case LeftDoubleTripleQuote:
		return RightDoubleTripleQuote
	case BackQuote:
		return BackQuote
	}
	return EOF
}
