package token

import "fmt"

// Token is one lexical unit. Tokens are values; the zero-length tokens a
// tokenizer injects for recovery have Span.Start == Span.End.
type Token struct {
	Kind  Kind
	Span  SourceSpan
	Value any
}

// IndexSpan returns the byte range of t.
func (t Token) IndexSpan() IndexSpan {
	return t.Span.IndexSpan()
}

// Len returns the length of t in bytes.
func (t Token) Len() int {
	return t.Span.Length()
}

func (t Token) String() string {
	return fmt.Sprintf("%s@%v", t.Kind, t.Span)
}

// Singleton is a pooled constant value. Two tokens or constants denote
// the same singleton exactly when their pointers are equal.
type Singleton struct {
	name string
}

func (s *Singleton) String() string { return s.name }

var (
	NoneValue     = &Singleton{name: "None"}
	TrueValue     = &Singleton{name: "True"}
	FalseValue    = &Singleton{name: "False"}
	EllipsisValue = &Singleton{name: "Ellipsis"}
)

// SingletonFor returns the pooled value carried by a constant keyword.
func SingletonFor(k Kind) *Singleton {
	switch k {
	case KeywordNone:
		return NoneValue
	case KeywordTrue:
		return TrueValue
	case KeywordFalse:
		return FalseValue
	case Ellipsis:
		return EllipsisValue
	}
	return nil
}
