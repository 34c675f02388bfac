package parser

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/runenames"

	"github.com/dhamidi/pyfront/python/ast"
	"github.com/dhamidi/pyfront/python/token"
)

func (p *Parser) parseNumber() ast.Expression {
	before, start := p.begin()
	tok := p.advance()
	c := ast.NewConstant(p.numberValue(tok))
	p.finish(c, before, start)
	return c
}

// numberValue converts a numeric literal. Integers narrow to int when
// they fit; floats that overflow become infinities.
func (p *Parser) numberValue(tok token.Token) any {
	text := p.text(tok)
	switch tok.Kind {
	case token.DecimalLong, token.HexLong, token.OctalLong, token.BinaryLong:
		p.dropped(p.features.HasLongSuffix(), tok.Span, "long integer suffix")
		text = text[:len(text)-1]
	}
	switch tok.Kind {
	case token.Decimal, token.DecimalLong:
		return parseInt(text, 10)
	case token.Hex, token.HexLong:
		return parseInt(text[2:], 16)
	case token.Octal, token.OctalLong:
		if len(text) > 1 && (text[1] == 'o' || text[1] == 'O') {
			p.since(token.V26, p.features.HasOctalPrefix(), tok.Span, "'0o' octal prefix")
			return parseInt(text[2:], 8)
		}
		return parseInt(text[1:], 8)
	case token.Binary, token.BinaryLong:
		p.since(token.V26, p.features.HasBinaryLiterals(), tok.Span, "binary literal")
		return parseInt(text[2:], 2)
	case token.Float:
		return parseFloat(text)
	case token.Imaginary:
		return complex(0, parseFloat(text[:len(text)-1]))
	}
	return nil
}

func parseInt(digits string, base int) any {
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return 0
	}
	if n.IsInt64() && n.Int64() >= math.MinInt && n.Int64() <= math.MaxInt {
		return int(n.Int64())
	}
	return n
}

func parseFloat(text string) float64 {
	// ParseFloat returns ±Inf together with ErrRange on overflow.
	f, _ := strconv.ParseFloat(text, 64)
	return f
}

type stringPrefix struct {
	raw, bytes, unicode, format bool
}

// checkPrefix validates the letters before a string's opening quote.
func (p *Parser) checkPrefix(prefix string, span token.SourceSpan) stringPrefix {
	var pf stringPrefix
	valid := true
	seen := map[byte]bool{}
	for i := 0; i < len(prefix); i++ {
		c := prefix[i] | 0x20
		if seen[c] {
			valid = false
		}
		seen[c] = true
		switch c {
		case 'r':
			pf.raw = true
		case 'b':
			pf.bytes = true
		case 'u':
			pf.unicode = true
		case 'f':
			pf.format = true
		}
	}
	if pf.bytes && pf.unicode || pf.format && (pf.bytes || pf.unicode) {
		valid = false
	}
	if pf.unicode && pf.raw && p.features.is3x() {
		valid = false
	}
	if !valid {
		p.syntaxError("invalid string prefix", span)
		return pf
	}
	if pf.unicode {
		p.requires(p.features.HasUnicodePrefix(), span, "'u' string prefix is not supported in Python "+p.version.String())
	}
	if pf.bytes {
		p.since(token.V26, p.features.HasBytePrefix(), span, "'b' string prefix")
	}
	if pf.format {
		p.since(token.V36, p.features.HasFormattedStrings(), span, "formatted string literal")
	}
	return pf
}

// parseStrings reads adjacent string literals. Each physical literal is
// a constant; two or more are joined under a StringExpression.
func (p *Parser) parseStrings() ast.Expression {
	var parts []*ast.ConstantExpression
	sawBytes, sawText := false, false
	for p.peek().Kind.IsOpenQuote() {
		part, isBytes := p.parseStringPart()
		if isBytes {
			sawBytes = true
		} else {
			sawText = true
		}
		parts = append(parts, part)
	}
	if sawBytes && sawText && p.features.is3x() {
		p.syntaxError("cannot mix bytes and nonbytes literals", token.NewSpan(parts[0].Span().Start, p.lastEnd))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	s := ast.NewString(parts)
	before, start := p.hoist(parts[0])
	p.finish(s, before, start)
	return s
}

func (p *Parser) parseStringPart() (*ast.ConstantExpression, bool) {
	before, start := p.begin()
	open := p.advance()
	text := p.text(open)
	quote := 1
	if open.Kind.IsTripleQuote() {
		quote = 3
	}
	pf := p.checkPrefix(text[:len(text)-quote], open.Span)

	var body strings.Builder
	for p.at(token.StringBody) {
		body.WriteString(p.text(p.advance()))
	}
	if k := p.peek().Kind; k.IsCloseQuote() || k == token.ErrorIncompleteString {
		p.advance()
	}
	span := token.NewSpan(start, p.lastEnd)

	isBytes := pf.bytes || !pf.unicode && !p.features.HasUnicodeLiterals()
	var value any
	switch {
	case pf.raw && isBytes:
		value = []byte(body.String())
	case pf.raw:
		value = body.String()
	default:
		value = p.unescape(body.String(), isBytes, span)
	}
	c := ast.NewConstant(value)
	p.finish(c, before, start)
	return c, isBytes
}

// unescape decodes backslash escapes. Malformed escapes are reported
// and kept as written.
func (p *Parser) unescape(s string, isBytes bool, span token.SourceSpan) any {
	out := make([]byte, 0, len(s))
	putRune := func(r rune) {
		if isBytes {
			out = append(out, byte(r))
		} else {
			out = utf8.AppendRune(out, r)
		}
	}
	for i := 0; i < len(s); {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			out = append(out, c)
			i++
			continue
		}
		esc := s[i+1]
		i += 2
		switch esc {
		case '\n':
		case '\r':
			if i < len(s) && s[i] == '\n' {
				i++
			}
		case '\\', '\'', '"':
			out = append(out, esc)
		case 'a':
			out = append(out, '\a')
		case 'b':
			out = append(out, '\b')
		case 'f':
			out = append(out, '\f')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case 'v':
			out = append(out, '\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			v := rune(esc - '0')
			for n := 1; n < 3 && i < len(s) && s[i] >= '0' && s[i] <= '7'; n++ {
				v = v*8 + rune(s[i]-'0')
				i++
			}
			putRune(v)
		case 'x':
			v, ok := hexValue(s, i, 2)
			if !ok {
				p.syntaxError("invalid \\x escape", span)
				out = append(out, '\\', 'x')
				continue
			}
			i += 2
			putRune(v)
		case 'u', 'U':
			if isBytes {
				out = append(out, '\\', esc)
				continue
			}
			n := 4
			if esc == 'U' {
				n = 8
			}
			v, ok := hexValue(s, i, n)
			if !ok || v > unicode.MaxRune {
				p.syntaxError("truncated \\"+string(esc)+" escape", span)
				out = append(out, '\\', esc)
				continue
			}
			i += n
			putRune(v)
		case 'N':
			if isBytes {
				out = append(out, '\\', esc)
				continue
			}
			end := strings.IndexByte(s[i:], '}')
			if i >= len(s) || s[i] != '{' || end < 0 {
				p.syntaxError("malformed \\N character escape", span)
				out = append(out, '\\', esc)
				continue
			}
			name := s[i+1 : i+end]
			r, ok := lookupRuneName(name)
			if !ok {
				p.syntaxError("unknown Unicode character name", span)
				out = append(out, '\\', esc)
				continue
			}
			i += end + 1
			putRune(r)
		default:
			out = append(out, '\\', esc)
		}
	}
	if isBytes {
		return out
	}
	return string(out)
}

func hexValue(s string, i, n int) (rune, bool) {
	if i+n > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[i:i+n], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

var (
	runeNamesOnce sync.Once
	runeNames     map[string]rune
)

// lookupRuneName resolves a \N{...} character name.
func lookupRuneName(name string) (rune, bool) {
	runeNamesOnce.Do(func() {
		runeNames = make(map[string]rune)
		for r := rune(0); r <= unicode.MaxRune; r++ {
			if n := runenames.Name(r); n != "" && n[0] != '<' {
				runeNames[n] = r
			}
		}
	})
	r, ok := runeNames[strings.ToUpper(name)]
	return r, ok
}
