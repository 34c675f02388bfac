// Package encoding resolves the text encoding of a source file: a UTF-8
// byte order mark, else a "coding:" declaration comment on line one or
// two, else UTF-8.
package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/dhamidi/pyfront/python/diag"
	"github.com/dhamidi/pyfront/python/token"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

var declaration = regexp.MustCompile(`^[ \t\f]*#.*?coding[:=][ \t]*([-\w.]+)`)

// Result describes how a byte stream should be decoded.
type Result struct {
	Codec        *Codec
	HasBOM       bool
	Declared     string
	DeclaredLine int
	Diagnostics  []diag.Diagnostic
}

// Detect inspects the first two lines of data.
func Detect(data []byte) Result {
	res := Result{Codec: UTF8}
	rest := data
	if bytes.HasPrefix(data, bom) {
		res.HasBOM = true
		rest = data[len(bom):]
	}

	offset := len(data) - len(rest)
	for lineNo := 1; lineNo <= 2 && len(rest) > 0; lineNo++ {
		line, next := splitLine(rest)
		if m := declaration.FindSubmatchIndex(line); m != nil {
			name := string(line[m[2]:m[3]])
			res.Declared = name
			res.DeclaredLine = lineNo
			span := token.NewSpan(
				token.NewLocation(offset+m[2], lineNo, m[2]+1),
				token.NewLocation(offset+m[3], lineNo, m[3]+1),
			)
			res.resolve(name, span)
			break
		}
		offset += len(line)
		rest = next
	}
	return res
}

func (r *Result) resolve(name string, span token.SourceSpan) {
	codec, err := Get(name)
	switch {
	case err != nil:
		r.Diagnostics = append(r.Diagnostics, diag.Diagnostic{
			Message:  err.Error(),
			Span:     span,
			Code:     diag.CodeEncoding,
			Severity: diag.Error,
		})
	case r.HasBOM && !codec.IsUTF8():
		r.Diagnostics = append(r.Diagnostics, diag.Diagnostic{
			Message:  fmt.Sprintf("encoding problem: %s with BOM", name),
			Span:     span,
			Code:     diag.CodeEncoding,
			Severity: diag.FatalError,
		})
	default:
		r.Codec = codec
	}
}

// splitLine returns the first line of data including its terminator and
// the remainder.
func splitLine(data []byte) (line, rest []byte) {
	for i, b := range data {
		switch b {
		case '\n':
			return data[:i+1], data[i+1:]
		case '\r':
			if i+1 < len(data) && data[i+1] == '\n' {
				return data[:i+2], data[i+2:]
			}
			return data[:i+1], data[i+1:]
		}
	}
	return data, nil
}

// Decode detects the encoding of data and returns its text without the
// byte order mark. Undecodable input is reported, never fatal.
func Decode(data []byte) (string, Result) {
	res := Detect(data)
	body := data
	if res.HasBOM {
		body = data[len(bom):]
	}
	text, err := res.Codec.Decode(body)
	if err != nil {
		d := diag.Diagnostic{
			Message:  err.Error(),
			Span:     token.NoSpan,
			Code:     diag.CodeEncoding,
			Severity: diag.Warning,
		}
		var de *DecodeError
		if errors.As(err, &de) {
			d.Span = byteSpan(body, de.Offset)
		}
		res.Diagnostics = append(res.Diagnostics, d)
	}
	return text, res
}

// byteSpan builds a one-byte span at off, computing its line and column.
func byteSpan(data []byte, off int) token.SourceSpan {
	line, col := 1, 1
	for i := 0; i < off && i < len(data); i++ {
		if data[i] == '\n' || (data[i] == '\r' && (i+1 >= len(data) || data[i+1] != '\n')) {
			line++
			col = 1
			continue
		}
		col++
	}
	start := token.NewLocation(off, line, col)
	return token.NewSpan(start, start.Add(1))
}

func invalidUTF8(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
