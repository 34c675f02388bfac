package tokenizer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dhamidi/pyfront/python/encoding"
	"github.com/dhamidi/pyfront/python/token"
)

// Document is a source of program text.
type Document interface {
	// Read opens the raw bytes of the document.
	Read(ctx context.Context) (io.ReadCloser, error)
	// Moniker names the document, usually a path or URI.
	Moniker() string
	// Version increases every time the document changes.
	Version() int
}

// TextDocument is a Document that may already hold decoded text. ReadText
// reports ok == false when only bytes are available.
type TextDocument interface {
	Document
	ReadText(ctx context.Context) (text string, ok bool, err error)
}

// FileDocument reads a file from disk.
type FileDocument struct {
	Path string
	Rev  int
}

func (d FileDocument) Read(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(d.Path)
}

func (d FileDocument) Moniker() string { return d.Path }
func (d FileDocument) Version() int    { return d.Rev }

// BytesDocument holds undecoded bytes in memory.
type BytesDocument struct {
	Name string
	Data []byte
	Rev  int
}

func (d BytesDocument) Read(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(d.Data)), nil
}

func (d BytesDocument) Moniker() string { return d.Name }
func (d BytesDocument) Version() int    { return d.Rev }

// StringDocument holds decoded text, as an editor buffer does.
type StringDocument struct {
	Name string
	Text string
	Rev  int
}

func (d StringDocument) Read(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(d.Text)), nil
}

func (d StringDocument) ReadText(context.Context) (string, bool, error) {
	return d.Text, true, nil
}

func (d StringDocument) Moniker() string { return d.Name }
func (d StringDocument) Version() int    { return d.Rev }

// Tokenize reads doc, resolves its encoding and tokenizes it. The only
// errors are I/O failures and cancellation; malformed source always
// produces a Tokenization.
func Tokenize(ctx context.Context, doc Document, version token.LanguageVersion, opts Options) (*Tokenization, error) {
	tz := &Tokenization{
		moniker:    doc.Moniker(),
		docVersion: doc.Version(),
		version:    version,
		options:    opts,
		codec:      encoding.UTF8,
	}

	text, ok := "", false
	if td, isText := doc.(TextDocument); isText {
		var err error
		text, ok, err = td.ReadText(ctx)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", doc.Moniker(), err)
		}
	}
	if !ok {
		data, err := readAll(ctx, doc)
		if err != nil {
			return nil, err
		}
		var res encoding.Result
		text, res = encoding.Decode(data)
		tz.codec = res.Codec
		sink := tz.sink()
		for _, d := range res.Diagnostics {
			sink.Add(d.Message, d.Span, d.Code, d.Severity)
		}
	}
	tz.source = text
	if err := tz.tokenizeFrom(ctx, 0, New(version)); err != nil {
		return nil, err
	}
	return tz, nil
}

func readAll(ctx context.Context, doc Document) ([]byte, error) {
	r, err := doc.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", doc.Moniker(), err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", doc.Moniker(), err)
	}
	return data, nil
}
