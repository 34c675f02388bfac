package encoding

import (
	"errors"
	"testing"

	"github.com/dhamidi/pyfront/python/diag"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		codec    string
		bom      bool
		severity diag.Severity
		diags    int
	}{
		{"no declaration", "x = 1\n", "utf-8", false, diag.Ignore, 0},
		{"emacs style", "# -*- coding: latin-1 -*-\nx = 1\n", "latin-1", false, diag.Ignore, 0},
		{"underscore variant", "# coding: latin_1\n", "latin-1", false, diag.Ignore, 0},
		{"iso alias", "# coding=iso-8859-1\n", "latin-1", false, diag.Ignore, 0},
		{"upper case", "# vim: set fileencoding=LATIN-1 :\n", "latin-1", false, diag.Ignore, 0},
		{"second line", "#!/usr/bin/env python\n# coding: cp1252\n", "cp1252", false, diag.Ignore, 0},
		{"third line ignored", "#!/usr/bin/env python\n\n# coding: cp1252\n", "utf-8", false, diag.Ignore, 0},
		{"not a comment", "s = 'coding: latin-1'\n", "utf-8", false, diag.Ignore, 0},
		{"unknown codec", "# coding: klingon\n", "utf-8", false, diag.Error, 1},
		{"bom", "\xef\xbb\xbfx = 1\n", "utf-8", true, diag.Ignore, 0},
		{"bom agrees", "\xef\xbb\xbf# coding: utf-8\n", "utf-8", true, diag.Ignore, 0},
		{"bom conflicts", "\xef\xbb\xbf# coding: latin-1\n", "utf-8", true, diag.FatalError, 1},
		{"crlf lines", "#!python\r\n# coding: koi8-r\r\n", "koi8-r", false, diag.Ignore, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Detect([]byte(tt.input))
			if res.Codec.Name != tt.codec {
				t.Errorf("codec = %q, want %q", res.Codec.Name, tt.codec)
			}
			if res.HasBOM != tt.bom {
				t.Errorf("HasBOM = %v, want %v", res.HasBOM, tt.bom)
			}
			if len(res.Diagnostics) != tt.diags {
				t.Fatalf("got %d diagnostics, want %d: %v", len(res.Diagnostics), tt.diags, res.Diagnostics)
			}
			if tt.diags > 0 && res.Diagnostics[0].Severity != tt.severity {
				t.Errorf("severity = %v, want %v", res.Diagnostics[0].Severity, tt.severity)
			}
		})
	}
}

func TestLookupAliases(t *testing.T) {
	tests := []struct {
		alias string
		want  string
	}{
		{"latin-1", "latin-1"},
		{"latin_1", "latin-1"},
		{"ISO-8859-1", "latin-1"},
		{"L1", "latin-1"},
		{"Windows-1252", "cp1252"},
		{"utf8", "utf-8"},
		{"UTF-8", "utf-8"},
		{"cp65001", "utf-8"},
		{"sjis", "shift_jis"},
		{"us-ascii", "ascii"},
	}
	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			c, ok := Lookup(tt.alias)
			if !ok {
				t.Fatalf("Lookup(%q) failed", tt.alias)
			}
			if c.Name != tt.want {
				t.Errorf("got %q, want %q", c.Name, tt.want)
			}
		})
	}

	if _, ok := Lookup("no-such-codec"); ok {
		t.Errorf("Lookup succeeded for an unknown codec")
	}
	if _, err := Get("no-such-codec"); !errors.Is(err, ErrUnknownCodec) {
		t.Errorf("Get: got %v, want ErrUnknownCodec", err)
	}
}

func TestDecode(t *testing.T) {
	text, res := Decode([]byte("# coding: latin-1\ns = '\xe9'\n"))
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
	if want := "# coding: latin-1\ns = 'é'\n"; text != want {
		t.Errorf("got %q, want %q", text, want)
	}

	text, res = Decode([]byte("\xef\xbb\xbfpass\n"))
	if text != "pass\n" {
		t.Errorf("BOM not stripped: %q", text)
	}

	text, res = Decode([]byte("x = 1\ny = '\xff'\n"))
	if text != "x = 1\ny = '\xff'\n" {
		t.Errorf("invalid utf-8 must be kept as is, got %q", text)
	}
	if len(res.Diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(res.Diagnostics))
	}
	d := res.Diagnostics[0]
	if d.Severity != diag.Warning || d.Span.Start.Line != 2 || d.Span.Start.Column != 6 {
		t.Errorf("got %v at %v, want warning at 2:6", d.Severity, d.Span.Start)
	}
}
