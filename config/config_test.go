package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dhamidi/pyfront/python/diag"
	"github.com/dhamidi/pyfront/python/parser"
	"github.com/dhamidi/pyfront/python/token"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: ".pyfront.toml",
			content: `[parser]
version = "2.7"
indentation_inconsistency = "warning"
max_depth = 50
reset_nesting = false
future = ["print_function", "division"]

[lsp]
verbosity = 2

[watch]
interval = "500ms"
extensions = [".py"]
`,
		},
		{
			name: "yaml",
			file: ".pyfront.yaml",
			content: `parser:
  version: "2.7"
  indentation_inconsistency: warning
  max_depth: 50
  reset_nesting: false
  future: [print_function, division]
lsp:
  verbosity: 2
watch:
  interval: 500ms
  extensions: [.py]
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)
			cfg, err := Load(path)
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Parser.Version != token.V27 {
				t.Errorf("version: got %v, want %v", cfg.Parser.Version, token.V27)
			}
			if cfg.Parser.IndentationInconsistency != diag.Warning {
				t.Errorf("severity: got %v, want %v", cfg.Parser.IndentationInconsistency, diag.Warning)
			}
			if cfg.Parser.MaxDepth != 50 {
				t.Errorf("max depth: got %d, want 50", cfg.Parser.MaxDepth)
			}
			if !cfg.TokenizerOptions().DisableNestingReset {
				t.Errorf("nesting reset was not disabled")
			}
			if got := cfg.FutureOptions(); !got.Has(parser.FuturePrintFunction | parser.FutureDivision) {
				t.Errorf("future: got %b", got)
			}
			if cfg.Watch.Interval.Duration != 500*time.Millisecond {
				t.Errorf("interval: got %v, want 500ms", cfg.Watch.Interval)
			}
			if cfg.LSP.Name != "pyfront" || cfg.LSP.Verbosity != 2 {
				t.Errorf("lsp: got %+v", cfg.LSP)
			}
			if n := len(cfg.ParserOptions()); n != 4 {
				t.Errorf("got %d parser options, want 4", n)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(dir, "missing.toml")},
		{"bad version", writeFile(t, dir, "v.toml", "[parser]\nversion = \"4.0\"\n")},
		{"bad future", writeFile(t, dir, "f.yaml", "parser:\n  future: [braces]\n")},
		{"bad duration", writeFile(t, dir, "d.toml", "[watch]\ninterval = \"soon\"\n")},
		{"negative depth", writeFile(t, dir, "n.yml", "parser:\n  max_depth: -1\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path); err == nil {
				t.Errorf("expected an error")
			}
		})
	}

	_, err := Load(writeFile(t, dir, "config.json", "{}"))
	if !errors.Is(err, ErrUnsupportedConfig) {
		t.Errorf("got %v, want ErrUnsupportedConfig", err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Parser.Version != token.Latest {
		t.Errorf("version: got %v, want %v", cfg.Parser.Version, token.Latest)
	}
	if cfg.Parser.MaxDepth != parser.DefaultMaxDepth {
		t.Errorf("max depth: got %d", cfg.Parser.MaxDepth)
	}
	if cfg.TokenizerOptions().DisableNestingReset {
		t.Errorf("nesting reset disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	want := writeFile(t, root, ".pyfront.yaml", "lsp:\n  name: x\n")
	if got := Find(nested); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	cfg, err := LoadDir(nested)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LSP.Name != "x" {
		t.Errorf("name: got %q, want %q", cfg.LSP.Name, "x")
	}
}

func TestMatches(t *testing.T) {
	cfg := Default()
	tests := []struct {
		path string
		want bool
	}{
		{"pkg/mod.py", true},
		{"pkg/mod.PY", true},
		{"pkg/mod.txt", false},
		{"pkg/__pycache__/mod.py", false},
		{".venv/lib/site.py", false},
	}
	for _, tt := range tests {
		if got := cfg.Matches(tt.path); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.path, got, tt.want)
		}
	}
}
