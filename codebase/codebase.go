// Package codebase keeps the parsed state of every Python file in a
// project and serves it to editors over the language server protocol.
package codebase

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/pyfront/config"
	"github.com/dhamidi/pyfront/python/diag"
	"github.com/dhamidi/pyfront/python/parser"
	"github.com/dhamidi/pyfront/python/tokenizer"
)

type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	cfg     *config.Config
	log     commonlog.Logger
	files   map[string]*FileInfo
	open    map[string]bool
}

// FileInfo is the latest parse of one file.
type FileInfo struct {
	Path         string
	Version      int
	Tokenization *tokenizer.Tokenization
	AST          *parser.AST
	Symbols      []Symbol
}

// Diagnostics returns the tokenizer and parser diagnostics of the file.
func (f *FileInfo) Diagnostics() []diag.Diagnostic {
	if f.AST == nil {
		return f.Tokenization.Errors()
	}
	return f.AST.Diagnostics
}

// Source returns the decoded text of the file.
func (f *FileInfo) Source() string {
	return f.Tokenization.Source()
}

func New(rootDir string, cfg *config.Config) *Codebase {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Codebase{
		rootDir: rootDir,
		cfg:     cfg,
		log:     commonlog.GetLogger("pyfront.codebase"),
		files:   make(map[string]*FileInfo),
		open:    make(map[string]bool),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

func (c *Codebase) Config() *config.Config {
	return c.cfg
}

func (c *Codebase) ScanAll(ctx context.Context) error {
	return filepath.WalkDir(c.rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != c.rootDir && c.cfg.Excluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if c.cfg.Matches(path) {
			if _, err := c.ScanFile(ctx, path); err != nil {
				c.log.Warningf("scan %s: %s", path, err)
			}
		}
		return ctx.Err()
	})
}

// ScanFile reads path from disk, honouring its declared encoding.
func (c *Codebase) ScanFile(ctx context.Context, path string) (*FileInfo, error) {
	tz, err := tokenizer.Tokenize(ctx, tokenizer.FileDocument{Path: path}, c.cfg.Parser.Version, c.cfg.TokenizerOptions())
	if err != nil {
		return nil, err
	}
	return c.store(ctx, path, 0, tz)
}

// UpdateFile replaces the file with raw bytes, decoding them first.
func (c *Codebase) UpdateFile(ctx context.Context, path string, content []byte) (*FileInfo, error) {
	doc := tokenizer.BytesDocument{Name: path, Data: content}
	tz, err := tokenizer.Tokenize(ctx, doc, c.cfg.Parser.Version, c.cfg.TokenizerOptions())
	if err != nil {
		return nil, err
	}
	return c.store(ctx, path, 0, tz)
}

// UpdateText replaces the file with already-decoded editor text. Lines
// before the first change are not tokenized again.
func (c *Codebase) UpdateText(ctx context.Context, path string, version int, text string) (*FileInfo, error) {
	var tz *tokenizer.Tokenization
	if prev := c.GetFile(path); prev != nil {
		tz = prev.Tokenization.Update(text, firstChangedLine(prev.Source(), text))
	} else {
		doc := tokenizer.StringDocument{Name: path, Text: text, Rev: version}
		var err error
		tz, err = tokenizer.Tokenize(ctx, doc, c.cfg.Parser.Version, c.cfg.TokenizerOptions())
		if err != nil {
			return nil, err
		}
	}
	return c.store(ctx, path, version, tz)
}

func (c *Codebase) store(ctx context.Context, path string, version int, tz *tokenizer.Tokenization) (*FileInfo, error) {
	tree, err := parser.New(tz, c.cfg.ParserOptions()...).Parse(ctx, nil)
	if err != nil {
		return nil, err
	}
	info := &FileInfo{
		Path:         path,
		Version:      version,
		Tokenization: tz,
		AST:          tree,
		Symbols:      Symbols(tree),
	}
	c.log.Debugf("parsed %s: %d diagnostics", path, len(tree.Diagnostics))

	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[path] = info
	return info, nil
}

// SetOpen marks path as owned by an editor. The watcher leaves open
// files alone.
func (c *Codebase) SetOpen(path string, open bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if open {
		c.open[path] = true
	} else {
		delete(c.open, path)
	}
}

func (c *Codebase) IsOpen(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.open[path]
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Files lists the known paths in sorted order.
func (c *Codebase) Files() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// FindSymbol looks a top-level class, function or variable up by name
// across all files.
func (c *Codebase) FindSymbol(name string) (string, *Symbol) {
	for _, path := range c.Files() {
		f := c.GetFile(path)
		if f == nil {
			continue
		}
		for i := range f.Symbols {
			if f.Symbols[i].Name == name {
				return path, &f.Symbols[i]
			}
		}
	}
	return "", nil
}

// firstChangedLine returns the index of the first line that differs
// between a and b.
func firstChangedLine(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return strings.Count(a[:n], "\n")
}
