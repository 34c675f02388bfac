package codebase

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/pyfront/config"
	"github.com/dhamidi/pyfront/python/diag"
	"github.com/dhamidi/pyfront/python/token"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "pyfront"

type LSPServer struct {
	codebase *Codebase
	cfg      *config.Config
	handler  protocol.Handler
	server   *server.Server
	version  string
	log      commonlog.Logger

	mu      sync.Mutex
	notify  glsp.NotifyFunc
	watcher *FileWatcher
	cancel  context.CancelFunc
}

// NewLSPServer returns a server speaking LSP 3.16. cfg may be nil, in
// which case the configuration is looked up from the workspace root.
func NewLSPServer(version string, cfg *config.Config) *LSPServer {
	ls := &LSPServer{
		cfg:     cfg,
		version: version,
		log:     commonlog.GetLogger("pyfront.lsp"),
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
	}

	name := lsName
	if cfg != nil && cfg.LSP.Name != "" {
		name = cfg.LSP.Name
	}
	ls.server = server.NewServer(&ls.handler, name, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	cfg := ls.cfg
	if cfg == nil {
		var err error
		if cfg, err = config.LoadDir(rootDir); err != nil {
			ls.log.Warningf("%s, using defaults", err)
			cfg = config.Default()
		}
	}
	ls.codebase = New(rootDir, cfg)
	ls.log.Infof("workspace %s, Python %s", rootDir, cfg.Parser.Version)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.DocumentSymbolProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.mu.Lock()
	ls.notify = ctx.Notify
	ls.mu.Unlock()

	bg, cancel := context.WithCancel(context.Background())
	if err := ls.codebase.ScanAll(bg); err != nil {
		ls.log.Errorf("scan: %s", err)
	}
	for _, path := range ls.codebase.Files() {
		ls.publish(ls.codebase.GetFile(path))
	}

	watcher := NewFileWatcher(ls.codebase, ls.watchEvent)
	watcher.Start(bg)

	ls.mu.Lock()
	ls.watcher = watcher
	ls.cancel = cancel
	ls.mu.Unlock()
	return nil
}

func (ls *LSPServer) watchEvent(e Event) {
	if e.Kind == FileDeleted {
		ls.sendDiagnostics(pathToURI(e.Path), nil, nil)
		return
	}
	ls.publish(e.File)
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	ls.mu.Lock()
	watcher, cancel := ls.watcher, ls.cancel
	ls.watcher, ls.cancel = nil, nil
	ls.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if watcher != nil {
		watcher.Stop()
	}
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.SetOpen(path, true)
	ls.update(path, int(params.TextDocument.Version), params.TextDocument.Text)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.update(path, int(params.TextDocument.Version), whole.Text)
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.SetOpen(path, false)
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		version := 0
		if f := ls.codebase.GetFile(path); f != nil {
			version = f.Version
		}
		ls.update(path, version, *params.Text)
		return nil
	}
	file, err := ls.codebase.ScanFile(context.Background(), path)
	if err != nil {
		ls.log.Warningf("rescan %s: %s", path, err)
		return nil
	}
	ls.publish(file)
	return nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	file := ls.codebase.GetFile(path)
	if file == nil {
		return nil, nil
	}
	return toDocumentSymbols(file.Source(), file.Symbols), nil
}

func (ls *LSPServer) update(path string, version int, text string) {
	file, err := ls.codebase.UpdateText(context.Background(), path, version, text)
	if err != nil {
		ls.log.Errorf("parse %s: %s", path, err)
		return
	}
	ls.publish(file)
}

func (ls *LSPServer) publish(file *FileInfo) {
	if file == nil {
		return
	}
	var version *protocol.UInteger
	if file.Version > 0 {
		v := protocol.UInteger(file.Version)
		version = &v
	}
	ls.sendDiagnostics(pathToURI(file.Path), version, toDiagnostics(file.Source(), file.Diagnostics()))
}

func (ls *LSPServer) sendDiagnostics(uri string, version *protocol.UInteger, diagnostics []protocol.Diagnostic) {
	ls.mu.Lock()
	notify := ls.notify
	ls.mu.Unlock()
	if notify == nil {
		return
	}
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Version:     version,
		Diagnostics: diagnostics,
	})
}

func toDiagnostics(source string, diags []diag.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if d.Severity == diag.Ignore {
			continue
		}
		severity := toSeverity(d.Severity)
		name := lsName
		out = append(out, protocol.Diagnostic{
			Range:    toDiagnosticRange(source, d),
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: protocol.Integer(d.Code)},
			Source:   &name,
			Message:  d.Message,
		})
	}
	return out
}

func toSeverity(s diag.Severity) protocol.DiagnosticSeverity {
	switch s {
	case diag.Warning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityError
	}
}

func toDocumentSymbols(source string, symbols []Symbol) []protocol.DocumentSymbol {
	out := make([]protocol.DocumentSymbol, 0, len(symbols))
	for _, s := range symbols {
		sym := protocol.DocumentSymbol{
			Name:           s.Name,
			Kind:           toSymbolKind(s.Kind),
			Range:          toRange(source, s.Span),
			SelectionRange: toRange(source, s.Selection),
			Children:       toDocumentSymbols(source, s.Children),
		}
		if s.Detail != "" {
			detail := s.Detail
			sym.Detail = &detail
		}
		out = append(out, sym)
	}
	return out
}

func toSymbolKind(k SymbolKind) protocol.SymbolKind {
	switch k {
	case SymbolClass:
		return protocol.SymbolKindClass
	case SymbolFunction:
		return protocol.SymbolKindFunction
	case SymbolMethod:
		return protocol.SymbolKindMethod
	default:
		return protocol.SymbolKindVariable
	}
}

// toDiagnosticRange places d in source. Encoding problems are found
// before decoding, so their offsets index the raw bytes and only the
// line and column are usable.
func toDiagnosticRange(source string, d diag.Diagnostic) protocol.Range {
	if d.Code != diag.CodeEncoding || d.Span.IsNone() {
		return toRange(source, d.Span)
	}
	at := func(loc token.SourceLocation) protocol.Position {
		return protocol.Position{
			Line:      protocol.UInteger(max(loc.Line-1, 0)),
			Character: protocol.UInteger(max(loc.Column-1, 0)),
		}
	}
	return protocol.Range{Start: at(d.Span.Start), End: at(d.Span.End)}
}

func toRange(source string, span token.SourceSpan) protocol.Range {
	if span.IsNone() {
		return protocol.Range{}
	}
	return protocol.Range{
		Start: toPosition(source, span.Start),
		End:   toPosition(source, span.End),
	}
}

// toPosition converts a byte column into the UTF-16 offset LSP clients
// count in.
func toPosition(source string, loc token.SourceLocation) protocol.Position {
	end := loc.Index
	if end > len(source) {
		end = len(source)
	}
	start := end - (loc.Column - 1)
	if start < 0 {
		start = 0
	}
	units := 0
	for _, r := range source[start:end] {
		if utf16.IsSurrogate(r) || r < 0x10000 {
			units++
		} else {
			units += 2
		}
	}
	return protocol.Position{
		Line:      protocol.UInteger(loc.Line - 1),
		Character: protocol.UInteger(units),
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
