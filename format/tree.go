package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/pyfront/python/ast"
	"github.com/dhamidi/pyfront/python/parser"
)

// TreeEncoder writes one line per node, indented by depth.
type TreeEncoder struct {
	w         io.Writer
	tree      *parser.AST
	positions bool
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) WithPositions(on bool) *TreeEncoder {
	e.positions = on
	return e
}

func (e *TreeEncoder) Encode(tree *parser.AST) error {
	e.tree = tree
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	e.writeNode(&sb, e.tree.Root, 0)
	for _, d := range e.tree.Diagnostics {
		fmt.Fprintf(&sb, "! %s\n", d)
	}
	return []byte(sb.String()), nil
}

func (e *TreeEncoder) writeNode(sb *strings.Builder, n ast.Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.Kind().String())
	if label := Label(n); label != "" {
		sb.WriteByte(' ')
		sb.WriteString(label)
	}
	if e.positions {
		fmt.Fprintf(sb, " [%s]", n.Span())
	}
	sb.WriteByte('\n')
	for _, child := range ast.Children(n) {
		e.writeNode(sb, child, depth+1)
	}
}

var argPrefixes = map[ast.ArgKind]string{
	ast.ArgList: "*",
	ast.ArgDict: "**",
}

var parameterPrefixes = map[ast.ParameterKind]string{
	ast.ParameterList:          "*",
	ast.ParameterDict:          "**",
	ast.ParameterKeywordMarker: "*",
}

// Label is the short description of a node shown next to its kind: a
// name, a literal value or an operator. Most nodes have none.
func Label(n ast.Node) string {
	switch n := n.(type) {
	case *ast.NameExpression:
		return n.Name()
	case *ast.ConstantExpression:
		return constantString(n.Value())
	case *ast.StringExpression:
		return constantString(n.Value())
	case *ast.BinaryExpression:
		return n.Operator().String()
	case *ast.UnaryExpression:
		return n.Operator().String()
	case *ast.AugmentedAssignStatement:
		return n.Operator().String()
	case *ast.Clause:
		return n.Keyword().String()
	case *ast.DottedName:
		return n.String()
	case *ast.ImportName:
		return n.Bound()
	case *ast.FromImportStatement:
		return strings.Repeat(".", n.Level())
	case *ast.Arg:
		return argPrefixes[n.ArgKind()]
	case *ast.Parameter:
		return parameterPrefixes[n.ParameterKind()]
	case *ast.StarredExpression:
		if n.IsDouble() {
			return "**"
		}
		return "*"
	case *ast.FunctionDefinition:
		if n.IsAsync() {
			return "async"
		}
	case *ast.ForStatement:
		if n.IsAsync() {
			return "async"
		}
	case *ast.WithStatement:
		if n.IsAsync() {
			return "async"
		}
	case *ast.ComprehensionFor:
		if n.IsAsync() {
			return "async"
		}
	case *ast.ErrorStatement:
		return strconv.Quote(n.Message())
	}
	return ""
}

func constantString(v any) string {
	switch v := v.(type) {
	case string:
		return strconv.Quote(v)
	case []byte:
		return "b" + strconv.Quote(string(v))
	case complex128:
		return strconv.FormatFloat(imag(v), 'g', -1, 64) + "j"
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
