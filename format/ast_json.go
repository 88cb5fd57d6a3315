package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/tjc/java/ast"
	"github.com/dhamidi/tjc/java/compile"
)

// ASTJSONEncoder writes the tree of a compilation result as nested JSON.
// Partial trees of failed compilations are written too, next to their
// diagnostics.
type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(result *compile.Result) error {
	text, err := e.Marshal(result)
	if err != nil {
		return err
	}
	return write(e.w, append(text, '\n'), nil)
}

func (e *ASTJSONEncoder) Marshal(result *compile.Result) ([]byte, error) {
	doc := astJSONDocument{
		Path:        result.Path,
		OK:          result.OK,
		Diagnostics: diagnosticsToJSON(result.Diagnostics),
	}
	if result.Arena != nil {
		conv := astConverter{arena: result.Arena, lines: newLineIndex(result.Source)}
		doc.Root = conv.node(result.Root)
	}
	return json.MarshalIndent(doc, "", "  ")
}

type astJSONDocument struct {
	Path        string            `json:"path"`
	OK          bool              `json:"ok"`
	Root        *astJSONNode      `json:"root,omitempty"`
	Diagnostics []*diagnosticJSON `json:"diagnostics,omitempty"`
}

type astJSONNode struct {
	Kind     string         `json:"kind"`
	Line     int            `json:"line"`
	Column   int            `json:"column"`
	Public   bool           `json:"public,omitempty"`
	Static   bool           `json:"static,omitempty"`
	Type     string         `json:"type,omitempty"`
	Name     string         `json:"name,omitempty"`
	Op       string         `json:"op,omitempty"`
	Value    any            `json:"value,omitempty"`
	Children []*astJSONNode `json:"children,omitempty"`
}

type astConverter struct {
	arena *ast.Arena
	lines lineIndex
}

func (c astConverter) node(id ast.NodeID) *astJSONNode {
	n := c.arena.Node(id)
	if n == nil {
		return nil
	}
	jn := &astJSONNode{Kind: n.Kind().String()}
	jn.Line, jn.Column = c.lines.position(n.Tok.Offset)

	switch d := n.Data.(type) {
	case *ast.Import:
		jn.Name = d.Name
	case *ast.Class:
		jn.Public = d.Public
		jn.Name = d.Name
	case *ast.Field:
		jn.Public, jn.Static = d.Public, d.Static
		jn.Type, jn.Name = d.Type, d.Name
	case *ast.Method:
		jn.Public, jn.Static = d.Public, d.Static
		jn.Type, jn.Name = d.ReturnType, d.Name
	case *ast.LocalVar:
		jn.Type, jn.Name = d.Type, d.Name
	case *ast.Assign:
		jn.Name = d.Name
	case *ast.Increment:
		jn.Name = d.Name
	case *ast.Binary:
		jn.Op = d.Op.String()
	case *ast.IntLiteral:
		jn.Value = d.Value
	case *ast.StringLiteral:
		jn.Value = d.Value
	case *ast.Ident:
		jn.Name = d.Name
	case *ast.Call:
		jn.Name = d.Callee
	case *ast.New:
		jn.Type = d.Class
	}

	for _, child := range c.arena.Children(id) {
		if cn := c.node(child); cn != nil {
			jn.Children = append(jn.Children, cn)
		}
	}
	return jn
}
