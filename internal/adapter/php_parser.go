package adapter

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/php"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
	"github.com/ShieldCI/laravel-sub000/internal/phpast"
)

// Parser converts raw PHP sources into the closed syntax tree. Implementations
// must be safe for concurrent use.
type Parser interface {
	Parse(ctx context.Context, src []byte, path m.Path) (*phpast.ParsedFile, error)
}

// TreeSitterParser parses PHP through the tree-sitter grammar. A fresh
// low-level parser is created per call; the tree-sitter handles never outlive
// the conversion.
type TreeSitterParser struct{}

// NewTreeSitterParser constructs a TreeSitterParser.
func NewTreeSitterParser() *TreeSitterParser {
	return &TreeSitterParser{}
}

// Parse converts one source file. Files the grammar cannot fully parse return
// an error so callers can apply the skip-and-continue policy.
func (p *TreeSitterParser) Parse(ctx context.Context, src []byte, path m.Path) (*phpast.ParsedFile, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(php.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("parse %s: empty tree", path)
	}

	if root.HasError() {
		return nil, fmt.Errorf("parse %s: syntax errors", path)
	}

	c := &converter{src: src}

	return &phpast.ParsedFile{
		Path:   string(path),
		Root:   c.convert(root),
		Source: src,
	}, nil
}

// converter turns tree-sitter nodes into phpast nodes. Node types the mapping
// does not recognize become generic nodes with converted children, so newer
// grammar revisions degrade into plain traversal instead of breaking.
type converter struct {
	src []byte
}

func (c *converter) convert(ts *sitter.Node) *phpast.Node {
	if ts == nil {
		return nil
	}

	switch ts.Type() {
	case "program":
		return c.generic(ts, phpast.File)

	case "text", "text_interpolation":
		return c.leaf(ts, phpast.InlineHTML, "", c.text(ts))

	case "comment":
		return c.leaf(ts, phpast.Comment, "", c.text(ts))

	case "ERROR":
		return c.generic(ts, phpast.Error)

	case "namespace_definition":
		return c.named(ts, phpast.NamespaceDecl)

	case "namespace_use_declaration":
		return c.generic(ts, phpast.UseDecl)

	case "class_declaration":
		return c.named(ts, phpast.ClassDecl)

	case "interface_declaration":
		return c.named(ts, phpast.InterfaceDecl)

	case "trait_declaration":
		return c.named(ts, phpast.TraitDecl)

	case "enum_declaration":
		return c.named(ts, phpast.EnumDecl)

	case "method_declaration":
		return c.named(ts, phpast.MethodDecl)

	case "function_definition":
		return c.named(ts, phpast.FunctionDecl)

	case "anonymous_function_creation_expression", "anonymous_function":
		return c.generic(ts, phpast.Closure)

	case "arrow_function":
		return c.generic(ts, phpast.ArrowFunction)

	case "object_creation_expression":
		return c.objectCreation(ts)

	case "compound_statement", "declaration_list":
		return c.generic(ts, phpast.Block)

	case "try_statement":
		return c.generic(ts, phpast.Try)

	case "catch_clause":
		return c.catchClause(ts)

	case "finally_clause":
		return c.generic(ts, phpast.Finally)

	case "if_statement":
		return c.generic(ts, phpast.If)

	case "while_statement":
		return c.generic(ts, phpast.While)

	case "do_statement":
		return c.generic(ts, phpast.DoWhile)

	case "for_statement":
		return c.generic(ts, phpast.For)

	case "foreach_statement":
		return c.generic(ts, phpast.Foreach)

	case "switch_statement":
		return c.generic(ts, phpast.Switch)

	case "match_expression":
		return c.generic(ts, phpast.Match)

	case "return_statement":
		return c.generic(ts, phpast.Return)

	case "break_statement":
		return c.generic(ts, phpast.Break)

	case "continue_statement":
		return c.generic(ts, phpast.Continue)

	case "throw_statement", "throw_expression":
		return c.generic(ts, phpast.Throw)

	case "echo_statement":
		return c.generic(ts, phpast.Echo)

	case "expression_statement":
		return c.generic(ts, phpast.ExprStmt)

	case "assignment_expression":
		return c.generic(ts, phpast.Assign)

	case "augmented_assignment_expression":
		return c.operator(ts, phpast.AugAssign)

	case "binary_expression":
		return c.operator(ts, phpast.Binary)

	case "conditional_expression":
		return c.generic(ts, phpast.Ternary)

	case "unary_op_expression":
		return c.unary(ts)

	case "error_suppression_expression":
		return c.generic(ts, phpast.Suppress)

	case "member_call_expression", "nullsafe_member_call_expression":
		return c.memberCall(ts)

	case "scoped_call_expression":
		return c.scopedCall(ts)

	case "function_call_expression":
		return c.functionCall(ts)

	case "member_access_expression", "nullsafe_member_access_expression":
		return c.memberAccess(ts)

	case "scoped_property_access_expression":
		return c.generic(ts, phpast.StaticProperty)

	case "variable_name":
		return c.leaf(ts, phpast.Variable, strings.TrimPrefix(c.text(ts), "$"), "")

	case "dynamic_variable_name":
		return c.leaf(ts, phpast.Variable, "", "")

	case "name", "qualified_name", "relative_name":
		return c.leaf(ts, phpast.Name, c.text(ts), "")

	case "array_creation_expression", "list_literal":
		return c.generic(ts, phpast.ArrayLit)

	case "subscript_expression":
		return c.generic(ts, phpast.Subscript)

	case "string", "nowdoc":
		return c.leaf(ts, phpast.StringLit, "", stripQuotes(c.text(ts)))

	case "encapsed_string":
		return c.encapsed(ts)

	case "heredoc":
		return c.leaf(ts, phpast.InterpString, "", c.text(ts))

	case "integer":
		return c.leaf(ts, phpast.IntLit, "", c.text(ts))

	case "float":
		return c.leaf(ts, phpast.FloatLit, "", c.text(ts))

	case "boolean":
		return c.leaf(ts, phpast.BoolLit, "", strings.ToLower(c.text(ts)))

	case "null":
		return c.leaf(ts, phpast.NullLit, "", "null")

	default:
		return c.generic(ts, phpast.Other)
	}
}

// generic converts a node keeping only kind, position and children.
func (c *converter) generic(ts *sitter.Node, kind phpast.Kind) *phpast.Node {
	return &phpast.Node{
		Kind:     kind,
		Pos:      c.position(ts),
		Children: c.children(ts),
	}
}

// named converts declaration nodes, lifting the name field.
func (c *converter) named(ts *sitter.Node, kind phpast.Kind) *phpast.Node {
	node := c.generic(ts, kind)

	if name := ts.ChildByFieldName("name"); valid(name) {
		node.Name = c.text(name)
	}

	return node
}

// operator converts binary-shaped nodes, lifting the operator token.
func (c *converter) operator(ts *sitter.Node, kind phpast.Kind) *phpast.Node {
	node := c.generic(ts, kind)

	if op := ts.ChildByFieldName("operator"); valid(op) {
		node.Name = c.text(op)
	}

	return node
}

// leaf builds a childless node carrying an identifier or literal payload.
func (c *converter) leaf(ts *sitter.Node, kind phpast.Kind, name, value string) *phpast.Node {
	return &phpast.Node{
		Kind:  kind,
		Name:  name,
		Value: value,
		Pos:   c.position(ts),
	}
}

// unary maps @-prefixed expressions to Suppress, everything else to Unary.
// Older grammar revisions expose suppression as a plain unary operator.
func (c *converter) unary(ts *sitter.Node) *phpast.Node {
	op := ""
	if ts.ChildCount() > 0 {
		first := ts.Child(0)
		if first != nil && !first.IsNamed() {
			op = c.text(first)
		}
	}

	if op == "@" {
		return c.generic(ts, phpast.Suppress)
	}

	node := c.generic(ts, phpast.Unary)
	node.Name = op

	return node
}

// objectCreation distinguishes `new class { … }` from plain construction.
func (c *converter) objectCreation(ts *sitter.Node) *phpast.Node {
	kind := phpast.New

	for i := 0; i < int(ts.NamedChildCount()); i++ {
		if child := ts.NamedChild(i); child != nil && child.Type() == "declaration_list" {
			kind = phpast.AnonymousClass
			break
		}
	}

	node := c.generic(ts, kind)

	for _, child := range node.Children {
		if child.Kind == phpast.Name {
			node.Name = child.Name
			break
		}
	}

	return node
}

// catchClause flattens the caught type union into Name children so the
// classifier can read members in source order.
func (c *converter) catchClause(ts *sitter.Node) *phpast.Node {
	node := &phpast.Node{Kind: phpast.Catch, Pos: c.position(ts)}

	if typeList := ts.ChildByFieldName("type"); valid(typeList) {
		for i := 0; i < int(typeList.NamedChildCount()); i++ {
			member := typeList.NamedChild(i)
			if member == nil {
				continue
			}

			node.Children = append(node.Children, c.leaf(member, phpast.Name, c.text(member), ""))
		}
	}

	if variable := ts.ChildByFieldName("name"); valid(variable) {
		node.Children = append(node.Children, c.convert(variable))
	}

	if body := ts.ChildByFieldName("body"); valid(body) {
		node.Children = append(node.Children, c.convert(body))
	}

	return node
}

// memberCall converts $obj->method(…); dynamic method names leave Name empty.
func (c *converter) memberCall(ts *sitter.Node) *phpast.Node {
	node := &phpast.Node{Kind: phpast.MethodCall, Pos: c.position(ts)}

	if object := ts.ChildByFieldName("object"); valid(object) {
		receiver := c.convert(object)
		node.Receiver = receiver
		node.Children = append(node.Children, receiver)
	}

	if name := ts.ChildByFieldName("name"); valid(name) {
		if name.Type() == "name" {
			node.Name = c.text(name)
		}

		node.Pos.StartLine = int(name.StartPoint().Row) + 1
	}

	if args := ts.ChildByFieldName("arguments"); valid(args) {
		node.Args = c.argList(args)
		node.Children = append(node.Children, node.Args...)
	}

	return node
}

// scopedCall converts Type::method(…); dynamic scopes stay as Variable
// receivers, dynamic method names leave Name empty.
func (c *converter) scopedCall(ts *sitter.Node) *phpast.Node {
	node := &phpast.Node{Kind: phpast.StaticCall, Pos: c.position(ts)}

	if scope := ts.ChildByFieldName("scope"); valid(scope) {
		receiver := c.convert(scope)
		node.Receiver = receiver
		node.Children = append(node.Children, receiver)
	}

	if name := ts.ChildByFieldName("name"); valid(name) {
		if name.Type() == "name" {
			node.Name = c.text(name)
		}

		node.Pos.StartLine = int(name.StartPoint().Row) + 1
	}

	if args := ts.ChildByFieldName("arguments"); valid(args) {
		node.Args = c.argList(args)
		node.Children = append(node.Children, node.Args...)
	}

	return node
}

// functionCall converts foo(…); a non-name callee becomes the receiver and
// marks the call dynamic.
func (c *converter) functionCall(ts *sitter.Node) *phpast.Node {
	node := &phpast.Node{Kind: phpast.FunctionCall, Pos: c.position(ts)}

	if callee := ts.ChildByFieldName("function"); valid(callee) {
		switch callee.Type() {
		case "name", "qualified_name":
			node.Name = c.text(callee)
			node.Pos.StartLine = int(callee.StartPoint().Row) + 1
		default:
			receiver := c.convert(callee)
			node.Receiver = receiver
			node.Children = append(node.Children, receiver)
		}
	}

	if args := ts.ChildByFieldName("arguments"); valid(args) {
		node.Args = c.argList(args)
		node.Children = append(node.Children, node.Args...)
	}

	return node
}

// memberAccess converts $obj->prop; dynamic property names leave Name empty.
func (c *converter) memberAccess(ts *sitter.Node) *phpast.Node {
	node := &phpast.Node{Kind: phpast.PropertyAccess, Pos: c.position(ts)}

	if object := ts.ChildByFieldName("object"); valid(object) {
		receiver := c.convert(object)
		node.Receiver = receiver
		node.Children = append(node.Children, receiver)
	}

	if name := ts.ChildByFieldName("name"); valid(name) && name.Type() == "name" {
		node.Name = c.text(name)
	}

	return node
}

// encapsed downgrades interpolated strings without interpolation to plain
// literals so the literal heuristics see them.
func (c *converter) encapsed(ts *sitter.Node) *phpast.Node {
	interpolated := false

	for i := 0; i < int(ts.NamedChildCount()); i++ {
		child := ts.NamedChild(i)
		if child == nil {
			continue
		}

		switch child.Type() {
		case "string_content", "escape_sequence":
		default:
			interpolated = true
		}
	}

	if interpolated {
		node := c.generic(ts, phpast.InterpString)
		node.Value = stripQuotes(c.text(ts))

		return node
	}

	return c.leaf(ts, phpast.StringLit, "", stripQuotes(c.text(ts)))
}

// argList unwraps an arguments node into bare expression nodes.
func (c *converter) argList(args *sitter.Node) []*phpast.Node {
	var out []*phpast.Node

	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		if arg == nil {
			continue
		}

		if arg.Type() == "argument" || arg.Type() == "variadic_unpacking" {
			if arg.NamedChildCount() > 0 {
				if inner := arg.NamedChild(int(arg.NamedChildCount()) - 1); inner != nil {
					out = append(out, c.convert(inner))
				}

				continue
			}
		}

		out = append(out, c.convert(arg))
	}

	return out
}

func (c *converter) children(ts *sitter.Node) []*phpast.Node {
	count := int(ts.NamedChildCount())
	if count == 0 {
		return nil
	}

	out := make([]*phpast.Node, 0, count)

	for i := 0; i < count; i++ {
		child := ts.NamedChild(i)
		if child == nil {
			continue
		}

		out = append(out, c.convert(child))
	}

	return out
}

func (c *converter) position(ts *sitter.Node) phpast.Position {
	return phpast.Position{
		StartLine: int(ts.StartPoint().Row) + 1,
		EndLine:   int(ts.EndPoint().Row) + 1,
		StartByte: int(ts.StartByte()),
		EndByte:   int(ts.EndByte()),
	}
}

func (c *converter) text(ts *sitter.Node) string {
	return ts.Content(c.src)
}

func valid(ts *sitter.Node) bool {
	return ts != nil && !ts.IsNull()
}

func stripQuotes(raw string) string {
	if len(raw) >= 2 {
		first, last := raw[0], raw[len(raw)-1]
		if (first == '\'' && last == '\'') || (first == '"' && last == '"') {
			return raw[1 : len(raw)-1]
		}
	}

	return raw
}
