// Package phpast defines the closed syntax-tree representation the engine
// works on. Parser adapters produce it; nothing downstream ever touches the
// underlying parser library.
package phpast

// Kind identifies the syntactic shape of a node. The set is closed: parser
// adapters map anything they do not recognize to KindOther so that grammar
// drift degrades into generic traversal instead of breakage.
type Kind string

const (
	// File is the root of a parsed source file.
	File Kind = "file"
	// InlineHTML is literal template output between PHP tags.
	InlineHTML Kind = "inline-html"
	// Error is a parse-error subtree.
	Error Kind = "error"
	// Comment is a line or block comment.
	Comment Kind = "comment"
	// Other is any recognized-but-uninteresting construct.
	Other Kind = "other"

	// Declarations.

	NamespaceDecl  Kind = "namespace"
	UseDecl        Kind = "use"
	ClassDecl      Kind = "class"
	InterfaceDecl  Kind = "interface"
	TraitDecl      Kind = "trait"
	EnumDecl       Kind = "enum"
	MethodDecl     Kind = "method"
	FunctionDecl   Kind = "function"
	Closure        Kind = "closure"
	ArrowFunction  Kind = "arrow-function"
	AnonymousClass Kind = "anonymous-class"

	// Statements.

	Block    Kind = "block"
	Try      Kind = "try"
	Catch    Kind = "catch"
	Finally  Kind = "finally"
	If       Kind = "if"
	While    Kind = "while"
	DoWhile  Kind = "do-while"
	For      Kind = "for"
	Foreach  Kind = "foreach"
	Switch   Kind = "switch"
	Match    Kind = "match"
	Return   Kind = "return"
	Break    Kind = "break"
	Continue Kind = "continue"
	Throw    Kind = "throw"
	Echo     Kind = "echo"
	ExprStmt Kind = "expr-stmt"

	// Expressions.

	Assign         Kind = "assign"
	AugAssign      Kind = "aug-assign"
	Binary         Kind = "binary"
	Ternary        Kind = "ternary"
	Unary          Kind = "unary"
	Suppress       Kind = "suppress"
	MethodCall     Kind = "method-call"
	StaticCall     Kind = "static-call"
	FunctionCall   Kind = "function-call"
	New            Kind = "new"
	PropertyAccess Kind = "property-access"
	StaticProperty Kind = "static-property"
	Variable       Kind = "variable"
	Name           Kind = "name"
	Subscript      Kind = "subscript"

	// Literals.

	ArrayLit     Kind = "array"
	StringLit    Kind = "string"
	InterpString Kind = "interp-string"
	IntLit       Kind = "int"
	FloatLit     Kind = "float"
	BoolLit      Kind = "bool"
	NullLit      Kind = "null"
)

// Position locates a node in its source file. Lines are 1-based.
type Position struct {
	StartLine int
	EndLine   int
	StartByte int
	EndByte   int
}

// Node is one vertex of the tree. Children holds every converted child in
// source order and is the single traversal path; Receiver and Args alias
// into Children for the call-shaped kinds so classification code reads
// naturally. Name carries identifiers and operators, Value literal payloads.
//
// Per kind:
//   - ClassDecl/InterfaceDecl/TraitDecl/EnumDecl/MethodDecl/FunctionDecl: Name
//     is the declared identifier.
//   - MethodCall/StaticCall/FunctionCall: Name is the callee name, empty when
//     the callee is dynamic; Receiver is the object or scope expression.
//   - PropertyAccess: Name is the property, empty when dynamic; Receiver is
//     the owner expression.
//   - Variable: Name without the leading sigil.
//   - Binary/Unary/AugAssign: Name is the operator token.
//   - StringLit/InterpString: Value is the inner text without quotes.
//   - IntLit/FloatLit/BoolLit: Value is the raw token text.
//   - Comment: Value is the raw comment including markers.
type Node struct {
	Kind     Kind
	Name     string
	Value    string
	Pos      Position
	Receiver *Node
	Args     []*Node
	Children []*Node
}

// ParsedFile is a converted source file plus the raw bytes it came from,
// kept for snippet extraction.
type ParsedFile struct {
	Path   string
	Root   *Node
	Source []byte
}

// Line returns the 1-based line the node starts on.
func (n *Node) Line() int {
	return n.Pos.StartLine
}

// Declaration reports whether the node opens a named declaration frame.
func (n *Node) Declaration() bool {
	switch n.Kind {
	case ClassDecl, InterfaceDecl, TraitDecl, EnumDecl:
		return true
	}

	return false
}

// AnonymousDeclaration reports whether the node opens an anonymous frame.
func (n *Node) AnonymousDeclaration() bool {
	switch n.Kind {
	case Closure, ArrowFunction, AnonymousClass:
		return true
	}

	return false
}

// Loop reports whether the node is a looping statement.
func (n *Node) Loop() bool {
	switch n.Kind {
	case While, DoWhile, For, Foreach:
		return true
	}

	return false
}

// Call reports whether the node invokes something.
func (n *Node) Call() bool {
	switch n.Kind {
	case MethodCall, StaticCall, FunctionCall:
		return true
	}

	return false
}

// Statements returns the non-comment children of a block-like node.
func (n *Node) Statements() []*Node {
	out := make([]*Node, 0, len(n.Children))

	for _, child := range n.Children {
		if child.Kind == Comment {
			continue
		}

		out = append(out, child)
	}

	return out
}

// Comments returns the comment children of a block-like node.
func (n *Node) Comments() []*Node {
	var out []*Node

	for _, child := range n.Children {
		if child.Kind == Comment {
			out = append(out, child)
		}
	}

	return out
}

// CatchTypes returns the caught type names of a catch clause in source order.
func (n *Node) CatchTypes() []string {
	if n.Kind != Catch {
		return nil
	}

	var out []string

	for _, child := range n.Children {
		if child.Kind == Name {
			out = append(out, child.Name)
		}
	}

	return out
}

// CatchVariable returns the caught variable name, empty for catch without one.
func (n *Node) CatchVariable() string {
	if n.Kind != Catch {
		return ""
	}

	for _, child := range n.Children {
		if child.Kind == Variable {
			return child.Name
		}
	}

	return ""
}

// CatchBody returns the handler block of a catch clause.
func (n *Node) CatchBody() *Node {
	if n.Kind != Catch {
		return nil
	}

	for _, child := range n.Children {
		if child.Kind == Block {
			return child
		}
	}

	return nil
}

// Body returns the first block child, which holds the statements of
// declarations, loops and try statements.
func (n *Node) Body() *Node {
	for _, child := range n.Children {
		if child.Kind == Block {
			return child
		}
	}

	return nil
}
