package engine

import (
	m "github.com/ShieldCI/laravel-sub000/internal/model"
	"github.com/ShieldCI/laravel-sub000/internal/phpast"
)

// Cursor is the traversal state handed to visitors: the scope stack plus the
// loop nesting at the current node.
type Cursor struct {
	tracker   *ScopeTracker
	loopDepth int
}

// Scopes returns the tracker positioned at the current node.
func (c *Cursor) Scopes() *ScopeTracker {
	return c.tracker
}

// InLoop reports whether the current node sits inside a loop statement.
func (c *Cursor) InLoop() bool {
	return c.loopDepth > 0
}

// Visitor receives every node in pre-order. Returning false prunes the
// subtree, scope bookkeeping included.
type Visitor func(node *phpast.Node, cur *Cursor) bool

// Traverse drives one scope-tracked pass over a parsed file. Declarations
// push frames before their subtree and pop after it; loops raise the loop
// depth for their bodies.
func Traverse(file *phpast.ParsedFile, visit Visitor) *ScopeTracker {
	if file == nil || file.Root == nil {
		return NewScopeTracker(0)
	}

	cur := &Cursor{tracker: NewScopeTracker(file.Root.Pos.EndLine)}

	walk(file.Root, cur, visit)

	return cur.tracker
}

func walk(node *phpast.Node, cur *Cursor, visit Visitor) {
	if node == nil {
		return
	}

	var handle ScopeHandle

	entered := false

	if kind, ok := scopeKind(node); ok {
		handle = cur.tracker.Enter(kind, node.Name, node.Pos.StartLine, node.Pos.EndLine)
		entered = true
	}

	if node.Loop() {
		cur.loopDepth++
		defer func() { cur.loopDepth-- }()
	}

	if entered {
		defer cur.tracker.Exit(handle)
	}

	if !visit(node, cur) {
		return
	}

	for _, child := range node.Children {
		walk(child, cur, visit)
	}
}

// scopeKind maps declaration-opening node kinds onto scope frames.
func scopeKind(node *phpast.Node) (m.ScopeKind, bool) {
	switch node.Kind {
	case phpast.ClassDecl, phpast.InterfaceDecl, phpast.TraitDecl, phpast.EnumDecl:
		return m.ScopeDeclaration, true
	case phpast.MethodDecl, phpast.FunctionDecl:
		return m.ScopeMethod, true
	case phpast.Closure, phpast.ArrowFunction, phpast.AnonymousClass:
		return m.ScopeAnonymousDeclaration, true
	}

	return "", false
}

// Imports builds the simple-name to namespace map from a file's use
// declarations, so unqualified receivers can be resolved against configured
// persistence namespaces.
func Imports(root *phpast.Node) map[string]string {
	imports := make(map[string]string)

	phpast.Walk(root, func(node *phpast.Node) bool {
		if node.Kind != phpast.UseDecl {
			return true
		}

		for _, child := range node.Children {
			if child.Kind != phpast.Name {
				continue
			}

			if ns := NamespaceOf(child.Name); ns != "" {
				imports[SimpleName(child.Name)] = ns
			}
		}

		return false
	})

	return imports
}
