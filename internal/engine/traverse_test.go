package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/ShieldCI/laravel-sub000/internal/model"
	"github.com/ShieldCI/laravel-sub000/internal/phpast"
)

func declNode(kind phpast.Kind, name string, start, end int, children ...*phpast.Node) *phpast.Node {
	n := &phpast.Node{
		Kind:     kind,
		Name:     name,
		Pos:      phpast.Position{StartLine: start, EndLine: end},
		Children: children,
	}

	return n
}

func TestTraverse_ScopeFrames(t *testing.T) {
	// class OrderService { public function sync() { $fn = function () { … }; } }
	closure := declNode(phpast.Closure, "", 12, 14, blockNode(12, exprStmt(functionCall("touch", 13))))
	method := declNode(phpast.MethodDecl, "sync", 10, 20, blockNode(10, exprStmt(closure)))
	class := declNode(phpast.ClassDecl, "OrderService", 5, 30, blockNode(5, method))
	file := &phpast.ParsedFile{Root: declNode(phpast.File, "", 1, 40, class)}

	type observation struct {
		kind  m.ScopeKind
		name  string
		depth int
	}

	var seen []observation

	Traverse(file, func(node *phpast.Node, cur *Cursor) bool {
		if node.Kind == phpast.FunctionCall {
			scope := cur.Scopes().Current()
			seen = append(seen, observation{scope.Kind, scope.Name, cur.Scopes().Depth()})
		}

		return true
	})

	require.Len(t, seen, 1)
	assert.Equal(t, m.ScopeAnonymousDeclaration, seen[0].kind)
	assert.Equal(t, 4, seen[0].depth) // file, class, method, closure
}

func TestTraverse_FramesPopBetweenSiblings(t *testing.T) {
	first := declNode(phpast.ClassDecl, "FirstClass", 2, 10, blockNode(2))
	second := declNode(phpast.ClassDecl, "SecondClass", 12, 20,
		blockNode(12, exprStmt(functionCall("probe", 13))))
	file := &phpast.ParsedFile{Root: declNode(phpast.File, "", 1, 30, first, second)}

	rules, _ := CompileDeclarationRules([]string{"FirstClass"})

	exempt := true

	Traverse(file, func(node *phpast.Node, cur *Cursor) bool {
		if node.Kind == phpast.FunctionCall {
			exempt = cur.Scopes().InsideExemptDeclaration(rules)
		}

		return true
	})

	assert.False(t, exempt, "SecondClass must not inherit FirstClass's exemption")
}

func TestTraverse_LoopDepth(t *testing.T) {
	loopBody := blockNode(6, exprStmt(functionCall("inside", 7)))
	loop := nodeAt(phpast.Foreach, 5, loopBody)
	file := &phpast.ParsedFile{
		Root: declNode(phpast.File, "", 1, 20, loop, exprStmt(functionCall("outside", 10))),
	}

	inLoop := make(map[string]bool)

	Traverse(file, func(node *phpast.Node, cur *Cursor) bool {
		if node.Kind == phpast.FunctionCall {
			inLoop[node.Name] = cur.InLoop()
		}

		return true
	})

	assert.True(t, inLoop["inside"])
	assert.False(t, inLoop["outside"])
}

func TestTraverse_PruneSkipsSubtree(t *testing.T) {
	inner := exprStmt(functionCall("hidden", 6))
	class := declNode(phpast.ClassDecl, "Skipped", 5, 10, blockNode(5, inner))
	file := &phpast.ParsedFile{Root: declNode(phpast.File, "", 1, 20, class)}

	var calls []string

	Traverse(file, func(node *phpast.Node, cur *Cursor) bool {
		if node.Kind == phpast.FunctionCall {
			calls = append(calls, node.Name)
		}

		return node.Kind != phpast.ClassDecl
	})

	assert.Empty(t, calls)
}

func TestImports(t *testing.T) {
	use := nodeAt(phpast.UseDecl, 3, nameNode(`App\Models\Order`, 3), nameNode(`App\Services\Mailer`, 3))
	root := declNode(phpast.File, "", 1, 10, use)

	imports := Imports(root)

	assert.Equal(t, `App\Models`, imports["Order"])
	assert.Equal(t, `App\Services`, imports["Mailer"])
	assert.NotContains(t, imports, "strlen")
}
