package engine

import (
	"github.com/ShieldCI/laravel-sub000/internal/phpast"
)

// Node construction helpers shared by the engine tests. Building trees by
// hand keeps these tests independent of the parser adapter.

func nodeAt(kind phpast.Kind, line int, children ...*phpast.Node) *phpast.Node {
	return &phpast.Node{
		Kind:     kind,
		Pos:      phpast.Position{StartLine: line, EndLine: line},
		Children: children,
	}
}

func nameNode(name string, line int) *phpast.Node {
	n := nodeAt(phpast.Name, line)
	n.Name = name

	return n
}

func variableNode(name string, line int) *phpast.Node {
	n := nodeAt(phpast.Variable, line)
	n.Name = name

	return n
}

func propertyNode(owner *phpast.Node, property string, line int) *phpast.Node {
	n := nodeAt(phpast.PropertyAccess, line)
	n.Name = property
	n.Receiver = owner
	n.Children = []*phpast.Node{owner}

	return n
}

func commentNode(text string, line int) *phpast.Node {
	n := nodeAt(phpast.Comment, line)
	n.Value = text

	return n
}

func stringNode(value string, line int) *phpast.Node {
	n := nodeAt(phpast.StringLit, line)
	n.Value = value

	return n
}

func callNode(kind phpast.Kind, receiver *phpast.Node, method string, line int, args ...*phpast.Node) *phpast.Node {
	n := nodeAt(kind, line)
	n.Name = method
	n.Receiver = receiver

	if receiver != nil {
		n.Children = append(n.Children, receiver)
	}

	n.Args = args
	n.Children = append(n.Children, args...)

	return n
}

func methodCall(receiver *phpast.Node, method string, line int, args ...*phpast.Node) *phpast.Node {
	return callNode(phpast.MethodCall, receiver, method, line, args...)
}

func staticCall(receiver *phpast.Node, method string, line int, args ...*phpast.Node) *phpast.Node {
	return callNode(phpast.StaticCall, receiver, method, line, args...)
}

func functionCall(name string, line int, args ...*phpast.Node) *phpast.Node {
	n := nodeAt(phpast.FunctionCall, line)
	n.Name = name
	n.Args = args
	n.Children = append(n.Children, args...)

	return n
}

func exprStmt(expr *phpast.Node) *phpast.Node {
	return nodeAt(phpast.ExprStmt, expr.Line(), expr)
}

func blockNode(line int, children ...*phpast.Node) *phpast.Node {
	return nodeAt(phpast.Block, line, children...)
}

// catchNode assembles a catch clause the way the parser adapter lays it out:
// caught type names, then the variable, then the body block.
func catchNode(line int, types []string, variable string, body *phpast.Node) *phpast.Node {
	n := nodeAt(phpast.Catch, line)

	for _, t := range types {
		n.Children = append(n.Children, nameNode(t, line))
	}

	if variable != "" {
		n.Children = append(n.Children, variableNode(variable, line))
	}

	if body != nil {
		n.Children = append(n.Children, body)
	}

	return n
}

func suppressNode(line int, expr *phpast.Node) *phpast.Node {
	return nodeAt(phpast.Suppress, line, expr)
}

func throwNode(line int, expr *phpast.Node) *phpast.Node {
	return nodeAt(phpast.Throw, line, expr)
}

func assignNode(line int, target, value *phpast.Node) *phpast.Node {
	return nodeAt(phpast.Assign, line, target, value)
}

// fluentChain builds Base::first(...)->rest(...) call spines. Each step is
// {method, static, args}.
type chainStep struct {
	method string
	static bool
	args   []*phpast.Node
}

func fluentChain(base *phpast.Node, line int, steps ...chainStep) *phpast.Node {
	current := base

	for _, step := range steps {
		kind := phpast.MethodCall
		if step.static {
			kind = phpast.StaticCall
		}

		current = callNode(kind, current, step.method, line, step.args...)
	}

	return current
}
