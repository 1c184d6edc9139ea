package phpast

// Walk visits the tree in pre-order. The callback returning false prunes the
// subtree below the current node.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil {
		return
	}

	if !visit(n) {
		return
	}

	for _, child := range n.Children {
		Walk(child, visit)
	}
}

// Contains reports whether pred holds anywhere in the subtree, n included.
func Contains(n *Node, pred func(*Node) bool) bool {
	found := false

	Walk(n, func(node *Node) bool {
		if found {
			return false
		}

		if pred(node) {
			found = true
			return false
		}

		return true
	})

	return found
}

// Find returns the first node in pre-order for which pred holds, or nil.
func Find(n *Node, pred func(*Node) bool) *Node {
	var match *Node

	Walk(n, func(node *Node) bool {
		if match != nil {
			return false
		}

		if pred(node) {
			match = node
			return false
		}

		return true
	})

	return match
}

// Collect returns every node in pre-order for which pred holds.
func Collect(n *Node, pred func(*Node) bool) []*Node {
	var out []*Node

	Walk(n, func(node *Node) bool {
		if pred(node) {
			out = append(out, node)
		}

		return true
	})

	return out
}
