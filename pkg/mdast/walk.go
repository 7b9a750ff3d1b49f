package mdast

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n *Node) error

// Walk performs a pre-order traversal of the tree starting at root.
// The callback walkFunc is called for each node. If walkFunc returns a non-nil error,
// the walk stops immediately and returns that error.
func Walk(root *Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}

	// Visit the current node.
	if err := walkFunc(root); err != nil {
		return err
	}

	// Visit children.
	for child := root.FirstChild; child != nil; child = child.Next {
		if err := Walk(child, walkFunc); err != nil {
			return err
		}
	}

	return nil
}

// FindAll returns all nodes matching the predicate.
func FindAll(root *Node, predicate func(n *Node) bool) []*Node {
	var result []*Node

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(node *Node) error {
		if predicate(node) {
			result = append(result, node)
		}
		return nil
	})

	return result
}

// FindFirst returns the first node matching the predicate, or nil if none found.
func FindFirst(root *Node, predicate func(n *Node) bool) *Node {
	var found *Node

	//nolint:errcheck,revive // errStopWalk is expected and intentionally ignored
	Walk(root, func(node *Node) error {
		if predicate(node) {
			found = node
			return errStopWalk
		}
		return nil
	})

	return found
}

// FindByKind returns all nodes of the specified kind.
func FindByKind(root *Node, kind NodeKind) []*Node {
	return FindAll(root, func(n *Node) bool {
		return n.Kind == kind
	})
}

// errStopWalk is a sentinel error used to stop walking early.
var errStopWalk = &stopWalkError{}

type stopWalkError struct{}

func (e *stopWalkError) Error() string {
	return "stop walk"
}

// Handler is a per-kind callback used by Visit.
type Handler func(n *Node)

// Handlers maps node kinds to the callback Visit runs for them.
type Handlers map[NodeKind]Handler

// Visit walks root in pre-order, parent before children, and calls the
// handler registered for each node's kind. Children of every node are
// visited regardless of the parent's kind or whether it had a handler.
func Visit(root *Node, handlers Handlers) {
	if root == nil || len(handlers) == 0 {
		return
	}

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(n *Node) error {
		if h, ok := handlers[n.Kind]; ok && h != nil {
			h(n)
		}
		return nil
	})
}

// WalkDepth is Walk with the node's depth below root (root is 0).
func WalkDepth(root *Node, fn func(n *Node, depth int) error) error {
	return walkDepth(root, 0, fn)
}

func walkDepth(n *Node, depth int, fn func(n *Node, depth int) error) error {
	if n == nil {
		return nil
	}
	if err := fn(n, depth); err != nil {
		return err
	}
	for child := n.FirstChild; child != nil; child = child.Next {
		if err := walkDepth(child, depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}
