package ast

// Walk traverses the tree depth-first in pre-order (node, left, right) and
// calls fn for each node. If fn returns false, the children of that node
// are skipped.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	Walk(n.Left, fn)
	Walk(n.Right, fn)
}

// Count returns the number of nodes reachable from n.
func Count(n *Node) int {
	count := 0
	Walk(n, func(*Node) bool {
		count++
		return true
	})
	return count
}

// Depth returns the height of the tree rooted at n.
func Depth(n *Node) int {
	if n == nil {
		return 0
	}
	return 1 + max(Depth(n.Left), Depth(n.Right))
}

// Find returns the first node in pre-order for which match returns true.
func Find(n *Node, match func(*Node) bool) *Node {
	var found *Node
	Walk(n, func(c *Node) bool {
		if found != nil {
			return false
		}
		if match(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// Release tears the tree down in post-order, detaching every child exactly
// once, and returns the number of nodes visited.
func Release(n *Node) int {
	if n == nil {
		return 0
	}
	left, right := n.Detach()
	return Release(left) + Release(right) + 1
}
