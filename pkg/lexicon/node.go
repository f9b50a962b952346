package lexicon

// node is a single trie vertex. keys holds the child runes in the order they were
// first inserted, which fixes the traversal order of every query.
type node struct {
	children map[rune]*node
	keys     []rune
	terminal bool
	meaning  string
}

func newNode() *node {
	return &node{}
}

// child returns the child for r, or nil.
func (n *node) child(r rune) *node {
	if n.children == nil {
		return nil
	}
	return n.children[r]
}

// addChild returns the child for r, creating it when absent.
// created reports whether a new node was allocated.
func (n *node) addChild(r rune) (c *node, created bool) {
	if c = n.child(r); c != nil {
		return c, false
	}
	if n.children == nil {
		n.children = make(map[rune]*node, 1)
	}
	c = newNode()
	n.children[r] = c
	n.keys = append(n.keys, r)
	return c, true
}
