package lexicon

type frame struct {
	n     *node
	depth int
	r     rune
}

// walk visits every terminal node under start in pre-order: a node before its
// children, children in key insertion order. The word passed to visit is prefix
// followed by the path from start. Returning false from visit ends the walk.
//
// An explicit stack keeps very long keys from growing the goroutine stack.
func walk(start *node, prefix string, visit func(word, meaning string) bool) {
	path := []rune(prefix)
	base := len(path)
	stack := []frame{{n: start}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// positions before base+depth-1 still hold this node's ancestors
		if f.depth > 0 {
			path = append(path[:base+f.depth-1], f.r)
		}

		if f.n.terminal && !visit(string(path), f.n.meaning) {
			return
		}

		for i := len(f.n.keys) - 1; i >= 0; i-- {
			k := f.n.keys[i]
			stack = append(stack, frame{n: f.n.children[k], depth: f.depth + 1, r: k})
		}
	}
}
