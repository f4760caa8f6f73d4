package core

import "slices"

// Hierarchical is the stub capability for nested states: a state that knows
// its parent. The engine does not use it during firing; the helpers below let
// callers reason about nesting in guards and hooks.
type Hierarchical[S any] interface {
	comparable
	Parent() (S, bool)
}

// Ancestors returns the chain from the outermost ancestor down to s, including s.
func Ancestors[S Hierarchical[S]](s S) []S {
	chain := []S{s}
	seen := map[S]struct{}{s: {}}
	for cur := s; ; {
		parent, ok := cur.Parent()
		if !ok {
			break
		}
		if _, loop := seen[parent]; loop {
			break
		}
		seen[parent] = struct{}{}
		chain = append(chain, parent)
		cur = parent
	}
	slices.Reverse(chain)
	return chain
}

// CommonAncestor returns the innermost state that is an ancestor of (or equal
// to) both a and b.
func CommonAncestor[S Hierarchical[S]](a, b S) (S, bool) {
	as, bs := Ancestors(a), Ancestors(b)

	var (
		lca   S
		found bool
	)
	for i := 0; i < len(as) && i < len(bs) && as[i] == bs[i]; i++ {
		lca, found = as[i], true
	}
	return lca, found
}

// IsSubstateOf reports whether ancestor is a strict ancestor of s.
func IsSubstateOf[S Hierarchical[S]](s, ancestor S) bool {
	chain := Ancestors(s)
	return slices.Contains(chain[:len(chain)-1], ancestor)
}
