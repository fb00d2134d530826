package window

// Bindings resolves key-sequences to command names. A sequence is a
// non-empty list of keys matched in order; the longest matching
// prefix wins (spec §4.4). Multiple sequences may resolve to the same
// command.
//
// Grounded on tools/tui/shortcuts.ShortcutMap[T]'s trie
// (leaves/children maps keyed by key-string, walked one pending key at
// a time), generalized from loop.KeyEvent match predicates to plain
// key-sequence strings so this package has no dependency on a
// concrete terminal event type.
type Bindings struct {
	leaves   map[string]string
	children map[string]*Bindings
}

// NewBindings returns an empty binding trie.
func NewBindings() *Bindings {
	return &Bindings{leaves: map[string]string{}, children: map[string]*Bindings{}}
}

// Bind registers keys (a key-sequence) as resolving to command. An
// empty sequence is a no-op. Re-binding the same sequence overwrites
// the previous command.
func (b *Bindings) Bind(command string, keys ...string) {
	if len(keys) == 0 {
		return
	}
	node := b
	for _, key := range keys[:len(keys)-1] {
		child := node.children[key]
		if child == nil {
			child = NewBindings()
			node.children[key] = child
		}
		node = child
	}
	node.leaves[keys[len(keys)-1]] = command
}

// Resolve walks one more key onto pending (the keys accumulated from
// previous calls that did not yet resolve to a leaf). When the new
// prefix could still extend into a longer sequence, it returns the
// extended pending prefix and matched=true with command=="" — the
// caller (the controller, which owns frame timing) should wait for
// the next key and fall back to fallback if none arrives in time,
// per spec §4.4's "longest matching prefix wins". When the prefix is
// unambiguously a leaf, command is returned directly.
func (b *Bindings) Resolve(pending []string, key string) (command string, nextPending []string, fallback string, matched bool) {
	node := b
	for _, k := range pending {
		node = node.children[k]
		if node == nil {
			return "", nil, "", false
		}
	}
	leaf, hasLeaf := node.leaves[key]
	child := node.children[key]
	switch {
	case hasLeaf && child == nil:
		return leaf, nil, "", true
	case child != nil:
		return "", append(append([]string(nil), pending...), key), leaf, true
	default:
		return "", nil, "", false
	}
}
