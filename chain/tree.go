package chain

import "ledgerchain/crypto"

const (
	minNameLength = 3
	maxNameLength = 20 // exclusive upper bound: valid lengths are [3, 20)
)

// ValidateName reports whether name satisfies spec §4.7: length in
// [3, 20), characters restricted to lowercase a-z, digits, and
// underscore.
func ValidateName(name string) bool {
	if len(name) < minNameLength || len(name) >= maxNameLength {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}

// registerChild adds child under name in c's children map. Callers
// must hold c.mu for writing. Names are unique per parent.
func (c *Chain) registerChild(name string, child *Chain) error {
	if !ValidateName(name) {
		return ErrInvalidName
	}
	if _, exists := c.children[name]; exists {
		return ErrDuplicateName
	}
	c.children[name] = child
	return nil
}

// FindChildChain does a depth-first search over c's subtree (including
// c itself) for a chain with the given address. Rejects the Null
// address (spec §4.7). A result is only returned if c's Nexus still
// recognizes the found chain, so a registry that has evicted a chain
// can veto further local lookups of it.
func (c *Chain) FindChildChain(addr crypto.Address) (*Chain, bool) {
	if addr.IsNull() {
		return nil, false
	}
	found, ok := c.findChildChainLocked(addr)
	if !ok {
		return nil, false
	}
	if c.nexus != nil && !c.nexus.ContainsChain(found) {
		return nil, false
	}
	return found, true
}

func (c *Chain) findChildChainLocked(addr crypto.Address) (*Chain, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.address == addr {
		return c, true
	}
	for _, child := range c.children {
		if found, ok := child.findChildChainLocked(addr); ok {
			return found, true
		}
	}
	return nil, false
}

// GetRoot follows parent links to the chain with no parent.
func (c *Chain) GetRoot() *Chain {
	cur := c
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// IsRoot reports whether c has no parent.
func (c *Chain) IsRoot() bool {
	return c.parent == nil
}
