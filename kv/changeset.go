package kv

import "errors"

// ErrChangeSetSpent is returned by Apply when the change-set has already
// been undone, and by Undo when called a second time. Hitting it means a
// caller is mismanaging a change-set's lifecycle (spec §4.1, §7).
var ErrChangeSetSpent = errors.New("kv: change-set already spent")

// ErrChangeSetNotApplied is returned by Undo when the change-set was
// never applied. Same programmer-error class as ErrChangeSetSpent.
var ErrChangeSetNotApplied = errors.New("kv: change-set not yet applied")

type changeEntry struct {
	key         []byte
	priorValue  []byte
	priorExists bool
	newValue    []byte
	deleted     bool
}

// ChangeSet is a staging layer bound to a backing Store. It buffers
// writes and deletes, recording the prior value seen on first touch,
// and can later be committed (Apply) or rolled back (Undo) as a unit.
// ChangeSet itself satisfies Store, so sheets and callers can treat a
// live change-set exactly like the backing store during reads.
type ChangeSet struct {
	store   Store
	order   [][]byte
	entries map[string]*changeEntry
	applied bool
	spent   bool
}

// NewChangeSet allocates a change-set bound to store.
func NewChangeSet(store Store) *ChangeSet {
	return &ChangeSet{
		store:   store,
		entries: make(map[string]*changeEntry),
	}
}

// Get returns the pending value for key if this change-set has touched
// it, otherwise delegates to the backing store.
func (c *ChangeSet) Get(key []byte) ([]byte, bool, error) {
	if e, ok := c.entries[string(key)]; ok {
		if e.deleted {
			return nil, false, nil
		}
		out := make([]byte, len(e.newValue))
		copy(out, e.newValue)
		return out, true, nil
	}
	return c.store.Get(key)
}

// Contains reports whether key resolves to a value through this
// change-set (pending or backing).
func (c *ChangeSet) Contains(key []byte) (bool, error) {
	if e, ok := c.entries[string(key)]; ok {
		return !e.deleted, nil
	}
	return c.store.Contains(key)
}

// Put buffers a write. The prior value is captured only the first time
// key is touched in this change-set.
func (c *ChangeSet) Put(key []byte, value []byte) error {
	e, err := c.touch(key)
	if err != nil {
		return err
	}
	v := make([]byte, len(value))
	copy(v, value)
	e.newValue = v
	e.deleted = false
	return nil
}

// Delete buffers a deletion. The prior value is captured only the first
// time key is touched in this change-set.
func (c *ChangeSet) Delete(key []byte) error {
	e, err := c.touch(key)
	if err != nil {
		return err
	}
	e.newValue = nil
	e.deleted = true
	return nil
}

func (c *ChangeSet) touch(key []byte) (*changeEntry, error) {
	k := string(key)
	if e, ok := c.entries[k]; ok {
		return e, nil
	}
	priorValue, priorExists, err := c.store.Get(key)
	if err != nil {
		return nil, err
	}
	e := &changeEntry{
		key:         append([]byte(nil), key...),
		priorValue:  priorValue,
		priorExists: priorExists,
	}
	c.entries[k] = e
	c.order = append(c.order, e.key)
	return e, nil
}

// Apply flushes buffered mutations to the backing store in insertion
// order. It is idempotent once applied; calling it again is a no-op.
func (c *ChangeSet) Apply() error {
	if c.spent {
		return ErrChangeSetSpent
	}
	if c.applied {
		return nil
	}
	for _, key := range c.order {
		e := c.entries[string(key)]
		if e.deleted {
			if err := c.store.Delete(key); err != nil {
				return err
			}
			continue
		}
		if err := c.store.Put(key, e.newValue); err != nil {
			return err
		}
	}
	c.applied = true
	return nil
}

// Undo requires a prior Apply; it restores every recorded prior value
// (an absent prior means delete) in reverse insertion order, then marks
// the change-set spent. Undo after Apply is a no-op on the store as a
// whole (spec §4.1 invariant).
func (c *ChangeSet) Undo() error {
	if c.spent {
		return ErrChangeSetSpent
	}
	if !c.applied {
		return ErrChangeSetNotApplied
	}
	for i := len(c.order) - 1; i >= 0; i-- {
		e := c.entries[string(c.order[i])]
		if e.priorExists {
			if err := c.store.Put(e.key, e.priorValue); err != nil {
				return err
			}
			continue
		}
		if err := c.store.Delete(e.key); err != nil {
			return err
		}
	}
	c.spent = true
	return nil
}

// Touched reports whether key has been written or deleted in this
// change-set, without consulting the backing store.
func (c *ChangeSet) Touched(key []byte) bool {
	_, ok := c.entries[string(key)]
	return ok
}
