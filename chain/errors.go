package chain

import "ledgerchain/token"

// ArgumentError and InvariantError mirror the §7 error taxonomy used
// throughout the token package: argument errors are caller mistakes,
// invariant errors are hard failures that indicate a programming bug
// or corrupted input. The chain package reuses token's types rather
// than defining a parallel pair, since both packages report into the
// same caller-facing error kind surface.
type ArgumentError = token.ArgumentError
type InvariantError = token.InvariantError

var (
	// ErrInvalidName: chain name outside the [3,20) a-z0-9_ character set.
	ErrInvalidName = token.ArgumentError("chain: invalid name")
	// ErrDuplicateName: a child with this name already exists on the parent.
	ErrDuplicateName = token.ArgumentError("chain: duplicate child name")
	// ErrNullAddress: an address argument was the distinguished Null address.
	ErrNullAddress = token.ArgumentError("chain: null address")
	// ErrBlockNotFound: delete_blocks targeted a hash absent from the chain.
	ErrBlockNotFound = token.ArgumentError("chain: block not found")
	// ErrEmptyMergeEntries: merge_blocks called with no entries.
	ErrEmptyMergeEntries = token.ArgumentError("chain: merge_blocks requires at least one entry")
	// ErrShortMerge: merge_blocks entries do not reach past the current tip.
	ErrShortMerge = token.ArgumentError("chain: merge sequence does not extend past current height")
	// ErrNonContiguousMerge: merge_blocks entries are not consecutive heights.
	ErrNonContiguousMerge = token.ArgumentError("chain: merge entries must have consecutive heights")

	// ErrChangeSetMissing: a block's stored change-set could not be found
	// during delete_blocks; indicates corrupted block-log bookkeeping.
	ErrChangeSetMissing = token.InvariantError("chain: block log missing change-set for block")
)
