// Package token implements the fungible balance, NFT ownership, capped
// supply, and NFT content ledgers (spec §3, §4.2-§4.5). Every ledger in
// this package is a stateless typed accessor over a kv.Store-shaped
// view — either the chain's backing store or the active change-set —
// so that every mutation performed during block execution is reversible
// by undoing that change-set. None of these types hold their own Go map
// state; see SPEC_FULL.md §4.2 for why that matters.
package token

import (
	"sync/atomic"

	"github.com/holiman/uint256"

	"ledgerchain/crypto"
)

// Flag enumerates the bit-set properties of a Token (spec §3).
type Flag uint8

const (
	// FlagFungible marks a token as fungible. A token is fungible XOR
	// non-fungible; the absence of this bit means NFT.
	FlagFungible Flag = 1 << iota
	// FlagCapped marks a fungible token as having a maximum supply.
	FlagCapped
)

// Has reports whether all bits in want are set in f.
func (f Flag) Has(want Flag) bool { return f&want == want }

// Token is the external collaborator contract of spec §6: an identifier,
// a flag set, an optional max supply, and a monotonic id generator for
// NFTs minted under it.
type Token struct {
	id        crypto.Address
	flags     Flag
	maxSupply *uint256.Int
	nextID    uint64 // atomic counter; 0 means "never issued"
}

// New constructs a Token. Capped is only meaningful for fungible tokens;
// constructing a capped non-fungible token is an argument error.
func New(id crypto.Address, flags Flag, maxSupply *uint256.Int) (*Token, error) {
	if flags.Has(FlagCapped) && !flags.Has(FlagFungible) {
		return nil, ErrCappedNonFungible
	}
	if flags.Has(FlagFungible) && flags.Has(FlagCapped) && maxSupply == nil {
		return nil, ErrArgument("capped token requires a max supply")
	}
	return &Token{id: id, flags: flags, maxSupply: maxSupply}, nil
}

// ID returns the token's identifier.
func (t *Token) ID() crypto.Address { return t.id }

// IsFungible reports whether the token is fungible.
func (t *Token) IsFungible() bool { return t.flags.Has(FlagFungible) }

// IsCapped reports whether the token enforces a maximum supply.
func (t *Token) IsCapped() bool { return t.flags.Has(FlagCapped) }

// MaxSupply returns the configured cap, or nil if the token is uncapped.
func (t *Token) MaxSupply() *uint256.Int {
	if t.maxSupply == nil {
		return nil
	}
	return new(uint256.Int).Set(t.maxSupply)
}

// GenerateID returns a fresh, monotonically increasing identifier; IDs
// are never reused within this Token value. The counter lives only in
// memory and starts at zero, so a freshly constructed Token issues 1
// first unless the counter was seeded via SetNextID.
func (t *Token) GenerateID() uint64 {
	return atomic.AddUint64(&t.nextID, 1)
}

// SetNextID seeds the id counter, e.g. when a chain reloads a token's
// issuance watermark from storage. It must not be called concurrently
// with GenerateID.
func (t *Token) SetNextID(next uint64) { t.nextID = next }
