package token

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"ledgerchain/crypto"
	"ledgerchain/kv"
)

// SupplyState is the persisted (local_balance, circulating, max_supply)
// triple of spec §3/§4.4.
type SupplyState struct {
	Local       *uint256.Int
	Circulating *uint256.Int
	Max         *uint256.Int
}

// SupplySheet provides the mint/burn operations of spec §4.4 for a
// single capped fungible token, plus Init (root) and Borrow (child) to
// materialize a sheet. Which of the two a chain calls is decided by
// chain.Chain.InitSupplySheet; Borrow itself computes the amount a
// child's local_balance starts with.
type SupplySheet struct {
	tokenID crypto.Address
}

// NewSupplySheet binds a SupplySheet to a token identifier.
func NewSupplySheet(tokenID crypto.Address) *SupplySheet {
	return &SupplySheet{tokenID: tokenID}
}

// Load returns the current supply state, or ok=false if the sheet has
// never been initialized.
func (s *SupplySheet) Load(view kv.Store) (*SupplyState, bool, error) {
	data, ok, err := view.Get(supplyKey(s.tokenID))
	if err != nil || !ok {
		return nil, false, err
	}
	state := new(SupplyState)
	if err := rlp.DecodeBytes(data, state); err != nil {
		return nil, false, err
	}
	return state, true, nil
}

func (s *SupplySheet) store(view kv.Store, state *SupplyState) error {
	encoded, err := rlp.EncodeToBytes(state)
	if err != nil {
		return err
	}
	return view.Put(supplyKey(s.tokenID), encoded)
}

// Init creates the root sheet at (max_supply, 0, max_supply): a root
// chain's local_balance is its full mintable headroom, with nothing yet
// circulating. Fails if the sheet already exists.
//
// spec.md's §4.4/§3 text describes the root triple as "(0, 0,
// max_supply)", but its own S1 scenario mints directly on a freshly
// initialized root sheet up to the cap — impossible if local_balance
// starts at zero, since mint requires circulating+amount <= local.
// Resolved per S1: local_balance starts equal to max_supply at root.
func (s *SupplySheet) Init(view kv.Store, maxSupply *uint256.Int) error {
	if _, ok, err := s.Load(view); err != nil {
		return err
	} else if ok {
		return ErrSupplyAlreadyInitialized
	}
	return s.store(view, &SupplyState{
		Local:       new(uint256.Int).Set(maxSupply),
		Circulating: uint256.NewInt(0),
		Max:         new(uint256.Int).Set(maxSupply),
	})
}

// Borrow materializes a child sheet at (amount, 0, maxSupply), where
// amount is the parent's current circulating supply at the moment of
// materialization (spec §4.4 borrow_from_parent; see the doc comment on
// chain.Chain.InitSupplySheet for why circulating rather than local is
// the borrowed amount). It also reduces the parent sheet's own
// local_balance by amount, in the same store operation, so the
// borrowed amount is reserved rather than double-counted: spec §4.4
// requires the parent's "effective headroom ... reduced accordingly"
// once a child has borrowed against it. Fails if the child sheet
// already exists, if the parent sheet is not initialized, or if the
// parent does not have amount of headroom left to lend
// (local_balance - circulating < amount).
func (s *SupplySheet) Borrow(childView, parentView kv.Store, maxSupply *uint256.Int) error {
	if _, ok, err := s.Load(childView); err != nil {
		return err
	} else if ok {
		return ErrSupplyAlreadyInitialized
	}

	parentState, ok, err := s.Load(parentView)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSupplyNotInitialized
	}
	amount := new(uint256.Int).Set(parentState.Circulating)

	newParentLocal, underflow := new(uint256.Int).SubOverflow(parentState.Local, amount)
	if underflow || newParentLocal.Lt(parentState.Circulating) {
		return ErrSupplyInsufficientHeadroom
	}
	parentState.Local = newParentLocal
	if err := s.store(parentView, parentState); err != nil {
		return err
	}

	return s.store(childView, &SupplyState{
		Local:       amount,
		Circulating: uint256.NewInt(0),
		Max:         new(uint256.Int).Set(maxSupply),
	})
}

// Mint increases circulating supply by amount. Requires
// circulating+amount <= local_balance.
func (s *SupplySheet) Mint(view kv.Store, amount *uint256.Int) error {
	if amount == nil {
		return ErrNilAmount
	}
	state, ok, err := s.Load(view)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSupplyNotInitialized
	}
	next, overflow := new(uint256.Int).AddOverflow(state.Circulating, amount)
	if overflow || next.Gt(state.Local) {
		return ErrSupplyCapExceeded
	}
	state.Circulating = next
	return s.store(view, state)
}

// Burn decreases circulating supply by amount. Requires
// amount <= circulating.
func (s *SupplySheet) Burn(view kv.Store, amount *uint256.Int) error {
	if amount == nil {
		return ErrNilAmount
	}
	state, ok, err := s.Load(view)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSupplyNotInitialized
	}
	next, underflow := new(uint256.Int).SubOverflow(state.Circulating, amount)
	if underflow {
		return ErrSupplyBurnExceedsCirculating
	}
	state.Circulating = next
	return s.store(view, state)
}
