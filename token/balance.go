package token

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"ledgerchain/crypto"
	"ledgerchain/kv"
)

// BalanceSheet provides the add/subtract/get operations of spec §4.2 for
// a single fungible token. It holds no state of its own beyond which
// token it addresses; every call takes the KV view (store or
// change-set) to operate against.
type BalanceSheet struct {
	tokenID crypto.Address
}

// NewBalanceSheet binds a BalanceSheet to a token identifier.
func NewBalanceSheet(tokenID crypto.Address) *BalanceSheet {
	return &BalanceSheet{tokenID: tokenID}
}

// Get returns the balance for addr, or zero if the key is absent.
func (b *BalanceSheet) Get(view kv.Store, addr crypto.Address) (*uint256.Int, error) {
	data, ok, err := view.Get(balanceKey(b.tokenID, addr))
	if err != nil {
		return nil, err
	}
	if !ok {
		return uint256.NewInt(0), nil
	}
	amount := new(uint256.Int)
	if err := rlp.DecodeBytes(data, amount); err != nil {
		return nil, err
	}
	return amount, nil
}

func (b *BalanceSheet) put(view kv.Store, addr crypto.Address, amount *uint256.Int) error {
	encoded, err := rlp.EncodeToBytes(amount)
	if err != nil {
		return err
	}
	return view.Put(balanceKey(b.tokenID, addr), encoded)
}

// Add credits amount to addr's balance. Fails with ErrBalanceOverflow if
// the addition would wrap past the 256-bit range.
func (b *BalanceSheet) Add(view kv.Store, addr crypto.Address, amount *uint256.Int) error {
	if amount == nil {
		return ErrNilAmount
	}
	current, err := b.Get(view, addr)
	if err != nil {
		return err
	}
	sum, overflow := new(uint256.Int).AddOverflow(current, amount)
	if overflow {
		return ErrBalanceOverflow
	}
	return b.put(view, addr, sum)
}

// Subtract debits amount from addr's balance. Fails with
// ErrBalanceUnderflow if the result would go negative.
func (b *BalanceSheet) Subtract(view kv.Store, addr crypto.Address, amount *uint256.Int) error {
	if amount == nil {
		return ErrNilAmount
	}
	current, err := b.Get(view, addr)
	if err != nil {
		return err
	}
	diff, underflow := new(uint256.Int).SubOverflow(current, amount)
	if underflow {
		return ErrBalanceUnderflow
	}
	return b.put(view, addr, diff)
}

// Transfer moves amount from one address to another: the debit is
// written first, and if it fails the credit side is never applied. If
// the credit then fails (ErrBalanceOverflow), the debit already written
// to view is not rolled back.
func (b *BalanceSheet) Transfer(view kv.Store, from, to crypto.Address, amount *uint256.Int) error {
	if err := b.Subtract(view, from, amount); err != nil {
		return err
	}
	return b.Add(view, to, amount)
}
