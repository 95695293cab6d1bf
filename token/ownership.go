package token

import (
	"github.com/ethereum/go-ethereum/rlp"

	"ledgerchain/crypto"
	"ledgerchain/kv"
)

// OwnershipSheet provides the give/take/owner_of operations of spec
// §4.3 for a single non-fungible token. Forward (address -> id set) and
// reverse (id -> owner) indexes are kept consistent by every mutation.
type OwnershipSheet struct {
	tokenID crypto.Address
}

// NewOwnershipSheet binds an OwnershipSheet to a token identifier.
func NewOwnershipSheet(tokenID crypto.Address) *OwnershipSheet {
	return &OwnershipSheet{tokenID: tokenID}
}

func (o *OwnershipSheet) loadSet(view kv.Store, addr crypto.Address) ([]uint64, error) {
	data, ok, err := view.Get(ownerKey(o.tokenID, addr))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var ids []uint64
	if err := rlp.DecodeBytes(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (o *OwnershipSheet) storeSet(view kv.Store, addr crypto.Address, ids []uint64) error {
	if len(ids) == 0 {
		return view.Delete(ownerKey(o.tokenID, addr))
	}
	encoded, err := rlp.EncodeToBytes(ids)
	if err != nil {
		return err
	}
	return view.Put(ownerKey(o.tokenID, addr), encoded)
}

// Get returns the set of token ids owned by addr.
func (o *OwnershipSheet) Get(view kv.Store, addr crypto.Address) (map[uint64]struct{}, error) {
	ids, err := o.loadSet(view, addr)
	if err != nil {
		return nil, err
	}
	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// OwnerOf returns the current owner of id, if any.
func (o *OwnershipSheet) OwnerOf(view kv.Store, id uint64) (crypto.Address, bool, error) {
	data, ok, err := view.Get(reverseKey(o.tokenID, id))
	if err != nil || !ok {
		return crypto.Address{}, false, err
	}
	return crypto.BytesToAddress(data), true, nil
}

// Give assigns id to addr. Fails with ErrAlreadyOwned if id already has
// an owner.
func (o *OwnershipSheet) Give(view kv.Store, addr crypto.Address, id uint64) error {
	if _, owned, err := o.OwnerOf(view, id); err != nil {
		return err
	} else if owned {
		return ErrAlreadyOwned
	}

	ids, err := o.loadSet(view, addr)
	if err != nil {
		return err
	}
	ids = append(ids, id)
	if err := o.storeSet(view, addr, ids); err != nil {
		return err
	}
	return view.Put(reverseKey(o.tokenID, id), addr.Bytes())
}

// Take removes id from addr's set. Fails with ErrNotOwned if addr does
// not currently own id.
func (o *OwnershipSheet) Take(view kv.Store, addr crypto.Address, id uint64) error {
	owner, owned, err := o.OwnerOf(view, id)
	if err != nil {
		return err
	}
	if !owned || owner != addr {
		return ErrNotOwned
	}

	ids, err := o.loadSet(view, addr)
	if err != nil {
		return err
	}
	kept := ids[:0]
	for _, existing := range ids {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	if err := o.storeSet(view, addr, kept); err != nil {
		return err
	}
	return view.Delete(reverseKey(o.tokenID, id))
}
