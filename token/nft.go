package token

import (
	"sync"

	"github.com/ethereum/go-ethereum/rlp"

	"ledgerchain/kv"
)

// NFTRegistry provides the create/destroy/get operations of spec §4.5
// for the opaque content of a single non-fungible token. It is
// deliberately independent of OwnershipSheet: a registry entry's
// existence says nothing about who owns it, matching the source
// component split between the content map and the ownership map.
//
// All three operations serialize on a single mutex shared by every
// NFTRegistry on a chain, since get() is reachable from arbitrary VM
// read paths concurrently with create()/destroy() from block execution.
type NFTRegistry struct {
	token *Token
	mu    *sync.Mutex
}

// NewNFTRegistry binds a registry to a token and the chain-wide mutex
// that guards every NFT content operation on that chain.
func NewNFTRegistry(t *Token, chainMu *sync.Mutex) *NFTRegistry {
	return &NFTRegistry{token: t, mu: chainMu}
}

// Create mints a fresh id from the token and stores content under it.
func (r *NFTRegistry) Create(view kv.Store, content []byte) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.token.GenerateID()
	encoded, err := rlp.EncodeToBytes(content)
	if err != nil {
		return 0, err
	}
	if err := view.Put(contentKey(r.token.ID(), id), encoded); err != nil {
		return 0, err
	}
	return id, nil
}

// Destroy removes id's content. Returns whether a removal actually
// occurred; destroying an already-absent id is not an error.
func (r *NFTRegistry) Destroy(view kv.Store, id uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := contentKey(r.token.ID(), id)
	present, err := view.Contains(key)
	if err != nil {
		return false, err
	}
	if !present {
		return false, nil
	}
	if err := view.Delete(key); err != nil {
		return false, err
	}
	return true, nil
}

// Get returns id's stored content, or ok=false if absent.
func (r *NFTRegistry) Get(view kv.Store, id uint64) ([]byte, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, ok, err := view.Get(contentKey(r.token.ID(), id))
	if err != nil || !ok {
		return nil, false, err
	}
	var content []byte
	if err := rlp.DecodeBytes(data, &content); err != nil {
		return nil, false, err
	}
	return content, true, nil
}
