package chain

import (
	"strings"
	"sync"

	"github.com/holiman/uint256"

	"ledgerchain/crypto"
	"ledgerchain/kv"
	"ledgerchain/observability/metrics"
	"ledgerchain/token"
)

// Chain is the orchestrator of spec §2 component 7: it composes the KV
// store, token ledgers, block log and chain tree behind the
// single-writer/multi-reader model of spec §5. Block ingestion
// (AddBlock, DeleteBlocks, MergeBlocks) holds mu for writing; read
// queries hold it for reading.
type Chain struct {
	mu sync.RWMutex

	name    string
	address crypto.Address
	owner   crypto.Address

	parent      *Chain
	parentBlock *Block
	contract    crypto.Address

	store  kv.Store
	hasher crypto.Hasher
	nexus  Nexus
	vm     VM
	script ScriptBuilder

	log      *blockLog
	children map[string]*Chain

	// nftMu is the single per-chain mutex of spec §4.5, shared by every
	// NFTRegistry this chain constructs.
	nftMu sync.Mutex

	metrics *metrics.ChainMetrics
}

// Config groups the collaborators a Chain needs beyond its own KV
// store: the hashing function, the sibling-chain/plugin registry, and
// the VM/script-builder pair invoke_contract drives.
type Config struct {
	Hasher crypto.Hasher
	Nexus  Nexus
	VM     VM
	Script ScriptBuilder
}

// NewRoot constructs a chain with no parent. Name must satisfy
// ValidateName.
func NewRoot(name string, owner crypto.Address, store kv.Store, contract crypto.Address, cfg Config) (*Chain, error) {
	if !ValidateName(name) {
		return nil, ErrInvalidName
	}
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = crypto.Sha256Hasher{}
	}
	nexus := cfg.Nexus
	if nexus == nil {
		nexus = NoopNexus{}
	}
	return &Chain{
		name:     name,
		address:  deriveAddress(hasher, name),
		owner:    owner,
		contract: contract,
		store:    store,
		hasher:   hasher,
		nexus:    nexus,
		vm:       cfg.VM,
		script:   cfg.Script,
		log:      newBlockLog(),
		children: make(map[string]*Chain),
		metrics:  metrics.Chain(),
	}, nil
}

// NewChild constructs a chain anchored under parent at parentBlock,
// registers it in parent's children map, and inherits parent's
// hasher/nexus/vm/script collaborators. Fails if name is invalid or
// already taken under parent.
func NewChild(parent *Chain, name string, owner crypto.Address, parentBlock *Block, store kv.Store, contract crypto.Address) (*Chain, error) {
	if parentBlock == nil {
		return nil, ErrArgument("child chain requires a parent block")
	}
	child := &Chain{
		name:        name,
		owner:       owner,
		parent:      parent,
		parentBlock: parentBlock,
		contract:    contract,
		store:       store,
		hasher:      parent.hasher,
		nexus:       parent.nexus,
		vm:          parent.vm,
		script:      parent.script,
		log:         newBlockLog(),
		children:    make(map[string]*Chain),
		metrics:     parent.metrics,
	}
	child.address = deriveAddress(parent.hasher, name)

	parent.mu.Lock()
	defer parent.mu.Unlock()
	if err := parent.registerChild(name, child); err != nil {
		return nil, err
	}
	return child, nil
}

func deriveAddress(hasher crypto.Hasher, name string) crypto.Address {
	return crypto.AddressFromHash(hasher.Sum([]byte(strings.ToLower(name))))
}

// ErrArgument is re-exported from token for callers constructing
// ad-hoc argument errors against this package's API.
func ErrArgument(msg string) error { return token.ErrArgument(msg) }

// Name, Address, Owner, Parent and Contract are simple identity
// accessors; none of them touch mu since they are immutable after
// construction (spec §3 "Chain is created with immutable identity").
func (c *Chain) Name() string            { return c.name }
func (c *Chain) Address() crypto.Address { return c.address }
func (c *Chain) Owner() crypto.Address   { return c.owner }
func (c *Chain) Parent() *Chain          { return c.parent }
func (c *Chain) Contract() crypto.Address { return c.contract }

// BlockHeight returns the number of blocks accepted onto the chain.
func (c *Chain) BlockHeight() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.log.height()
}

// TransactionCount returns the total number of transactions across
// every accepted block.
func (c *Chain) TransactionCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.log.transactionCount()
}

// LastBlock returns the current tip, or ok=false on an empty chain.
func (c *Chain) LastBlock() (*Block, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.log.lastBlock()
}

// Blocks returns a snapshot of every block currently on the chain, in
// height order.
func (c *Chain) Blocks() []*Block {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Block, len(c.log.byHeight))
	copy(out, c.log.byHeight)
	return out
}

// FindBlockByHash looks up a block by its hash.
func (c *Chain) FindBlockByHash(h crypto.Hash) (*Block, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.log.findByHash(h)
}

// FindBlockByHeight looks up a block by its height.
func (c *Chain) FindBlockByHeight(height uint64) (*Block, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.log.findByHeight(height)
}

// FindTransactionByHash looks up a transaction by its hash.
func (c *Chain) FindTransactionByHash(h crypto.Hash) (Transaction, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.log.findTxBlock(h)
	if !ok {
		return nil, false
	}
	for _, tx := range b.Transactions {
		if tx.Hash() == h {
			return tx, true
		}
	}
	return nil, false
}

// FindTransactionBlock returns the block a transaction was committed
// into.
func (c *Chain) FindTransactionBlock(tx Transaction) (*Block, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.log.findTxBlock(tx.Hash())
}

// GetTokenBalance reads a fungible balance directly from the chain's
// backing store (outside of block execution, which instead reads
// through its own change-set).
func (c *Chain) GetTokenBalance(tok *token.Token, addr crypto.Address) (*uint256.Int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return token.NewBalanceSheet(tok.ID()).Get(c.store, addr)
}

// TransferToken moves amount from one address to another against view
// (the change-set a Transaction.Execute is building up), recording the
// transfer in metrics once it succeeds. Transaction implementations
// call this rather than reaching into the token package directly so
// every transfer is observed consistently.
func (c *Chain) TransferToken(view kv.Store, tok *token.Token, from, to crypto.Address, amount *uint256.Int) error {
	if err := token.NewBalanceSheet(tok.ID()).Transfer(view, from, to, amount); err != nil {
		return err
	}
	c.metrics.ObserveTransfer(c.name)
	return nil
}

// GetOwnedTokens reads the set of NFT ids owned by addr for tok.
func (c *Chain) GetOwnedTokens(tok *token.Token, addr crypto.Address) (map[uint64]struct{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return token.NewOwnershipSheet(tok.ID()).Get(c.store, addr)
}

// CreateNFT mints a fresh id under tok and stores content, writing
// directly to the chain's backing store.
func (c *Chain) CreateNFT(tok *token.Token, content []byte) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, err := token.NewNFTRegistry(tok, &c.nftMu).Create(c.store, content)
	if err == nil {
		c.metrics.ObserveNFTCreated(c.name)
	}
	return id, err
}

// DestroyNFT removes id's content, reporting whether a removal
// occurred.
func (c *Chain) DestroyNFT(tok *token.Token, id uint64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed, err := token.NewNFTRegistry(tok, &c.nftMu).Destroy(c.store, id)
	if err == nil && removed {
		c.metrics.ObserveNFTDestroyed(c.name)
	}
	return removed, err
}

// GetNFT reads id's stored content.
func (c *Chain) GetNFT(tok *token.Token, id uint64) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return token.NewNFTRegistry(tok, &c.nftMu).Get(c.store, id)
}

// InitSupplySheet materializes tok's supply sheet on c. At the root
// chain this is (max_supply, 0, max_supply); at a child chain the
// initial local_balance is borrowed from the parent's current
// circulating amount at this moment (spec §4.4 borrow_from_parent,
// spec §9 lazy sheet note: gated under the write lock to avoid a
// double-init race).
//
// Borrowing from circulating rather than the parent's local_balance is
// an Open Question resolution (see DESIGN.md): spec.md's S4 scenario
// has a child's initial local_balance equal exactly the amount the
// parent has actually minted so far, not the parent's max_supply cap —
// a child can only sub-allocate tokens that exist, not the parent's
// theoretical headroom.
//
// Spec §4.4 also requires borrowing to leave "the parent's effective
// headroom ... reduced accordingly": Borrow itself writes the reduced
// local_balance back to the parent's store, so this takes the parent's
// own write lock (not just a read lock) for the duration of the call.
func (c *Chain) InitSupplySheet(tok *token.Token, maxSupply *uint256.Int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sheet := token.NewSupplySheet(tok.ID())
	if c.parent == nil {
		return sheet.Init(c.store, maxSupply)
	}

	c.parent.mu.Lock()
	defer c.parent.mu.Unlock()
	return sheet.Borrow(c.store, c.parent.store, maxSupply)
}
