package chain

import (
	"testing"

	"github.com/holiman/uint256"

	"ledgerchain/crypto"
	"ledgerchain/kv"
	"ledgerchain/token"
)

// scriptedTx is a minimal Transaction stub for exercising AddBlock
// without a real VM: run, if set, is called against the block's
// change-set and its return value becomes Execute's result.
type scriptedTx struct {
	id    crypto.Hash
	valid bool
	run   func(cs *kv.ChangeSet) bool
	block *Block
}

func (t *scriptedTx) Hash() crypto.Hash                  { return t.id }
func (t *scriptedTx) IsValid(c *Chain) bool               { return t.valid }
func (t *scriptedTx) SetBlock(b *Block)                  { t.block = b }
func (t *scriptedTx) Execute(c *Chain, b *Block, cs *kv.ChangeSet, sink EventSink) bool {
	if t.run == nil {
		return true
	}
	return t.run(cs)
}

func newScriptedTx(label string, run func(cs *kv.ChangeSet) bool) *scriptedTx {
	return &scriptedTx{id: crypto.BytesToHash([]byte(label)), valid: true, run: run}
}

func blockHash(label string) crypto.Hash {
	return crypto.BytesToHash([]byte("block:" + label))
}

func newTestChain(t *testing.T) *Chain {
	t.Helper()
	c, err := NewRoot("testchain", crypto.BytesToAddress([]byte("owner")), kv.NewMemStore(), crypto.NullAddress, Config{})
	if err != nil {
		t.Fatalf("new root chain: %v", err)
	}
	return c
}

func TestAddBlockAcceptsGenesisWithNoLinkageCheck(t *testing.T) {
	c := newTestChain(t)
	b := &Block{Height: 0, Hash: blockHash("g")}
	if !c.AddBlock(b) {
		t.Fatalf("expected genesis block to be accepted")
	}
	if c.BlockHeight() != 1 {
		t.Fatalf("expected height 1, got %d", c.BlockHeight())
	}
	tip, ok := c.LastBlock()
	if !ok || tip.Hash != b.Hash {
		t.Fatalf("expected tip to be genesis block")
	}
}

func TestAddBlockRejectsBadLinkage(t *testing.T) {
	c := newTestChain(t)
	g := &Block{Height: 0, Hash: blockHash("g")}
	if !c.AddBlock(g) {
		t.Fatalf("expected genesis accepted")
	}

	bad := &Block{Height: 2, Hash: blockHash("bad"), PreviousHash: g.Hash}
	if c.AddBlock(bad) {
		t.Fatalf("expected bad height to be rejected")
	}
	if c.BlockHeight() != 1 {
		t.Fatalf("chain should be unchanged after rejection, got height %d", c.BlockHeight())
	}

	wrongPrev := &Block{Height: 1, Hash: blockHash("wrongprev"), PreviousHash: blockHash("not-g")}
	if c.AddBlock(wrongPrev) {
		t.Fatalf("expected wrong previous_hash to be rejected")
	}
}

func TestAddBlockIsAllOrNothingOnExecutionFailure(t *testing.T) {
	c := newTestChain(t)
	tokenID := crypto.BytesToAddress([]byte("tok"))
	alice := crypto.BytesToAddress([]byte("alice"))
	sheet := token.NewBalanceSheet(tokenID)

	g := &Block{Height: 0, Hash: blockHash("g")}
	if !c.AddBlock(g) {
		t.Fatalf("expected genesis accepted")
	}

	ok1 := newScriptedTx("credit", func(cs *kv.ChangeSet) bool {
		return sheet.Add(cs, alice, uint256.NewInt(100)) == nil
	})
	fails := newScriptedTx("fail", func(cs *kv.ChangeSet) bool { return false })

	b := &Block{Height: 1, Hash: blockHash("b1"), PreviousHash: g.Hash, Transactions: []Transaction{ok1, fails}}
	if c.AddBlock(b) {
		t.Fatalf("expected block to be rejected when a transaction fails execution")
	}
	if c.BlockHeight() != 1 {
		t.Fatalf("expected no new block accepted, got height %d", c.BlockHeight())
	}
	balance, err := c.GetTokenBalance(mustToken(t, tokenID), alice)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if !balance.IsZero() {
		t.Fatalf("expected no mutation to survive a rejected block, got balance %s", balance)
	}
}

func mustToken(t *testing.T, id crypto.Address) *token.Token {
	t.Helper()
	tok, err := token.New(id, token.FlagFungible, nil)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	return tok
}

func TestDeleteBlocksRewindsToTargetAndRestoresState(t *testing.T) {
	c := newTestChain(t)
	tokenID := crypto.BytesToAddress([]byte("tok"))
	alice := crypto.BytesToAddress([]byte("alice"))
	bob := crypto.BytesToAddress([]byte("bob"))
	sheet := token.NewBalanceSheet(tokenID)
	tok := mustToken(t, tokenID)

	g := &Block{Height: 0, Hash: blockHash("g")}
	if !c.AddBlock(g) {
		t.Fatalf("genesis rejected")
	}

	mint := newScriptedTx("mint", func(cs *kv.ChangeSet) bool {
		return sheet.Add(cs, alice, uint256.NewInt(100)) == nil
	})
	b1 := &Block{Height: 1, Hash: blockHash("b1"), PreviousHash: g.Hash, Transactions: []Transaction{mint}}
	if !c.AddBlock(b1) {
		t.Fatalf("b1 rejected")
	}

	transfer := newScriptedTx("transfer", func(cs *kv.ChangeSet) bool {
		return sheet.Transfer(cs, alice, bob, uint256.NewInt(30)) == nil
	})
	b2 := &Block{Height: 2, Hash: blockHash("b2"), PreviousHash: b1.Hash, Transactions: []Transaction{transfer}}
	if !c.AddBlock(b2) {
		t.Fatalf("b2 rejected")
	}

	aliceBal, _ := c.GetTokenBalance(tok, alice)
	bobBal, _ := c.GetTokenBalance(tok, bob)
	if aliceBal.Cmp(uint256.NewInt(70)) != 0 || bobBal.Cmp(uint256.NewInt(30)) != 0 {
		t.Fatalf("unexpected balances before rewind alice=%s bob=%s", aliceBal, bobBal)
	}

	if err := c.DeleteBlocks(b1.Hash); err != nil {
		t.Fatalf("delete_blocks: %v", err)
	}
	if c.BlockHeight() != 2 {
		t.Fatalf("expected height 2 (genesis + b1), got %d", c.BlockHeight())
	}
	if _, ok := c.FindBlockByHash(b2.Hash); ok {
		t.Fatalf("expected b2 to be gone after rewind")
	}
	aliceBal, _ = c.GetTokenBalance(tok, alice)
	bobBal, _ = c.GetTokenBalance(tok, bob)
	if aliceBal.Cmp(uint256.NewInt(100)) != 0 || !bobBal.IsZero() {
		t.Fatalf("expected state restored to post-b1, got alice=%s bob=%s", aliceBal, bobBal)
	}
}

func TestDeleteBlocksIsNoOpWhenTargetIsTip(t *testing.T) {
	c := newTestChain(t)
	g := &Block{Height: 0, Hash: blockHash("g")}
	c.AddBlock(g)

	if err := c.DeleteBlocks(g.Hash); err != nil {
		t.Fatalf("delete_blocks on current tip: %v", err)
	}
	if c.BlockHeight() != 1 {
		t.Fatalf("expected tip untouched, got height %d", c.BlockHeight())
	}
}

func TestDeleteBlocksUnknownTargetFails(t *testing.T) {
	c := newTestChain(t)
	c.AddBlock(&Block{Height: 0, Hash: blockHash("g")})

	if err := c.DeleteBlocks(blockHash("ghost")); err != ErrBlockNotFound {
		t.Fatalf("expected ErrBlockNotFound, got %v", err)
	}
}

func TestMergeBlocksConvergesAfterDivergence(t *testing.T) {
	c := newTestChain(t)
	g := &Block{Height: 0, Hash: blockHash("g")}
	c.AddBlock(g)
	localB1 := &Block{Height: 1, Hash: blockHash("local-b1"), PreviousHash: g.Hash}
	c.AddBlock(localB1)

	remoteB1 := &Block{Height: 1, Hash: blockHash("remote-b1"), PreviousHash: g.Hash}
	remoteB2 := &Block{Height: 2, Hash: blockHash("remote-b2"), PreviousHash: remoteB1.Hash}

	entries := []MergeEntry{{Block: remoteB1}, {Block: remoteB2}}
	if err := c.MergeBlocks(entries); err != nil {
		t.Fatalf("merge_blocks: %v", err)
	}

	tip, ok := c.LastBlock()
	if !ok || tip.Hash != remoteB2.Hash {
		t.Fatalf("expected tip to be remote's height-2 block, got %v", tip)
	}
	if _, ok := c.FindBlockByHash(localB1.Hash); ok {
		t.Fatalf("expected local's diverging block to be gone")
	}
}

func TestMergeBlocksRejectsShortSequence(t *testing.T) {
	c := newTestChain(t)
	g := &Block{Height: 0, Hash: blockHash("g")}
	c.AddBlock(g)
	c.AddBlock(&Block{Height: 1, Hash: blockHash("b1"), PreviousHash: g.Hash})

	if err := c.MergeBlocks([]MergeEntry{{Block: &Block{Height: 0, Hash: g.Hash}}}); err != ErrShortMerge {
		t.Fatalf("expected ErrShortMerge, got %v", err)
	}
}

func TestChainInitSupplySheetBorrowsFromParent(t *testing.T) {
	root := newTestChain(t)
	tokenID := crypto.BytesToAddress([]byte("capped"))
	tok := mustToken(t, tokenID)

	if err := root.InitSupplySheet(tok, uint256.NewInt(1000)); err != nil {
		t.Fatalf("root init supply: %v", err)
	}
	mintRoot := newScriptedTx("mint-root", func(cs *kv.ChangeSet) bool {
		return token.NewSupplySheet(tokenID).Mint(cs, uint256.NewInt(100)) == nil
	})
	g := &Block{Height: 0, Hash: blockHash("g")}
	root.AddBlock(g)
	b1 := &Block{Height: 1, Hash: blockHash("b1"), PreviousHash: g.Hash, Transactions: []Transaction{mintRoot}}
	if !root.AddBlock(b1) {
		t.Fatalf("root mint block rejected")
	}

	child, err := NewChild(root, "childchain", crypto.BytesToAddress([]byte("childowner")), b1, kv.NewMemStore(), crypto.NullAddress)
	if err != nil {
		t.Fatalf("new child: %v", err)
	}
	if err := child.InitSupplySheet(tok, uint256.NewInt(1000)); err != nil {
		t.Fatalf("child init supply: %v", err)
	}

	childSheet := token.NewSupplySheet(tokenID)
	state, ok, err := childSheet.Load(child.store)
	if err != nil || !ok {
		t.Fatalf("load child supply: ok=%v err=%v", ok, err)
	}
	if state.Local.Cmp(uint256.NewInt(100)) != 0 {
		t.Fatalf("expected child local_balance borrowed as 100, got %s", state.Local)
	}

	if err := childSheet.Mint(child.store, uint256.NewInt(100)); err != nil {
		t.Fatalf("mint within borrowed local balance: %v", err)
	}
	if err := childSheet.Mint(child.store, uint256.NewInt(1)); err != token.ErrSupplyCapExceeded {
		t.Fatalf("expected ErrSupplyCapExceeded past borrowed local balance, got %v", err)
	}

	rootSheet := token.NewSupplySheet(tokenID)
	rootState, ok, err := rootSheet.Load(root.store)
	if err != nil || !ok {
		t.Fatalf("load root supply: ok=%v err=%v", ok, err)
	}
	if rootState.Local.Cmp(uint256.NewInt(900)) != 0 {
		t.Fatalf("expected root local_balance reduced to 900 after lending 100 to child, got %s", rootState.Local)
	}

	// root's remaining headroom is local_balance(900) - circulating(100) = 800.
	mintRootToCap := newScriptedTx("mint-root-to-cap", func(cs *kv.ChangeSet) bool {
		return rootSheet.Mint(cs, uint256.NewInt(800)) == nil
	})
	b2 := &Block{Height: 2, Hash: blockHash("b2"), PreviousHash: b1.Hash, Transactions: []Transaction{mintRootToCap}}
	if !root.AddBlock(b2) {
		t.Fatalf("root mint up to its reduced headroom should be accepted")
	}
	if err := rootSheet.Mint(root.store, uint256.NewInt(1)); err != token.ErrSupplyCapExceeded {
		t.Fatalf("expected root mint to be capped by its reduced local_balance, got %v", err)
	}
}

func TestChainCreateAndDestroyNFT(t *testing.T) {
	c := newTestChain(t)
	tok := mustToken(t, crypto.BytesToAddress([]byte("nft-token")))

	id, err := c.CreateNFT(tok, []byte("art"))
	if err != nil {
		t.Fatalf("create nft: %v", err)
	}
	content, ok, err := c.GetNFT(tok, id)
	if err != nil || !ok || string(content) != "art" {
		t.Fatalf("expected content 'art', got %q ok=%v err=%v", content, ok, err)
	}

	removed, err := c.DestroyNFT(tok, id)
	if err != nil || !removed {
		t.Fatalf("expected destroy to remove, got removed=%v err=%v", removed, err)
	}
	removedAgain, err := c.DestroyNFT(tok, id)
	if err != nil || removedAgain {
		t.Fatalf("expected second destroy to report no removal, got %v", removedAgain)
	}
}
