package chain

import (
	"ledgerchain/crypto"
	"ledgerchain/kv"
)

// blockLog is the append-only sequence of blocks plus the hash, height,
// and transaction-hash indexes of spec §2 component 6. It also holds
// the change-set each block committed with, so delete_blocks can undo
// blocks in reverse order (spec §4.6).
type blockLog struct {
	byHeight   []*Block
	byHash     map[crypto.Hash]*Block
	byTxHash   map[crypto.Hash]*Block
	changeSets map[crypto.Hash]*kv.ChangeSet
}

func newBlockLog() *blockLog {
	return &blockLog{
		byHash:     make(map[crypto.Hash]*Block),
		byTxHash:   make(map[crypto.Hash]*Block),
		changeSets: make(map[crypto.Hash]*kv.ChangeSet),
	}
}

func (l *blockLog) height() uint64 {
	return uint64(len(l.byHeight))
}

func (l *blockLog) lastBlock() (*Block, bool) {
	if len(l.byHeight) == 0 {
		return nil, false
	}
	return l.byHeight[len(l.byHeight)-1], true
}

func (l *blockLog) findByHash(h crypto.Hash) (*Block, bool) {
	b, ok := l.byHash[h]
	return b, ok
}

func (l *blockLog) findByHeight(height uint64) (*Block, bool) {
	if height >= uint64(len(l.byHeight)) {
		return nil, false
	}
	return l.byHeight[height], true
}

func (l *blockLog) findTxBlock(txHash crypto.Hash) (*Block, bool) {
	b, ok := l.byTxHash[txHash]
	return b, ok
}

// append records a newly committed block and the change-set it was
// committed with, updating every index.
func (l *blockLog) append(b *Block, cs *kv.ChangeSet) {
	l.byHeight = append(l.byHeight, b)
	l.byHash[b.Hash] = b
	l.changeSets[b.Hash] = cs
	for _, tx := range b.Transactions {
		l.byTxHash[tx.Hash()] = b
		tx.SetBlock(b)
	}
}

// removeTip detaches and returns the current tip along with its stored
// change-set, removing it from every index. Returns ok=false on an
// empty log; returns an error if the tip's change-set has gone
// missing, which indicates corrupted block-log bookkeeping rather than
// a normal empty-chain condition.
func (l *blockLog) removeTip() (*Block, *kv.ChangeSet, bool, error) {
	tip, ok := l.lastBlock()
	if !ok {
		return nil, nil, false, nil
	}
	cs, ok := l.changeSets[tip.Hash]
	if !ok {
		return nil, nil, true, ErrChangeSetMissing
	}
	l.byHeight = l.byHeight[:len(l.byHeight)-1]
	delete(l.byHash, tip.Hash)
	delete(l.changeSets, tip.Hash)
	for _, tx := range tip.Transactions {
		delete(l.byTxHash, tx.Hash())
	}
	return tip, cs, true, nil
}

// transactionCount returns the total number of transactions across
// every block currently in the log.
func (l *blockLog) transactionCount() int {
	return len(l.byTxHash)
}
