// Package chain implements the Chain orchestrator of spec §2-§4.7: the
// append-only block log, add_block/delete_blocks/merge_blocks reorg
// control flow, the parent/child chain tree, and the read-only query
// surface exposed to collaborators. The token ledgers it drives live in
// package token; the reversible storage it drives lives in package kv.
package chain

import (
	"ledgerchain/crypto"
	"ledgerchain/kv"
)

// EventSink is the injected plugin-notification hook a Block carries
// (spec §3, §9 "the plugin-notify hook ... should be defined as an
// injected event sink, not a process-wide singleton").
type EventSink interface {
	Notify(event string, payload any)
}

// NoopEventSink discards every notification. Useful for tests and for
// blocks that have no observers.
type NoopEventSink struct{}

// Notify implements EventSink.
func (NoopEventSink) Notify(string, any) {}

// Transaction is the opaque, externally-supplied executor contract of
// spec §3/§6. The engine never inspects a transaction's payload; it
// only calls these methods in order.
type Transaction interface {
	// Hash returns the transaction's stable content hash.
	Hash() crypto.Hash
	// IsValid reports whether the transaction may execute against c's
	// current state. Called before any change-set is allocated.
	IsValid(c *Chain) bool
	// Execute applies the transaction's effects to cs and reports
	// success. Implementations must route every mutation through cs,
	// never through c's backing store directly (spec §9 change-set
	// leakage note) so that a failed block's change-set can be
	// discarded without a trace.
	Execute(c *Chain, b *Block, cs *kv.ChangeSet, sink EventSink) bool
	// SetBlock records the block this transaction was committed into.
	// AddBlock calls it on commit; FindTransactionBlock does not consult
	// it and answers from the chain's own transaction-hash index.
	SetBlock(b *Block)
}

// Block is an immutable batch of transactions with height and hash
// linkage (spec §3). Callers construct a Block fully before passing it
// to Chain.AddBlock; the engine never mutates one.
type Block struct {
	Height       uint64
	Hash         crypto.Hash
	PreviousHash crypto.Hash
	Transactions []Transaction
	Notify       EventSink
}

// Nexus is the external registry of sibling chains and plugin hooks
// (spec §6). The core depends only on this query/notify surface; it
// never enumerates chains on its own.
type Nexus interface {
	ContainsChain(c *Chain) bool
	PluginTriggerBlock(c *Chain, b *Block)
}

// NoopNexus is the default Nexus: every chain it is asked about is
// considered known, and block notifications are discarded. Production
// wiring is expected to inject a real registry; the core never
// constructs one internally outside of this default (spec §6 expansion).
type NoopNexus struct{}

// ContainsChain implements Nexus.
func (NoopNexus) ContainsChain(*Chain) bool { return true }

// PluginTriggerBlock implements Nexus.
func (NoopNexus) PluginTriggerBlock(*Chain, *Block) {}
