// Package metrics exposes the Prometheus counters and gauges the chain
// engine emits for block ingestion, reorgs, and token lifecycle events.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// ChainMetrics is the per-process metrics registry for a running chain
// engine. It is safe for concurrent use by every Chain instance in the
// process, including child chains, which all report into the same
// registry distinguished by a "chain" label.
type ChainMetrics struct {
	blockHeight      *prometheus.GaugeVec
	blocksIngested   *prometheus.CounterVec
	blocksRejected   *prometheus.CounterVec
	transactionsExec *prometheus.CounterVec
	reorgDepth       *prometheus.HistogramVec
	nftsMinted       *prometheus.CounterVec
	nftsBurned       *prometheus.CounterVec
	transfers        *prometheus.CounterVec
}

var (
	chainMetricsOnce sync.Once
	chainRegistry    *ChainMetrics
)

// Chain returns the process-wide chain metrics registry, constructing
// and registering it with the default Prometheus registerer on first
// use.
func Chain() *ChainMetrics {
	chainMetricsOnce.Do(func() {
		chainRegistry = &ChainMetrics{
			blockHeight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "ledgerchain",
				Subsystem: "chain",
				Name:      "block_height",
				Help:      "Current block height of a chain, by chain name.",
			}, []string{"chain"}),
			blocksIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "ledgerchain",
				Subsystem: "chain",
				Name:      "blocks_ingested_total",
				Help:      "Count of blocks accepted by add_block, by chain name.",
			}, []string{"chain"}),
			blocksRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "ledgerchain",
				Subsystem: "chain",
				Name:      "blocks_rejected_total",
				Help:      "Count of blocks rejected by add_block, by chain name.",
			}, []string{"chain"}),
			transactionsExec: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "ledgerchain",
				Subsystem: "chain",
				Name:      "transactions_executed_total",
				Help:      "Count of transactions committed in accepted blocks, by chain name.",
			}, []string{"chain"}),
			reorgDepth: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "ledgerchain",
				Subsystem: "chain",
				Name:      "reorg_depth",
				Help:      "Number of blocks undone by delete_blocks or a merge_blocks divergence, by chain name.",
				Buckets:   prometheus.LinearBuckets(1, 1, 10),
			}, []string{"chain"}),
			nftsMinted: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "ledgerchain",
				Subsystem: "token",
				Name:      "nfts_created_total",
				Help:      "Count of NFT content records created, by chain name.",
			}, []string{"chain"}),
			nftsBurned: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "ledgerchain",
				Subsystem: "token",
				Name:      "nfts_destroyed_total",
				Help:      "Count of NFT content records destroyed, by chain name.",
			}, []string{"chain"}),
			transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "ledgerchain",
				Subsystem: "token",
				Name:      "transfers_total",
				Help:      "Count of fungible balance transfers, by chain name.",
			}, []string{"chain"}),
		}
		prometheus.MustRegister(
			chainRegistry.blockHeight,
			chainRegistry.blocksIngested,
			chainRegistry.blocksRejected,
			chainRegistry.transactionsExec,
			chainRegistry.reorgDepth,
			chainRegistry.nftsMinted,
			chainRegistry.nftsBurned,
			chainRegistry.transfers,
		)
	})
	return chainRegistry
}

// ObserveBlockAccepted records a successfully ingested block: it moves
// the height gauge, increments the ingestion counter, and adds txCount
// to the executed-transactions counter.
func (m *ChainMetrics) ObserveBlockAccepted(chain string, height uint64, txCount int) {
	if m == nil {
		return
	}
	m.blockHeight.WithLabelValues(chain).Set(float64(height))
	m.blocksIngested.WithLabelValues(chain).Inc()
	if txCount > 0 {
		m.transactionsExec.WithLabelValues(chain).Add(float64(txCount))
	}
}

// ObserveBlockRejected records a block that add_block refused.
func (m *ChainMetrics) ObserveBlockRejected(chain string) {
	if m == nil {
		return
	}
	m.blocksRejected.WithLabelValues(chain).Inc()
}

// ObserveReorg records a rewind of depth blocks performed by
// delete_blocks or a merge_blocks divergence, and resets the height
// gauge to newHeight, the chain's block count after the rewind. A
// depth of zero records nothing.
func (m *ChainMetrics) ObserveReorg(chain string, depth int, newHeight uint64) {
	if m == nil || depth <= 0 {
		return
	}
	m.reorgDepth.WithLabelValues(chain).Observe(float64(depth))
	m.blockHeight.WithLabelValues(chain).Set(float64(newHeight))
}

// ObserveNFTCreated records a CreateNFT call.
func (m *ChainMetrics) ObserveNFTCreated(chain string) {
	if m == nil {
		return
	}
	m.nftsMinted.WithLabelValues(chain).Inc()
}

// ObserveNFTDestroyed records a DestroyNFT call that actually removed
// content.
func (m *ChainMetrics) ObserveNFTDestroyed(chain string) {
	if m == nil {
		return
	}
	m.nftsBurned.WithLabelValues(chain).Inc()
}

// ObserveTransfer records a fungible balance transfer.
func (m *ChainMetrics) ObserveTransfer(chain string) {
	if m == nil {
		return
	}
	m.transfers.WithLabelValues(chain).Inc()
}
