// Command chaind boots a single chain engine process: it loads config,
// opens the configured storage backend, wires up structured logging and
// Prometheus metrics, and constructs the root Chain.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ledgerchain/chain"
	"ledgerchain/config"
	"ledgerchain/crypto"
	"ledgerchain/kv"
	"ledgerchain/observability/logging"
)

func main() {
	configFile := flag.String("config", "./chain.toml", "Path to the configuration file")
	metricsAddr := flag.String("metrics-addr", "", "Address to serve Prometheus metrics on (disabled if empty)")
	logFile := flag.String("log-file", "", "Path to a rotating log file (stdout only if empty)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chaind: load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.ChainName, logging.FileConfig{Path: *logFile})

	store, closeStore, err := openStore(*cfg)
	if err != nil {
		logger.Error("failed to open store", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()

	owner := ownerAddress(cfg.OwnerSeed)
	root, err := chain.NewRoot(cfg.ChainName, owner, store, crypto.NullAddress, chain.Config{})
	if err != nil {
		logger.Error("failed to construct root chain", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("chain engine ready",
		slog.String("chain", root.Name()),
		logging.MaskField("owner", root.Owner().String()),
		logging.MaskField("seed", cfg.OwnerSeed),
		slog.String("backend", string(cfg.Backend)),
	)

	if *metricsAddr != "" {
		http.Handle("/metrics", promhttp.Handler())
		logger.Info("serving metrics", slog.String("addr", *metricsAddr))
		if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
			logger.Error("metrics server exited", slog.Any("error", err))
			os.Exit(1)
		}
	}
}

func openStore(cfg config.Config) (kv.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendLevelDB:
		db, err := kv.OpenLevelDBStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	default:
		return kv.NewMemStore(), func() {}, nil
	}
}

func ownerAddress(seed string) crypto.Address {
	digest := crypto.Sha256Hasher{}.Sum([]byte(seed))
	return crypto.AddressFromHash(digest)
}
