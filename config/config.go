// Package config loads the small set of knobs the chain engine's
// demo/bootstrap command needs: which storage backend a chain runs on
// and what identity it boots with (spec SPEC_FULL.md Component 10).
// Everything consensus, network, or fee/gas related belongs to
// external collaborators and has no place here.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Backend selects which kv.Store implementation a chain is opened
// against.
type Backend string

const (
	BackendMemory  Backend = "memory"
	BackendLevelDB Backend = "leveldb"
)

// Config is the bootstrap configuration for a single chain process.
type Config struct {
	Backend   Backend `toml:"Backend"`
	DataDir   string  `toml:"DataDir"`
	ChainName string  `toml:"ChainName"`
	OwnerSeed string  `toml:"OwnerSeed"`
}

// Load reads path as TOML, falling back to a default in-memory
// configuration written to path if it does not yet exist.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	switch c.Backend {
	case "":
		c.Backend = BackendMemory
	case BackendMemory, BackendLevelDB:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}
	if c.Backend == BackendLevelDB && strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("config: leveldb backend requires DataDir")
	}
	if strings.TrimSpace(c.ChainName) == "" {
		c.ChainName = "root"
	}
	return nil
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{
		Backend:   BackendMemory,
		DataDir:   "./chain-data",
		ChainName: "root",
	}
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
