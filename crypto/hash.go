package crypto

import (
	"crypto/sha256"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// HashLength is the fixed size, in bytes, of a Hash.
const HashLength = 32

// Hash is a fixed-size content digest. Equality and map-key use are
// required by the core; no total order is assumed.
type Hash [HashLength]byte

// NullHash is the distinguished absent/zero hash, used as the
// previous-hash of a genesis block.
var NullHash Hash

// Bytes returns a copy of the hash's underlying bytes.
func (h Hash) Bytes() []byte {
	out := make([]byte, HashLength)
	copy(out, h[:])
	return out
}

// BytesToHash truncates or left-pads b as needed and returns a Hash.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

// Hasher computes the content digest used to identify blocks and
// transactions. The core consumes it as an injected collaborator (see
// spec §6); Sha256Hasher below is the default, swappable implementation.
type Hasher interface {
	Sum(data []byte) Hash
}

// Sha256Hasher hashes with SHA-256, truncated to HashLength (no
// truncation occurs since SHA-256 already produces 32 bytes).
type Sha256Hasher struct{}

// Sum implements Hasher.
func (Sha256Hasher) Sum(data []byte) Hash {
	return sha256.Sum256(data)
}

// Keccak256Hasher hashes with Keccak-256, matching the source chain's
// state-key derivation scheme. Provided as an alternative default for
// collaborators that want parity with the teacher's key hashing.
type Keccak256Hasher struct{}

// Sum implements Hasher.
func (Keccak256Hasher) Sum(data []byte) Hash {
	return BytesToHash(ethcrypto.Keccak256(data))
}
