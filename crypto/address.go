// Package crypto provides the fixed-size identifiers the chain engine
// treats opaquely (Address, Hash) along with the default, swappable
// implementations of the hashing and address-derivation collaborators
// described by the core's external interface contract. Signature
// verification and key custody are wallet/CLI concerns and live outside
// this module.
package crypto

import (
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// AddressLength is the fixed size, in bytes, of an Address.
const AddressLength = 20

// AddressPrefix is the human-readable bech32 prefix used when rendering
// an Address as text. Deployments pick a single prefix; it has no effect
// on equality or map-key use.
type AddressPrefix string

// DefaultPrefix is used when no deployment-specific prefix is configured.
const DefaultPrefix AddressPrefix = "core"

// Address is a fixed-size opaque account identifier. The zero value is
// the distinguished Null address.
type Address [AddressLength]byte

// NullAddress is the distinguished absent/zero address.
var NullAddress Address

// IsNull reports whether the address is the distinguished Null address.
func (a Address) IsNull() bool {
	return a == NullAddress
}

// Bytes returns a copy of the address's underlying bytes.
func (a Address) Bytes() []byte {
	out := make([]byte, AddressLength)
	copy(out, a[:])
	return out
}

// BytesToAddress truncates or left-pads b as needed and returns an Address.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// String renders the address using the bech32 encoding with DefaultPrefix.
func (a Address) String() string {
	return a.Encode(DefaultPrefix)
}

// Encode renders the address as bech32 text under the supplied prefix,
// mirroring the dual nhb/znhb prefix convention of the source chain.
func (a Address) Encode(prefix AddressPrefix) string {
	conv, err := bech32.ConvertBits(a[:], 8, 5, true)
	if err != nil {
		panic(err)
	}
	encoded, err := bech32.Encode(string(prefix), conv)
	if err != nil {
		panic(err)
	}
	return encoded
}

// DecodeAddress parses bech32 text produced by Encode/String.
func DecodeAddress(text string) (Address, AddressPrefix, error) {
	prefix, decoded, err := bech32.Decode(text)
	if err != nil {
		return Address{}, "", fmt.Errorf("crypto: invalid bech32 address: %w", err)
	}
	conv, err := bech32.ConvertBits(decoded, 5, 8, false)
	if err != nil {
		return Address{}, "", fmt.Errorf("crypto: bit conversion failed: %w", err)
	}
	return BytesToAddress(conv), AddressPrefix(prefix), nil
}

// AddressFromHash derives an address from a hash the way the source chain
// derives contract/account addresses from a public key hash: by taking the
// low-order AddressLength bytes of a Keccak-256 digest.
func AddressFromHash(h Hash) Address {
	digest := ethcrypto.Keccak256(h[:])
	return BytesToAddress(digest)
}
