package token

import (
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"ledgerchain/crypto"
)

var (
	balancePrefix = []byte("balance:")
	ownerPrefix   = []byte("owner:")
	reversePrefix = []byte("nft-owner:")
	supplyPrefix  = []byte("supply:")
	contentPrefix = []byte("nft-content:")
)

func balanceKey(tokenID crypto.Address, addr crypto.Address) []byte {
	buf := make([]byte, 0, len(balancePrefix)+len(tokenID)+len(addr))
	buf = append(buf, balancePrefix...)
	buf = append(buf, tokenID[:]...)
	buf = append(buf, addr[:]...)
	return ethcrypto.Keccak256(buf)
}

func ownerKey(tokenID crypto.Address, addr crypto.Address) []byte {
	buf := make([]byte, 0, len(ownerPrefix)+len(tokenID)+len(addr))
	buf = append(buf, ownerPrefix...)
	buf = append(buf, tokenID[:]...)
	buf = append(buf, addr[:]...)
	return ethcrypto.Keccak256(buf)
}

func reverseKey(tokenID crypto.Address, id uint64) []byte {
	buf := make([]byte, 0, len(reversePrefix)+len(tokenID)+8)
	buf = append(buf, reversePrefix...)
	buf = append(buf, tokenID[:]...)
	buf = append(buf, uint64ToBytes(id)...)
	return ethcrypto.Keccak256(buf)
}

func supplyKey(tokenID crypto.Address) []byte {
	buf := make([]byte, 0, len(supplyPrefix)+len(tokenID))
	buf = append(buf, supplyPrefix...)
	buf = append(buf, tokenID[:]...)
	return ethcrypto.Keccak256(buf)
}

func contentKey(tokenID crypto.Address, id uint64) []byte {
	buf := make([]byte, 0, len(contentPrefix)+len(tokenID)+8)
	buf = append(buf, contentPrefix...)
	buf = append(buf, tokenID[:]...)
	buf = append(buf, uint64ToBytes(id)...)
	return ethcrypto.Keccak256(buf)
}

func uint64ToBytes(v uint64) []byte {
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}
