// Package signature provides helper functions for handling the blockchain
// hashing and signing needs.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"

	"github.com/ethereum/go-ethereum/common"
)

// ZeroHash represents the previous hash marker used by the genesis block.
const ZeroHash string = "0"

// =============================================================================

// Hash returns the sha256 digest of the data as a 64 character lowercase
// hex string without a 0x prefix. Proof of work is measured against the
// leading characters of this string.
func Hash(data string) string {
	hash := sha256.Sum256([]byte(data))
	return common.Bytes2Hex(hash[:])
}

// Sign produces a keyed HMAC-SHA256 over the digest using the key as the
// MAC key. The result is hex encoded.
func Sign(key string, digest string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(digest))
	return common.Bytes2Hex(mac.Sum(nil))
}

// Verify recomputes the MAC for the digest with the specified key and
// compares it against the provided signature in constant time.
func Verify(key string, digest string, sig string) bool {
	exp := Sign(key, digest)
	return hmac.Equal([]byte(exp), []byte(sig))
}

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of leading 0's.
func IsHashSolved(difficulty int, hash string) bool {
	const match = "0000000000000000"

	if difficulty < 0 || difficulty > len(match) || len(hash) < difficulty {
		return false
	}

	return hash[:difficulty] == match[:difficulty]
}
