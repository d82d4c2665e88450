// Package wallet generates and loads the keys that back a ledger address.
package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// KeyExtension is the file extension used for stored private keys.
const KeyExtension = ".ecdsa"

// Wallet represents an address and the private key it was derived from.
type Wallet struct {
	Address    string `json:"address"`
	PrivateKey string `json:"privateKey"`
}

// Generate constructs a wallet from a new secp256k1 key.
func Generate() (Wallet, *ecdsa.PrivateKey, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return Wallet{}, nil, fmt.Errorf("generating key: %w", err)
	}

	return FromKey(privateKey), privateKey, nil
}

// FromKey constructs the wallet for the specified private key.
func FromKey(privateKey *ecdsa.PrivateKey) Wallet {
	return Wallet{
		Address:    Address(privateKey.PublicKey),
		PrivateKey: common.Bytes2Hex(crypto.FromECDSA(privateKey)),
	}
}

// Address returns the 20 byte hex address for the public key, lowercase and
// without the 0x prefix.
func Address(pk ecdsa.PublicKey) string {
	return strings.ToLower(common.Bytes2Hex(crypto.PubkeyToAddress(pk).Bytes()))
}

// Load reads the private key stored in the hex encoded file.
func Load(path string) (*ecdsa.PrivateKey, error) {
	privateKey, err := crypto.LoadECDSA(path)
	if err != nil {
		return nil, fmt.Errorf("loading key %s: %w", path, err)
	}
	return privateKey, nil
}

// Save writes the private key as hex to the file with restrictive permissions.
func Save(path string, privateKey *ecdsa.PrivateKey) error {
	if err := crypto.SaveECDSA(path, privateKey); err != nil {
		return fmt.Errorf("saving key %s: %w", path, err)
	}
	return nil
}

// IsAddress reports whether the value looks like a wallet address.
func IsAddress(address string) bool {
	if len(address) != 2*common.AddressLength {
		return false
	}

	for _, c := range []byte(address) {
		switch {
		case '0' <= c && c <= '9':
		case 'a' <= c && c <= 'f':
		default:
			return false
		}
	}

	return true
}
