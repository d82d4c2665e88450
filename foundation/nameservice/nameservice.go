// Package nameservice reads a folder of private key files and creates a name
// service lookup for the addresses they control.
package nameservice

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/wallet"
)

// NameService maintains a map of addresses for name lookup.
type NameService struct {
	addresses map[string]string
}

// New constructs a name service with the addresses of every key file found
// under root. The file name without its extension becomes the name. A root
// that does not exist produces an empty name service.
func New(root string) (*NameService, error) {
	ns := NameService{
		addresses: make(map[string]string),
	}

	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return &ns, nil
	}

	fn := func(fileName string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if d.IsDir() || filepath.Ext(fileName) != wallet.KeyExtension {
			return nil
		}

		privateKey, err := wallet.Load(fileName)
		if err != nil {
			return err
		}

		address := wallet.Address(privateKey.PublicKey)
		ns.addresses[address] = strings.TrimSuffix(filepath.Base(fileName), wallet.KeyExtension)

		return nil
	}

	if err := filepath.WalkDir(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified address. The address itself is
// returned when no name is known.
func (ns *NameService) Lookup(address string) string {
	name, exists := ns.addresses[address]
	if !exists {
		return address
	}
	return name
}

// Copy returns a copy of the map of addresses and names.
func (ns *NameService) Copy() map[string]string {
	cpy := make(map[string]string, len(ns.addresses))
	for address, name := range ns.addresses {
		cpy[address] = name
	}
	return cpy
}
