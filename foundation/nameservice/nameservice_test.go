package nameservice_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/wallet"
	"github.com/ardanlabs/gossipchain/foundation/nameservice"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_NameService(t *testing.T) {
	root := t.TempDir()

	names := []string{"kennedy", "pavel", "ceasar"}
	addresses := make(map[string]string)

	for _, name := range names {
		w, pk, err := wallet.Generate()
		if err != nil {
			t.Fatalf("generating wallet: %v", err)
		}
		if err := wallet.Save(filepath.Join(root, name+wallet.KeyExtension), pk); err != nil {
			t.Fatalf("saving key: %v", err)
		}
		addresses[name] = w.Address
	}

	if err := os.WriteFile(filepath.Join(root, "README.md"), []byte("keys"), 0600); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	t.Log("Given the need to look up names for addresses.")
	{
		ns, err := nameservice.New(root)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to load the key folder: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to load the key folder.", success)

		for name, address := range addresses {
			if got := ns.Lookup(address); got != name {
				t.Fatalf("\t%s\tShould find name %s for %s: got %s", failed, name, address, got)
			}
			t.Logf("\t%s\tShould find name %s for %s.", success, name, address)
		}

		if got := len(ns.Copy()); got != len(names) {
			t.Fatalf("\t%s\tShould only load key files: got %d, exp %d", failed, got, len(names))
		}
		t.Logf("\t%s\tShould only load key files.", success)

		const unknown = "9f0d2fcb4d41b5b5c0bd4e3a4bdbca4e6c7cfd31"
		if got := ns.Lookup(unknown); got != unknown {
			t.Fatalf("\t%s\tShould get the address back for an unknown address: got %s", failed, got)
		}
		t.Logf("\t%s\tShould get the address back for an unknown address.", success)
	}

	t.Log("Given the need to start without a key folder.")
	{
		ns, err := nameservice.New(filepath.Join(root, "missing"))
		if err != nil {
			t.Fatalf("\t%s\tShould accept a missing folder: %v", failed, err)
		}
		if len(ns.Copy()) != 0 {
			t.Fatalf("\t%s\tShould get an empty name service.", failed)
		}
		t.Logf("\t%s\tShould get an empty name service.", success)
	}
}
