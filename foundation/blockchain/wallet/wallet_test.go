package wallet_test

import (
	"path/filepath"
	"testing"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/wallet"
	"github.com/ethereum/go-ethereum/crypto"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Generate(t *testing.T) {
	t.Log("Given the need to generate a wallet.")
	{
		w, pk, err := wallet.Generate()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a wallet: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to generate a wallet.", success)

		if !wallet.IsAddress(w.Address) {
			t.Fatalf("\t%s\tShould get a 40 character lowercase hex address: %s", failed, w.Address)
		}
		t.Logf("\t%s\tShould get a 40 character lowercase hex address.", success)

		if len(w.PrivateKey) != 64 {
			t.Fatalf("\t%s\tShould get a 64 character private key: %d", failed, len(w.PrivateKey))
		}
		t.Logf("\t%s\tShould get a 64 character private key.", success)

		key, err := crypto.HexToECDSA(w.PrivateKey)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to decode the private key: %v", failed, err)
		}
		if got := wallet.Address(key.PublicKey); got != w.Address {
			t.Fatalf("\t%s\tShould derive the same address from the key: got %s, exp %s", failed, got, w.Address)
		}
		t.Logf("\t%s\tShould derive the same address from the key.", success)

		if got := wallet.FromKey(pk); got != w {
			t.Fatalf("\t%s\tShould rebuild the same wallet from the key.", failed)
		}
		t.Logf("\t%s\tShould rebuild the same wallet from the key.", success)
	}
}

func Test_SaveLoad(t *testing.T) {
	t.Log("Given the need to store a private key.")
	{
		_, pk, err := wallet.Generate()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to generate a wallet: %v", failed, err)
		}

		path := filepath.Join(t.TempDir(), "kennedy"+wallet.KeyExtension)
		if err := wallet.Save(path, pk); err != nil {
			t.Fatalf("\t%s\tShould be able to save the key: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to save the key.", success)

		got, err := wallet.Load(path)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to load the key: %v", failed, err)
		}
		if wallet.Address(got.PublicKey) != wallet.Address(pk.PublicKey) {
			t.Fatalf("\t%s\tShould load the same key.", failed)
		}
		t.Logf("\t%s\tShould load the same key.", success)

		if _, err := wallet.Load(filepath.Join(t.TempDir(), "missing.ecdsa")); err == nil {
			t.Fatalf("\t%s\tShould fail to load a missing key.", failed)
		}
		t.Logf("\t%s\tShould fail to load a missing key.", success)
	}
}

func Test_IsAddress(t *testing.T) {
	tt := []struct {
		name    string
		address string
		exp     bool
	}{
		{"valid", "9f0d2fcb4d41b5b5c0bd4e3a4bdbca4e6c7cfd31", true},
		{"upper", "9F0D2FCB4D41B5B5C0BD4E3A4BDBCA4E6C7CFD31", false},
		{"prefix", "0x9f0d2fcb4d41b5b5c0bd4e3a4bdbca4e6c7cfd", false},
		{"short", "9f0d", false},
		{"empty", "", false},
		{"nonhex", "zf0d2fcb4d41b5b5c0bd4e3a4bdbca4e6c7cfd31", false},
	}

	t.Log("Given the need to recognize wallet addresses.")
	{
		for testID, test := range tt {
			t.Logf("\tTest %d:\tWhen checking %q.", testID, test.name)
			{
				if got := wallet.IsAddress(test.address); got != test.exp {
					t.Fatalf("\t%s\tTest %d:\tShould get %v: got %v", failed, testID, test.exp, got)
				}
				t.Logf("\t%s\tTest %d:\tShould get %v.", success, testID, test.exp)
			}
		}
	}
}
