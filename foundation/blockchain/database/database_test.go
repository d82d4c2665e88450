package database_test

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	alice = "5b3c0a9c2e6ad1b7b1d1f0a3b1ce4f0d9a1e2f33"
	bob   = "9a1e2f335b3c0a9c2e6ad1b7b1d1f0a3b1ce4f0d"
)

func noopEv(v string, args ...any) {}

func Test_TransactionHash(t *testing.T) {
	tx := database.Tx{FromAddress: alice, ToAddress: bob, Amount: 30, Timestamp: 1700000000000}

	exp := signature.Hash(alice + bob + "30" + "1700000000000")
	if got := tx.Hash(); got != exp {
		t.Logf("got: %s", got)
		t.Logf("exp: %s", exp)
		t.Fatalf("Should hash the concatenation of the transaction fields.")
	}

	reward := database.Tx{ToAddress: bob, Amount: 1.5, Timestamp: 1}
	exp = signature.Hash("null" + bob + "1.5" + "1")
	if got := reward.Hash(); got != exp {
		t.Logf("got: %s", got)
		t.Logf("exp: %s", exp)
		t.Fatalf("Should hash the reward sender as null.")
	}

	tx.Signature = "abc"
	if tx.Hash() != signature.Hash(alice+bob+"30"+"1700000000000") {
		t.Fatalf("Should not include the signature in the hash.")
	}
}

func Test_TransactionValidate(t *testing.T) {
	t.Log("Given the need to validate transaction signatures.")
	{
		t.Logf("\tTest 0:\tWhen handling a reward transaction without a signature.")
		{
			tx := database.NewRewardTx(bob, 100)
			if !tx.IsValid() {
				t.Fatalf("\t%s\tTest 0:\tShould treat a reward transaction as valid.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould treat a reward transaction as valid.", success)
		}

		t.Logf("\tTest 1:\tWhen handling an unsigned transaction.")
		{
			tx := database.NewTx(alice, bob, 10)
			if err := tx.Validate(); !errors.Is(err, database.ErrMissingSignature) {
				t.Fatalf("\t%s\tTest 1:\tShould get a missing signature error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould get a missing signature error.", success)
		}

		t.Logf("\tTest 2:\tWhen handling a transaction signed with the from address.")
		{
			tx := database.NewTx(alice, bob, 10)
			tx.Sign(alice)
			if err := tx.Validate(); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould validate the signature: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould validate the signature.", success)
		}

		t.Logf("\tTest 3:\tWhen handling a transaction signed with another key.")
		{
			tx := database.NewTx(alice, bob, 10)
			tx.Sign("some private key")
			if err := tx.Validate(); !errors.Is(err, database.ErrInvalidTransaction) {
				t.Fatalf("\t%s\tTest 3:\tShould get an invalid transaction error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould get an invalid transaction error.", success)
		}

		t.Logf("\tTest 4:\tWhen a signed transaction is modified.")
		{
			tx := database.NewTx(alice, bob, 10)
			tx.Sign(alice)
			tx.Amount = 1000
			if tx.IsValid() {
				t.Fatalf("\t%s\tTest 4:\tShould detect the modification.", failed)
			}
			t.Logf("\t%s\tTest 4:\tShould detect the modification.", success)
		}
	}
}

func Test_TransactionJSON(t *testing.T) {
	reward := database.Tx{ToAddress: bob, Amount: 100, Timestamp: 42}

	data, err := json.Marshal(reward)
	if err != nil {
		t.Fatalf("Should be able to marshal a transaction: %s", err)
	}

	const exp = `{"fromAddress":null,"toAddress":"` + bob + `","amount":100,"timestamp":42,"signature":null}`
	if string(data) != exp {
		t.Logf("got: %s", data)
		t.Logf("exp: %s", exp)
		t.Fatalf("Should write the reward sender and missing signature as null.")
	}

	var got database.Tx
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Should be able to unmarshal a transaction: %s", err)
	}

	if !got.IsReward() || got != reward {
		t.Logf("got: %+v", got)
		t.Logf("exp: %+v", reward)
		t.Fatalf("Should get back the same transaction.")
	}
}

func Test_MineBlock(t *testing.T) {
	type table struct {
		name       string
		difficulty int
	}

	tt := []table{
		{name: "difficulty1", difficulty: 1},
		{name: "difficulty2", difficulty: 2},
		{name: "difficulty3", difficulty: 3},
	}

	for testID, tst := range tt {
		f := func(t *testing.T) {
			tx := database.NewTx(alice, bob, 5)
			tx.Sign(alice)

			b := database.NewBlock(1700000000000, []database.Tx{tx, database.NewRewardTx(alice, 100)}, signature.ZeroHash)
			b.Mine(tst.difficulty, noopEv)

			if !strings.HasPrefix(b.Hash, strings.Repeat("0", tst.difficulty)) {
				t.Fatalf("\t%s\tTest %d:\tShould have %d leading zeros: %s", failed, testID, tst.difficulty, b.Hash)
			}
			t.Logf("\t%s\tTest %d:\tShould have %d leading zeros.", success, testID, tst.difficulty)

			if b.Hash != b.Digest() {
				t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, b.Digest())
				t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, b.Hash)
				t.Fatalf("\t%s\tTest %d:\tShould reproduce the hash from the stored fields.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reproduce the hash from the stored fields.", success, testID)

			if !b.HasValidTransactions() {
				t.Fatalf("\t%s\tTest %d:\tShould have valid transactions.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould have valid transactions.", success, testID)
		}

		t.Run(tst.name, f)
	}
}

func Test_BlockInvalidTransactions(t *testing.T) {
	unsigned := database.NewTx(alice, bob, 5)
	b := database.NewBlock(1, []database.Tx{database.NewRewardTx(alice, 100), unsigned}, signature.ZeroHash)

	if b.HasValidTransactions() {
		t.Fatalf("Should detect the unsigned transaction.")
	}
}

func Test_GenesisBlock(t *testing.T) {
	g := database.NewGenesisBlock()

	if g.PreviousHash != signature.ZeroHash {
		t.Fatalf("Should use the zero marker as the previous hash, got %q.", g.PreviousHash)
	}

	if len(g.Transactions) != 0 {
		t.Fatalf("Should have no transactions, got %d.", len(g.Transactions))
	}

	if g.Hash != g.Digest() {
		t.Fatalf("Should have the hash computed at construction.")
	}
}

func Test_AmountFormat(t *testing.T) {
	type table struct {
		amount float64
		exp    string
	}

	tt := []table{
		{amount: 30, exp: "30"},
		{amount: 1.5, exp: "1.5"},
		{amount: 0.000001, exp: "0.000001"},
		{amount: 1e-7, exp: "1e-7"},
		{amount: 2.5e-10, exp: "2.5e-10"},
		{amount: 1.23e-100, exp: "1.23e-100"},
		{amount: 123456789012345680000, exp: "123456789012345680000"},
		{amount: 1e21, exp: "1e+21"},
		{amount: 1.5e300, exp: "1.5e+300"},
		{amount: math.Copysign(0, -1), exp: "0"},
	}

	t.Log("Given the need to hash amounts the same way on every node.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen hashing amount %v.", testID, tst.amount)
			{
				tx := database.Tx{FromAddress: alice, ToAddress: bob, Amount: tst.amount, Timestamp: 1}

				exp := signature.Hash(alice + bob + tst.exp + "1")
				if got := tx.Hash(); got != exp {
					t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, got)
					t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, exp)
					t.Fatalf("\t%s\tTest %d:\tShould hash the amount as %q.", failed, testID, tst.exp)
				}
				t.Logf("\t%s\tTest %d:\tShould hash the amount as %q.", success, testID, tst.exp)
			}
		}
	}
}

func Test_NonFiniteAmount(t *testing.T) {
	t.Log("Given the need to seal blocks holding any amount.")
	{
		t.Logf("\tTest 0:\tWhen a transaction carries a NaN amount.")
		{
			tx := database.NewTx(alice, bob, math.NaN())
			tx.Sign(alice)

			if tx.HasValidAmount() {
				t.Fatalf("\t%s\tTest 0:\tShould report the amount as invalid.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould report the amount as invalid.", success)

			data, err := json.Marshal(tx)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to encode the transaction: %s", failed, err)
			}
			if !strings.Contains(string(data), `"amount":null`) {
				t.Fatalf("\t%s\tTest 0:\tShould encode the amount as null: %s", failed, data)
			}
			t.Logf("\t%s\tTest 0:\tShould encode the amount as null.", success)

			block := database.NewBlock(1, []database.Tx{tx}, signature.ZeroHash)
			if len(block.Digest()) != 64 {
				t.Fatalf("\t%s\tTest 0:\tShould produce a full digest, got %q.", failed, block.Digest())
			}
			t.Logf("\t%s\tTest 0:\tShould produce a full digest.", success)

			block.Mine(2, noopEv)
			if !signature.IsHashSolved(2, block.Hash) || block.Hash != block.Digest() {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine the block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to mine the block.", success)
		}

		t.Logf("\tTest 1:\tWhen checking ordinary amounts.")
		{
			for _, amount := range []float64{0, 1.5, 1e21} {
				if !database.NewTx(alice, bob, amount).HasValidAmount() {
					t.Fatalf("\t%s\tTest 1:\tShould accept amount %v.", failed, amount)
				}
			}
			if database.NewTx(alice, bob, -1).HasValidAmount() || database.NewTx(alice, bob, math.Inf(1)).HasValidAmount() {
				t.Fatalf("\t%s\tTest 1:\tShould reject negative and infinite amounts.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould accept only finite amounts that are not negative.", success)
		}
	}
}
