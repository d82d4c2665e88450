package errs_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ardanlabs/gossipchain/business/web/errs"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/database"
	"github.com/ardanlabs/gossipchain/foundation/blockchain/ledger"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_FromLedger(t *testing.T) {
	tt := []struct {
		name   string
		err    error
		status int
	}{
		{"notfound", fmt.Errorf("index 9: %w", ledger.ErrBlockNotFound), http.StatusNotFound},
		{"invalid", fmt.Errorf("%w: signature does not match", database.ErrInvalidTransaction), http.StatusBadRequest},
		{"unsigned", database.ErrMissingSignature, http.StatusBadRequest},
		{"balance", ledger.ErrInsufficientBalance, http.StatusBadRequest},
		{"other", errors.New("disk on fire"), 0},
	}

	t.Log("Given the need to map ledger errors to status codes.")
	{
		for testID, test := range tt {
			t.Logf("\tTest %d:\tWhen handling a %q error.", testID, test.name)
			{
				err := errs.FromLedger(test.err)

				te := errs.GetTrusted(err)
				switch {
				case test.status == 0 && te != nil:
					t.Fatalf("\t%s\tTest %d:\tShould not trust the error.", failed, testID)
				case test.status != 0 && (te == nil || te.Status != test.status):
					t.Fatalf("\t%s\tTest %d:\tShould get status %d.", failed, testID, test.status)
				}
				t.Logf("\t%s\tTest %d:\tShould get status %d.", success, testID, test.status)

				if !errors.Is(err, test.err) {
					t.Fatalf("\t%s\tTest %d:\tShould keep the original error in the chain.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould keep the original error in the chain.", success, testID)
			}
		}
	}
}
