package validate_test

import (
	"testing"

	"github.com/ardanlabs/gossipchain/business/sys/validate"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

type newTx struct {
	FromAddress string  `json:"fromAddress" validate:"required"`
	ToAddress   string  `json:"toAddress" validate:"required"`
	Amount      float64 `json:"amount" validate:"gt=0"`
}

func Test_Check(t *testing.T) {
	t.Log("Given the need to validate request payloads.")
	{
		if err := validate.Check(newTx{FromAddress: "alice", ToAddress: "bob", Amount: 5}); err != nil {
			t.Fatalf("\t%s\tShould accept a complete payload: %v", failed, err)
		}
		t.Logf("\t%s\tShould accept a complete payload.", success)

		err := validate.Check(newTx{ToAddress: "bob"})
		if !validate.IsFieldErrors(err) {
			t.Fatalf("\t%s\tShould get field errors: %v", failed, err)
		}
		t.Logf("\t%s\tShould get field errors.", success)

		fields := validate.GetFieldErrors(err).Fields()
		if len(fields) != 2 {
			t.Fatalf("\t%s\tShould get two failing fields: %v", failed, fields)
		}
		if fields["fromAddress"] != "fromAddress is a required field" {
			t.Fatalf("\t%s\tShould use the json name and an english message: %q", failed, fields["fromAddress"])
		}
		if _, exists := fields["amount"]; !exists {
			t.Fatalf("\t%s\tShould report the amount field: %v", failed, fields)
		}
		t.Logf("\t%s\tShould use the json name and an english message.", success)
	}
}
