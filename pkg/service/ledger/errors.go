package ledger

import (
	"github.com/amirasaad/walletledger/pkg/domain/ledger"
)

// RejectedError reports a movement that was recorded and then rejected.
// Transaction is the row in its final state, usually FAILED.
type RejectedError struct {
	Transaction *ledger.Transaction
	Err         error
}

func (e *RejectedError) Error() string { return e.Err.Error() }

func (e *RejectedError) Unwrap() error { return e.Err }
