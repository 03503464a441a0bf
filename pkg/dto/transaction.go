package dto

import (
	"time"

	"github.com/amirasaad/walletledger/pkg/domain/ledger"
	"github.com/google/uuid"
)

// TransactionFilter narrows ledger queries. Nil fields do not filter.
type TransactionFilter struct {
	UserID        *uuid.UUID
	WalletID      *uuid.UUID
	Type          *ledger.Type
	Status        *ledger.Status
	ReferenceType *ledger.ReferenceType
	ReferenceID   string
	// From and To select created_at in [From, To).
	From *time.Time
	To   *time.Time
}

// Page selects a window of results ordered by created_at.
type Page struct {
	Page    int
	Limit   int
	SortAsc bool
}

// Offset returns the number of rows to skip for p.
func (p Page) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// TransactionPage is one page of ledger rows plus the unpaged total.
type TransactionPage struct {
	Items []*ledger.Transaction
	Total int64
	Page  int
	Limit int
}

// AggregateRow is the count and smallest-unit sum of one (type, status) group.
type AggregateRow struct {
	Type   ledger.Type
	Status ledger.Status
	Count  int64
	Total  int64
}
