package repository

import (
	"context"
	"reflect"
)

// UnitOfWork defines the contract for transactional work and type-safe repository access.
//
// Repositories obtained from the UnitOfWork passed to Do share its database
// transaction. Repositories obtained outside Do run each statement on its own.
//
//	repoAny, err := uow.GetRepository(reflect.TypeOf((*WalletRepository)(nil)).Elem())
//	repo := repoAny.(WalletRepository)
type UnitOfWork interface {
	// Do executes fn within a transaction boundary.
	// If fn returns an error, the transaction is rolled back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested type, bound to the current session.
	GetRepository(repoType reflect.Type) (any, error)

	WalletRepository() (WalletRepository, error)
	TransactionRepository() (TransactionRepository, error)
}
