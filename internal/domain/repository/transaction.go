package repository

import "context"

// TransactionManager defines the interface for managing storage transactions.
// This allows the use case layer to handle transactions without depending on a specific driver.
type TransactionManager interface {
	// Execute runs a function within a transaction.
	// If the function returns an error, the transaction is rolled back. Otherwise, it's committed.
	// All repository operations within the function will use the same transaction.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides repository instances that are bound to a specific transaction.
type RepositoryFactory interface {
	// UserRepo returns a UserRepository instance bound to the current transaction.
	UserRepo() UserRepository
}
