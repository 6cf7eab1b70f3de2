package mongodb

import (
	"context"

	"cyberauth/internal/domain/repository"

	"go.mongodb.org/mongo-driver/mongo"
)

// collectionTransactionManager runs units of work against the users collection. Registration
// is a single insert guarded by the unique email index, so no multi-document session is opened
// and the store also works against standalone servers.
type collectionTransactionManager struct {
	users repository.UserRepository
}

type collectionRepositoryFactory struct {
	users repository.UserRepository
}

func (f *collectionRepositoryFactory) UserRepo() repository.UserRepository {
	return f.users
}

// NewTransactionManager is the fx provider for the Mongo unit-of-work.
func NewTransactionManager(collection *mongo.Collection) repository.TransactionManager {
	return &collectionTransactionManager{users: NewUserRepository(collection)}
}

func (tm *collectionTransactionManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return fn(&collectionRepositoryFactory{users: tm.users})
}
