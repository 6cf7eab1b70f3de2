package memory

import (
	"context"

	"cyberauth/internal/domain/entity"
	"cyberauth/internal/domain/repository"
)

type transactionManager struct {
	store *Store
}

// Execute holds the store's write lock for the whole of fn. Writes are staged and applied
// only when fn returns nil.
func (tm *transactionManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tm.store.mu.Lock()
	defer tm.store.mu.Unlock()

	tx := &txRepository{
		store:   tm.store,
		pending: make(map[string]*entity.User),
		emails:  make(map[string]struct{}),
	}

	if err := fn(tx); err != nil {
		return err
	}

	for _, user := range tx.order {
		tm.store.insert(user)
	}

	return nil
}

// txRepository is both the RepositoryFactory and the UserRepository of one unit of work.
type txRepository struct {
	store   *Store
	pending map[string]*entity.User // id -> staged user
	emails  map[string]struct{}
	order   []*entity.User
}

func (tx *txRepository) UserRepo() repository.UserRepository {
	return tx
}

func (tx *txRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	if user, ok := tx.pending[id]; ok {
		clone := *user

		return &clone, nil
	}
	if user, ok := tx.store.findByID(id); ok {
		return user, nil
	}

	return nil, repository.ErrUserNotFound
}

func (tx *txRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range tx.order {
		if user.Email == email {
			clone := *user

			return &clone, nil
		}
	}
	if user, ok := tx.store.findByEmail(email); ok {
		return user, nil
	}

	return nil, repository.ErrUserNotFound
}

func (tx *txRepository) Create(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := tx.store.prepare(user, tx.emails); err != nil {
		return err
	}

	clone := *user
	tx.pending[clone.ID] = &clone
	tx.emails[clone.Email] = struct{}{}
	tx.order = append(tx.order, &clone)

	return nil
}
