// Package memory is a process-local user store for development and tests.
// Data does not survive a restart.
package memory

import (
	"context"
	"sync"
	"time"

	"cyberauth/internal/domain/entity"
	domainerrors "cyberauth/internal/domain/errors"
	"cyberauth/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Store holds users indexed by id and by email. Units of work run one at a time under the
// write lock; plain repository reads share the read lock.
type Store struct {
	mu      sync.RWMutex
	byID    map[string]*entity.User
	byEmail map[string]string // email -> id

	now func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		byID:    make(map[string]*entity.User),
		byEmail: make(map[string]string),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// NewUserRepository returns a repository that locks the store per call.
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

// NewTransactionManager returns a unit-of-work runner over the store.
func NewTransactionManager(store *Store) repository.TransactionManager {
	return &transactionManager{store: store}
}

func (s *Store) findByID(id string) (*entity.User, bool) {
	user, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	clone := *user

	return &clone, true
}

func (s *Store) findByEmail(email string) (*entity.User, bool) {
	id, ok := s.byEmail[email]
	if !ok {
		return nil, false
	}

	return s.findByID(id)
}

// prepare validates a new user and fills its id and creation time. Callers hold the write lock.
func (s *Store) prepare(user *entity.User, pendingEmails map[string]struct{}) error {
	if user == nil {
		return domainerrors.ErrInvalidInput.WithDetails("user must not be nil")
	}
	if _, taken := s.byEmail[user.Email]; taken {
		return domainerrors.ErrDuplicateEmail.WrapMessage("email already exists")
	}
	if _, taken := pendingEmails[user.Email]; taken {
		return domainerrors.ErrDuplicateEmail.WrapMessage("email already exists")
	}

	if user.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return errors.Wrap(err, "failed to generate user id")
		}
		user.ID = id.String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}

	return nil
}

func (s *Store) insert(user *entity.User) {
	clone := *user
	s.byID[clone.ID] = &clone
	s.byEmail[clone.Email] = clone.ID
}

type userRepository struct {
	store *Store
}

func (repo *userRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	user, ok := repo.store.findByID(id)
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo.store.mu.RLock()
	defer repo.store.mu.RUnlock()

	user, ok := repo.store.findByEmail(email)
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return user, nil
}

func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	repo.store.mu.Lock()
	defer repo.store.mu.Unlock()

	if err := repo.store.prepare(user, nil); err != nil {
		return err
	}
	repo.store.insert(user)

	return nil
}
