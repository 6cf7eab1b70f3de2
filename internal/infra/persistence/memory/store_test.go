package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"cyberauth/internal/domain/entity"
	domainerrors "cyberauth/internal/domain/errors"
	"cyberauth/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(email string) *entity.User {
	return &entity.User{
		Name:         "Player",
		Email:        email,
		PasswordHash: "$2a$10$hash",
		Role:         entity.RoleCorporateEmployee,
	}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())

	user := newUser("a@x.com")
	require.NoError(t, repo.Create(ctx, user))

	id, err := uuid.Parse(user.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.False(t, user.CreatedAt.IsZero())

	byEmail, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, user, byEmail)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user, byID)
}

func TestUserRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())

	_, err := repo.FindByEmail(ctx, "nobody@x.com")
	assert.True(t, errors.Is(err, repository.ErrUserNotFound))

	_, err = repo.FindByID(ctx, "missing")
	assert.True(t, errors.Is(err, repository.ErrUserNotFound))
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())

	require.NoError(t, repo.Create(ctx, newUser("a@x.com")))

	err := repo.Create(ctx, newUser("a@x.com"))
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateEmail))
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())

	user := newUser("a@x.com")
	require.NoError(t, repo.Create(ctx, user))
	user.Name = "Mutated"

	found, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Player", found.Name)
}

func TestTransactionManager_CommitAndRollback(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	tm := NewTransactionManager(store)
	repo := NewUserRepository(store)

	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		if err := f.UserRepo().Create(ctx, newUser("kept@x.com")); err != nil {
			return err
		}

		// Staged writes are visible inside the unit of work.
		_, err := f.UserRepo().FindByEmail(ctx, "kept@x.com")

		return err
	})
	require.NoError(t, err)

	_, err = repo.FindByEmail(ctx, "kept@x.com")
	assert.NoError(t, err)

	boom := errors.New("boom")
	err = tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		require.NoError(t, f.UserRepo().Create(ctx, newUser("dropped@x.com")))

		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.FindByEmail(ctx, "dropped@x.com")
	assert.True(t, errors.Is(err, repository.ErrUserNotFound))
}

func TestTransactionManager_DuplicateWithinUnit(t *testing.T) {
	ctx := context.Background()
	tm := NewTransactionManager(NewStore())

	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		if err := f.UserRepo().Create(ctx, newUser("a@x.com")); err != nil {
			return err
		}

		return f.UserRepo().Create(ctx, newUser("a@x.com"))
	})
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateEmail))
}

func TestTransactionManager_ConcurrentRegistrationsSameEmail(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	tm := NewTransactionManager(store)

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
				if _, err := f.UserRepo().FindByEmail(ctx, "race@x.com"); err == nil {
					return domainerrors.ErrDuplicateEmail
				}

				return f.UserRepo().Create(ctx, newUser("race@x.com"))
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
}

func TestUserRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := NewUserRepository(NewStore())
	assert.ErrorIs(t, repo.Create(ctx, newUser("a@x.com")), context.Canceled)

	tm := NewTransactionManager(NewStore())
	err := tm.Execute(ctx, func(repository.RepositoryFactory) error {
		return fmt.Errorf("must not run")
	})
	assert.ErrorIs(t, err, context.Canceled)
}
