package impl

import (
	"context"
	"sync"
	"testing"
	"time"

	"cyberauth/config"
	"cyberauth/internal/domain/entity"
	domainerrors "cyberauth/internal/domain/errors"
	"cyberauth/internal/infra/auth"
	"cyberauth/internal/infra/persistence/memory"
	"cyberauth/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newScenarioService wires the real codec, issuer and in-memory store behind a controllable clock.
func newScenarioService(t *testing.T, clock *time.Time) *userService {
	t.Helper()

	tokens, err := auth.NewJWTService(&config.Config{
		JWT: config.JWTConfig{
			Secret:                   "scenario-secret-key",
			Algorithm:                "HS256",
			AccessTokenExpireMinutes: 1440,
		},
	})
	require.NoError(t, err)

	store := memory.NewStore()

	return newUserService(UserServiceParams{
		TxManager:    memory.NewTransactionManager(store),
		UserRepo:     memory.NewUserRepository(store),
		Hasher:       auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		TokenService: tokens,
		Logger:       newDiscardLogger(),
	}, func() time.Time { return *clock })
}

func TestUserService_RegisterLoginScenario(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	srv := newScenarioService(t, &now)

	registered, err := srv.Register(ctx, &usecase.RegisterInput{
		Name:     "A",
		Email:    "a@x.com",
		Password: "secret1",
		Role:     entity.RoleITStaff,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.User.ID)
	assert.Equal(t, entity.RoleITStaff, registered.User.Role)
	assert.NotEqual(t, "secret1", registered.User.PasswordHash)

	subject, err := srv.tokenService.Validate(registered.Token, now)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", subject)

	loggedIn, err := srv.Login(ctx, &usecase.LoginInput{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	me, err := srv.Authenticate(ctx, loggedIn.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.Public(), me.Public())

	_, err = srv.Login(ctx, &usecase.LoginInput{Email: "a@x.com", Password: "wrong"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	_, err = srv.Login(ctx, &usecase.LoginInput{Email: "nobody@x.com", Password: "secret1"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))

	_, err = srv.Register(ctx, &usecase.RegisterInput{
		Name:     "B",
		Email:    "A@X.com",
		Password: "another1",
		Role:     entity.RoleUniversityStudent,
	})
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateEmail))

	now = fixedNow.Add(24*time.Hour + time.Second)
	_, err = srv.Authenticate(ctx, loggedIn.Token)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenExpired))
}

func TestUserService_ConcurrentRegistrationSameEmail(t *testing.T) {
	ctx := context.Background()
	now := fixedNow
	srv := newScenarioService(t, &now)

	const attempts = 8
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		succeeded  int
		duplicates int
	)

	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := srv.Register(ctx, &usecase.RegisterInput{
				Name:     "Racer",
				Email:    "race@x.com",
				Password: "secret1",
				Role:     entity.RoleSecurityManager,
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domainerrors.ErrDuplicateEmail):
				duplicates++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, duplicates)
}
