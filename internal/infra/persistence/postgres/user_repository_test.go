package postgres

import (
	"testing"
	"time"

	"cyberauth/internal/domain/entity"
	domainerrors "cyberauth/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserMapper_RoundTrip(t *testing.T) {
	id := uuid.Must(uuid.NewV7())
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	user := &entity.User{
		ID:           id.String(),
		Name:         "Alice",
		Email:        "a@x.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:         entity.RoleITStaff,
		CreatedAt:    created,
	}

	userM, err := fromUserDomain(user)
	require.NoError(t, err)
	assert.Equal(t, id, userM.ID)
	assert.Equal(t, "it_staff", userM.Role)

	assert.Equal(t, user, toUserDomain(userM))
}

func TestUserMapper_EmptyIDLeftForHook(t *testing.T) {
	userM, err := fromUserDomain(&entity.User{Name: "Bob", Email: "b@x.com", Role: entity.RoleSecurityManager})
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, userM.ID)

	require.NoError(t, userM.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, userM.ID)
	assert.Equal(t, uuid.Version(7), userM.ID.Version())
}

func TestUserMapper_RejectsInvalidInput(t *testing.T) {
	_, err := fromUserDomain(nil)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidInput))

	_, err = fromUserDomain(&entity.User{ID: "not-a-uuid"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidInput))

	assert.Nil(t, toUserDomain(nil))
}
