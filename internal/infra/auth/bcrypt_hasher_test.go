package auth

import (
	"strings"
	"testing"

	"cyberauth/config"
	domainerrors "cyberauth/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Lowest cost keeps the suite fast; the algorithm is identical at every cost.
func newTestHasher() *bcryptHasher {
	return &bcryptHasher{cost: bcrypt.MinCost}
}

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := newTestHasher()

	passwords := []string{"secret1", "Pässphräse123!", "      ", strings.Repeat("x", 72)}
	for _, password := range passwords {
		hash, err := hasher.Hash(password)
		require.NoError(t, err)
		assert.NotEqual(t, password, hash)

		ok, err := hasher.Check(password, hash)
		require.NoError(t, err)
		assert.True(t, ok, "password %q must verify against its own hash", password)
	}
}

func TestBcryptHasher_HashIsSalted(t *testing.T) {
	hasher := newTestHasher()

	first, err := hasher.Hash("secret1")
	require.NoError(t, err)
	second, err := hasher.Hash("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "two hashes of the same password must differ")

	for _, hash := range []string{first, second} {
		ok, err := hasher.Check("secret1", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestBcryptHasher_DifferentPasswords(t *testing.T) {
	hasher := newTestHasher()

	hash1, err := hasher.Hash("secret1")
	require.NoError(t, err)
	hash2, err := hasher.Hash("secret2")
	require.NoError(t, err)
	assert.NotEqual(t, hash1, hash2)

	ok, err := hasher.Check("secret2", hash1)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = hasher.Check("", hash1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBcryptHasher_InvalidInput(t *testing.T) {
	hasher := newTestHasher()

	_, err := hasher.Hash("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidInput))

	_, err = hasher.Hash(strings.Repeat("x", 73))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidInput))
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	hasher := newTestHasher()

	valid, err := hasher.Hash("secret1")
	require.NoError(t, err)

	malformed := []string{
		"",
		"invalid_hash",
		"5f4dcc3b5aa765d61d8327deb882cf99", // unsalted md5
		"#" + valid[1:],                    // wrong prefix
		strings.Replace(valid, "$04$", "$99$", 1),                  // cost out of range
		valid[:len(valid)/2],                                       // truncated
		"$2a$04$" + strings.Repeat("!", len(valid)-len("$2a$04$")), // not bcrypt base64
	}

	for _, hash := range malformed {
		ok, err := hasher.Check("secret1", hash)
		assert.False(t, ok)
		require.Error(t, err, "hash %q", hash)
		assert.True(t, errors.Is(err, domainerrors.ErrMalformedHash), "hash %q: %v", hash, err)
	}
}

func TestBcryptHasher_CostFromConfig(t *testing.T) {
	cfg := &config.Config{Auth: &config.AuthConfig{BcryptCost: 6}}
	hasher := NewBcryptHasher(cfg)

	hash, err := hasher.Hash("secret1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 6, cost)

	defaultHasher := NewBcryptHasher(&config.Config{})
	assert.Equal(t, bcrypt.DefaultCost, defaultHasher.(*bcryptHasher).cost)
}
