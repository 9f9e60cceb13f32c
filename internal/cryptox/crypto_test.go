package cryptox

import (
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastParams = Params{Memory: 64, Time: 1, Threads: 1, SaltLen: 8, KeyLen: 16}

func TestHashAndVerify(t *testing.T) {
	h, err := HashPassword([]byte("admin"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(h, "$argon2id$v=19$m=19456,t=2,p=1$"))

	ok, err := VerifyPassword(h, []byte("admin"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(h, []byte("Admin"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHash_SaltIsRandom(t *testing.T) {
	a, err := hashWith([]byte("pw"), fastParams)
	require.NoError(t, err)
	b, err := hashWith([]byte("pw"), fastParams)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	ok, err := VerifyPassword(a, []byte("pw"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHash_EmptyPassword(t *testing.T) {
	_, err := HashPassword(nil)
	require.True(t, errors.Is(err, common.ErrorValidation))
}

func TestVerify_Malformed(t *testing.T) {
	for _, h := range []string{
		"",
		"plain",
		"$argon2i$v=19$m=64,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=18$m=64,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=64,t=1,p=1$!!$a2V5",
		"$argon2id$v=19$m=64,t=1,p=1$c2FsdA$",
	} {
		ok, err := VerifyPassword(h, []byte("pw"))
		assert.False(t, ok, h)
		assert.ErrorIs(t, err, ErrMalformedHash, h)
	}
}
