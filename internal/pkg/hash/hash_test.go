package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashers(t *testing.T) {
	hmac, err := NewHMACSHA256(testHMACKey("s"))
	require.NoError(t, err)

	hashers := map[string]Hash{
		"bcrypt":   NewBcrypt(bcrypt.MinCost, "pepper"),
		"argon2id": NewArgon2id("pepper"),
		"hmac":     hmac,
	}

	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			hashed, err := h.Hash("s3cret-pass")
			require.NoError(t, err)
			assert.NotEqual(t, "s3cret-pass", string(hashed))

			assert.True(t, h.Verify(string(hashed), "s3cret-pass"))
			assert.False(t, h.Verify(string(hashed), "wrong"))
			assert.False(t, h.Verify("", "s3cret-pass"))
		})
	}
}

func TestPepperMatters(t *testing.T) {
	hashed, err := NewBcrypt(bcrypt.MinCost, "one").Hash("password")
	require.NoError(t, err)

	assert.False(t, NewBcrypt(bcrypt.MinCost, "two").Verify(string(hashed), "password"))
}

func TestHMACDeterministic(t *testing.T) {
	h, err := NewHMACSHA256(testHMACKey("k"))
	require.NoError(t, err)
	a, _ := h.Hash("123456")
	b, _ := h.Hash("123456")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	o, err := NewHMACSHA256(testHMACKey("o"))
	require.NoError(t, err)
	other, _ := o.Hash("123456")
	assert.NotEqual(t, a, other)
}

func TestHMACRejectsShortKey(t *testing.T) {
	for _, key := range [][]byte{nil, []byte(""), []byte("short"), testHMACKey("k")[:MinHMACKeyLen-1]} {
		h, err := NewHMACSHA256(key)
		assert.ErrorIs(t, err, ErrShortKey)
		assert.Nil(t, h)
	}
}

func testHMACKey(fill string) []byte {
	return []byte(strings.Repeat(fill, MinHMACKeyLen))
}
