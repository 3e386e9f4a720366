package uid

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnowflake(t *testing.T) {
	_, err := NewSnowflake(1 << 12)
	require.Error(t, err)

	s, err := NewSnowflake(1)
	require.NoError(t, err)

	a, b := s.Generate(), s.Generate()
	assert.Positive(t, a)
	assert.Greater(t, b, a)
}

func TestUUID(t *testing.T) {
	id, err := uuid.Parse(NewUUID().Generate())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
}

func TestToken(t *testing.T) {
	a, b := NewToken().Generate(), NewToken().Generate()
	assert.Len(t, a, 43)
	assert.NotEqual(t, a, b)
}
