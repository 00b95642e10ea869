package curve

import (
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoint_Digest(t *testing.T) {
	assert.Equal(t, DigestIdentity, NewIdentityPoint().Digest())
	assert.Equal(t, DigestGenerator, NewBasePoint().Digest())
	assert.Equal(t, DigestGenerator, NewScalarUInt32(1).ActOnBase().Digest())

	X := NewScalarUInt32(2).ActOnBase()
	d := X.Digest()
	raw, err := base58.Decode(d)
	require.NoError(t, err)
	assert.Len(t, raw, digestSize)

	// G + G computed in Jacobian form must match 2⋅G
	G := NewBasePoint()
	Y := NewIdentityPoint().Add(G, G)
	assert.Equal(t, d, Y.Digest())
	assert.True(t, DigestEqual(X, Y))
	assert.False(t, DigestEqual(X, G))
	assert.False(t, DigestEqual(X, NewIdentityPoint()))
}
