package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	k1 := Key("Backend Engineer")
	k2 := Key("  Backend Engineer\n")
	k3 := Key("Frontend Engineer")

	assert.Equal(t, k1, k2, "surrounding whitespace must not change the key")
	assert.NotEqual(t, k1, k3)
	assert.True(t, strings.HasPrefix(k1, KeyPrefix))
	assert.Len(t, strings.TrimPrefix(k1, KeyPrefix), 64)
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, found, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, m.Set(ctx, "k", "Primary Technical Skills: Go"))

	digest, found, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Primary Technical Skills: Go", digest)
	assert.Equal(t, 1, m.Len())
}

func TestRedisUnavailableBypasses(t *testing.T) {
	ctx := context.Background()

	// Nothing listens on port 1.
	r := NewRedis(ctx, "127.0.0.1:1", time.Minute, zerolog.Nop())
	assert.False(t, r.Available())

	require.NoError(t, r.Set(ctx, "k", "digest"))

	_, found, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, r.Close())
}

func TestCachesSatisfyInterface(t *testing.T) {
	var _ DigestCache = NewMemory()
	var _ DigestCache = &Redis{}
}
