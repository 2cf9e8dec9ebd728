package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T, opts ...Option) (Storage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s, err := Open(DriverRedis, append([]Option{WithRedisClient(client)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func backends(t *testing.T) map[string]Storage {
	t.Helper()

	mem, err := Open(DriverMemory)
	require.NoError(t, err)

	lite, err := Open(DriverSQLite, WithSQLitePath(filepath.Join(t.TempDir(), "state.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = lite.Close() })

	rds, _ := newRedis(t)

	return map[string]Storage{"memory": mem, "sqlite": lite, "redis": rds}
}

func TestStorageContract(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get(ctx, KeyAccessToken)
			require.NoError(t, err)
			assert.False(t, ok, "fresh storage must not hold a token")

			require.NoError(t, s.Set(ctx, KeyAccessToken, "a1"))
			require.NoError(t, s.Set(ctx, KeyAccessToken, "a2"))

			v, ok, err := s.Get(ctx, KeyAccessToken)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "a2", v)

			require.NoError(t, s.Remove(ctx, KeyAccessToken))
			require.NoError(t, s.Remove(ctx, KeyAccessToken), "removing an absent key is not an error")

			_, ok, err = s.Get(ctx, KeyAccessToken)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.db")

	s, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, KeyRefreshToken, "r1"))
	require.NoError(t, s.Close())

	reopened, err := NewSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get(ctx, KeyRefreshToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "r1", v)
}

func TestRedisPrefixAndTTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedis(t, WithRedisPrefix("tenant-a:"), WithRedisTTL(time.Hour))

	require.NoError(t, s.Set(ctx, KeyIdentity, `{"state":{}}`))
	assert.True(t, mr.Exists("tenant-a:"+KeyIdentity))
	assert.Equal(t, time.Hour, mr.TTL("tenant-a:"+KeyIdentity))

	mr.FastForward(2 * time.Hour)
	_, ok, err := s.Get(ctx, KeyIdentity)
	require.NoError(t, err)
	assert.False(t, ok, "expired key must read as absent")
}

func TestOpenRejectsBadConfig(t *testing.T) {
	_, err := Open(DriverSQLite)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Open(DriverRedis)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Open(Driver("etcd"))
	assert.ErrorIs(t, err, ErrInvalidDriver)
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := withRetry(ctx, "op", func() error {
		calls++
		if calls < 2 {
			return errors.New("SQLITE_BUSY: database is busy")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	err = withRetry(ctx, "op", func() error {
		calls++
		return errors.New("constraint failed")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "non-conflict errors are not retried")
}

func TestIsConflictError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("SQLITE_BUSY"), true},
		{errors.New("database is locked"), true},
		{errors.New("no such table"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isConflictError(tt.err), "%v", tt.err)
	}
}
