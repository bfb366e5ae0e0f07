package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"cantinho/testing/testredis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store TokenStore) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, store.Save(ctx, "tok-1"))
	token, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	require.NoError(t, store.Save(ctx, "tok-2"))
	token, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)

	require.NoError(t, store.Delete(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrNoToken)
	require.NoError(t, store.Delete(ctx))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cantinho", "session.json")
	exerciseStore(t, NewFileStore(path))

	require.NoError(t, NewFileStore(path).Save(context.Background(), "abc"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"@CantinhoDoSaber:token":"abc"}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRedisStoreWithContainer(t *testing.T) {
	redisContainer := testredis.SetupSharedRedis(t)
	defer redisContainer.Cleanup(t)

	client := redisContainer.Client(t)
	exerciseStore(t, NewRedisStore(client))

	require.NoError(t, NewRedisStore(client).Save(context.Background(), "abc"))
	raw, err := client.Get(context.Background(), TokenKey).Result()
	require.NoError(t, err)
	assert.Equal(t, "abc", raw)
}
