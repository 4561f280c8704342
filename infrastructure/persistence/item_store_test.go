package persistence

import (
	"context"
	"testing"

	"github.com/helixml/hackai-log/domain/service"
	"github.com/helixml/hackai-log/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemStore_Get(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	testdb.Seed(t, db, map[string]string{
		PromptsKey: `[{"text":"hello","commandType":4}]`,
	})
	store := NewItemStore(db)

	value, err := store.Get(ctx, PromptsKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"text":"hello","commandType":4}]`, string(value))
}

func TestItemStore_GetMissing(t *testing.T) {
	ctx := context.Background()
	store := NewItemStore(testdb.New(t))

	_, err := store.Get(ctx, "aiService.generations")
	require.ErrorIs(t, err, service.ErrKeyNotFound)
}

func TestItemStore_GetNullValue(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	for _, stmt := range []string{
		"INSERT INTO ItemTable (key, value) VALUES ('aiService.prompts', NULL)",
		"INSERT INTO ItemTable (key, value) VALUES ('aiService.generations', '')",
	} {
		require.NoError(t, db.Session(ctx).Exec(stmt).Error)
	}
	store := NewItemStore(db)

	_, err := store.Get(ctx, "aiService.prompts")
	require.ErrorIs(t, err, service.ErrKeyNotFound)

	_, err = store.Get(ctx, "aiService.generations")
	require.ErrorIs(t, err, service.ErrKeyNotFound)
}

func TestItemStore_PutReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewItemStore(testdb.New(t))

	require.NoError(t, store.Put(ctx, "k", []byte("one")))
	require.NoError(t, store.Put(ctx, "k", []byte("two")))

	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "two", string(value))
}

func TestItemStore_Keys(t *testing.T) {
	ctx := context.Background()
	db := testdb.New(t)
	testdb.Seed(t, db, map[string]string{
		"aiService.prompts":     "[]",
		"aiService.generations": "[]",
		"composer.composerData": "{}",
	})
	store := NewItemStore(db)

	keys, err := store.Keys(ctx, "aiService.")
	require.NoError(t, err)
	assert.Equal(t, []string{"aiService.generations", "aiService.prompts"}, keys)

	all, err := store.Keys(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
