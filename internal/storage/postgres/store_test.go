package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poolRegistry/internal/model"
	"poolRegistry/internal/storage"
)

func TestBuildFilter(t *testing.T) {
	where, args := buildFilter(model.PoolFilter{})
	if where != "" || len(args) != 0 {
		t.Fatalf("empty filter: got %q %v", where, args)
	}

	where, args = buildFilter(model.PoolFilter{Address: "0xA", Dex: "pancake"})
	if where != "WHERE address = $1 AND dex = $2" {
		t.Fatalf("unexpected where clause: %q", where)
	}
	if len(args) != 2 || args[0] != "0xA" || args[1] != "pancake" {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestStore_CRUD(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	p := &model.Pool{
		ID:        "pool-1",
		Address:   "0x1111111111111111111111111111111111111111",
		Token:     "0x2222222222222222222222222222222222222222",
		Symbol:    "USDC",
		Dex:       "pancake",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.Insert(ctx, p))
	assert.ErrorIs(t, store.Insert(ctx, p), storage.ErrDuplicateKey)

	got, err := store.Get(ctx, "pool-1")
	require.NoError(t, err)
	assert.Equal(t, *p, *got)

	replaced, err := store.Replace(ctx, &model.Pool{
		ID:        "pool-1",
		Address:   p.Address,
		Token:     p.Token,
		Symbol:    "WBNB",
		CreatedAt: now.Add(time.Hour),
		UpdatedAt: now.Add(time.Minute),
	})
	require.NoError(t, err)
	assert.Equal(t, "WBNB", replaced.Symbol)
	assert.Empty(t, replaced.Dex)
	assert.Equal(t, now, replaced.CreatedAt)
	assert.Equal(t, now.Add(time.Minute), replaced.UpdatedAt)

	_, err = store.Replace(ctx, &model.Pool{ID: "missing"})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	deleted, err := store.Delete(ctx, "pool-1")
	require.NoError(t, err)
	assert.Equal(t, "WBNB", deleted.Symbol)

	_, err = store.Get(ctx, "pool-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.Delete(ctx, "pool-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_ListIDs(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 1; i <= 30; i++ {
		dex := ""
		if i%3 == 0 {
			dex = "uni"
		}
		require.NoError(t, store.Insert(ctx, &model.Pool{
			ID:        fmt.Sprintf("pool-%03d", i),
			Address:   fmt.Sprintf("0x%040d", i),
			Token:     "0xT",
			Symbol:    "USDC",
			Dex:       dex,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
			UpdatedAt: base,
		}))
	}

	ids, err := store.ListIDs(ctx, storage.ListQuery{Limit: 5, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"pool-020", "pool-019", "pool-018", "pool-017", "pool-016"}, ids)

	ids, err = store.ListIDs(ctx, storage.ListQuery{Filter: model.PoolFilter{Dex: "uni"}, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"pool-030", "pool-027", "pool-024"}, ids)

	ids, err = store.ListIDs(ctx, storage.ListQuery{Limit: 5, Offset: 100})
	require.NoError(t, err)
	assert.Empty(t, ids)
}
