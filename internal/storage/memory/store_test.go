package memory

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

var baseTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// seed inserts n pools; pool i is created i minutes after baseTime.
func seed(t *testing.T, s *Store, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		p := &model.Pool{
			ID:        fmt.Sprintf("pool-%03d", i),
			Address:   fmt.Sprintf("0x%040d", i),
			Token:     "0xTOK",
			Symbol:    "USDC",
			CreatedAt: baseTime.Add(time.Duration(i) * time.Minute),
		}
		if i%2 == 0 {
			p.Dex = "pancake"
		}
		require.NoError(t, s.Insert(context.Background(), p))
	}
}

func TestStore_InsertAndGet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	p := &model.Pool{ID: "a", Address: "0xA", Token: "0xT", Symbol: "USDC", CreatedAt: baseTime}
	require.NoError(t, s.Insert(ctx, p))

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, *p, *got)

	got.Symbol = "MUTATED"
	again, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "USDC", again.Symbol)
}

func TestStore_InsertDuplicate(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, &model.Pool{ID: "a"}))
	assert.ErrorIs(t, s.Insert(ctx, &model.Pool{ID: "a"}), storage.ErrDuplicateKey)
}

func TestStore_GetMissing(t *testing.T) {
	_, err := NewStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_ReplaceTouchesOnlyTarget(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seed(t, s, 3)

	before, err := s.Get(ctx, "pool-001")
	require.NoError(t, err)

	updated, err := s.Replace(ctx, &model.Pool{
		ID:        "pool-002",
		Address:   "0xNEW",
		Token:     "0xNEWTOK",
		Symbol:    "WBNB",
		CreatedAt: baseTime.Add(time.Hour),
		UpdatedAt: baseTime.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "0xNEW", updated.Address)
	assert.Empty(t, updated.Dex)
	assert.Equal(t, baseTime.Add(2*time.Minute), updated.CreatedAt, "created_at is immutable")

	after, err := s.Get(ctx, "pool-001")
	require.NoError(t, err)
	assert.Equal(t, *before, *after)
}

func TestStore_ReplaceMissing(t *testing.T) {
	_, err := NewStore().Replace(context.Background(), &model.Pool{ID: "missing"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_DeleteRemovesExactlyOne(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seed(t, s, 5)

	deleted, err := s.Delete(ctx, "pool-003")
	require.NoError(t, err)
	assert.Equal(t, "pool-003", deleted.ID)

	ids, err := s.ListIDs(ctx, storage.ListQuery{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, ids, 4)
	assert.NotContains(t, ids, "pool-003")

	_, err = s.Delete(ctx, "pool-003")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_ListIDsOrderAndPagination(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seed(t, s, 35)

	ids, err := s.ListIDs(ctx, storage.ListQuery{Limit: 10, Offset: 20})
	require.NoError(t, err)
	require.Len(t, ids, 10)
	// newest is pool-035; positions 21..30 are pool-015..pool-006
	assert.Equal(t, "pool-015", ids[0])
	assert.Equal(t, "pool-006", ids[9])

	again, err := s.ListIDs(ctx, storage.ListQuery{Limit: 10, Offset: 20})
	require.NoError(t, err)
	assert.Equal(t, ids, again)

	tail, err := s.ListIDs(ctx, storage.ListQuery{Limit: 10, Offset: 30})
	require.NoError(t, err)
	assert.Equal(t, []string{"pool-005", "pool-004", "pool-003", "pool-002", "pool-001"}, tail)

	empty, err := s.ListIDs(ctx, storage.ListQuery{Limit: 10, Offset: 40})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStore_ListIDsFilter(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seed(t, s, 6)

	ids, err := s.ListIDs(ctx, storage.ListQuery{
		Filter: model.PoolFilter{Dex: "pancake"},
		Limit:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"pool-006", "pool-004", "pool-002"}, ids)
}

func TestStore_ListIDsTieBreak(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	for _, id := range []string{"b", "a", "c"} {
		require.NoError(t, s.Insert(ctx, &model.Pool{ID: id, CreatedAt: baseTime}))
	}

	ids, err := s.ListIDs(ctx, storage.ListQuery{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids)
}
