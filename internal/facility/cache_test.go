package facility

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_Active(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cache := NewRedisCache(rdb, time.Minute)
	ctx := context.Background()

	want := []Facility{{ID: 1, Name: "Futsal Court A", Type: TypeFutsal, Equipment: pq.StringArray{"Goals"}}}
	data, err := json.Marshal(want)
	require.NoError(t, err)

	mock.ExpectGet(activeCatalogueKey).SetVal(string(data))

	got, err := cache.Active(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Futsal Court A", got[0].Name)
	assert.Equal(t, pq.StringArray{"Goals"}, got[0].Equipment)

	mock.ExpectGet(activeCatalogueKey).RedisNil()
	_, err = cache.Active(ctx)
	assert.ErrorIs(t, err, ErrCacheMiss)

	mock.ExpectGet(activeCatalogueKey).SetErr(assert.AnError)
	_, err = cache.Active(ctx)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_StoreAndInvalidate(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	cache := NewRedisCache(rdb, 30*time.Second)
	ctx := context.Background()

	facilities := []Facility{{ID: 2, Name: "Badminton Court 3"}}
	data, err := json.Marshal(facilities)
	require.NoError(t, err)

	mock.ExpectSet(activeCatalogueKey, data, 30*time.Second).SetVal("OK")
	require.NoError(t, cache.StoreActive(ctx, facilities))

	mock.ExpectDel(activeCatalogueKey).SetVal(1)
	require.NoError(t, cache.Invalidate(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNopCache(t *testing.T) {
	c := NopCache()
	_, err := c.Active(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, c.StoreActive(context.Background(), nil))
	assert.NoError(t, c.Invalidate(context.Background()))
}
