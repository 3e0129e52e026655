package tests

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/cache"
	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/config"
	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/models"
)

func newCache(t *testing.T) (*cache.SearchCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.NewSearchCache(rdb, time.Minute), mr
}

// Промах, потом попадание; регистр запроса не важен, пробелы важны
func TestSearchCache_Users_MissThenHit(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	require.Zero(t, gen)

	_, ok, err := c.GetUsers(ctx, gen, "neo")
	require.NoError(t, err)
	require.False(t, ok)

	want := []models.User{{ID: 1, Nickname: "neo", Fullname: "Thomas", Email: "neo@matrix.io"}}
	require.NoError(t, c.SetUsers(ctx, gen, "neo", want))

	got, ok, err := c.GetUsers(ctx, gen, "NEO")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)

	_, ok, err = c.GetUsers(ctx, gen, " neo ")
	require.NoError(t, err)
	require.False(t, ok)
}

// Пустая выдача тоже кешируется
func TestSearchCache_Projects_EmptyResultIsHit(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetProjects(ctx, 0, "zion", []models.Project{}))

	got, ok, err := c.GetProjects(ctx, 0, "zion")
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, got)
}

func TestSearchCache_Invalidate(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetUsers(ctx, 0, "a", []models.User{{ID: 1}}))
	require.NoError(t, c.SetProjects(ctx, 0, "b", []models.Project{{ID: 2, AuthorsIDs: []int64{1}}}))
	require.NoError(t, mr.Set("unrelated", "keep"))

	require.NoError(t, c.Invalidate(ctx))

	_, ok, err := c.GetUsers(ctx, 0, "a")
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = c.GetProjects(ctx, 0, "b")
	require.NoError(t, err)
	require.False(t, ok)

	require.True(t, mr.Exists("unrelated"))
}

// Каждая инвалидация увеличивает поколение, счётчик не удаляется SCAN-ом
func TestSearchCache_Invalidate_BumpsGeneration(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Invalidate(ctx))
	require.NoError(t, c.Invalidate(ctx))

	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), gen)
	require.True(t, mr.Exists("projecthub:searchgen"))
}

// Запись со старым поколением после инвалидации не читается
func TestSearchCache_LateWriteWithOldGeneration(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	old, err := c.Generation(ctx)
	require.NoError(t, err)

	require.NoError(t, c.Invalidate(ctx))
	require.NoError(t, c.SetUsers(ctx, old, "neo", []models.User{{ID: 1}}))

	cur, err := c.Generation(ctx)
	require.NoError(t, err)
	require.NotEqual(t, old, cur)

	_, ok, err := c.GetUsers(ctx, cur, "neo")
	require.NoError(t, err)
	require.False(t, ok)
}

// Сломанный счётчик поколения отдаётся как ошибка
func TestSearchCache_Generation_BadValue(t *testing.T) {
	c, mr := newCache(t)
	require.NoError(t, mr.Set("projecthub:searchgen", "abc"))

	_, err := c.Generation(context.Background())
	require.Error(t, err)
}

// Ключи истекают по TTL
func TestSearchCache_TTL(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetUsers(ctx, 0, "x", []models.User{{ID: 1}}))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.GetUsers(ctx, 0, "x")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	rdb, err := cache.NewRedisClient(context.Background(), config.CacheConfig{Addr: addr})
	require.NoError(t, err)
	require.NoError(t, rdb.Close())

	mr.Close()
	_, err = cache.NewRedisClient(context.Background(), config.CacheConfig{Addr: addr})
	require.Error(t, err)
}
