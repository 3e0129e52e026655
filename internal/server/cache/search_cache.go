// Package cache — кеш результатов поиска в Redis.
//
// Ключи содержат номер поколения. Любая запись в пользователей или проекты
// увеличивает поколение, поэтому выдача, посчитанная до записи, попадает
// под старый номер и больше не читается.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/config"
	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/server/models"
)

const (
	keyPrefix   = "projecthub:search:"
	keyUsers    = keyPrefix + "users:"
	keyProjects = keyPrefix + "projects:"
	// не попадает под keyPrefix+"*", Invalidate его не удаляет
	keyGeneration = "projecthub:searchgen"
)

// SearchCache хранит выдачу поиска пользователей и проектов.
type SearchCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSearchCache создаёт кеш поверх готового клиента.
func NewSearchCache(rdb *redis.Client, ttl time.Duration) *SearchCache {
	return &SearchCache{rdb: rdb, ttl: ttl}
}

// NewRedisClient подключается к Redis и проверяет соединение.
func NewRedisClient(ctx context.Context, cfg config.CacheConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// Generation возвращает текущее поколение кеша. Читать до похода в БД.
func (c *SearchCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, keyGeneration).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *SearchCache) GetUsers(ctx context.Context, gen int64, q string) ([]models.User, bool, error) {
	var list []models.User
	ok, err := c.get(ctx, entryKey(keyUsers, gen, q), &list)
	return list, ok, err
}

func (c *SearchCache) SetUsers(ctx context.Context, gen int64, q string, users []models.User) error {
	return c.set(ctx, entryKey(keyUsers, gen, q), users)
}

func (c *SearchCache) GetProjects(ctx context.Context, gen int64, q string) ([]models.Project, bool, error) {
	var list []models.Project
	ok, err := c.get(ctx, entryKey(keyProjects, gen, q), &list)
	return list, ok, err
}

func (c *SearchCache) SetProjects(ctx context.Context, gen int64, q string, projects []models.Project) error {
	return c.set(ctx, entryKey(keyProjects, gen, q), projects)
}

// Invalidate увеличивает поколение и удаляет ключи поиска.
//
// Ключ, записанный после INCR со старым поколением, доживает до TTL,
// но его уже никто не читает.
func (c *SearchCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, keyGeneration).Err(); err != nil {
		return err
	}

	iter := c.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *SearchCache) get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *SearchCache) set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

func entryKey(prefix string, gen int64, q string) string {
	return prefix + strconv.FormatInt(gen, 10) + ":" + strings.ToLower(q)
}
