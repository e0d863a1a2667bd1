package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/anirudha4/bud.oneapp.studio/internal/core/model"
)

// RedisStore persists items in Redis: one JSON value per item plus id sets
// for the whole collection and per list.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func itemKey(id string) string {
	return fmt.Sprintf("item:%s", id)
}

func listKey(listName string) string {
	return fmt.Sprintf("items:list:%s", listName)
}

func (s *RedisStore) Save(ctx context.Context, item *model.Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}

	// An item may have moved between lists; drop the old membership first.
	if prev, err := s.Get(ctx, item.ID); err == nil && prev.ListName != item.ListName {
		if err := s.client.SRem(ctx, listKey(prev.ListName), item.ID).Err(); err != nil {
			return err
		}
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, itemKey(item.ID), data, 0)
	pipe.SAdd(ctx, "items", item.ID)
	pipe.SAdd(ctx, listKey(item.ListName), item.ID)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Get(ctx context.Context, id string) (*model.Item, error) {
	data, err := s.client.Get(ctx, itemKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var item model.Item
	if err := json.Unmarshal([]byte(data), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, itemKey(id))
	pipe.SRem(ctx, "items", id)
	pipe.SRem(ctx, listKey(item.ListName), id)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) List(ctx context.Context) ([]model.Item, error) {
	ids, err := s.client.SMembers(ctx, "items").Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Item{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, itemKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, err
	}

	items := make([]model.Item, 0, len(ids))
	for _, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, err
		}
		var item model.Item
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
