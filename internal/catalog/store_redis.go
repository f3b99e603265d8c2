package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisKey = "cafe:menu"

// RedisStore keeps the snapshot as a Redis list of JSON-encoded records,
// one element per item in catalog order. An empty catalog is stored as an
// absent key.
type RedisStore struct {
	Client *redis.Client
	Key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{Client: client, Key: key}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.Client.Ping(ctx).Err()
	})
}

func (s *RedisStore) Load(ctx context.Context) ([]MenuItem, bool, error) {
	var raw []string

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		var err error
		raw, err = s.Client.LRange(ctx, s.Key, 0, -1).Result()
		return err
	})
	if err != nil {
		return nil, false, err
	}
	if len(raw) == 0 {
		return nil, false, nil
	}

	out := make([]MenuItem, 0, len(raw))
	for i, v := range raw {
		var r Record
		if err := json.Unmarshal([]byte(v), &r); err != nil {
			return nil, false, fmt.Errorf("%s[%d]: %w", s.Key, i, err)
		}
		it, err := FromRecord(r)
		if err != nil {
			return nil, false, fmt.Errorf("%s[%d]: %w", s.Key, i, err)
		}
		out = append(out, it)
	}
	return out, true, nil
}

func (s *RedisStore) Save(ctx context.Context, items []MenuItem) error {
	values := make([]any, 0, len(items))
	for _, it := range items {
		b, err := json.Marshal(ToRecord(it))
		if err != nil {
			return err
		}
		values = append(values, string(b))
	}

	return withTimeout(ctx, saveTimeout, func(ctx context.Context) error {
		_, err := s.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Del(ctx, s.Key)
			if len(values) > 0 {
				p.RPush(ctx, s.Key, values...)
			}
			return nil
		})
		return err
	})
}
