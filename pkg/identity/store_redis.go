package identity

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "refresh:"

// RedisStore is a Redis-backed TokenStore. GETDEL claims a token in a
// single command, which gives the single-winner rotation guarantee across
// processes.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, token string, rec RefreshRecord, ttl time.Duration) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKeyPrefix+token, data, ttl).Err()
}

func (s *RedisStore) Take(ctx context.Context, token string) (RefreshRecord, error) {
	data, err := s.client.GetDel(ctx, redisKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return RefreshRecord{}, ErrTokenNotFound
		}
		return RefreshRecord{}, err
	}

	var rec RefreshRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return RefreshRecord{}, err
	}
	return rec, nil
}

func (s *RedisStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, redisKeyPrefix+token).Err()
}
