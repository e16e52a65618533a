package genstore

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisGenStore shares the generation registry across processes, so several
// replicas agree on the current generation and a newly activated replica
// purges entries written by the others.
//
// Keys (under the configured namespace):
//
//	<ns>:labels       - SET of registered labels
//	<ns>:current      - STRING, the promoted label
//	<ns>:gen:<label>  - SET of member storage keys
type RedisGenStore struct {
	rdb redis.UniversalClient
	ns  string
}

var _ GenStore = (*RedisGenStore)(nil)

// NewRedisGenStore creates a Redis-backed registry. namespace isolates
// multiple deployments sharing one Redis.
func NewRedisGenStore(client redis.UniversalClient, namespace string) *RedisGenStore {
	return &RedisGenStore{rdb: client, ns: namespace}
}

func (s *RedisGenStore) labelsKey() string            { return s.ns + ":labels" }
func (s *RedisGenStore) currentKey() string           { return s.ns + ":current" }
func (s *RedisGenStore) membersKey(label string) string { return s.ns + ":gen:" + label }

func (s *RedisGenStore) Register(ctx context.Context, label string) error {
	return s.rdb.SAdd(ctx, s.labelsKey(), label).Err()
}

// SetCurrent registers and promotes in a single round-trip.
func (s *RedisGenStore) SetCurrent(ctx context.Context, label string) error {
	_, err := s.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.SAdd(ctx, s.labelsKey(), label)
		p.Set(ctx, s.currentKey(), label, 0)
		return nil
	})
	return err
}

func (s *RedisGenStore) Current(ctx context.Context) (string, error) {
	res, err := s.rdb.Get(ctx, s.currentKey()).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return res, nil
}

func (s *RedisGenStore) AddKey(ctx context.Context, label, storageKey string) error {
	return s.rdb.SAdd(ctx, s.membersKey(label), storageKey).Err()
}

func (s *RedisGenStore) Keys(ctx context.Context, label string) ([]string, error) {
	return s.rdb.SMembers(ctx, s.membersKey(label)).Result()
}

func (s *RedisGenStore) Labels(ctx context.Context) ([]string, error) {
	return s.rdb.SMembers(ctx, s.labelsKey()).Result()
}

// Drop removes the member set and the label in one round-trip.
func (s *RedisGenStore) Drop(ctx context.Context, label string) error {
	_, err := s.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, s.membersKey(label))
		p.SRem(ctx, s.labelsKey(), label)
		return nil
	})
	return err
}

// Close closes the underlying Redis client.
func (s *RedisGenStore) Close(ctx context.Context) error { return s.rdb.Close() }
