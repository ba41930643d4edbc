package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const maxTxRetries = 5

// RedisStore shares counters between API instances. Each entry is a string
// "count:resetUnixMilli" that expires with its window.
type RedisStore struct {
	client *goredis.Client
	prefix string
}

var _ Store = (*RedisStore)(nil)

// stringGetter is satisfied by both *goredis.Client and *goredis.Tx.
type stringGetter interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}

func NewRedisStore(client *goredis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "rl:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Apply runs fn inside a WATCH/MULTI transaction and retries when another
// instance modified the key concurrently.
func (s *RedisStore) Apply(ctx context.Context, key string, fn func(Entry, bool) (Entry, bool)) error {
	fullKey := s.prefix + key

	txf := func(tx *goredis.Tx) error {
		cur, found, err := s.read(ctx, tx, fullKey)
		if err != nil {
			return err
		}

		next, write := fn(cur, found)
		if !write {
			return nil
		}

		ttl := time.Until(next.ResetAt)
		if ttl < time.Millisecond {
			ttl = time.Millisecond
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, fullKey, encodeEntry(next), ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, fullKey)
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("redis rate limit apply failed: %w", err)
		}
		return nil
	}
	return fmt.Errorf("redis rate limit apply: too much contention on %s", key)
}

func (s *RedisStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	return s.read(ctx, s.client, s.prefix+key)
}

func (s *RedisStore) read(ctx context.Context, c stringGetter, key string) (Entry, bool, error) {
	raw, err := c.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("redis rate limit read failed: %w", err)
	}
	e, err := decodeEntry(raw)
	if err != nil {
		// corrupt value: treat as absent so the next Apply overwrites it
		return Entry{}, false, nil
	}
	return e, true, nil
}

func encodeEntry(e Entry) string {
	return strconv.Itoa(e.Count) + ":" + strconv.FormatInt(e.ResetAt.UnixMilli(), 10)
}

func decodeEntry(raw string) (Entry, error) {
	countStr, resetStr, ok := strings.Cut(raw, ":")
	if !ok {
		return Entry{}, fmt.Errorf("malformed entry %q", raw)
	}
	count, err := strconv.Atoi(countStr)
	if err != nil {
		return Entry{}, err
	}
	resetMs, err := strconv.ParseInt(resetStr, 10, 64)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Count: count, ResetAt: time.UnixMilli(resetMs)}, nil
}
