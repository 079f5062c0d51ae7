// Package datastore stores raw byte values in Redis under keyfactory keys.
package datastore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/holmberd/go-zson/keyfactory"
)

var (
	ErrKeyNotFound = errors.New("datastore: key not found")
	ErrNilKey      = errors.New("datastore: key must not be nil")
)

// Client reads and writes byte values in Redis. It is safe for concurrent use.
type Client struct {
	rdb  *redis.Client
	opts options
}

// NewClient returns a Client backed by rdb.
func NewClient(rdb *redis.Client, opts ...Option) (*Client, error) {
	if rdb == nil {
		return nil, errors.New("datastore: redis client must not be nil")
	}
	return &Client{rdb: rdb, opts: newOptions(opts)}, nil
}

// Redis returns the underlying Redis client.
func (c *Client) Redis() *redis.Client {
	return c.rdb
}

// Put stores data under key, replacing any previous value. A zero expiration
// means the key does not expire.
func (c *Client) Put(ctx context.Context, key *keyfactory.Key, data []byte, expiration time.Duration) error {
	if key == nil {
		return ErrNilKey
	}
	if err := c.rdb.Set(ctx, key.RedisKey(), data, expiration).Err(); err != nil {
		return fmt.Errorf("datastore: put %q: %w", key.RedisKey(), err)
	}
	return nil
}

// PutMulti stores data[i] under keys[i] in one pipelined round trip.
func (c *Client) PutMulti(ctx context.Context, keys []*keyfactory.Key, data [][]byte, expiration time.Duration) error {
	if len(keys) != len(data) {
		return fmt.Errorf("datastore: %d keys but %d values", len(keys), len(data))
	}
	if len(keys) == 0 {
		return nil
	}
	if slices.Contains(keys, nil) {
		return ErrNilKey
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, key := range keys {
			pipe.Set(ctx, key.RedisKey(), data[i], expiration)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("datastore: put %d keys: %w", len(keys), err)
	}
	c.opts.logger.DebugContext(ctx, "datastore: put batch", slog.Int("keys", len(keys)))
	return nil
}

// Get returns the value stored under key, or ErrKeyNotFound.
func (c *Client) Get(ctx context.Context, key *keyfactory.Key) ([]byte, error) {
	if key == nil {
		return nil, ErrKeyNotFound
	}
	data, err := c.rdb.Get(ctx, key.RedisKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("datastore: get %q: %w", key.RedisKey(), err)
	}
	return data, nil
}

// GetMulti returns the values of keys in order. The entry of a missing key is
// nil.
func (c *Client) GetMulti(ctx context.Context, keys []*keyfactory.Key) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	results, err := c.rdb.MGet(ctx, redisKeys(keys)...).Result()
	if err != nil {
		return nil, fmt.Errorf("datastore: get %d keys: %w", len(keys), err)
	}
	values := make([][]byte, len(results))
	for i, res := range results {
		switch v := res.(type) {
		case nil:
		case string:
			values[i] = []byte(v)
		default:
			return nil, fmt.Errorf("datastore: unexpected MGET result type %T", res)
		}
	}
	return values, nil
}

// Delete removes keys and returns how many existed.
func (c *Client) Delete(ctx context.Context, keys ...*keyfactory.Key) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := c.rdb.Del(ctx, redisKeys(keys)...).Result()
	if err != nil {
		return 0, fmt.Errorf("datastore: delete %d keys: %w", len(keys), err)
	}
	return n, nil
}

// DeleteMatch removes every key matching the glob pattern and returns the
// keys removed. Keys are collected with SCAN and then deleted in batches, so
// keys written during the call may survive.
func (c *Client) DeleteMatch(ctx context.Context, pattern *keyfactory.Key) ([]*keyfactory.Key, error) {
	if pattern == nil {
		return nil, nil
	}
	keys, err := c.ScanKeys(ctx, pattern)
	if err != nil {
		return nil, err
	}
	for batch := range slices.Chunk(keys, c.opts.scanBatchSize) {
		if _, err := c.Delete(ctx, batch...); err != nil {
			return nil, err
		}
	}
	c.opts.logger.DebugContext(ctx, "datastore: delete match",
		slog.String("pattern", pattern.RedisKey()),
		slog.Int("keys", len(keys)),
	)
	return keys, nil
}

// GetKeysWithCursor returns one SCAN page of keys matching pattern and the
// cursor of the next page, 0 once iteration is complete. A page may hold
// more or fewer than limit keys, and a key may appear on more than one page.
func (c *Client) GetKeysWithCursor(
	ctx context.Context,
	cursor uint64,
	limit int,
	pattern *keyfactory.Key,
) ([]*keyfactory.Key, uint64, error) {
	if pattern == nil {
		return nil, 0, nil
	}
	if limit <= 0 || limit > defaultScanBatchSize {
		limit = defaultScanBatchSize
	}
	rsKeys, next, err := c.rdb.Scan(ctx, cursor, pattern.RedisKey(), int64(limit)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("datastore: scan %q: %w", pattern.RedisKey(), err)
	}
	keys, err := parseKeys(rsKeys)
	if err != nil {
		return nil, 0, err
	}
	return keys, next, nil
}

// ScanKeys returns every key matching pattern without blocking the server.
// Keys added or removed during the scan may be missed.
func (c *Client) ScanKeys(ctx context.Context, pattern *keyfactory.Key) ([]*keyfactory.Key, error) {
	var (
		all    []*keyfactory.Key
		cursor uint64
	)
	for {
		keys, next, err := c.GetKeysWithCursor(ctx, cursor, c.opts.scanBatchSize, pattern)
		if err != nil {
			return nil, err
		}
		all = append(all, keys...)
		if next == 0 {
			break
		}
		cursor = next
	}
	return dedupe(all), nil
}

// GetKeys returns every key matching pattern using KEYS.
//
// NOTE: KEYS blocks the server while it runs.
func (c *Client) GetKeys(ctx context.Context, pattern *keyfactory.Key) ([]*keyfactory.Key, error) {
	if pattern == nil {
		return nil, nil
	}
	rsKeys, err := c.rdb.Keys(ctx, pattern.RedisKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("datastore: keys %q: %w", pattern.RedisKey(), err)
	}
	return parseKeys(rsKeys)
}

// Exists reports how many of keys are present.
func (c *Client) Exists(ctx context.Context, keys ...*keyfactory.Key) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := c.rdb.Exists(ctx, redisKeys(keys)...).Result()
	if err != nil {
		return 0, fmt.Errorf("datastore: exists: %w", err)
	}
	return n, nil
}

func redisKeys(keys []*keyfactory.Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.RedisKey()
	}
	return out
}

func parseKeys(rsKeys []string) ([]*keyfactory.Key, error) {
	keys := make([]*keyfactory.Key, len(rsKeys))
	for i, rsKey := range rsKeys {
		key, err := keyfactory.ParseRedisKey(rsKey)
		if err != nil {
			return nil, fmt.Errorf("datastore: %w", err)
		}
		keys[i] = key
	}
	return keys, nil
}

func dedupe(keys []*keyfactory.Key) []*keyfactory.Key {
	seen := make(map[string]struct{}, len(keys))
	out := keys[:0]
	for _, k := range keys {
		rk := k.RedisKey()
		if _, ok := seen[rk]; ok {
			continue
		}
		seen[rk] = struct{}{}
		out = append(out, k)
	}
	return out
}
