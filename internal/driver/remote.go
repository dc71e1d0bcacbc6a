package driver

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"poet/internal/project"
)

// DefaultRemoteTTL is how long remote entries live.
const DefaultRemoteTTL = 7 * 24 * time.Hour

// RemoteCache shares entries between machines through redis. Values are the
// same msgpack encoding as DiskCache.
type RemoteCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// OpenRemoteCache connects to a redis:// or rediss:// URL and pings it.
func OpenRemoteCache(ctx context.Context, url string, ttl time.Duration) (*RemoteCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("cache url: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultRemoteTTL
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect %s: %w", opts.Addr, err)
	}
	return &RemoteCache{client: client, prefix: "poet:render:", ttl: ttl}, nil
}

func (c *RemoteCache) key(k project.Digest) string {
	return c.prefix + hex.EncodeToString(k[:])
}

func (c *RemoteCache) Get(ctx context.Context, key project.Digest) (*Entry, bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var e Entry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return nil, false, err
	}
	if e.Schema != cacheSchemaVersion {
		return nil, false, nil
	}
	return &e, true, nil
}

func (c *RemoteCache) Put(ctx context.Context, key project.Digest, e *Entry) error {
	e.Schema = cacheSchemaVersion
	data, err := msgpack.Marshal(e)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(key), data, c.ttl).Err()
}

func (c *RemoteCache) Close() error {
	return c.client.Close()
}

// Layered reads through the caches in order and writes to all of them. A
// hit in a later cache is copied into the earlier ones.
type Layered []Cache

func (l Layered) Get(ctx context.Context, key project.Digest) (*Entry, bool, error) {
	var errs []error
	for i, c := range l {
		e, ok, err := c.Get(ctx, key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			for _, earlier := range l[:i] {
				if err := earlier.Put(ctx, key, e); err != nil {
					errs = append(errs, err)
				}
			}
			return e, true, errors.Join(errs...)
		}
	}
	return nil, false, errors.Join(errs...)
}

func (l Layered) Put(ctx context.Context, key project.Digest, e *Entry) error {
	var errs []error
	for _, c := range l {
		if err := c.Put(ctx, key, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
