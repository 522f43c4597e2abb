// Package cache implements the cache-aside layer in front of the
// repositories: a small key/value capability, a Redis implementation of it,
// and a Gateway that never lets a cache failure reach the caller.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by a Store when the key does not exist.
var ErrMiss = errors.New("cache: miss")

// Store is the key/value capability the gateway needs. Values are strings;
// hashes map field names to strings and sets hold string members.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	HGet(ctx context.Context, key, field string) (string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	// HSetWithTTL replaces the whole hash and sets its expiry atomically.
	HSetWithTTL(ctx context.Context, key string, fields map[string]string, ttl time.Duration) error

	SMembers(ctx context.Context, key string) ([]string, error)
	// SAddWithTTL replaces the whole set and sets its expiry atomically.
	SAddWithTTL(ctx context.Context, key string, members []string, ttl time.Duration) error

	Del(ctx context.Context, keys ...string) error
	DelPattern(ctx context.Context, pattern string) error
	Expire(ctx context.Context, key string, ttl time.Duration) error

	Close() error
}

// NilStore is a Store that never holds anything. It is used when no cache
// server is configured.
type NilStore struct{}

var _ Store = NilStore{}

func (NilStore) Get(context.Context, string) (string, error)              { return "", ErrMiss }
func (NilStore) Set(context.Context, string, string, time.Duration) error { return nil }
func (NilStore) HGet(context.Context, string, string) (string, error)     { return "", ErrMiss }
func (NilStore) HGetAll(context.Context, string) (map[string]string, error) {
	return nil, ErrMiss
}
func (NilStore) HSetWithTTL(context.Context, string, map[string]string, time.Duration) error {
	return nil
}
func (NilStore) SMembers(context.Context, string) ([]string, error) { return nil, ErrMiss }
func (NilStore) SAddWithTTL(context.Context, string, []string, time.Duration) error {
	return nil
}
func (NilStore) Del(context.Context, ...string) error                { return nil }
func (NilStore) DelPattern(context.Context, string) error            { return nil }
func (NilStore) Expire(context.Context, string, time.Duration) error { return nil }
func (NilStore) Close() error                                        { return nil }
