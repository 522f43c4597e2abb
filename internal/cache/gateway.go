package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"vocabtrainer/internal/metrics"
)

// Gateway wraps a Store for cache-aside reads. Store failures are logged,
// counted and reported to callers as a miss (reads) or ignored (writes).
type Gateway struct {
	store   Store
	keys    Keys
	ttl     TTLPolicy
	logger  *zap.Logger
	metrics metrics.Collector
	group   singleflight.Group
}

// NewGateway creates a new gateway
func NewGateway(store Store, keys Keys, ttl TTLPolicy, logger *zap.Logger, collector metrics.Collector) *Gateway {
	if store == nil {
		store = NilStore{}
	}
	if collector == nil {
		collector = metrics.NewNoop()
	}
	return &Gateway{
		store:   store,
		keys:    keys,
		ttl:     ttl,
		logger:  logger,
		metrics: collector,
	}
}

// Keys returns the key builder
func (g *Gateway) Keys() Keys { return g.keys }

// TTL returns the expiry policy
func (g *Gateway) TTL() TTLPolicy { return g.ttl }

// result classifies a store read and reports whether it was a hit
func (g *Gateway) result(op, key string, err error) bool {
	switch {
	case err == nil:
		g.metrics.IncCounter(metrics.CacheHits, 1)
		return true
	case errors.Is(err, ErrMiss):
		g.metrics.IncCounter(metrics.CacheMisses, 1)
	default:
		g.degraded(op, key, err)
		g.metrics.IncCounter(metrics.CacheMisses, 1)
	}
	return false
}

func (g *Gateway) degraded(op, key string, err error) {
	g.metrics.IncCounter(metrics.CacheErrors, 1)
	g.logger.Debug("Cache unavailable",
		zap.String("op", op),
		zap.String("key", key),
		zap.Error(err),
	)
}

// ReadJSON decodes the value at key into dest. It reports false on a miss,
// a store error, or a value that does not decode.
func (g *Gateway) ReadJSON(ctx context.Context, key string, dest any) bool {
	raw, err := g.store.Get(ctx, key)
	if !g.result("get", key, err) {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		g.degraded("decode", key, err)
		return false
	}
	return true
}

// WriteJSON stores v at key as JSON
func (g *Gateway) WriteJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		g.degraded("encode", key, err)
		return
	}
	if err := g.store.Set(ctx, key, string(raw), ttl); err != nil {
		g.degraded("set", key, err)
	}
}

// ReadRecord returns all fields of the hash at key. Field values are JSON.
func (g *Gateway) ReadRecord(ctx context.Context, key string) (map[string]string, bool) {
	fields, err := g.store.HGetAll(ctx, key)
	if !g.result("hgetall", key, err) {
		return nil, false
	}
	return fields, true
}

// ReadRecordField returns one field of the hash at key
func (g *Gateway) ReadRecordField(ctx context.Context, key, field string) (string, bool) {
	val, err := g.store.HGet(ctx, key, field)
	if !g.result("hget", key, err) {
		return "", false
	}
	return val, true
}

// WriteRecord replaces the hash at key
func (g *Gateway) WriteRecord(ctx context.Context, key string, fields map[string]string, ttl time.Duration) {
	if ttl <= 0 || len(fields) == 0 {
		return
	}
	if err := g.store.HSetWithTTL(ctx, key, fields, ttl); err != nil {
		g.degraded("hset", key, err)
	}
}

// ReadMembers returns the members of the set at key
func (g *Gateway) ReadMembers(ctx context.Context, key string) ([]string, bool) {
	members, err := g.store.SMembers(ctx, key)
	if !g.result("smembers", key, err) {
		return nil, false
	}
	return members, true
}

// WriteMembers replaces the set at key. Empty sets are not cached.
func (g *Gateway) WriteMembers(ctx context.Context, key string, members []string, ttl time.Duration) {
	if ttl <= 0 || len(members) == 0 {
		return
	}
	if err := g.store.SAddWithTTL(ctx, key, members, ttl); err != nil {
		g.degraded("sadd", key, err)
	}
}

// Invalidate removes the given keys
func (g *Gateway) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := g.store.Del(ctx, keys...); err != nil {
		g.degraded("del", keys[0], err)
	}
}

// InvalidateMatching removes every key matching pattern
func (g *Gateway) InvalidateMatching(ctx context.Context, pattern string) {
	if err := g.store.DelPattern(ctx, pattern); err != nil {
		g.degraded("delpattern", pattern, err)
	}
}

// InvalidateUser removes every entry derived from the user's data
func (g *Gateway) InvalidateUser(ctx context.Context, userID int64) {
	g.InvalidateMatching(ctx, g.keys.UserPattern(userID))
}

// Fetch returns the JSON-cached value at key, or loads it, caches it and
// returns it. Concurrent misses on the same key share one load. The returned
// value may be shared between callers and must not be mutated.
func Fetch[T any](ctx context.Context, g *Gateway, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if g.ReadJSON(ctx, key, &cached) {
		return cached, nil
	}

	v, err, _ := g.group.Do(key, func() (any, error) {
		val, err := load(ctx)
		if err != nil {
			return nil, err
		}
		g.WriteJSON(ctx, key, val, ttl)
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// FetchRecord is Fetch for values cached as a hash, one field per top-level
// JSON property of T. T must encode as a JSON object.
func FetchRecord[T any](ctx context.Context, g *Gateway, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if fields, ok := g.ReadRecord(ctx, key); ok {
		var cached T
		err := decodeRecord(fields, &cached)
		if err == nil {
			return cached, nil
		}
		g.degraded("decode", key, err)
	}

	v, err, _ := g.group.Do(key, func() (any, error) {
		val, err := load(ctx)
		if err != nil {
			return nil, err
		}
		fields, err := encodeRecord(val)
		if err != nil {
			g.degraded("encode", key, err)
		} else {
			g.WriteRecord(ctx, key, fields, ttl)
		}
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func encodeRecord(v any) (map[string]string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var props map[string]json.RawMessage
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil, err
	}
	fields := make(map[string]string, len(props))
	for name, val := range props {
		fields[name] = string(val)
	}
	return fields, nil
}

func decodeRecord(fields map[string]string, dest any) error {
	props := make(map[string]json.RawMessage, len(fields))
	for name, val := range fields {
		props[name] = json.RawMessage(val)
	}
	raw, err := json.Marshal(props)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
