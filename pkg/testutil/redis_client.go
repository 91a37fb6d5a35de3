package testutil

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// InMemoryRedis implements xredis.Client with the same observable semantics
// as a real instance, including the nil-reply error for missing keys and
// the descending member-id tie-break of reverse zset queries. Safe for
// concurrent use, so concurrency properties are assertable in tests.
type InMemoryRedis struct {
	mutex   sync.Mutex
	strings map[string]string
	zsets   map[string]map[string]float64
}

func NewInMemoryRedis() *InMemoryRedis {
	return &InMemoryRedis{
		strings: make(map[string]string),
		zsets:   make(map[string]map[string]float64),
	}
}

func (r *InMemoryRedis) Exist(ctx context.Context, key string) (bool, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.strings[key]; ok {
		return true, nil
	}

	_, ok := r.zsets[key]
	return ok, nil
}

func (r *InMemoryRedis) Del(ctx context.Context, key ...string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, k := range key {
		delete(r.strings, k)
		delete(r.zsets, k)
	}

	return nil
}

func (r *InMemoryRedis) Set(ctx context.Context, key, value string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.strings[key] = value
	return nil
}

func (r *InMemoryRedis) Get(ctx context.Context, key string) (string, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	value, ok := r.strings[key]
	if !ok {
		return "", redis.Nil
	}

	return value, nil
}

func (r *InMemoryRedis) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	return r.Set(ctx, key, string(b))
}

func (r *InMemoryRedis) GetObj(ctx context.Context, key string, v any) error {
	s, err := r.Get(ctx, key)
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(s), v)
}

func (r *InMemoryRedis) IncrBy(ctx context.Context, key string, incr int64) (int64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	current := int64(0)
	if value, ok := r.strings[key]; ok {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, err
		}

		current = parsed
	}

	current += incr
	r.strings[key] = strconv.FormatInt(current, 10)
	return current, nil
}

func (r *InMemoryRedis) ZAdd(ctx context.Context, key string, z redis.Z) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.zsets[key]; !ok {
		r.zsets[key] = make(map[string]float64)
	}

	r.zsets[key][z.Member.(string)] = z.Score
	return nil
}

func (r *InMemoryRedis) ZIncrBy(ctx context.Context, key string, incr float64, member string) (float64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.zsets[key]; !ok {
		r.zsets[key] = make(map[string]float64)
	}

	r.zsets[key][member] += incr
	return r.zsets[key][member], nil
}

func (r *InMemoryRedis) ZScore(ctx context.Context, key, member string) (float64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	score, ok := r.zsets[key][member]
	if !ok {
		return 0, redis.Nil
	}

	return score, nil
}

func (r *InMemoryRedis) ZRevRangeWithScores(
	ctx context.Context, key string, offset, limit int,
) ([]redis.Z, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	sorted := r.revSorted(key)
	if offset >= len(sorted) {
		return []redis.Z{}, nil
	}

	end := offset + limit
	if end > len(sorted) {
		end = len(sorted)
	}

	return sorted[offset:end], nil
}

func (r *InMemoryRedis) ZRevRank(ctx context.Context, key string, member string) (uint64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, z := range r.revSorted(key) {
		if z.Member.(string) == member {
			return uint64(i), nil
		}
	}

	return 0, redis.Nil
}

func (r *InMemoryRedis) ZCard(ctx context.Context, key string) (uint64, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return uint64(len(r.zsets[key])), nil
}

// revSorted orders a zset by score descending, ties by member id
// descending, matching ZREVRANGE.
func (r *InMemoryRedis) revSorted(key string) []redis.Z {
	sorted := make([]redis.Z, 0, len(r.zsets[key]))
	for member, score := range r.zsets[key] {
		sorted = append(sorted, redis.Z{Member: member, Score: score})
	}

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}

		return sorted[i].Member.(string) > sorted[j].Member.(string)
	})

	return sorted
}
