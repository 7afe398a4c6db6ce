package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"curriculum-editor/internal/domain"
	"curriculum-editor/internal/payload"
)

// BankLoader fetches the module and activity catalog from a backing store.
type BankLoader interface {
	LoadModules(ctx context.Context) ([]payload.ModuleRecord, error)
	LoadActivities(ctx context.Context) ([]payload.ActivityRecord, error)
}

// BankRepository caches the catalog in Redis, one hash per kind, and falls back to a loader on miss.
// Modules are stored as:    HSET bank:modules {id} {json}
// Activities are stored as: HSET bank:activities {id} {json}
type BankRepository struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	sf     singleflight.Group
	rndMu  sync.Mutex
	rnd    *rand.Rand
}

func NewBankRepository(client *redis.Client, loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

const (
	modulesKey    = "bank:modules"
	activitiesKey = "bank:activities"
)

func (r *BankRepository) ListModules(ctx context.Context) ([]payload.ModuleRecord, error) {
	raw, err := r.entries(ctx, modulesKey, func(ctx context.Context) (map[string]interface{}, error) {
		modules, err := r.loader.LoadModules(ctx)
		if err != nil {
			return nil, err
		}
		return encodeByID(modules, func(m payload.ModuleRecord) string { return m.ID })
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[payload.ModuleRecord](raw)
}

func (r *BankRepository) ListActivities(ctx context.Context) ([]payload.ActivityRecord, error) {
	raw, err := r.entries(ctx, activitiesKey, func(ctx context.Context) (map[string]interface{}, error) {
		activities, err := r.loader.LoadActivities(ctx)
		if err != nil {
			return nil, err
		}
		return encodeByID(activities, func(a payload.ActivityRecord) string { return a.ID })
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[payload.ActivityRecord](raw)
}

func (r *BankRepository) GetModule(ctx context.Context, id string) (payload.ModuleRecord, error) {
	var m payload.ModuleRecord
	err := r.entry(ctx, modulesKey, id, &m, func(ctx context.Context) error {
		_, err := r.ListModules(ctx)
		return err
	})
	return m, err
}

func (r *BankRepository) GetActivity(ctx context.Context, id string) (payload.ActivityRecord, error) {
	var a payload.ActivityRecord
	err := r.entry(ctx, activitiesKey, id, &a, func(ctx context.Context) error {
		_, err := r.ListActivities(ctx)
		return err
	})
	return a, err
}

// entry reads one cached record, filling the cache first when the hash is missing.
func (r *BankRepository) entry(ctx context.Context, key, id string, out interface{}, fill func(context.Context) error) error {
	raw, err := r.client.HGet(ctx, key, id).Result()
	if err == redis.Nil {
		exists, xerr := r.client.Exists(ctx, key).Result()
		if xerr != nil {
			return errors.Wrap(xerr, "check bank cache")
		}
		if exists > 0 {
			return domain.ErrBankEntryNotFound
		}
		if err := fill(ctx); err != nil {
			return err
		}
		raw, err = r.client.HGet(ctx, key, id).Result()
	}
	if err == redis.Nil {
		return domain.ErrBankEntryNotFound
	}
	if err != nil {
		return errors.Wrapf(err, "read bank entry %s", id)
	}
	return errors.Wrapf(json.Unmarshal([]byte(raw), out), "decode bank entry %s", id)
}

// entries returns the whole hash, loading it through singleflight on a miss.
func (r *BankRepository) entries(ctx context.Context, key string, load func(context.Context) (map[string]interface{}, error)) (map[string]string, error) {
	raw, err := r.client.HGetAll(ctx, key).Result()
	if err == nil && len(raw) > 0 {
		return raw, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		raw, err := r.client.HGetAll(ctx, key).Result()
		if err == nil && len(raw) > 0 {
			return raw, nil
		}

		values, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			return map[string]string{}, nil
		}

		ttl := r.ttlWithJitter()
		pipe := r.client.TxPipeline()
		pipe.HSet(ctx, key, values)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, errors.Wrap(err, "fill bank cache")
		}

		out := make(map[string]string, len(values))
		for id, v := range values {
			out[id] = v.(string)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string]string), nil
}

func encodeByID[T any](items []T, id func(T) string) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(items))
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return nil, errors.Wrap(err, "encode bank entry")
		}
		out[id(item)] = string(data)
	}
	return out, nil
}

// decodeAll decodes a hash into records ordered by id, numerically when ids are numbers.
func decodeAll[T any](raw map[string]string) ([]T, error) {
	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return idLess(ids[i], ids[j]) })

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		var item T
		if err := json.Unmarshal([]byte(raw[id]), &item); err != nil {
			return nil, errors.Wrapf(err, "decode bank entry %s", id)
		}
		out = append(out, item)
	}
	return out, nil
}

func idLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
