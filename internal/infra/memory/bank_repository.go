package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"curriculum-editor/internal/domain"
	"curriculum-editor/internal/payload"
	"golang.org/x/sync/singleflight"
)

// BankLoader fetches the module and activity catalog from a backing store.
type BankLoader interface {
	LoadModules(ctx context.Context) ([]payload.ModuleRecord, error)
	LoadActivities(ctx context.Context) ([]payload.ActivityRecord, error)
}

// BankRepository caches the catalog with TTL to avoid repeated backing store hits.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rndMu  sync.Mutex
	rnd    *rand.Rand

	mu         sync.RWMutex
	modules    cachedList[payload.ModuleRecord]
	activities cachedList[payload.ActivityRecord]
}

type cachedList[T any] struct {
	items     []T
	expiresAt time.Time
}

func NewBankRepository(loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) ListModules(ctx context.Context) ([]payload.ModuleRecord, error) {
	return cachedLoad(ctx, r, "modules", &r.modules, r.loader.LoadModules)
}

func (r *BankRepository) ListActivities(ctx context.Context) ([]payload.ActivityRecord, error) {
	return cachedLoad(ctx, r, "activities", &r.activities, r.loader.LoadActivities)
}

func (r *BankRepository) GetModule(ctx context.Context, id string) (payload.ModuleRecord, error) {
	modules, err := r.ListModules(ctx)
	if err != nil {
		return payload.ModuleRecord{}, err
	}
	for _, m := range modules {
		if m.ID == id {
			return m, nil
		}
	}
	return payload.ModuleRecord{}, domain.ErrBankEntryNotFound
}

func (r *BankRepository) GetActivity(ctx context.Context, id string) (payload.ActivityRecord, error) {
	activities, err := r.ListActivities(ctx)
	if err != nil {
		return payload.ActivityRecord{}, err
	}
	for _, a := range activities {
		if a.ID == id {
			return a, nil
		}
	}
	return payload.ActivityRecord{}, domain.ErrBankEntryNotFound
}

func cachedLoad[T any](ctx context.Context, r *BankRepository, key string, slot *cachedList[T], fetch func(context.Context) ([]T, error)) ([]T, error) {
	now := r.clock()

	r.mu.RLock()
	if slot.expiresAt.After(now) {
		items := slot.items
		r.mu.RUnlock()
		return items, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if slot.expiresAt.After(now) {
			items := slot.items
			r.mu.RUnlock()
			return items, nil
		}
		r.mu.RUnlock()

		items, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		ttl := r.ttlWithJitter()
		r.mu.Lock()
		*slot = cachedList[T]{items: items, expiresAt: now.Add(ttl)}
		r.mu.Unlock()
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]T), nil
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticBankLoader is a simple loader backed by in-memory slices (useful for tests/demos).
type StaticBankLoader struct {
	modules    []payload.ModuleRecord
	activities []payload.ActivityRecord
}

func NewStaticBankLoader(modules []payload.ModuleRecord, activities []payload.ActivityRecord) *StaticBankLoader {
	return &StaticBankLoader{modules: modules, activities: activities}
}

func (l *StaticBankLoader) LoadModules(_ context.Context) ([]payload.ModuleRecord, error) {
	return l.modules, nil
}

func (l *StaticBankLoader) LoadActivities(_ context.Context) ([]payload.ActivityRecord, error) {
	return l.activities, nil
}
