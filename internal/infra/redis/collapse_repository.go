package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// CollapseRepository persists collapse state as HSET collapse:{scope} {key} {0|1} with a TTL,
// so abandoned courses do not keep state forever.
type CollapseRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCollapseRepository(client *redis.Client, ttl time.Duration) *CollapseRepository {
	return &CollapseRepository{client: client, ttl: ttl}
}

func (r *CollapseRepository) LoadCollapse(ctx context.Context, scope string) (map[string]bool, bool, error) {
	raw, err := r.client.HGetAll(ctx, r.key(scope)).Result()
	if err != nil {
		return nil, false, errors.Wrapf(err, "load collapse state %s", scope)
	}
	if len(raw) == 0 {
		return nil, false, nil
	}
	state := make(map[string]bool, len(raw))
	for k, v := range raw {
		collapsed, err := strconv.ParseBool(v)
		if err != nil {
			continue
		}
		state[k] = collapsed
	}
	return state, true, nil
}

func (r *CollapseRepository) SaveCollapse(ctx context.Context, scope string, state map[string]bool) error {
	key := r.key(scope)
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(state) > 0 {
		values := make(map[string]interface{}, len(state))
		for k, v := range state {
			values[k] = strconv.FormatBool(v)
		}
		pipe.HSet(ctx, key, values)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
	}
	_, err := pipe.Exec(ctx)
	return errors.Wrapf(err, "save collapse state %s", scope)
}

func (r *CollapseRepository) key(scope string) string {
	return "collapse:" + scope
}
