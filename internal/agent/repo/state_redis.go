package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trip-planner-core-poc/server/internal/agent/model"
	errx "github.com/trip-planner-core-poc/server/internal/core/error"
	logx "github.com/trip-planner-core-poc/server/pkg/logger"
)

type RedisStateRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisStateRepository(rdb redis.Cmdable, ttl time.Duration) *RedisStateRepository {
	return &RedisStateRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisStateRepository) stateKey(conversationID string) string {
	return fmt.Sprintf("planner:%s:state", conversationID)
}

func (r *RedisStateRepository) Load(ctx context.Context, conversationID string) (*model.PlannerState, error) {
	key := r.stateKey(conversationID)

	raw, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.DefaultPlannerState(), nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load planner state from redis")
		return nil, errx.WrapRedis(err)
	}
	s, err := decodeState(raw)
	if err != nil {
		logx.Warn().Err(err).Str("key", key).Msg("invalid planner state in redis, starting fresh")
		return model.DefaultPlannerState(), nil
	}
	return s, nil
}

func (r *RedisStateRepository) Save(ctx context.Context, conversationID string, state *model.PlannerState) error {
	b, err := encodeState(state)
	if err != nil {
		return err
	}
	key := r.stateKey(conversationID)

	// a zero ttl keeps the key forever
	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save planner state to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.StateRepository = (*RedisStateRepository)(nil)
