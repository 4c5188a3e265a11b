package localstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/nutrifit/internal/gamification"
	"github.com/2beens/nutrifit/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type RedisStore struct {
	redisClient *redis.Client
}

func NewRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{
		redisClient: redisClient,
	}
}

func (s *RedisStore) Get(ctx context.Context, userID string) (_ gamification.State, _ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "localstore.redis.get")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	stateJson, err := s.redisClient.Get(ctx, stateKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return gamification.State{}, false, nil
	}
	if err != nil {
		return gamification.State{}, false, fmt.Errorf("redis get: %w", err)
	}

	state, err := decode(stateJson)
	if err != nil {
		return gamification.State{}, false, err
	}
	return state, true, nil
}

func (s *RedisStore) Save(ctx context.Context, userID string, state gamification.State) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "localstore.redis.save")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	span.SetAttributes(attribute.String("user.id", userID))

	stateJson, err := encode(state)
	if err != nil {
		return err
	}

	// no expiration, the record lives as long as the user does
	if err := s.redisClient.Set(ctx, stateKey(userID), stateJson, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
