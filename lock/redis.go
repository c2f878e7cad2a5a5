package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"hackathon-backend/log"
)

const (
	lockTTL   = 15 * time.Second
	retryWait = 50 * time.Millisecond
)

var release = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`)

type Redis struct {
	rdb    *redis.Client
	prefix string
}

func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb, prefix: "hackathon:lock:"}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	k := r.prefix + key
	token := uuid.NewString()

	for {
		ok, err := r.rdb.SetNX(ctx, k, token, lockTTL).Result()
		if err != nil {
			log.Logger.Error("redis lock", zap.String("key", k), zap.Error(err))
			return nil, err
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryWait):
		}
	}

	return func() {
		// The caller's context may already be cancelled.
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := release.Run(ctx, r.rdb, []string{k}, token).Err(); err != nil {
			log.Logger.Warn("redis unlock", zap.String("key", k), zap.Error(err))
		}
	}, nil
}
