package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// LoginGuard - 사용자별 로그인 실패 횟수 추적
type LoginGuard interface {
	Locked(ctx context.Context, username string) bool
	RecordFailure(ctx context.Context, username string)
	Reset(ctx context.Context, username string)
}

type noopLoginGuard struct{}

func (noopLoginGuard) Locked(context.Context, string) bool   { return false }
func (noopLoginGuard) RecordFailure(context.Context, string) {}
func (noopLoginGuard) Reset(context.Context, string)         {}

// NoopLoginGuard - Redis 가 설정되지 않았을 때 사용
func NoopLoginGuard() LoginGuard {
	return noopLoginGuard{}
}

// RedisLoginGuard - 실패 카운터를 login_failures:<username> 키에 TTL 과 함께 저장
// Redis 장애 시에는 로그인을 막지 않고 경고만 남김
type RedisLoginGuard struct {
	rdb         redis.Cmdable
	maxFailures int64
	window      time.Duration
}

func NewRedisLoginGuard(rdb redis.Cmdable, maxFailures int, window string) (*RedisLoginGuard, error) {
	ttl, err := time.ParseDuration(window)
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("%w: invalid LOGIN_LOCKOUT_TTL", ErrMisconfigured)
	}
	if maxFailures <= 0 {
		return nil, fmt.Errorf("%w: LOGIN_MAX_FAILURES must be positive", ErrMisconfigured)
	}
	return &RedisLoginGuard{rdb: rdb, maxFailures: int64(maxFailures), window: ttl}, nil
}

func (g *RedisLoginGuard) Locked(ctx context.Context, username string) bool {
	val, err := g.rdb.Get(ctx, failureKey(username)).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		logrus.WithError(err).WithField("username", username).Warn("login guard unavailable")
		return false
	}
	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return false
	}
	return count >= g.maxFailures
}

func (g *RedisLoginGuard) RecordFailure(ctx context.Context, username string) {
	key := failureKey(username)
	pipe := g.rdb.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, g.window)
	if _, err := pipe.Exec(ctx); err != nil {
		logrus.WithError(err).WithField("username", username).Warn("record login failure failed")
	}
}

func (g *RedisLoginGuard) Reset(ctx context.Context, username string) {
	if err := g.rdb.Del(ctx, failureKey(username)).Err(); err != nil {
		logrus.WithError(err).WithField("username", username).Warn("reset login failures failed")
	}
}

func failureKey(username string) string {
	return "login_failures:" + username
}
