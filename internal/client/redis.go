// Redis 클라이언트 (로그인 실패 카운터 저장용)
//
// 환경변수:
//   - REDIS_ADDR: host:port (비어있으면 로그인 잠금 비활성화)
//   - REDIS_PASSWORD
//   - REDIS_DB (default: 0)

package client

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/reservation-desk/backend/internal/config"
)

// NewRedisClient - 클라이언트 생성 후 Ping 으로 연결 확인
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}
