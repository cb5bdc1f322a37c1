package redis

import (
	"context"
	"strconv"
	"time"

	"basegenius-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// IssuanceLog records issued mint signatures in Redis, one hash per week:
// HSET mint:issued:{week} {address} {issuedAt RFC3339}. Audit only; nothing
// reads these entries to gate signing.
type IssuanceLog struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIssuanceLog(client *redis.Client, ttl time.Duration) *IssuanceLog {
	return &IssuanceLog{client: client, ttl: ttl}
}

func (l *IssuanceLog) Record(ctx context.Context, rec domain.IssuanceRecord) error {
	key := l.key(rec.Week)
	pipe := l.client.Pipeline()
	pipe.HSet(ctx, key, rec.Address, rec.IssuedAt.Format(time.RFC3339))
	if l.ttl > 0 {
		pipe.Expire(ctx, key, l.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (l *IssuanceLog) key(week uint64) string {
	return "mint:issued:" + strconv.FormatUint(week, 10)
}
