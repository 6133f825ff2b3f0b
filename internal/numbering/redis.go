package numbering

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/smallbiznis/officecrm/internal/clock"
)

// Counter is the part of the redis client the authority needs.
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// RedisAuthority allocates numbers with INCR on a per kind and year key.
type RedisAuthority struct {
	client   Counter
	clock    clock.Clock
	template string
}

func NewRedisAuthority(client Counter, c clock.Clock) *RedisAuthority {
	return &RedisAuthority{client: client, clock: c, template: DefaultTemplate}
}

func (a *RedisAuthority) Next(ctx context.Context, kind Kind) (string, error) {
	if !kind.Valid() {
		return "", ErrUnknownKind
	}
	now := a.clock.Now()

	seq, err := a.client.Incr(ctx, sequenceKey(kind, now.Format("06"))).Result()
	if err != nil {
		return "", fmt.Errorf("incr %s sequence: %w", kind, err)
	}
	return FormatNumber(a.template, kind.Prefix(), now, seq)
}

func sequenceKey(kind Kind, yy string) string {
	return "officecrm:seq:" + string(kind) + ":" + yy
}
