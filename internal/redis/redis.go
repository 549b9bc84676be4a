package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/sukalov/lyricsearch/internal/utils/e"
)

// usageTTL keeps a daily bucket around a little past its day.
const usageTTL = 48 * time.Hour

type DBManager struct {
	client *redisClient.Client
}

// NewDBManager connects to addr. A bare host:port is dialled over TLS as
// the default user, the way managed redis instances expect.
func NewDBManager(addr, password string) (*DBManager, error) {
	url := addr
	if !strings.Contains(addr, "://") {
		url = fmt.Sprintf("rediss://default:%s@%s", password, addr)
	}
	opt, err := redisClient.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if opt.Password == "" {
		opt.Password = password
	}
	return &DBManager{client: redisClient.NewClient(opt)}, nil
}

func (redis *DBManager) Ping(ctx context.Context) error {
	return redis.client.Ping(ctx).Err()
}

func (redis *DBManager) Close() error {
	return redis.client.Close()
}

// IncrementUsage bumps the lookup counter of username for day and returns
// the new value.
func (redis *DBManager) IncrementUsage(ctx context.Context, day, username string) (int, error) {
	key := usageKey(day)
	pipe := redis.client.TxPipeline()
	incr := pipe.HIncrBy(ctx, key, username, 1)
	pipe.Expire(ctx, key, usageTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment usage for user %s on %s: %w", username, day, err)
	}
	return int(incr.Val()), nil
}

// ReleaseUsage undoes one IncrementUsage.
func (redis *DBManager) ReleaseUsage(ctx context.Context, day, username string) error {
	return e.WrapIfErr("failed to release usage for user "+username,
		redis.client.HIncrBy(ctx, usageKey(day), username, -1).Err())
}

func (redis *DBManager) GetUsage(ctx context.Context, day, username string) (int, error) {
	n, err := redis.client.HGet(ctx, usageKey(day), username).Int()
	if errors.Is(err, redisClient.Nil) {
		return 0, nil
	}
	return n, e.WrapIfErr("failed to read usage for user "+username, err)
}

func (redis *DBManager) IncrementTotal(ctx context.Context, username string) error {
	if err := redis.client.HIncrBy(ctx, totalsKey, username, 1).Err(); err != nil {
		return fmt.Errorf("failed to increment total for user %s: %w", username, err)
	}
	return nil
}

// GetTotals retrieves the all-time lookup count of every user.
func (redis *DBManager) GetTotals(ctx context.Context) (map[string]int, error) {
	raw, err := redis.client.HGetAll(ctx, totalsKey).Result()
	if err != nil {
		if errors.Is(err, redisClient.Nil) {
			return map[string]int{}, nil
		}
		return nil, e.Wrap("failed to read totals", err)
	}
	return parseCounts(raw), nil
}

// GetLimit returns the stored daily limit; ok is false when none was set.
func (redis *DBManager) GetLimit(ctx context.Context) (limit int, ok bool, err error) {
	limit, err = redis.client.Get(ctx, limitKey).Int()
	if errors.Is(err, redisClient.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return limit, true, nil
}

func (redis *DBManager) SetLimit(ctx context.Context, limit int) error {
	return e.WrapIfErr("failed to store limit", redis.client.Set(ctx, limitKey, limit, 0).Err())
}

func parseCounts(raw map[string]string) map[string]int {
	result := make(map[string]int, len(raw))
	for user, count := range raw {
		n, err := strconv.Atoi(count)
		if err != nil {
			continue // skip invalid counts
		}
		result[user] = n
	}
	return result
}
