package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	redisIndexKey    = "sentiment:journal"
	redisEntryPrefix = "sentiment:journal:entry:"
)

// RedisJournal is a Redis implementation of the Journal interface. Entries
// are stored as JSON strings that expire on their own; a sorted set indexed
// by recording time keeps their order.
type RedisJournal struct {
	client *redis.Client
	logger *zap.Logger
	now    func() time.Time
	task   *cleanupTask
}

// NewRedisJournal connects to Redis
func NewRedisJournal(addr, password string, db int, logger *zap.Logger, cleanupFreq time.Duration) (*RedisJournal, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newRedisJournal(client, logger, cleanupFreq), nil
}

func newRedisJournal(client *redis.Client, logger *zap.Logger, cleanupFreq time.Duration) *RedisJournal {
	j := &RedisJournal{
		client: client,
		logger: logger,
		now:    time.Now,
	}

	// Start background cleanup
	j.task = startCleanupTask(cleanupFreq, logger, j.Cleanup)

	return j
}

// Record stores an entry
func (j *RedisJournal) Record(ctx context.Context, entry *core.JournalEntry) error {
	ttl := entry.ExpiresAt.Sub(j.now())
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode journal entry: %w", err)
	}

	pipe := j.client.TxPipeline()
	pipe.Set(ctx, redisEntryPrefix+entry.ID, data, ttl)
	pipe.ZAdd(ctx, redisIndexKey, redis.Z{
		Score:  float64(entry.ExpiresAt.UnixNano()),
		Member: entry.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store journal entry: %w", err)
	}
	return nil
}

// Recent returns up to limit unexpired entries, newest first
func (j *RedisJournal) Recent(ctx context.Context, limit int) ([]*core.JournalEntry, error) {
	// Entries share one retention, so expiry order is recording order
	ids, err := j.client.ZRevRangeByScore(ctx, redisIndexKey, &redis.ZRangeBy{
		Min:   "(" + strconv.FormatInt(j.now().UnixNano(), 10),
		Max:   "+inf",
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to query journal index: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisEntryPrefix + id
	}
	values, err := j.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load journal entries: %w", err)
	}

	entries := make([]*core.JournalEntry, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			// Expired between the index read and the load
			continue
		}
		var e core.JournalEntry
		if err := json.Unmarshal([]byte(s), &e); err != nil {
			j.logger.Warn("Skipping undecodable journal entry", zap.String("id", ids[i]), zap.Error(err))
			continue
		}
		entries = append(entries, &e)
	}
	return entries, nil
}

// Cleanup removes expired ids from the index. The entries themselves expire
// through their TTL.
func (j *RedisJournal) Cleanup(ctx context.Context) error {
	removed, err := j.client.ZRemRangeByScore(ctx, redisIndexKey,
		"-inf", strconv.FormatInt(j.now().UnixNano(), 10)).Result()
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}
	j.logger.Debug("Cleaned up expired journal entries", zap.Int64("expired_count", removed))
	return nil
}

// Ping checks the Redis connection
func (j *RedisJournal) Ping(ctx context.Context) error {
	return j.client.Ping(ctx).Err()
}

// Stop stops the background cleanup task and closes the client
func (j *RedisJournal) Stop() {
	j.task.stop()
	if err := j.client.Close(); err != nil {
		j.logger.Error("Failed to close Redis client", zap.Error(err))
	}
}
