package schedule

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"medibook/models"
	"medibook/utils"
)

// SlotCache is a best-effort read cache for generated availability. A miss
// or a cache failure is never an error; the engine just recomputes.
type SlotCache interface {
	GetDay(ctx context.Context, doctorID string, date models.CalendarDate) (*models.DayAvailability, bool)
	SetDay(ctx context.Context, day *models.DayAvailability)
	// Invalidate drops every cached day for the doctor.
	Invalidate(ctx context.Context, doctorID string)
}

// RedisSlotCache keys entries by a per-doctor version counter. Invalidation
// is a single INCR; stale keys expire on their own TTL instead of being
// enumerated and deleted.
type RedisSlotCache struct {
	client *redis.Client
}

func NewRedisSlotCache(client *redis.Client) *RedisSlotCache {
	return &RedisSlotCache{client: client}
}

func (c *RedisSlotCache) version(ctx context.Context, doctorID string) int64 {
	v, err := c.client.Get(ctx, utils.LedgerVersionPrefix+doctorID).Int64()
	if err != nil {
		return 0
	}
	return v
}

func (c *RedisSlotCache) key(ctx context.Context, doctorID string, date models.CalendarDate) string {
	return fmt.Sprintf("%s%s:%s:v%d", utils.SlotCachePrefix, doctorID, date, c.version(ctx, doctorID))
}

func (c *RedisSlotCache) GetDay(ctx context.Context, doctorID string, date models.CalendarDate) (*models.DayAvailability, bool) {
	raw, err := c.client.Get(ctx, c.key(ctx, doctorID, date)).Bytes()
	if err != nil {
		return nil, false
	}
	var day models.DayAvailability
	if err := json.Unmarshal(raw, &day); err != nil {
		utils.GetLogger().Warn("corrupt slot cache entry", zap.String("doctorId", doctorID), zap.Error(err))
		return nil, false
	}
	return &day, true
}

func (c *RedisSlotCache) SetDay(ctx context.Context, day *models.DayAvailability) {
	raw, err := json.Marshal(day)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(ctx, day.DoctorID, day.Date), raw, utils.SlotCacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("slot cache write failed", zap.String("doctorId", day.DoctorID), zap.Error(err))
	}
}

func (c *RedisSlotCache) Invalidate(ctx context.Context, doctorID string) {
	if err := c.client.Incr(ctx, utils.LedgerVersionPrefix+doctorID).Err(); err != nil {
		utils.GetLogger().Warn("slot cache invalidation failed", zap.String("doctorId", doctorID), zap.Error(err))
	}
}
