package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus names the external dependencies of the scheduling service:
// the appointment/doctor/leave store and the slot cache.
type HealthStatus struct {
	ScheduleStore bool      `json:"scheduleStore"`
	SlotCache     bool      `json:"slotCache"`
	CheckedAt     time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// StartHealthMonitor performs periodic health checks and updates in-memory state.
func StartHealthMonitor(slotCache *redis.Client, mongoClient *mongo.Client) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		ctx := context.Background()

		for range ticker.C {
			cacheHealthy := slotCache.Ping(ctx).Err() == nil
			storeHealthy := mongoClient.Ping(ctx, nil) == nil

			mu.Lock()
			currentHealth = HealthStatus{
				ScheduleStore: storeHealthy,
				SlotCache:     cacheHealthy,
				CheckedAt:     time.Now(),
			}
			mu.Unlock()
		}
	}()
}
