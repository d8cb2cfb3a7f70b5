package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus reports the reachability of each external dependency the
// ledger needs: the booking/wallet store, the two redis caches, and the
// settlement receipt queue.
type HealthStatus struct {
	Mongo        bool      `json:"mongo"`
	Cache        bool      `json:"cache"`
	AuthCache    bool      `json:"authCache"`
	ReceiptQueue bool      `json:"receiptQueue"`
	CheckedAt    time.Time `json:"checkedAt"`
}

// MonitorTargets names the clients the health monitor pings. Nil targets
// report as down.
type MonitorTargets struct {
	Mongo        *mongo.Client
	Cache        *redis.Client
	AuthCache    *redis.Client
	ReceiptQueue *redis.Client
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

func recordHealth(s HealthStatus) {
	mu.Lock()
	currentHealth = s
	mu.Unlock()
}

func pingRedis(ctx context.Context, client *redis.Client) bool {
	return client != nil && client.Ping(ctx).Err() == nil
}

// checkTargets pings every target once.
func checkTargets(ctx context.Context, t MonitorTargets) HealthStatus {
	return HealthStatus{
		Mongo:        t.Mongo != nil && t.Mongo.Ping(ctx, nil) == nil,
		Cache:        pingRedis(ctx, t.Cache),
		AuthCache:    pingRedis(ctx, t.AuthCache),
		ReceiptQueue: pingRedis(ctx, t.ReceiptQueue),
		CheckedAt:    time.Now(),
	}
}

// StartHealthMonitor checks the targets once up front and then periodically,
// updating the in-memory snapshot served by the health endpoint.
func StartHealthMonitor(targets MonitorTargets) {
	go func() {
		ctx := context.Background()
		recordHealth(checkTargets(ctx, targets))

		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			recordHealth(checkTargets(ctx, targets))
		}
	}()
}
