package cron

import (
	"context"
	"encoding/json"
	"time"

	"washlane/config"
	"washlane/models"
	"washlane/services/tasks"
	"washlane/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ReceiptQueueRedisOpt returns the connection options for the receipt queue.
func ReceiptQueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReceiptQueueDB,
	}
}

// ReceiptQueueRedisClient returns a plain redis client on the receipt queue
// database, for probing the queue's backing store.
func ReceiptQueueRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReceiptQueueDB,
	})
}

// InitReceiptWorker runs the async receipt worker in the background.
func InitReceiptWorker() {
	srv := asynq.NewServer(
		ReceiptQueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSettlementReceipt, handleSettlementReceipt)

	go monitorRedisConnection()

	go func() {
		logger := utils.GetLogger()
		logger.Info("Starting receipt worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("Receipt worker failed to start",
					zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))

				if attempts == maxAttempts {
					logger.Fatal("Receipt worker exhausted start attempts")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handleSettlementReceipt processes a settlement receipt task. Delivery here
// is a log line; swapping in an SMS or email sender is a config change at the
// call site, not a queue change.
func handleSettlementReceipt(ctx context.Context, task *asynq.Task) error {
	logger := utils.GetLogger()

	var r models.SettlementReceipt
	if err := json.Unmarshal(task.Payload(), &r); err != nil {
		logger.Error("Invalid receipt payload", zap.Error(err))
		return err
	}

	logger.Info("Settlement receipt",
		zap.String("attendantID", r.AttendantID),
		zap.String("attendantName", r.AttendantName),
		zap.String("amountPaid", utils.FormatAmount(r.AmountPaid)),
		zap.String("debtCleared", utils.FormatAmount(r.DebtCleared)),
		zap.Int64("bookingsCovered", r.BookingsCovered),
		zap.Time("settledAt", r.SettledAt),
	)
	return nil
}

// monitorRedisConnection pings the queue's Redis periodically to surface
// failures at runtime.
func monitorRedisConnection() {
	client := ReceiptQueueRedisClient()
	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			utils.GetLogger().Warn("Receipt queue Redis connection lost", zap.Error(err))
		}
		time.Sleep(10 * time.Second)
	}
}
