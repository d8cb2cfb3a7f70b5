package tasks

import (
	"context"
	"encoding/json"

	"washlane/models"

	"github.com/hibiken/asynq"
)

const TypeSettlementReceipt = "receipt:settlement"

// NewSettlementReceiptTask builds the queue task for a settlement receipt.
func NewSettlementReceiptTask(receipt models.SettlementReceipt) (*asynq.Task, error) {
	b, err := json.Marshal(receipt)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSettlementReceipt, b), nil
}

// Enqueuer pushes settlement receipts onto the async queue. It satisfies the
// wallet service's notifier: enqueue failures are reported to the caller,
// which logs and moves on.
type Enqueuer struct {
	Client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{Client: client}
}

func (e *Enqueuer) SettlementReceipt(ctx context.Context, receipt models.SettlementReceipt) error {
	task, err := NewSettlementReceiptTask(receipt)
	if err != nil {
		return err
	}
	_, err = e.Client.EnqueueContext(ctx, task, asynq.MaxRetry(5))
	return err
}
