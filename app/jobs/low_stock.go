// Package jobs defines the background jobs dispatched on pkg/queue.
package jobs

import (
	"context"

	"github.com/priyamehta/aarohi/pkg/logger"
	"github.com/priyamehta/aarohi/pkg/queue"
)

// LowStockAlertName is the registry key for LowStockAlertJob.
const LowStockAlertName = "*jobs.LowStockAlertJob"

// LowStockAlertJob notifies operations that a product's stock fell below
// its threshold. The notification channel is the structured log for now; a
// mail or webhook sink can replace the body without touching dispatch.
type LowStockAlertJob struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
}

// Handle implements queue.Job.
func (j *LowStockAlertJob) Handle(ctx context.Context) error {
	logger.WithCtx(ctx).Warn("low stock alert",
		"product", j.ProductID,
		"name", j.Name,
		"stock", j.Stock,
		"threshold", j.Threshold,
	)
	return nil
}

// Register makes all job types known to the queue. Call once at boot.
func Register() {
	queue.Register(LowStockAlertName, func() queue.Job { return &LowStockAlertJob{} })
}
