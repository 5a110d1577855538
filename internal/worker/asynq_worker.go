package worker

import (
	"context"
	"errors"

	"github.com/blogcraft/internal/logger"
	"github.com/blogcraft/internal/provider"
	"github.com/blogcraft/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPostViewIncrement, c.handlePostViewIncrement)
	mux.HandleFunc(queue.TaskContentRecount, c.handleContentRecount)
}

func (c *Consumer) handlePostViewIncrement(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_post_view_increment_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParsePostViewIncrementPayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_post_view_increment_unmarshal_failed", "error", err)
		// 负载无法解析时重试无意义
		return errors.Join(err, asynq.SkipRetry)
	}
	if payload.PostID == 0 {
		logger.Debugw("worker_post_view_increment_skip_invalid_payload", "post_id", payload.PostID)
		return nil
	}
	if c.ViewCounter == nil {
		logger.Warnw("worker_post_view_increment_skip_counter_nil", "post_id", payload.PostID)
		return nil
	}
	if err := c.ViewCounter.Increment(ctx, payload.PostID); err != nil {
		logger.Warnw("worker_post_view_increment_failed", "post_id", payload.PostID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleContentRecount(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_content_recount_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseContentRecountPayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_content_recount_unmarshal_failed", "error", err)
		return errors.Join(err, asynq.SkipRetry)
	}
	if c.RecountService == nil {
		logger.Warnw("worker_content_recount_skip_service_nil", "reason", payload.Reason)
		return nil
	}
	if _, err := c.RecountService.Recount(ctx); err != nil {
		logger.Warnw("worker_content_recount_failed", "reason", payload.Reason, "error", err)
		return err
	}
	return nil
}
