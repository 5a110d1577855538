package service

import (
	"context"
	"sync"
	"time"

	"github.com/blogcraft/internal/logger"
	"github.com/blogcraft/internal/queue"
	"github.com/blogcraft/internal/repository"

	"github.com/hibiken/asynq"
)

const defaultViewIncrementTimeout = 3 * time.Second

// ViewTaskQueue 浏览量任务投递接口（*queue.Client 实现）
type ViewTaskQueue interface {
	Enabled() bool
	EnqueuePostViewIncrement(payload queue.PostViewIncrementPayload, opts ...asynq.Option) error
}

// ViewCounter 浏览量计数
// Record 立即返回，自增在后台完成；同一访客的重复访问不做去重
type ViewCounter struct {
	posts   repository.PostRepository
	queue   ViewTaskQueue
	timeout time.Duration
	now     func() time.Time
	wg      sync.WaitGroup
}

// NewViewCounter 创建浏览量计数器
func NewViewCounter(posts repository.PostRepository, taskQueue ViewTaskQueue, timeout time.Duration) *ViewCounter {
	if timeout <= 0 {
		timeout = defaultViewIncrementTimeout
	}
	return &ViewCounter{
		posts:   posts,
		queue:   taskQueue,
		timeout: timeout,
		now:     time.Now,
	}
}

// Record 记录一次浏览，不等待结果
func (c *ViewCounter) Record(postID uint) {
	if c == nil || postID == 0 {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if c.queue != nil && c.queue.Enabled() {
			err := c.queue.EnqueuePostViewIncrement(queue.PostViewIncrementPayload{
				PostID:   postID,
				ViewedAt: c.now().UTC(),
			})
			if err == nil {
				return
			}
			logger.Warnw("view_increment_enqueue_failed", "post_id", postID, "error", err)
		}
		// 请求上下文可能已结束，使用独立的超时上下文
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		_ = c.Increment(ctx, postID)
	}()
}

// Increment 同步执行一次自增（队列消费者与降级路径共用）
func (c *ViewCounter) Increment(ctx context.Context, postID uint) error {
	affected, err := c.posts.IncrementViews(ctx, postID)
	if err != nil {
		logger.Warnw("view_increment_failed", "post_id", postID, "error", err)
		return err
	}
	if affected == 0 {
		logger.Debugw("view_increment_skipped", "post_id", postID, "reason", "post_not_found")
	}
	return nil
}

// Wait 等待已发起的后台自增完成
func (c *ViewCounter) Wait() {
	if c == nil {
		return
	}
	c.wg.Wait()
}
