package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/blogcraft/internal/config"
	"github.com/blogcraft/internal/logger"
	"github.com/blogcraft/internal/queue"
	"github.com/blogcraft/internal/service"

	"github.com/robfig/cron/v3"
)

// RecountEnqueuer 计数重算任务投递接口（*queue.Client 实现）
type RecountEnqueuer interface {
	Enabled() bool
	EnqueueContentRecount(payload queue.ContentRecountPayload, delay time.Duration) error
}

// Recounter 计数重算执行接口（*service.RecountService 实现）
type Recounter interface {
	Recount(ctx context.Context) (service.RecountResult, error)
}

// Scheduler 定时触发冗余计数重算
// 队列可用时投递任务交由 worker 执行，否则在当前进程内直接重算
type Scheduler struct {
	name      string
	cron      *cron.Cron
	enqueuer  RecountEnqueuer
	recounter Recounter

	mu      sync.Mutex
	running bool
	ctx     context.Context
}

// NewScheduler 创建计数重算调度服务
func NewScheduler(cfg config.RecountConfig, enqueuer RecountEnqueuer, recounter Recounter) (*Scheduler, error) {
	if !cfg.Enabled {
		return nil, errors.New("recount disabled")
	}
	if recounter == nil {
		return nil, errors.New("recounter is nil")
	}
	spec := strings.TrimSpace(cfg.Schedule)
	if spec == "" {
		return nil, errors.New("recount schedule is empty")
	}
	s := &Scheduler{
		name:      "scheduler",
		cron:      cron.New(),
		enqueuer:  enqueuer,
		recounter: recounter,
		ctx:       context.Background(),
	}
	if _, err := s.cron.AddFunc(spec, s.trigger); err != nil {
		return nil, fmt.Errorf("add recount cron: %w", err)
	}
	return s, nil
}

// Name 服务名称
func (s *Scheduler) Name() string {
	if s == nil || s.name == "" {
		return "scheduler"
	}
	return s.name
}

// Start 启动调度并阻塞至 ctx 结束
func (s *Scheduler) Start(ctx context.Context) error {
	if s == nil || s.cron == nil {
		return errors.New("scheduler not initialized")
	}
	s.mu.Lock()
	s.ctx = ctx
	s.running = true
	s.mu.Unlock()

	s.cron.Start()
	logger.Infow("scheduler_started", "entries", len(s.cron.Entries()))
	<-ctx.Done()
	return nil
}

// Stop 停止调度并等待执行中的任务结束
func (s *Scheduler) Stop(ctx context.Context) error {
	if s == nil || s.cron == nil {
		return nil
	}
	s.mu.Lock()
	running := s.running
	s.running = false
	s.mu.Unlock()
	if !running {
		return nil
	}
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) trigger() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if err := s.RunOnce(ctx); err != nil {
		logger.Warnw("scheduler_recount_failed", "error", err)
	}
}

// RunOnce 执行一次调度：优先投递队列，队列不可用时直接重算
func (s *Scheduler) RunOnce(ctx context.Context) error {
	if s.enqueuer != nil && s.enqueuer.Enabled() {
		err := s.enqueuer.EnqueueContentRecount(queue.ContentRecountPayload{Reason: "schedule"}, 0)
		if err == nil {
			logger.Debugw("scheduler_recount_enqueued")
			return nil
		}
		logger.Warnw("scheduler_recount_enqueue_failed", "error", err)
	}
	_, err := s.recounter.Recount(ctx)
	return err
}
