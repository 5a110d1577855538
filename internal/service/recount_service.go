package service

import (
	"context"
	"fmt"
	"time"

	"github.com/blogcraft/internal/logger"
	"github.com/blogcraft/internal/repository"
)

// RecountResult 计数重算结果
type RecountResult struct {
	Categories int64         `json:"categories"`
	Tags       int64         `json:"tags"`
	Posts      int64         `json:"posts"`
	Elapsed    time.Duration `json:"elapsed"`
}

// RecountService 冗余计数重算服务
type RecountService struct {
	counters repository.CounterRepository
	now      func() time.Time
}

// NewRecountService 创建计数重算服务
func NewRecountService(counters repository.CounterRepository) *RecountService {
	return &RecountService{counters: counters, now: time.Now}
}

// Recount 重算分类、标签文章数与文章评论数
func (s *RecountService) Recount(ctx context.Context) (RecountResult, error) {
	started := s.now()
	var result RecountResult
	var err error

	if result.Categories, err = s.counters.RecountCategoryPosts(ctx, started); err != nil {
		return result, fmt.Errorf("recount category posts: %w", err)
	}
	if result.Tags, err = s.counters.RecountTagPosts(ctx, started); err != nil {
		return result, fmt.Errorf("recount tag posts: %w", err)
	}
	if result.Posts, err = s.counters.RecountPostComments(ctx); err != nil {
		return result, fmt.Errorf("recount post comments: %w", err)
	}
	result.Elapsed = s.now().Sub(started)

	logger.Infow("content_recount_done",
		"categories", result.Categories,
		"tags", result.Tags,
		"posts", result.Posts,
		"elapsed_ms", result.Elapsed.Milliseconds(),
	)
	return result, nil
}
