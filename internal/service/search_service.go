package service

import (
	"context"
	"iter"
	"strings"
	"sync/atomic"
	"time"

	"github.com/blogcraft/internal/constants"
	"github.com/blogcraft/internal/logger"
	"github.com/blogcraft/internal/repository"
)

// SearchService 文章检索服务
type SearchService struct {
	posts     repository.PostRepository
	assembler *PostAssembler
	limits    PageLimits
	now       func() time.Time
}

// NewSearchService 创建检索服务
func NewSearchService(posts repository.PostRepository, assembler *PostAssembler, defaultLimit int) *SearchService {
	if assembler == nil {
		assembler = NewPostAssembler(0, 0)
	}
	if defaultLimit <= 0 {
		defaultLimit = constants.DefaultSearchLimit
	}
	return &SearchService{
		posts:     posts,
		assembler: assembler,
		limits:    PageLimits{Default: defaultLimit, Max: constants.MaxSearchLimit},
		now:       time.Now,
	}
}

// SearchResults 惰性、一次性的检索结果
// 首次迭代时才访问仓库，再次迭代不产生任何结果
type SearchResults struct {
	ctx      context.Context
	term     string
	limit    int
	fetch    func(ctx context.Context) ([]SearchResult, error)
	consumed atomic.Bool
}

// Search 创建检索结果；空白查询直接返回空序列
func (s *SearchService) Search(ctx context.Context, query string, limit int) *SearchResults {
	term := strings.TrimSpace(query)
	results := &SearchResults{
		ctx:   ctx,
		term:  term,
		limit: s.limits.Normalize(limit),
	}
	if term == "" {
		return results
	}
	now := s.now()
	results.fetch = func(ctx context.Context) ([]SearchResult, error) {
		posts, err := s.posts.Search(ctx, repository.SearchQuery{Term: term, Now: now, Limit: results.limit})
		if err != nil {
			return nil, err
		}
		items := make([]SearchResult, 0, len(posts))
		for _, post := range posts {
			items = append(items, s.assembler.AssembleSearchResult(post))
		}
		return items, nil
	}
	return results
}

// Term 规范化后的查询词
func (r *SearchResults) Term() string {
	if r == nil {
		return ""
	}
	return r.term
}

// All 返回结果序列
func (r *SearchResults) All() iter.Seq[SearchResult] {
	return func(yield func(SearchResult) bool) {
		if r == nil || r.fetch == nil || !r.consumed.CompareAndSwap(false, true) {
			return
		}
		ctx := r.ctx
		if ctx == nil {
			ctx = context.Background()
		}
		if ctx.Err() != nil {
			return
		}
		items, err := r.fetch(ctx)
		if err != nil {
			logger.Errorw("post_search_failed", "term", r.term, "limit", r.limit, "error", err)
			return
		}
		for _, item := range items {
			if !yield(item) {
				return
			}
		}
	}
}

// Collect 读取全部结果，总是返回非 nil 切片
func (r *SearchResults) Collect() []SearchResult {
	items := make([]SearchResult, 0)
	for item := range r.All() {
		items = append(items, item)
	}
	return items
}
